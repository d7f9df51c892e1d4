// Package zerok implements ZeroOverK: a non-interactive argument that a
// virtual oracle over committed concrete oracles vanishes identically on
// a multiplicative subgroup K.
//
// The prover divides the instantiated virtual polynomial V by the
// vanishing polynomial Z_K(X) = X^|K| - 1 and commits the quotient q. A
// Fiat-Shamir challenge xi outside K is derived from the commitments,
// every term's oracle is opened at its shifted point alpha_i*xi and q at
// xi, and the verifier checks V(xi) = q(xi) * Z_K(xi) by recombining the
// opened evaluations through the virtual oracle.
package zerok

import (
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
	"github.com/giuliop/funcrel/vo"
)

// ProtocolName is the transcript domain separator, bound before any
// commitment.
const ProtocolName = "Zero Over K"

// Proof carries everything a verifier needs beyond the concrete oracle
// commitments it already holds.
type Proof struct {
	// QuotientCommitment commits q = V / Z_K.
	QuotientCommitment ahpcs.LabeledCommitment
	// Opening proves the term evaluations at their shifted points and
	// q's evaluation at the challenge, in term order with q last.
	Opening ahpcs.BatchOpeningProof
}

// Prove shows that v instantiated over concrete vanishes on domainK.
// commitments and rands are the caller's existing commitments to
// concrete and the randomness they were produced with. dataTranscript
// is extra context bound into the challenge derivation, used by the
// composed protocols to chain transcripts.
func Prove(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	v vo.VirtualOracle,
	concrete []ahpcs.LabeledPolynomial,
	commitments []ahpcs.LabeledCommitment,
	rands []ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	if len(commitments) != len(concrete) || len(rands) != len(concrete) {
		return Proof{}, fmt.Errorf("%w: %d oracles, %d commitments, %d randomness values",
			funcrel.ErrInputLength, len(concrete), len(commitments), len(rands))
	}

	// The oracle's declared degree bound sizes the quotient work: the
	// committer key must cover it, and the instantiated polynomial must
	// stay within it.
	bound := v.DegreeBound(int(domainK.Cardinality))
	if scheme.MaxDegree() < bound {
		return Proof{}, fmt.Errorf("%w: '%s' needs degree %d but the scheme supports %d",
			funcrel.ErrPC, v.Name(), bound, scheme.MaxDegree())
	}

	vPoly, err := v.InstantiatePoly(concrete)
	if err != nil {
		return Proof{}, err
	}
	if len(vPoly)-1 > bound {
		return Proof{}, fmt.Errorf("%w: '%s' instantiated at degree %d above its declared bound %d",
			funcrel.ErrInstantiation, v.Name(), len(vPoly)-1, bound)
	}

	q, r := utils.DivByVanishing(vPoly, int(domainK.Cardinality))
	if !utils.IsZero(r) {
		return Proof{}, fmt.Errorf("%w: '%s' leaves a remainder", funcrel.ErrCheck1Failed, v.Name())
	}
	if len(q) == 0 {
		q = make([]fr.Element, 1)
	}

	qLabeled := ahpcs.LabeledPolynomial{
		Label:       "zero_over_k_quotient",
		Coeffs:      q,
		DegreeBound: ahpcs.NoBound,
		HidingBound: v.NumTerms(),
	}
	qCommitments, qRands, err := scheme.Commit([]ahpcs.LabeledPolynomial{qLabeled})
	if err != nil {
		return Proof{}, err
	}

	xi, err := deriveChallenge(domainK, commitments, qCommitments[0], hf, dataTranscript)
	if err != nil {
		return Proof{}, err
	}

	mapping := v.Mapping()
	shifts := v.Shifts()
	openPolys := make([]ahpcs.LabeledPolynomial, 0, len(mapping)+1)
	openRands := make([]ahpcs.Randomness, 0, len(mapping)+1)
	points := make([]fr.Element, 0, len(mapping)+1)
	for i, idx := range mapping {
		var pt fr.Element
		pt.Mul(&shifts[i], &xi)
		openPolys = append(openPolys, concrete[idx])
		openRands = append(openRands, rands[idx])
		points = append(points, pt)
	}
	openPolys = append(openPolys, qLabeled)
	openRands = append(openRands, qRands[0])
	points = append(points, xi)

	opening, err := scheme.BatchOpen(openPolys, points, openRands, dataTranscript...)
	if err != nil {
		return Proof{}, err
	}

	return Proof{QuotientCommitment: qCommitments[0], Opening: opening}, nil
}

// Verify checks proof against the concrete oracle commitments the
// verifier already holds, re-deriving the challenge itself.
func Verify(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	v vo.VirtualOracle,
	commitments []ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	mapping := v.Mapping()
	shifts := v.Shifts()

	xi, err := deriveChallenge(domainK, commitments, proof.QuotientCommitment, hf, dataTranscript)
	if err != nil {
		return err
	}

	openCommitments := make([]ahpcs.LabeledCommitment, 0, len(mapping)+1)
	points := make([]fr.Element, 0, len(mapping)+1)
	for i, idx := range mapping {
		if idx < 0 || idx >= len(commitments) {
			return fmt.Errorf("%w: mapping references commitment %d, only %d supplied",
				funcrel.ErrInstantiation, idx, len(commitments))
		}
		var pt fr.Element
		pt.Mul(&shifts[i], &xi)
		openCommitments = append(openCommitments, commitments[idx])
		points = append(points, pt)
	}
	openCommitments = append(openCommitments, proof.QuotientCommitment)
	points = append(points, xi)

	if err := scheme.BatchCheck(openCommitments, points, proof.Opening, dataTranscript...); err != nil {
		return err
	}

	values := proof.Opening.ClaimedValues()
	if len(values) != len(mapping)+1 {
		return fmt.Errorf("%w: proof claims %d evaluations, expected %d",
			funcrel.ErrInputLength, len(values), len(mapping)+1)
	}

	vAtXi, err := v.Query(values[:len(mapping)], xi)
	if err != nil {
		return err
	}

	zAtXi := utils.EvalVanishing(domainK, xi)
	var expected fr.Element
	expected.Mul(&values[len(mapping)], &zAtXi)
	if !vAtXi.Equal(&expected) {
		return fmt.Errorf("%w: '%s' at the challenge", funcrel.ErrCheck2Failed, v.Name())
	}
	return nil
}

// deriveChallenge binds the protocol name, the concrete oracle
// commitments, the quotient commitment and the caller's transcript
// context, then squeezes a challenge and re-samples it out of K.
func deriveChallenge(
	domainK *fft.Domain,
	commitments []ahpcs.LabeledCommitment,
	quotient ahpcs.LabeledCommitment,
	hf hash.Hash,
	dataTranscript [][]byte,
) (fr.Element, error) {
	fs := fiatshamir.NewTranscript(hf, "xi")
	if err := fs.Bind("xi", []byte(ProtocolName)); err != nil {
		return fr.Element{}, err
	}
	for _, c := range commitments {
		if err := fs.Bind("xi", c.Bytes()); err != nil {
			return fr.Element{}, err
		}
	}
	if err := fs.Bind("xi", quotient.Bytes()); err != nil {
		return fr.Element{}, err
	}
	for _, data := range dataTranscript {
		if err := fs.Bind("xi", data); err != nil {
			return fr.Element{}, err
		}
	}
	xiBytes, err := fs.ComputeChallenge("xi")
	if err != nil {
		return fr.Element{}, err
	}
	var xi fr.Element
	xi.SetBytes(xiBytes)

	// xi must land outside K; hash forward until it does.
	for utils.InDomain(domainK, xi) {
		hf.Reset()
		hf.Write(xi.Marshal())
		xi.SetBytes(hf.Sum(nil))
	}
	return xi, nil
}
