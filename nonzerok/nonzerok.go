// Package nonzerok implements NonZeroOverK: a non-interactive argument
// that a committed oracle has no zero on a multiplicative subgroup K.
// The prover exhibits the pointwise inverse g of f on K and discharges
// f*g = 1 on K through ZeroOverK's inverse-check oracle.
package nonzerok

import (
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
	"github.com/giuliop/funcrel/vo"
	"github.com/giuliop/funcrel/zerok"
)

// ProtocolName is the transcript context chained into the nested
// ZeroOverK call, separating it from a bare invocation.
const ProtocolName = "Non-Zero Over K"

// Proof carries the commitment to the pointwise inverse and the
// ZeroOverK proof tying it to f.
type Proof struct {
	InverseCommitment ahpcs.LabeledCommitment
	ZeroProof         zerok.Proof
}

// Prove shows f has no zero on domainK. f, fCommitment and fRand are the
// caller's existing oracle, its commitment and its hiding randomness.
func Prove(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	f ahpcs.LabeledPolynomial,
	fCommitment ahpcs.LabeledCommitment,
	fRand ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	fEvals := utils.EvaluateOnDomain(f.Coeffs, domainK)
	for i := range fEvals {
		if fEvals[i].IsZero() {
			return Proof{}, fmt.Errorf("%w: '%s' vanishes at element %d", funcrel.ErrFEvalIsZero, f.Label, i)
		}
	}
	gEvals := fr.BatchInvert(fEvals)

	g := ahpcs.NewLabeledPolynomial(f.Label+"_inv", utils.InterpolateOnDomain(gEvals, domainK))
	gCommitments, gRands, err := scheme.Commit([]ahpcs.LabeledPolynomial{g})
	if err != nil {
		return Proof{}, err
	}

	zeroProof, err := zerok.Prove(
		scheme, domainK, vo.NewInverseCheck(),
		[]ahpcs.LabeledPolynomial{f, g},
		[]ahpcs.LabeledCommitment{fCommitment, gCommitments[0]},
		[]ahpcs.Randomness{fRand, gRands[0]},
		hf,
		chain(dataTranscript)...,
	)
	if err != nil {
		return Proof{}, err
	}

	return Proof{InverseCommitment: gCommitments[0], ZeroProof: zeroProof}, nil
}

// Verify checks proof against the commitment to f the verifier already
// holds.
func Verify(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	fCommitment ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	return zerok.Verify(
		scheme, domainK, vo.NewInverseCheck(),
		[]ahpcs.LabeledCommitment{fCommitment, proof.InverseCommitment},
		proof.ZeroProof,
		hf,
		chain(dataTranscript)...,
	)
}

func chain(data [][]byte) [][]byte {
	return append([][]byte{[]byte(ProtocolName)}, data...)
}
