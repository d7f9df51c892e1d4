// Package tslt implements the t-strictly-lower-triangular test: a
// non-interactive argument that a sparse matrix over H x H, encoded by
// row and col oracles over K whose evaluations name each nonzero entry's
// row and column as powers of H's generator omega, has every nonzero
// entry strictly below its diagonal and no entry above row t.
//
// The test composes three arguments: a geometric-sequence test pinning
// an auxiliary oracle h to the row range omega^t .. omega^(|H|-1), a
// subset test placing row's evaluations in that range, and a
// discrete-log comparison between col and row. The comparison takes col
// first: strict lower-triangularity is dlog(col(x)) < dlog(row(x)) at
// every x in K.
package tslt

import (
	"fmt"
	"hash"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/dlcomp"
	"github.com/giuliop/funcrel/geoseq"
	"github.com/giuliop/funcrel/logger"
	"github.com/giuliop/funcrel/subsetk"
	"github.com/giuliop/funcrel/utils"
)

// ProtocolName is the transcript domain separator, bound together with
// the auxiliary commitment before any child protocol runs.
const ProtocolName = "t-Strictly Lower Triangular Test"

// Proof carries the auxiliary oracle commitment and one child proof per
// composed argument.
type Proof struct {
	HCommitment ahpcs.LabeledCommitment
	GeoSeqProof geoseq.Proof
	SubsetProof subsetk.Proof
	DLProof     dlcomp.Proof
}

// Prove shows the matrix encoded by (row, col) over domainK is strictly
// lower triangular below row t of domainH.
func Prove(
	scheme ahpcs.Scheme,
	t int,
	domainK, domainH *fft.Domain,
	row, col ahpcs.LabeledPolynomial,
	rowCommitment, colCommitment ahpcs.LabeledCommitment,
	rowRand, colRand ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	log := logger.Logger().With().
		Str("protocol", ProtocolName).
		Int("t", t).
		Uint64("sizeK", domainK.Cardinality).
		Uint64("sizeH", domainH.Cardinality).
		Logger()
	start := time.Now()

	a, c, allowed, err := rowRange(t, domainK, domainH)
	if err != nil {
		return Proof{}, err
	}

	hSeq, err := utils.GenerateSequence(domainH.Generator, a, c)
	if err != nil {
		return Proof{}, err
	}
	h := ahpcs.NewLabeledPolynomial("h", utils.InterpolateOnDomain(hSeq, domainK))
	hCommitments, hRands, err := scheme.Commit([]ahpcs.LabeledPolynomial{h})
	if err != nil {
		return Proof{}, err
	}

	ctx := chain(hCommitments[0], dataTranscript)

	geoSeqProof, err := geoseq.Prove(scheme, domainK, domainH.Generator, a, c,
		h, hCommitments[0], hRands[0], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	subsetProof, err := subsetk.Prove(scheme, domainK, allowed,
		row, rowCommitment, rowRand, hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	// col before row: the comparison proves dlog(col) < dlog(row).
	dlProof, err := dlcomp.Prove(scheme, domainK, domainH,
		col, row, colCommitment, rowCommitment, colRand, rowRand, hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return Proof{
		HCommitment: hCommitments[0],
		GeoSeqProof: geoSeqProof,
		SubsetProof: subsetProof,
		DLProof:     dlProof,
	}, nil
}

// Verify checks proof against the row and col commitments the verifier
// already holds.
func Verify(
	scheme ahpcs.Scheme,
	t int,
	domainK, domainH *fft.Domain,
	rowCommitment, colCommitment ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	a, c, allowed, err := rowRange(t, domainK, domainH)
	if err != nil {
		return err
	}

	ctx := chain(proof.HCommitment, dataTranscript)

	if err := geoseq.Verify(scheme, domainK, domainH.Generator, a, c,
		proof.HCommitment, proof.GeoSeqProof, hf, ctx...); err != nil {
		return err
	}

	if err := subsetk.Verify(scheme, domainK, allowed,
		rowCommitment, proof.SubsetProof, hf, ctx...); err != nil {
		return err
	}

	return dlcomp.Verify(scheme, domainK, domainH,
		colCommitment, rowCommitment, proof.DLProof, hf, ctx...)
}

// rowRange describes the admissible rows below t: h's run description
// (the powers omega^t .. omega^(|H|-1) zero-padded over K) and the
// matching allowed set for the subset test.
func rowRange(t int, domainK, domainH *fft.Domain) (a []fr.Element, c []int, allowed []fr.Element, err error) {
	sizeH := int(domainH.Cardinality)
	if t > sizeH {
		return nil, nil, nil, fmt.Errorf("%w: t=%d, |H|=%d", funcrel.ErrT2Large, t, sizeH)
	}
	omegaT := utils.DomainElement(domainH, t)
	a = []fr.Element{omegaT}
	c = []int{sizeH - t}
	if toPad := int(domainK.Cardinality) - (sizeH - t); toPad > 0 {
		a = append(a, fr.Element{})
		c = append(c, toPad)
	}
	allowed = make([]fr.Element, sizeH-t)
	if sizeH-t > 0 {
		allowed[0] = omegaT
		for i := 1; i < len(allowed); i++ {
			allowed[i].Mul(&allowed[i-1], &domainH.Generator)
		}
	}
	return a, c, allowed, nil
}

func chain(hCommitment ahpcs.LabeledCommitment, data [][]byte) [][]byte {
	ctx := make([][]byte, 0, len(data)+2)
	ctx = append(ctx, []byte(ProtocolName), hCommitment.Bytes())
	return append(ctx, data...)
}
