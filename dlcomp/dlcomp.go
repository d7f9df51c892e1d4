// Package dlcomp implements the discrete-log comparison test: a
// non-interactive argument that two committed oracles f and g, whose
// evaluations on K all lie in a subgroup H of even order, satisfy
// dlog(f(x)) < dlog(g(x)) at every x in K, discrete logs taken to the
// base of H's generator omega.
//
// The prover decomposes the claim through square roots in the order-2|H|
// group generated by delta, the canonical square root of omega. Writing
// i_f and i_g for the discrete logs, the auxiliary oracles are
//
//	f'(x) = delta^(i_f + |H|)    so f'^2 = f
//	g'(x) = delta^(i_g)          so g'^2 = g
//	s'(x) = delta^(i_f - i_g + |H|), the ratio f'/g'
//	s(x)  = s'^2 = f(x)/g(x)
//
// The exponent of s' lies strictly between 0 and |H| exactly when
// i_f < i_g, so the comparison reduces to s' taking values among the
// first |H| powers of delta: that membership is discharged with a
// subset test against the image of an auxiliary geometric oracle h, the
// powers of delta laid out over K. Square, product, non-zero and
// geometric-sequence tests tie the decomposition together.
package dlcomp

import (
	"fmt"
	"hash"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/geoseq"
	"github.com/giuliop/funcrel/logger"
	"github.com/giuliop/funcrel/nonzerok"
	"github.com/giuliop/funcrel/subsetk"
	"github.com/giuliop/funcrel/utils"
	"github.com/giuliop/funcrel/vo"
	"github.com/giuliop/funcrel/zerok"
)

// ProtocolName is the transcript domain separator, bound together with
// the auxiliary commitments before any child protocol runs.
const ProtocolName = "Discrete-log Comparison"

// Proof carries the auxiliary oracle commitments and one child proof per
// relation of the decomposition.
type Proof struct {
	SCommitment      ahpcs.LabeledCommitment
	FPrimeCommitment ahpcs.LabeledCommitment
	GPrimeCommitment ahpcs.LabeledCommitment
	SPrimeCommitment ahpcs.LabeledCommitment
	HCommitment      ahpcs.LabeledCommitment

	FPrimeSquareProof zerok.Proof
	GPrimeSquareProof zerok.Proof
	SPrimeSquareProof zerok.Proof
	ProductProof      zerok.Proof
	HProof            geoseq.Proof
	SPrimeSubsetProof subsetk.Proof

	NonZeroFPrimeProof    nonzerok.Proof
	NonZeroGPrimeProof    nonzerok.Proof
	NonZeroSPrimeProof    nonzerok.Proof
	NonZeroSMinusOneProof nonzerok.Proof
}

// Prove shows dlog(f(x)) < dlog(g(x)) for every x in domainK, with both
// oracles' evaluations in domainH. f, g are the caller's existing
// oracles with their commitments and hiding randomness.
func Prove(
	scheme ahpcs.Scheme,
	domainK, domainH *fft.Domain,
	f, g ahpcs.LabeledPolynomial,
	fCommitment, gCommitment ahpcs.LabeledCommitment,
	fRand, gRand ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	log := logger.Logger().With().
		Str("protocol", ProtocolName).
		Uint64("sizeK", domainK.Cardinality).
		Uint64("sizeH", domainH.Cardinality).
		Logger()
	start := time.Now()

	delta, err := canonicalRoot(domainH)
	if err != nil {
		return Proof{}, err
	}
	sizeH := int(domainH.Cardinality)
	deltaPowers := utils.Powers(delta, 2*sizeH)

	dlog := make(map[fr.Element]int, sizeH)
	for i, w := range utils.Powers(domainH.Generator, sizeH) {
		dlog[w] = i
	}

	fEvals := utils.EvaluateOnDomain(f.Coeffs, domainK)
	gEvals := utils.EvaluateOnDomain(g.Coeffs, domainK)

	n := int(domainK.Cardinality)
	sEvals := make([]fr.Element, n)
	fPrimeEvals := make([]fr.Element, n)
	gPrimeEvals := make([]fr.Element, n)
	sPrimeEvals := make([]fr.Element, n)
	for j := 0; j < n; j++ {
		iF, err := lookupDlog(dlog, fEvals[j], f.Label, j)
		if err != nil {
			return Proof{}, err
		}
		iG, err := lookupDlog(dlog, gEvals[j], g.Label, j)
		if err != nil {
			return Proof{}, err
		}
		fPrimeEvals[j] = deltaPowers[iF+sizeH]
		gPrimeEvals[j] = deltaPowers[iG]
		sPrimeEvals[j] = deltaPowers[iF-iG+sizeH]
		sEvals[j].Square(&sPrimeEvals[j])
	}

	s := ahpcs.NewLabeledPolynomial("s", utils.InterpolateOnDomain(sEvals, domainK))
	fPrime := ahpcs.NewLabeledPolynomial("f_prime", utils.InterpolateOnDomain(fPrimeEvals, domainK))
	gPrime := ahpcs.NewLabeledPolynomial("g_prime", utils.InterpolateOnDomain(gPrimeEvals, domainK))
	sPrime := ahpcs.NewLabeledPolynomial("s_prime", utils.InterpolateOnDomain(sPrimeEvals, domainK))

	hSeqA, hSeqC := hSequence(domainK, domainH)
	hSeq, err := utils.GenerateSequence(delta, hSeqA, hSeqC)
	if err != nil {
		return Proof{}, err
	}
	h := ahpcs.NewLabeledPolynomial("h", utils.InterpolateOnDomain(hSeq, domainK))

	aux := []ahpcs.LabeledPolynomial{s, fPrime, gPrime, sPrime, h}
	commitments, rands, err := scheme.Commit(aux)
	if err != nil {
		return Proof{}, err
	}

	ctx := chain(commitments, dataTranscript)
	squareCheck := vo.NewSquareCheck()

	fPrimeSquareProof, err := zerok.Prove(scheme, domainK, squareCheck,
		[]ahpcs.LabeledPolynomial{f, fPrime},
		[]ahpcs.LabeledCommitment{fCommitment, commitments[1]},
		[]ahpcs.Randomness{fRand, rands[1]},
		hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	gPrimeSquareProof, err := zerok.Prove(scheme, domainK, squareCheck,
		[]ahpcs.LabeledPolynomial{g, gPrime},
		[]ahpcs.LabeledCommitment{gCommitment, commitments[2]},
		[]ahpcs.Randomness{gRand, rands[2]},
		hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	sPrimeSquareProof, err := zerok.Prove(scheme, domainK, squareCheck,
		[]ahpcs.LabeledPolynomial{s, sPrime},
		[]ahpcs.LabeledCommitment{commitments[0], commitments[3]},
		[]ahpcs.Randomness{rands[0], rands[3]},
		hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	productProof, err := zerok.Prove(scheme, domainK, vo.NewProductCheck(),
		[]ahpcs.LabeledPolynomial{fPrime, sPrime, gPrime},
		[]ahpcs.LabeledCommitment{commitments[1], commitments[3], commitments[2]},
		[]ahpcs.Randomness{rands[1], rands[3], rands[2]},
		hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	hProof, err := geoseq.Prove(scheme, domainK, delta, hSeqA, hSeqC, h, commitments[4], rands[4], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	nonZeroFPrime, err := nonzerok.Prove(scheme, domainK, fPrime, commitments[1], rands[1], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}
	nonZeroGPrime, err := nonzerok.Prove(scheme, domainK, gPrime, commitments[2], rands[2], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}
	nonZeroSPrime, err := nonzerok.Prove(scheme, domainK, sPrime, commitments[3], rands[3], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	sMinusOne, sMinusOneCommitment, sMinusOneRand, err := deriveSMinusOne(scheme, s, commitments[0], rands[0])
	if err != nil {
		return Proof{}, err
	}
	nonZeroSMinusOne, err := nonzerok.Prove(scheme, domainK, sMinusOne, sMinusOneCommitment, sMinusOneRand, hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	// The subset test runs last: a witness violating the strict ordering
	// at some position fails here, after the degenerate equal-logs case
	// has already surfaced through the s-1 non-zero check.
	sPrimeSubsetProof, err := subsetk.Prove(scheme, domainK, deltaPowers[:sizeH],
		sPrime, commitments[3], rands[3], hf, ctx...)
	if err != nil {
		return Proof{}, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return Proof{
		SCommitment:      commitments[0],
		FPrimeCommitment: commitments[1],
		GPrimeCommitment: commitments[2],
		SPrimeCommitment: commitments[3],
		HCommitment:      commitments[4],

		FPrimeSquareProof: fPrimeSquareProof,
		GPrimeSquareProof: gPrimeSquareProof,
		SPrimeSquareProof: sPrimeSquareProof,
		ProductProof:      productProof,
		HProof:            hProof,
		SPrimeSubsetProof: sPrimeSubsetProof,

		NonZeroFPrimeProof:    nonZeroFPrime,
		NonZeroGPrimeProof:    nonZeroGPrime,
		NonZeroSPrimeProof:    nonZeroSPrime,
		NonZeroSMinusOneProof: nonZeroSMinusOne,
	}, nil
}

// Verify checks proof against the commitments to f and g the verifier
// already holds.
func Verify(
	scheme ahpcs.Scheme,
	domainK, domainH *fft.Domain,
	fCommitment, gCommitment ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	delta, err := canonicalRoot(domainH)
	if err != nil {
		return err
	}
	sizeH := int(domainH.Cardinality)
	deltaPowers := utils.Powers(delta, sizeH)

	commitments := []ahpcs.LabeledCommitment{
		proof.SCommitment,
		proof.FPrimeCommitment,
		proof.GPrimeCommitment,
		proof.SPrimeCommitment,
		proof.HCommitment,
	}
	ctx := chain(commitments, dataTranscript)
	squareCheck := vo.NewSquareCheck()

	if err := zerok.Verify(scheme, domainK, squareCheck,
		[]ahpcs.LabeledCommitment{fCommitment, proof.FPrimeCommitment},
		proof.FPrimeSquareProof, hf, ctx...); err != nil {
		return err
	}
	if err := zerok.Verify(scheme, domainK, squareCheck,
		[]ahpcs.LabeledCommitment{gCommitment, proof.GPrimeCommitment},
		proof.GPrimeSquareProof, hf, ctx...); err != nil {
		return err
	}
	if err := zerok.Verify(scheme, domainK, squareCheck,
		[]ahpcs.LabeledCommitment{proof.SCommitment, proof.SPrimeCommitment},
		proof.SPrimeSquareProof, hf, ctx...); err != nil {
		return err
	}
	if err := zerok.Verify(scheme, domainK, vo.NewProductCheck(),
		[]ahpcs.LabeledCommitment{proof.FPrimeCommitment, proof.SPrimeCommitment, proof.GPrimeCommitment},
		proof.ProductProof, hf, ctx...); err != nil {
		return err
	}

	hSeqA, hSeqC := hSequence(domainK, domainH)
	if err := geoseq.Verify(scheme, domainK, delta, hSeqA, hSeqC, proof.HCommitment, proof.HProof, hf, ctx...); err != nil {
		return err
	}

	if err := nonzerok.Verify(scheme, domainK, proof.FPrimeCommitment, proof.NonZeroFPrimeProof, hf, ctx...); err != nil {
		return err
	}
	if err := nonzerok.Verify(scheme, domainK, proof.GPrimeCommitment, proof.NonZeroGPrimeProof, hf, ctx...); err != nil {
		return err
	}
	if err := nonzerok.Verify(scheme, domainK, proof.SPrimeCommitment, proof.NonZeroSPrimeProof, hf, ctx...); err != nil {
		return err
	}

	// The verifier derives the commitment to s-1 on its own, from the
	// commitment to s and a commitment to the constant one, using the
	// scheme's homomorphism.
	oneCommitment, _, err := commitOne(scheme)
	if err != nil {
		return err
	}
	var one, minusOne fr.Element
	one.SetOne()
	minusOne.Neg(&one)
	sMinusOne, err := ahpcs.MultiScalarMul(
		[]ahpcs.Commitment{proof.SCommitment.Commitment, oneCommitment.Commitment},
		[]fr.Element{one, minusOne},
	)
	if err != nil {
		return err
	}
	sMinusOneCommitment := ahpcs.LabeledCommitment{
		Label:       "s_minus_one",
		Commitment:  sMinusOne,
		DegreeBound: ahpcs.NoBound,
	}
	if err := nonzerok.Verify(scheme, domainK, sMinusOneCommitment, proof.NonZeroSMinusOneProof, hf, ctx...); err != nil {
		return err
	}

	return subsetk.Verify(scheme, domainK, deltaPowers, proof.SPrimeCommitment,
		proof.SPrimeSubsetProof, hf, ctx...)
}

// canonicalRoot returns the square root of domainH's generator, fixing
// the branch as the lexicographically smaller of the two roots so both
// sides of the protocol agree on delta.
func canonicalRoot(domainH *fft.Domain) (fr.Element, error) {
	if domainH.Cardinality%2 != 0 {
		return fr.Element{}, fmt.Errorf("%w: H must have even order", funcrel.ErrEvaluation)
	}
	var delta fr.Element
	if delta.Sqrt(&domainH.Generator) == nil {
		return fr.Element{}, fmt.Errorf("%w: generator of H has no square root", funcrel.ErrEvaluation)
	}
	if delta.LexicographicallyLargest() {
		delta.Neg(&delta)
	}
	return delta, nil
}

// hSequence describes h's evaluations: the powers of delta over the
// first |H| positions, zero-padded to fill K.
func hSequence(domainK, domainH *fft.Domain) ([]fr.Element, []int) {
	var one fr.Element
	one.SetOne()
	a := []fr.Element{one}
	c := []int{int(domainH.Cardinality)}
	if toPad := int(domainK.Cardinality) - int(domainH.Cardinality); toPad > 0 {
		a = append(a, fr.Element{})
		c = append(c, toPad)
	}
	return a, c
}

// deriveSMinusOne builds the oracle s-1 and derives its commitment and
// randomness through the scheme's linear-combination operators, the same
// derivation the verifier performs on commitments alone.
func deriveSMinusOne(
	scheme ahpcs.Scheme,
	s ahpcs.LabeledPolynomial,
	sCommitment ahpcs.LabeledCommitment,
	sRand ahpcs.Randomness,
) (ahpcs.LabeledPolynomial, ahpcs.LabeledCommitment, ahpcs.Randomness, error) {
	coeffs := make([]fr.Element, len(s.Coeffs))
	copy(coeffs, s.Coeffs)
	var one fr.Element
	one.SetOne()
	coeffs[0].Sub(&coeffs[0], &one)
	sMinusOne := ahpcs.NewLabeledPolynomial("s_minus_one", coeffs)

	oneCommitment, oneRand, err := commitOne(scheme)
	if err != nil {
		return ahpcs.LabeledPolynomial{}, ahpcs.LabeledCommitment{}, nil, err
	}
	var minusOne fr.Element
	minusOne.Neg(&one)
	lc := ahpcs.LinearCombination{
		Label: "s_minus_one",
		Terms: []ahpcs.LCTerm{{Coeff: one, Label: "s"}, {Coeff: minusOne, Label: "one"}},
	}
	commitment, rand, err := ahpcs.LCOfCommitmentsWithRands(lc,
		[]ahpcs.LabeledCommitment{sCommitment, oneCommitment},
		[]ahpcs.Randomness{sRand, oneRand},
	)
	if err != nil {
		return ahpcs.LabeledPolynomial{}, ahpcs.LabeledCommitment{}, nil, err
	}
	return sMinusOne, commitment, rand, nil
}

func commitOne(scheme ahpcs.Scheme) (ahpcs.LabeledCommitment, ahpcs.Randomness, error) {
	var one fr.Element
	one.SetOne()
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{
		ahpcs.NewLabeledPolynomial("one", []fr.Element{one}),
	})
	if err != nil {
		return ahpcs.LabeledCommitment{}, nil, err
	}
	return commitments[0], rands[0], nil
}

func lookupDlog(dlog map[fr.Element]int, v fr.Element, label string, pos int) (int, error) {
	if v.IsZero() {
		return 0, fmt.Errorf("%w: '%s' vanishes at element %d", funcrel.ErrFEvalIsZero, label, pos)
	}
	i, ok := dlog[v]
	if !ok {
		return 0, fmt.Errorf("%w: '%s' at element %d is outside H", funcrel.ErrEvaluation, label, pos)
	}
	return i, nil
}

// chain prefixes the protocol tag and the auxiliary commitments onto the
// caller's transcript context, fixing the absorb order every child
// protocol sees.
func chain(commitments []ahpcs.LabeledCommitment, data [][]byte) [][]byte {
	ctx := make([][]byte, 0, len(commitments)+len(data)+1)
	ctx = append(ctx, []byte(ProtocolName))
	for _, c := range commitments {
		ctx = append(ctx, c.Bytes())
	}
	return append(ctx, data...)
}
