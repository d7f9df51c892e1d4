// Package geoseq implements the geometric sequence test: a
// non-interactive argument that a committed oracle's evaluations over K,
// read in generator-power order, are the concatenation of declared
// geometric runs. Run k starts at a[k] and multiplies by a shared ratio
// for c[k] steps; the run lengths must tile K exactly.
//
// The recurrence h(gamma*X) = ratio * h(X) holds at every position that
// is not the last of its run; the test discharges it with ZeroOverK over
// a dedicated virtual oracle that masks the run-final positions, and
// pins each run's starting value with a direct opening of h at the run's
// first domain element.
package geoseq

import (
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
	"github.com/giuliop/funcrel/zerok"
)

// ProtocolName is the transcript context chained into the nested calls.
const ProtocolName = "Geometric Sequence Test"

// Proof carries the ZeroOverK proof of the masked recurrence and the
// openings of h at each run's starting position.
type Proof struct {
	ZeroProof       zerok.Proof
	BoundaryOpening ahpcs.BatchOpeningProof
}

// Prove shows that h's evaluations on domainK form the geometric runs
// declared by (ratio, a, c). h, hCommitment and hRand are the caller's
// existing oracle, its commitment and its hiding randomness.
func Prove(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	ratio fr.Element,
	a []fr.Element,
	c []int,
	h ahpcs.LabeledPolynomial,
	hCommitment ahpcs.LabeledCommitment,
	hRand ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	seqVO, starts, err := newSequenceOracle(domainK, ratio, a, c)
	if err != nil {
		return Proof{}, err
	}

	ctx := chain(dataTranscript)
	zeroProof, err := zerok.Prove(
		scheme, domainK, seqVO,
		[]ahpcs.LabeledPolynomial{h},
		[]ahpcs.LabeledCommitment{hCommitment},
		[]ahpcs.Randomness{hRand},
		hf,
		ctx...,
	)
	if err != nil {
		return Proof{}, err
	}

	boundaryPolys := make([]ahpcs.LabeledPolynomial, len(starts))
	boundaryRands := make([]ahpcs.Randomness, len(starts))
	for i := range starts {
		boundaryPolys[i] = h
		boundaryRands[i] = hRand
	}
	boundaryOpening, err := scheme.BatchOpen(boundaryPolys, starts, boundaryRands, ctx...)
	if err != nil {
		return Proof{}, err
	}

	return Proof{ZeroProof: zeroProof, BoundaryOpening: boundaryOpening}, nil
}

// Verify checks proof against the commitment to h the verifier already
// holds, rebuilding the masked recurrence oracle and the run boundaries
// from the public (ratio, a, c).
func Verify(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	ratio fr.Element,
	a []fr.Element,
	c []int,
	hCommitment ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	seqVO, starts, err := newSequenceOracle(domainK, ratio, a, c)
	if err != nil {
		return err
	}

	ctx := chain(dataTranscript)
	if err := zerok.Verify(
		scheme, domainK, seqVO,
		[]ahpcs.LabeledCommitment{hCommitment},
		proof.ZeroProof,
		hf,
		ctx...,
	); err != nil {
		return err
	}

	boundaryCommitments := make([]ahpcs.LabeledCommitment, len(starts))
	for i := range starts {
		boundaryCommitments[i] = hCommitment
	}
	if err := scheme.BatchCheck(boundaryCommitments, starts, proof.BoundaryOpening, ctx...); err != nil {
		return err
	}

	values := proof.BoundaryOpening.ClaimedValues()
	if len(values) != len(a) {
		return fmt.Errorf("%w: proof claims %d boundary values, expected %d",
			funcrel.ErrInputLength, len(values), len(a))
	}
	for k := range a {
		if !values[k].Equal(&a[k]) {
			return fmt.Errorf("%w: run %d does not start at its declared value", funcrel.ErrCheck2Failed, k)
		}
	}
	return nil
}

// sequenceOracle is the virtual oracle (h(gamma*X) - ratio*h(X)) * m(X),
// where m is the monic polynomial vanishing at the run-final domain
// elements. It vanishes on all of K exactly when the recurrence holds at
// every interior position.
type sequenceOracle struct {
	ratio  fr.Element
	shifts []fr.Element
	mask   []fr.Element
}

// newSequenceOracle validates (a, c) against the domain and builds the
// masked recurrence oracle plus the run-start evaluation points.
func newSequenceOracle(domainK *fft.Domain, ratio fr.Element, a []fr.Element, c []int) (*sequenceOracle, []fr.Element, error) {
	if len(a) != len(c) {
		return nil, nil, fmt.Errorf("%w: %d starting points but %d run lengths",
			funcrel.ErrInputLength, len(a), len(c))
	}
	total := 0
	for _, ck := range c {
		if ck <= 0 {
			return nil, nil, fmt.Errorf("%w: run lengths must be positive", funcrel.ErrInputLength)
		}
		total += ck
	}
	if total != int(domainK.Cardinality) {
		return nil, nil, fmt.Errorf("%w: run lengths sum to %d but K has %d elements",
			funcrel.ErrT2Large, total, domainK.Cardinality)
	}

	var one fr.Element
	one.SetOne()
	finals := make([]fr.Element, 0, len(c))
	starts := make([]fr.Element, 0, len(c))
	pos := 0
	for _, ck := range c {
		starts = append(starts, utils.DomainElement(domainK, pos))
		pos += ck
		finals = append(finals, utils.DomainElement(domainK, pos-1))
	}

	seqVO := &sequenceOracle{
		ratio:  ratio,
		shifts: []fr.Element{domainK.Generator, one},
		mask:   utils.BuildVanishingPoly(finals),
	}
	return seqVO, starts, nil
}

func (s *sequenceOracle) Mapping() []int       { return []int{0, 0} }
func (s *sequenceOracle) Shifts() []fr.Element { return append([]fr.Element(nil), s.shifts...) }
func (s *sequenceOracle) NumTerms() int        { return 2 }
func (s *sequenceOracle) Name() string         { return "GeoSeq" }

func (s *sequenceOracle) DegreeBound(domainSize int) int {
	return domainSize + len(s.mask) - 1
}

func (s *sequenceOracle) ScalingFactor() int { return 2 }

func (s *sequenceOracle) TermLabels(concreteLabels []string) []string {
	return []string{concreteLabels[0] + "_shift_gamma", concreteLabels[0]}
}

func (s *sequenceOracle) InstantiatePoly(concrete []ahpcs.LabeledPolynomial) ([]fr.Element, error) {
	if len(concrete) != 1 {
		return nil, fmt.Errorf("%w: expected 1 oracle, got %d", funcrel.ErrInstantiation, len(concrete))
	}
	shifted := utils.Shift(concrete[0].Coeffs, s.shifts[0])
	diff := utils.Sub(shifted, utils.MulByConstant(concrete[0].Coeffs, s.ratio))
	return utils.Mul(diff, s.mask), nil
}

func (s *sequenceOracle) InstantiateEvals(concrete []ahpcs.LabeledPolynomial, d *fft.Domain) ([]fr.Element, error) {
	p, err := s.InstantiatePoly(concrete)
	if err != nil {
		return nil, err
	}
	if uint64(len(p)) > d.Cardinality {
		return nil, fmt.Errorf("%w: combined degree %d exceeds domain size %d",
			funcrel.ErrInstantiation, len(p)-1, d.Cardinality)
	}
	return utils.EvaluateOnDomain(p, d), nil
}

func (s *sequenceOracle) Query(evals []fr.Element, point fr.Element) (fr.Element, error) {
	if len(evals) != 2 {
		return fr.Element{}, fmt.Errorf("%w: expected 2 evaluations, got %d", funcrel.ErrEvaluation, len(evals))
	}
	var res fr.Element
	res.Mul(&s.ratio, &evals[1])
	res.Sub(&evals[0], &res)
	maskAt := utils.Eval(s.mask, point)
	res.Mul(&res, &maskAt)
	return res, nil
}

func chain(data [][]byte) [][]byte {
	return append([][]byte{[]byte(ProtocolName)}, data...)
}
