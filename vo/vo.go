// Package vo implements virtual oracles: arithmetic combinations of
// shifted concrete oracles. A virtual oracle is instantiated as a full
// polynomial on the prover side and queried pointwise from opened
// evaluations on the verifier side; both paths run the same combine
// function over the Term sum type.
package vo

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
)

// VirtualOracle is the capability set the subprotocols need from an
// arithmetic combination of shifted concrete oracles.
type VirtualOracle interface {
	// InstantiatePoly computes the combined polynomial from the
	// concrete oracles, shifting input i by Shifts()[i] first.
	InstantiatePoly(concrete []ahpcs.LabeledPolynomial) ([]fr.Element, error)

	// InstantiateEvals computes the combined oracle's evaluations over d.
	InstantiateEvals(concrete []ahpcs.LabeledPolynomial, d *fft.Domain) ([]fr.Element, error)

	// Query evaluates the combination at point directly from opened
	// evaluations, evals[i] being the i-th term's oracle evaluated at
	// Shifts()[i] * point.
	Query(evals []fr.Element, point fr.Element) (fr.Element, error)

	// Mapping returns the concrete-oracle index each term reads from.
	Mapping() []int

	// Shifts returns the per-term scaling of the indeterminate.
	Shifts() []fr.Element

	// TermLabels derives per-term opening labels from the concrete
	// oracles' labels.
	TermLabels(concreteLabels []string) []string

	// NumTerms returns the number of terms the combine function expects.
	NumTerms() int

	// DegreeBound bounds the combined polynomial's degree when the
	// concrete oracles have degree below domainSize.
	DegreeBound(domainSize int) int

	// ScalingFactor is the blowup a domain must support to hold the
	// combined oracle in evaluation form.
	ScalingFactor() int

	// Name identifies the oracle in error messages.
	Name() string
}

// General is an input-shifting virtual oracle built from an arbitrary
// mapping vector, shift vector and combine function.
type General struct {
	name    string
	mapping []int
	shifts  []fr.Element
	combine func(terms []Term) Term
}

// NewGeneral builds a general virtual oracle. mapping and shifts must
// have equal length.
func NewGeneral(name string, mapping []int, shifts []fr.Element, combine func(terms []Term) Term) (*General, error) {
	if len(mapping) != len(shifts) {
		return nil, fmt.Errorf("%w: mapping vector has %d entries, shifting coefficients %d",
			funcrel.ErrInputLength, len(mapping), len(shifts))
	}
	return &General{name: name, mapping: mapping, shifts: shifts, combine: combine}, nil
}

func (g *General) Mapping() []int      { return append([]int(nil), g.mapping...) }
func (g *General) Shifts() []fr.Element { return append([]fr.Element(nil), g.shifts...) }
func (g *General) NumTerms() int       { return len(g.mapping) }
func (g *General) Name() string        { return g.name }

// DegreeBound bounds the combined polynomial when the concrete oracles
// have degree below domainSize: the scaling factor says how many such
// factors a combine term multiplies together.
func (g *General) DegreeBound(domainSize int) int { return g.ScalingFactor() * domainSize }

// ScalingFactor is the blowup a domain must support to hold the
// combined oracle in evaluation form; general oracles compose at most
// two multiplicative factors per term.
func (g *General) ScalingFactor() int { return 2 }

// TermLabels derives the opening label for each term from the label of
// the concrete oracle it reads.
func (g *General) TermLabels(concreteLabels []string) []string {
	out := make([]string, len(g.mapping))
	for i, idx := range g.mapping {
		out[i] = fmt.Sprintf("%s_times_alpha%d", concreteLabels[idx], i)
	}
	return out
}

// InstantiatePoly computes the combined polynomial from concrete.
func (g *General) InstantiatePoly(concrete []ahpcs.LabeledPolynomial) ([]fr.Element, error) {
	if err := g.checkMapping(len(concrete)); err != nil {
		return nil, err
	}
	terms := make([]Term, len(g.mapping))
	for i, idx := range g.mapping {
		terms[i] = PolyTerm(utils.Shift(concrete[idx].Coeffs, g.shifts[i]))
	}
	return g.combine(terms).AsPoly()
}

// InstantiateEvals computes the combined oracle's evaluations over d by
// instantiating in coefficient form and applying d's FFT.
func (g *General) InstantiateEvals(concrete []ahpcs.LabeledPolynomial, d *fft.Domain) ([]fr.Element, error) {
	p, err := g.InstantiatePoly(concrete)
	if err != nil {
		return nil, err
	}
	if uint64(len(p)) > d.Cardinality {
		return nil, fmt.Errorf("%w: combined degree %d exceeds domain size %d",
			funcrel.ErrInstantiation, len(p)-1, d.Cardinality)
	}
	return utils.EvaluateOnDomain(p, d), nil
}

// Query evaluates the combination from opened evaluations.
func (g *General) Query(evals []fr.Element, _ fr.Element) (fr.Element, error) {
	if len(evals) != len(g.mapping) {
		return fr.Element{}, fmt.Errorf("%w: expected %d evaluations, got %d",
			funcrel.ErrEvaluation, len(g.mapping), len(evals))
	}
	terms := make([]Term, len(evals))
	for i := range evals {
		terms[i] = EvalTerm(evals[i])
	}
	return g.combine(terms).AsEval()
}

func (g *General) checkMapping(numConcrete int) error {
	for _, idx := range g.mapping {
		if idx < 0 || idx >= numConcrete {
			return fmt.Errorf("%w: mapping references oracle %d, only %d supplied",
				funcrel.ErrInstantiation, idx, numConcrete)
		}
	}
	return nil
}
