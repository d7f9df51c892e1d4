package vo

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/utils"
)

// Kind distinguishes the two shapes a Term can hold.
type Kind int

const (
	// KindPolynomial holds a dense polynomial.
	KindPolynomial Kind = iota
	// KindEvaluation holds a single field element.
	KindEvaluation
)

// Term is the sum type a combine function operates on: a polynomial
// when instantiating the virtual oracle, a scalar when querying it.
// A combine function sees one shape per call and must return that shape.
type Term struct {
	Kind Kind
	Poly []fr.Element
	Eval fr.Element
}

// PolyTerm wraps a polynomial as a Term.
func PolyTerm(p []fr.Element) Term { return Term{Kind: KindPolynomial, Poly: p} }

// EvalTerm wraps a single evaluation as a Term.
func EvalTerm(e fr.Element) Term { return Term{Kind: KindEvaluation, Eval: e} }

// ConstTerm wraps the constant c in whichever shape matches t.
func ConstTerm(t Term, c fr.Element) Term {
	if t.Kind == KindPolynomial {
		return PolyTerm([]fr.Element{c})
	}
	return EvalTerm(c)
}

// AsPoly returns the term's polynomial, or ErrVOFailedToInstantiate if
// the combine function returned a scalar on the instantiation path.
func (t Term) AsPoly() ([]fr.Element, error) {
	if t.Kind != KindPolynomial {
		return nil, funcrel.ErrVOFailedToInstantiate
	}
	return t.Poly, nil
}

// AsEval returns the term's evaluation, or ErrVOFailedToCompute if the
// combine function returned a polynomial on the query path.
func (t Term) AsEval() (fr.Element, error) {
	if t.Kind != KindEvaluation {
		return fr.Element{}, funcrel.ErrVOFailedToCompute
	}
	return t.Eval, nil
}

// Add returns t + other, both terms of matching kind.
func (t Term) Add(other Term) Term {
	if t.Kind == KindEvaluation {
		var e fr.Element
		e.Add(&t.Eval, &other.Eval)
		return EvalTerm(e)
	}
	return PolyTerm(utils.Add(t.Poly, other.Poly))
}

// Sub returns t - other, both terms of matching kind.
func (t Term) Sub(other Term) Term {
	if t.Kind == KindEvaluation {
		var e fr.Element
		e.Sub(&t.Eval, &other.Eval)
		return EvalTerm(e)
	}
	return PolyTerm(utils.Sub(t.Poly, other.Poly))
}

// Mul returns t * other, both terms of matching kind.
func (t Term) Mul(other Term) Term {
	if t.Kind == KindEvaluation {
		var e fr.Element
		e.Mul(&t.Eval, &other.Eval)
		return EvalTerm(e)
	}
	return PolyTerm(utils.Mul(t.Poly, other.Poly))
}
