package vo

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/stretchr/testify/require"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
)

func labeled(label string, coeffs []fr.Element) ahpcs.LabeledPolynomial {
	return ahpcs.NewLabeledPolynomial(label, coeffs)
}

// Instantiating a virtual oracle and evaluating the result at a point
// must agree with querying it on the concrete oracles' evaluations at
// their shifted points.
func TestInstantiateMatchesQuery(t *testing.T) {
	assert := require.New(t)

	p0 := labeled("p0", []fr.Element{fr.NewElement(3), fr.NewElement(1), fr.NewElement(4)})
	p1 := labeled("p1", []fr.Element{fr.NewElement(1), fr.NewElement(5)})
	concrete := []ahpcs.LabeledPolynomial{p0, p1}

	var one fr.Element
	one.SetOne()
	alpha := fr.NewElement(9)
	general, err := NewGeneral("shifted_diff", []int{0, 1}, []fr.Element{one, alpha},
		func(terms []Term) Term {
			return terms[0].Sub(terms[1].Mul(terms[1]))
		})
	assert.NoError(err)

	point := fr.NewElement(17)
	vPoly, err := general.InstantiatePoly(concrete)
	assert.NoError(err)
	want := utils.Eval(vPoly, point)

	// Evaluations of each term's oracle at shift * point.
	var alphaPoint fr.Element
	alphaPoint.Mul(&alpha, &point)
	evals := []fr.Element{
		utils.Eval(p0.Coeffs, point),
		utils.Eval(p1.Coeffs, alphaPoint),
	}
	got, err := general.Query(evals, point)
	assert.NoError(err)
	assert.True(want.Equal(&got))
}

func TestPresets(t *testing.T) {
	assert := require.New(t)
	d := fft.NewDomain(8)

	p1 := labeled("p1", []fr.Element{fr.NewElement(1), fr.NewElement(1)})
	p0 := labeled("p0", utils.Mul(p1.Coeffs, p1.Coeffs))

	// SquareCheck vanishes identically on (p1^2, p1).
	square := NewSquareCheck()
	evals, err := square.InstantiateEvals([]ahpcs.LabeledPolynomial{p0, p1}, d)
	assert.NoError(err)
	for i := range evals {
		assert.True(evals[i].IsZero())
	}

	// ProductCheck vanishes on (p0*p1, p0, p1).
	product := NewProductCheck()
	prod := labeled("prod", utils.Mul(p0.Coeffs, p1.Coeffs))
	vPoly, err := product.InstantiatePoly([]ahpcs.LabeledPolynomial{prod, p0, p1})
	assert.NoError(err)
	assert.True(utils.IsZero(vPoly))

	// InverseCheck vanishes on K for the pointwise inverse, and only
	// there: the combined polynomial is nonzero but divisible by Z_K.
	// X+2 has no root among the roots of unity.
	f := labeled("f", []fr.Element{fr.NewElement(2), fr.NewElement(1)})
	fEvals := utils.EvaluateOnDomain(f.Coeffs, d)
	gEvals := fr.BatchInvert(fEvals)
	g := labeled("g", utils.InterpolateOnDomain(gEvals, d))
	inverse := NewInverseCheck()
	vPoly, err = inverse.InstantiatePoly([]ahpcs.LabeledPolynomial{f, g})
	assert.NoError(err)
	assert.False(utils.IsZero(vPoly))
	_, r := utils.DivByVanishing(vPoly, 8)
	assert.True(utils.IsZero(r))
}

func TestArityErrors(t *testing.T) {
	assert := require.New(t)

	p := labeled("p", []fr.Element{fr.NewElement(1)})
	square := NewSquareCheck()

	_, err := square.InstantiatePoly([]ahpcs.LabeledPolynomial{p})
	assert.ErrorIs(err, funcrel.ErrInstantiation)

	_, err = square.Query([]fr.Element{fr.NewElement(1)}, fr.Element{})
	assert.ErrorIs(err, funcrel.ErrEvaluation)
}

func TestTermShapeMisuse(t *testing.T) {
	assert := require.New(t)

	var one fr.Element
	one.SetOne()
	// A combine function that always returns a polynomial fails the
	// query path, and one that always returns an evaluation fails the
	// instantiation path.
	alwaysPoly, err := NewGeneral("bad", []int{0}, []fr.Element{one}, func(terms []Term) Term {
		return PolyTerm([]fr.Element{one})
	})
	assert.NoError(err)
	_, err = alwaysPoly.Query([]fr.Element{one}, fr.Element{})
	assert.ErrorIs(err, funcrel.ErrVOFailedToCompute)

	alwaysEval, err := NewGeneral("bad", []int{0}, []fr.Element{one}, func(terms []Term) Term {
		return EvalTerm(one)
	})
	assert.NoError(err)
	_, err = alwaysEval.InstantiatePoly([]ahpcs.LabeledPolynomial{labeled("p", []fr.Element{one})})
	assert.ErrorIs(err, funcrel.ErrVOFailedToInstantiate)

	// Mapping and shifts must pair up.
	_, err = NewGeneral("bad", []int{0, 1}, []fr.Element{one}, nil)
	assert.ErrorIs(err, funcrel.ErrInputLength)
}

func TestTermLabels(t *testing.T) {
	assert := require.New(t)

	var one fr.Element
	one.SetOne()
	general, err := NewGeneral("v", []int{1, 0, 1}, []fr.Element{one, one, one}, nil)
	assert.NoError(err)
	labels := general.TermLabels([]string{"f", "g"})
	assert.Equal([]string{"g_times_alpha0", "f_times_alpha1", "g_times_alpha2"}, labels)
}
