package vo

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

func ones(n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := range out {
		out[i].SetOne()
	}
	return out
}

// NewSquareCheck builds the two-term oracle f0 - f1^2. Vanishing on a
// set means f0 = f1^2 everywhere on it.
func NewSquareCheck() *General {
	v, _ := NewGeneral("SquareCheck", []int{0, 1}, ones(2), func(terms []Term) Term {
		return terms[0].Sub(terms[1].Mul(terms[1]))
	})
	return v
}

// NewProductCheck builds the three-term oracle f0 - f1*f2. Vanishing on
// a set means f0 = f1*f2 everywhere on it.
func NewProductCheck() *General {
	v, _ := NewGeneral("ProductCheck", []int{0, 1, 2}, ones(3), func(terms []Term) Term {
		return terms[0].Sub(terms[1].Mul(terms[2]))
	})
	return v
}

// NewInverseCheck builds the two-term oracle 1 - f0*f1. Vanishing on a
// set means f1 is the pointwise inverse of f0 everywhere on it.
func NewInverseCheck() *General {
	var one fr.Element
	one.SetOne()
	v, _ := NewGeneral("InverseCheck", []int{0, 1}, ones(2), func(terms []Term) Term {
		return ConstTerm(terms[0], one).Sub(terms[0].Mul(terms[1]))
	})
	return v
}
