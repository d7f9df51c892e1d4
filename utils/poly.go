// Package utils contains the dense-polynomial and evaluation-domain
// helpers shared by the subprotocol packages. Polynomials are coefficient
// slices of fr.Element, lowest degree first.
package utils

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
)

// Eval evaluates f at x with Horner's rule.
func Eval(f []fr.Element, x fr.Element) fr.Element {
	if len(f) == 0 {
		return fr.Element{}
	}
	y := f[len(f)-1]
	for i := len(f) - 2; i >= 0; i-- {
		y.Mul(&y, &x)
		y.Add(&y, &f[i])
	}
	return y
}

// Add returns f+g.
func Add(f, g []fr.Element) []fr.Element {
	if len(g) > len(f) {
		f, g = g, f
	}
	res := make([]fr.Element, len(f))
	copy(res, f)
	for i := 0; i < len(g); i++ {
		res[i].Add(&res[i], &g[i])
	}
	return res
}

// Sub returns f-g.
func Sub(f, g []fr.Element) []fr.Element {
	size := len(f)
	if len(g) > size {
		size = len(g)
	}
	res := make([]fr.Element, size)
	copy(res, f)
	for i := 0; i < len(g); i++ {
		res[i].Sub(&res[i], &g[i])
	}
	return res
}

// Mul returns f*g using schoolbook multiplication. The polynomials this
// suite multiplies are either domain-sized or short vanishing products,
// so an FFT-based product is not worth the blowup domain it would need.
func Mul(f, g []fr.Element) []fr.Element {
	if len(f) == 0 || len(g) == 0 {
		return nil
	}
	res := make([]fr.Element, len(f)+len(g)-1)
	var tmp fr.Element
	for i := 0; i < len(g); i++ {
		for j := 0; j < len(f); j++ {
			tmp.Mul(&f[j], &g[i])
			res[j+i].Add(&res[j+i], &tmp)
		}
	}
	return res
}

// MulByConstant returns c*f without modifying f.
func MulByConstant(f []fr.Element, c fr.Element) []fr.Element {
	res := make([]fr.Element, len(f))
	for i := range f {
		res[i].Mul(&f[i], &c)
	}
	return res
}

// Shift returns f(alpha*X): coefficient i is scaled by alpha^i.
func Shift(f []fr.Element, alpha fr.Element) []fr.Element {
	res := make([]fr.Element, len(f))
	var acc fr.Element
	acc.SetOne()
	for i := range f {
		res[i].Mul(&f[i], &acc)
		acc.Mul(&acc, &alpha)
	}
	return res
}

// IsZero reports whether every coefficient of f is zero.
func IsZero(f []fr.Element) bool {
	for i := range f {
		if !f[i].IsZero() {
			return false
		}
	}
	return true
}

// BuildVanishingPoly returns the monic polynomial with the given roots,
// as the running product of the linear factors X - root.
func BuildVanishingPoly(roots []fr.Element) []fr.Element {
	res := make([]fr.Element, 1, len(roots)+1)
	res[0].SetOne()
	var factor [2]fr.Element
	factor[1].SetOne()
	for i := range roots {
		factor[0].Neg(&roots[i])
		res = Mul(res, factor[:])
	}
	return res
}

// DivByVanishing divides f by X^n - 1 and returns quotient and
// remainder. The remainder has degree below n.
func DivByVanishing(f []fr.Element, n int) (q, r []fr.Element) {
	if len(f) <= n {
		r = make([]fr.Element, len(f))
		copy(r, f)
		return nil, r
	}
	r = make([]fr.Element, len(f))
	copy(r, f)
	q = make([]fr.Element, len(f)-n)
	for i := len(r) - 1; i >= n; i-- {
		q[i-n].Add(&q[i-n], &r[i])
		r[i-n].Add(&r[i-n], &r[i])
		r[i].SetZero()
	}
	return q, r[:n]
}

// EvaluateOnDomain returns the evaluations of f over d in natural order.
// f may have fewer coefficients than the domain size.
func EvaluateOnDomain(f []fr.Element, d *fft.Domain) []fr.Element {
	evals := make([]fr.Element, d.Cardinality)
	copy(evals, f)
	d.FFT(evals, fft.DIF)
	fft.BitReverse(evals)
	return evals
}

// InterpolateOnDomain returns the coefficients of the unique polynomial
// of degree below |d| taking the given values over d in natural order.
func InterpolateOnDomain(evals []fr.Element, d *fft.Domain) []fr.Element {
	coeffs := make([]fr.Element, d.Cardinality)
	copy(coeffs, evals)
	d.FFTInverse(coeffs, fft.DIF)
	fft.BitReverse(coeffs)
	return coeffs
}

// Powers returns the first n powers of x, starting at x^0.
func Powers(x fr.Element, n int) []fr.Element {
	res := make([]fr.Element, n)
	if n == 0 {
		return res
	}
	res[0].SetOne()
	for i := 1; i < n; i++ {
		res[i].Mul(&res[i-1], &x)
	}
	return res
}

// DomainElement returns the i-th element of d, i.e. its generator to
// the i-th power.
func DomainElement(d *fft.Domain, i int) fr.Element {
	var res fr.Element
	res.Exp(d.Generator, big.NewInt(int64(i)))
	return res
}

// InDomain reports whether x lies in the multiplicative subgroup d.
func InDomain(d *fft.Domain, x fr.Element) bool {
	var y fr.Element
	y.Exp(x, new(big.Int).SetUint64(d.Cardinality))
	return y.IsOne()
}

// EvalVanishing evaluates Z_d(x) = x^|d| - 1.
func EvalVanishing(d *fft.Domain, x fr.Element) fr.Element {
	var one, y fr.Element
	one.SetOne()
	y.Exp(x, new(big.Int).SetUint64(d.Cardinality))
	y.Sub(&y, &one)
	return y
}
