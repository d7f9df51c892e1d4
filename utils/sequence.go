package utils

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/giuliop/funcrel"
)

// GenerateSequence lays geometric runs end to end: run k starts at a[k]
// and multiplies by ratio for c[k] terms, the last being
// a[k]*ratio^(c[k]-1).
func GenerateSequence(ratio fr.Element, a []fr.Element, c []int) ([]fr.Element, error) {
	if len(a) != len(c) {
		return nil, fmt.Errorf("%w: %d starting points but %d run lengths",
			funcrel.ErrInputLength, len(a), len(c))
	}
	var out []fr.Element
	for k := range a {
		cur := a[k]
		for i := 0; i < c[k]; i++ {
			out = append(out, cur)
			cur.Mul(&cur, &ratio)
		}
	}
	return out, nil
}
