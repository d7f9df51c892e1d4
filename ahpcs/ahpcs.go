// Package ahpcs defines the additively homomorphic polynomial commitment
// scheme the subprotocols compile against, and implements it with KZG
// over BN254.
//
// Additive homomorphism is the property the whole suite leans on: a
// verifier can form the commitment to any public linear combination of
// committed polynomials directly from the commitments, without seeing
// the polynomials. LCOfCommitments and MultiScalarMul implement that
// group arithmetic generically over the Commitment interface.
package ahpcs

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/giuliop/funcrel"
)

// NoBound marks a polynomial or commitment with no enforced degree bound.
const NoBound = -1

// Commitment is an element of the scheme's commitment group.
type Commitment interface {
	// Add returns the group sum of the receiver and other.
	Add(other Commitment) Commitment
	// ScalarMul returns the receiver scaled by s.
	ScalarMul(s fr.Element) Commitment
	// Equal reports group-element equality.
	Equal(other Commitment) bool
	// Bytes returns a canonical encoding for transcript binding.
	Bytes() []byte
}

// Randomness is the hiding value paired with a commitment. It forms an
// abelian group scalable by fr.Element so that linear combinations of
// commitments carry matching combinations of randomness.
type Randomness interface {
	Add(other Randomness) Randomness
	ScalarMul(s fr.Element) Randomness
}

// LabeledPolynomial carries a dense polynomial (coefficients, lowest
// degree first) together with the label its commitment is referenced by
// and its optional degree and hiding bounds.
type LabeledPolynomial struct {
	Label       string
	Coeffs      []fr.Element
	DegreeBound int
	HidingBound int
}

// NewLabeledPolynomial returns a labeled polynomial with no bounds.
func NewLabeledPolynomial(label string, coeffs []fr.Element) LabeledPolynomial {
	return LabeledPolynomial{Label: label, Coeffs: coeffs, DegreeBound: NoBound}
}

// LabeledCommitment pairs a commitment with its polynomial's label and
// degree bound.
type LabeledCommitment struct {
	Label       string
	Commitment  Commitment
	DegreeBound int
}

// Bytes returns the transcript encoding of a labeled commitment: the
// label followed by the canonical group-element encoding.
func (c LabeledCommitment) Bytes() []byte {
	out := append([]byte(c.Label), ':')
	return append(out, c.Commitment.Bytes()...)
}

// LCTerm is one summand of a linear combination: Coeff times the
// polynomial committed under Label.
type LCTerm struct {
	Coeff fr.Element
	Label string
}

// LinearCombination names a public linear combination of committed
// polynomials.
type LinearCombination struct {
	Label string
	Terms []LCTerm
}

// BatchOpeningProof is an opaque opening proof together with the
// evaluations it claims; verifiers read the claimed values to finish
// their own algebraic checks after the scheme has validated them.
type BatchOpeningProof interface {
	ClaimedValues() []fr.Element
}

// Scheme is the commitment-scheme capability set the subprotocols need.
// Implementations must be additively homomorphic: commitments (and
// randomness) of linear combinations equal linear combinations of
// commitments (and randomness).
type Scheme interface {
	// MaxDegree is the largest polynomial degree the scheme supports.
	MaxDegree() int

	// Commit produces one commitment/randomness pair per polynomial.
	Commit(polys []LabeledPolynomial) ([]LabeledCommitment, []Randomness, error)

	// Open proves the evaluations of polys at a single shared point.
	// transcriptData is extra context bound into the opening's own
	// Fiat-Shamir transcript.
	Open(polys []LabeledPolynomial, point fr.Element, rands []Randomness, transcriptData ...[]byte) (BatchOpeningProof, error)

	// Check verifies a single-point batch opening.
	Check(commitments []LabeledCommitment, point fr.Element, proof BatchOpeningProof, transcriptData ...[]byte) error

	// BatchOpen proves evaluations for a query set: polys[i] is opened
	// at points[i]. The same polynomial may appear several times at
	// different points.
	BatchOpen(polys []LabeledPolynomial, points []fr.Element, rands []Randomness, transcriptData ...[]byte) (BatchOpeningProof, error)

	// BatchCheck verifies a query-set opening: commitments[i] must open
	// at points[i] to the proof's i-th claimed value.
	BatchCheck(commitments []LabeledCommitment, points []fr.Element, proof BatchOpeningProof, transcriptData ...[]byte) error
}

// LCOfCommitments computes the commitment to the linear combination lc
// of the supplied committed polynomials, by group arithmetic alone. All
// commitments must share one degree bound; referenced labels must exist.
func LCOfCommitments(lc LinearCombination, commitments []LabeledCommitment) (LabeledCommitment, error) {
	if err := checkSharedBound(commitments); err != nil {
		return LabeledCommitment{}, err
	}
	var acc Commitment
	for _, term := range lc.Terms {
		c, ok := findCommitment(commitments, term.Label)
		if !ok {
			return LabeledCommitment{}, fmt.Errorf("%w: '%s' while computing '%s'",
				funcrel.ErrMissingCommitment, term.Label, lc.Label)
		}
		scaled := c.Commitment.ScalarMul(term.Coeff)
		if acc == nil {
			acc = scaled
		} else {
			acc = acc.Add(scaled)
		}
	}
	return LabeledCommitment{Label: lc.Label, Commitment: acc, DegreeBound: commitments[0].DegreeBound}, nil
}

// LCOfCommitmentsWithRands behaves like LCOfCommitments and additionally
// folds the matching linear combination of hiding randomness, for
// provers who must later open the combined commitment. commitments and
// rands match one to one, in order.
func LCOfCommitmentsWithRands(lc LinearCombination, commitments []LabeledCommitment, rands []Randomness) (LabeledCommitment, Randomness, error) {
	if len(commitments) != len(rands) {
		return LabeledCommitment{}, nil, fmt.Errorf("%w: %d commitments but %d randomness values",
			funcrel.ErrInputLength, len(commitments), len(rands))
	}
	combined, err := LCOfCommitments(lc, commitments)
	if err != nil {
		return LabeledCommitment{}, nil, err
	}
	var accRand Randomness
	for _, term := range lc.Terms {
		for i := range commitments {
			if commitments[i].Label != term.Label {
				continue
			}
			scaled := rands[i].ScalarMul(term.Coeff)
			if accRand == nil {
				accRand = scaled
			} else {
				accRand = accRand.Add(scaled)
			}
			break
		}
	}
	return combined, accRand, nil
}

// MultiScalarMul returns the scalar-weighted sum of bare commitments.
func MultiScalarMul(commitments []Commitment, scalars []fr.Element) (Commitment, error) {
	if len(commitments) != len(scalars) {
		return nil, fmt.Errorf("%w: %d commitments but %d scalars",
			funcrel.ErrInputLength, len(commitments), len(scalars))
	}
	var acc Commitment
	for i := range commitments {
		scaled := commitments[i].ScalarMul(scalars[i])
		if acc == nil {
			acc = scaled
		} else {
			acc = acc.Add(scaled)
		}
	}
	return acc, nil
}

func checkSharedBound(commitments []LabeledCommitment) error {
	if len(commitments) == 0 {
		return fmt.Errorf("%w: no commitments supplied", funcrel.ErrInputLength)
	}
	bound := commitments[0].DegreeBound
	for _, c := range commitments[1:] {
		if c.DegreeBound != bound {
			return fmt.Errorf("%w: '%s' has bound %d but '%s' has bound %d",
				funcrel.ErrMismatchedDegreeBounds,
				commitments[0].Label, bound, c.Label, c.DegreeBound)
		}
	}
	return nil
}

func findCommitment(commitments []LabeledCommitment, label string) (LabeledCommitment, bool) {
	for _, c := range commitments {
		if c.Label == label {
			return c, true
		}
	}
	return LabeledCommitment{}, false
}
