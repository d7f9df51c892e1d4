// Package subsetk implements SubsetOverK: a non-interactive argument
// that every evaluation of a committed oracle over K lies in a small
// public set of field elements.
//
// The membership polynomial m(Y) is the monic polynomial vanishing
// exactly on the allowed set; m(f(X)) vanishes on K if and only if every
// evaluation of f on K is allowed. The test discharges that vanishing
// with ZeroOverK over a one-term virtual oracle. The allowed set is
// public and small, so the composed degree stays a modest multiple of
// the domain size.
package subsetk

import (
	"fmt"
	"hash"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/vo"
	"github.com/giuliop/funcrel/zerok"
)

// ProtocolName is the transcript context chained into the nested
// ZeroOverK call.
const ProtocolName = "Subset Over K"

// Proof is the ZeroOverK proof of the membership relation.
type Proof struct {
	ZeroProof zerok.Proof
}

// Prove shows every evaluation of f on domainK lies in allowed.
func Prove(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	allowed []fr.Element,
	f ahpcs.LabeledPolynomial,
	fCommitment ahpcs.LabeledCommitment,
	fRand ahpcs.Randomness,
	hf hash.Hash,
	dataTranscript ...[]byte,
) (Proof, error) {
	member, err := newMembershipOracle(allowed)
	if err != nil {
		return Proof{}, err
	}
	zeroProof, err := zerok.Prove(
		scheme, domainK, member,
		[]ahpcs.LabeledPolynomial{f},
		[]ahpcs.LabeledCommitment{fCommitment},
		[]ahpcs.Randomness{fRand},
		hf,
		chain(dataTranscript)...,
	)
	if err != nil {
		return Proof{}, err
	}
	return Proof{ZeroProof: zeroProof}, nil
}

// Verify checks proof against the commitment to f the verifier already
// holds, rebuilding the membership oracle from the public allowed set.
func Verify(
	scheme ahpcs.Scheme,
	domainK *fft.Domain,
	allowed []fr.Element,
	fCommitment ahpcs.LabeledCommitment,
	proof Proof,
	hf hash.Hash,
	dataTranscript ...[]byte,
) error {
	member, err := newMembershipOracle(allowed)
	if err != nil {
		return err
	}
	return zerok.Verify(
		scheme, domainK, member,
		[]ahpcs.LabeledCommitment{fCommitment},
		proof.ZeroProof,
		hf,
		chain(dataTranscript)...,
	)
}

// membershipOracle is the one-term oracle m(f(X)) for the allowed set's
// membership polynomial m. It overrides the general oracle's degree
// bound with the composed degree the product of linear factors actually
// reaches, which is what sizes the nested ZeroOverK's quotient work.
type membershipOracle struct {
	*vo.General
	setSize int
}

func (m membershipOracle) DegreeBound(domainSize int) int {
	return MaxCombinedDegree(domainSize, m.setSize)
}

func newMembershipOracle(allowed []fr.Element) (vo.VirtualOracle, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: allowed set is empty", funcrel.ErrInputLength)
	}
	set := append([]fr.Element(nil), allowed...)
	var one fr.Element
	one.SetOne()
	general, err := vo.NewGeneral("SubsetCheck", []int{0}, []fr.Element{one}, func(terms []vo.Term) vo.Term {
		acc := vo.ConstTerm(terms[0], one)
		for i := range set {
			acc = acc.Mul(terms[0].Sub(vo.ConstTerm(terms[0], set[i])))
		}
		return acc
	})
	if err != nil {
		return nil, err
	}
	return membershipOracle{General: general, setSize: len(set)}, nil
}

func chain(data [][]byte) [][]byte {
	return append([][]byte{[]byte(ProtocolName)}, data...)
}

// MaxCombinedDegree is the degree the instantiated membership oracle
// reaches: the membership oracle declares it as its degree bound, and
// callers size the commitment scheme's setup against it.
func MaxCombinedDegree(domainSize, allowedSize int) int {
	return (domainSize - 1) * allowedSize
}
