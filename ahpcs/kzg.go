package ahpcs

import (
	"fmt"
	"hash"
	"io"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/consensys/gnark-crypto/ecc/bn254/shplonk"
	gp "github.com/mdehoog/gnark-ptau"

	"github.com/giuliop/funcrel"
)

// Conf selects how the KZG structured reference string is generated.
type Conf int

const (
	// TestOnly generates the SRS from a fixed secret. Not suitable for
	// production.
	TestOnly Conf = iota
	// Trusted loads the SRS from a powers-of-tau ceremony file.
	Trusted
)

// KZG implements Scheme with KZG commitments over BN254. Single-point
// openings use the plain KZG batch argument; query-set openings with
// distinct points use the shplonk argument.
//
// This instantiation is not hiding: gnark-crypto's KZG commits without
// blinding, so every Randomness it returns is the zero element of the
// randomness group. The Randomness plumbing stays live so that a hiding
// scheme can be swapped in without touching the subprotocols.
type KZG struct {
	pk kzg.ProvingKey
	vk kzg.VerifyingKey
	hf func() hash.Hash

	supportedDegree int
	hidingBound     int
	enforcedBounds  []int
}

// Setup builds the scheme's universal parameters for degrees up to
// maxDegree. With Trusted, ceremony must stream a .ptau ceremony file;
// with TestOnly it is ignored.
func Setup(maxDegree int, hf func() hash.Hash, conf Conf, ceremony io.Reader) (*KZG, error) {
	var srs *kzg.SRS
	var err error
	switch conf {
	case TestOnly:
		srs, err = kzg.NewSRS(uint64(maxDegree+1), big.NewInt(-1))
	case Trusted:
		srs, err = gp.ToSRS(ceremony)
	default:
		err = fmt.Errorf("unknown setup conf %d", conf)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: setup: %v", funcrel.ErrPC, err)
	}
	if len(srs.Pk.G1) < maxDegree+1 {
		return nil, fmt.Errorf("%w: ceremony supports degree %d, need %d",
			funcrel.ErrPC, len(srs.Pk.G1)-1, maxDegree)
	}
	return &KZG{
		pk:              kzg.ProvingKey{G1: srs.Pk.G1[:maxDegree+1]},
		vk:              srs.Vk,
		hf:              hf,
		supportedDegree: maxDegree,
	}, nil
}

// Trim specializes the scheme to a supported degree, a hiding bound and
// a set of enforceable degree bounds, returning the trimmed scheme.
func (k *KZG) Trim(supportedDegree, hidingBound int, enforcedBounds []int) (*KZG, error) {
	if supportedDegree > k.supportedDegree {
		return nil, fmt.Errorf("%w: trim to degree %d exceeds setup degree %d",
			funcrel.ErrPC, supportedDegree, k.supportedDegree)
	}
	return &KZG{
		pk:              kzg.ProvingKey{G1: k.pk.G1[:supportedDegree+1]},
		vk:              k.vk,
		hf:              k.hf,
		supportedDegree: supportedDegree,
		hidingBound:     hidingBound,
		enforcedBounds:  enforcedBounds,
	}, nil
}

// MaxDegree is the largest polynomial degree the scheme supports.
func (k *KZG) MaxDegree() int { return k.supportedDegree }

// Commit commits each polynomial, enforcing its declared degree bound.
func (k *KZG) Commit(polys []LabeledPolynomial) ([]LabeledCommitment, []Randomness, error) {
	commitments := make([]LabeledCommitment, len(polys))
	rands := make([]Randomness, len(polys))
	for i, p := range polys {
		if err := k.checkBounds(p); err != nil {
			return nil, nil, err
		}
		digest, err := kzg.Commit(p.Coeffs, k.pk)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: committing '%s': %v", funcrel.ErrPC, p.Label, err)
		}
		commitments[i] = LabeledCommitment{
			Label:       p.Label,
			Commitment:  kzgCommitment{digest},
			DegreeBound: p.DegreeBound,
		}
		rands[i] = kzgRandomness{}
	}
	return commitments, rands, nil
}

// Open proves the evaluations of polys at point with a single folded
// KZG opening.
func (k *KZG) Open(polys []LabeledPolynomial, point fr.Element, rands []Randomness, transcriptData ...[]byte) (BatchOpeningProof, error) {
	if len(rands) != len(polys) {
		return nil, fmt.Errorf("%w: %d polynomials but %d randomness values",
			funcrel.ErrInputLength, len(polys), len(rands))
	}
	coeffs := make([][]fr.Element, len(polys))
	digests := make([]kzg.Digest, len(polys))
	for i, p := range polys {
		coeffs[i] = p.Coeffs
		d, err := kzg.Commit(p.Coeffs, k.pk)
		if err != nil {
			return nil, fmt.Errorf("%w: opening '%s': %v", funcrel.ErrPC, p.Label, err)
		}
		digests[i] = d
	}
	proof, err := kzg.BatchOpenSinglePoint(coeffs, digests, point, k.hf(), k.pk, transcriptData...)
	if err != nil {
		return nil, fmt.Errorf("%w: batch open: %v", funcrel.ErrPC, err)
	}
	return kzgProof{proof}, nil
}

// Check verifies a single-point opening produced by Open.
func (k *KZG) Check(commitments []LabeledCommitment, point fr.Element, proof BatchOpeningProof, transcriptData ...[]byte) error {
	p, ok := proof.(kzgProof)
	if !ok {
		return fmt.Errorf("%w: proof was not produced by this scheme", funcrel.ErrPC)
	}
	digests, err := digestsOf(commitments)
	if err != nil {
		return err
	}
	if err := kzg.BatchVerifySinglePoint(digests, &p.proof, point, k.hf(), k.vk, transcriptData...); err != nil {
		return fmt.Errorf("%w: %v", funcrel.ErrBatchCheck, err)
	}
	return nil
}

// BatchOpen proves a query set: polys[i] is opened at points[i], via the
// shplonk multi-point argument.
func (k *KZG) BatchOpen(polys []LabeledPolynomial, points []fr.Element, rands []Randomness, transcriptData ...[]byte) (BatchOpeningProof, error) {
	if len(points) != len(polys) || len(rands) != len(polys) {
		return nil, fmt.Errorf("%w: %d polynomials, %d points, %d randomness values",
			funcrel.ErrInputLength, len(polys), len(points), len(rands))
	}
	coeffs := make([][]fr.Element, len(polys))
	digests := make([]kzg.Digest, len(polys))
	for i, p := range polys {
		coeffs[i] = p.Coeffs
		d, err := kzg.Commit(p.Coeffs, k.pk)
		if err != nil {
			return nil, fmt.Errorf("%w: opening '%s': %v", funcrel.ErrPC, p.Label, err)
		}
		digests[i] = d
	}
	proof, err := shplonk.BatchOpen(coeffs, digests, points, k.hf(), k.pk, transcriptData...)
	if err != nil {
		return nil, fmt.Errorf("%w: shplonk open: %v", funcrel.ErrPC, err)
	}
	return shplonkProof{proof}, nil
}

// BatchCheck verifies a query-set opening produced by BatchOpen.
func (k *KZG) BatchCheck(commitments []LabeledCommitment, points []fr.Element, proof BatchOpeningProof, transcriptData ...[]byte) error {
	p, ok := proof.(shplonkProof)
	if !ok {
		return fmt.Errorf("%w: proof was not produced by this scheme", funcrel.ErrPC)
	}
	digests, err := digestsOf(commitments)
	if err != nil {
		return err
	}
	if err := shplonk.BatchVerify(p.proof, digests, points, k.hf(), k.vk, transcriptData...); err != nil {
		return fmt.Errorf("%w: %v", funcrel.ErrBatchCheck, err)
	}
	return nil
}

func (k *KZG) checkBounds(p LabeledPolynomial) error {
	deg := len(p.Coeffs) - 1
	if deg > k.supportedDegree {
		return fmt.Errorf("%w: '%s' has degree %d, scheme supports %d",
			funcrel.ErrPC, p.Label, deg, k.supportedDegree)
	}
	if p.DegreeBound == NoBound {
		return nil
	}
	if deg > p.DegreeBound {
		return fmt.Errorf("%w: '%s' has degree %d above its bound %d",
			funcrel.ErrPC, p.Label, deg, p.DegreeBound)
	}
	if len(k.enforcedBounds) > 0 {
		for _, b := range k.enforcedBounds {
			if b == p.DegreeBound {
				return nil
			}
		}
		return fmt.Errorf("%w: '%s' declares bound %d, not among the enforced bounds",
			funcrel.ErrPC, p.Label, p.DegreeBound)
	}
	return nil
}

func digestsOf(commitments []LabeledCommitment) ([]kzg.Digest, error) {
	digests := make([]kzg.Digest, len(commitments))
	for i, c := range commitments {
		kc, ok := c.Commitment.(kzgCommitment)
		if !ok {
			return nil, fmt.Errorf("%w: commitment '%s' was not produced by this scheme",
				funcrel.ErrPC, c.Label)
		}
		digests[i] = kc.digest
	}
	return digests, nil
}

// kzgCommitment wraps a G1 point as a Commitment.
type kzgCommitment struct {
	digest kzg.Digest
}

func (c kzgCommitment) Add(other Commitment) Commitment {
	o := other.(kzgCommitment)
	var res bn254.G1Affine
	res.Add(&c.digest, &o.digest)
	return kzgCommitment{res}
}

func (c kzgCommitment) ScalarMul(s fr.Element) Commitment {
	var bi big.Int
	s.BigInt(&bi)
	var res bn254.G1Affine
	res.ScalarMultiplication(&c.digest, &bi)
	return kzgCommitment{res}
}

func (c kzgCommitment) Equal(other Commitment) bool {
	o, ok := other.(kzgCommitment)
	return ok && c.digest.Equal(&o.digest)
}

func (c kzgCommitment) Bytes() []byte {
	b := c.digest.Marshal()
	return b
}

// kzgRandomness is the zero element of the randomness group; the scheme
// is not hiding.
type kzgRandomness struct{}

func (r kzgRandomness) Add(Randomness) Randomness       { return r }
func (r kzgRandomness) ScalarMul(fr.Element) Randomness { return r }

type kzgProof struct {
	proof kzg.BatchOpeningProof
}

func (p kzgProof) ClaimedValues() []fr.Element { return p.proof.ClaimedValues }

type shplonkProof struct {
	proof shplonk.OpeningProof
}

func (p shplonkProof) ClaimedValues() []fr.Element { return p.proof.ClaimedValues }
