package geoseq

import (
	"crypto/sha256"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/stretchr/testify/require"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
)

func testScheme(t *testing.T) *ahpcs.KZG {
	t.Helper()
	scheme, err := ahpcs.Setup(64, sha256.New, ahpcs.TestOnly, nil)
	require.NoError(t, err)
	return scheme
}

func commitSequence(t *testing.T, scheme *ahpcs.KZG, d *fft.Domain, evals []fr.Element) (ahpcs.LabeledPolynomial, ahpcs.LabeledCommitment, ahpcs.Randomness) {
	t.Helper()
	h := ahpcs.NewLabeledPolynomial("h", utils.InterpolateOnDomain(evals, d))
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{h})
	require.NoError(t, err)
	return h, commitments[0], rands[0]
}

func TestSingleRunRoundTrip(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	var one fr.Element
	one.SetOne()
	ratio := fr.NewElement(2)
	a := []fr.Element{one}
	c := []int{8}

	seq, err := utils.GenerateSequence(ratio, a, c)
	assert.NoError(err)
	h, hCommitment, hRand := commitSequence(t, scheme, d, seq)

	proof, err := Prove(scheme, d, ratio, a, c, h, hCommitment, hRand, sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, d, ratio, a, c, hCommitment, proof, sha256.New()))
}

func TestPerturbedSequenceRejected(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	var one fr.Element
	one.SetOne()
	ratio := fr.NewElement(2)
	a := []fr.Element{one}
	c := []int{8}

	seq, err := utils.GenerateSequence(ratio, a, c)
	assert.NoError(err)
	seq[3] = fr.NewElement(9)
	h, hCommitment, hRand := commitSequence(t, scheme, d, seq)

	_, err = Prove(scheme, d, ratio, a, c, h, hCommitment, hRand, sha256.New())
	assert.ErrorIs(err, funcrel.ErrCheck1Failed)
}

func TestMultipleRuns(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	ratio := fr.NewElement(3)
	a := []fr.Element{fr.NewElement(1), fr.NewElement(5), fr.NewElement(2)}
	c := []int{4, 2, 2}

	seq, err := utils.GenerateSequence(ratio, a, c)
	assert.NoError(err)
	h, hCommitment, hRand := commitSequence(t, scheme, d, seq)

	proof, err := Prove(scheme, d, ratio, a, c, h, hCommitment, hRand, sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, d, ratio, a, c, hCommitment, proof, sha256.New()))

	// A verifier given the wrong starting values rejects on the
	// boundary openings.
	badA := []fr.Element{fr.NewElement(1), fr.NewElement(6), fr.NewElement(2)}
	err = Verify(scheme, d, ratio, badA, c, hCommitment, proof, sha256.New())
	assert.Error(err)
}

func TestRunLengthsMustTileK(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	var one fr.Element
	one.SetOne()
	ratio := fr.NewElement(2)
	h := ahpcs.NewLabeledPolynomial("h", []fr.Element{one})
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{h})
	assert.NoError(err)

	_, err = Prove(scheme, d, ratio, []fr.Element{one}, []int{7}, h, commitments[0], rands[0], sha256.New())
	assert.ErrorIs(err, funcrel.ErrT2Large)

	_, err = Prove(scheme, d, ratio, []fr.Element{one}, []int{8, 1}, h, commitments[0], rands[0], sha256.New())
	assert.ErrorIs(err, funcrel.ErrInputLength)
}

// A zero-padded tail is itself a geometric run, the shape dlcomp and
// tslt both rely on.
func TestZeroPaddedTail(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	var one fr.Element
	one.SetOne()
	ratio := fr.NewElement(4)
	a := []fr.Element{one, {}}
	c := []int{4, 4}

	seq, err := utils.GenerateSequence(ratio, a, c)
	assert.NoError(err)
	h, hCommitment, hRand := commitSequence(t, scheme, d, seq)

	proof, err := Prove(scheme, d, ratio, a, c, h, hCommitment, hRand, sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, d, ratio, a, c, hCommitment, proof, sha256.New()))
}
