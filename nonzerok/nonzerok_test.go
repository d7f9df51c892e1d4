package nonzerok

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

func TestRoundTrip(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	// X+2 has no root among the 8th roots of unity.
	f := ahpcs.NewLabeledPolynomial("f", []fr.Element{fr.NewElement(2), fr.NewElement(1)})
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{f})
	assert.NoError(err)

	proof, err := Prove(scheme, d, f, commitments[0], rands[0], sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, d, commitments[0], proof, sha256.New()))
}

func TestZeroEvaluationRejected(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	// Zero out one evaluation on K.
	evals := make([]fr.Element, 8)
	for i := range evals {
		evals[i] = fr.NewElement(uint64(i + 1))
	}
	evals[3].SetZero()
	f := ahpcs.NewLabeledPolynomial("f", utils.InterpolateOnDomain(evals, d))
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{f})
	assert.NoError(err)

	_, err = Prove(scheme, d, f, commitments[0], rands[0], sha256.New())
	assert.ErrorIs(err, funcrel.ErrFEvalIsZero)
}

func TestWrongCommitmentRejected(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	d := fft.NewDomain(8)

	f := ahpcs.NewLabeledPolynomial("f", []fr.Element{fr.NewElement(2), fr.NewElement(1)})
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{f})
	assert.NoError(err)

	proof, err := Prove(scheme, d, f, commitments[0], rands[0], sha256.New())
	assert.NoError(err)

	other := ahpcs.NewLabeledPolynomial("f", []fr.Element{fr.NewElement(3), fr.NewElement(1)})
	otherCommitments, _, err := scheme.Commit([]ahpcs.LabeledPolynomial{other})
	assert.NoError(err)
	assert.Error(Verify(scheme, d, otherCommitments[0], proof, sha256.New()))
}
