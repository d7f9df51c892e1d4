package tslt

import (
	"crypto/sha256"
	"os"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/stretchr/testify/require"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/frontend"
	"github.com/giuliop/funcrel/logger"
	"github.com/giuliop/funcrel/utils"
)

func TestMain(m *testing.M) {
	logger.Disable()
	os.Exit(m.Run())
}

func testScheme(t *testing.T) *ahpcs.KZG {
	t.Helper()
	scheme, err := ahpcs.Setup(64, sha256.New, ahpcs.TestOnly, nil)
	require.NoError(t, err)
	return scheme
}

func oracleFromPowers(label string, domainK, domainH *fft.Domain, exponents []int) ahpcs.LabeledPolynomial {
	evals := make([]fr.Element, len(exponents))
	for j, e := range exponents {
		evals[j] = utils.DomainElement(domainH, e)
	}
	return ahpcs.NewLabeledPolynomial(label, utils.InterpolateOnDomain(evals, domainK))
}

// A 4x4 matrix with entries at (2,0), (2,1), (3,2) and padding repeating
// the last entry: strictly lower triangular below row 2.
func validEncoding(domainK, domainH *fft.Domain) (row, col ahpcs.LabeledPolynomial) {
	row = oracleFromPowers("row", domainK, domainH, []int{2, 2, 3, 3, 3, 3, 3, 3})
	col = oracleFromPowers("col", domainK, domainH, []int{0, 1, 2, 2, 2, 2, 2, 2})
	return row, col
}

func TestRoundTrip(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	row, col := validEncoding(domainK, domainH)
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	proof, err := Prove(scheme, 2, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, 2, domainK, domainH,
		commitments[0], commitments[1], proof, sha256.New()))
}

func TestDiagonalEntryRejected(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	// col[4] raised to the row index: an entry on the diagonal.
	row := oracleFromPowers("row", domainK, domainH, []int{2, 2, 3, 3, 3, 3, 3, 3})
	col := oracleFromPowers("col", domainK, domainH, []int{0, 1, 2, 2, 3, 2, 2, 2})
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	_, err = Prove(scheme, 2, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.ErrorIs(err, funcrel.ErrFEvalIsZero)
}

func TestRowAboveTRejected(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	// A row index below t falls outside the admissible range.
	row := oracleFromPowers("row", domainK, domainH, []int{1, 2, 3, 3, 3, 3, 3, 3})
	col := oracleFromPowers("col", domainK, domainH, []int{0, 1, 2, 2, 2, 2, 2, 2})
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	_, err = Prove(scheme, 2, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.ErrorIs(err, funcrel.ErrCheck1Failed)
}

func TestTTooLarge(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	row, col := validEncoding(domainK, domainH)
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	_, err = Prove(scheme, 5, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.ErrorIs(err, funcrel.ErrT2Large)
}

// The full pipeline: the sample gate circuit arithmetized by the
// frontend, matrix A's row/col oracles fed straight into the test. A
// gate's operands always sit on earlier variables, so A is strictly
// lower triangular below the constant and input rows.
func TestGateCircuitMatrixA(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)

	a, _, _, err := frontend.GatesToMatrices(frontend.SampleGates())
	assert.NoError(err)

	domainH := fft.NewDomain(uint64(a.NumRows))
	domainK := fft.NewDomain(uint64(len(a.Entries)))
	tBound := a.EmptyLeadingRows()

	row, col, _, err := a.Oracles("a", domainK, domainH)
	assert.NoError(err)

	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	proof, err := Prove(scheme, tBound, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.NoError(err)
	assert.NoError(Verify(scheme, tBound, domainK, domainH,
		commitments[0], commitments[1], proof, sha256.New()))
}

func TestVerifierRejectsWrongT(t *testing.T) {
	assert := require.New(t)
	scheme := testScheme(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	row, col := validEncoding(domainK, domainH)
	commitments, rands, err := scheme.Commit([]ahpcs.LabeledPolynomial{row, col})
	assert.NoError(err)

	proof, err := Prove(scheme, 2, domainK, domainH, row, col,
		commitments[0], commitments[1], rands[0], rands[1], sha256.New())
	assert.NoError(err)

	assert.Error(Verify(scheme, 3, domainK, domainH,
		commitments[0], commitments[1], proof, sha256.New()))
}
