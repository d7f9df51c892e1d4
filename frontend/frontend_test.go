package frontend

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/stretchr/testify/require"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/utils"
)

func TestGateInput(t *testing.T) {
	assert := require.New(t)

	gates := SampleGates()
	idx, err := gates[1].Left.Gate()
	assert.NoError(err)
	assert.Equal(0, idx)

	_, err = gates[1].Right.Gate()
	assert.ErrorIs(err, funcrel.ErrGateInputNotGate)
	_, err = gates[2].Right.Gate()
	assert.ErrorIs(err, funcrel.ErrGateInputNotGate)
}

func TestGatesToMatrices(t *testing.T) {
	assert := require.New(t)

	a, b, c, err := GatesToMatrices(SampleGates())
	assert.NoError(err)

	// Square over the variable index space (1, x, g0..g4).
	assert.Equal(7, a.NumRows)
	assert.Equal(7, a.NumCols)
	assert.Equal(a.NumCols, b.NumCols)
	assert.Equal(a.NumCols, c.NumCols)

	// The constant and input rows carry no constraints.
	assert.Equal(2, a.EmptyLeadingRows())

	// Every gate's output entry sits on the diagonal of its own row.
	assert.Len(c.Entries, 5)
	for i, e := range c.Entries {
		assert.Equal(2+i, e.Row)
		assert.Equal(2+i, e.Col)
	}

	// Add gates place both operands in A and select the constant one in
	// B; every operand column is strictly below its constraint row.
	assert.Len(a.Entries, 7)
	assert.Len(b.Entries, 5)
	assert.Equal(0, b.Entries[3].Col)
	assert.Equal(0, b.Entries[4].Col)
	for _, e := range a.Entries {
		assert.Less(e.Col, e.Row)
	}

	// A forward gate reference is rejected.
	bad := []Gate{{Left: GateRef(1), Right: Input("x"), Type: GateMul}}
	_, _, _, err = GatesToMatrices(bad)
	assert.ErrorIs(err, funcrel.ErrInputLength)
}

func TestOracles(t *testing.T) {
	assert := require.New(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	m := SparseMatrix{
		NumRows: 4,
		NumCols: 4,
		Entries: []SparseEntry{
			{Row: 2, Col: 0, Val: fr.NewElement(7)},
			{Row: 2, Col: 1, Val: fr.NewElement(3)},
			{Row: 3, Col: 2, Val: fr.NewElement(9)},
		},
	}
	row, col, val, err := m.Oracles("m", domainK, domainH)
	assert.NoError(err)
	assert.Equal("m_row", row.Label)
	assert.Equal("m_col", col.Label)
	assert.Equal("m_val", val.Label)

	rowEvals := utils.EvaluateOnDomain(row.Coeffs, domainK)
	colEvals := utils.EvaluateOnDomain(col.Coeffs, domainK)
	valEvals := utils.EvaluateOnDomain(val.Coeffs, domainK)

	for j, e := range m.Entries {
		wantRow := utils.DomainElement(domainH, e.Row)
		wantCol := utils.DomainElement(domainH, e.Col)
		assert.True(rowEvals[j].Equal(&wantRow))
		assert.True(colEvals[j].Equal(&wantCol))
		assert.True(valEvals[j].Equal(&e.Val))
	}

	// Padding repeats the last entry's position with a zero value.
	last := m.Entries[len(m.Entries)-1]
	wantRow := utils.DomainElement(domainH, last.Row)
	for j := len(m.Entries); j < 8; j++ {
		assert.True(rowEvals[j].Equal(&wantRow))
		assert.True(valEvals[j].IsZero())
	}
}

func TestOraclesErrors(t *testing.T) {
	assert := require.New(t)
	domainK := fft.NewDomain(8)
	domainH := fft.NewDomain(4)

	var m SparseMatrix
	_, _, _, err := m.Oracles("m", domainK, domainH)
	assert.ErrorIs(err, funcrel.ErrInputLength)

	m = SparseMatrix{NumRows: 8, NumCols: 8, Entries: []SparseEntry{{Row: 5, Col: 0}}}
	_, _, _, err = m.Oracles("m", domainK, domainH)
	assert.ErrorIs(err, funcrel.ErrInputLength)
}
