// Package frontend is the seam between an arithmetic-circuit front-end
// and the matrix subprotocols. It translates a gate list into the three
// R1CS sparse matrices and arithmetizes a sparse matrix into the row,
// col and val oracles over K that tslt and dlcomp consume: each nonzero
// entry's row and column index is encoded as the matching power of H's
// generator.
package frontend

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/giuliop/funcrel"
	"github.com/giuliop/funcrel/ahpcs"
	"github.com/giuliop/funcrel/utils"
)

// GateType is a gate's operation.
type GateType int

const (
	// GateAdd adds its two operands.
	GateAdd GateType = iota
	// GateMul multiplies its two operands.
	GateMul
)

type inputKind int

const (
	kindConstant inputKind = iota
	kindInput
	kindGateRef
)

// GateInput is one operand of a gate: a field constant, a named circuit
// input, or a reference to an earlier gate's output in the arena.
type GateInput struct {
	kind     inputKind
	constant fr.Element
	input    string
	gate     int
}

// Constant wraps a field constant as a gate operand.
func Constant(v fr.Element) GateInput { return GateInput{kind: kindConstant, constant: v} }

// Input wraps a named circuit input as a gate operand.
func Input(name string) GateInput { return GateInput{kind: kindInput, input: name} }

// GateRef references the output of the gate at the given arena index.
func GateRef(index int) GateInput { return GateInput{kind: kindGateRef, gate: index} }

// Gate returns the referenced arena index, or ErrGateInputNotGate when
// the operand is a constant or an input.
func (in GateInput) Gate() (int, error) {
	if in.kind != kindGateRef {
		return 0, funcrel.ErrGateInputNotGate
	}
	return in.gate, nil
}

// Gate is one record of the circuit arena.
type Gate struct {
	Left  GateInput
	Right GateInput
	Type  GateType
	Label string
}

// SparseEntry is one nonzero matrix entry.
type SparseEntry struct {
	Row, Col int
	Val      fr.Element
}

// SparseMatrix is a sparse matrix in coordinate form.
type SparseMatrix struct {
	NumRows, NumCols int
	Entries          []SparseEntry
}

// GatesToMatrices translates a gate arena into R1CS matrices (A, B, C)
// over the variable vector z = (1, inputs..., gate outputs...). The
// matrices are square over that index space: gate i's constraint
// occupies the row of its own output variable, so the rows of the
// constant and the inputs stay empty and every operand reference points
// at a strictly smaller column — the lower-triangular encoding the
// matrix subprotocols consume. Gate references must point at earlier
// gates.
func GatesToMatrices(gates []Gate) (a, b, c SparseMatrix, err error) {
	inputCols := make(map[string]int)
	var inputOrder []string
	for _, g := range gates {
		for _, in := range []GateInput{g.Left, g.Right} {
			if in.kind == kindInput {
				if _, ok := inputCols[in.input]; !ok {
					inputCols[in.input] = 1 + len(inputOrder)
					inputOrder = append(inputOrder, in.input)
				}
			}
		}
	}
	gateVar := func(i int) int { return 1 + len(inputOrder) + i }

	size := 1 + len(inputOrder) + len(gates)
	a = SparseMatrix{NumRows: size, NumCols: size}
	b = SparseMatrix{NumRows: size, NumCols: size}
	c = SparseMatrix{NumRows: size, NumCols: size}

	var one fr.Element
	one.SetOne()

	operand := func(in GateInput, gate int) (SparseEntry, error) {
		row := gateVar(gate)
		switch in.kind {
		case kindConstant:
			return SparseEntry{Row: row, Col: 0, Val: in.constant}, nil
		case kindInput:
			return SparseEntry{Row: row, Col: inputCols[in.input], Val: one}, nil
		default:
			if in.gate < 0 || in.gate >= gate {
				return SparseEntry{}, fmt.Errorf("%w: gate %d references gate %d",
					funcrel.ErrInputLength, gate, in.gate)
			}
			return SparseEntry{Row: row, Col: gateVar(in.gate), Val: one}, nil
		}
	}

	for i, g := range gates {
		left, err := operand(g.Left, i)
		if err != nil {
			return a, b, c, err
		}
		right, err := operand(g.Right, i)
		if err != nil {
			return a, b, c, err
		}
		switch g.Type {
		case GateMul:
			a.Entries = append(a.Entries, left)
			b.Entries = append(b.Entries, right)
		case GateAdd:
			a.Entries = append(a.Entries, left, right)
			b.Entries = append(b.Entries, SparseEntry{Row: gateVar(i), Col: 0, Val: one})
		default:
			return a, b, c, fmt.Errorf("%w: gate %d has unknown type %d",
				funcrel.ErrInputLength, i, g.Type)
		}
		c.Entries = append(c.Entries, SparseEntry{Row: gateVar(i), Col: gateVar(i), Val: one})
	}
	return a, b, c, nil
}

// EmptyLeadingRows counts the rows before the first constraint row:
// the constant and the circuit inputs, i.e. the t below which a
// well-formed arena's A matrix has no entries.
func (m SparseMatrix) EmptyLeadingRows() int {
	first := m.NumRows
	for _, e := range m.Entries {
		if e.Row < first {
			first = e.Row
		}
	}
	return first
}

// Oracles arithmetizes the matrix into labeled row, col and val
// polynomials over domainK. Row and column indices become powers of
// domainH's generator; positions of K beyond the entry list repeat the
// last entry's indices with a zero value, so the padding never changes
// the encoded matrix.
func (m SparseMatrix) Oracles(label string, domainK, domainH *fft.Domain) (row, col, val ahpcs.LabeledPolynomial, err error) {
	none := ahpcs.LabeledPolynomial{}
	if len(m.Entries) == 0 {
		return none, none, none, fmt.Errorf("%w: matrix has no entries", funcrel.ErrInputLength)
	}
	if len(m.Entries) > int(domainK.Cardinality) {
		return none, none, none, fmt.Errorf("%w: %d entries exceed |K|=%d",
			funcrel.ErrInputLength, len(m.Entries), domainK.Cardinality)
	}
	if m.NumRows > int(domainH.Cardinality) || m.NumCols > int(domainH.Cardinality) {
		return none, none, none, fmt.Errorf("%w: %dx%d matrix exceeds |H|=%d",
			funcrel.ErrInputLength, m.NumRows, m.NumCols, domainH.Cardinality)
	}

	n := int(domainK.Cardinality)
	rowEvals := make([]fr.Element, n)
	colEvals := make([]fr.Element, n)
	valEvals := make([]fr.Element, n)
	for j := 0; j < n; j++ {
		e := m.Entries[len(m.Entries)-1]
		if j < len(m.Entries) {
			e = m.Entries[j]
		} else {
			e.Val.SetZero()
		}
		rowEvals[j] = utils.DomainElement(domainH, e.Row)
		colEvals[j] = utils.DomainElement(domainH, e.Col)
		valEvals[j] = e.Val
	}

	row = ahpcs.NewLabeledPolynomial(label+"_row", utils.InterpolateOnDomain(rowEvals, domainK))
	col = ahpcs.NewLabeledPolynomial(label+"_col", utils.InterpolateOnDomain(colEvals, domainK))
	val = ahpcs.NewLabeledPolynomial(label+"_val", utils.InterpolateOnDomain(valEvals, domainK))
	return row, col, val, nil
}
