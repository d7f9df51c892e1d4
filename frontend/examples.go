package frontend

import "github.com/consensys/gnark-crypto/ecc/bn254/fr"

// SampleGates is a small example arena encoding x^3 + 2x + 5:
//
//	g0 = x * x
//	g1 = g0 * x
//	g2 = x * 2
//	g3 = g1 + g2
//	g4 = g3 + 5
func SampleGates() []Gate {
	return []Gate{
		{Left: Input("x"), Right: Input("x"), Type: GateMul, Label: "g0"},
		{Left: GateRef(0), Right: Input("x"), Type: GateMul, Label: "g1"},
		{Left: Input("x"), Right: Constant(fr.NewElement(2)), Type: GateMul, Label: "g2"},
		{Left: GateRef(1), Right: GateRef(2), Type: GateAdd, Label: "g3"},
		{Left: GateRef(3), Right: Constant(fr.NewElement(5)), Type: GateAdd, Label: "g4"},
	}
}
