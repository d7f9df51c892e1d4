// Package funcrel implements proofs of function relations: a suite of
// polynomial interactive oracle proofs over committed univariate oracles,
// compiled to non-interactive arguments with Fiat-Shamir.
//
// The subprotocols build on each other. zerok proves that a virtual
// oracle (an arithmetic combination of shifts of committed polynomials)
// vanishes on a multiplicative subgroup K. nonzerok proves a committed
// oracle has no zero on K. geoseq proves the evaluations of an oracle on
// K form declared geometric runs. subsetk proves the evaluations lie in
// a small public set. dlcomp proves a pointwise discrete-log inequality
// between two oracles, and tslt composes all of the above into a
// strictly-lower-triangular test for sparse matrix encodings.
//
// Every subprotocol is generic over the ahpcs.Scheme interface, an
// additively homomorphic polynomial commitment scheme. The default
// instantiation is KZG over BN254, backed by gnark-crypto.
//
// This package itself only carries the error taxonomy shared by the
// subprotocol packages.
package funcrel
