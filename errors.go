package funcrel

import "errors"

// The failure kinds every subprotocol can surface. Callers discriminate
// with errors.Is; kinds that carry context wrap one of these sentinels
// via fmt.Errorf("%w: ...").
var (
	// ErrCheck1Failed means the vanishing polynomial of K did not divide
	// the virtual oracle: the witness does not satisfy the claim.
	ErrCheck1Failed = errors.New("zero over K: virtual oracle does not vanish on K")

	// ErrCheck2Failed means the virtual oracle evaluation at the
	// challenge disagrees with quotient times vanishing.
	ErrCheck2Failed = errors.New("zero over K: evaluation check failed at challenge")

	// ErrBatchCheck means the commitment scheme rejected a batch of
	// opening proofs.
	ErrBatchCheck = errors.New("batch opening verification failed")

	// ErrPC wraps an error surfaced by the underlying commitment scheme.
	ErrPC = errors.New("polynomial commitment error")

	// ErrInstantiation means a virtual oracle was fed the wrong number
	// of concrete oracles.
	ErrInstantiation = errors.New("virtual oracle: wrong number of concrete oracles")

	// ErrEvaluation means a virtual oracle was fed the wrong number of
	// evaluations, or an evaluation outside its expected image.
	ErrEvaluation = errors.New("virtual oracle: bad evaluations")

	// ErrFEvalIsZero means a NonZeroOverK witness has a zero on K.
	ErrFEvalIsZero = errors.New("non-zero over K: oracle has a zero on K")

	// ErrVOFailedToCompute means a combine function returned a
	// polynomial where a scalar evaluation was required.
	ErrVOFailedToCompute = errors.New("virtual oracle: combine returned a polynomial, expected an evaluation")

	// ErrVOFailedToInstantiate means a combine function returned a
	// scalar evaluation where a polynomial was required.
	ErrVOFailedToInstantiate = errors.New("virtual oracle: combine returned an evaluation, expected a polynomial")

	// ErrMismatchedDegreeBounds means a linear combination was requested
	// over commitments with differing degree bounds.
	ErrMismatchedDegreeBounds = errors.New("linear combination over mismatched degree bounds")

	// ErrMissingCommitment means a label referenced by a linear
	// combination is not among the supplied commitments.
	ErrMissingCommitment = errors.New("label not found among supplied commitments")

	// ErrInputLength means two parallel inputs disagree in length.
	ErrInputLength = errors.New("input length mismatch")

	// ErrGateInputNotGate means a gate input that is a constant or a
	// variable was dereferenced as a gate.
	ErrGateInputNotGate = errors.New("gate input is not a gate")

	// ErrT2Large means the requested t exceeds the size of H, or that
	// declared run lengths do not sum to the size of K.
	ErrT2Large = errors.New("t exceeds the size of H")
)
