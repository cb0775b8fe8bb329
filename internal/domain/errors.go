package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, with no infrastructure dependency.
// The calculator itself never returns an error: bad input degrades to a zero
// quote. These cover the surfaces around it.

var (
	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")

	// Evaluation errors
	ErrCasesFormat = errors.New("malformed cases file")
	ErrNoCases     = errors.New("cases file contains no cases")
)
