package constraint

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConstraint reports a failed gate identity or bound check.
	ErrInvalidConstraint = errors.New("invalid constraint")
	// ErrInvalidCopyConstraint reports a wiring cell mismatch.
	ErrInvalidCopyConstraint = errors.New("invalid copy constraint")
	// ErrUnknownGateType reports a gate type with no registered argument.
	ErrUnknownGateType = errors.New("unknown gate type")
)

// GateError locates a verification failure: the row, the gate's type tag and
// the check that failed. It wraps one of the sentinel errors above, so both
// errors.Is on the sentinel and errors.As on *GateError work.
type GateError struct {
	Row      int
	GateType GateType
	Check    string
	Err      error
}

func (e *GateError) Error() string {
	if e.Check == "" {
		return fmt.Sprintf("row %d (%s): %v", e.Row, e.GateType, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v: %s", e.Row, e.GateType, e.Err, e.Check)
}

func (e *GateError) Unwrap() error { return e.Err }
