package common

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNumericDegenerate = errors.New("numeric degenerate")
	ErrNonConvergence    = errors.New("did not converge")
)

// CalcError describes a failed calculation. Kind is one of the sentinel
// errors above, so callers match with errors.Is.
type CalcError struct {
	Kind  error
	Op    string
	Field string
	Msg   string
}

func (e *CalcError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v: %s %s", e.Op, e.Kind, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e *CalcError) Unwrap() error {
	return e.Kind
}

// InvalidInput rejects a caller-supplied field before any computation runs.
func InvalidInput(op, field, format string, args ...interface{}) error {
	return &CalcError{
		Kind:  ErrInvalidInput,
		Op:    op,
		Field: field,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// Degenerate reports a division by zero that validation could not rule out.
func Degenerate(op, format string, args ...interface{}) error {
	return &CalcError{
		Kind: ErrNumericDegenerate,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
	}
}

// NonConvergence reports an iterative routine that stopped without meeting its tolerance.
func NonConvergence(op, format string, args ...interface{}) error {
	return &CalcError{
		Kind: ErrNonConvergence,
		Op:   op,
		Msg:  fmt.Sprintf(format, args...),
	}
}
