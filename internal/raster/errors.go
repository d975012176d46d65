package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")
	// ErrPrecondition is matched by every *PreconditionError.
	ErrPrecondition = errors.New("precondition error")
	// ErrComputation is matched by every *ComputationFault.
	ErrComputation = errors.New("computation fault")
)

// ValidationError reports a parameter rejected before any work started.
type ValidationError struct {
	Op  string
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid parameter: %s", e.Op, e.Msg)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PreconditionError reports a missing collaborator (image, reporter, operator).
type PreconditionError struct {
	Op  string
	Msg string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

// ComputationFault reports a failed worker task. The whole operation is
// aborted and no partial result is returned.
type ComputationFault struct {
	Op  string
	Err error
}

func (e *ComputationFault) Error() string {
	return fmt.Sprintf("%s: computation failed: %v", e.Op, e.Err)
}

func (e *ComputationFault) Unwrap() error { return e.Err }

func (e *ComputationFault) Is(target error) bool { return target == ErrComputation }

// Validationf builds a *ValidationError.
func Validationf(op, format string, args ...any) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// RequireSource returns a *PreconditionError when src is nil.
func RequireSource(op string, src *Buffer) error {
	if src == nil {
		return &PreconditionError{Op: op, Msg: "source image is nil"}
	}
	return nil
}
