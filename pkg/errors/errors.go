package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// ErrExceptionPending means a VM-level exception is pending on the thread.
	ErrExceptionPending = stderrors.New("exception pending")

	// ErrUnusedOpcode is raised by the trap handler for opcode values with no instruction.
	ErrUnusedOpcode = stderrors.New("unused opcode")

	ErrUnimplemented = stderrors.New("opcode not implemented")

	// ErrStaleDispatch means a handler dispatched a prefetched opcode that does not match the code at the cursor.
	ErrStaleDispatch = stderrors.New("stale prefetched dispatch")

	ErrStackOverflow = stderrors.New("interpreter stack overflow")

	ErrBadProgram = stderrors.New("malformed program")
)

type VMError struct {
	Message string
	Cause   error
}

func (e *VMError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *VMError) Unwrap() error {
	return e.Cause
}

// IsVMError checks if an error is, or wraps, a VMError
func IsVMError(err error) bool {
	var vmErr *VMError
	return stderrors.As(err, &vmErr)
}

// Wrap wraps an existing error as a VMError
func Wrap(err error, message string) *VMError {
	return &VMError{
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, format string, args ...interface{}) *VMError {
	return &VMError{
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// Errorf creates a new VMError with formatted message
func Errorf(format string, args ...interface{}) *VMError {
	return &VMError{
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}
