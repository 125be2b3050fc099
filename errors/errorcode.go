// Package errors maps failures of the mdhash tool to numeric codes, which
// the command line uses as process exit codes.
package errors

import "fmt"

const (
	ErrCodeOK       = 0
	ErrCodeUnknown  = 1
	ErrCodeUsage    = 2
	ErrCodeConfig   = 3
	ErrCodeIO       = 4
	ErrCodeMismatch = 5
	ErrCodeCanceled = 6
)

// CodedError attaches a code to an error.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	return fmt.Sprintf("%v (code %d)", e.Err, e.Code)
}

// Cause returns the wrapped error, for pkg/errors.Cause.
func (e *CodedError) Cause() error { return e.Err }

// WithCode wraps err with code. A nil err stays nil.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: code, Err: err}
}

// Code returns the code attached to err, searching the wrap chain.
// Errors without a code map to ErrCodeUnknown.
func Code(err error) int {
	if err == nil {
		return ErrCodeOK
	}
	for err != nil {
		if ce, ok := err.(*CodedError); ok {
			return ce.Code
		}
		causer, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = causer.Cause()
	}
	return ErrCodeUnknown
}

// Message strips the code suffix for user-facing output.
func Message(err error) string {
	if ce, ok := err.(*CodedError); ok {
		return ce.Err.Error()
	}
	return err.Error()
}
