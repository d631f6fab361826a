package service

import (
	"errors"
	"fmt"

	"github.com/sharedpages/diary-server/internal/models"
)

// Kind classifies a failed operation. Every failure the service surfaces is
// an *Error carrying one of these, so callers (and the HTTP layer) can react
// without string matching.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindNotFound      Kind = "NOT_FOUND"
	KindConflict      Kind = "CONFLICT"
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindCountMismatch Kind = "COUNT_MISMATCH"
	KindUnknownUser   Kind = "UNKNOWN_USER"
	KindStore         Kind = "STORE_ERROR"
)

// Error is the service-level error type. Besides the kind and message it
// carries whatever context the caller needs to react: the offending user
// name, expected vs. provided password counts, and the partial verification
// results gathered before a password mismatch.
type Error struct {
	Kind     Kind
	Message  string
	User     string
	Expected int
	Provided int
	Results  []models.VerificationResult
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or an empty Kind when err does not wrap a
// service Error.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}

// AsError unwraps err into a service *Error when possible.
func AsError(err error) (*Error, bool) {
	var svcErr *Error
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func storeError(op string, err error) *Error {
	return &Error{Kind: KindStore, Message: fmt.Sprintf("store error during %s", op), Err: err}
}
