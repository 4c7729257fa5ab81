package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode classifies case aggregate failures. HTTP status mapping lives in
// internal/http/response.
type ErrorCode string

const (
	// CodeValidation: malformed input, rejected before any write.
	CodeValidation         ErrorCode = "validation"
	// CodeNotFound: the case id is unknown.
	CodeNotFound           ErrorCode = "not_found"
	// CodeConflict: a unique key or status guard lost a race.
	CodeConflict           ErrorCode = "conflict"
	// CodeInvariantViolation: the write would break a case rule, e.g. editing a deleted case.
	CodeInvariantViolation ErrorCode = "invariant_violation"
	// CodePreconditionFailed: a referenced catalog row (referral reason) is missing.
	CodePreconditionFailed ErrorCode = "precondition_failed"
	// CodeRetryable: lock timeout, serialization failure or cancelled context.
	CodeRetryable          ErrorCode = "retryable"
	// CodeExhausted: a bounded loop (case code generation) ran out of attempts.
	CodeExhausted          ErrorCode = "exhausted"
	CodeInternal           ErrorCode = "internal"
)

// Temporary reports whether the same request may succeed if sent again.
func (c ErrorCode) Temporary() bool {
	return c == CodeRetryable || c == CodeExhausted
}

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}
