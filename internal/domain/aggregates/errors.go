package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes failure semantics for the transactional catalog
// operations. Store-level errors are resolved into exactly one of these at
// the aggregate boundary; raw driver errors never leak past it.
type ErrorCode string

const (
	// CodeValidation indicates caller input the aggregate itself rejects.
	CodeValidation ErrorCode = "validation"
	// CodeNotFound indicates a referenced parent entity is absent.
	CodeNotFound ErrorCode = "not_found"
	// CodeDuplicate indicates a unique-constraint violation on a single-pair insert.
	CodeDuplicate ErrorCode = "duplicate"
	// CodeReferentialIntegrity indicates a referenced id in a bulk operation does not exist.
	CodeReferentialIntegrity ErrorCode = "referential_integrity"
	// CodeBusy indicates lock contention or a transient store condition; safe to retry.
	CodeBusy ErrorCode = "busy"
	// CodeInternal indicates anything unexpected, including store connectivity failure.
	CodeInternal ErrorCode = "internal"
)

// Error is the canonical error wrapper for aggregate operations.
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

// IsCode checks whether err (or a wrapped err) carries the given code.
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

// Retryable reports whether the caller may safely re-run the whole operation
// verbatim. Only busy/timeout conditions qualify; every aggregate operation
// re-reads its locked state inside the retried transaction.
func Retryable(err error) bool {
	return IsCode(err, CodeBusy)
}
