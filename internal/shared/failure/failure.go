// Package failure classifies workflow errors into the stable codes returned to callers.
package failure

import (
	"errors"
	"fmt"
	"maps"
)

// Code identifies a class of business or infrastructure failure.
type Code string

const (
	CodeNotFound            Code = "not_found"
	CodeValidation          Code = "validation_error"
	CodeInvalidState        Code = "invalid_state"
	CodeInvalidStatus       Code = "invalid_status"
	CodeInvalidLocation     Code = "invalid_location"
	CodeNotAvailable        Code = "not_available"
	CodeDuplicateRequest    Code = "duplicate_request"
	CodeDuplicateEnrollment Code = "duplicate_enrollment"
	CodeAlreadyFinalized    Code = "already_finalized"
	CodeAlreadyCancelled    Code = "already_cancelled"
	CodeNoSeats             Code = "no_seats"
	CodePastActivity        Code = "past_activity"
	CodeForbidden           Code = "forbidden"
	CodeIdempotencyConflict Code = "idempotency_conflict"
	CodeStorage             Code = "storage_failure"
)

// GenericStorageMessage is the only text callers ever see for storage failures.
const GenericStorageMessage = "an internal error occurred"

// Error is a classified failure. Fields is populated for validation errors only.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any failure carrying the same code, so package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// Sentinels usable with errors.Is.
var (
	ErrNotFound            = &Error{Code: CodeNotFound}
	ErrValidation          = &Error{Code: CodeValidation}
	ErrInvalidState        = &Error{Code: CodeInvalidState}
	ErrInvalidStatus       = &Error{Code: CodeInvalidStatus}
	ErrInvalidLocation     = &Error{Code: CodeInvalidLocation}
	ErrNotAvailable        = &Error{Code: CodeNotAvailable}
	ErrDuplicateRequest    = &Error{Code: CodeDuplicateRequest}
	ErrDuplicateEnrollment = &Error{Code: CodeDuplicateEnrollment}
	ErrAlreadyFinalized    = &Error{Code: CodeAlreadyFinalized}
	ErrAlreadyCancelled    = &Error{Code: CodeAlreadyCancelled}
	ErrNoSeats             = &Error{Code: CodeNoSeats}
	ErrPastActivity        = &Error{Code: CodePastActivity}
	ErrForbidden           = &Error{Code: CodeForbidden}
	ErrIdempotencyConflict = &Error{Code: CodeIdempotencyConflict}
	ErrStorage             = &Error{Code: CodeStorage}
)

// New builds a failure with a caller-facing message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf is New with formatting.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under code while keeping it reachable through errors.Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Err: cause}
}

// Validation builds an aggregated field-level validation failure.
func Validation(fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: maps.Clone(fields)}
}

// Field is Validation for a single field.
func Field(field, message string) *Error {
	return Validation(map[string]string{field: message})
}

// NotFound reports a missing entity.
func NotFound(entity, id string) *Error {
	return Newf(CodeNotFound, "%s %s not found", entity, id)
}

// Storage wraps an unclassified infrastructure error.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorage, Message: GenericStorageMessage, Err: cause}
}

// From returns err as a classified failure, treating anything unclassified as a storage failure.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var f *Error
	if errors.As(err, &f) {
		return f
	}
	return Storage(err)
}

// CodeOf reports the failure code carried by err.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	return From(err).Code
}

// IsClassified reports whether err already carries a failure code.
func IsClassified(err error) bool {
	var f *Error
	return errors.As(err, &f)
}
