package util

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable kind of an AppError. The set is closed;
// the HTTP layer maps each code to exactly one status.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeBadRequest      ErrorCode = "BAD_REQUEST"
	CodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	CodeTokenReuse      ErrorCode = "TOKEN_REUSE_DETECTED"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeConflict        ErrorCode = "CONFLICT"
	CodeInternal        ErrorCode = "INTERNAL_SERVER_ERROR"
)

// FieldErrors maps a request field path to its validation messages.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

type AppError struct {
	Code   ErrorCode
	Msg    string
	Fields FieldErrors
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error { return e.Err }

func NewValidationError(fields FieldErrors) *AppError {
	return &AppError{Code: CodeValidation, Msg: "Validation failed", Fields: fields}
}

func NewBadRequestError(format string, args ...any) *AppError {
	return &AppError{Code: CodeBadRequest, Msg: fmt.Sprintf(format, args...)}
}

func NewAuthenticationError(msg string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Msg: msg}
}

// NewSecurityError is an authentication failure that has already triggered
// session revocation.
func NewSecurityError(msg string) *AppError {
	return &AppError{Code: CodeTokenReuse, Msg: msg}
}

func NewNotFoundError(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Msg: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Code: CodeConflict, Msg: msg}
}

func NewInternalError(err error) *AppError {
	return &AppError{Code: CodeInternal, Msg: "Internal server error", Err: err}
}

// CodeOf reports the code of the first AppError in err's chain, or
// CodeInternal for anything else.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
