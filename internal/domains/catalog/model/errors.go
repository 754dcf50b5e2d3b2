package model

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain error kinds. Every failure returned by the resolver layer matches one
// of these with errors.Is, or is an internal error.
var (
	ErrAuthenticationRequired = errors.New("not authenticated")
	ErrInvalidCredentials     = errors.New("wrong credentials")
	ErrValidationFailed       = errors.New("validation failed")
	ErrTokenInvalid           = errors.New("invalid token")
)

// Store level errors
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateAuthor   = errors.New("author with this name already exists")
)

// ValidationError is a ValidationFailed error carrying the input that was rejected.
type ValidationError struct {
	Message     string
	InvalidArgs any
	Err         error
}

// NewValidationError wraps err as a ValidationFailed error
func NewValidationError(message string, invalidArgs any, err error) *ValidationError {
	return &ValidationError{Message: message, InvalidArgs: invalidArgs, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// ToErrorCode converts error to API error code
func ToErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return "AUTHENTICATION_REQUIRED"
	case errors.Is(err, ErrInvalidCredentials):
		return "INVALID_CREDENTIALS"
	case errors.Is(err, ErrTokenInvalid):
		return "TOKEN_INVALID"
	case errors.Is(err, ErrValidationFailed):
		return "VALIDATION_FAILED"
	default:
		return "INTERNAL_ERROR"
	}
}

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAuthenticationRequired),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, ErrValidationFailed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToMessage returns the user facing message. Internal errors are not exposed.
func ToMessage(err error) string {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Message
	case errors.Is(err, ErrAuthenticationRequired):
		return ErrAuthenticationRequired.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return ErrInvalidCredentials.Error()
	case errors.Is(err, ErrTokenInvalid):
		return ErrTokenInvalid.Error()
	default:
		return "internal server error"
	}
}
