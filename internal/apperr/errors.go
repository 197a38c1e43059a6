// Package apperr defines the error taxonomy shared by the HTTP layer and the
// services: every service failure is one of these types, and handlers map them
// to status codes with Status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ConflictError signals a failed precondition: a missing required field, a
// referenced user that does not exist, or a provider call that yielded nothing.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// UnauthorizedError signals a credential mismatch at login.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string { return e.Message }

func Unauthorized(format string, args ...any) error {
	return &UnauthorizedError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a fetch-by-id miss.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func NotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// VerificationError signals a malformed or unauthenticated webhook delivery.
type VerificationError struct {
	Message string
}

func (e *VerificationError) Error() string { return e.Message }

func Verification(format string, args ...any) error {
	return &VerificationError{Message: fmt.Sprintf(format, args...)}
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Status maps a service error to the HTTP status the handlers respond with.
func Status(err error) int {
	var (
		conflict     *ConflictError
		unauthorized *UnauthorizedError
		notFound     *NotFoundError
		verification *VerificationError
	)
	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &unauthorized):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &verification):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
