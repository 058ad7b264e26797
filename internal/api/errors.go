package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/platform/github"
	"github.com/phrazzld/studyflow-api/internal/platform/leetcode"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/service/auth"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients. A resource owned by another user surfaces as the
// same not-found errors as a missing one, so ownership is never leaked.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrProjectNotFound),
		errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, subtask.ErrNodeNotFound),
		errors.Is(err, leetcode.ErrUserNotFound),
		errors.Is(err, github.ErrUserNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Upstream provider failures
	case errors.Is(err, leetcode.ErrUnavailable),
		errors.Is(err, github.ErrUnavailable):
		return http.StatusBadGateway

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, subtask.ErrEmptyNodeText),
		errors.Is(err, github.ErrInvalidUsername),
		errors.Is(err, service.ErrNoProviderUsername),
		errors.As(err, &validationErr):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrProjectNotFound):
		return "Project not found"

	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, subtask.ErrNodeNotFound):
		return "Sub-task not found"

	case errors.Is(err, leetcode.ErrUserNotFound):
		return "LeetCode user not found"

	case errors.Is(err, github.ErrUserNotFound):
		return "GitHub user not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	// Upstream provider failures
	case errors.Is(err, leetcode.ErrUnavailable):
		return "LeetCode stats are temporarily unavailable"

	case errors.Is(err, github.ErrUnavailable):
		return "GitHub stats are temporarily unavailable"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, subtask.ErrEmptyNodeText):
		return "Sub-task text cannot be empty"

	case errors.Is(err, github.ErrInvalidUsername):
		return "Invalid GitHub username format"

	case errors.Is(err, service.ErrNoProviderUsername):
		return "No provider username is set for this user"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Struct-tag validation errors carry a predictable shape, e.g.
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
