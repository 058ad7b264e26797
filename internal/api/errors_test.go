package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/studyflow-api/internal/api"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/domain/subtask"
	"github.com/phrazzld/studyflow-api/internal/platform/github"
	"github.com/phrazzld/studyflow-api/internal/platform/leetcode"
	"github.com/phrazzld/studyflow-api/internal/service"
	"github.com/phrazzld/studyflow-api/internal/service/auth"
	"github.com/phrazzld/studyflow-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil error", err: nil, want: http.StatusInternalServerError},
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "invalid refresh token", err: auth.ErrInvalidRefreshToken, want: http.StatusUnauthorized},
		{name: "wrong token type", err: auth.ErrWrongTokenType, want: http.StatusUnauthorized},
		{name: "invalid credentials", err: service.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "unauthorized operation", err: domain.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "user not found", err: store.ErrUserNotFound, want: http.StatusNotFound},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "project not found", err: store.ErrProjectNotFound, want: http.StatusNotFound},
		{name: "book not found", err: store.ErrBookNotFound, want: http.StatusNotFound},
		{name: "sub-task not found", err: subtask.ErrNodeNotFound, want: http.StatusNotFound},
		{name: "leetcode user not found", err: leetcode.ErrUserNotFound, want: http.StatusNotFound},
		{name: "github user not found", err: github.ErrUserNotFound, want: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "leetcode unavailable", err: leetcode.ErrUnavailable, want: http.StatusBadGateway},
		{name: "github unavailable", err: github.ErrUnavailable, want: http.StatusBadGateway},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "validation failed", err: domain.ErrValidation, want: http.StatusBadRequest},
		{name: "invalid ID", err: domain.ErrInvalidID, want: http.StatusBadRequest},
		{name: "empty sub-task text", err: subtask.ErrEmptyNodeText, want: http.StatusBadRequest},
		{name: "invalid github username", err: github.ErrInvalidUsername, want: http.StatusBadRequest},
		{name: "no provider username", err: service.ErrNoProviderUsername, want: http.StatusBadRequest},
		{
			name: "field validation error",
			err:  domain.NewValidationError("email", "is malformed", nil),
			want: http.StatusBadRequest,
		},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("failed to retrieve task: %w", store.ErrTaskNotFound),
			want: http.StatusNotFound,
		},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil error", err: nil, want: "An unexpected error occurred"},
		{name: "invalid token", err: auth.ErrInvalidToken, want: "Invalid token"},
		{name: "expired refresh token", err: auth.ErrExpiredRefreshToken, want: "Invalid refresh token"},
		{name: "invalid credentials", err: service.ErrInvalidCredentials, want: "Invalid credentials"},
		{name: "user not found", err: store.ErrUserNotFound, want: "User not found"},
		{name: "task not found", err: store.ErrTaskNotFound, want: "Task not found"},
		{name: "project not found", err: store.ErrProjectNotFound, want: "Project not found"},
		{name: "book not found", err: store.ErrBookNotFound, want: "Book not found"},
		{name: "sub-task not found", err: subtask.ErrNodeNotFound, want: "Sub-task not found"},
		{name: "email exists", err: store.ErrEmailExists, want: "Email already exists"},
		{name: "validation failed", err: domain.ErrValidation, want: "Validation failed"},
		{name: "invalid ID", err: domain.ErrInvalidID, want: "Invalid ID"},
		{name: "unauthorized", err: domain.ErrUnauthorized, want: "Unauthorized"},
		{
			name: "leetcode unavailable",
			err:  leetcode.ErrUnavailable,
			want: "LeetCode stats are temporarily unavailable",
		},
		{
			name: "internal details never leak",
			err:  errors.New("pq: duplicate key value violates unique constraint"),
			want: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.GetSafeErrorMessage(tt.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "required tag",
			err: errors.New(
				"Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag",
			),
			want: "Invalid Email: required field",
		},
		{
			name: "email tag",
			err: errors.New(
				"Key: 'RegisterRequest.Email' Error:Field validation for 'Email' failed on the 'email' tag",
			),
			want: "Invalid Email: invalid email format",
		},
		{
			name: "min tag",
			err: errors.New(
				"Key: 'RegisterRequest.Password' Error:Field validation for 'Password' failed on the 'min' tag",
			),
			want: "Invalid Password: too short",
		},
		{
			name: "oneof tag",
			err: errors.New(
				"Key: 'CreateTaskRequest.Frequency' Error:Field validation for 'Frequency' failed on the 'oneof' tag",
			),
			want: "Invalid Frequency: invalid value",
		},
		{
			name: "unknown shape",
			err:  errors.New("something else entirely"),
			want: "Validation error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.SanitizeValidationError(tt.err))
		})
	}
}
