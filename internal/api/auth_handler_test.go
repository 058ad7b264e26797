package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/studyflow-api/internal/api"
	"github.com/phrazzld/studyflow-api/internal/api/shared"
	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/service/auth"
	"github.com/phrazzld/studyflow-api/internal/store"
	"github.com/phrazzld/studyflow-api/internal/testutils"
)

func newAuthHandler(
	userService *stubUserService,
	jwtService *testutils.MockJWTService,
) *api.AuthHandler {
	return api.NewAuthHandler(userService, jwtService, auth.NewBcryptVerifier(), time.Hour, nil)
}

func successfulJWTService() *testutils.MockJWTService {
	return &testutils.MockJWTService{
		GenerateTokenFunc: func(_ context.Context, _ uuid.UUID) (string, error) {
			return "access-token", nil
		},
		GenerateRefreshTokenFunc: func(_ context.Context, _ uuid.UUID) (string, error) {
			return "refresh-token", nil
		},
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("success returns tokens and 201", func(t *testing.T) {
		t.Parallel()

		user := testutils.MustNewUser(t, "new@example.com")
		userService := &stubUserService{
			createUserFunc: func(_ context.Context, email, password string) (*domain.User, error) {
				assert.Equal(t, "new@example.com", email)
				assert.Equal(t, "correct-horse-battery", password)
				return user, nil
			},
		}

		handler := newAuthHandler(userService, successfulJWTService())

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/register", uuid.Nil, api.RegisterRequest{
			Email:    "new@example.com",
			Password: "correct-horse-battery",
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/register", handler.Register)
		})

		require.Equal(t, http.StatusCreated, rec.Code)
		body := decodeBody[api.AuthResponse](t, rec)
		assert.Equal(t, user.ID, body.UserID)
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)

		expiresAt, err := time.Parse(time.RFC3339, body.ExpiresAt)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, time.Minute)
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		t.Parallel()

		userService := &stubUserService{
			createUserFunc: func(_ context.Context, _, _ string) (*domain.User, error) {
				return nil, store.ErrEmailExists
			},
		}

		handler := newAuthHandler(userService, successfulJWTService())

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/register", uuid.Nil, api.RegisterRequest{
			Email:    "taken@example.com",
			Password: "correct-horse-battery",
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/register", handler.Register)
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Email already exists", body.Error)
	})

	t.Run("invalid payload returns 400", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name    string
			payload api.RegisterRequest
			want    string
		}{
			{
				name:    "bad email",
				payload: api.RegisterRequest{Email: "not-an-email", Password: "correct-horse-battery"},
				want:    "Invalid Email: invalid email format",
			},
			{
				name:    "short password",
				payload: api.RegisterRequest{Email: "a@example.com", Password: "short"},
				want:    "Invalid Password: too short",
			},
			{
				name:    "missing email",
				payload: api.RegisterRequest{Password: "correct-horse-battery"},
				want:    "Invalid Email: required field",
			},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				handler := newAuthHandler(&stubUserService{}, successfulJWTService())

				req := authedJSONRequest(t, http.MethodPost, "/api/auth/register", uuid.Nil, tt.payload)
				rec := serveWithRoutes(req, func(r chi.Router) {
					r.Post("/api/auth/register", handler.Register)
				})

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				body := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tt.want, body.Error)
			})
		}
	})

	t.Run("token generation failure returns 500", func(t *testing.T) {
		t.Parallel()

		user := testutils.MustNewUser(t, "new@example.com")
		userService := &stubUserService{
			createUserFunc: func(_ context.Context, _, _ string) (*domain.User, error) {
				return user, nil
			},
		}
		jwtService := &testutils.MockJWTService{
			GenerateTokenFunc: func(_ context.Context, _ uuid.UUID) (string, error) {
				return "", errors.New("signing key unavailable")
			},
		}

		handler := newAuthHandler(userService, jwtService)

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/register", uuid.Nil, api.RegisterRequest{
			Email:    "new@example.com",
			Password: "correct-horse-battery",
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/register", handler.Register)
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Failed to generate authentication token", body.Error)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	const password = "correct-horse-battery"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := testutils.MustNewUser(t, "known@example.com")
	user.HashedPassword = string(hash)

	lookup := func(_ context.Context, email string) (*domain.User, error) {
		if email == user.Email {
			return user, nil
		}
		return nil, store.ErrUserNotFound
	}

	t.Run("valid credentials return tokens", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(&stubUserService{getUserByEmailFunc: lookup}, successfulJWTService())

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/login", uuid.Nil, api.LoginRequest{
			Email:    "known@example.com",
			Password: password,
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/login", handler.Login)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[api.AuthResponse](t, rec)
		assert.Equal(t, user.ID, body.UserID)
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name  string
			email string
			pass  string
		}{
			{name: "wrong password", email: "known@example.com", pass: "not-the-password"},
			{name: "unknown email", email: "nobody@example.com", pass: password},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				handler := newAuthHandler(&stubUserService{getUserByEmailFunc: lookup}, successfulJWTService())

				req := authedJSONRequest(t, http.MethodPost, "/api/auth/login", uuid.Nil, api.LoginRequest{
					Email:    tt.email,
					Password: tt.pass,
				})
				rec := serveWithRoutes(req, func(r chi.Router) {
					r.Post("/api/auth/login", handler.Login)
				})

				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				body := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, "Invalid credentials", body.Error)
			})
		}
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		t.Parallel()

		userService := &stubUserService{
			getUserByEmailFunc: func(_ context.Context, _ string) (*domain.User, error) {
				return nil, errors.New("connection refused")
			},
		}

		handler := newAuthHandler(userService, successfulJWTService())

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/login", uuid.Nil, api.LoginRequest{
			Email:    "known@example.com",
			Password: password,
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/login", handler.Login)
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Failed to authenticate user", body.Error)
		assert.NotContains(t, body.Error, "connection refused")
	})
}

func TestRefresh(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("valid refresh token returns a new pair", func(t *testing.T) {
		t.Parallel()

		jwtService := successfulJWTService()
		jwtService.ValidateRefreshTokenFunc = func(_ context.Context, token string) (*auth.Claims, error) {
			assert.Equal(t, "old-refresh-token", token)
			return &auth.Claims{UserID: userID, TokenType: "refresh"}, nil
		}

		handler := newAuthHandler(&stubUserService{}, jwtService)

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/refresh", uuid.Nil, api.RefreshTokenRequest{
			RefreshToken: "old-refresh-token",
		})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/refresh", handler.Refresh)
		})

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody[api.RefreshTokenResponse](t, rec)
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
		assert.NotEmpty(t, body.ExpiresAt)
	})

	t.Run("invalid refresh token returns 401", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name        string
			validateErr error
			wantMessage string
		}{
			{name: "expired", validateErr: auth.ErrExpiredRefreshToken, wantMessage: "Invalid refresh token"},
			{name: "garbage", validateErr: auth.ErrInvalidRefreshToken, wantMessage: "Invalid refresh token"},
			{name: "access token presented", validateErr: auth.ErrWrongTokenType, wantMessage: "Invalid refresh token"},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				jwtService := successfulJWTService()
				jwtService.ValidateRefreshTokenFunc = func(_ context.Context, _ string) (*auth.Claims, error) {
					return nil, tt.validateErr
				}

				handler := newAuthHandler(&stubUserService{}, jwtService)

				req := authedJSONRequest(t, http.MethodPost, "/api/auth/refresh", uuid.Nil, api.RefreshTokenRequest{
					RefreshToken: "some-token",
				})
				rec := serveWithRoutes(req, func(r chi.Router) {
					r.Post("/api/auth/refresh", handler.Refresh)
				})

				assert.Equal(t, http.StatusUnauthorized, rec.Code)
				body := decodeBody[shared.ErrorResponse](t, rec)
				assert.Equal(t, tt.wantMessage, body.Error)
			})
		}
	})

	t.Run("missing refresh token returns 400", func(t *testing.T) {
		t.Parallel()

		handler := newAuthHandler(&stubUserService{}, successfulJWTService())

		req := authedJSONRequest(t, http.MethodPost, "/api/auth/refresh", uuid.Nil, api.RefreshTokenRequest{})
		rec := serveWithRoutes(req, func(r chi.Router) {
			r.Post("/api/auth/refresh", handler.Refresh)
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeBody[shared.ErrorResponse](t, rec)
		assert.Equal(t, "Invalid RefreshToken: required field", body.Error)
	})
}
