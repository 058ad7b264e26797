package testutils

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/service/auth"
)

// MockJWTService provides a mock implementation of auth.JWTService for testing.
// Each method delegates to the corresponding Func field when set and
// falls back to a harmless default otherwise.
type MockJWTService struct {
	GenerateTokenFunc        func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFunc        func(ctx context.Context, token string) (*auth.Claims, error)
	GenerateRefreshTokenFunc func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateRefreshTokenFunc func(ctx context.Context, token string) (*auth.Claims, error)
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface for testing.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(ctx, userID)
	}
	return "mock-access-token", nil
}

// ValidateToken implements the auth.JWTService interface for testing.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return nil, fmt.Errorf("mock ValidateToken not implemented")
}

// GenerateRefreshToken implements the auth.JWTService interface for testing.
func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(ctx, userID)
	}
	return "mock-refresh-token", nil
}

// ValidateRefreshToken implements the auth.JWTService interface for testing.
func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(ctx, token)
	}
	return nil, auth.ErrInvalidRefreshToken
}
