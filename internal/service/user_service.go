package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/studyflow-api/internal/domain"
	"github.com/phrazzld/studyflow-api/internal/service/auth"
	"github.com/phrazzld/studyflow-api/internal/store"
)

// UserService provides user-related operations including registration,
// profile settings, and password management.
type UserService interface {
	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// GetUserByEmail retrieves a user by their email address
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// CreateUser creates a new user with the specified email and password
	CreateUser(ctx context.Context, email, password string) (*domain.User, error)

	// UpdateSettings replaces the user's provider usernames and returns
	// the updated user. Empty usernames unlink the provider.
	UpdateSettings(ctx context.Context, userID uuid.UUID, settings domain.Settings) (*domain.User, error)

	// ChangePassword verifies the current password and replaces it with
	// the new one atomically. Returns ErrInvalidCredentials when the
	// current password does not match.
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error

	// VerifyPassword reports whether the given plaintext matches the
	// user's stored password hash.
	VerifyPassword(ctx context.Context, userID uuid.UUID, password string) (bool, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService interface
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

// GetUser retrieves a user by their ID
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found",
				"user_id", userID)
		} else {
			s.logger.Error("failed to retrieve user",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address
func (s *UserServiceImpl) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found by email")
		} else {
			s.logger.Error("failed to retrieve user by email",
				"error", err)
		}
		return nil, fmt.Errorf("failed to retrieve user by email: %w", err)
	}

	return user, nil
}

// CreateUser creates a new user with the specified email and password
// Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) CreateUser(
	ctx context.Context,
	email, password string,
) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		s.logger.Debug("invalid user data during registration",
			"error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)
		return txStore.Create(ctx, user)
	})

	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to create user with existing email")
		} else {
			s.logger.Error("failed to save user to database",
				"error", err)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created successfully",
		"user_id", user.ID)

	return user, nil
}

// UpdateSettings replaces the user's provider usernames.
// Following the pattern of getting the complete user first, then
// updating only the specific fields, inside a transaction.
func (s *UserServiceImpl) UpdateSettings(
	ctx context.Context,
	userID uuid.UUID,
	settings domain.Settings,
) (*domain.User, error) {
	var updated *domain.User

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for settings update: %w", err)
		}

		user.Settings = settings

		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user settings: %w", err)
		}

		updated = user
		return nil
	})

	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("user not found for settings update",
				"user_id", userID)
		} else {
			s.logger.Error("failed to update settings",
				"error", err,
				"user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("user settings updated successfully",
		"user_id", userID)

	return updated, nil
}

// ChangePassword verifies the current password and stores the new one.
// Verification and rehash happen inside one transaction so a concurrent
// change cannot interleave between the check and the write.
func (s *UserServiceImpl) ChangePassword(
	ctx context.Context,
	userID uuid.UUID,
	currentPassword, newPassword string,
) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to retrieve user for password change: %w", err)
		}

		if err := s.verifier.Compare(user.HashedPassword, currentPassword); err != nil {
			return ErrInvalidCredentials
		}

		// The store hashes the new plaintext on update.
		user.Password = newPassword

		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.logger.Debug("password change rejected: wrong current password",
				"user_id", userID)
		} else {
			s.logger.Error("failed to change password",
				"error", err,
				"user_id", userID)
		}
		return err
	}

	s.logger.Info("password changed successfully",
		"user_id", userID)

	return nil
}

// VerifyPassword reports whether the given plaintext matches the user's
// stored password hash.
func (s *UserServiceImpl) VerifyPassword(
	ctx context.Context,
	userID uuid.UUID,
	password string,
) (bool, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to retrieve user for password verification: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return false, nil
	}

	return true, nil
}
