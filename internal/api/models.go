package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"       validate:"required,max=500"`
	Description string     `json:"description" validate:"max=5000"`
	DueDate     *time.Time `json:"due_date"`
	Frequency   string     `json:"frequency"   validate:"required,oneof=daily weekly monthly"`
	Category    string     `json:"category"    validate:"max=100"`
	Target      *int       `json:"target"      validate:"omitempty,min=0"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=500"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	DueDate     *time.Time `json:"due_date"`
	Frequency   *string    `json:"frequency"   validate:"omitempty,oneof=daily weekly monthly"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=pending completed"`
	Category    *string    `json:"category"    validate:"omitempty,max=100"`
	Progress    *int       `json:"progress"    validate:"omitempty,min=0"`
	Target      *int       `json:"target"      validate:"omitempty,min=0"`
}

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Title       string     `json:"title"       validate:"required,max=500"`
	Description string     `json:"description" validate:"max=5000"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateProjectRequest defines the payload for a partial project update.
// Absent fields are left unchanged; the sub-task forest has its own
// endpoints and is never part of this payload.
type UpdateProjectRequest struct {
	Title       *string    `json:"title"       validate:"omitempty,min=1,max=500"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=in-progress completed"`
	DueDate     *time.Time `json:"due_date"`
}

// AddSubTaskRequest defines the payload for inserting a sub-task.
// A nil ParentID inserts at the root level of the project; the literal
// zero UUID is rejected because it is reserved as the root sentinel.
type AddSubTaskRequest struct {
	Text     string     `json:"text"      validate:"required,max=1000"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// UpdateSubTaskRequest defines the payload for a partial sub-task
// update. Absent fields are left unchanged.
type UpdateSubTaskRequest struct {
	Text      *string `json:"text"      validate:"omitempty,min=1,max=1000"`
	Completed *bool   `json:"completed"`
}

// CreateBookRequest defines the payload for adding a book.
type CreateBookRequest struct {
	Title      string `json:"title"       validate:"required,max=500"`
	Author     string `json:"author"      validate:"max=300"`
	TotalPages int    `json:"total_pages" validate:"required,min=1"`
}

// UpdateBookRequest defines the payload for a partial book update.
// Absent fields are left unchanged.
type UpdateBookRequest struct {
	Title       *string `json:"title"        validate:"omitempty,min=1,max=500"`
	Author      *string `json:"author"       validate:"omitempty,max=300"`
	Status      *string `json:"status"       validate:"omitempty,oneof=to-read reading finished dnf"`
	CurrentPage *int    `json:"current_page" validate:"omitempty,min=0"`
	TotalPages  *int    `json:"total_pages"  validate:"omitempty,min=1"`
	Rating      *int    `json:"rating"       validate:"omitempty,min=0,max=5"`
}

// UpdateProfileRequest defines the payload for the profile update
// endpoint. Usernames may be empty to unlink a provider.
type UpdateProfileRequest struct {
	GitHubUsername   string `json:"github_username"   validate:"max=39"`
	LeetCodeUsername string `json:"leetcode_username" validate:"max=100"`
}

// ChangePasswordRequest defines the payload for the password change endpoint.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=12,max=72"`
}

// VerifyPasswordRequest defines the payload for the password verification endpoint.
type VerifyPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// VerifyPasswordResponse reports the result of a password verification.
type VerifyPasswordResponse struct {
	Valid bool `json:"valid"`
}
