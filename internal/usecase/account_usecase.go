// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"io"

	"roster/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
// FirstName, LastName, Email, Password and ConfirmPassword are required;
// the remaining profile fields are optional.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string

	Phone          string
	ClinicName     string
	Specialization string
}

// LoginInput defines the data required to verify credentials.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the authenticated account after a successful login.
type LoginOutput struct {
	User *entity.User
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register validates the input, enforces email uniqueness, hashes the
	// password and persists a new account.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)

	// Login verifies the submitted credentials against the stored hash.
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// ExportCSV writes every stored account to w as CSV, ordered by
	// identifier ascending. Password hashes are never included.
	ExportCSV(ctx context.Context, w io.Writer) error
}
