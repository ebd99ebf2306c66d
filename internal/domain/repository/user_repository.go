// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"roster/internal/domain/entity"
)

// ErrUserNotFound is a domain-specific error returned when a user is not found.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the standard operations for user persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Accounts are write-once: there are no update or delete operations.
type UserRepository interface {
	// FindByEmail retrieves a single user by their email address.
	// Returns ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// ExistsByEmail reports whether a record with the given email already exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new user entity and assigns its identifier.
	// A concurrent insert with the same email surfaces as the domain
	// conflict error, the same one the uniqueness pre-check produces.
	Create(ctx context.Context, user *entity.User) error

	// ListAll returns every stored user, ordered by identifier ascending.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
