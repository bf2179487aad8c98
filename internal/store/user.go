package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasknest-api/internal/domain"
)

// UserStore defines the interface for user data persistence. Users are
// created at signup and immutable afterwards, so there are no update or
// delete operations.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry its
	// hashed password; plaintext never reaches this layer.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address. Emails compare
	// case-sensitively, exactly as stored.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
