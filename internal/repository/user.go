package repository

import (
	"context"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
)

type UpdateProfileInput struct {
	Name  string
	Email string
	Phone *string
}

// UseCase depends on interfaces, not concrete implementations, so the DB can
// be swapped and tests can inject fakes.
type UserRepository interface {
	// Create persists a new user; a duplicate email maps to domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// FindByID never returns the password hash.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByEmail returns the hash too; it backs the login path.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// CredentialByID returns only the stored password hash.
	CredentialByID(ctx context.Context, id string) (string, error)

	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
