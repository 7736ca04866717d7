package store

import (
	"context"

	"github.com/google/uuid"

	"agenda/backend/internal/domain"
)

type UserRepository interface {
	// Create returns ErrDuplicateEmail when the email is already registered.
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	// Update returns ErrDuplicateEmail when the new email is already taken.
	Update(ctx context.Context, user domain.User) (domain.User, error)
}
