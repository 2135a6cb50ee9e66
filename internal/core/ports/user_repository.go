package ports

import (
	"context"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// FindByEmail matches case-insensitively. A miss returns (nil, nil).
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns (nil, nil) when no user has the given id.
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Create assigns ID and CreatedAt and returns domain.ErrUserExists when the
	// email is already registered. Check and insert are atomic.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
