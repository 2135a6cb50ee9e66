package ports

import (
	"context"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// CheckInRepository owns check-in persistence. Every operation is scoped to
// the owning user id.
type CheckInRepository interface {
	// ListByUser returns the user's check-ins ordered ascending by timestamp.
	ListByUser(ctx context.Context, userID string) ([]domain.CheckIn, error)
	// Add stores c under userID regardless of c.UserID and assigns its ID.
	Add(ctx context.Context, userID string, c domain.CheckIn) (*domain.CheckIn, error)
	// FindByID returns (nil, nil) when the record is missing or owned by someone else.
	FindByID(ctx context.Context, userID, id string) (*domain.CheckIn, error)
	// Delete reports false when the record is missing or owned by someone else.
	Delete(ctx context.Context, userID, id string) (bool, error)
}
