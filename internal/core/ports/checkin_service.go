package ports

import (
	"context"
	"time"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// AddCheckInInput is the DTO passed from the transport layer to CheckInService.
type AddCheckInInput struct {
	UserID    string
	Mood      string
	Intensity int
	Notes     string
	Timestamp *time.Time // nil = server-assigned
	// IdempotencyKey is optional; a repeated key returns the original check-in.
	IdempotencyKey string
}

// CheckInResult wraps a created check-in.
type CheckInResult struct {
	CheckIn domain.CheckIn
	// AlreadyExisted is true when the Idempotency-Key matched an earlier check-in.
	AlreadyExisted bool
}

type CheckInService interface {
	List(ctx context.Context, userID string) ([]domain.CheckIn, error)
	Add(ctx context.Context, in AddCheckInInput) (*CheckInResult, error)
	Delete(ctx context.Context, userID, id string) error
	Stats(ctx context.Context, userID string) (domain.Stats, error)
}

// UserService exposes the caller's own profile.
type UserService interface {
	Me(ctx context.Context, userID string) (*domain.User, error)
}

// IdempotencyStore remembers which check-in a client-supplied key produced.
// A key is claimed with Reserve before the check-in is created, then either
// completed with the new id or released when creation failed.
type IdempotencyStore interface {
	// Reserve returns reserved=true when the caller now holds key. Otherwise
	// checkInID is the id recorded for key, or "" while the holder is still
	// creating it.
	Reserve(ctx context.Context, userID, key string) (checkInID string, reserved bool, err error)
	Complete(ctx context.Context, userID, key, checkInID string) error
	Release(ctx context.Context, userID, key string) error
}
