package filestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// userRecord is the on-disk shape of a user.
type userRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

// UserRepository implements ports.UserRepository on top of users.json.
type UserRepository struct {
	col *collection[userRecord]
}

// Create appends a user. The email uniqueness check runs under the same write
// lock as the append, so concurrent registrations of one address yield exactly
// one record.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		ID:           newID(),
		Name:         user.Name,
		Email:        domain.NormalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.col.update(func(users []userRecord) ([]userRecord, bool, error) {
		for _, u := range users {
			if domain.NormalizeEmail(u.Email) == rec.Email {
				return nil, false, domain.ErrUserExists
			}
		}
		return append(users, rec), true, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	want := domain.NormalizeEmail(email)
	return r.find(func(u userRecord) bool { return domain.NormalizeEmail(u.Email) == want })
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u userRecord) bool { return u.ID == id })
}

func (r *UserRepository) find(match func(userRecord) bool) (*domain.User, error) {
	var found *domain.User
	err := r.col.view(func(users []userRecord) error {
		for _, u := range users {
			if match(u) {
				found = u.toDomain()
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return found, nil
}
