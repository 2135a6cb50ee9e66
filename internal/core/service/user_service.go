package service

import (
	"context"
	"fmt"

	"github.com/mindmax/mood-journal/internal/core/domain"
	"github.com/mindmax/mood-journal/internal/core/ports"
)

type UserService struct {
	users ports.UserRepository
}

func NewUserService(users ports.UserRepository) *UserService {
	return &UserService{users: users}
}

// Me returns the profile of the authenticated user. A valid token for a user
// that no longer exists yields domain.ErrUserNotFound.
func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}
