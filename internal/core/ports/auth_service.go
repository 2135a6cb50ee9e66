package ports

import (
	"context"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

// RegisterInput carries the fields of a registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify returns the subject user id or an error wrapping domain.ErrInvalidToken.
	Verify(token string) (string, error)
}

// PasswordHasher hashes and compares passwords off the request goroutine.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	// Compare returns domain.ErrInvalidCredentials on mismatch.
	Compare(ctx context.Context, hash, password string) error
}
