package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

type stubTokens struct {
	valid map[string]string
}

func (s *stubTokens) Issue(userID string) (string, error) {
	return "tok-" + userID, nil
}

func (s *stubTokens) Verify(token string) (string, error) {
	if id, ok := s.valid[token]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: unknown token", domain.ErrInvalidToken)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(&stubTokens{valid: map[string]string{"good": "u1"}})
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(UserIDKey) != "u1" {
			t.Fatalf("user id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	cases := map[string]struct {
		header string
		want   error
	}{
		"missing header":   {"", domain.ErrMissingToken},
		"wrong scheme":     {"Basic abc", domain.ErrMissingToken},
		"empty token":      {"Bearer ", domain.ErrMissingToken},
		"scheme only":      {"Bearer", domain.ErrMissingToken},
		"unknown token":    {"Bearer forged", domain.ErrInvalidToken},
		"lowercase scheme": {"bearer forged", domain.ErrInvalidToken},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			mw := Auth(&stubTokens{valid: map[string]string{"good": "u1"}})
			err := mw(func(c echo.Context) error {
				t.Fatalf("next must not be called")
				return nil
			})(c)

			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
