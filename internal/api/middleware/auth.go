package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mindmax/mood-journal/internal/core/domain"
	"github.com/mindmax/mood-journal/internal/core/ports"
)

// UserIDKey is the context key the authenticated user id is stored under.
const UserIDKey = "user_id"

// Auth requires a "Bearer <token>" Authorization header and stores the
// verified subject under UserIDKey. Errors are left to the HTTP error handler.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrMissingToken
			}

			userID, err := tokens.Verify(raw)
			if err != nil {
				return err
			}

			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
