package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mindmax/mood-journal/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("mood", "mood is required")

	cases := map[string]struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		"validation":       {verr, http.StatusBadRequest, "validation failed"},
		"payload":          {domain.ErrInvalidPayload, http.StatusBadRequest, "invalid payload"},
		"conflict":         {fmt.Errorf("register: %w", domain.ErrUserExists), http.StatusConflict, "email already registered"},
		"key in progress":  {domain.ErrIdempotencyBusy, http.StatusConflict, "a request with this idempotency key is in progress"},
		"credentials":      {domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		"missing token":    {domain.ErrMissingToken, http.StatusUnauthorized, "missing token"},
		"invalid token":    {fmt.Errorf("%w: expired", domain.ErrInvalidToken), http.StatusUnauthorized, "invalid token"},
		"checkin missing":  {domain.ErrCheckInNotFound, http.StatusNotFound, "not found"},
		"user missing":     {domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		"echo not found":   {echo.ErrNotFound, http.StatusNotFound, "Not Found"},
		"body too large":   {echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "Request Entity Too Large"},
		"unexpected error": {errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var logs bytes.Buffer
			e := echo.New()
			h := NewHTTPErrorHandler(zerolog.New(&logs))

			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)
			h(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.wantMsg {
				t.Fatalf("expected %q, got %q", tc.wantMsg, body.Error)
			}

			logged := logs.Len() > 0
			if logged != (tc.wantCode == http.StatusInternalServerError) {
				t.Fatalf("unexpected logging for %d: %q", tc.wantCode, logs.String())
			}
			if bytes.Contains(rec.Body.Bytes(), []byte("disk on fire")) {
				t.Fatalf("internal detail leaked to client")
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("intensity", "intensity must be at most 10")

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/checkins", nil), rec)
	NewHTTPErrorHandler(zerolog.Nop())(verr, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Fields["intensity"] != "intensity must be at most 10" {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}
