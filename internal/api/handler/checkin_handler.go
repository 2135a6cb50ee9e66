package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mindmax/mood-journal/internal/core/domain"
	"github.com/mindmax/mood-journal/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry POST /checkins safely.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// CheckInHandler handles HTTP requests for the caller's check-ins.
type CheckInHandler struct {
	service ports.CheckInService
}

func NewCheckInHandler(service ports.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

// List handles GET /checkins.
//
// @Summary      List the caller's check-ins
// @Description  Ordered by timestamp, oldest first.
// @Tags         checkins
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   checkInResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /checkins [get]
func (h *CheckInHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCheckInList(list))
}

// Create handles POST /checkins.
//
// @Summary      Record a check-in
// @Description  timestamp defaults to the server time. A repeated Idempotency-Key returns the original check-in with 200.
// @Tags         checkins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Client generated key for safe retries"
// @Param        body             body      createCheckInRequest  true   "Check-in"
// @Success      201              {object}  checkInResponse
// @Success      200              {object}  checkInResponse
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /checkins [post]
func (h *CheckInHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createCheckInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.AddCheckInInput{
		UserID:         userID,
		Mood:           req.Mood,
		Intensity:      req.Intensity,
		Notes:          req.Notes,
		IdempotencyKey: idempotencyKey(c),
	}
	if req.Timestamp != "" {
		// Already checked by the schema.
		ts, err := domain.ParseTimestamp(req.Timestamp)
		if err != nil {
			return err
		}
		in.Timestamp = &ts
	}

	res, err := h.service.Add(c.Request().Context(), in)
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if res.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, toCheckInResponse(res.CheckIn))
}

// Delete handles DELETE /checkins/:id.
//
// @Summary      Delete a check-in
// @Tags         checkins
// @Security     BearerAuth
// @Param        id   path      string  true  "Check-in id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /checkins/{id} [delete]
func (h *CheckInHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), userID, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func idempotencyKey(c echo.Context) string {
	key := strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	if len(key) > maxIdempotencyKeyLength {
		return ""
	}
	return key
}
