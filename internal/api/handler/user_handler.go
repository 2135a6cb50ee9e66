package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mindmax/mood-journal/internal/core/ports"
)

type UserHandler struct {
	users    ports.UserService
	checkIns ports.CheckInService
}

func NewUserHandler(users ports.UserService, checkIns ports.CheckInService) *UserHandler {
	return &UserHandler{users: users, checkIns: checkIns}
}

// Me returns the authenticated user's profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	u, err := h.users.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toMeResponse(u))
}

// Stats returns aggregate figures over the caller's check-ins.
//
// @Summary      Check-in statistics
// @Description  mostCommonMood is null when there are no check-ins.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.checkIns.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toStatsResponse(stats))
}
