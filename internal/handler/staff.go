package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/repository"
)

// StaffHandler exposes staff assignment on events and the staff
// schedule view.
type StaffHandler struct {
	Events *repository.EventRepo
	Users  *repository.UserRepo
}

// NewStaffHandler constructs a StaffHandler.
func NewStaffHandler(e *repository.EventRepo, u *repository.UserRepo) *StaffHandler {
	return &StaffHandler{Events: e, Users: u}
}

// AddStaff handles POST /staff/:eventID/:userID.
func (h *StaffHandler) AddStaff(c echo.Context) error {
	err := h.Events.AddStaff(c.Request().Context(), c.Param("eventID"), c.Param("userID"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, model.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, model.ErrStaffPresent):
			return c.JSON(http.StatusConflict, echo.Map{"error": "staff already assigned to event"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add staff failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"result": "success"})
}

// RemoveStaff handles DELETE /staff/:eventID/:userID.
func (h *StaffHandler) RemoveStaff(c echo.Context) error {
	err := h.Events.RemoveStaff(c.Request().Context(), c.Param("eventID"), c.Param("userID"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, model.ErrStaffAbsent):
			return c.JSON(http.StatusConflict, echo.Map{"error": "staff not assigned to event"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove staff failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// Schedule handles GET /staff_schedule/:userID: the events the user
// works, ordered by start time.
func (h *StaffHandler) Schedule(c echo.Context) error {
	userID := c.Param("userID")
	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	events, err := h.Events.ScheduleByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}
