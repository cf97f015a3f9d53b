package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/repository"
)

// EventHandler exposes the public browse endpoints. Both routes sit
// behind the Redis response cache; listings are read-heavy and the
// counters do not need to be second-fresh for browsing.
type EventHandler struct {
	Events *repository.EventRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(e *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: e}
}

// ListEvents handles GET /event: all events with zone counters, no seat
// maps.
func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.Events.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /event/:eventID: one event with its full ledger
// including seat maps, so buyers can pick seats.
func (h *EventHandler) GetEvent(c echo.Context) error {
	ev, err := h.Events.GetByID(c.Request().Context(), c.Param("eventID"))
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load event"})
	}
	return c.JSON(http.StatusOK, ev)
}
