package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbud/ticketing/internal/lifecycle"
	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/queue"
	queue_publisher "github.com/eventbud/ticketing/internal/service"
)

// ScannerHandler exposes gate check-in for scanning hardware.
type ScannerHandler struct {
	Lifecycle *lifecycle.Manager
}

// NewScannerHandler constructs a ScannerHandler.
func NewScannerHandler(m *lifecycle.Manager) *ScannerHandler {
	return &ScannerHandler{Lifecycle: m}
}

// Scan handles POST /scanner/:eventID/:ticketID. On success the full
// ticket record comes back so the gate can display the holder and seat;
// any repeat attempt returns the absorbing-state error with no
// mutation.
func (h *ScannerHandler) Scan(c echo.Context) error {
	eventID := c.Param("eventID")
	ticketID := c.Param("ticketID")

	ctx := c.Request().Context()
	t, err := h.Lifecycle.Scan(ctx, ticketID, eventID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, model.ErrWrongEvent):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket does not belong to this event"})
		case errors.Is(err, model.ErrAlreadyScanned):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket already scanned"})
		case errors.Is(err, model.ErrTicketExpired):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket expired"})
		case errors.Is(err, model.ErrTicketTransferred):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket transferred"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scan failed"})
		}
	}

	if err := queue_publisher.PublishTicketScanned(ctx, queue.TicketScannedEvent{
		TicketID:  t.ID,
		EventID:   t.EventID,
		UserID:    t.UserID,
		SeatNo:    t.SeatNo,
		ScannedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("scanner: publish ticket.scanned failed: %v", err)
	}

	return c.JSON(http.StatusOK, t)
}
