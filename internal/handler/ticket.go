package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbud/ticketing/internal/issuer"
	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/queue"
	"github.com/eventbud/ticketing/internal/repository"
	queue_publisher "github.com/eventbud/ticketing/internal/service"
)

// TicketHandler exposes ticket purchase and the user's ticket wallet.
type TicketHandler struct {
	Issuer  *issuer.Service
	Tickets *repository.TicketRepo
	Users   *repository.UserRepo
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(svc *issuer.Service, tickets *repository.TicketRepo, users *repository.UserRepo) *TicketHandler {
	return &TicketHandler{Issuer: svc, Tickets: tickets, Users: users}
}

type postTicketReq struct {
	EventID   string   `json:"eventID"`
	UserID    string   `json:"userID"`
	ClassName string   `json:"className"`
	SeatNo    []string `json:"seatNo"` // [""] means general admission
}

// PostTicket handles POST /post_ticket: one purchase of one or more
// seats (or general-admission units) in a single class. Validation
// failures are reported before anything is mutated; once the issuer
// commits, the purchase is fully applied. A ticket.issued event is
// published best-effort after commit.
func (h *TicketHandler) PostTicket(c echo.Context) error {
	var req postTicketReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == "" || req.UserID == "" || req.ClassName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventID/userID/className required"})
	}

	ctx := c.Request().Context()
	ids, err := h.Issuer.Issue(ctx, req.EventID, req.UserID, req.ClassName, req.SeatNo)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, model.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, model.ErrUnknownClass):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown ticket class"})
		case errors.Is(err, model.ErrNoSeatSelected):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seat selected"})
		case errors.Is(err, model.ErrBlankSeatLabel):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "blank seat label in seat selection"})
		case errors.Is(err, model.ErrSeatNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, model.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, model.ErrQuotaExceeded):
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket quota exceeded"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
		}
	}

	// Best-effort notification; a broker outage must not fail the sale.
	if err := queue_publisher.PublishTicketIssued(ctx, queue.TicketIssuedEvent{
		TicketIDs:  ids,
		EventID:    req.EventID,
		UserID:     req.UserID,
		ClassName:  req.ClassName,
		SeatLabels: req.SeatNo,
		IssuedAt:   time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("post_ticket: publish ticket.issued failed: %v", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"result": "success", "ticketID": ids})
}

// ListUserTickets handles GET /user_ticket/:userID: the user's wallet,
// rendered entirely from the denormalized ticket records.
func (h *TicketHandler) ListUserTickets(c echo.Context) error {
	userID := c.Param("userID")
	ctx := c.Request().Context()
	if _, err := h.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	tickets, err := h.Tickets.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": tickets})
}
