package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eventbud/ticketing/internal/config"
	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/repository"
	"github.com/eventbud/ticketing/internal/utils"
)

// OrganizerHandler bundles dependencies for organizer accounts, event
// creation/maintenance and the organizer dashboard.
type OrganizerHandler struct {
	Cfg        config.Config
	Organizers *repository.OrganizerRepo
	Events     *repository.EventRepo
}

// NewOrganizerHandler constructs an OrganizerHandler.
func NewOrganizerHandler(cfg config.Config, o *repository.OrganizerRepo, e *repository.EventRepo) *OrganizerHandler {
	return &OrganizerHandler{Cfg: cfg, Organizers: o, Events: e}
}

type organizerSignupReq struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	OrganizationName string `json:"organizationName"`
}

type ticketClassReq struct {
	ClassName    string   `json:"className"`
	AmountOfSeat int      `json:"amountOfSeat"`
	PricePerSeat int64    `json:"pricePerSeat"`
	SeatNo       []string `json:"seatNo"` // seat labels; empty for general admission
}

type createEventReq struct {
	EventName       string           `json:"eventName"`
	Location        string           `json:"location"`
	Info            string           `json:"info"`
	Featured        bool             `json:"featured"`
	PosterImage     string           `json:"posterImage"`
	TagName         []string         `json:"tagName"`
	OnSaleDateTime  time.Time        `json:"onSaleDateTime"`
	EndSaleDateTime time.Time        `json:"endSaleDateTime"`
	StartDateTime   time.Time        `json:"startDateTime"`
	EndDateTime     time.Time        `json:"endDateTime"`
	TicketClass     []ticketClassReq `json:"ticketClass"`
}

// Signup handles POST /eo_signup.
func (h *OrganizerHandler) Signup(c echo.Context) error {
	var req organizerSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.OrganizationName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/organizationName required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Organizers.Create(ctx, req.Email, req.FirstName, req.LastName, req.OrganizationName, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create organizer failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"result": "success"})
}

// Signin handles POST /eo_signin with the same non-leaking failure
// behavior as attendee sign-in.
func (h *OrganizerHandler) Signin(c echo.Context) error {
	var req signinReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	o, err := h.Organizers.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrOrganizerNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": model.ErrAuthFailed.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(o.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": model.ErrAuthFailed.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"organizerID":      o.ID,
		"email":            o.Email,
		"firstName":        o.FirstName,
		"organizationName": o.OrganizationName,
	})
}

// CreateEvent handles POST /eo_create_event/:organizerID. The new event
// starts in Draft with a zeroed ledger: every zone at ticket_sold 0 and
// every seat of a seated class vacant. When seat labels are supplied
// for a class, the label count is the quota; otherwise the class is
// general admission with amountOfSeat as quota.
func (h *OrganizerHandler) CreateEvent(c echo.Context) error {
	organizerID := c.Param("organizerID")
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventName == "" || len(req.TicketClass) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "eventName and ticketClass required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	org, err := h.Organizers.GetByID(ctx, organizerID)
	if err != nil {
		if errors.Is(err, model.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	ev := &model.Event{
		Name:             req.EventName,
		OrganizerID:      org.ID,
		OrganizationName: org.OrganizationName,
		Location:         req.Location,
		Info:             req.Info,
		PosterImage:      req.PosterImage,
		Featured:         req.Featured,
		Tags:             req.TagName,
		Status:           model.EventStatusDraft,
		OnSaleAt:         req.OnSaleDateTime,
		EndSaleAt:        req.EndSaleDateTime,
		StartsAt:         req.StartDateTime,
		EndsAt:           req.EndDateTime,
	}
	for _, tc := range req.TicketClass {
		if tc.ClassName == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "className required for every ticket class"})
		}
		if ev.Zone(tc.ClassName) != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate ticket class: " + tc.ClassName})
		}
		quota := tc.AmountOfSeat
		var seatMap map[string]string
		if len(tc.SeatNo) > 0 {
			seatMap = make(map[string]string, len(tc.SeatNo))
			for _, label := range tc.SeatNo {
				if label == "" {
					return c.JSON(http.StatusBadRequest, echo.Map{"error": "blank seat label in class " + tc.ClassName})
				}
				seatMap[label] = model.SeatVacant
			}
			quota = len(seatMap)
		}
		ev.TicketClass = append(ev.TicketClass, model.TicketClass{
			ClassName: tc.ClassName,
			SeatCount: quota,
			Price:     tc.PricePerSeat,
			SeatNo:    seatMap,
		})
		ev.ZoneRevenue = append(ev.ZoneRevenue, model.ZoneRevenue{
			ClassName: tc.ClassName,
			Price:     tc.PricePerSeat,
			Quota:     quota,
		})
	}

	if err := h.Events.Create(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"result": "success", "eventID": ev.ID})
}

// Dashboard handles GET /eo_event/:organizerID: the organizer's events
// with their sold/revenue counters.
func (h *OrganizerHandler) Dashboard(c echo.Context) error {
	organizerID := c.Param("organizerID")
	ctx := c.Request().Context()
	if _, err := h.Organizers.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, model.ErrOrganizerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "organizer not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	events, err := h.Events.ListByOrganizer(ctx, organizerID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

type updateEventReq struct {
	OrganizerID string `json:"organizerID"`
	createEventReq
	EventStatus string `json:"eventStatus"`
	// Featured shadows the embedded bool so an omitted field can be
	// told apart from an explicit false.
	Featured *bool `json:"featured"`
}

// applyEventUpdate copies the fields present in req onto ev; omitted
// fields keep their stored values.
func applyEventUpdate(ev *model.Event, req *updateEventReq) {
	if req.EventName != "" {
		ev.Name = req.EventName
	}
	if req.Location != "" {
		ev.Location = req.Location
	}
	if req.Info != "" {
		ev.Info = req.Info
	}
	if req.PosterImage != "" {
		ev.PosterImage = req.PosterImage
	}
	if req.TagName != nil {
		ev.Tags = req.TagName
	}
	if req.EventStatus != "" {
		ev.Status = req.EventStatus
	}
	if req.Featured != nil {
		ev.Featured = *req.Featured
	}
	if !req.OnSaleDateTime.IsZero() {
		ev.OnSaleAt = req.OnSaleDateTime
	}
	if !req.EndSaleDateTime.IsZero() {
		ev.EndSaleAt = req.EndSaleDateTime
	}
	if !req.StartDateTime.IsZero() {
		ev.StartsAt = req.StartDateTime
	}
	if !req.EndDateTime.IsZero() {
		ev.EndsAt = req.EndDateTime
	}
}

// UpdateEvent handles PUT /eo_event/:eventID. Only display and
// scheduling fields change; the ledger is owned by issuance.
func (h *OrganizerHandler) UpdateEvent(c echo.Context) error {
	eventID := c.Param("eventID")
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OrganizerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organizerID required"})
	}
	status := req.EventStatus
	switch status {
	case "", model.EventStatusDraft, model.EventStatusOngoing, model.EventStatusExpired:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid eventStatus"})
	}

	ctx := c.Request().Context()
	ev, err := h.Events.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	applyEventUpdate(ev, &req)

	if err := h.Events.UpdateDetails(ctx, req.OrganizerID, ev); err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"result": "success"})
}

type deleteEventReq struct {
	OrganizerID string `json:"organizerID"`
}

// DeleteEvent handles DELETE /eo_event/:eventID. Ledger and staff rows
// cascade; already issued tickets keep their snapshots.
func (h *OrganizerHandler) DeleteEvent(c echo.Context) error {
	eventID := c.Param("eventID")
	var req deleteEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.OrganizerID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "organizerID required"})
	}
	ctx := c.Request().Context()
	if err := h.Events.Delete(ctx, eventID, req.OrganizerID); err != nil {
		switch {
		case errors.Is(err, model.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
