// Package issuer turns a validated purchase intent into ticket records
// plus ledger updates, as one logical transaction.  The service is
// defined against a small Store interface so the purchase rules can be
// exercised without a database; the MySQL implementation lives in the
// repository package.
package issuer

import (
	"context"
	"time"

	"github.com/eventbud/ticketing/internal/identity"
	"github.com/eventbud/ticketing/internal/ledger"
	"github.com/eventbud/ticketing/internal/model"
)

// Store is the persistence collaborator for ticket issuance.
type Store interface {
	EventByID(ctx context.Context, id string) (*model.Event, error)
	UserByID(ctx context.Context, id string) (*model.User, error)

	// ApplyPurchase atomically reserves the purchase's seats, credits the
	// zone counters, updates the event aggregates and inserts the minted
	// tickets.  A concurrent issuer must observe either the pre-purchase
	// or the fully post-purchase state: implementations guard every seat
	// flip with "only if currently vacant" and the zone credit with
	// "only if ticket_sold + n <= quota", and roll the whole purchase
	// back when any guard misses (model.ErrSeatTaken or
	// model.ErrQuotaExceeded).  Ticket IDs are provisional; on a
	// unique-key collision the store retries with the next numeric
	// suffix and writes the final ID back into the ticket.
	ApplyPurchase(ctx context.Context, p *Purchase) error
}

// Purchase carries everything ApplyPurchase needs to persist in one
// unit: the event whose ledger is affected, the class and seat labels
// being bought, and the tickets minted for them.
type Purchase struct {
	Event      *model.Event
	ClassName  string
	SeatLabels []string
	Tickets    []*model.Ticket
	TotalPrice int64
}

// GeneralAdmission reports whether the purchase carries no specific
// seats.  A general-admission request is exactly one blank seat label;
// a list mixing blank and real labels is not GA and fails seat
// validation instead.
func (p *Purchase) GeneralAdmission() bool {
	return len(p.SeatLabels) == 1 && p.SeatLabels[0] == ""
}

// Service validates purchase requests against the event ledger and
// hands atomic purchases to the store.
type Service struct {
	store Store
	now   func() time.Time
}

// New returns an issuance service backed by the given store.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option customises a Service.
type Option func(*Service)

// WithNow overrides the clock used for mint timestamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Issue performs one purchase: resolves the user and event, validates
// the class, quota and seats in that order (cheapest and most certain
// checks first, all before any mutation), mints one ticket per seat
// label and applies the reservation, credit and inserts atomically.
// It returns the IDs of the issued tickets.
func (s *Service) Issue(ctx context.Context, eventID, userID, className string, seatLabels []string) ([]string, error) {
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ev, err := s.store.EventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.Zone(className) == nil {
		return nil, model.ErrUnknownClass
	}
	if len(seatLabels) == 0 {
		return nil, model.ErrNoSeatSelected
	}

	p := &Purchase{
		Event:      ev,
		ClassName:  className,
		SeatLabels: seatLabels,
	}
	if !p.GeneralAdmission() {
		// A seated selection must name every seat; a blank label mixed
		// into real ones would slip past the seat ledger entirely.
		for _, label := range seatLabels {
			if label == "" {
				return nil, model.ErrBlankSeatLabel
			}
		}
	}
	if err := ledger.CheckQuota(ev, className, len(seatLabels)); err != nil {
		return nil, err
	}
	if !p.GeneralAdmission() {
		if err := ledger.CheckSeats(ev, className, seatLabels); err != nil {
			return nil, err
		}
	}

	mintedAt := s.now().UTC()
	unitPrice := ev.Zone(className).Price
	for _, seat := range seatLabels {
		p.Tickets = append(p.Tickets, &model.Ticket{
			ID:            identity.TicketID(ev.ID, user.ID, className, seat),
			EventID:       ev.ID,
			UserID:        user.ID,
			ClassName:     className,
			SeatNo:        seat,
			Status:        model.TicketAvailable,
			ValidFrom:     ev.StartsAt,
			ValidUntil:    ev.EndsAt,
			EventName:     ev.Name,
			EventImage:    ev.PosterImage,
			EventLocation: ev.Location,
			CreatedAt:     mintedAt,
		})
	}
	p.TotalPrice = int64(len(p.Tickets)) * unitPrice

	if err := s.store.ApplyPurchase(ctx, p); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(p.Tickets))
	for _, t := range p.Tickets {
		ids = append(ids, t.ID)
	}
	return ids, nil
}
