// Package lifecycle governs ticket state transitions.  A ticket starts
// in "available" and can move exactly once, to "scanned" (gate
// check-in), "expired" or "transferred"; all three are absorbing.  The
// expired and transferred transitions have no internal trigger: they
// are hooks driven by external collaborators through the lifecycle
// queue consumer.
package lifecycle

import (
	"context"

	"github.com/eventbud/ticketing/internal/model"
)

// Store is the persistence collaborator for ticket transitions.
type Store interface {
	TicketByID(ctx context.Context, id string) (*model.Ticket, error)

	// Transition flips the ticket status from "from" to "to" only if the
	// stored status currently equals "from", and reports whether the
	// swap applied.  This conditional write is what serialises
	// concurrent scans of the same ticket.
	Transition(ctx context.Context, ticketID, from, to string) (bool, error)
}

// Manager applies lifecycle transitions through a Store.
type Manager struct {
	store Store
}

// NewManager returns a lifecycle manager backed by the given store.
func NewManager(store Store) *Manager { return &Manager{store: store} }

// Scan checks a ticket in at the gate.  It fails with
// model.ErrTicketNotFound when the ticket is absent, model.ErrWrongEvent
// when the ticket belongs to a different event, or the matching
// absorbing-state error when the ticket has already left "available".
// On success the ticket is returned with its new status so scanning
// hardware can display the holder and seat.
func (m *Manager) Scan(ctx context.Context, ticketID, eventID string) (*model.Ticket, error) {
	t, err := m.store.TicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.EventID != eventID {
		return nil, model.ErrWrongEvent
	}
	if err := absorbingErr(t.Status); err != nil {
		return nil, err
	}
	ok, err := m.store.Transition(ctx, ticketID, model.TicketAvailable, model.TicketScanned)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with another scanner (or an expiry sweep) between
		// the read and the conditional write.  Re-read and report the
		// state that won.
		t, err = m.store.TicketByID(ctx, ticketID)
		if err != nil {
			return nil, err
		}
		if err := absorbingErr(t.Status); err != nil {
			return nil, err
		}
		return nil, model.ErrAlreadyScanned
	}
	t.Status = model.TicketScanned
	return t, nil
}

// Expire marks an available ticket expired.  It is a hook for external
// schedulers; the service itself never decides when a ticket expires.
func (m *Manager) Expire(ctx context.Context, ticketID string) error {
	return m.transition(ctx, ticketID, model.TicketExpired)
}

// Transfer marks an available ticket transferred.  Minting the new
// owner's ticket is the transfer collaborator's job, not this one's.
func (m *Manager) Transfer(ctx context.Context, ticketID string) error {
	return m.transition(ctx, ticketID, model.TicketTransferred)
}

func (m *Manager) transition(ctx context.Context, ticketID, to string) error {
	ok, err := m.store.Transition(ctx, ticketID, model.TicketAvailable, to)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	t, err := m.store.TicketByID(ctx, ticketID)
	if err != nil {
		return err
	}
	return absorbingErr(t.Status)
}

// absorbingErr maps a terminal ticket status to its sentinel error, or
// nil when the ticket is still available.
func absorbingErr(status string) error {
	switch status {
	case model.TicketScanned:
		return model.ErrAlreadyScanned
	case model.TicketExpired:
		return model.ErrTicketExpired
	case model.TicketTransferred:
		return model.ErrTicketTransferred
	default:
		return nil
	}
}
