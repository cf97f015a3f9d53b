package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventbud/ticketing/internal/issuer"
	"github.com/eventbud/ticketing/internal/model"
)

// IssuanceStore implements issuer.Store over MySQL. The whole purchase
// runs in one transaction; every ledger write is a conditional UPDATE
// checked through RowsAffected, so a concurrent purchase of the same
// seat or of the last quota slot loses cleanly at the database instead
// of racing past an earlier read.
type IssuanceStore struct {
	DB      *sql.DB
	Events  *EventRepo
	Users   *UserRepo
	Tickets *TicketRepo
}

// NewIssuanceStore constructs an IssuanceStore from the shared DB
// handle and repositories.
func NewIssuanceStore(db *sql.DB, events *EventRepo, users *UserRepo, tickets *TicketRepo) *IssuanceStore {
	return &IssuanceStore{DB: db, Events: events, Users: users, Tickets: tickets}
}

var _ issuer.Store = (*IssuanceStore)(nil)

// EventByID loads the event with its full ledger.
func (s *IssuanceStore) EventByID(ctx context.Context, id string) (*model.Event, error) {
	return s.Events.GetByID(ctx, id)
}

// UserByID resolves the purchasing user.
func (s *IssuanceStore) UserByID(ctx context.Context, id string) (*model.User, error) {
	return s.Users.GetByID(ctx, id)
}

// ApplyPurchase persists one purchase atomically:
//
//  1. each requested seat flips vacant -> available, guarded by
//     "AND status='vacant'";
//  2. the zone credit bumps ticket_sold, guarded by
//     "AND ticket_sold + n <= quota";
//  3. the event aggregates move by the same amounts;
//  4. the minted tickets are inserted, retrying suffixes on collision.
//
// Any guard miss rolls back everything and surfaces the matching domain
// error, so a failed purchase leaves no partial seat reservation and no
// unmatched revenue credit.
func (s *IssuanceStore) ApplyPurchase(ctx context.Context, p *issuer.Purchase) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if !p.GeneralAdmission() {
		for _, label := range p.SeatLabels {
			res, err := tx.ExecContext(ctx,
				`UPDATE event_seats SET status=? WHERE event_id=? AND class_name=? AND seat_label=? AND status=?`,
				model.SeatAvailable, p.Event.ID, p.ClassName, label, model.SeatVacant)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return s.seatErr(ctx, tx, p.Event.ID, p.ClassName, label)
			}
		}
	}

	count := len(p.Tickets)
	res, err := tx.ExecContext(ctx,
		`UPDATE zone_revenue SET ticket_sold = ticket_sold + ?
		 WHERE event_id=? AND class_name=? AND ticket_sold + ? <= quota`,
		count, p.Event.ID, p.ClassName, count)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM zone_revenue WHERE event_id=? AND class_name=?`,
			p.Event.ID, p.ClassName).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return model.ErrUnknownClass
		}
		if err != nil {
			return err
		}
		return model.ErrQuotaExceeded
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE events SET sold_ticket = sold_ticket + ?, total_ticket = total_ticket - ?, total_revenue = total_revenue + ?
		 WHERE id=?`,
		count, count, p.TotalPrice, p.Event.ID); err != nil {
		return err
	}

	for _, t := range p.Tickets {
		if err := s.Tickets.InsertTx(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// seatErr reports why a guarded seat flip matched nothing: the label is
// unknown to the class, or the seat is no longer vacant.
func (s *IssuanceStore) seatErr(ctx context.Context, tx *sql.Tx, eventID, className, label string) error {
	var status string
	err := tx.QueryRowContext(ctx,
		`SELECT status FROM event_seats WHERE event_id=? AND class_name=? AND seat_label=?`,
		eventID, className, label).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrSeatNotFound
	}
	if err != nil {
		return err
	}
	return model.ErrSeatTaken
}
