package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/eventbud/ticketing/internal/identity"
	"github.com/eventbud/ticketing/internal/model"
)

// TicketRepo provides persistence for issued tickets, including the
// conditional status transition used by the lifecycle manager.
type TicketRepo struct{ DB *sql.DB }

// NewTicketRepo returns a TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

// TicketByID fetches one ticket. Returns model.ErrTicketNotFound when
// absent.
func (r *TicketRepo) TicketByID(ctx context.Context, id string) (*model.Ticket, error) {
	var t model.Ticket
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, event_id, user_id, class_name, seat_label, status, valid_from, valid_until,
		        event_name, event_image, event_location, created_at
		 FROM tickets WHERE id=? LIMIT 1`, id).Scan(
		&t.ID, &t.EventID, &t.UserID, &t.ClassName, &t.SeatNo, &t.Status, &t.ValidFrom, &t.ValidUntil,
		&t.EventName, &t.EventImage, &t.EventLocation, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Transition flips a ticket's status from one value to another only if
// the stored status still equals from. The conditional WHERE clause is
// the whole point: two concurrent scanners racing on the same ticket
// resolve to exactly one applied transition.
func (r *TicketRepo) Transition(ctx context.Context, ticketID, from, to string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE tickets SET status=? WHERE id=? AND status=?`, to, ticketID, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByUser returns all tickets owned by a user, newest first. The
// denormalized event fields make this the complete wallet view without
// joining events.
func (r *TicketRepo) ListByUser(ctx context.Context, userID string) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, event_id, user_id, class_name, seat_label, status, valid_from, valid_until,
		        event_name, event_image, event_location, created_at
		 FROM tickets WHERE user_id=? ORDER BY created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(
			&t.ID, &t.EventID, &t.UserID, &t.ClassName, &t.SeatNo, &t.Status, &t.ValidFrom, &t.ValidUntil,
			&t.EventName, &t.EventImage, &t.EventLocation, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tickets, nil
}

// InsertTx inserts a ticket within a transaction, retrying with the
// next numeric suffix on a primary-key collision. The final ID is
// written back into t. The duplicate-key retry (rather than a probe
// loop) is what keeps two concurrent issuances of the same composite
// key from minting the same ID.
func (r *TicketRepo) InsertTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets
		(id, event_id, user_id, class_name, seat_label, status, valid_from, valid_until,
		 event_name, event_image, event_location, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	base := t.ID
	for n := 0; ; n++ {
		id := identity.WithSuffix(base, n)
		_, err := tx.ExecContext(ctx, q,
			id, t.EventID, t.UserID, t.ClassName, t.SeatNo, t.Status, t.ValidFrom, t.ValidUntil,
			t.EventName, t.EventImage, t.EventLocation, t.CreatedAt)
		if err == nil {
			t.ID = id
			return nil
		}
		if isDuplicate(err) {
			continue
		}
		return err
	}
}
