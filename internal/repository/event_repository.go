package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eventbud/ticketing/internal/identity"
	"github.com/eventbud/ticketing/internal/model"
)

// EventRepo provides persistence for events and their embedded ledger:
// ticket classes, per-seat occupancy rows, zone revenue counters and
// staff assignments. The ledger sub-structures live in their own tables
// (ticket_classes, event_seats, zone_revenue) keyed by event and class
// name, mirroring the two independently keyed structures the issuer has
// to keep in lockstep.
type EventRepo struct{ DB *sql.DB }

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts a new event with a zeroed ledger inside a single
// transaction: the event row, one ticket_classes row per class, one
// zone_revenue row per class (ticket_sold = 0) and one vacant
// event_seats row per seat label of each seated class. The event ID is
// derived from the event name and retried with a numeric suffix on
// duplicate key; the final ID is written back into ev.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	total := 0
	for _, z := range ev.ZoneRevenue {
		total += z.Quota
	}
	ev.TotalTicket = total
	ev.SoldTicket = 0
	ev.TotalRevenue = 0
	if ev.Status == "" {
		ev.Status = model.EventStatusDraft
	}

	const q = `INSERT INTO events
		(id, organizer_id, organization_name, name, location, info, poster_image, status, featured, tags,
		 on_sale_at, end_sale_at, starts_at, ends_at, total_ticket, sold_ticket, total_revenue)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	base := identity.Slug(ev.Name)
	if base == "" {
		base = "event"
	}
	for n := 0; ; n++ {
		id := identity.WithSuffix(base, n)
		_, err := tx.ExecContext(ctx, q,
			id, ev.OrganizerID, ev.OrganizationName, ev.Name, ev.Location, ev.Info, ev.PosterImage,
			ev.Status, ev.Featured, strings.Join(ev.Tags, ","),
			ev.OnSaleAt, ev.EndSaleAt, ev.StartsAt, ev.EndsAt,
			ev.TotalTicket, ev.SoldTicket, ev.TotalRevenue)
		if err == nil {
			ev.ID = id
			break
		}
		if isDuplicate(err) {
			continue
		}
		return err
	}

	for _, cls := range ev.TicketClass {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ticket_classes (event_id, class_name, seat_count, price) VALUES (?,?,?,?)`,
			ev.ID, cls.ClassName, cls.SeatCount, cls.Price); err != nil {
			return err
		}
		if len(cls.SeatNo) == 0 {
			continue
		}
		// Bulk insert the seat rows for seated classes, all vacant.
		query := `INSERT INTO event_seats (event_id, class_name, seat_label, status) VALUES `
		args := make([]interface{}, 0, len(cls.SeatNo)*4)
		i := 0
		for label := range cls.SeatNo {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, ev.ID, cls.ClassName, label, model.SeatVacant)
			i++
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	for _, z := range ev.ZoneRevenue {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO zone_revenue (event_id, class_name, price, quota, ticket_sold) VALUES (?,?,?,?,0)`,
			ev.ID, z.ClassName, z.Price, z.Quota); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID loads an event with its full ledger: classes with seat maps,
// zone revenue counters and the staff list. Returns
// model.ErrEventNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	ev, err := r.scanEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.loadLedger(ctx, ev); err != nil {
		return nil, err
	}
	if err := r.loadStaff(ctx, ev); err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *EventRepo) scanEvent(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	var tags string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, organizer_id, organization_name, name, location, info, poster_image, status, featured, tags,
		        on_sale_at, end_sale_at, starts_at, ends_at, total_ticket, sold_ticket, total_revenue
		 FROM events WHERE id=? LIMIT 1`, id).Scan(
		&ev.ID, &ev.OrganizerID, &ev.OrganizationName, &ev.Name, &ev.Location, &ev.Info, &ev.PosterImage,
		&ev.Status, &ev.Featured, &tags,
		&ev.OnSaleAt, &ev.EndSaleAt, &ev.StartsAt, &ev.EndsAt,
		&ev.TotalTicket, &ev.SoldTicket, &ev.TotalRevenue)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if tags != "" {
		ev.Tags = strings.Split(tags, ",")
	}
	return &ev, nil
}

func (r *EventRepo) loadLedger(ctx context.Context, ev *model.Event) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT class_name, seat_count, price FROM ticket_classes WHERE event_id=? ORDER BY class_name`, ev.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cls model.TicketClass
		if err := rows.Scan(&cls.ClassName, &cls.SeatCount, &cls.Price); err != nil {
			return err
		}
		ev.TicketClass = append(ev.TicketClass, cls)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	srows, err := r.DB.QueryContext(ctx,
		`SELECT class_name, seat_label, status FROM event_seats WHERE event_id=? ORDER BY class_name, seat_label`, ev.ID)
	if err != nil {
		return err
	}
	defer srows.Close()
	for srows.Next() {
		var className, label, status string
		if err := srows.Scan(&className, &label, &status); err != nil {
			return err
		}
		cls := ev.Class(className)
		if cls == nil {
			continue
		}
		if cls.SeatNo == nil {
			cls.SeatNo = make(map[string]string)
		}
		cls.SeatNo[label] = status
	}
	if err := srows.Err(); err != nil {
		return err
	}

	zrows, err := r.DB.QueryContext(ctx,
		`SELECT class_name, price, quota, ticket_sold FROM zone_revenue WHERE event_id=? ORDER BY class_name`, ev.ID)
	if err != nil {
		return err
	}
	defer zrows.Close()
	for zrows.Next() {
		var z model.ZoneRevenue
		if err := zrows.Scan(&z.ClassName, &z.Price, &z.Quota, &z.TicketSold); err != nil {
			return err
		}
		ev.ZoneRevenue = append(ev.ZoneRevenue, z)
	}
	return zrows.Err()
}

func (r *EventRepo) loadStaff(ctx context.Context, ev *model.Event) error {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id FROM event_staff WHERE event_id=? ORDER BY user_id`, ev.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return err
		}
		ev.Staff = append(ev.Staff, userID)
	}
	return rows.Err()
}

// ListAll returns every event with its zone counters but without seat
// maps or staff; listings do not need the per-seat detail and the seat
// rows dominate the row count.
func (r *EventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	return r.list(ctx,
		`SELECT id, organizer_id, organization_name, name, location, info, poster_image, status, featured, tags,
		        on_sale_at, end_sale_at, starts_at, ends_at, total_ticket, sold_ticket, total_revenue
		 FROM events ORDER BY starts_at`)
}

// ListByOrganizer returns the events owned by an organizer, newest
// start first, for the dashboard view.
func (r *EventRepo) ListByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	return r.list(ctx,
		`SELECT id, organizer_id, organization_name, name, location, info, poster_image, status, featured, tags,
		        on_sale_at, end_sale_at, starts_at, ends_at, total_ticket, sold_ticket, total_revenue
		 FROM events WHERE organizer_id=? ORDER BY starts_at DESC`, organizerID)
}

func (r *EventRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	ids := make([]interface{}, 0)
	index := make(map[string]int)
	for rows.Next() {
		var ev model.Event
		var tags string
		if err := rows.Scan(
			&ev.ID, &ev.OrganizerID, &ev.OrganizationName, &ev.Name, &ev.Location, &ev.Info, &ev.PosterImage,
			&ev.Status, &ev.Featured, &tags,
			&ev.OnSaleAt, &ev.EndSaleAt, &ev.StartsAt, &ev.EndsAt,
			&ev.TotalTicket, &ev.SoldTicket, &ev.TotalRevenue); err != nil {
			return nil, err
		}
		if tags != "" {
			ev.Tags = strings.Split(tags, ",")
		}
		index[ev.ID] = len(events)
		events = append(events, ev)
		ids = append(ids, ev.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return events, nil
	}
	// Attach zone counters for all listed events in one query.
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	zrows, err := r.DB.QueryContext(ctx,
		`SELECT event_id, class_name, price, quota, ticket_sold FROM zone_revenue
		 WHERE event_id IN (`+placeholders+`) ORDER BY event_id, class_name`, ids...)
	if err != nil {
		return nil, err
	}
	defer zrows.Close()
	for zrows.Next() {
		var eventID string
		var z model.ZoneRevenue
		if err := zrows.Scan(&eventID, &z.ClassName, &z.Price, &z.Quota, &z.TicketSold); err != nil {
			return nil, err
		}
		if i, ok := index[eventID]; ok {
			events[i].ZoneRevenue = append(events[i].ZoneRevenue, z)
		}
	}
	if err := zrows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateDetails updates the mutable display and scheduling fields of an
// event owned by the given organizer. Ledger structures are never
// touched here; only issuance moves the counters. Returns
// model.ErrEventNotFound when the event does not exist and ErrForbidden
// when it belongs to a different organizer.
func (r *EventRepo) UpdateDetails(ctx context.Context, organizerID string, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE events SET name=?, location=?, info=?, poster_image=?, status=?, featured=?, tags=?,
		        on_sale_at=?, end_sale_at=?, starts_at=?, ends_at=?
		 WHERE id=? AND organizer_id=?`,
		ev.Name, ev.Location, ev.Info, ev.PosterImage, ev.Status, ev.Featured, strings.Join(ev.Tags, ","),
		ev.OnSaleAt, ev.EndSaleAt, ev.StartsAt, ev.EndsAt,
		ev.ID, organizerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.ownershipErr(ctx, ev.ID, organizerID)
	}
	return nil
}

// Delete removes an event owned by the given organizer; the ledger and
// staff rows cascade. Issued tickets are kept (their event fields are
// snapshots). Returns model.ErrEventNotFound / ErrForbidden like
// UpdateDetails.
func (r *EventRepo) Delete(ctx context.Context, eventID, organizerID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id=? AND organizer_id=?`, eventID, organizerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.ownershipErr(ctx, eventID, organizerID)
	}
	return nil
}

// ownershipErr distinguishes "event missing" from "event owned by
// someone else" after a guarded write matched zero rows.
func (r *EventRepo) ownershipErr(ctx context.Context, eventID, organizerID string) error {
	var owner string
	err := r.DB.QueryRowContext(ctx, `SELECT organizer_id FROM events WHERE id=?`, eventID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrEventNotFound
	}
	if err != nil {
		return err
	}
	if owner != organizerID {
		return ErrForbidden
	}
	return nil
}

// AddStaff assigns a user as staff on an event. Both must exist; a
// duplicate assignment returns model.ErrStaffPresent.
func (r *EventRepo) AddStaff(ctx context.Context, eventID, userID string) error {
	if _, err := r.scanEvent(ctx, eventID); err != nil {
		return err
	}
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if _, err := r.DB.ExecContext(ctx,
		`INSERT INTO event_staff (event_id, user_id) VALUES (?,?)`, eventID, userID); err != nil {
		if isDuplicate(err) {
			return model.ErrStaffPresent
		}
		return err
	}
	return nil
}

// RemoveStaff removes a staff assignment. Returns model.ErrStaffAbsent
// when the user was not assigned (and the not-found errors when event
// or user do not exist at all).
func (r *EventRepo) RemoveStaff(ctx context.Context, eventID, userID string) error {
	res, err := r.DB.ExecContext(ctx,
		`DELETE FROM event_staff WHERE event_id=? AND user_id=?`, eventID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.scanEvent(ctx, eventID); err != nil {
			return err
		}
		return model.ErrStaffAbsent
	}
	return nil
}

// ScheduleByUser returns the events a user works as staff, ordered by
// start time. This is a read-side projection for the staff schedule
// view; seat maps are not loaded.
func (r *EventRepo) ScheduleByUser(ctx context.Context, userID string) ([]model.Event, error) {
	return r.list(ctx,
		`SELECT e.id, e.organizer_id, e.organization_name, e.name, e.location, e.info, e.poster_image, e.status, e.featured, e.tags,
		        e.on_sale_at, e.end_sale_at, e.starts_at, e.ends_at, e.total_ticket, e.sold_ticket, e.total_revenue
		 FROM events e
		 JOIN event_staff es ON es.event_id = e.id
		 WHERE es.user_id=? ORDER BY e.starts_at`, userID)
}
