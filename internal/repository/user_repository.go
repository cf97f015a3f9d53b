package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/eventbud/ticketing/internal/identity"
	"github.com/eventbud/ticketing/internal/model"
	"github.com/eventbud/ticketing/internal/utils"
)

// UserRepo provides persistence for attendee accounts.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts a new user. The user ID is
// derived from the name and disambiguated with a numeric suffix when an
// account with the same slug already exists; the insert is retried on
// the duplicate-key error rather than relying on a pre-probe, so two
// concurrent registrations cannot mint the same ID. Returns
// model.ErrEmailTaken when the email is already registered.
func (r *UserRepo) Create(ctx context.Context, email, firstName, lastName, password string, cost int) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	base := identity.Slug(firstName, lastName)
	if base == "" {
		base = identity.Slug(email)
	}
	const q = `INSERT INTO users (id, email, first_name, last_name, password_hash) VALUES (?,?,?,?,?)`
	for n := 0; ; n++ {
		id := identity.WithSuffix(base, n)
		_, err := r.DB.ExecContext(ctx, q, id, email, firstName, lastName, hash)
		if err == nil {
			return &model.User{ID: id, Email: email, FirstName: firstName, LastName: lastName, PasswordHash: hash}, nil
		}
		if duplicateOn(err, "email") {
			return nil, model.ErrEmailTaken
		}
		if isDuplicate(err) {
			continue // ID collision, try the next suffix
		}
		return nil, err
	}
}

// GetByEmail fetches a user by normalized email. Returns
// model.ErrUserNotFound when no account exists.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE email=? LIMIT 1`,
		email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by ID together with the IDs of the events the
// user works as staff. Returns model.ErrUserNotFound when absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, password_hash, created_at FROM users WHERE id=? LIMIT 1`,
		id).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT event_id FROM event_staff WHERE user_id=? ORDER BY event_id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var eventID string
		if err := rows.Scan(&eventID); err != nil {
			return nil, err
		}
		u.StaffOf = append(u.StaffOf, eventID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &u, nil
}
