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

// OrganizerRepo provides persistence for event-organizer accounts.
type OrganizerRepo struct{ DB *sql.DB }

// NewOrganizerRepo returns an OrganizerRepo bound to the given database.
func NewOrganizerRepo(db *sql.DB) *OrganizerRepo { return &OrganizerRepo{DB: db} }

// Create hashes the password and inserts a new organizer. The ID is
// derived from the organization name with numeric-suffix collision
// handling, retried on duplicate key like UserRepo.Create. Returns
// model.ErrEmailTaken when the email is already registered.
func (r *OrganizerRepo) Create(ctx context.Context, email, firstName, lastName, orgName, password string, cost int) (*model.Organizer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return nil, err
	}
	base := identity.Slug(orgName)
	if base == "" {
		base = identity.Slug(firstName, lastName)
	}
	const q = `INSERT INTO organizers (id, email, first_name, last_name, organization_name, password_hash) VALUES (?,?,?,?,?,?)`
	for n := 0; ; n++ {
		id := identity.WithSuffix(base, n)
		_, err := r.DB.ExecContext(ctx, q, id, email, firstName, lastName, orgName, hash)
		if err == nil {
			return &model.Organizer{ID: id, Email: email, FirstName: firstName, LastName: lastName, OrganizationName: orgName, PasswordHash: hash}, nil
		}
		if duplicateOn(err, "email") {
			return nil, model.ErrEmailTaken
		}
		if isDuplicate(err) {
			continue
		}
		return nil, err
	}
}

// GetByEmail fetches an organizer by normalized email. Returns
// model.ErrOrganizerNotFound when no account exists.
func (r *OrganizerRepo) GetByEmail(ctx context.Context, email string) (*model.Organizer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, organization_name, password_hash, created_at FROM organizers WHERE email=? LIMIT 1`,
		email).Scan(&o.ID, &o.Email, &o.FirstName, &o.LastName, &o.OrganizationName, &o.PasswordHash, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrganizerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID fetches an organizer by ID. Returns model.ErrOrganizerNotFound
// when absent.
func (r *OrganizerRepo) GetByID(ctx context.Context, id string) (*model.Organizer, error) {
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, email, first_name, last_name, organization_name, password_hash, created_at FROM organizers WHERE id=? LIMIT 1`,
		id).Scan(&o.ID, &o.Email, &o.FirstName, &o.LastName, &o.OrganizationName, &o.PasswordHash, &o.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrganizerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
