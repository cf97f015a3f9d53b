package model

import "time"

// Organizer represents an event-organizer account.  Events reference an
// organizer by ID; the OrganizationName here is display data that gets
// denormalized onto events at creation time.
type Organizer struct {
	ID               string    `json:"organizerID"`
	Email            string    `json:"email"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	OrganizationName string    `json:"organizationName"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
}
