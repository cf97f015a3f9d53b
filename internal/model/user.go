package model

import "time"

// User represents an attendee account as stored in the users table.
// StaffOf lists the IDs of events where the user has been assigned a
// staff role; it is loaded from the event_staff join table.
//
// Fields:
//  ID           – human-readable identifier derived from the user's name.
//  Email        – unique email address.
//  PasswordHash – bcrypt digest (bcrypt embeds its own salt).
type User struct {
	ID           string    `json:"userID"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	StaffOf      []string  `json:"staff,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
