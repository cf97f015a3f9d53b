// Package model defines the domain records shared by the ledger, issuer,
// lifecycle manager and repositories, together with the sentinel errors
// that make up the service's failure taxonomy.  Handlers translate these
// into HTTP responses; nothing in this package is retried internally.
package model

import "errors"

// Not-found failures.  Each names the entity that could not be resolved.
var (
	ErrEventNotFound     = errors.New("event not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrOrganizerNotFound = errors.New("organizer not found")
)

// Conflict failures: the request is well-formed but collides with
// existing state.
var (
	ErrEmailTaken    = errors.New("email already exists")
	ErrSeatTaken     = errors.New("seat already taken")
	ErrQuotaExceeded = errors.New("ticket quota exceeded")
	ErrStaffPresent  = errors.New("staff already assigned to event")
	ErrStaffAbsent   = errors.New("staff not assigned to event")
)

// Invalid-input failures detected before any mutation.
var (
	ErrUnknownClass   = errors.New("unknown ticket class")
	ErrSeatNotFound   = errors.New("seat not found in class")
	ErrNoSeatSelected = errors.New("no seat selected")
	ErrBlankSeatLabel = errors.New("blank seat label in seat selection")
)

// ErrAuthFailed is returned for both an unknown account and a wrong
// password so the response does not leak which of the two was true.
var ErrAuthFailed = errors.New("email or password incorrect")

// Illegal lifecycle transitions reported by the scanner.
var (
	ErrWrongEvent        = errors.New("ticket does not belong to this event")
	ErrAlreadyScanned    = errors.New("ticket already scanned")
	ErrTicketExpired     = errors.New("ticket expired")
	ErrTicketTransferred = errors.New("ticket transferred")
)
