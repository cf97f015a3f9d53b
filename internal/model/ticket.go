package model

import "time"

// Ticket status values.  As with seat states the historical vocabulary
// is kept for API compatibility: "available" means issued and valid but
// not yet used at the gate.  "scanned", "expired" and "transferred" are
// absorbing states; once a ticket reaches one of them no further
// transition is permitted.
const (
	TicketAvailable   = "available"
	TicketScanned     = "scanned"
	TicketExpired     = "expired"
	TicketTransferred = "transferred"
)

// Ticket is one admission unit, minted per seat (or per unit for
// general admission, where SeatNo is the empty string).  The validity
// window and the event display fields are snapshots taken at issuance
// time; later edits to the event do not propagate to already issued
// tickets.
type Ticket struct {
	ID            string    `json:"ticketID"`
	EventID       string    `json:"eventID"`
	UserID        string    `json:"userID"`
	ClassName     string    `json:"className"`
	SeatNo        string    `json:"seatNo"`
	Status        string    `json:"status"`
	ValidFrom     time.Time `json:"validFrom"`
	ValidUntil    time.Time `json:"validUntil"`
	EventName     string    `json:"eventName"`
	EventImage    string    `json:"eventImage"`
	EventLocation string    `json:"eventLocation"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Seated reports whether the ticket is bound to a specific seat.
func (t *Ticket) Seated() bool { return t.SeatNo != "" }
