// Package queue defines message payloads exchanged over the message
// broker and the background consumer for lifecycle commands.
package queue

// TicketIssuedEvent is published when a purchase commits. It carries
// enough for downstream consumers (analytics, notification senders) to
// act without querying the primary database.
type TicketIssuedEvent struct {
	TicketIDs  []string `json:"ticket_ids"`
	EventID    string   `json:"event_id"`
	EventName  string   `json:"event_name"`
	UserID     string   `json:"user_id"`
	ClassName  string   `json:"class_name"`
	SeatLabels []string `json:"seats"`
	TotalPrice int64    `json:"total_price"`
	IssuedAt   string   `json:"issued_at"`
}

// TicketScannedEvent is published when a ticket is checked in at the
// gate.
type TicketScannedEvent struct {
	TicketID  string `json:"ticket_id"`
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	SeatNo    string `json:"seat_no"`
	ScannedAt string `json:"scanned_at"`
}

// Lifecycle command actions accepted on the ticket.lifecycle queue.
const (
	ActionExpire   = "expire"
	ActionTransfer = "transfer"
)

// LifecycleCommand instructs the service to move a ticket into one of
// the externally triggered terminal states. Expiry sweeps and transfer
// services publish these; this service never decides on its own when a
// ticket expires or changes hands.
type LifecycleCommand struct {
	Action   string `json:"action"` // "expire" or "transfer"
	TicketID string `json:"ticket_id"`
}
