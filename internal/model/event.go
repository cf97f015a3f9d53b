package model

import "time"

// Event status values.  An event starts life in Draft when an organizer
// creates it, moves to On-going when published and Expired once it has
// passed.  The strings are stored verbatim in the events table and
// returned to API consumers, so they must not be renamed.
const (
	EventStatusDraft   = "Draft"
	EventStatusOngoing = "On-going"
	EventStatusExpired = "Expired"
)

// Seat occupancy states inside a ticket class seat map.  The vocabulary
// is historical and easy to misread: "available" means the seat has been
// reserved/sold (it became available *to its buyer*), while "vacant"
// means the seat can still be purchased.  "unavailable" marks seats that
// are blocked from sale entirely (broken seat, production hold).
const (
	SeatVacant      = "vacant"
	SeatAvailable   = "available"
	SeatUnavailable = "unavailable"
)

// TicketClass describes one seating tier of an event: its name, how many
// seats it carries, the unit price and, for seated tiers, the occupancy
// state of every seat keyed by label.  Unseated (general admission)
// tiers have an empty SeatNo map and are tracked purely by the quota
// counters in the matching ZoneRevenue entry.
type TicketClass struct {
	ClassName string            `json:"className"`
	SeatCount int               `json:"amountOfSeat"`
	Price     int64             `json:"pricePerSeat"`
	SeatNo    map[string]string `json:"seatNo,omitempty"`
}

// ZoneRevenue carries the commerce counters for one ticket class.  It is
// keyed by the same class name as the TicketClass entry and the two must
// be kept in lockstep: for seated classes the number of non-vacant seats
// in TicketClass.SeatNo always equals TicketSold here.  TicketSold never
// exceeds Quota.
type ZoneRevenue struct {
	ClassName  string `json:"className"`
	Price      int64  `json:"price"`
	Quota      int    `json:"quota"`
	TicketSold int    `json:"ticketSold"`
}

// Event is an event listing together with its embedded inventory ledger.
// The aggregate counters are maintained incrementally by the issuer:
// TotalTicket counts remaining capacity, SoldTicket and TotalRevenue
// grow with every successful purchase and TotalRevenue always equals
// the sum of TicketSold*Price over all zones.
//
// OrganizerID is a real foreign key into the organizers table.  The
// organization display name is denormalized alongside it for read-side
// responses only and carries no ownership semantics.
type Event struct {
	ID               string        `json:"eventID"`
	Name             string        `json:"eventName"`
	OrganizerID      string        `json:"organizerID"`
	OrganizationName string        `json:"organizationName"`
	Location         string        `json:"location"`
	Info             string        `json:"info"`
	PosterImage      string        `json:"posterImage"`
	Status           string        `json:"eventStatus"`
	Featured         bool          `json:"featured"`
	Tags             []string      `json:"tagName"`
	OnSaleAt         time.Time     `json:"onSaleDateTime"`
	EndSaleAt        time.Time     `json:"endSaleDateTime"`
	StartsAt         time.Time     `json:"startDateTime"`
	EndsAt           time.Time     `json:"endDateTime"`
	TicketClass      []TicketClass `json:"ticketClass"`
	ZoneRevenue      []ZoneRevenue `json:"zoneRevenue"`
	TotalTicket      int           `json:"totalTicket"`
	SoldTicket       int           `json:"soldTicket"`
	TotalRevenue     int64         `json:"totalRevenue"`
	Staff            []string      `json:"staff,omitempty"`
}

// Class returns the ticket class entry with the given name, or nil when
// the event has no such class.
func (e *Event) Class(name string) *TicketClass {
	for i := range e.TicketClass {
		if e.TicketClass[i].ClassName == name {
			return &e.TicketClass[i]
		}
	}
	return nil
}

// Zone returns the zone revenue entry with the given class name, or nil
// when no such zone exists.
func (e *Event) Zone(name string) *ZoneRevenue {
	for i := range e.ZoneRevenue {
		if e.ZoneRevenue[i].ClassName == name {
			return &e.ZoneRevenue[i]
		}
	}
	return nil
}
