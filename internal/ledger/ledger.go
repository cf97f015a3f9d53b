// Package ledger implements the inventory rules for one event's ticket
// classes: quota accounting against the zone revenue counters and seat
// occupancy against the per-class seat maps.  The two structures are
// independently keyed and must be kept in lockstep by the caller, which
// is why every mutating operation here is also guarded: Reserve refuses
// a non-vacant seat and Credit refuses to cross the quota, so a store
// that replays these operations under a lock or transaction gets the
// same compare-and-swap semantics as the SQL implementation.
package ledger

import (
	"fmt"

	"github.com/eventbud/ticketing/internal/model"
)

// CheckQuota reports whether count more tickets fit into the class quota.
// It returns model.ErrUnknownClass when the class has no zone entry and
// model.ErrQuotaExceeded when the purchase would overshoot the quota.
func CheckQuota(ev *model.Event, className string, count int) error {
	z := ev.Zone(className)
	if z == nil {
		return model.ErrUnknownClass
	}
	if z.TicketSold+count > z.Quota {
		return model.ErrQuotaExceeded
	}
	return nil
}

// CheckSeats validates every requested seat label against the class seat
// map before anything is mutated.  The first failing label is reported:
// model.ErrSeatNotFound when the label is absent from the map and
// model.ErrSeatTaken when the seat is no longer vacant.
func CheckSeats(ev *model.Event, className string, seatLabels []string) error {
	cls := ev.Class(className)
	if cls == nil {
		return model.ErrUnknownClass
	}
	for _, label := range seatLabels {
		state, ok := cls.SeatNo[label]
		if !ok {
			return fmt.Errorf("%w: %s", model.ErrSeatNotFound, label)
		}
		if state != model.SeatVacant {
			return fmt.Errorf("%w: %s", model.ErrSeatTaken, label)
		}
	}
	return nil
}

// Reserve flips each seat from vacant to available (reserved).  The
// single blank general-admission sentinel reserves nothing; a blank
// label in any other selection is rejected outright, since it names no
// seat and would otherwise desync the seat map from the sold counter.
// Reserve re-checks each seat as it flips it so a caller that skipped
// CheckSeats still cannot reserve an occupied seat.
func Reserve(ev *model.Event, className string, seatLabels []string) error {
	cls := ev.Class(className)
	if cls == nil {
		return model.ErrUnknownClass
	}
	if len(seatLabels) == 1 && seatLabels[0] == "" {
		return nil
	}
	for _, label := range seatLabels {
		if label == "" {
			return model.ErrBlankSeatLabel
		}
		state, ok := cls.SeatNo[label]
		if !ok {
			return fmt.Errorf("%w: %s", model.ErrSeatNotFound, label)
		}
		if state != model.SeatVacant {
			return fmt.Errorf("%w: %s", model.ErrSeatTaken, label)
		}
		cls.SeatNo[label] = model.SeatAvailable
	}
	return nil
}

// Credit records count sold tickets against the class zone and returns
// the revenue to add to the event total.  The increment is conditional:
// if it would push TicketSold past Quota nothing changes and
// model.ErrQuotaExceeded is returned.
func Credit(ev *model.Event, className string, count int) (int64, error) {
	z := ev.Zone(className)
	if z == nil {
		return 0, model.ErrUnknownClass
	}
	if z.TicketSold+count > z.Quota {
		return 0, model.ErrQuotaExceeded
	}
	z.TicketSold += count
	total := int64(count) * z.Price
	ev.SoldTicket += count
	ev.TotalTicket -= count
	ev.TotalRevenue += total
	return total, nil
}
