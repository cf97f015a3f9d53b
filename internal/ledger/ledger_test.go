package ledger

import (
	"errors"
	"testing"

	"github.com/eventbud/ticketing/internal/model"
)

func seatedEvent() *model.Event {
	return &model.Event{
		ID: "concert",
		TicketClass: []model.TicketClass{
			{
				ClassName: "VIP",
				SeatCount: 3,
				Price:     1500,
				SeatNo: map[string]string{
					"A1": model.SeatVacant,
					"A2": model.SeatAvailable,
					"A3": model.SeatUnavailable,
				},
			},
		},
		ZoneRevenue: []model.ZoneRevenue{
			{ClassName: "VIP", Price: 1500, Quota: 3, TicketSold: 1},
		},
		TotalTicket: 2,
		SoldTicket:  1,
	}
}

func TestCheckQuota(t *testing.T) {
	t.Parallel()

	t.Run("fits within quota", func(t *testing.T) {
		if err := CheckQuota(seatedEvent(), "VIP", 2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("rejects overshoot", func(t *testing.T) {
		err := CheckQuota(seatedEvent(), "VIP", 3)
		if !errors.Is(err, model.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("exactly filling the quota is allowed", func(t *testing.T) {
		ev := seatedEvent()
		ev.ZoneRevenue[0].TicketSold = 0
		if err := CheckQuota(ev, "VIP", 3); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		err := CheckQuota(seatedEvent(), "Balcony", 1)
		if !errors.Is(err, model.ErrUnknownClass) {
			t.Fatalf("expected ErrUnknownClass, got %v", err)
		}
	})
}

func TestCheckSeats(t *testing.T) {
	t.Parallel()

	t.Run("vacant seat passes", func(t *testing.T) {
		if err := CheckSeats(seatedEvent(), "VIP", []string{"A1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("reserved seat fails", func(t *testing.T) {
		err := CheckSeats(seatedEvent(), "VIP", []string{"A2"})
		if !errors.Is(err, model.ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
	})

	t.Run("blocked seat fails like a taken one", func(t *testing.T) {
		err := CheckSeats(seatedEvent(), "VIP", []string{"A3"})
		if !errors.Is(err, model.ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
	})

	t.Run("unknown label", func(t *testing.T) {
		err := CheckSeats(seatedEvent(), "VIP", []string{"Z9"})
		if !errors.Is(err, model.ErrSeatNotFound) {
			t.Fatalf("expected ErrSeatNotFound, got %v", err)
		}
	})

	t.Run("one bad seat fails the whole selection", func(t *testing.T) {
		ev := seatedEvent()
		err := CheckSeats(ev, "VIP", []string{"A1", "A2"})
		if !errors.Is(err, model.ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
		if ev.Class("VIP").SeatNo["A1"] != model.SeatVacant {
			t.Fatalf("validation must not mutate the seat map")
		}
	})
}

func TestReserve(t *testing.T) {
	t.Parallel()

	t.Run("flips vacant seats to reserved", func(t *testing.T) {
		ev := seatedEvent()
		if err := Reserve(ev, "VIP", []string{"A1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := ev.Class("VIP").SeatNo["A1"]; got != model.SeatAvailable {
			t.Fatalf("expected A1 %s, got %s", model.SeatAvailable, got)
		}
	})

	t.Run("refuses an occupied seat even without prior check", func(t *testing.T) {
		ev := seatedEvent()
		err := Reserve(ev, "VIP", []string{"A2"})
		if !errors.Is(err, model.ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
	})

	t.Run("skips the general admission sentinel", func(t *testing.T) {
		ev := seatedEvent()
		if err := Reserve(ev, "VIP", []string{""}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		for label, state := range ev.Class("VIP").SeatNo {
			if state != seatedEvent().TicketClass[0].SeatNo[label] {
				t.Fatalf("seat %s mutated by GA reserve", label)
			}
		}
	})

	t.Run("rejects a blank label mixed with real ones", func(t *testing.T) {
		ev := seatedEvent()
		err := Reserve(ev, "VIP", []string{"", "A1"})
		if !errors.Is(err, model.ErrBlankSeatLabel) {
			t.Fatalf("expected ErrBlankSeatLabel, got %v", err)
		}
		if ev.Class("VIP").SeatNo["A1"] != model.SeatVacant {
			t.Fatalf("failed reserve must not flip seats")
		}
	})
}

func TestCredit(t *testing.T) {
	t.Parallel()

	t.Run("moves all counters together", func(t *testing.T) {
		ev := seatedEvent()
		revenue, err := Credit(ev, "VIP", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if revenue != 3000 {
			t.Fatalf("expected revenue 3000, got %d", revenue)
		}
		z := ev.Zone("VIP")
		if z.TicketSold != 3 {
			t.Fatalf("expected ticketSold 3, got %d", z.TicketSold)
		}
		if ev.SoldTicket != 3 || ev.TotalTicket != 0 || ev.TotalRevenue != 3000 {
			t.Fatalf("aggregates out of step: sold=%d total=%d revenue=%d",
				ev.SoldTicket, ev.TotalTicket, ev.TotalRevenue)
		}
	})

	t.Run("rejects crossing the quota and leaves counters untouched", func(t *testing.T) {
		ev := seatedEvent()
		_, err := Credit(ev, "VIP", 3)
		if !errors.Is(err, model.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
		if ev.Zone("VIP").TicketSold != 1 || ev.SoldTicket != 1 || ev.TotalRevenue != 0 {
			t.Fatalf("failed credit must not move counters")
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		ev := seatedEvent()
		if _, err := Credit(ev, "Balcony", 1); !errors.Is(err, model.ErrUnknownClass) {
			t.Fatalf("expected ErrUnknownClass, got %v", err)
		}
	})
}
