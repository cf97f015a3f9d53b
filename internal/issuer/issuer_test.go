package issuer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/eventbud/ticketing/internal/identity"
	"github.com/eventbud/ticketing/internal/ledger"
	"github.com/eventbud/ticketing/internal/model"
)

// fakeStore keeps one authoritative event in memory and replays the
// ledger guards under a mutex, giving ApplyPurchase the same all-or-
// nothing semantics as the SQL store: validation against a snapshot,
// guarded application against current state.
type fakeStore struct {
	mu     sync.Mutex
	event  *model.Event
	users  map[string]*model.User
	issued map[string]*model.Ticket
}

func newFakeStore(ev *model.Event, users ...*model.User) *fakeStore {
	s := &fakeStore{event: ev, users: map[string]*model.User{}, issued: map[string]*model.Ticket{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeStore) EventByID(_ context.Context, id string) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.event == nil || s.event.ID != id {
		return nil, model.ErrEventNotFound
	}
	return cloneEvent(s.event), nil
}

func (s *fakeStore) UserByID(_ context.Context, id string) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeStore) ApplyPurchase(_ context.Context, p *Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-validate against current state before mutating anything, so a
	// guard miss leaves the ledger untouched.
	if !p.GeneralAdmission() {
		if err := ledger.CheckSeats(s.event, p.ClassName, p.SeatLabels); err != nil {
			return err
		}
	}
	if err := ledger.CheckQuota(s.event, p.ClassName, len(p.Tickets)); err != nil {
		return err
	}
	if err := ledger.Reserve(s.event, p.ClassName, p.SeatLabels); err != nil {
		return err
	}
	if _, err := ledger.Credit(s.event, p.ClassName, len(p.Tickets)); err != nil {
		return err
	}
	for _, t := range p.Tickets {
		for n := 0; ; n++ {
			id := identity.WithSuffix(t.ID, n)
			if _, taken := s.issued[id]; taken {
				continue
			}
			t.ID = id
			cp := *t
			s.issued[id] = &cp
			break
		}
	}
	return nil
}

func cloneEvent(ev *model.Event) *model.Event {
	cp := *ev
	cp.TicketClass = make([]model.TicketClass, len(ev.TicketClass))
	for i, cls := range ev.TicketClass {
		cp.TicketClass[i] = cls
		if cls.SeatNo != nil {
			m := make(map[string]string, len(cls.SeatNo))
			for k, v := range cls.SeatNo {
				m[k] = v
			}
			cp.TicketClass[i].SeatNo = m
		}
	}
	cp.ZoneRevenue = append([]model.ZoneRevenue(nil), ev.ZoneRevenue...)
	return &cp
}

func testEvent() *model.Event {
	starts := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:          "springfest",
		Name:        "Spring Fest",
		Location:    "Riverside Arena",
		PosterImage: "https://img.example/springfest.png",
		StartsAt:    starts,
		EndsAt:      starts.Add(4 * time.Hour),
		TicketClass: []model.TicketClass{
			{
				ClassName: "VIP",
				SeatCount: 3,
				Price:     2000,
				SeatNo: map[string]string{
					"A1": model.SeatVacant,
					"A2": model.SeatVacant,
					"A3": model.SeatVacant,
				},
			},
			{ClassName: "Lawn", SeatCount: 5, Price: 500},
		},
		ZoneRevenue: []model.ZoneRevenue{
			{ClassName: "VIP", Price: 2000, Quota: 3},
			{ClassName: "Lawn", Price: 500, Quota: 5},
		},
		TotalTicket: 8,
	}
}

func testUser() *model.User {
	return &model.User{ID: "janedoe", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe"}
}

func TestIssue_Seated(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := newFakeStore(testEvent(), testUser())
	svc := New(store, WithNow(func() time.Time { return now }))

	ids, err := svc.Issue(context.Background(), "springfest", "janedoe", "VIP", []string{"A1", "A2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(ids))
	}
	if ids[0] != "springfest-janedoe-vip-a1" {
		t.Fatalf("unexpected ticket ID %q", ids[0])
	}

	tk := store.issued[ids[0]]
	if tk == nil {
		t.Fatalf("ticket %s not persisted", ids[0])
	}
	if tk.Status != model.TicketAvailable {
		t.Fatalf("expected status %s, got %s", model.TicketAvailable, tk.Status)
	}
	if tk.EventName != "Spring Fest" || tk.EventLocation != "Riverside Arena" {
		t.Fatalf("event snapshot missing: %+v", tk)
	}
	if !tk.ValidFrom.Equal(store.event.StartsAt) || !tk.ValidUntil.Equal(store.event.EndsAt) {
		t.Fatalf("validity window must snapshot the event schedule")
	}
	if !tk.CreatedAt.Equal(now) {
		t.Fatalf("expected mint time %v, got %v", now, tk.CreatedAt)
	}

	ev := store.event
	if ev.Class("VIP").SeatNo["A1"] != model.SeatAvailable || ev.Class("VIP").SeatNo["A2"] != model.SeatAvailable {
		t.Fatalf("seats not reserved: %v", ev.Class("VIP").SeatNo)
	}
	if ev.Zone("VIP").TicketSold != 2 || ev.SoldTicket != 2 || ev.TotalTicket != 6 {
		t.Fatalf("counters out of step: %+v", ev)
	}
	if ev.TotalRevenue != 4000 {
		t.Fatalf("expected revenue 4000, got %d", ev.TotalRevenue)
	}
}

func TestIssue_GeneralAdmission(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testEvent(), testUser())
	svc := New(store)

	ids, err := svc.Issue(context.Background(), "springfest", "janedoe", "Lawn", []string{""})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(ids) != 1 || ids[0] != "springfest-janedoe-lawn" {
		t.Fatalf("unexpected ids %v", ids)
	}
	if store.issued[ids[0]].Seated() {
		t.Fatalf("GA ticket must not carry a seat")
	}

	// Buying again collides on the composite key and picks up a suffix.
	ids2, err := svc.Issue(context.Background(), "springfest", "janedoe", "Lawn", []string{""})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ids2[0] != "springfest-janedoe-lawn1" {
		t.Fatalf("expected suffixed ID, got %q", ids2[0])
	}
	if store.event.Zone("Lawn").TicketSold != 2 {
		t.Fatalf("expected 2 sold, got %d", store.event.Zone("Lawn").TicketSold)
	}
}

func TestIssue_Validation(t *testing.T) {
	t.Parallel()

	newSvc := func() (*Service, *fakeStore) {
		store := newFakeStore(testEvent(), testUser())
		return New(store), store
	}

	t.Run("unknown user", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Issue(context.Background(), "springfest", "nobody", "VIP", []string{"A1"})
		if !errors.Is(err, model.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Issue(context.Background(), "ghostfest", "janedoe", "VIP", []string{"A1"})
		if !errors.Is(err, model.ErrEventNotFound) {
			t.Fatalf("expected ErrEventNotFound, got %v", err)
		}
	})

	t.Run("unknown class", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Issue(context.Background(), "springfest", "janedoe", "Balcony", []string{"A1"})
		if !errors.Is(err, model.ErrUnknownClass) {
			t.Fatalf("expected ErrUnknownClass, got %v", err)
		}
	})

	t.Run("empty seat selection", func(t *testing.T) {
		svc, _ := newSvc()
		_, err := svc.Issue(context.Background(), "springfest", "janedoe", "VIP", nil)
		if !errors.Is(err, model.ErrNoSeatSelected) {
			t.Fatalf("expected ErrNoSeatSelected, got %v", err)
		}
	})

	t.Run("blank label mixed into a seated selection", func(t *testing.T) {
		svc, store := newSvc()
		_, err := svc.Issue(context.Background(), "springfest", "janedoe", "VIP", []string{"", "A1"})
		if !errors.Is(err, model.ErrBlankSeatLabel) {
			t.Fatalf("expected ErrBlankSeatLabel, got %v", err)
		}
		if len(store.issued) != 0 {
			t.Fatalf("rejected purchase must mint nothing")
		}
		if store.event.Class("VIP").SeatNo["A1"] != model.SeatVacant {
			t.Fatalf("rejected purchase must not reserve seats")
		}
		// The seat map and the sold counter must stay in lockstep.
		sold := store.event.Zone("VIP").TicketSold
		taken := 0
		for _, state := range store.event.Class("VIP").SeatNo {
			if state != model.SeatVacant {
				taken++
			}
		}
		if sold != taken {
			t.Fatalf("non-vacant seats (%d) != ticketSold (%d)", taken, sold)
		}
	})

	t.Run("seat conflict issues nothing", func(t *testing.T) {
		svc, store := newSvc()
		store.event.Class("VIP").SeatNo["A2"] = model.SeatAvailable
		_, err := svc.Issue(context.Background(), "springfest", "janedoe", "VIP", []string{"A1", "A2"})
		if !errors.Is(err, model.ErrSeatTaken) {
			t.Fatalf("expected ErrSeatTaken, got %v", err)
		}
		if len(store.issued) != 0 {
			t.Fatalf("failed purchase must mint nothing")
		}
		if store.event.Class("VIP").SeatNo["A1"] != model.SeatVacant {
			t.Fatalf("failed purchase must not reserve seats")
		}
	})

	t.Run("quota exceeded", func(t *testing.T) {
		svc, store := newSvc()
		store.event.Zone("Lawn").TicketSold = 5
		_, err := svc.Issue(context.Background(), "springfest", "janedoe", "Lawn", []string{""})
		if !errors.Is(err, model.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
	})
}

func TestIssue_ConcurrentSeatRace(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testEvent(), testUser())
	for i := 0; i < 10; i++ {
		store.users[identity.WithSuffix("buyer", i+1)] = &model.User{ID: identity.WithSuffix("buyer", i+1)}
	}
	svc := New(store)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := identity.WithSuffix("buyer", i+1)
			_, errs[i] = svc.Issue(context.Background(), "springfest", buyer, "VIP", []string{"A1"})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrSeatTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one buyer to win seat A1, got %d", wins)
	}
	if store.event.Zone("VIP").TicketSold != 1 || len(store.issued) != 1 {
		t.Fatalf("losing purchases must leave no trace: sold=%d tickets=%d",
			store.event.Zone("VIP").TicketSold, len(store.issued))
	}
}

func TestIssue_ConcurrentQuotaRace(t *testing.T) {
	t.Parallel()

	store := newFakeStore(testEvent(), testUser())
	for i := 0; i < 10; i++ {
		store.users[identity.WithSuffix("buyer", i+1)] = &model.User{ID: identity.WithSuffix("buyer", i+1)}
	}
	svc := New(store)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buyer := identity.WithSuffix("buyer", i+1)
			_, errs[i] = svc.Issue(context.Background(), "springfest", buyer, "Lawn", []string{""})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrQuotaExceeded):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 5 {
		t.Fatalf("expected quota of 5 winners, got %d", wins)
	}
	z := store.event.Zone("Lawn")
	if z.TicketSold != 5 {
		t.Fatalf("expected ticketSold 5, got %d", z.TicketSold)
	}
	if len(store.issued) != 5 {
		t.Fatalf("expected 5 unique tickets, got %d", len(store.issued))
	}
	if store.event.TotalRevenue != 5*500 {
		t.Fatalf("expected revenue 2500, got %d", store.event.TotalRevenue)
	}
}
