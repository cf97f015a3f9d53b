package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/eventbud/ticketing/internal/model"
)

// fakeTicketStore serves tickets from memory with the same conditional
// transition contract as the SQL store.
type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[string]*model.Ticket
}

func newFakeTicketStore(tickets ...*model.Ticket) *fakeTicketStore {
	s := &fakeTicketStore{tickets: map[string]*model.Ticket{}}
	for _, t := range tickets {
		s.tickets[t.ID] = t
	}
	return s
}

func (s *fakeTicketStore) TicketByID(_ context.Context, id string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, model.ErrTicketNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *fakeTicketStore) Transition(_ context.Context, ticketID, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[ticketID]
	if !ok || t.Status != from {
		return false, nil
	}
	t.Status = to
	return true, nil
}

func ticket(id, eventID, status string) *model.Ticket {
	return &model.Ticket{ID: id, EventID: eventID, UserID: "janedoe", SeatNo: "A1", Status: status}
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("checks in an available ticket", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketAvailable))
		m := NewManager(store)

		got, err := m.Scan(context.Background(), "tk-1", "springfest")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Status != model.TicketScanned {
			t.Fatalf("expected returned status %s, got %s", model.TicketScanned, got.Status)
		}
		if store.tickets["tk-1"].Status != model.TicketScanned {
			t.Fatalf("expected stored status %s, got %s", model.TicketScanned, store.tickets["tk-1"].Status)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		m := NewManager(newFakeTicketStore())
		if _, err := m.Scan(context.Background(), "ghost", "springfest"); !errors.Is(err, model.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})

	t.Run("wrong event leaves the ticket untouched", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketAvailable))
		m := NewManager(store)
		if _, err := m.Scan(context.Background(), "tk-1", "otherfest"); !errors.Is(err, model.ErrWrongEvent) {
			t.Fatalf("expected ErrWrongEvent, got %v", err)
		}
		if store.tickets["tk-1"].Status != model.TicketAvailable {
			t.Fatalf("failed scan must not mutate the ticket")
		}
	})

	t.Run("absorbing states report their own error", func(t *testing.T) {
		cases := []struct {
			status string
			want   error
		}{
			{model.TicketScanned, model.ErrAlreadyScanned},
			{model.TicketExpired, model.ErrTicketExpired},
			{model.TicketTransferred, model.ErrTicketTransferred},
		}
		for _, tc := range cases {
			store := newFakeTicketStore(ticket("tk-1", "springfest", tc.status))
			m := NewManager(store)
			if _, err := m.Scan(context.Background(), "tk-1", "springfest"); !errors.Is(err, tc.want) {
				t.Fatalf("status %s: expected %v, got %v", tc.status, tc.want, err)
			}
			if store.tickets["tk-1"].Status != tc.status {
				t.Fatalf("status %s: absorbing state must not change", tc.status)
			}
		}
	})
}

func TestScan_ConcurrentGates(t *testing.T) {
	t.Parallel()

	store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketAvailable))
	m := NewManager(store)

	const gates = 8
	var wg sync.WaitGroup
	errs := make([]error, gates)
	for i := 0; i < gates; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.Scan(context.Background(), "tk-1", "springfest")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrAlreadyScanned):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one gate to admit, got %d", wins)
	}
	if store.tickets["tk-1"].Status != model.TicketScanned {
		t.Fatalf("ticket must end scanned, got %s", store.tickets["tk-1"].Status)
	}
}

func TestExpireAndTransfer(t *testing.T) {
	t.Parallel()

	t.Run("expire marks an available ticket", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketAvailable))
		m := NewManager(store)
		if err := m.Expire(context.Background(), "tk-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.tickets["tk-1"].Status != model.TicketExpired {
			t.Fatalf("expected %s, got %s", model.TicketExpired, store.tickets["tk-1"].Status)
		}
	})

	t.Run("transfer marks an available ticket", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketAvailable))
		m := NewManager(store)
		if err := m.Transfer(context.Background(), "tk-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.tickets["tk-1"].Status != model.TicketTransferred {
			t.Fatalf("expected %s, got %s", model.TicketTransferred, store.tickets["tk-1"].Status)
		}
	})

	t.Run("expire refuses a scanned ticket", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketScanned))
		m := NewManager(store)
		if err := m.Expire(context.Background(), "tk-1"); !errors.Is(err, model.ErrAlreadyScanned) {
			t.Fatalf("expected ErrAlreadyScanned, got %v", err)
		}
	})

	t.Run("transfer refuses an expired ticket", func(t *testing.T) {
		store := newFakeTicketStore(ticket("tk-1", "springfest", model.TicketExpired))
		m := NewManager(store)
		if err := m.Transfer(context.Background(), "tk-1"); !errors.Is(err, model.ErrTicketExpired) {
			t.Fatalf("expected ErrTicketExpired, got %v", err)
		}
	})

	t.Run("unknown ticket", func(t *testing.T) {
		m := NewManager(newFakeTicketStore())
		if err := m.Expire(context.Background(), "ghost"); !errors.Is(err, model.ErrTicketNotFound) {
			t.Fatalf("expected ErrTicketNotFound, got %v", err)
		}
	})
}
