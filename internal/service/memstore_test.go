package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// memStore is an in-memory ports.Store for engine tests.  A single
// mutex serializes transactions; Update snapshots the ledger up front
// and restores it when fn fails, matching the all-or-nothing contract.
type memStore struct {
	mu           sync.Mutex
	events       map[uint64]model.Event
	sheets       []model.Sheet
	reservations []model.Reservation
	nextResID    uint64
}

func newMemStore() *memStore {
	return &memStore{events: make(map[uint64]model.Event), nextResID: 1}
}

func (m *memStore) addEvent(ev model.Event) { m.events[ev.ID] = ev }

// addRank appends total seats of the rank, numbered from 1, and
// returns the assigned sheet IDs in seat-number order.
func (m *memStore) addRank(eventID uint64, rank string, total uint32, price int64) []uint64 {
	ids := make([]uint64, 0, total)
	for num := uint32(1); num <= total; num++ {
		id := uint64(len(m.sheets) + 1)
		m.sheets = append(m.sheets, model.Sheet{
			ID: id, EventID: eventID, Rank: rank, Num: num, Price: price,
		})
		ids = append(ids, id)
	}
	return ids
}

func (m *memStore) View(ctx context.Context, fn func(ports.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{s: m})
}

func (m *memStore) Update(ctx context.Context, fn func(ports.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]model.Reservation, len(m.reservations))
	copy(saved, m.reservations)
	savedID := m.nextResID
	if err := fn(&memTx{s: m}); err != nil {
		m.reservations = saved
		m.nextResID = savedID
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t *memTx) Event(ctx context.Context, eventID uint64) (*model.Event, error) {
	ev, ok := t.s.events[eventID]
	if !ok {
		return nil, model.ErrEventNotFound
	}
	return &ev, nil
}

func (t *memTx) Events(ctx context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(t.s.events))
	for _, ev := range t.s.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) SheetsByEvent(ctx context.Context, eventID uint64) ([]model.Sheet, error) {
	var out []model.Sheet
	for _, sh := range t.s.sheets {
		if sh.EventID == eventID {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Num < out[j].Num
	})
	return out, nil
}

func (t *memTx) SheetsByRank(ctx context.Context, eventID uint64, rank string) ([]model.Sheet, error) {
	var out []model.Sheet
	for _, sh := range t.s.sheets {
		if sh.EventID == eventID && sh.Rank == rank {
			out = append(out, sh)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out, nil
}

func (t *memTx) SheetByNum(ctx context.Context, eventID uint64, rank string, num uint32) (*model.Sheet, error) {
	for _, sh := range t.s.sheets {
		if sh.EventID == eventID && sh.Rank == rank && sh.Num == num {
			out := sh
			return &out, nil
		}
	}
	return nil, model.ErrUnknownRank
}

func (t *memTx) OpenReservations(ctx context.Context, eventID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.s.reservations {
		if r.EventID == eventID && r.Open() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (t *memTx) OpenReservationBySheet(ctx context.Context, eventID, sheetID uint64) (*model.Reservation, error) {
	for _, r := range t.s.reservations {
		if r.EventID == eventID && r.SheetID == sheetID && r.Open() {
			out := r
			return &out, nil
		}
	}
	return nil, nil
}

func (t *memTx) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	var out []model.Reservation
	for _, r := range t.s.reservations {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReservedAt.Equal(out[j].ReservedAt) {
			return out[i].ReservedAt.After(out[j].ReservedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (t *memTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	for _, ex := range t.s.reservations {
		if ex.EventID == r.EventID && ex.SheetID == r.SheetID && ex.Open() {
			return model.ErrSoldOut
		}
	}
	r.ID = t.s.nextResID
	t.s.nextResID++
	t.s.reservations = append(t.s.reservations, *r)
	return nil
}

func (t *memTx) CancelReservation(ctx context.Context, reservationID uint64, at time.Time) (bool, error) {
	for i := range t.s.reservations {
		rec := &t.s.reservations[i]
		if rec.ID == reservationID && rec.Open() {
			stamped := at
			rec.CanceledAt = &stamped
			return true, nil
		}
	}
	return false, nil
}
