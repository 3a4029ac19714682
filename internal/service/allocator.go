// Package service implements the seat-allocation and
// reservation-consistency engine: atomic seat allocation, cancellation
// with ownership checks, derived availability and the caller-facing
// event projections.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// Reservations coordinates every mutation of the reservation ledger.
// Reserve and Cancel are serialized per (event, rank) by an in-process
// keyed mutex and additionally run inside a store transaction whose
// commit re-checks that the chosen seat is still free.  The double
// guard keeps allocation correct even when the store's isolation alone
// would allow two writers to observe the same free seat.
type Reservations struct {
	store ports.Store
	now   func() time.Time
	locks rankLocks
}

// NewReservations constructs the engine.  The clock defaults to UTC
// time.Now and can be overridden with WithClock for deterministic
// tests.
func NewReservations(store ports.Store, opts ...Option) *Reservations {
	if store == nil {
		panic("nil store passed to NewReservations")
	}
	s := &Reservations{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option customizes a Reservations engine.
type Option func(*Reservations)

// WithClock replaces the engine's clock.
func WithClock(now func() time.Time) Option {
	return func(s *Reservations) { s.now = now }
}

// ReservedSeat is returned by Reserve and identifies the granted seat.
// Price is the composite seat price: event base price plus rank
// surcharge.
type ReservedSeat struct {
	ReservationID uint64 `json:"reservation_id"`
	SheetID       uint64 `json:"sheet_id"`
	Rank          string `json:"rank"`
	Num           uint32 `json:"num"`
	Price         int64  `json:"price"`
}

// Reserve atomically allocates the lowest-numbered free seat in the
// rank to the user and appends an open ledger record for it.  The
// whole choose-and-commit sequence is one atomic unit: a failed write
// leaves no provisional state behind, and a commit-time conflict with
// a concurrent writer surfaces as model.ErrSoldOut to the loser.
func (s *Reservations) Reserve(ctx context.Context, eventID uint64, rank string, userID uint64) (*ReservedSeat, error) {
	unlock := s.locks.lock(eventID, rank)
	defer unlock()

	var out *ReservedSeat
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		ev, err := tx.Event(ctx, eventID)
		if err != nil {
			return err
		}
		if ev.Closed {
			return model.ErrEventClosed
		}
		sheets, err := tx.SheetsByRank(ctx, eventID, rank)
		if err != nil {
			return err
		}
		if len(sheets) == 0 {
			return model.ErrUnknownRank
		}
		open, err := tx.OpenReservations(ctx, eventID)
		if err != nil {
			return err
		}
		held := make(map[uint64]struct{}, len(open))
		for _, r := range open {
			held[r.SheetID] = struct{}{}
		}
		var seat *model.Sheet
		for i := range sheets {
			if _, taken := held[sheets[i].ID]; !taken {
				seat = &sheets[i]
				break
			}
		}
		if seat == nil {
			return model.ErrSoldOut
		}
		rec := &model.Reservation{
			EventID:    eventID,
			SheetID:    seat.ID,
			UserID:     userID,
			ReservedAt: s.now(),
		}
		if err := tx.InsertReservation(ctx, rec); err != nil {
			return err
		}
		out = &ReservedSeat{
			ReservationID: rec.ID,
			SheetID:       seat.ID,
			Rank:          seat.Rank,
			Num:           seat.Num,
			Price:         ev.Price + seat.Price,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel atomically releases the seat by stamping canceled_at on its
// open ledger record.  Only the reservation owner may cancel, unless
// the caller invokes the admin override.  The record itself is kept
// for audit; the seat becomes eligible for the next Reserve call.
func (s *Reservations) Cancel(ctx context.Context, eventID, sheetID, userID uint64, isAdmin bool) error {
	return s.store.Update(ctx, func(tx ports.Tx) error {
		if _, err := tx.Event(ctx, eventID); err != nil {
			return err
		}
		rec, err := tx.OpenReservationBySheet(ctx, eventID, sheetID)
		if err != nil {
			return err
		}
		if rec == nil {
			return model.ErrNotReserved
		}
		if rec.UserID != userID && !isAdmin {
			return model.ErrForbidden
		}
		ok, err := tx.CancelReservation(ctx, rec.ID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			// Lost a race with another cancel of the same record.
			return model.ErrNotReserved
		}
		return nil
	})
}

// Event loads a single event record without any projection applied.
func (s *Reservations) Event(ctx context.Context, eventID uint64) (*model.Event, error) {
	var ev *model.Event
	err := s.store.View(ctx, func(tx ports.Tx) error {
		e, err := tx.Event(ctx, eventID)
		if err != nil {
			return err
		}
		ev = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// Seat resolves a seat slot by rank and number.  Handlers use it to
// translate the wire-level (rank, num) pair into the seat identity
// Cancel operates on.
func (s *Reservations) Seat(ctx context.Context, eventID uint64, rank string, num uint32) (*model.Sheet, error) {
	var seat *model.Sheet
	err := s.store.View(ctx, func(tx ports.Tx) error {
		sh, err := tx.SheetByNum(ctx, eventID, rank, num)
		if err != nil {
			return err
		}
		seat = sh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seat, nil
}

// rankLocks hands out one mutex per (event, rank) pair so reservations
// against unrelated ranks never contend with each other.
type rankLocks struct {
	mu sync.Mutex
	m  map[rankKey]*sync.Mutex
}

type rankKey struct {
	eventID uint64
	rank    string
}

func (l *rankLocks) lock(eventID uint64, rank string) (unlock func()) {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[rankKey]*sync.Mutex)
	}
	k := rankKey{eventID: eventID, rank: rank}
	mu, ok := l.m[k]
	if !ok {
		mu = &sync.Mutex{}
		l.m[k] = mu
	}
	l.mu.Unlock()

	mu.Lock()
	return mu.Unlock
}
