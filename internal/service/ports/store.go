// Package ports declares the storage interface the reservation core
// depends on.  The production implementation lives in
// internal/repository and speaks MySQL; tests substitute an in-memory
// store with the same transactional semantics.
package ports

import (
	"context"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// Tx exposes the reads and writes available inside one unit of work.
// All slice results come back in a deterministic order: sheets by
// rank then seat number, reservations by reservation time.
type Tx interface {
	// Event returns the event row or model.ErrEventNotFound.
	Event(ctx context.Context, eventID uint64) (*model.Event, error)

	// Events returns all events ordered by ID.
	Events(ctx context.Context) ([]model.Event, error)

	// SheetsByEvent returns every seat slot of the event.
	SheetsByEvent(ctx context.Context, eventID uint64) ([]model.Sheet, error)

	// SheetsByRank returns the rank's seat slots in ascending seat
	// number order.  An empty result means the rank is not configured
	// for the event.
	SheetsByRank(ctx context.Context, eventID uint64, rank string) ([]model.Sheet, error)

	// SheetByNum resolves a seat by its rank and number, or
	// model.ErrUnknownRank when no such slot exists.
	SheetByNum(ctx context.Context, eventID uint64, rank string, num uint32) (*model.Sheet, error)

	// OpenReservations returns every currently-open ledger record for
	// the event.
	OpenReservations(ctx context.Context, eventID uint64) ([]model.Reservation, error)

	// OpenReservationBySheet returns the open record holding the seat,
	// or nil when the seat is free.
	OpenReservationBySheet(ctx context.Context, eventID, sheetID uint64) (*model.Reservation, error)

	// ReservationsByUser returns the user's full reservation history,
	// open and canceled, newest first.
	ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)

	// InsertReservation appends an open ledger record and fills in the
	// generated ID.  The write is guarded: if the seat already has an
	// open record at commit time the insert fails with model.ErrSoldOut
	// and nothing is written.
	InsertReservation(ctx context.Context, r *model.Reservation) error

	// CancelReservation stamps canceled_at on the record.  It returns
	// false when the record was already canceled, so a racing second
	// cancel observes exactly one winner.
	CancelReservation(ctx context.Context, reservationID uint64, at time.Time) (bool, error)
}

// Store runs functions against the ledger and inventory.  View provides
// a consistent read snapshot; Update provides a transaction whose
// writes either all commit or all roll back.  Neither call retries on
// failure.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
}
