package model

import "time"

// Reservation is one entry in the reservation ledger.  A seat is
// currently held iff a record for it exists with CanceledAt == nil,
// and at most one such record may exist per seat at any instant.
// Cancellation sets CanceledAt instead of deleting the row, so the
// ledger keeps the full reservation history; re-reserving a canceled
// seat always produces a fresh record.
//
// Fields:
//  ID         – primary key identifier.
//  EventID    – event the seat belongs to.
//  SheetID    – reserved seat.
//  UserID     – user who holds (or held) the seat.
//  ReservedAt – when the reservation was made (UTC).
//  CanceledAt – when it was canceled, nil while the seat is held.
type Reservation struct {
	ID         uint64     // reservations.id
	EventID    uint64     // reservations.event_id
	SheetID    uint64     // reservations.sheet_id
	UserID     uint64     // reservations.user_id
	ReservedAt time.Time  // reservations.reserved_at
	CanceledAt *time.Time // reservations.canceled_at (nullable)
}

// Open reports whether the record still holds its seat.
func (r *Reservation) Open() bool { return r.CanceledAt == nil }
