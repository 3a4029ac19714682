package model

import "time"

// Event represents a ticketed event whose seating is split into ranks.
// The base price applies to every seat and is combined with the
// rank-specific surcharge stored on each sheet.  Visibility flags may
// be toggled by an administrator; the seating layout itself is fixed
// once the event has been created.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – display title of the event.
//  Public    – whether the event appears in public listings.
//  Closed    – whether new reservations are accepted.
//  Price     – base price added to each sheet's rank surcharge.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Event struct {
	ID        uint64    // events.id
	Title     string    // events.title
	Public    bool      // events.public_fg
	Closed    bool      // events.closed_fg
	Price     int64     // events.price
	CreatedAt time.Time // events.created_at
	UpdatedAt time.Time // events.updated_at
}
