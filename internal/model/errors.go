// Package model defines the domain records shared by the storage,
// service and handler layers, together with the sentinel errors that
// classify every way a reservation operation can fail.  Handlers use
// errors.Is against these values to choose HTTP status codes.
package model

import "errors"

var (
	// ErrEventNotFound is returned when the referenced event does not
	// exist or is not visible to the caller.
	ErrEventNotFound = errors.New("event not found")

	// ErrEventClosed is returned when reserving on an event that no
	// longer accepts reservations.
	ErrEventClosed = errors.New("event is closed")

	// ErrUnknownRank is returned when the rank label is not part of
	// the event's configured seating.
	ErrUnknownRank = errors.New("unknown rank")

	// ErrSoldOut is returned when no free seat exists in the rank at
	// the instant the allocation is attempted, including the case
	// where a concurrent writer claimed the last seat first.
	ErrSoldOut = errors.New("sold out")

	// ErrNotReserved is returned when canceling a seat that has no
	// open reservation record.
	ErrNotReserved = errors.New("not reserved")

	// ErrForbidden is returned when a non-admin user tries to cancel
	// a reservation they do not own.
	ErrForbidden = errors.New("forbidden")
)

// ErrStoreUnavailable wraps transient persistence failures.  It is the
// only retryable error kind, and retrying is always the caller's
// responsibility; the core never retries a write on its own.
var ErrStoreUnavailable = errors.New("store unavailable")
