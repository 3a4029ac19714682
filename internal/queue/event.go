// Package queue defines the message payloads exchanged over the
// message broker and the background consumer that turns them into an
// audit trail.  Ledger mutations are published after commit; a lost
// message never affects seat accounting, which lives solely in the
// database.
package queue

// Queue names used on the broker.
const (
	ReservedQueue = "reservation.confirmed"
	CanceledQueue = "reservation.canceled"
)

// ReservationEvent is published when a seat is reserved or canceled.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	EventID       uint64 `json:"event_id"`
	EventTitle    string `json:"event_title"`
	SheetID       uint64 `json:"sheet_id"`
	Rank          string `json:"rank"`
	Num           uint32 `json:"num"`
	Price         int64  `json:"price"`
	UserID        uint64 `json:"user_id"`
	OccurredAt    string `json:"occurred_at"`
}
