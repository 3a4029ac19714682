package model

// Sheet describes one addressable seat slot within an event's rank.
// Sheets are created together with their event and never change
// afterwards; seat numbers are dense and start at 1 within each rank.
// The price stored here is the rank surcharge only; the full seat
// price is Event.Price + Sheet.Price.
//
// Fields:
//  ID      – globally unique seat identifier.
//  EventID – event to which this seat belongs.
//  Rank    – rank label (e.g. "S", "A").
//  Num     – 1-based position within the rank.
//  Price   – rank-specific price component.
type Sheet struct {
	ID      uint64 // sheets.id
	EventID uint64 // sheets.event_id
	Rank    string // sheets.rank
	Num     uint32 // sheets.num
	Price   int64  // sheets.price
}
