package service

import "github.com/iliyamo/event-ticket-reservation/internal/model"

// RankAvailability carries the derived counts for one rank.  Price is
// the composite per-seat price for the rank.
type RankAvailability struct {
	Rank    string
	Total   int
	Remains int
	Price   int64
}

// Availability derives per-rank total/remains from an inventory and
// ledger snapshot.  It is a pure function: counts are recomputed on
// every call instead of being cached, so a reader can never observe a
// stale counter.  Open records for seats outside the snapshot are
// ignored, which keeps remains within [0, total] by construction.
func Availability(basePrice int64, sheets []model.Sheet, open []model.Reservation) map[string]*RankAvailability {
	held := make(map[uint64]struct{}, len(open))
	for _, r := range open {
		held[r.SheetID] = struct{}{}
	}
	ranks := make(map[string]*RankAvailability)
	for _, sh := range sheets {
		ra, ok := ranks[sh.Rank]
		if !ok {
			ra = &RankAvailability{Rank: sh.Rank, Price: basePrice + sh.Price}
			ranks[sh.Rank] = ra
		}
		ra.Total++
		if _, taken := held[sh.ID]; !taken {
			ra.Remains++
		}
	}
	return ranks
}

// TotalRemains sums the rank counts into event-level totals.
func TotalRemains(ranks map[string]*RankAvailability) (total, remains int) {
	for _, ra := range ranks {
		total += ra.Total
		remains += ra.Remains
	}
	return total, remains
}
