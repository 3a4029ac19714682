package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

func TestAvailabilityDerivesCounts(t *testing.T) {
	sheets := []model.Sheet{
		{ID: 1, EventID: 1, Rank: "S", Num: 1, Price: 5000},
		{ID: 2, EventID: 1, Rank: "S", Num: 2, Price: 5000},
		{ID: 3, EventID: 1, Rank: "A", Num: 1, Price: 3000},
	}
	open := []model.Reservation{
		{ID: 1, EventID: 1, SheetID: 2, UserID: 7, ReservedAt: time.Now()},
	}

	ranks := Availability(1000, sheets, open)
	require.Len(t, ranks, 2)

	assert.Equal(t, 2, ranks["S"].Total)
	assert.Equal(t, 1, ranks["S"].Remains)
	assert.Equal(t, int64(6000), ranks["S"].Price)

	assert.Equal(t, 1, ranks["A"].Total)
	assert.Equal(t, 1, ranks["A"].Remains)
	assert.Equal(t, int64(4000), ranks["A"].Price)

	total, remains := TotalRemains(ranks)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, remains)
}

func TestAvailabilityEmptyInventory(t *testing.T) {
	ranks := Availability(100, nil, nil)
	assert.Empty(t, ranks)

	total, remains := TotalRemains(ranks)
	assert.Zero(t, total)
	assert.Zero(t, remains)
}

// Ledger records for seats outside the inventory snapshot must not
// push remains below zero.
func TestAvailabilityIgnoresStrayRecords(t *testing.T) {
	sheets := []model.Sheet{{ID: 1, EventID: 1, Rank: "S", Num: 1}}
	open := []model.Reservation{
		{ID: 1, EventID: 1, SheetID: 1, UserID: 7, ReservedAt: time.Now()},
		{ID: 2, EventID: 1, SheetID: 99, UserID: 8, ReservedAt: time.Now()},
	}

	ranks := Availability(0, sheets, open)
	require.Contains(t, ranks, "S")
	assert.Equal(t, 1, ranks["S"].Total)
	assert.Equal(t, 0, ranks["S"].Remains)
}
