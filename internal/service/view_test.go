package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

func TestEventViewFlagsViewerSeats(t *testing.T) {
	store := newMemStore()
	seedEvent(store)
	at := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	svc := NewReservations(store, WithClock(fixedClock(at)))
	ctx := context.Background()

	seat, err := svc.Reserve(ctx, 1, "S", 10)
	require.NoError(t, err)

	owner := uint64(10)
	view, err := svc.EventView(ctx, 1, &owner, true, false)
	require.NoError(t, err)

	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 4, view.Remains)
	require.NotNil(t, view.Price)
	assert.Equal(t, int64(1000), *view.Price)

	s := view.Sheets["S"]
	require.NotNil(t, s)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Remains)
	require.Len(t, s.Details, 3)

	var held *SeatView
	for _, sv := range s.Details {
		if sv.ID == seat.SheetID {
			held = sv
		} else {
			assert.False(t, sv.Reserved)
			assert.Nil(t, sv.ReservedAt)
			assert.Nil(t, sv.ReservedAtUnix)
		}
	}
	require.NotNil(t, held)
	assert.True(t, held.Reserved)
	assert.True(t, held.Mine)
	require.NotNil(t, held.ReservedAt)
	require.NotNil(t, held.ReservedAtUnix)
	assert.Equal(t, at.Format(time.RFC3339), *held.ReservedAt)
	assert.Equal(t, at.Unix(), *held.ReservedAtUnix)

	// The same seat is reserved but not mine for another viewer.
	other := uint64(99)
	view2, err := svc.EventView(ctx, 1, &other, true, false)
	require.NoError(t, err)
	for _, sv := range view2.Sheets["S"].Details {
		if sv.ID == seat.SheetID {
			assert.True(t, sv.Reserved)
			assert.False(t, sv.Mine)
		}
	}

	// Anonymous viewers never see mine set.
	view3, err := svc.EventView(ctx, 1, nil, true, false)
	require.NoError(t, err)
	for _, sv := range view3.Sheets["S"].Details {
		assert.False(t, sv.Mine)
	}
}

func TestEventViewDetailSuppression(t *testing.T) {
	store := newMemStore()
	seedEvent(store)
	svc := NewReservations(store)

	view, err := svc.EventView(context.Background(), 1, nil, false, false)
	require.NoError(t, err)
	for _, rv := range view.Sheets {
		assert.Nil(t, rv.Details)
	}
	assert.Equal(t, 5, view.Total)
}

func TestEventViewHidesNonPublic(t *testing.T) {
	store := newMemStore()
	store.addEvent(model.Event{ID: 2, Title: "secret preview", Public: false, Price: 500})
	store.addRank(2, "S", 1, 100)
	svc := NewReservations(store)
	ctx := context.Background()

	// Hidden events answer like missing ones for ordinary callers.
	_, err := svc.EventView(ctx, 2, nil, true, false)
	assert.ErrorIs(t, err, model.ErrEventNotFound)

	view, err := svc.EventView(ctx, 2, nil, true, true)
	require.NoError(t, err)
	assert.Equal(t, "secret preview", view.Title)
	assert.False(t, view.Public)
}

func TestListEventViews(t *testing.T) {
	store := newMemStore()
	store.addEvent(model.Event{ID: 1, Title: "public one", Public: true, Price: 100})
	store.addRank(1, "S", 2, 50)
	store.addEvent(model.Event{ID: 2, Title: "hidden", Public: false, Price: 100})
	store.addRank(2, "S", 2, 50)
	svc := NewReservations(store)
	ctx := context.Background()

	public, err := svc.ListEventViews(ctx, false, nil)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "public one", public[0].Title)
	// Listings never carry per-seat details.
	for _, rv := range public[0].Sheets {
		assert.Nil(t, rv.Details)
	}

	all, err := svc.ListEventViews(ctx, true, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSanitizeStripsWithoutMutating(t *testing.T) {
	price := int64(1200)
	v := &EventView{ID: 1, Title: "gala", Public: true, Closed: true, Price: &price}

	out := Sanitize(v)
	assert.Nil(t, out.Price)
	assert.False(t, out.Public)
	assert.False(t, out.Closed)
	assert.Equal(t, "gala", out.Title)

	// Original is untouched.
	require.NotNil(t, v.Price)
	assert.Equal(t, int64(1200), *v.Price)
	assert.True(t, v.Public)
	assert.True(t, v.Closed)
}

func TestUserReservationsHistory(t *testing.T) {
	store := newMemStore()
	seedEvent(store)
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	now := base
	svc := NewReservations(store, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))
	ctx := context.Background()

	first, err := svc.Reserve(ctx, 1, "S", 10)
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 1, first.SheetID, 10, false))
	_, err = svc.Reserve(ctx, 1, "A", 10)
	require.NoError(t, err)

	history, err := svc.UserReservations(ctx, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first: the open A-rank grant precedes the canceled S one.
	assert.Equal(t, "A", history[0].Rank)
	assert.Nil(t, history[0].CanceledAt)
	assert.Equal(t, int64(4000), history[0].Price)

	assert.Equal(t, "S", history[1].Rank)
	require.NotNil(t, history[1].CanceledAt)
	assert.Equal(t, "opening night", history[1].EventTitle)
}
