package service

import (
	"context"
	"sort"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// EventView is the caller-facing projection of an event.  Total and
// Remains are derived from the ledger at read time, never stored.
// Price is a pointer so Sanitize can strip it from the serialized form
// without mutating the underlying event.
type EventView struct {
	ID      uint64               `json:"id"`
	Title   string               `json:"title"`
	Public  bool                 `json:"public"`
	Closed  bool                 `json:"closed"`
	Price   *int64               `json:"price,omitempty"`
	Total   int                  `json:"total"`
	Remains int                  `json:"remains"`
	Sheets  map[string]*RankView `json:"sheets"`
}

// RankView aggregates one rank.  Details lists every seat of the rank
// in ascending number order and is omitted in list projections.
type RankView struct {
	Total   int         `json:"total"`
	Remains int         `json:"remains"`
	Price   int64       `json:"price"`
	Details []*SeatView `json:"details,omitempty"`
}

// SeatView is the per-seat projection.  ReservedAt and ReservedAtUnix
// are both present for a held seat and always describe the same
// instant; all three reservation fields are absent for a free seat.
type SeatView struct {
	ID             uint64  `json:"id"`
	Num            uint32  `json:"num"`
	Mine           bool    `json:"mine,omitempty"`
	Reserved       bool    `json:"reserved,omitempty"`
	ReservedAt     *string `json:"reserved_at,omitempty"`
	ReservedAtUnix *int64  `json:"reserved_at_unix,omitempty"`
}

// EventView projects a single event for the given viewer.  A nil
// viewer produces mine=false everywhere.  Non-public events are only
// visible when includePrivate is set (the admin surface); everyone
// else gets model.ErrEventNotFound so hidden events stay
// indistinguishable from missing ones.
func (s *Reservations) EventView(ctx context.Context, eventID uint64, viewerID *uint64, includeDetails, includePrivate bool) (*EventView, error) {
	var view *EventView
	err := s.store.View(ctx, func(tx ports.Tx) error {
		ev, err := tx.Event(ctx, eventID)
		if err != nil {
			return err
		}
		if !ev.Public && !includePrivate {
			return model.ErrEventNotFound
		}
		sheets, err := tx.SheetsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		open, err := tx.OpenReservations(ctx, eventID)
		if err != nil {
			return err
		}
		view = project(ev, sheets, open, viewerID, includeDetails)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListEventViews projects all events for a listing.  Per-seat details
// are always suppressed here so a listing never serializes every seat
// of every event.  Non-public events are included only when
// includeNonPublic is set.
func (s *Reservations) ListEventViews(ctx context.Context, includeNonPublic bool, viewerID *uint64) ([]*EventView, error) {
	var views []*EventView
	err := s.store.View(ctx, func(tx ports.Tx) error {
		events, err := tx.Events(ctx)
		if err != nil {
			return err
		}
		views = make([]*EventView, 0, len(events))
		for i := range events {
			ev := &events[i]
			if !ev.Public && !includeNonPublic {
				continue
			}
			sheets, err := tx.SheetsByEvent(ctx, ev.ID)
			if err != nil {
				return err
			}
			open, err := tx.OpenReservations(ctx, ev.ID)
			if err != nil {
				return err
			}
			views = append(views, project(ev, sheets, open, viewerID, false))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Sanitize returns a copy of the view suitable for non-privileged
// callers: the price is stripped and the visibility flags are forced
// to false.  The receiver is left untouched.
func Sanitize(v *EventView) *EventView {
	out := *v
	out.Price = nil
	out.Public = false
	out.Closed = false
	return &out
}

// project assembles one EventView from a consistent snapshot of the
// event, its seat slots and the open ledger records.
func project(ev *model.Event, sheets []model.Sheet, open []model.Reservation, viewerID *uint64, includeDetails bool) *EventView {
	openBySheet := make(map[uint64]*model.Reservation, len(open))
	for i := range open {
		openBySheet[open[i].SheetID] = &open[i]
	}
	ranks := Availability(ev.Price, sheets, open)

	price := ev.Price
	view := &EventView{
		ID:     ev.ID,
		Title:  ev.Title,
		Public: ev.Public,
		Closed: ev.Closed,
		Price:  &price,
		Sheets: make(map[string]*RankView, len(ranks)),
	}
	view.Total, view.Remains = TotalRemains(ranks)

	for rank, ra := range ranks {
		view.Sheets[rank] = &RankView{Total: ra.Total, Remains: ra.Remains, Price: ra.Price}
	}
	if !includeDetails {
		return view
	}
	for _, sh := range sheets {
		sv := &SeatView{ID: sh.ID, Num: sh.Num}
		if rec, ok := openBySheet[sh.ID]; ok {
			sv.Reserved = true
			sv.Mine = viewerID != nil && rec.UserID == *viewerID
			at := rec.ReservedAt.UTC()
			iso := at.Format(time.RFC3339)
			unix := at.Unix()
			sv.ReservedAt = &iso
			sv.ReservedAtUnix = &unix
		}
		rv := view.Sheets[sh.Rank]
		rv.Details = append(rv.Details, sv)
	}
	for _, rv := range view.Sheets {
		sort.Slice(rv.Details, func(i, j int) bool { return rv.Details[i].Num < rv.Details[j].Num })
	}
	return view
}

// UserReservation is one row of a user's reservation history.
type UserReservation struct {
	ID             uint64  `json:"id"`
	EventID        uint64  `json:"event_id"`
	EventTitle     string  `json:"event_title"`
	Rank           string  `json:"rank"`
	Num            uint32  `json:"num"`
	Price          int64   `json:"price"`
	ReservedAt     string  `json:"reserved_at"`
	ReservedAtUnix int64   `json:"reserved_at_unix"`
	CanceledAt     *string `json:"canceled_at,omitempty"`
}

// UserReservations returns the user's ledger history, open and
// canceled records alike, newest first.
func (s *Reservations) UserReservations(ctx context.Context, userID uint64) ([]UserReservation, error) {
	var out []UserReservation
	err := s.store.View(ctx, func(tx ports.Tx) error {
		recs, err := tx.ReservationsByUser(ctx, userID)
		if err != nil {
			return err
		}
		events := make(map[uint64]*model.Event)
		seats := make(map[uint64]map[uint64]model.Sheet)
		out = make([]UserReservation, 0, len(recs))
		for _, rec := range recs {
			ev, ok := events[rec.EventID]
			if !ok {
				ev, err = tx.Event(ctx, rec.EventID)
				if err != nil {
					return err
				}
				events[rec.EventID] = ev
				sheets, err := tx.SheetsByEvent(ctx, rec.EventID)
				if err != nil {
					return err
				}
				byID := make(map[uint64]model.Sheet, len(sheets))
				for _, sh := range sheets {
					byID[sh.ID] = sh
				}
				seats[rec.EventID] = byID
			}
			sh := seats[rec.EventID][rec.SheetID]
			at := rec.ReservedAt.UTC()
			ur := UserReservation{
				ID:             rec.ID,
				EventID:        rec.EventID,
				EventTitle:     ev.Title,
				Rank:           sh.Rank,
				Num:            sh.Num,
				Price:          ev.Price + sh.Price,
				ReservedAt:     at.Format(time.RFC3339),
				ReservedAtUnix: at.Unix(),
			}
			if rec.CanceledAt != nil {
				iso := rec.CanceledAt.UTC().Format(time.RFC3339)
				ur.CanceledAt = &iso
			}
			out = append(out, ur)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
