package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// RankDef describes one rank of seating when creating an event: the
// label, the number of seats and the per-seat price surcharge.
type RankDef struct {
	Rank  string `json:"rank"`
	Total uint32 `json:"total"`
	Price int64  `json:"price"`
}

// EventRepo provides the administrative operations on events: setup of
// an event together with its immutable seat layout, and toggling the
// visibility flags afterwards.  The allocation path never goes through
// this repository; it reads events via the transactional Store.
type EventRepo struct {
	DB *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// Create inserts an event and its full seat layout in one transaction
// and returns the new event ID.  Seat numbers are dense and start at 1
// within each rank.  The layout cannot be changed afterwards.
func (r *EventRepo) Create(ctx context.Context, title string, price int64, public bool, ranks []RankDef) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, storeErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO events (title, public_fg, closed_fg, price) VALUES (?, ?, ?, ?)`,
		title, public, false, price)
	if err != nil {
		return 0, storeErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeErr(err)
	}
	eventID := uint64(id)

	// Bulk insert the seat slots, one multi-VALUES statement per rank.
	for _, rd := range ranks {
		if rd.Total == 0 {
			continue
		}
		query := "INSERT INTO sheets (event_id, `rank`, num, price) VALUES "
		args := make([]interface{}, 0, int(rd.Total)*4)
		for num := uint32(1); num <= rd.Total; num++ {
			if num > 1 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, eventID, rd.Rank, num, rd.Price)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, storeErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr(err)
	}
	committed = true
	return eventID, nil
}

// SetFlags toggles the public and closed flags of an event.  It
// returns model.ErrEventNotFound when the event does not exist.
func (r *EventRepo) SetFlags(ctx context.Context, eventID uint64, public, closed bool) error {
	var id uint64
	err := r.DB.QueryRowContext(ctx, `SELECT id FROM events WHERE id = ?`, eventID).Scan(&id)
	if err == sql.ErrNoRows {
		return model.ErrEventNotFound
	}
	if err != nil {
		return storeErr(err)
	}
	_, err = r.DB.ExecContext(ctx,
		`UPDATE events SET public_fg = ?, closed_fg = ? WHERE id = ?`,
		public, closed, eventID)
	return storeErr(err)
}
