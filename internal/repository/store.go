package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
	"github.com/iliyamo/event-ticket-reservation/internal/service/ports"
)

// Store is the MySQL implementation of ports.Store.  View runs its
// function inside a read-only transaction so every query observes one
// consistent snapshot; Update runs inside a writable transaction and
// takes row locks on the inventory it reads, so the free-seat check
// and the ledger write commit as a single unit.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// View executes fn inside a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(ports.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return storeErr(err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(&storeTx{tx: tx}); err != nil {
		return err
	}
	return storeErr(tx.Commit())
}

// Update executes fn inside a writable transaction.  The transaction
// is rolled back unless fn succeeds and the commit goes through.
func (s *Store) Update(ctx context.Context, fn func(ports.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx, writable: true}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}
	committed = true
	return nil
}

// storeTx implements ports.Tx over one *sql.Tx.  In writable
// transactions the inventory and ledger reads append FOR UPDATE so
// concurrent writers serialize on the rows they are about to decide
// over.
type storeTx struct {
	tx       *sql.Tx
	writable bool
}

func (t *storeTx) forUpdate() string {
	if t.writable {
		return " FOR UPDATE"
	}
	return ""
}

func (t *storeTx) Event(ctx context.Context, eventID uint64) (*model.Event, error) {
	const q = `SELECT id, title, public_fg, closed_fg, price, created_at, updated_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := t.tx.QueryRowContext(ctx, q+t.forUpdate(), eventID).Scan(
		&ev.ID, &ev.Title, &ev.Public, &ev.Closed, &ev.Price, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrEventNotFound
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &ev, nil
}

func (t *storeTx) Events(ctx context.Context) ([]model.Event, error) {
	const q = `SELECT id, title, public_fg, closed_fg, price, created_at, updated_at
	           FROM events ORDER BY id`
	rows, err := t.tx.QueryContext(ctx, q)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Title, &ev.Public, &ev.Closed, &ev.Price, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, storeErr(err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

func (t *storeTx) SheetsByEvent(ctx context.Context, eventID uint64) ([]model.Sheet, error) {
	const q = "SELECT id, event_id, `rank`, num, price FROM sheets WHERE event_id = ? ORDER BY `rank`, num"
	return t.querySheets(ctx, q, eventID)
}

func (t *storeTx) SheetsByRank(ctx context.Context, eventID uint64, rank string) ([]model.Sheet, error) {
	q := "SELECT id, event_id, `rank`, num, price FROM sheets WHERE event_id = ? AND `rank` = ? ORDER BY num" + t.forUpdate()
	return t.querySheets(ctx, q, eventID, rank)
}

func (t *storeTx) querySheets(ctx context.Context, q string, args ...interface{}) ([]model.Sheet, error) {
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	sheets := make([]model.Sheet, 0)
	for rows.Next() {
		var sh model.Sheet
		if err := rows.Scan(&sh.ID, &sh.EventID, &sh.Rank, &sh.Num, &sh.Price); err != nil {
			return nil, storeErr(err)
		}
		sheets = append(sheets, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return sheets, nil
}

func (t *storeTx) SheetByNum(ctx context.Context, eventID uint64, rank string, num uint32) (*model.Sheet, error) {
	const q = "SELECT id, event_id, `rank`, num, price FROM sheets WHERE event_id = ? AND `rank` = ? AND num = ?"
	var sh model.Sheet
	err := t.tx.QueryRowContext(ctx, q+t.forUpdate(), eventID, rank, num).Scan(
		&sh.ID, &sh.EventID, &sh.Rank, &sh.Num, &sh.Price,
	)
	if err == sql.ErrNoRows {
		return nil, model.ErrUnknownRank
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &sh, nil
}

func (t *storeTx) OpenReservations(ctx context.Context, eventID uint64) ([]model.Reservation, error) {
	q := `SELECT id, event_id, sheet_id, user_id, reserved_at, canceled_at
	      FROM reservations WHERE event_id = ? AND canceled_at IS NULL
	      ORDER BY reserved_at, id` + t.forUpdate()
	return t.queryReservations(ctx, q, eventID)
}

func (t *storeTx) OpenReservationBySheet(ctx context.Context, eventID, sheetID uint64) (*model.Reservation, error) {
	q := `SELECT id, event_id, sheet_id, user_id, reserved_at, canceled_at
	      FROM reservations WHERE event_id = ? AND sheet_id = ? AND canceled_at IS NULL
	      LIMIT 1` + t.forUpdate()
	var rec model.Reservation
	var canceled sql.NullTime
	err := t.tx.QueryRowContext(ctx, q, eventID, sheetID).Scan(
		&rec.ID, &rec.EventID, &rec.SheetID, &rec.UserID, &rec.ReservedAt, &canceled,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	if canceled.Valid {
		at := canceled.Time
		rec.CanceledAt = &at
	}
	return &rec, nil
}

func (t *storeTx) ReservationsByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, event_id, sheet_id, user_id, reserved_at, canceled_at
	           FROM reservations WHERE user_id = ?
	           ORDER BY reserved_at DESC, id DESC`
	return t.queryReservations(ctx, q, userID)
}

func (t *storeTx) queryReservations(ctx context.Context, q string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()
	recs := make([]model.Reservation, 0)
	for rows.Next() {
		var rec model.Reservation
		var canceled sql.NullTime
		if err := rows.Scan(&rec.ID, &rec.EventID, &rec.SheetID, &rec.UserID, &rec.ReservedAt, &canceled); err != nil {
			return nil, storeErr(err)
		}
		if canceled.Valid {
			at := canceled.Time
			rec.CanceledAt = &at
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return recs, nil
}

// InsertReservation appends an open ledger record.  The INSERT is
// guarded by a NOT EXISTS check over open records for the same seat,
// so the freedom of the seat is re-verified at write time inside the
// same transaction; a concurrent writer that got there first makes
// the guard fail and the loser receives model.ErrSoldOut.
func (t *storeTx) InsertReservation(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations (event_id, sheet_id, user_id, reserved_at)
	           SELECT ?, ?, ?, ?
	           FROM dual
	           WHERE NOT EXISTS (
	               SELECT 1 FROM reservations
	               WHERE event_id = ? AND sheet_id = ? AND canceled_at IS NULL
	           )`
	res, err := t.tx.ExecContext(ctx, q,
		r.EventID, r.SheetID, r.UserID, r.ReservedAt.UTC(),
		r.EventID, r.SheetID,
	)
	if err != nil {
		return storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return model.ErrSoldOut
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storeErr(err)
	}
	r.ID = uint64(id)
	return nil
}

// CancelReservation stamps canceled_at on an open record.  The
// conditional WHERE keeps the write idempotent under races: only one
// of two concurrent cancels observes an affected row.
func (t *storeTx) CancelReservation(ctx context.Context, reservationID uint64, at time.Time) (bool, error) {
	const q = `UPDATE reservations SET canceled_at = ? WHERE id = ? AND canceled_at IS NULL`
	res, err := t.tx.ExecContext(ctx, q, at.UTC(), reservationID)
	if err != nil {
		return false, storeErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, storeErr(err)
	}
	return n > 0, nil
}
