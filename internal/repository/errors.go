// Package repository implements persistence over MySQL: the
// transactional store the reservation engine runs on, plus the
// identity and event-administration repositories.  Domain failures are
// reported with the sentinel errors from internal/model; anything the
// database driver throws at us is classified as a transient store
// failure so callers can decide whether to retry.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// ErrLoginNameExists is returned when registering a user whose login
// name is already taken. Handlers should translate this into an HTTP
// 409 response.
var ErrLoginNameExists = errors.New("login name already exists")

// storeErr wraps an unexpected database error as a transient store
// failure. Domain sentinels pass through untouched so errors.Is
// dispatch in callers keeps working.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrEventClosed),
		errors.Is(err, model.ErrUnknownRank),
		errors.Is(err, model.ErrSoldOut),
		errors.Is(err, model.ErrNotReserved),
		errors.Is(err, model.ErrForbidden),
		errors.Is(err, model.ErrStoreUnavailable):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}
