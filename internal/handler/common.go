package handler // handler defines the HTTP handlers of the API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/model"
)

// getUserID extracts the user_id stored by the JWT middleware and
// converts it to uint64.  JWT claims decode numbers as float64, so
// several representations are accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// viewerID returns the authenticated user ID as an optional value for
// the view projector: nil when the request carries no identity.
func viewerID(c echo.Context) *uint64 {
	if id, err := getUserID(c); err == nil {
		return &id
	}
	return nil
}

// isAdmin reports whether the request carries the ADMIN role claim.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

// writeDomainError maps a sentinel from the reservation core to its
// HTTP representation.  Unknown errors become 500; transient store
// failures become 503 so clients know the call is safe to retry.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, model.ErrUnknownRank):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid rank"})
	case errors.Is(err, model.ErrEventClosed):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event is closed"})
	case errors.Is(err, model.ErrSoldOut):
		return c.JSON(http.StatusConflict, echo.Map{"error": "sold out"})
	case errors.Is(err, model.ErrNotReserved):
		return c.JSON(http.StatusConflict, echo.Map{"error": "not reserved"})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, model.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// parseID parses a numeric path parameter, rejecting zero.
func parseID(c echo.Context, name string) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
