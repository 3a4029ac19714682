package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// EventHandler serves the public event views.  Both endpoints accept
// an optional bearer token; when present the viewer's own seats are
// flagged mine in the per-seat details.
type EventHandler struct {
	Svc *service.Reservations
}

func NewEventHandler(svc *service.Reservations) *EventHandler {
	return &EventHandler{Svc: svc}
}

// List returns all public events with per-rank availability,
// sanitized for non-privileged callers.  Seat details are omitted on
// the list to keep the payload bounded.
func (h *EventHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	views, err := h.Svc.ListEventViews(ctx, false, viewerID(c))
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]*service.EventView, 0, len(views))
	for _, v := range views {
		out = append(out, service.Sanitize(v))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single public event with full seat details.
func (h *EventHandler) Get(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Svc.EventView(ctx, eventID, viewerID(c), true, false)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, service.Sanitize(view))
}
