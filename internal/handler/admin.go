package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/repository"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// AdminHandler serves the administrative event surface: creating
// events with their seat layout, toggling visibility flags and
// inspecting events regardless of their public flag.
type AdminHandler struct {
	Events *repository.EventRepo
	Svc    *service.Reservations
}

func NewAdminHandler(events *repository.EventRepo, svc *service.Reservations) *AdminHandler {
	return &AdminHandler{Events: events, Svc: svc}
}

type createEventReq struct {
	Title  string               `json:"title"`
	Price  int64                `json:"price"`
	Public bool                 `json:"public"`
	Ranks  []repository.RankDef `json:"ranks"`
}

type setFlagsReq struct {
	Public bool `json:"public"`
	Closed bool `json:"closed"`
}

// CreateEvent registers a new event with its immutable seat layout.
func (h *AdminHandler) CreateEvent(c echo.Context) error {
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Ranks) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and ranks required"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	seen := make(map[string]struct{}, len(req.Ranks))
	for _, rd := range req.Ranks {
		if rd.Rank == "" || rd.Total == 0 || rd.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "each rank needs a label, a positive total and a non-negative price"})
		}
		if _, dup := seen[rd.Rank]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate rank " + rd.Rank})
		}
		seen[rd.Rank] = struct{}{}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Events.Create(ctx, req.Title, req.Price, req.Public, req.Ranks)
	if err != nil {
		return writeDomainError(c, err)
	}
	view, err := h.Svc.EventView(ctx, id, nil, true, true)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// SetFlags updates the public and closed flags of an event and
// returns the refreshed admin view.
func (h *AdminHandler) SetFlags(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req setFlagsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Events.SetFlags(ctx, eventID, req.Public, req.Closed); err != nil {
		return writeDomainError(c, err)
	}
	view, err := h.Svc.EventView(ctx, eventID, nil, true, true)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// ListEvents returns every event, public or not, without seat details.
func (h *AdminHandler) ListEvents(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	views, err := h.Svc.ListEventViews(ctx, true, nil)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetEvent returns one event with full seat details regardless of its
// public flag.
func (h *AdminHandler) GetEvent(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Svc.EventView(ctx, eventID, nil, true, true)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}
