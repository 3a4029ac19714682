package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticket-reservation/internal/queue"
	"github.com/iliyamo/event-ticket-reservation/internal/service"
)

// ReservationHandler serves seat reservation and cancellation.  Both
// operations go through the engine; the handler only translates wire
// parameters and publishes the audit event after the mutation commits.
type ReservationHandler struct {
	Svc *service.Reservations
}

func NewReservationHandler(svc *service.Reservations) *ReservationHandler {
	return &ReservationHandler{Svc: svc}
}

type reserveReq struct {
	Rank string `json:"rank"`
}

// Reserve grants the lowest-numbered free seat of the requested rank.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Rank) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rank required"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	seat, err := h.Svc.Reserve(ctx, eventID, strings.TrimSpace(req.Rank), userID)
	if err != nil {
		return writeDomainError(c, err)
	}

	h.publish(ctx, queue.ReservedQueue, eventID, userID, seat.ReservationID, seat.SheetID, seat.Rank, seat.Num, seat.Price)
	return c.JSON(http.StatusCreated, seat)
}

// Cancel releases the seat identified by rank and number.  Users may
// only cancel their own reservation; administrators may cancel any.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	eventID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	rank := c.Param("rank")
	num64, err := strconv.ParseUint(c.Param("num"), 10, 32)
	if err != nil || rank == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat"})
	}
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	seat, err := h.Svc.Seat(ctx, eventID, rank, uint32(num64))
	if err != nil {
		return writeDomainError(c, err)
	}
	if err := h.Svc.Cancel(ctx, eventID, seat.ID, userID, isAdmin(c)); err != nil {
		return writeDomainError(c, err)
	}

	h.publish(ctx, queue.CanceledQueue, eventID, userID, 0, seat.ID, seat.Rank, seat.Num, seat.Price)
	return c.NoContent(http.StatusNoContent)
}

// MyReservations returns the caller's ledger history, newest first.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	list, err := h.Svc.UserReservations(ctx, userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// publish sends the audit event in the background.  Broker failures
// are logged inside the queue package and never fail the request.
func (h *ReservationHandler) publish(ctx context.Context, queueName string, eventID, userID, reservationID, sheetID uint64, rank string, num uint32, price int64) {
	title := ""
	if ev, err := h.Svc.Event(ctx, eventID); err == nil {
		title = ev.Title
	}
	msg := queue.ReservationEvent{
		ReservationID: reservationID,
		EventID:       eventID,
		EventTitle:    title,
		SheetID:       sheetID,
		Rank:          rank,
		Num:           num,
		Price:         price,
		UserID:        userID,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.Publish(pubCtx, queueName, msg)
	}()
}
