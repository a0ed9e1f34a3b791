package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// GuestPreferenceStore reads and replaces a guest's notification flags.
type GuestPreferenceStore interface {
	GuestPreferences(ctx context.Context, guestID string) (model.GuestPreferences, error)
	SaveGuestPreferences(ctx context.Context, guestID string, p model.GuestPreferences) error
}

// GuestHandler serves the GUEST-scoped endpoints.  Every operation acts
// on the caller's own reservations; touching another guest's booking is
// answered with 403.
type GuestHandler struct {
	Reservations *service.Manager
	Prefs        GuestPreferenceStore
	Clock        utils.Clock
}

// NewGuestHandler panics if a dependency is nil.
func NewGuestHandler(m *service.Manager, prefs GuestPreferenceStore, clock utils.Clock) *GuestHandler {
	if m == nil || prefs == nil || clock == nil {
		panic("nil dependency passed to NewGuestHandler")
	}
	return &GuestHandler{Reservations: m, Prefs: prefs, Clock: clock}
}

// CreateReservation handles POST /v1/reservations.  The new booking is
// CONFIRMED immediately; 422 carries the validation reason otherwise.
func (h *GuestHandler) CreateReservation(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r, err := h.Reservations.CreateReservation(c.Request().Context(), username, req.Date, req.Time, req.PartySize, h.Clock.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// ListMine handles GET /v1/my-reservations, newest first.
func (h *GuestHandler) ListMine(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rs, err := h.Reservations.ListForGuest(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newListResp(rs))
}

// GetReservation handles GET /v1/reservations/:id.
func (h *GuestHandler) GetReservation(c echo.Context) error {
	r, err := h.owned(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// EditReservation handles PUT /v1/reservations/:id.  Date, time and party
// size are all required and revalidated.
func (h *GuestHandler) EditReservation(c echo.Context) error {
	cur, err := h.owned(c)
	if err != nil {
		return writeError(c, err)
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	r, err := h.Reservations.EditReservation(c.Request().Context(), cur.ID, req.Date, req.Time, req.PartySize, h.Clock.Now())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// CancelReservation handles DELETE /v1/reservations/:id.  The record is
// kept with status CANCELLED and staff are told about it.
func (h *GuestHandler) CancelReservation(c echo.Context) error {
	cur, err := h.owned(c)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.Reservations.CancelReservation(c.Request().Context(), cur.ID, model.ActorGuest)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// GetPreferences handles GET /v1/guest/preferences.
func (h *GuestHandler) GetPreferences(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := h.Prefs.GuestPreferences(c.Request().Context(), username)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePreferences handles PUT /v1/guest/preferences.  Flags missing
// from the body keep their stored value.
func (h *GuestHandler) UpdatePreferences(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	p, err := h.Prefs.GuestPreferences(ctx, username)
	if err != nil {
		return writeError(c, err)
	}
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Prefs.SaveGuestPreferences(ctx, username, p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// owned loads the reservation named by the path and checks it belongs to
// the caller.
func (h *GuestHandler) owned(c echo.Context) (model.Reservation, error) {
	username, ok := getUsername(c)
	if !ok {
		return model.Reservation{}, repository.ErrForbidden
	}
	id, ok := parseID(c)
	if !ok {
		return model.Reservation{}, service.ErrNotFound
	}
	r, err := h.Reservations.Get(c.Request().Context(), id)
	if err != nil {
		return model.Reservation{}, err
	}
	if r.GuestID != username {
		return model.Reservation{}, repository.ErrForbidden
	}
	return r, nil
}
