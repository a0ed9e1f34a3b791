package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// StaffPreferenceStore reads and replaces the staff-wide notification
// flags.
type StaffPreferenceStore interface {
	StaffPreferences(ctx context.Context) (model.StaffPreferences, error)
	SaveStaffPreferences(ctx context.Context, p model.StaffPreferences) error
}

// StaffHandler serves the STAFF-scoped endpoints.
type StaffHandler struct {
	Reservations *service.Manager
	Prefs        StaffPreferenceStore
	Clock        utils.Clock
}

// NewStaffHandler panics if a dependency is nil.
func NewStaffHandler(m *service.Manager, prefs StaffPreferenceStore, clock utils.Clock) *StaffHandler {
	if m == nil || prefs == nil || clock == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{Reservations: m, Prefs: prefs, Clock: clock}
}

// ListReservations handles GET /v1/staff/reservations.  Query parameters:
//   bucket  all | today | upcoming (default all)
//   q       case-insensitive substring of the guest username
func (h *StaffHandler) ListReservations(c echo.Context) error {
	bucket, err := service.ParseBucket(c.QueryParam("bucket"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	all, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	view := service.View{
		Bucket: bucket,
		Query:  c.QueryParam("q"),
		Today:  utils.DateString(h.Clock.Now()),
	}
	return c.JSON(http.StatusOK, newListResp(service.ApplyView(all, view)))
}

// CancelReservation handles DELETE /v1/staff/reservations/:id.  The guest
// is notified if they opted in.
func (h *StaffHandler) CancelReservation(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	r, err := h.Reservations.CancelReservation(c.Request().Context(), id, model.ActorStaff)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Cleanup handles POST /v1/staff/reservations/cleanup.  Deletion is
// permanent, so the body must carry {"confirm": true}.
func (h *StaffHandler) Cleanup(c echo.Context) error {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !body.Confirm {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cleanup must be confirmed"})
	}
	n, err := h.Reservations.CleanupCancelled(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"deleted": n})
}

// GetPreferences handles GET /v1/staff/preferences.
func (h *StaffHandler) GetPreferences(c echo.Context) error {
	p, err := h.Prefs.StaffPreferences(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// UpdatePreferences handles PUT /v1/staff/preferences.
func (h *StaffHandler) UpdatePreferences(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.Prefs.StaffPreferences(ctx)
	if err != nil {
		return writeError(c, err)
	}
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Prefs.SaveStaffPreferences(ctx, p); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
