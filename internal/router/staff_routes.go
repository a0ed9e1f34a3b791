package router

// Staff routes see every guest's reservations.  They are kept apart from
// the guest routes so the role check is applied to the whole group.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// RegisterStaff registers STAFF-scoped endpoints under /v1/staff.
func RegisterStaff(e *echo.Echo, h *handler.StaffHandler, o Options) {
	g := e.Group("/v1/staff", o.protected(model.RoleStaff)...)

	// ?bucket=all|today|upcoming&q=<guest substring>
	g.GET("/reservations", h.ListReservations, o.cached()...)
	g.DELETE("/reservations/:id", h.CancelReservation)
	// permanent; body must be {"confirm": true}
	g.POST("/reservations/cleanup", h.Cleanup)

	g.GET("/preferences", h.GetPreferences)
	g.PUT("/preferences", h.UpdatePreferences)
}
