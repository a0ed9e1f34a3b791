package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// RegisterGuest registers GUEST-scoped endpoints under /v1.  Ownership of
// individual reservations is checked inside the handler.
func RegisterGuest(e *echo.Echo, h *handler.GuestHandler, o Options) {
	g := e.Group("/v1", o.protected(model.RoleGuest)...)

	g.POST("/reservations", h.CreateReservation)
	g.GET("/my-reservations", h.ListMine, o.cached()...)
	g.GET("/reservations/:id", h.GetReservation)
	g.PUT("/reservations/:id", h.EditReservation)
	g.DELETE("/reservations/:id", h.CancelReservation)

	g.GET("/guest/preferences", h.GetPreferences)
	g.PUT("/guest/preferences", h.UpdatePreferences)
}
