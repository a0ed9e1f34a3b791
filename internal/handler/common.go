package handler // handler defines the HTTP handlers of the reservation API

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// reservationReq is the body of create and edit requests.
type reservationReq struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	Time      string `json:"time"`       // HH:MM
	PartySize int    `json:"party_size"` // 1..20
}

// listResp wraps a reservation list.  Items is never null.
type listResp struct {
	Items []model.Reservation `json:"items"`
	Total int                 `json:"total"`
}

func newListResp(rs []model.Reservation) listResp {
	if rs == nil {
		rs = []model.Reservation{}
	}
	return listResp{Items: rs, Total: len(rs)}
}

// getUsername returns the authenticated caller.  JWTAuth must have run.
func getUsername(c echo.Context) (string, bool) {
	u, _, ok := middleware.Identity(c)
	return u, ok
}

// parseID reads the positive integer path parameter "id".
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// writeError maps lifecycle errors onto HTTP statuses.  Persistence
// failures are logged and hidden from the client.
func writeError(c echo.Context, err error) error {
	if reason, ok := service.ReasonOf(err); ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error(), "reason": reason})
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	case errors.Is(err, service.ErrInvalidState):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
