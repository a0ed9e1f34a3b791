package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/account"
)

// ProfileHandler lets either role read and edit its own account profile.
type ProfileHandler struct {
	Profiles *account.ProfileService
}

func NewProfileHandler(p *account.ProfileService) *ProfileHandler {
	return &ProfileHandler{Profiles: p}
}

// Get handles GET /v1/profile.
func (h *ProfileHandler) Get(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	u, err := h.Profiles.Profile(c.Request().Context(), username)
	if err != nil {
		return profileError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /v1/profile.  Omitted fields are left unchanged; the
// password can not be changed here.
func (h *ProfileHandler) Update(c echo.Context) error {
	username, ok := getUsername(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var edit account.ProfileEdit
	if err := c.Bind(&edit); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	u, err := h.Profiles.UpdateProfile(c.Request().Context(), username, edit)
	if err != nil {
		return profileError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func profileError(c echo.Context, err error) error {
	if errors.Is(err, account.ErrUserNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "account not found"})
	}
	c.Logger().Errorf("profile: %v", err)
	return c.JSON(http.StatusBadGateway, echo.Map{"error": "account service unavailable"})
}
