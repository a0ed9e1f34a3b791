package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/account"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// AccountStore is the part of the account service used for sign-up and
// sign-in.
type AccountStore interface {
	GetUser(ctx context.Context, username string) (account.User, error)
	CreateUser(ctx context.Context, u account.User) error
}

// AuthHandler issues access tokens for accounts held by the remote
// account service.
type AuthHandler struct {
	Cfg      config.Config
	Accounts AccountStore
}

func NewAuthHandler(cfg config.Config, accounts AccountStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Accounts: accounts}
}

// ----- DTOs -----

type registerReq struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Role      string `json:"role"`       // GUEST | STAFF
	StaffCode string `json:"staff_code"` // required for STAFF
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Register: create the account and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role != model.RoleStaff {
		role = model.RoleGuest
	}
	if role == model.RoleStaff && !h.staffCodeOK(req.StaffCode) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid staff code"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Accounts.GetUser(ctx, req.Username)
	switch {
	case err == nil:
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
	case !errors.Is(err, account.ErrUserNotFound):
		c.Logger().Errorf("register %s: %v", req.Username, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "account service unavailable"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u := account.User{
		Username:  req.Username,
		Password:  hash,
		Firstname: strings.TrimSpace(req.Firstname),
		Lastname:  strings.TrimSpace(req.Lastname),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Contact:   strings.TrimSpace(req.Contact),
		Usertype:  strings.ToLower(role),
	}
	if err := h.Accounts.CreateUser(ctx, u); err != nil {
		c.Logger().Errorf("register %s: %v", req.Username, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "create account failed"})
	}
	return h.issue(c, http.StatusCreated, u.Username, role)
}

// Login: verify the password held by the account service and return a
// token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Accounts.GetUser(ctx, req.Username)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login %s: %v", req.Username, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "account service unavailable"})
	}
	if !utils.VerifyPassword(u.Password, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	role := model.RoleGuest
	if strings.EqualFold(u.Usertype, model.RoleStaff) {
		role = model.RoleStaff
	}
	return h.issue(c, http.StatusOK, u.Username, role)
}

func (h *AuthHandler) issue(c echo.Context, status int, username, role string) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, username, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(status, authResp{
		User:   userPart{Username: username, Role: role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// staffCodeOK is false whenever no code is configured.
func (h *AuthHandler) staffCodeOK(code string) bool {
	want := h.Cfg.StaffSignupCode
	return want != "" && subtle.ConstantTimeCompare([]byte(code), []byte(want)) == 1
}
