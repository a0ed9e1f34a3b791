package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/restaurant-reservation/internal/account"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

type memAccounts struct{ users map[string]account.User }

func (m *memAccounts) GetUser(_ context.Context, username string) (account.User, error) {
	u, ok := m.users[username]
	if !ok {
		return account.User{}, account.ErrUserNotFound
	}
	return u, nil
}

func (m *memAccounts) CreateUser(_ context.Context, u account.User) error {
	m.users[u.Username] = u
	return nil
}

func newAuth() (*AuthHandler, *memAccounts) {
	accts := &memAccounts{users: map[string]account.User{}}
	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 5, BcryptCost: bcrypt.MinCost, StaffSignupCode: "kitchen"}
	return NewAuthHandler(cfg, accts), accts
}

func post(h echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	_ = h(e.NewContext(req, rec))
	return rec
}

func tokenRole(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp authResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	id, err := utils.ParseAccessToken("test-secret", resp.Access.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return id.Role
}

func TestRegisterGuest(t *testing.T) {
	h, accts := newAuth()
	rec := post(h.Register, `{"username":"alice","password":"pw","email":"A@Example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if role := tokenRole(t, rec); role != "GUEST" {
		t.Fatalf("role = %s", role)
	}
	u := accts.users["alice"]
	if u.Usertype != "guest" || u.Email != "a@example.com" || !utils.IsBcryptHash(u.Password) {
		t.Fatalf("stored = %+v", u)
	}

	if rec := post(h.Register, `{"username":"alice","password":"pw"}`); rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
}

func TestRegisterStaffNeedsCode(t *testing.T) {
	h, accts := newAuth()
	if rec := post(h.Register, `{"username":"chef","password":"pw","role":"staff","staff_code":"wrong"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong code status = %d", rec.Code)
	}
	if _, ok := accts.users["chef"]; ok {
		t.Fatal("account created with a wrong code")
	}
	rec := post(h.Register, `{"username":"chef","password":"pw","role":"staff","staff_code":"kitchen"}`)
	if rec.Code != http.StatusCreated || tokenRole(t, rec) != "STAFF" {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
}

func TestLogin(t *testing.T) {
	h, accts := newAuth()
	hash, _ := utils.HashPassword("pw", bcrypt.MinCost)
	accts.users["alice"] = account.User{Username: "alice", Password: hash, Usertype: "guest"}
	accts.users["chef"] = account.User{Username: "chef", Password: "legacy", Usertype: "staff"}

	tests := []struct {
		name, body string
		status     int
		role       string
	}{
		{"hashed", `{"username":"alice","password":"pw"}`, http.StatusOK, "GUEST"},
		{"legacy plain", `{"username":"chef","password":"legacy"}`, http.StatusOK, "STAFF"},
		{"wrong password", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized, ""},
		{"unknown user", `{"username":"ghost","password":"pw"}`, http.StatusUnauthorized, ""},
		{"missing fields", `{"username":"alice"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h.Login, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			if tt.role != "" {
				if got := tokenRole(t, rec); got != tt.role {
					t.Fatalf("role = %s, want %s", got, tt.role)
				}
			}
		})
	}
}
