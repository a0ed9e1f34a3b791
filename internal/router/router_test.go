package router

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

const secret = "router-test"

type outbox struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (o *outbox) Deliver(_ context.Context, m notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msgs = append(o.msgs, m)
	return nil
}

func (o *outbox) events() []notify.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []notify.Event
	for _, m := range o.msgs {
		out = append(out, m.Event)
	}
	return out
}

type testAPI struct {
	e     *echo.Echo
	out   *outbox
	prefs *repository.MemoryPreferenceRepo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := repository.NewMemoryReservationRepo()
	prefs := repository.NewMemoryPreferenceRepo()
	out := &outbox{}
	m := service.NewManager(store, notify.NewDispatcher(prefs, out, time.Second))
	clock := utils.FixedClock{T: time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)}

	e := echo.New()
	o := Options{JWTSecret: secret}
	RegisterRoutes(e, &handler.HealthHandler{})
	RegisterGuest(e, handler.NewGuestHandler(m, prefs, clock), o)
	RegisterStaff(e, handler.NewStaffHandler(m, prefs, clock), o)
	return &testAPI{e: e, out: out, prefs: prefs}
}

func bearer(t *testing.T, user, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, user, role, 5)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + tok.Token
}

func (a *testAPI) do(method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
	return v
}

type list struct {
	Items []model.Reservation `json:"items"`
	Total int                 `json:"total"`
}

func TestGuestFlow(t *testing.T) {
	api := newTestAPI(t)
	alice := bearer(t, "alice", model.RoleGuest)
	bob := bearer(t, "bob", model.RoleGuest)

	rec := api.do(http.MethodPost, "/v1/reservations", alice, `{"date":"2026-10-20","time":"19:00","party_size":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	r := decode[model.Reservation](t, rec)
	if r.GuestID != "alice" || r.Status != model.StatusConfirmed {
		t.Fatalf("created %+v", r)
	}
	path := fmt.Sprintf("/v1/reservations/%d", r.ID)

	rec = api.do(http.MethodPost, "/v1/reservations", alice, `{"date":"2026-10-17","time":"14:30","party_size":2}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("short notice: %d", rec.Code)
	}
	if got := decode[map[string]string](t, rec)["reason"]; got != string(service.InsufficientLeadTime) {
		t.Fatalf("reason = %q", got)
	}

	if rec := api.do(http.MethodGet, path, bob, ""); rec.Code != http.StatusForbidden {
		t.Fatalf("bob reads alice's booking: %d", rec.Code)
	}
	if rec := api.do(http.MethodPut, path, bob, `{"date":"2026-10-20","time":"20:00","party_size":2}`); rec.Code != http.StatusForbidden {
		t.Fatalf("bob edits alice's booking: %d", rec.Code)
	}
	if l := decode[list](t, api.do(http.MethodGet, "/v1/my-reservations", bob, "")); l.Total != 0 || l.Items == nil {
		t.Fatalf("bob's list = %+v", l)
	}

	rec = api.do(http.MethodPut, path, alice, `{"date":"2026-10-20","time":"20:00","party_size":2}`)
	if rec.Code != http.StatusOK || decode[model.Reservation](t, rec).Time != "20:00" {
		t.Fatalf("edit: %d %s", rec.Code, rec.Body)
	}

	if rec := api.do(http.MethodDelete, path, alice, ""); rec.Code != http.StatusOK {
		t.Fatalf("cancel: %d", rec.Code)
	}
	if rec := api.do(http.MethodPut, path, alice, `{"date":"2026-10-21","time":"20:00","party_size":2}`); rec.Code != http.StatusConflict {
		t.Fatalf("edit cancelled: %d", rec.Code)
	}
	if rec := api.do(http.MethodGet, "/v1/reservations/999", alice, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: %d", rec.Code)
	}

	want := []notify.Event{notify.StaffNewReservation, notify.StaffReservationChanged, notify.StaffReservationCancelled}
	if got := api.out.events(); fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestStaffFlow(t *testing.T) {
	api := newTestAPI(t)
	staff := bearer(t, "chef", model.RoleStaff)
	for _, b := range []struct{ user, date string }{
		{"alice", "2026-10-17"}, {"bob", "2026-10-17"}, {"malice", "2026-10-25"},
	} {
		body := fmt.Sprintf(`{"date":%q,"time":"20:00","party_size":2}`, b.date)
		if rec := api.do(http.MethodPost, "/v1/reservations", bearer(t, b.user, model.RoleGuest), body); rec.Code != http.StatusCreated {
			t.Fatalf("seed %s: %d %s", b.user, rec.Code, rec.Body)
		}
	}

	if rec := api.do(http.MethodGet, "/v1/staff/reservations", bearer(t, "alice", model.RoleGuest), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("guest on staff route: %d", rec.Code)
	}
	if rec := api.do(http.MethodGet, "/v1/staff/reservations", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", rec.Code)
	}
	if rec := api.do(http.MethodGet, "/v1/staff/reservations?bucket=past", staff, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad bucket: %d", rec.Code)
	}

	views := map[string]int{
		"":                      3,
		"?bucket=today":         2,
		"?bucket=upcoming":      1,
		"?bucket=today&q=ALICE": 1,
		"?q=alice":              2,
	}
	for query, want := range views {
		if l := decode[list](t, api.do(http.MethodGet, "/v1/staff/reservations"+query, staff, "")); l.Total != want {
			t.Errorf("%q: total = %d, want %d", query, l.Total, want)
		}
	}

	// turn off guest cancellation alerts for bob only
	bob := bearer(t, "bob", model.RoleGuest)
	if rec := api.do(http.MethodPut, "/v1/guest/preferences", bob, `{"cancellation_alerts":false}`); rec.Code != http.StatusOK {
		t.Fatalf("prefs: %d", rec.Code)
	}
	p := decode[model.GuestPreferences](t, api.do(http.MethodGet, "/v1/guest/preferences", bob, ""))
	if p.CancellationAlerts || !p.DayBeforeReminders {
		t.Fatalf("bob's prefs = %+v", p)
	}

	all := decode[list](t, api.do(http.MethodGet, "/v1/staff/reservations", staff, "")).Items
	api.out.msgs = nil
	for _, r := range all {
		if r.GuestID == "malice" {
			continue
		}
		if rec := api.do(http.MethodDelete, fmt.Sprintf("/v1/staff/reservations/%d", r.ID), staff, ""); rec.Code != http.StatusOK {
			t.Fatalf("staff cancel %d: %d", r.ID, rec.Code)
		}
	}
	msgs := api.out.msgs
	if len(msgs) != 1 || msgs[0].Recipient != "alice" || msgs[0].Event != notify.GuestCancelledByStaff {
		t.Fatalf("messages = %+v", msgs)
	}

	if rec := api.do(http.MethodPost, "/v1/staff/reservations/cleanup", staff, `{}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed cleanup: %d", rec.Code)
	}
	rec := api.do(http.MethodPost, "/v1/staff/reservations/cleanup", staff, `{"confirm":true}`)
	if rec.Code != http.StatusOK || decode[map[string]int](t, rec)["deleted"] != 2 {
		t.Fatalf("cleanup: %d %s", rec.Code, rec.Body)
	}
	if l := decode[list](t, api.do(http.MethodGet, "/v1/staff/reservations", staff, "")); l.Total != 1 {
		t.Fatalf("after cleanup total = %d", l.Total)
	}
}

func TestStaffPreferences(t *testing.T) {
	api := newTestAPI(t)
	staff := bearer(t, "chef", model.RoleStaff)
	if rec := api.do(http.MethodPut, "/v1/staff/preferences", staff, `{"new_reservation_alerts":false}`); rec.Code != http.StatusOK {
		t.Fatalf("put: %d", rec.Code)
	}
	api.do(http.MethodPost, "/v1/reservations", bearer(t, "alice", model.RoleGuest), `{"date":"2026-10-20","time":"19:00","party_size":2}`)
	if got := api.out.events(); len(got) != 0 {
		t.Fatalf("staff notified with alerts off: %v", got)
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	if rec := api.do(http.MethodGet, "/healthz", "", ""); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rec.Code, rec.Body)
	}
}
