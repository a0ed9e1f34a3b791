package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

func serve(mw []echo.MiddlewareFunc, authz string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/x", func(c echo.Context) error {
		u, role, _ := Identity(c)
		return c.String(http.StatusOK, u+"/"+role)
	}, mw...)
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authz != "" {
		req.Header.Set(echo.HeaderAuthorization, authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAndRole(t *testing.T) {
	guest, _ := utils.NewAccessToken("k", "alice", "GUEST", 5)
	staff, _ := utils.NewAccessToken("k", "chef", "STAFF", 5)
	forged, _ := utils.NewAccessToken("other", "chef", "STAFF", 5)
	staffOnly := []echo.MiddlewareFunc{JWTAuth("k"), RequireRole("STAFF")}

	tests := []struct {
		name   string
		authz  string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"forged", "Bearer " + forged.Token, http.StatusUnauthorized, ""},
		{"wrong role", "Bearer " + guest.Token, http.StatusForbidden, ""},
		{"staff", "Bearer " + staff.Token, http.StatusOK, "chef/STAFF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(staffOnly, tt.authz)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Fatalf("body = %q", rec.Body)
			}
		})
	}
}

func TestDisabledWithoutRedis(t *testing.T) {
	mw := []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil, nil),
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil),
	}
	for i := 0; i < 3; i++ {
		if rec := serve(mw, ""); rec.Code != http.StatusOK || rec.Header().Get("X-Cache") != "" {
			t.Fatalf("request %d: status %d, X-Cache %q", i, rec.Code, rec.Header().Get("X-Cache"))
		}
	}
}

func TestPayloadCodec(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, h, []byte(`{"items":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	status, hdr, body, ok := decodePayload(bs)
	if !ok || status != http.StatusOK || hdr.Get("Content-Type") != "application/json" || string(body) != `{"items":[]}` {
		t.Fatalf("decoded %d %v %q %v", status, hdr, body, ok)
	}
	if _, _, _, ok := decodePayload(bs[:6]); ok {
		t.Fatal("truncated payload decoded")
	}
}

func TestParseBucketResult(t *testing.T) {
	res, err := parseBucketResult([]any{int64(0), int64(0), int64(1500)})
	if err != nil || res.allowed || res.retry.Milliseconds() != 1500 {
		t.Fatalf("res = %+v, %v", res, err)
	}
	if _, err := parseBucketResult("nope"); err == nil {
		t.Fatal("bad result accepted")
	}
}

func TestRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my-reservations", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/my-reservations")
	c.Set("user_id", "alice")
	c.Set("role", "GUEST")

	for strategy, want := range map[string]string{
		"ip":            "rl:ip:10.0.0.1",
		"user":          "rl:user:alice",
		"user_route":    "rl:user:alice:route:GET /v1/my-reservations",
		"ip_user_route": "rl:ip:10.0.0.1:user:alice:route:GET /v1/my-reservations",
	} {
		if got := buildRateKey(config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}, c); got != want {
			t.Errorf("%s: key = %q, want %q", strategy, got, want)
		}
	}
}
