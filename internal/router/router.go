package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/model"
)

// Options carries the middleware shared by the route groups.  Nil
// middleware are skipped, so tests can register routes with only a
// secret.
type Options struct {
	JWTSecret  string
	RateLimit  echo.MiddlewareFunc // token bucket, keyed by caller once JWTAuth ran
	Cache      echo.MiddlewareFunc // response cache for list endpoints
	Invalidate echo.MiddlewareFunc // bumps the cache generation after writes
}

// protected returns the chain for a group limited to roles: authenticate,
// authorize, rate-limit, then invalidate cached lists on writes.
func (o Options) protected(roles ...string) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{
		middleware.JWTAuth(o.JWTSecret),
		middleware.RequireRole(roles...),
	}
	return append(chain, nonNil(o.RateLimit, o.Invalidate)...)
}

// cached is the per-route middleware for list endpoints.
func (o Options) cached() []echo.MiddlewareFunc {
	return nonNil(o.Cache)
}

func nonNil(ms ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/healthz", h.Health)
}

// RegisterAuth registers sign-up and sign-in under /v1/auth.  They are
// rate limited by IP since no caller is known yet.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, o Options) {
	g := e.Group("/v1/auth", nonNil(o.RateLimit)...)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterProfile registers GET and PUT /v1/profile for both roles.
func RegisterProfile(e *echo.Echo, p *handler.ProfileHandler, o Options) {
	g := e.Group("/v1/profile", o.protected(model.RoleGuest, model.RoleStaff)...)
	g.GET("", p.Get)
	g.PUT("", p.Update)
}
