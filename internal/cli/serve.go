package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/account"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/router"
)

func newServeCmd() *cobra.Command {
	var migrateUp, reminders bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder sweeper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.AccountURL == "" {
				return errors.New("config: missing required env var: ACCOUNT_SERVICE_URL")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			if migrateUp && a.db != nil {
				if err := database.Migrate(ctx, a.db); err != nil {
					return err
				}
			}

			rc := config.LoadReminderConfig()
			if reminders && rc.Enabled {
				go func() { _ = a.reminders(rc).Run(ctx) }()
			}

			e := newEcho(a)
			addr := ":" + cfg.Port
			log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, cfg.Store)

			errCh := make(chan error, 1)
			go func() { errCh <- e.Start(addr) }()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return e.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().BoolVar(&reminders, "reminders", true, "run the reminder sweeper in this process")
	return cmd
}

// newEcho wires handlers, middleware and routes.
func newEcho(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	cacheCfg := config.LoadCacheConfig()
	gen := middleware.NewGeneration(a.rdb, cacheCfg.Prefix)
	opts := router.Options{
		JWTSecret:  a.cfg.JWTSecret,
		RateLimit:  middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.rdb),
		Cache:      middleware.NewRedisCache(cacheCfg, a.rdb, gen),
		Invalidate: middleware.InvalidateOnWrite(cacheCfg, gen),
	}

	checks := map[string]handler.Pinger{}
	if a.db != nil {
		checks["mysql"] = handler.PingFunc(a.db.PingContext)
	}
	if a.rdb != nil {
		rdb := a.rdb
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	accounts := account.NewClient(a.cfg.AccountURL, a.cfg.AccountTenant)

	router.RegisterRoutes(e, &handler.HealthHandler{Checks: checks})
	router.RegisterAuth(e, handler.NewAuthHandler(a.cfg, accounts), opts)
	router.RegisterProfile(e, handler.NewProfileHandler(&account.ProfileService{Accounts: accounts}), opts)
	router.RegisterGuest(e, handler.NewGuestHandler(a.manager, a.prefs, a.clock), opts)
	router.RegisterStaff(e, handler.NewStaffHandler(a.manager, a.prefs, a.clock), opts)
	return e
}
