package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDB()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
			if err != nil {
				return err
			}
			defer db.Close()
			return database.Migrate(cmd.Context(), db)
		},
	}
}

func newConsumeCmd() *cobra.Command {
	var logDir string

	cmd := &cobra.Command{
		Use:   "consume",
		Short: "Drain the notifications queue into a log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			c := queue.NewConsumer("", logDir)
			log.Printf("consumer: writing to %s", c.LogDir)
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logDir, "log-dir", "logs", "directory for notifications.log")
	return cmd
}

func newCleanupCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Permanently delete every cancelled reservation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("cleanup deletes cancelled reservations permanently; rerun with --yes")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			gen := middleware.NewGeneration(a.rdb, config.LoadCacheConfig().Prefix)
			n, err := cleanupCancelled(cmd.Context(), a.manager, gen)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d cancelled reservation(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the permanent deletion")
	return cmd
}

// cacheInvalidator is satisfied by *middleware.Generation.
type cacheInvalidator interface {
	Bump(ctx context.Context) error
}

// cleanupCancelled deletes cancelled reservations and, when any row went
// away, invalidates cached list responses served by the API.
func cleanupCancelled(ctx context.Context, m *service.Manager, cache cacheInvalidator) (int, error) {
	n, err := m.CleanupCancelled(ctx)
	if n > 0 {
		if berr := cache.Bump(ctx); berr != nil {
			log.Printf("cleanup: bump cache generation: %v", berr)
		}
	}
	return n, err
}

func newRemindCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the reminder sweeper without the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			a, err := newApp(cfg, true)
			if err != nil {
				return err
			}
			defer a.Close()

			r := a.reminders(config.LoadReminderConfig())
			if once {
				n, err := r.Sweep(ctx, a.clock.Now())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "fired %d reminder(s)\n", n)
				return nil
			}
			if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "sweep a single time and exit")
	return cmd
}

func newResetPrefsCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset-preferences",
		Short: "Delete all stored notification preferences",
		Long:  "Delete every guest and staff preference bundle. The next read recreates them with every flag enabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("reset-preferences discards every stored preference; rerun with --yes")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.prefs.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "preferences reset to defaults")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
