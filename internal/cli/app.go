package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/notify"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/scheduler"
	"github.com/iliyamo/restaurant-reservation/internal/service"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

// preferenceStore is implemented by both preference repositories.
type preferenceStore interface {
	notify.PreferenceSource
	SaveGuestPreferences(ctx context.Context, guestID string, p model.GuestPreferences) error
	SaveStaffPreferences(ctx context.Context, p model.StaffPreferences) error
	Reset(ctx context.Context) error
}

// app is the object graph shared by serve, cleanup and remind.
type app struct {
	cfg          config.Config
	db           *sql.DB       // nil for the memory backend
	rdb          *redis.Client // nil when Redis is unreachable
	clock        utils.Clock
	reservations service.ReservationStore
	prefs        preferenceStore
	dispatcher   *notify.Dispatcher
	manager      *service.Manager
}

// newApp opens the configured backends.  Redis is optional; MySQL is not
// when STORE_BACKEND=mysql.
func newApp(cfg config.Config, withRedis bool) (*app, error) {
	a := &app{cfg: cfg, clock: utils.SystemClock{Location: cfg.Location}}

	switch cfg.Store {
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.db = db
		a.reservations = repository.NewReservationRepo(db)
		a.prefs = repository.NewPreferenceRepo(db)
	case "memory":
		log.Printf("store: using in-memory backend; data is lost on exit")
		a.reservations = repository.NewMemoryReservationRepo()
		a.prefs = repository.NewMemoryPreferenceRepo()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store)
	}

	if withRedis {
		a.rdb = config.NewRedisClient()
		if a.rdb == nil {
			log.Printf("redis: unreachable, cache and rate limit disabled, reminder ledger in memory")
		}
	}

	a.dispatcher = notify.NewDispatcher(a.prefs, newDelivery(cfg), notify.DefaultDeliveryTimeout)
	a.manager = service.NewManager(a.reservations, a.dispatcher)
	return a, nil
}

// newDelivery picks the notification channel.
func newDelivery(cfg config.Config) notify.Delivery {
	if cfg.Delivery == "log" {
		return notify.LogDelivery{}
	}
	return queue.NewPublisher(cfg.AMQPURL)
}

// reminders builds the sweeper.  The ledger lives in Redis when available
// so several instances share it.
func (a *app) reminders(rc config.ReminderConfig) *scheduler.Reminders {
	var ledger scheduler.Ledger = scheduler.NewMemoryLedger()
	if a.rdb != nil {
		ledger = scheduler.NewRedisLedger(a.rdb, rc.Prefix)
	}
	return &scheduler.Reminders{
		Reservations: a.reservations,
		Notifier:     a.dispatcher,
		Ledger:       ledger,
		Clock:        a.clock,
		Interval:     rc.Interval,
	}
}

func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
