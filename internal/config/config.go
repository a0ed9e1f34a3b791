package config // package config loads application configuration from environment variables

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // RESTAURANT_TZ must resolve in minimal containers

	"github.com/joho/godotenv" // godotenv loads a local .env file into the environment
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env             string         // application environment (e.g. "dev", "prod")
	Port            string         // HTTP port to listen on
	Store           string         // reservation store backend: "mysql" or "memory"
	DBUser          string         // database username
	DBPass          string         // database password (optional)
	DBHost          string         // database host address
	DBPort          string         // database port number
	DBName          string         // database name
	JWTSecret       string         // secret used to sign JWTs
	AccessTTLMin    int            // access token time-to-live in minutes
	BcryptCost      int            // bcrypt cost for password hashing
	Location        *time.Location // restaurant timezone (RESTAURANT_TZ)
	AccountURL      string         // base URL of the remote account service
	AccountTenant   string         // tenant path segment for the account service
	StaffSignupCode string         // code required to register a staff account
	Delivery        string         // notification channel: "amqp" or "log"
	AMQPURL         string         // RabbitMQ URL (RABBITMQ_URL / AMQP_URL)
}

// Load reads a .env file when present, then builds a Config from the
// environment.  Missing required variables are reported together.
func Load() (Config, error) {
	_ = godotenv.Load() // a missing .env file is fine; real env vars win

	e := &env{}
	cfg := Config{
		Env:             e.str("APP_ENV", "dev"),
		Port:            e.str("APP_PORT", "8080"),
		Store:           strings.ToLower(e.str("STORE_BACKEND", "mysql")),
		DBPass:          os.Getenv("DB_PASS"),
		JWTSecret:       e.must("JWT_SECRET"),
		AccessTTLMin:    e.integer("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:      e.integer("BCRYPT_COST", 10),
		AccountURL:      os.Getenv("ACCOUNT_SERVICE_URL"),
		AccountTenant:   os.Getenv("ACCOUNT_SERVICE_TENANT"),
		StaffSignupCode: os.Getenv("STAFF_SIGNUP_CODE"),
		Delivery:        strings.ToLower(e.str("NOTIFY_DELIVERY", "amqp")),
		AMQPURL:         os.Getenv("RABBITMQ_URL"),
	}
	if cfg.AMQPURL == "" {
		cfg.AMQPURL = os.Getenv("AMQP_URL")
	}
	if cfg.Store == "mysql" {
		cfg.DBUser = e.must("DB_USER")
		cfg.DBHost = e.must("DB_HOST")
		cfg.DBPort = e.str("DB_PORT", "3306")
		cfg.DBName = e.must("DB_NAME")
	}

	loc, err := loadLocation(os.Getenv("RESTAURANT_TZ"))
	if err != nil {
		e.errs = append(e.errs, err.Error())
	}
	cfg.Location = loc

	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(e.errs, "; "))
	}
	return cfg, nil
}

// LoadDB reads only the database settings; used by commands that do not
// serve HTTP.
func LoadDB() (Config, error) {
	_ = godotenv.Load()
	e := &env{}
	cfg := Config{
		DBUser: e.must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"),
		DBHost: e.must("DB_HOST"),
		DBPort: e.str("DB_PORT", "3306"),
		DBName: e.must("DB_NAME"),
	}
	if len(e.errs) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(e.errs, "; "))
	}
	return cfg, nil
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local, fmt.Errorf("invalid RESTAURANT_TZ %q", name)
	}
	return loc, nil
}

// env accumulates problems while reading variables so that every missing
// key is reported at once.
type env struct{ errs []string }

// must retrieves the value of a required environment variable.
func (e *env) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		e.errs = append(e.errs, "missing required env var: "+key)
	}
	return v
}

func (e *env) str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// integer is like str but converts the value into an int.
func (e *env) integer(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		e.errs = append(e.errs, fmt.Sprintf("invalid int for %s: %q", key, s))
		return def
	}
	return n
}
