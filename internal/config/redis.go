package config

// Redis backs three things: the response cache, the rate limiter and the
// reminder ledger.  All of them degrade gracefully when the server is not
// reachable at startup, so NewRedisClient returns nil instead of an error.

import (
	"context"
	"crypto/tls"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from the environment.
//   REDIS_ADDR            host:port (default localhost:6379)
//   REDIS_HOST/REDIS_PORT override REDIS_ADDR when both are set
//   REDIS_PASSWORD        optional password
//   REDIS_DB              database number
//   REDIS_TLS             "true" or "1" enables TLS
func RedisOptions() *redis.Options {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
		addr = host + ":" + port
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if t := os.Getenv("REDIS_TLS"); strings.EqualFold(t, "true") || t == "1" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// NewRedisClient connects and pings with a short timeout.  It returns nil
// when the server cannot be reached.
func NewRedisClient() *redis.Client {
	client := redis.NewClient(RedisOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
