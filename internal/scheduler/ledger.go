package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Ledger remembers which reminders have fired.  MarkOnce returns true the
// first time key is marked while the mark is alive.
type Ledger interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisLedger stores marks as Redis keys with SET NX so several server
// instances never send the same reminder twice.
type RedisLedger struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLedger returns a RedisLedger namespacing keys under prefix.
func NewRedisLedger(rdb *redis.Client, prefix string) *RedisLedger {
	if prefix == "" {
		prefix = "reminder"
	}
	return &RedisLedger{rdb: rdb, prefix: prefix}
}

func (l *RedisLedger) MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, l.prefix+":"+key, 1, ttl).Result()
}

// MemoryLedger keeps marks in process memory.  It is used when Redis is
// unavailable and in tests.
type MemoryLedger struct {
	mu    sync.Mutex
	marks map[string]time.Time
	now   func() time.Time
}

// NewMemoryLedger returns an empty MemoryLedger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{marks: make(map[string]time.Time), now: time.Now}
}

func (l *MemoryLedger) MarkOnce(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if exp, ok := l.marks[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.marks[key] = now.Add(ttl)
	// drop expired marks so the map does not grow forever
	for k, exp := range l.marks {
		if !now.Before(exp) {
			delete(l.marks, k)
		}
	}
	return true, nil
}
