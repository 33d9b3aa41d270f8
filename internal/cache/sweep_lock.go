package cache

import (
	"context"
	"fmt"
	"time"
)

// SweepLock elects a single sweeper per store per calendar day. The key
// embeds the date, so a winner today does not block tomorrow; the TTL
// only bounds key lifetime. Combined with the monitoring upsert this
// makes the daily sweep at-most-once-effective even when several
// processes race on the trigger.
type SweepLock struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewSweepLock creates a SweepLock with the given key TTL.
func NewSweepLock(redis *RedisClient, ttl time.Duration) *SweepLock {
	return &SweepLock{redis: redis, ttl: ttl}
}

// Acquire attempts to take the sweep lock for a store and day. It
// reports false when another sweeper already holds it.
func (l *SweepLock) Acquire(ctx context.Context, storeID int, day time.Time) (bool, error) {
	key := fmt.Sprintf("sweep:%d:%s", storeID, day.Format("2006-01-02"))
	return l.redis.SetNX(ctx, key, "1", l.ttl)
}

// Release drops the lock early, letting another sweeper retry the same
// day (used when a sweep fails partway).
func (l *SweepLock) Release(ctx context.Context, storeID int, day time.Time) error {
	key := fmt.Sprintf("sweep:%d:%s", storeID, day.Format("2006-01-02"))
	return l.redis.Delete(ctx, key)
}
