package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds tracker tuning parameters.
type Config struct {
	Prefix    string
	Window    time.Duration
	Threshold int
}

// Tracker counts rejections per subject in fixed windows.
type Tracker struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Tracker] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Tracker {
	if cfg.Prefix == "" {
		cfg.Prefix = "gg:sig"
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	return &Tracker{
		redis:  redisClient,
		config: cfg,
	}
}

// Record increments the counter for subject and returns the count in the
// current window. When Threshold > 0 and the count exceeds it, the count is
// returned together with ErrThresholdExceeded.
func (t *Tracker) Record(ctx context.Context, subject string) (int64, error) {
	count, err := t.incrementWithTTL(ctx, t.key(subject), t.config.Window)
	if err != nil {
		return 0, err
	}
	if t.config.Threshold > 0 && count > int64(t.config.Threshold) {
		return count, ErrThresholdExceeded
	}
	return count, nil
}

// Count returns the current window count for subject. Missing keys count as zero.
func (t *Tracker) Count(ctx context.Context, subject string) (int64, error) {
	count, err := t.redis.Get(ctx, t.key(subject)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}

// Reset clears the counter for subject.
func (t *Tracker) Reset(ctx context.Context, subject string) error {
	if err := t.redis.Del(ctx, t.key(subject)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (t *Tracker) key(subject string) string {
	return t.config.Prefix + ":" + subject
}

func (t *Tracker) incrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := t.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := t.redis.Expire(ctx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}
