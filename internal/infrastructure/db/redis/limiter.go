package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = time.Minute
)

// LoginLimiter counts login attempts per normalized email in a fixed Redis
// window. Key format: login_attempts:<email>. The limiter fails open: a
// Redis outage is logged and the attempt is allowed, since locking every
// account out behind a cache failure is the worse trade.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
	log         zerolog.Logger
}

// NewLoginLimiter creates a LoginLimiter. Non-positive maxAttempts or window
// fall back to defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration, log zerolog.Logger) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
		log:         log,
	}
}

// Allow records one attempt and reports whether it is within budget.
func (l *LoginLimiter) Allow(ctx context.Context, email string) (bool, error) {
	key := l.key(email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.log.Warn().Err(err).Msg("login limiter unavailable, failing open")
		return true, nil
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.log.Warn().Err(err).Msg("login limiter expire failed")
		}
	}

	return n <= l.maxAttempts, nil
}

func (l *LoginLimiter) key(email string) string {
	return fmt.Sprintf("login_attempts:%s", email)
}
