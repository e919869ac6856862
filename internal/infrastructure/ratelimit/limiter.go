package ratelimit

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/infrastructure/kv"
)

const counterKeyPrefix = "webhook:ratelimit:"

// Limiter admits at most a fixed number of calls per source address within a
// fixed window. The window starts at the first admitted call and expires via
// the store's per-key ttl; rejected calls do not touch the counter, so a
// burst of rejects cannot extend the lockout.
type Limiter struct {
	store  kv.Store
	limit  int
	window time.Duration
	logger *zap.Logger
}

func NewLimiter(cfg *config.Config, store kv.Store, logger *zap.Logger) *Limiter {
	return &Limiter{
		store:  store,
		limit:  cfg.Gateway.RateLimit.Requests,
		window: cfg.Gateway.RateLimit.Window,
		logger: logger,
	}
}

// Allow reports whether a call from addr may proceed, incrementing the
// window counter when it may. A store failure fails open with a warning:
// rate limiting protects capacity, it must not take the gateway down.
func (l *Limiter) Allow(ctx context.Context, addr string) bool {
	key := counterKeyPrefix + addr

	current, err := l.store.Get(ctx, key)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		l.logger.Warn("Rate limit store unavailable, admitting request",
			zap.String("addr", addr),
			zap.Error(err),
		)
		return true
	}

	if err == nil {
		count, parseErr := strconv.ParseInt(current, 10, 64)
		if parseErr == nil && count >= int64(l.limit) {
			return false
		}
	}

	if _, err := l.store.Incr(ctx, key, l.window); err != nil {
		l.logger.Warn("Failed to increment rate limit counter",
			zap.String("addr", addr),
			zap.Error(err),
		)
	}
	return true
}
