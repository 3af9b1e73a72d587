package api

import (
	"context"
	"strconv"
	"sync"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const defaultBurst = 5

// rateLimiter keeps one token bucket per API client.
type rateLimiter struct {
	limiters sync.Map
	cfg      config.APIRateLimitConfig
}

func newRateLimiter(cfg config.APIRateLimitConfig) *rateLimiter {
	return &rateLimiter{
		cfg: cfg,
	}
}

func (l *rateLimiter) enabled() bool {
	return l.cfg.RPS > 0
}

// allow reports whether the client identified by key may proceed.
func (l *rateLimiter) allow(key string) bool {
	if !l.enabled() {
		return true
	}
	if l.getLimiter(key).Allow() {
		return true
	}
	metrics.IncRateLimited("api_key")
	return false
}

func (l *rateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

// userLimiter enforces a fixed-window request budget per acting user.
// Store failures let the request through.
type userLimiter struct {
	store  domain.RateLimitStore
	limit  int
	window time.Duration
	logger *zerolog.Logger
}

func newUserLimiter(cfg config.APIUserRateLimitConfig, store domain.RateLimitStore, logger *zerolog.Logger) *userLimiter {
	if !cfg.Enabled || store == nil || cfg.Requests <= 0 || cfg.Window <= 0 {
		return nil
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &userLimiter{
		store:  store,
		limit:  cfg.Requests,
		window: time.Duration(cfg.Window) * time.Second,
		logger: logger,
	}
}

func (l *userLimiter) allow(ctx context.Context, userID int64) bool {
	if l == nil {
		return true
	}

	allowed, err := l.store.CheckRateLimit(ctx, "user:"+strconv.FormatInt(userID, 10), l.limit, l.window)
	if err != nil {
		l.logger.Warn().Err(err).Int64("user_id", userID).Msg("user rate limit check failed")
		return true
	}
	if !allowed {
		metrics.IncRateLimited("user")
	}
	return allowed
}
