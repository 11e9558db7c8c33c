// Package ratebudget guards calls to quota-limited external APIs. It
// combines an in-process token bucket (burst smoothing) with a shared
// daily counter so every instance draws from the same allowance.
package ratebudget

import (
	"context"
	"fmt"
	"time"

	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Budget implements outbound.RateBudget.
type Budget struct {
	cfg     config.RateBudgetConfig
	limiter *rate.Limiter
	cache   outbound.CacheRepository
	logger  *zap.Logger

	now func() time.Time
}

// NewBudget creates a new rate budget
func NewBudget(cfg config.RateBudgetConfig, cache outbound.CacheRepository, logger *zap.Logger) *Budget {
	return &Budget{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cache:   cache,
		logger:  logger.Named("rate-budget"),
		now:     time.Now,
	}
}

// TryConsume reports whether one call of the given operation may
// proceed. Denial is not an error; callers degrade as they would on a
// dependency failure. A broken counter backend fails open to the local
// limiter alone so the budget never takes the primary operation down.
func (b *Budget) TryConsume(ctx context.Context, operation string) bool {
	if !b.cfg.Enable {
		return true
	}

	if !b.limiter.Allow() {
		return false
	}

	day := b.now().UTC()
	key := fmt.Sprintf("ratebudget:%s:%s", operation, day.Format("2006-01-02"))
	ttl := time.Until(midnightAfter(day))

	count, err := b.cache.Increment(ctx, key, ttl)
	if err != nil {
		b.logger.Warn("Daily counter unavailable, allowing on local limiter only",
			zap.String("operation", operation),
			zap.Error(err))
		return true
	}

	return count <= b.cfg.DailyLimit
}

func midnightAfter(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

var _ outbound.RateBudget = (*Budget)(nil)
