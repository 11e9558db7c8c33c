package ratebudget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/infrastructure/persistence/memory"
	"github.com/snacktrack/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func budgetConfig() config.RateBudgetConfig {
	return config.RateBudgetConfig{
		Enable:            true,
		RequestsPerSecond: 1000,
		Burst:             1000,
		DailyLimit:        5,
	}
}

func TestBudget_TryConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled budget always allows", func(t *testing.T) {
		cfg := budgetConfig()
		cfg.Enable = false
		b := NewBudget(cfg, memory.NewCacheRepository(), zap.NewNop())

		for i := 0; i < 100; i++ {
			assert.True(t, b.TryConsume(ctx, "recommend"))
		}
	})

	t.Run("local limiter denies beyond burst", func(t *testing.T) {
		cfg := budgetConfig()
		cfg.RequestsPerSecond = 1
		cfg.Burst = 2
		cfg.DailyLimit = 1000
		b := NewBudget(cfg, memory.NewCacheRepository(), zap.NewNop())

		allowed := 0
		for i := 0; i < 10; i++ {
			if b.TryConsume(ctx, "recommend") {
				allowed++
			}
		}
		assert.Equal(t, 2, allowed)
	})

	t.Run("daily limit caps the shared counter", func(t *testing.T) {
		b := NewBudget(budgetConfig(), memory.NewCacheRepository(), zap.NewNop())

		for i := 0; i < 5; i++ {
			assert.True(t, b.TryConsume(ctx, "train"), "call %d should fit the daily limit", i+1)
		}
		assert.False(t, b.TryConsume(ctx, "train"))
	})

	t.Run("operations have independent daily windows", func(t *testing.T) {
		b := NewBudget(budgetConfig(), memory.NewCacheRepository(), zap.NewNop())

		for i := 0; i < 5; i++ {
			assert.True(t, b.TryConsume(ctx, "train"))
		}
		assert.False(t, b.TryConsume(ctx, "train"))
		assert.True(t, b.TryConsume(ctx, "recommend"))
	})

	t.Run("counter resets after midnight", func(t *testing.T) {
		b := NewBudget(budgetConfig(), memory.NewCacheRepository(), zap.NewNop())
		day := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)
		b.now = func() time.Time { return day }

		for i := 0; i < 5; i++ {
			assert.True(t, b.TryConsume(ctx, "train"))
		}
		assert.False(t, b.TryConsume(ctx, "train"))

		// Next day uses a fresh key.
		b.now = func() time.Time { return day.Add(2 * time.Hour) }
		assert.True(t, b.TryConsume(ctx, "train"))
	})

	t.Run("broken counter backend fails open", func(t *testing.T) {
		cache := new(testutils.MockCacheRepository)
		cache.On("Increment", mock.Anything, mock.Anything, mock.Anything).
			Return(int64(0), errors.New("connection refused"))
		b := NewBudget(budgetConfig(), cache, zap.NewNop())

		assert.True(t, b.TryConsume(ctx, "recommend"))
	})
}
