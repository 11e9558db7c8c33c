// Package ranking wraps the external preference oracle with the
// fail-open policy the planner depends on: a degraded or absent
// recommender can weaken ranking quality but never break planning.
package ranking

import (
	"context"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/infrastructure/monitoring"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// Ranker converts the oracle's ordered output into the tie-break signal
// used by slot assignment. Rank 0 is most preferred.
type Ranker struct {
	oracle  outbound.PreferenceOracle
	budget  outbound.RateBudget
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewRanker creates a new preference ranker
func NewRanker(
	oracle outbound.PreferenceOracle,
	budget outbound.RateBudget,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) *Ranker {
	return &Ranker{
		oracle:  oracle,
		budget:  budget,
		metrics: metrics,
		logger:  logger.Named("ranker"),
	}
}

// Rank fetches the user's preference ranking. On any failure —
// timeout, transport error, exhausted rate budget — it returns an
// empty map. Callers must treat an empty map as "no preference
// information", never as an error. Each failure is logged once and
// counted for alerting.
func (r *Ranker) Rank(ctx context.Context, userID uuid.UUID, candidatePoolSize int) map[uuid.UUID]int {
	if !r.budget.TryConsume(ctx, "recommend") {
		r.metrics.RateBudgetDenials.Inc()
		r.logger.Warn("Preference ranking skipped: rate budget exhausted",
			zap.String("operation", "rank"),
			zap.String("user_id", userID.String()))
		return map[uuid.UUID]int{}
	}

	ranked, err := r.oracle.GetRankedRecipes(ctx, userID, candidatePoolSize)
	if err != nil {
		r.metrics.OracleFailures.WithLabelValues("rank").Inc()
		r.logger.Error("Preference signal unavailable, degrading to calorie-distance only",
			zap.String("operation", "rank"),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return map[uuid.UUID]int{}
	}

	positions := make(map[uuid.UUID]int, len(ranked))
	for i, id := range ranked {
		positions[id] = i
	}
	return positions
}
