package outbound

import (
	"context"

	"github.com/google/uuid"
)

// PreferenceOracle is the external recommender. Both operations must be
// treated as unreliable network dependencies: callers own the timeout
// and the degradation policy.
type PreferenceOracle interface {
	// GetRankedRecipes returns recipe ids ordered from most to least
	// preferred for the user.
	GetRankedRecipes(ctx context.Context, userID uuid.UUID, count int) ([]uuid.UUID, error)

	// Train asks the recommender to retrain its per-user model from
	// the feedback recorded so far.
	Train(ctx context.Context, userID uuid.UUID) error

	// Ping is a liveness probe.
	Ping(ctx context.Context) error
}

// RateBudget guards calls against an external API's quota. Denial is
// not an error: callers degrade the same way they would on a
// dependency failure.
type RateBudget interface {
	TryConsume(ctx context.Context, operation string) bool
}
