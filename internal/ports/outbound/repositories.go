// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the planning core uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
)

// CandidateFilter describes the static filters applied when querying
// the recipe store for a candidate pool. Exclusions and limit are
// always applied; the rest are optional.
type CandidateFilter struct {
	DietType        *recipe.DietType
	MaxReadyMinutes *int
	ExcludeIDs      []uuid.UUID
	Limit           int
}

// RecipeRepository is the read-only recipe store the planner queries.
type RecipeRepository interface {
	// FindCandidates returns recipes matching the filter, ordered by
	// freshness (most-recently-cached first) and truncated to the
	// limit. An empty result is a valid outcome, never an error.
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*recipe.Recipe, error)

	// FindByID fetches a single recipe.
	FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error)
}

// MealPlanRepository persists plans and their items.
type MealPlanRepository interface {
	// CreateWithItems persists a plan and all its items atomically:
	// either everything is written or nothing is.
	CreateWithItems(ctx context.Context, plan *mealplan.MealPlan) error

	// FindByID loads a plan with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error)

	// UpdateItem writes back a single item's recipe assignment and
	// swap metadata.
	UpdateItem(ctx context.Context, planID uuid.UUID, item *mealplan.PlanItem) error

	// UpdateStatus writes back a plan's lifecycle status.
	UpdateStatus(ctx context.Context, planID uuid.UUID, status mealplan.PlanStatus) error

	// Delete removes a plan; items are removed by cascade.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AllergenRepository reads a user's registered allergens. The planning
// core has no write path here.
type AllergenRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]allergen.UserAllergen, error)
}

// FeedbackRepository records accept/reject signals that feed the
// recommender's training input.
type FeedbackRepository interface {
	Record(ctx context.Context, userID, recipeID uuid.UUID, signal mealplan.FeedbackSignal) error
}

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Counter operations, used by the rate budget's daily windows.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
