// Package cache provides read-through caching decorators over the
// persistence repositories.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// cachedRecipe is the cache wire form of a recipe. The domain entity
// keeps its fields private, so the decorator owns the projection.
type cachedRecipe struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Nutrition    recipe.Nutrition `json:"nutrition"`
	AllergenTags []string         `json:"allergen_tags"`
	DietTags     []string         `json:"diet_tags"`
	ReadyMinutes int              `json:"ready_minutes"`
	CachedAt     time.Time        `json:"cached_at"`
}

// RecipeRepository decorates a RecipeRepository with a read-through
// cache on single-recipe lookups. Candidate pool queries always hit
// the store: freshness ordering and filters don't cache well and the
// pool query is one round trip anyway.
type RecipeRepository struct {
	inner  outbound.RecipeRepository
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewRecipeRepository creates a caching recipe repository
func NewRecipeRepository(inner outbound.RecipeRepository, cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) outbound.RecipeRepository {
	return &RecipeRepository{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("recipe-cache"),
	}
}

// FindCandidates passes through to the store
func (r *RecipeRepository) FindCandidates(ctx context.Context, filter outbound.CandidateFilter) ([]*recipe.Recipe, error) {
	return r.inner.FindCandidates(ctx, filter)
}

// FindByID serves hot lookups from cache, falling back to the store.
// Cache failures are logged and ignored in both directions.
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	key := cacheKey(id)

	if data, err := r.cache.Get(ctx, key); err == nil && data != nil {
		if cached, err := decode(data); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = r.cache.Delete(ctx, key)
	}

	found, err := r.inner.FindByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}

	if data, err := encode(found); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Debug("Failed to cache recipe",
				zap.String("recipe_id", id.String()),
				zap.Error(err))
		}
	}
	return found, nil
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("recipe:%s", id)
}

func encode(r *recipe.Recipe) ([]byte, error) {
	return json.Marshal(cachedRecipe{
		ID:           r.ID(),
		Title:        r.Title(),
		Nutrition:    r.Nutrition(),
		AllergenTags: r.AllergenTags(),
		DietTags:     r.DietTags(),
		ReadyMinutes: r.ReadyMinutes(),
		CachedAt:     r.CachedAt(),
	})
}

func decode(data []byte) (*recipe.Recipe, error) {
	var c cachedRecipe
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return recipe.NewRecipe(recipe.NewRecipeParams{
		ID:           c.ID,
		Title:        c.Title,
		Nutrition:    c.Nutrition,
		AllergenTags: c.AllergenTags,
		DietTags:     c.DietTags,
		ReadyMinutes: c.ReadyMinutes,
		CachedAt:     c.CachedAt,
	})
}

var _ outbound.RecipeRepository = (*RecipeRepository)(nil)
