// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"gorm.io/gorm"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gorm.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// FindCandidates returns recipes matching the filter, newest cache
// entries first. An empty result is returned as an empty slice.
func (r *RecipeRepository) FindCandidates(ctx context.Context, filter outbound.CandidateFilter) ([]*recipe.Recipe, error) {
	query := r.db.WithContext(ctx).Model(&RecipeModel{})

	if filter.DietType != nil {
		// Diet tags are stored as a JSON array of normalized strings,
		// so a quoted-substring match is exact on whole tags.
		query = query.Where("diet_tags LIKE ?", fmt.Sprintf("%%%q%%", string(*filter.DietType)))
	}
	if filter.MaxReadyMinutes != nil {
		query = query.Where("ready_minutes <= ?", *filter.MaxReadyMinutes)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}

	var models []RecipeModel
	result := query.
		Order("cached_at DESC").
		Limit(filter.Limit).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, 0, len(models))
	for i := range models {
		rec, err := ModelToRecipe(&models[i])
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return recipes, nil
}

// FindByID finds a recipe by ID, returning nil when absent
func (r *RecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToRecipe(&model)
}
