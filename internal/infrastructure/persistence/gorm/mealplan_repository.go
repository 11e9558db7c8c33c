package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"gorm.io/gorm"
)

// MealPlanRepository implements the meal plan repository interface using GORM
type MealPlanRepository struct {
	db *gorm.DB
}

// NewMealPlanRepository creates a new meal plan repository
func NewMealPlanRepository(db *gorm.DB) outbound.MealPlanRepository {
	return &MealPlanRepository{db: db}
}

// CreateWithItems persists the plan header and every item in one
// transaction. A partial plan never becomes visible.
func (r *MealPlanRepository) CreateWithItems(ctx context.Context, plan *mealplan.MealPlan) error {
	model := MealPlanToModel(plan)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := model.Items
		model.Items = nil

		if err := tx.Create(model).Error; err != nil {
			return err
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID loads a plan with its items, returning nil when absent
func (r *MealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	var model MealPlanModel

	result := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_number, meal_type")
		}).
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return ModelToMealPlan(&model), nil
}

// UpdateItem writes back a single item's assignment and swap metadata
func (r *MealPlanRepository) UpdateItem(ctx context.Context, planID uuid.UUID, item *mealplan.PlanItem) error {
	result := r.db.WithContext(ctx).
		Model(&PlanItemModel{}).
		Where("id = ? AND plan_id = ?", item.ID, planID).
		Updates(map[string]interface{}{
			"recipe_id":          item.RecipeID,
			"servings":           item.Servings,
			"swapped":            item.Swapped,
			"original_recipe_id": item.OriginalRecipeID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrSlotNotFound
	}
	return nil
}

// UpdateStatus writes back a plan's lifecycle status
func (r *MealPlanRepository) UpdateStatus(ctx context.Context, planID uuid.UUID, status mealplan.PlanStatus) error {
	result := r.db.WithContext(ctx).
		Model(&MealPlanModel{}).
		Where("id = ?", planID).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return mealplan.ErrPlanNotFound
	}
	return nil
}

// Delete removes a plan and its items. The item delete is explicit so
// the cascade does not depend on foreign key support in the backend.
func (r *MealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&PlanItemModel{}, "plan_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&MealPlanModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return mealplan.ErrPlanNotFound
		}
		return nil
	})
}
