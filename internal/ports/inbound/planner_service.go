// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the surrounding application invokes on the planning core
package inbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
)

// MealPlanService is the planning core's use-case surface.
type MealPlanService interface {
	GeneratePlan(ctx context.Context, cmd GeneratePlanCommand) (*MealPlanDTO, error)
	SwapSlot(ctx context.Context, cmd SwapSlotCommand) (*PlanItemDTO, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*MealPlanDTO, error)
	ArchivePlan(ctx context.Context, userID, planID uuid.UUID) error
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
}

// GeneratePlanCommand requests a new 1- or 7-day plan.
type GeneratePlanCommand struct {
	UserID         uuid.UUID `validate:"required"`
	HorizonDays    int       `validate:"required,oneof=1 7"`
	StartDate      time.Time `validate:"required"`
	CalorieTarget  float64   `validate:"required,gt=0"`
	DietType       *recipe.DietType
	MaxPrepMinutes *int `validate:"omitempty,gt=0"`
}

// SwapSlotCommand requests a single-slot replacement.
type SwapSlotCommand struct {
	UserID           uuid.UUID         `validate:"required"`
	PlanID           uuid.UUID         `validate:"required"`
	DayNumber        int               `validate:"required,min=1,max=7"`
	MealType         mealplan.MealType `validate:"required"`
	RejectedRecipeID uuid.UUID         `validate:"required"`
}

// MealPlanDTO is the serializable projection of a plan.
type MealPlanDTO struct {
	ID            uuid.UUID     `json:"id"`
	UserID        uuid.UUID     `json:"user_id"`
	StartDate     time.Time     `json:"start_date"`
	EndDate       time.Time     `json:"end_date"`
	HorizonDays   int           `json:"horizon_days"`
	Status        string        `json:"status"`
	CalorieTarget float64       `json:"calorie_target"`
	Items         []PlanItemDTO `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PlanItemDTO is the serializable projection of a slot assignment.
type PlanItemDTO struct {
	ID               uuid.UUID  `json:"id"`
	DayNumber        int        `json:"day_number"`
	MealType         string     `json:"meal_type"`
	RecipeID         uuid.UUID  `json:"recipe_id"`
	Servings         float64    `json:"servings"`
	Swapped          bool       `json:"swapped"`
	OriginalRecipeID *uuid.UUID `json:"original_recipe_id,omitempty"`
}
