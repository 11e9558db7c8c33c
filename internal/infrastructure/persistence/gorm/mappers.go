package gorm

import (
	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
)

// ModelToRecipe converts a GORM model to a domain recipe
func ModelToRecipe(m *RecipeModel) (*recipe.Recipe, error) {
	return recipe.NewRecipe(recipe.NewRecipeParams{
		ID:    m.ID,
		Title: m.Title,
		Nutrition: recipe.Nutrition{
			Calories: m.Nutrition.Calories,
			Protein:  m.Nutrition.Protein,
			Carbs:    m.Nutrition.Carbs,
			Fat:      m.Nutrition.Fat,
			Sodium:   m.Nutrition.Sodium,
			Fiber:    m.Nutrition.Fiber,
			Sugar:    m.Nutrition.Sugar,
		},
		AllergenTags: m.AllergenTags,
		DietTags:     m.DietTags,
		ReadyMinutes: m.ReadyMinutes,
		CachedAt:     m.CachedAt,
	})
}

// RecipeToModel converts a domain recipe to a GORM model
func RecipeToModel(r *recipe.Recipe) *RecipeModel {
	n := r.Nutrition()
	return &RecipeModel{
		ID:    r.ID(),
		Title: r.Title(),
		Nutrition: NutritionModel{
			Calories: n.Calories,
			Protein:  n.Protein,
			Carbs:    n.Carbs,
			Fat:      n.Fat,
			Sodium:   n.Sodium,
			Fiber:    n.Fiber,
			Sugar:    n.Sugar,
		},
		AllergenTags: r.AllergenTags(),
		DietTags:     r.DietTags(),
		ReadyMinutes: r.ReadyMinutes(),
		CachedAt:     r.CachedAt(),
	}
}

// ModelToMealPlan converts a GORM model and its items to a domain plan
func ModelToMealPlan(m *MealPlanModel) *mealplan.MealPlan {
	items := make([]*mealplan.PlanItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = ModelToPlanItem(&item)
	}

	return mealplan.Reconstitute(mealplan.ReconstituteParams{
		ID:            m.ID,
		UserID:        m.UserID,
		Version:       m.Version,
		StartDate:     m.StartDate,
		HorizonDays:   m.HorizonDays,
		Status:        mealplan.PlanStatus(m.Status),
		CalorieTarget: m.CalorieTarget,
		Items:         items,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	})
}

// MealPlanToModel converts a domain plan to a GORM model with items
func MealPlanToModel(p *mealplan.MealPlan) *MealPlanModel {
	items := make([]PlanItemModel, len(p.Items()))
	for i, item := range p.Items() {
		items[i] = *PlanItemToModel(p.ID(), item)
	}

	return &MealPlanModel{
		ID:            p.ID(),
		UserID:        p.UserID(),
		Version:       p.Version(),
		StartDate:     p.StartDate(),
		HorizonDays:   p.HorizonDays(),
		Status:        string(p.Status()),
		CalorieTarget: p.CalorieTarget(),
		CreatedAt:     p.CreatedAt(),
		UpdatedAt:     p.UpdatedAt(),
		Items:         items,
	}
}

// ModelToPlanItem converts a GORM item model to a domain item
func ModelToPlanItem(m *PlanItemModel) *mealplan.PlanItem {
	return &mealplan.PlanItem{
		ID:               m.ID,
		DayNumber:        m.DayNumber,
		MealType:         mealplan.MealType(m.MealType),
		RecipeID:         m.RecipeID,
		Servings:         m.Servings,
		Swapped:          m.Swapped,
		OriginalRecipeID: m.OriginalRecipeID,
	}
}

// PlanItemToModel converts a domain item to a GORM model
func PlanItemToModel(planID uuid.UUID, item *mealplan.PlanItem) *PlanItemModel {
	return &PlanItemModel{
		ID:               item.ID,
		PlanID:           planID,
		DayNumber:        item.DayNumber,
		MealType:         string(item.MealType),
		RecipeID:         item.RecipeID,
		Servings:         item.Servings,
		Swapped:          item.Swapped,
		OriginalRecipeID: item.OriginalRecipeID,
	}
}

// ModelToUserAllergen converts a GORM allergen model to the domain type
func ModelToUserAllergen(m *UserAllergenModel) allergen.UserAllergen {
	return allergen.UserAllergen{
		Type:     m.Type,
		Severity: allergen.Severity(m.Severity),
	}
}
