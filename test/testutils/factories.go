package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/recipe"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	id           uuid.UUID
	title        string
	calories     *float64
	allergenTags []string
	dietTags     []string
	readyMinutes int
	cachedAt     time.Time
}

// NewRecipeBuilder creates a new recipe builder with faked defaults
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		id:           uuid.New(),
		title:        faker.Dinner(),
		calories:     recipe.Float64Ptr(float64(faker.Number(200, 900))),
		readyMinutes: faker.Number(10, 90),
		cachedAt:     time.Now().UTC(),
	}
}

// WithID sets the recipe identity
func (rb *RecipeBuilder) WithID(id uuid.UUID) *RecipeBuilder {
	rb.id = id
	return rb
}

// WithTitle sets the recipe title
func (rb *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	rb.title = title
	return rb
}

// WithCalories sets per-serving calories
func (rb *RecipeBuilder) WithCalories(calories float64) *RecipeBuilder {
	rb.calories = recipe.Float64Ptr(calories)
	return rb
}

// WithoutCalories clears the calorie value to model incomplete source data
func (rb *RecipeBuilder) WithoutCalories() *RecipeBuilder {
	rb.calories = nil
	return rb
}

// WithAllergens sets the allergen tags
func (rb *RecipeBuilder) WithAllergens(tags ...string) *RecipeBuilder {
	rb.allergenTags = tags
	return rb
}

// WithDietTags sets the diet labels
func (rb *RecipeBuilder) WithDietTags(tags ...string) *RecipeBuilder {
	rb.dietTags = tags
	return rb
}

// WithReadyMinutes sets the total ready time
func (rb *RecipeBuilder) WithReadyMinutes(minutes int) *RecipeBuilder {
	rb.readyMinutes = minutes
	return rb
}

// WithCachedAt sets the freshness timestamp
func (rb *RecipeBuilder) WithCachedAt(t time.Time) *RecipeBuilder {
	rb.cachedAt = t
	return rb
}

// Build constructs the recipe, panicking on invalid builder state so
// test setup bugs surface immediately.
func (rb *RecipeBuilder) Build() *recipe.Recipe {
	r, err := recipe.NewRecipe(recipe.NewRecipeParams{
		ID:           rb.id,
		Title:        rb.title,
		Nutrition:    recipe.Nutrition{Calories: rb.calories},
		AllergenTags: rb.allergenTags,
		DietTags:     rb.dietTags,
		ReadyMinutes: rb.readyMinutes,
		CachedAt:     rb.cachedAt,
	})
	if err != nil {
		panic(err)
	}
	return r
}
