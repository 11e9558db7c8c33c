// Package recipe contains the recipe read model used by meal planning.
// Recipes are owned by the catalog service; the planning core never
// mutates them, so the entity is reconstituted from store data as-is.
package recipe

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Recipe represents a recipe as seen by the planning core.
type Recipe struct {
	id    uuid.UUID
	title string

	// Per-serving nutrition. Source data is incomplete, so every field
	// is optional; absence must never be read as zero.
	nutrition Nutrition

	allergenTags []string
	dietTags     []string

	readyMinutes int

	// cachedAt is when the recipe was last refreshed from the upstream
	// provider. The candidate pool orders by it as a freshness proxy.
	cachedAt time.Time
}

// NewRecipeParams carries everything needed to reconstitute a recipe.
type NewRecipeParams struct {
	ID           uuid.UUID
	Title        string
	Nutrition    Nutrition
	AllergenTags []string
	DietTags     []string
	ReadyMinutes int
	CachedAt     time.Time
}

// NewRecipe reconstitutes a recipe, normalizing allergen tags to
// lowercase deduplicated strings.
func NewRecipe(p NewRecipeParams) (*Recipe, error) {
	if p.ID == uuid.Nil {
		return nil, ErrMissingID
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, ErrMissingTitle
	}
	if p.ReadyMinutes < 0 {
		return nil, ErrInvalidReadyTime
	}

	return &Recipe{
		id:           p.ID,
		title:        p.Title,
		nutrition:    p.Nutrition,
		allergenTags: NormalizeTags(p.AllergenTags),
		dietTags:     NormalizeTags(p.DietTags),
		readyMinutes: p.ReadyMinutes,
		cachedAt:     p.CachedAt,
	}, nil
}

// ID returns the recipe identity.
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Title returns the recipe title.
func (r *Recipe) Title() string {
	return r.title
}

// Nutrition returns the per-serving nutrition values.
func (r *Recipe) Nutrition() Nutrition {
	return r.nutrition
}

// Calories returns per-serving calories, or nil when the source data
// does not carry them.
func (r *Recipe) Calories() *float64 {
	return r.nutrition.Calories
}

// HasKnownCalories reports whether calorie data is present.
func (r *Recipe) HasKnownCalories() bool {
	return r.nutrition.Calories != nil
}

// AllergenTags returns the normalized allergen tag set.
func (r *Recipe) AllergenTags() []string {
	return r.allergenTags
}

// DietTags returns the normalized diet label set.
func (r *Recipe) DietTags() []string {
	return r.dietTags
}

// ReadyMinutes returns the total ready time in minutes.
func (r *Recipe) ReadyMinutes() int {
	return r.readyMinutes
}

// CachedAt returns when the recipe was last cached from its provider.
func (r *Recipe) CachedAt() time.Time {
	return r.cachedAt
}

// HasDietTag reports whether the recipe carries the given diet label.
func (r *Recipe) HasDietTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range r.dietTags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags lowercases, trims and deduplicates a tag set while
// preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
