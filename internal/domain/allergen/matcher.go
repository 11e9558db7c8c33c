// Package allergen implements allergen safety matching between recipes
// and user allergen profiles. Matching is deliberately conservative: a
// user entry of "nut" conflicts with a recipe tagged "peanuts". False
// positives are acceptable; false negatives are not.
package allergen

import (
	"strings"

	"github.com/snacktrack/v2/internal/domain/recipe"
)

// MatchResult is the outcome of checking one recipe against a user's
// allergen set.
type MatchResult struct {
	Safe      bool
	Conflicts []string
}

// Conflict pairs an unsafe recipe with the allergen strings that
// triggered the rejection.
type Conflict struct {
	Recipe    *recipe.Recipe
	Conflicts []string
}

// IsSafe checks a recipe allergen tag set against a user allergen set.
// Both sets are normalized to lowercase before comparison. Two entries
// conflict when they are equal or either is a substring of the other.
func IsSafe(recipeAllergens, userAllergens []string) MatchResult {
	if len(userAllergens) == 0 || len(recipeAllergens) == 0 {
		return MatchResult{Safe: true}
	}

	rTags := recipe.NormalizeTags(recipeAllergens)
	uTags := recipe.NormalizeTags(userAllergens)

	var conflicts []string
	seen := make(map[string]struct{})
	for _, rt := range rTags {
		for _, ut := range uTags {
			if rt == ut || strings.Contains(rt, ut) || strings.Contains(ut, rt) {
				if _, ok := seen[rt]; !ok {
					seen[rt] = struct{}{}
					conflicts = append(conflicts, rt)
				}
			}
		}
	}

	return MatchResult{
		Safe:      len(conflicts) == 0,
		Conflicts: conflicts,
	}
}

// FilterSafe partitions candidates into safe recipes and conflicts.
// When the user has no registered allergens the input is returned
// unfiltered as the safe set.
func FilterSafe(candidates []*recipe.Recipe, userAllergens []string) (safe []*recipe.Recipe, unsafe []Conflict) {
	if len(userAllergens) == 0 {
		return candidates, nil
	}

	for _, c := range candidates {
		result := IsSafe(c.AllergenTags(), userAllergens)
		if result.Safe {
			safe = append(safe, c)
		} else {
			unsafe = append(unsafe, Conflict{Recipe: c, Conflicts: result.Conflicts})
		}
	}
	return safe, unsafe
}
