package allergen_test

import (
	"testing"

	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// MatcherTestSuite provides a test suite for allergen matching
type MatcherTestSuite struct {
	suite.Suite
}

func (suite *MatcherTestSuite) TestIsSafe() {
	suite.Run("ExactMatch_ShouldConflict", func() {
		result := allergen.IsSafe([]string{"peanuts"}, []string{"peanuts"})

		assert.False(suite.T(), result.Safe)
		assert.Equal(suite.T(), []string{"peanuts"}, result.Conflicts)
	})

	suite.Run("UserEntryIsSubstringOfRecipeTag_ShouldConflict", func() {
		// "nut" registered by the user must reject anything tagged
		// with a more specific nut allergen.
		result := allergen.IsSafe([]string{"peanuts"}, []string{"nut"})

		assert.False(suite.T(), result.Safe)
	})

	suite.Run("RecipeTagIsSubstringOfUserEntry_ShouldConflict", func() {
		result := allergen.IsSafe([]string{"nut"}, []string{"peanuts"})

		assert.False(suite.T(), result.Safe)
	})

	suite.Run("CaseDiffers_ShouldStillConflict", func() {
		result := allergen.IsSafe([]string{"Shellfish"}, []string{"SHELLFISH"})

		assert.False(suite.T(), result.Safe)
	})

	suite.Run("UnrelatedAllergens_ShouldBeSafe", func() {
		result := allergen.IsSafe([]string{"dairy", "gluten"}, []string{"shellfish"})

		assert.True(suite.T(), result.Safe)
		assert.Empty(suite.T(), result.Conflicts)
	})

	suite.Run("NoUserAllergens_ShouldBeSafe", func() {
		result := allergen.IsSafe([]string{"peanuts", "dairy"}, nil)

		assert.True(suite.T(), result.Safe)
	})

	suite.Run("NoRecipeTags_ShouldBeSafe", func() {
		result := allergen.IsSafe(nil, []string{"peanuts"})

		assert.True(suite.T(), result.Safe)
	})

	suite.Run("MultipleUserMatchesOnOneTag_ShouldReportTagOnce", func() {
		result := allergen.IsSafe([]string{"peanut butter"}, []string{"peanut", "butter"})

		assert.False(suite.T(), result.Safe)
		assert.Equal(suite.T(), []string{"peanut butter"}, result.Conflicts)
	})
}

func (suite *MatcherTestSuite) TestFilterSafe() {
	suite.Run("NoUserAllergens_ShouldReturnInputUnfiltered", func() {
		var candidates []*recipe.Recipe
		for i := 0; i < 3; i++ {
			candidates = append(candidates, testutils.NewRecipeBuilder().WithAllergens("peanuts").Build())
		}

		safe, unsafe := allergen.FilterSafe(candidates, nil)

		assert.Len(suite.T(), safe, 3)
		assert.Empty(suite.T(), unsafe)
	})

	suite.Run("MixedPool_ShouldPartition", func() {
		unsafeRecipe := testutils.NewRecipeBuilder().WithAllergens("tree nuts").Build()
		safeRecipe := testutils.NewRecipeBuilder().WithAllergens("dairy").Build()

		safe, unsafe := allergen.FilterSafe([]*recipe.Recipe{unsafeRecipe, safeRecipe}, []string{"nut"})

		assert.Len(suite.T(), safe, 1)
		assert.Equal(suite.T(), safeRecipe.ID(), safe[0].ID())
		assert.Len(suite.T(), unsafe, 1)
		assert.Equal(suite.T(), unsafeRecipe.ID(), unsafe[0].Recipe.ID())
		assert.Equal(suite.T(), []string{"tree nuts"}, unsafe[0].Conflicts)
	})

	suite.Run("FilteringTwice_ShouldBeIdempotent", func() {
		pool := []*recipe.Recipe{
			testutils.NewRecipeBuilder().WithAllergens("shellfish").Build(),
			testutils.NewRecipeBuilder().Build(),
		}
		userAllergens := []string{"shellfish"}

		safe, _ := allergen.FilterSafe(pool, userAllergens)
		safeAgain, unsafeAgain := allergen.FilterSafe(safe, userAllergens)

		assert.Equal(suite.T(), safe, safeAgain)
		assert.Empty(suite.T(), unsafeAgain)
	})
}

func TestMatcherTestSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}
