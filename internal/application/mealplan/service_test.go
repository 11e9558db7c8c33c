package mealplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/snacktrack/v2/internal/application/ranking"
	"github.com/snacktrack/v2/internal/domain/allergen"
	domainplan "github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/infrastructure/monitoring"
	"github.com/snacktrack/v2/internal/ports/inbound"
	"github.com/snacktrack/v2/internal/ports/outbound"
	apperrors "github.com/snacktrack/v2/pkg/errors"
	"github.com/snacktrack/v2/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// PlannerServiceTestSuite provides a test suite for the planner service
type PlannerServiceTestSuite struct {
	suite.Suite

	recipeRepo   *testutils.MockRecipeRepository
	planRepo     *testutils.MockMealPlanRepository
	allergenRepo *testutils.MockAllergenRepository
	feedbackRepo *testutils.MockFeedbackRepository
	oracle       *testutils.MockPreferenceOracle
	budget       *testutils.MockRateBudget

	service inbound.MealPlanService
	metrics *monitoring.Metrics
	logs    *observer.ObservedLogs
	userID  uuid.UUID
	ctx     context.Context
}

func (suite *PlannerServiceTestSuite) SetupTest() {
	suite.recipeRepo = new(testutils.MockRecipeRepository)
	suite.planRepo = new(testutils.MockMealPlanRepository)
	suite.allergenRepo = new(testutils.MockAllergenRepository)
	suite.feedbackRepo = new(testutils.MockFeedbackRepository)
	suite.oracle = new(testutils.MockPreferenceOracle)
	suite.budget = new(testutils.MockRateBudget)
	suite.userID = uuid.New()
	suite.ctx = context.Background()

	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)
	suite.logs = logs
	suite.metrics = monitoring.NewTestMetrics()
	ranker := ranking.NewRanker(suite.oracle, suite.budget, suite.metrics, logger)
	trainer := ranking.NewTrainer(suite.oracle, suite.budget, suite.metrics, 16, logger)

	suite.service = NewPlannerService(
		suite.recipeRepo,
		suite.planRepo,
		suite.allergenRepo,
		suite.feedbackRepo,
		ranker,
		trainer,
		suite.metrics,
		config.PlannerConfig{CandidatePoolSize: 50, DefaultServings: 1},
		logger,
	)
}

func (suite *PlannerServiceTestSuite) generateCommand(horizon int) inbound.GeneratePlanCommand {
	return inbound.GeneratePlanCommand{
		UserID:        suite.userID,
		HorizonDays:   horizon,
		StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		CalorieTarget: 2000,
	}
}

func buildPool(n int) []*recipe.Recipe {
	pool := make([]*recipe.Recipe, n)
	for i := range pool {
		pool[i] = testutils.NewRecipeBuilder().WithCalories(float64(400 + 20*i)).Build()
	}
	return pool
}

func (suite *PlannerServiceTestSuite) TestGeneratePlan() {
	suite.Run("WeeklyPlan_ShouldFillEverySlot", func() {
		suite.SetupTest()
		pool := buildPool(25)
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(pool, nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, len(pool)).
			Return([]uuid.UUID{pool[3].ID(), pool[1].ID()}, nil)
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(7))

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), dto)
		assert.Len(suite.T(), dto.Items, 21)
		assert.Equal(suite.T(), suite.userID, dto.UserID)
		assert.Equal(suite.T(), "active", dto.Status)

		// No recipe repeats while the pool is large enough.
		seen := make(map[uuid.UUID]bool)
		for _, item := range dto.Items {
			assert.False(suite.T(), seen[item.RecipeID])
			seen[item.RecipeID] = true
		}
		suite.planRepo.AssertExpectations(suite.T())
	})

	suite.Run("DailyPlan_ShouldHaveThreeItems", func() {
		suite.SetupTest()
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(buildPool(10), nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, mock.Anything).Return([]uuid.UUID{}, nil)
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(1))

		require.NoError(suite.T(), err)
		require.Len(suite.T(), dto.Items, 3)
		assert.Equal(suite.T(), "breakfast", dto.Items[0].MealType)
		assert.Equal(suite.T(), "lunch", dto.Items[1].MealType)
		assert.Equal(suite.T(), "dinner", dto.Items[2].MealType)
	})

	suite.Run("UnsupportedHorizon_ShouldFailValidation", func() {
		suite.SetupTest()

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(3))

		assert.Nil(suite.T(), dto)
		assert.Equal(suite.T(), apperrors.CodeValidationFailed, apperrors.GetCode(err))
	})

	suite.Run("AllCandidatesUnsafe_ShouldFailFast", func() {
		suite.SetupTest()
		pool := []*recipe.Recipe{
			testutils.NewRecipeBuilder().WithAllergens("peanuts").Build(),
			testutils.NewRecipeBuilder().WithAllergens("peanut oil").Build(),
		}
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).
			Return([]allergen.UserAllergen{{Type: "peanut", Severity: allergen.SeveritySevere}}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(pool, nil)

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(7))

		assert.Nil(suite.T(), dto)
		assert.Equal(suite.T(), apperrors.CodeInsufficientCandidates, apperrors.GetCode(err))
		// The ranker must never be consulted when the pool is empty.
		suite.oracle.AssertNotCalled(suite.T(), "GetRankedRecipes", mock.Anything, mock.Anything, mock.Anything)
		suite.planRepo.AssertNotCalled(suite.T(), "CreateWithItems", mock.Anything, mock.Anything)
	})

	suite.Run("RecommenderDown_ShouldStillGenerate", func() {
		suite.SetupTest()
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(buildPool(25), nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, mock.Anything).
			Return(nil, errors.New("connection refused"))
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(7))

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), dto.Items, 21)
	})

	suite.Run("SmallPool_ShouldRepeatInsteadOfFailing", func() {
		suite.SetupTest()
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(buildPool(4), nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, mock.Anything).Return([]uuid.UUID{}, nil)
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(7))

		require.NoError(suite.T(), err)
		assert.Len(suite.T(), dto.Items, 21)
	})

	suite.Run("PersistenceFailure_ShouldSurfaceDatabaseError", func() {
		suite.SetupTest()
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(buildPool(25), nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, mock.Anything).Return([]uuid.UUID{}, nil)
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(errors.New("deadlock"))

		dto, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(7))

		assert.Nil(suite.T(), dto)
		assert.Equal(suite.T(), apperrors.CodeDatabaseError, apperrors.GetCode(err))
	})
}

// storedPlan builds a persisted-looking plan owned by the suite user
// with one assigned dinner slot.
func (suite *PlannerServiceTestSuite) storedPlan(rejected uuid.UUID) *domainplan.MealPlan {
	plan, err := domainplan.NewMealPlan(suite.userID, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), 7, 2000)
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), plan.AssignSlot(2, domainplan.MealTypeDinner, rejected, 1))
	require.NoError(suite.T(), plan.AssignSlot(2, domainplan.MealTypeLunch, uuid.New(), 1))
	return plan
}

func (suite *PlannerServiceTestSuite) swapCommand(rejected uuid.UUID) inbound.SwapSlotCommand {
	return inbound.SwapSlotCommand{
		UserID:           suite.userID,
		PlanID:           uuid.New(),
		DayNumber:        2,
		MealType:         domainplan.MealTypeDinner,
		RejectedRecipeID: rejected,
	}
}

func (suite *PlannerServiceTestSuite) TestSwapSlot() {
	suite.Run("HappyPath_ShouldTakeFirstSafeCandidate", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		replacement := testutils.NewRecipeBuilder().Build()
		second := testutils.NewRecipeBuilder().Build()

		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.MatchedBy(func(f outbound.CandidateFilter) bool {
			// The rejected recipe and everything already in the plan
			// must be excluded from the replacement query.
			excluded := make(map[uuid.UUID]bool, len(f.ExcludeIDs))
			for _, id := range f.ExcludeIDs {
				excluded[id] = true
			}
			if !excluded[rejected] {
				return false
			}
			for _, id := range plan.RecipeIDs() {
				if !excluded[id] {
					return false
				}
			}
			return true
		})).Return([]*recipe.Recipe{replacement, second}, nil)
		suite.planRepo.On("UpdateItem", mock.Anything, plan.ID(), mock.Anything).Return(nil)
		suite.feedbackRepo.On("Record", mock.Anything, suite.userID, rejected, domainplan.FeedbackNegative).Return(nil)
		suite.feedbackRepo.On("Record", mock.Anything, suite.userID, replacement.ID(), domainplan.FeedbackPositive).Return(nil)

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), replacement.ID(), item.RecipeID)
		assert.True(suite.T(), item.Swapped)
		require.NotNil(suite.T(), item.OriginalRecipeID)
		assert.Equal(suite.T(), rejected, *item.OriginalRecipeID)
		suite.feedbackRepo.AssertExpectations(suite.T())
	})

	suite.Run("PlanMissing_ShouldReturnNotFound", func() {
		suite.SetupTest()
		cmd := suite.swapCommand(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(nil, nil)

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		assert.Nil(suite.T(), item)
		assert.Equal(suite.T(), apperrors.CodePlanNotFound, apperrors.GetCode(err))
	})

	suite.Run("NotOwner_ShouldReturnForbidden", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		cmd.UserID = uuid.New() // someone else's request
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		assert.Nil(suite.T(), item)
		assert.Equal(suite.T(), apperrors.CodeForbidden, apperrors.GetCode(err))
	})

	suite.Run("EmptySlot_ShouldReturnSlotNotFound", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		cmd.DayNumber = 5 // nothing assigned there
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		assert.Nil(suite.T(), item)
		assert.Equal(suite.T(), apperrors.CodeSlotNotFound, apperrors.GetCode(err))
	})

	suite.Run("NoReplacementLeft_ShouldReturnNoSafeAlternative", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]*recipe.Recipe{}, nil)

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		assert.Nil(suite.T(), item)
		assert.Equal(suite.T(), apperrors.CodeNoSafeAlternative, apperrors.GetCode(err))
		suite.planRepo.AssertNotCalled(suite.T(), "UpdateItem", mock.Anything, mock.Anything, mock.Anything)
	})

	suite.Run("FeedbackFailure_ShouldNotFailSwap", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		replacement := testutils.NewRecipeBuilder().Build()

		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]*recipe.Recipe{replacement}, nil)
		suite.planRepo.On("UpdateItem", mock.Anything, plan.ID(), mock.Anything).Return(nil)
		suite.feedbackRepo.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("insert failed"))

		item, err := suite.service.SwapSlot(suite.ctx, cmd)

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), replacement.ID(), item.RecipeID)
	})

	suite.Run("LookupFailures_LabelOutcomeByCause", func() {
		suite.SetupTest()
		cmd := suite.swapCommand(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(nil, nil)

		_, err := suite.service.SwapSlot(suite.ctx, cmd)

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.SwapOutcomes.WithLabelValues("plan_not_found")))

		// A storage outage must not count against the not-found signal.
		suite.SetupTest()
		cmd = suite.swapCommand(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(nil, errors.New("connection reset"))

		_, err = suite.service.SwapSlot(suite.ctx, cmd)

		require.Error(suite.T(), err)
		assert.Equal(suite.T(), 1.0, testutil.ToFloat64(suite.metrics.SwapOutcomes.WithLabelValues("lookup_failed")))
		assert.Equal(suite.T(), 0.0, testutil.ToFloat64(suite.metrics.SwapOutcomes.WithLabelValues("plan_not_found")))
	})
}

func (suite *PlannerServiceTestSuite) TestDomainEvents() {
	suite.Run("Generation_PublishesGeneratedEvent", func() {
		suite.SetupTest()
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return(buildPool(10), nil)
		suite.budget.AllowAll()
		suite.oracle.On("GetRankedRecipes", mock.Anything, suite.userID, mock.Anything).Return([]uuid.UUID{}, nil)
		suite.planRepo.On("CreateWithItems", mock.Anything, mock.Anything).Return(nil)

		_, err := suite.service.GeneratePlan(suite.ctx, suite.generateCommand(1))

		require.NoError(suite.T(), err)
		published := suite.logs.FilterMessage("Domain event").All()
		require.Len(suite.T(), published, 1)
		assert.Equal(suite.T(), "mealplan.generated", published[0].ContextMap()["event"])
	})

	suite.Run("Swap_PublishesSwappedEvent", func() {
		suite.SetupTest()
		rejected := uuid.New()
		plan := suite.storedPlan(rejected)
		cmd := suite.swapCommand(rejected)
		replacement := testutils.NewRecipeBuilder().Build()

		suite.planRepo.On("FindByID", mock.Anything, cmd.PlanID).Return(plan, nil)
		suite.allergenRepo.On("FindByUserID", mock.Anything, suite.userID).Return([]allergen.UserAllergen{}, nil)
		suite.recipeRepo.On("FindCandidates", mock.Anything, mock.Anything).Return([]*recipe.Recipe{replacement}, nil)
		suite.planRepo.On("UpdateItem", mock.Anything, plan.ID(), mock.Anything).Return(nil)
		suite.feedbackRepo.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := suite.service.SwapSlot(suite.ctx, cmd)

		require.NoError(suite.T(), err)
		published := suite.logs.FilterMessage("Domain event").All()
		require.Len(suite.T(), published, 1)
		assert.Equal(suite.T(), "mealplan.slot_swapped", published[0].ContextMap()["event"])
	})
}

func (suite *PlannerServiceTestSuite) TestPlanLifecycle() {
	suite.Run("GetPlan_EnforcesOwnership", func() {
		suite.SetupTest()
		plan := suite.storedPlan(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)

		dto, err := suite.service.GetPlan(suite.ctx, suite.userID, plan.ID())
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), plan.ID(), dto.ID)
		assert.Len(suite.T(), dto.Items, 2)

		_, err = suite.service.GetPlan(suite.ctx, uuid.New(), plan.ID())
		assert.Equal(suite.T(), apperrors.CodeForbidden, apperrors.GetCode(err))
	})

	suite.Run("ArchivePlan_PersistsTransition", func() {
		suite.SetupTest()
		plan := suite.storedPlan(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
		suite.planRepo.On("UpdateStatus", mock.Anything, plan.ID(), domainplan.PlanStatusArchived).Return(nil)

		err := suite.service.ArchivePlan(suite.ctx, suite.userID, plan.ID())

		require.NoError(suite.T(), err)
		suite.planRepo.AssertExpectations(suite.T())
	})

	suite.Run("DeletePlan_MissingPlan_ShouldReturnNotFound", func() {
		suite.SetupTest()
		planID := uuid.New()
		suite.planRepo.On("FindByID", mock.Anything, planID).Return(nil, nil)

		err := suite.service.DeletePlan(suite.ctx, suite.userID, planID)

		assert.Equal(suite.T(), apperrors.CodePlanNotFound, apperrors.GetCode(err))
		suite.planRepo.AssertNotCalled(suite.T(), "Delete", mock.Anything, mock.Anything)
	})

	suite.Run("DeletePlan_Owned_ShouldDelete", func() {
		suite.SetupTest()
		plan := suite.storedPlan(uuid.New())
		suite.planRepo.On("FindByID", mock.Anything, plan.ID()).Return(plan, nil)
		suite.planRepo.On("Delete", mock.Anything, plan.ID()).Return(nil)

		err := suite.service.DeletePlan(suite.ctx, suite.userID, plan.ID())

		require.NoError(suite.T(), err)
		suite.planRepo.AssertExpectations(suite.T())
	})
}

func TestPlannerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlannerServiceTestSuite))
}
