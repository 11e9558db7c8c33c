// Package testutils provides mock implementations and test data
// factories shared across the test suites.
package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

// FindCandidates returns the configured candidate pool
func (m *MockRecipeRepository) FindCandidates(ctx context.Context, filter outbound.CandidateFilter) ([]*recipe.Recipe, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*recipe.Recipe), args.Error(1)
}

// FindByID finds a recipe by ID
func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.Recipe), args.Error(1)
}

// MockMealPlanRepository provides a mock implementation of MealPlanRepository
type MockMealPlanRepository struct {
	mock.Mock
}

// CreateWithItems persists a plan
func (m *MockMealPlanRepository) CreateWithItems(ctx context.Context, plan *mealplan.MealPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// FindByID loads a plan
func (m *MockMealPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*mealplan.MealPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mealplan.MealPlan), args.Error(1)
}

// UpdateItem writes back one item
func (m *MockMealPlanRepository) UpdateItem(ctx context.Context, planID uuid.UUID, item *mealplan.PlanItem) error {
	args := m.Called(ctx, planID, item)
	return args.Error(0)
}

// UpdateStatus writes back the plan status
func (m *MockMealPlanRepository) UpdateStatus(ctx context.Context, planID uuid.UUID, status mealplan.PlanStatus) error {
	args := m.Called(ctx, planID, status)
	return args.Error(0)
}

// Delete removes a plan
func (m *MockMealPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAllergenRepository provides a mock implementation of AllergenRepository
type MockAllergenRepository struct {
	mock.Mock
}

// FindByUserID returns the configured allergen profile
func (m *MockAllergenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]allergen.UserAllergen, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]allergen.UserAllergen), args.Error(1)
}

// MockFeedbackRepository provides a mock implementation of FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

// Record appends one feedback signal
func (m *MockFeedbackRepository) Record(ctx context.Context, userID, recipeID uuid.UUID, signal mealplan.FeedbackSignal) error {
	args := m.Called(ctx, userID, recipeID, signal)
	return args.Error(0)
}

// MockPreferenceOracle provides a mock implementation of PreferenceOracle
type MockPreferenceOracle struct {
	mock.Mock
}

// GetRankedRecipes returns the configured ranking
func (m *MockPreferenceOracle) GetRankedRecipes(ctx context.Context, userID uuid.UUID, count int) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// Train triggers a retraining run
func (m *MockPreferenceOracle) Train(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// Ping checks service liveness
func (m *MockPreferenceOracle) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockRateBudget provides a mock implementation of RateBudget
type MockRateBudget struct {
	mock.Mock
}

// TryConsume reports whether a call may proceed
func (m *MockRateBudget) TryConsume(ctx context.Context, operation string) bool {
	args := m.Called(ctx, operation)
	return args.Bool(0)
}

// AllowAll configures the budget to permit every operation
func (m *MockRateBudget) AllowAll() {
	m.On("TryConsume", mock.Anything, mock.Anything).Return(true)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

// Get retrieves a value
func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Set stores a value
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

// Delete removes a value
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Increment bumps a counter
func (m *MockCacheRepository) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	args := m.Called(ctx, key, ttl)
	return args.Get(0).(int64), args.Error(1)
}
