// Package mealplan provides the application layer for plan generation
// and slot swapping, implementing the use cases defined in the inbound
// ports.
package mealplan

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/application/ranking"
	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/domain/recipe"
	"github.com/snacktrack/v2/internal/infrastructure/config"
	"github.com/snacktrack/v2/internal/infrastructure/monitoring"
	"github.com/snacktrack/v2/internal/ports/inbound"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"github.com/snacktrack/v2/pkg/errors"
	"go.uber.org/zap"
)

// PlannerService implements the meal plan use cases
type PlannerService struct {
	recipeRepo   outbound.RecipeRepository
	planRepo     outbound.MealPlanRepository
	allergenRepo outbound.AllergenRepository
	feedbackRepo outbound.FeedbackRepository
	ranker       *ranking.Ranker
	trainer      *ranking.Trainer
	metrics      *monitoring.Metrics
	cfg          config.PlannerConfig
	engine       *assignmentEngine
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewPlannerService creates a new planner service
func NewPlannerService(
	recipeRepo outbound.RecipeRepository,
	planRepo outbound.MealPlanRepository,
	allergenRepo outbound.AllergenRepository,
	feedbackRepo outbound.FeedbackRepository,
	ranker *ranking.Ranker,
	trainer *ranking.Trainer,
	metrics *monitoring.Metrics,
	cfg config.PlannerConfig,
	logger *zap.Logger,
) inbound.MealPlanService {
	return &PlannerService{
		recipeRepo:   recipeRepo,
		planRepo:     planRepo,
		allergenRepo: allergenRepo,
		feedbackRepo: feedbackRepo,
		ranker:       ranker,
		trainer:      trainer,
		metrics:      metrics,
		cfg:          cfg,
		engine:       newAssignmentEngine(time.Now().UnixNano()),
		validate:     validator.New(),
		logger:       logger.Named("planner-service"),
	}
}

// GeneratePlan fills a 1- or 7-day grid of breakfast/lunch/dinner
// slots from the allergen-safe candidate pool.
func (s *PlannerService) GeneratePlan(ctx context.Context, cmd inbound.GeneratePlanCommand) (*inbound.MealPlanDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	s.logger.Info("Generating meal plan",
		zap.String("user_id", cmd.UserID.String()),
		zap.Int("horizon_days", cmd.HorizonDays),
		zap.Float64("calorie_target", cmd.CalorieTarget),
	)
	started := time.Now()

	safePool, err := s.safeCandidatePool(ctx, cmd.UserID, outbound.CandidateFilter{
		DietType:        cmd.DietType,
		MaxReadyMinutes: cmd.MaxPrepMinutes,
		Limit:           s.cfg.CandidatePoolSize,
	})
	if err != nil {
		return nil, err
	}
	if len(safePool) == 0 {
		return nil, errors.NewInsufficientCandidatesError().
			WithMetadata("user_id", cmd.UserID.String())
	}

	// Preference ranking is a tie-break only; an empty map means the
	// oracle is degraded and assignment proceeds on calorie distance.
	preferenceRank := s.ranker.Rank(ctx, cmd.UserID, len(safePool))

	plan, err := mealplan.NewMealPlan(cmd.UserID, cmd.StartDate, cmd.HorizonDays, cmd.CalorieTarget)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create plan entity")
	}

	// Slot assignment is strictly sequential: every pick depends on
	// the exclusion set built from all prior picks in this call.
	used := make(map[uuid.UUID]struct{})
	for day := 1; day <= cmd.HorizonDays; day++ {
		for _, slot := range mealplan.GeneratedSlots() {
			target := cmd.CalorieTarget * slot.SlotFraction()
			picked := s.engine.pick(safePool, used, target, preferenceRank)
			if picked == nil {
				return nil, errors.NewInsufficientCandidatesError().
					WithMetadata("user_id", cmd.UserID.String())
			}

			if err := plan.AssignSlot(day, slot, picked.ID(), s.cfg.DefaultServings); err != nil {
				return nil, errors.Wrap(err, "failed to assign slot")
			}
			used[picked.ID()] = struct{}{}
		}
	}
	plan.MarkGenerated()

	if err := s.planRepo.CreateWithItems(ctx, plan); err != nil {
		return nil, errors.NewDatabaseError("create meal plan", err)
	}
	s.publishEvents(plan)

	s.metrics.PlansGenerated.WithLabelValues(horizonLabel(cmd.HorizonDays)).Inc()
	s.metrics.GenerationDuration.Observe(time.Since(started).Seconds())

	s.logger.Info("Meal plan generated",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("items", len(plan.Items())),
		zap.Bool("ranked", len(preferenceRank) > 0),
	)

	return planToDTO(plan), nil
}

// SwapSlot replaces one slot's recipe with the first safe candidate
// outside the plan and the rejected recipe.
func (s *PlannerService) SwapSlot(ctx context.Context, cmd inbound.SwapSlotCommand) (*inbound.PlanItemDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if !cmd.MealType.IsValid() {
		return nil, errors.NewValidationError("unknown meal type")
	}

	plan, err := s.loadOwnedPlan(ctx, cmd.UserID, cmd.PlanID)
	if err != nil {
		s.metrics.SwapOutcomes.WithLabelValues(lookupOutcomeLabel(err)).Inc()
		return nil, err
	}

	if plan.ItemAt(cmd.DayNumber, cmd.MealType) == nil {
		s.metrics.SwapOutcomes.WithLabelValues("slot_not_found").Inc()
		return nil, errors.NewSlotNotFoundError(cmd.DayNumber, string(cmd.MealType))
	}

	excludeIDs := append(plan.RecipeIDs(), cmd.RejectedRecipeID)
	safePool, err := s.safeCandidatePool(ctx, cmd.UserID, outbound.CandidateFilter{
		ExcludeIDs: excludeIDs,
		Limit:      s.cfg.CandidatePoolSize,
	})
	if err != nil {
		return nil, err
	}
	if len(safePool) == 0 {
		s.metrics.SwapOutcomes.WithLabelValues("no_alternative").Inc()
		return nil, errors.NewNoSafeAlternativeError().
			WithMetadata("plan_id", cmd.PlanID.String())
	}

	// First-match policy: swap does not re-rank by calorie distance.
	replacement := safePool[0]

	item, err := plan.SwapSlot(cmd.DayNumber, cmd.MealType, replacement.ID())
	if err != nil {
		return nil, errors.Wrap(err, "failed to swap slot")
	}

	if err := s.planRepo.UpdateItem(ctx, plan.ID(), item); err != nil {
		return nil, errors.NewDatabaseError("update plan item", err)
	}
	s.publishEvents(plan)

	// Accept/reject signals feed the recommender's next training run.
	// Their persistence must not fail the swap the user already got.
	s.recordFeedback(ctx, cmd.UserID, cmd.RejectedRecipeID, mealplan.FeedbackNegative)
	s.recordFeedback(ctx, cmd.UserID, replacement.ID(), mealplan.FeedbackPositive)
	s.trainer.TrainAsync(cmd.UserID)

	s.metrics.SwapOutcomes.WithLabelValues("swapped").Inc()
	s.logger.Info("Slot swapped",
		zap.String("plan_id", plan.ID().String()),
		zap.Int("day_number", cmd.DayNumber),
		zap.String("meal_type", string(cmd.MealType)),
		zap.String("accepted_recipe_id", replacement.ID().String()),
	)

	dto := itemToDTO(item)
	return &dto, nil
}

// GetPlan loads a plan with its items, enforcing ownership.
func (s *PlannerService) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*inbound.MealPlanDTO, error) {
	plan, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return planToDTO(plan), nil
}

// ArchivePlan transitions an active plan to archived.
func (s *PlannerService) ArchivePlan(ctx context.Context, userID, planID uuid.UUID) error {
	plan, err := s.loadOwnedPlan(ctx, userID, planID)
	if err != nil {
		return err
	}

	if err := plan.Archive(); err != nil {
		return errors.Wrap(err, "failed to archive plan")
	}

	if err := s.planRepo.UpdateStatus(ctx, plan.ID(), plan.Status()); err != nil {
		return errors.NewDatabaseError("update plan status", err)
	}
	s.publishEvents(plan)
	return nil
}

// DeletePlan removes a plan; its items go with it by cascade.
func (s *PlannerService) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	if _, err := s.loadOwnedPlan(ctx, userID, planID); err != nil {
		return err
	}

	if err := s.planRepo.Delete(ctx, planID); err != nil {
		return errors.NewDatabaseError("delete meal plan", err)
	}
	return nil
}

// safeCandidatePool queries the recipe store and drops every recipe
// conflicting with the user's registered allergens.
func (s *PlannerService) safeCandidatePool(ctx context.Context, userID uuid.UUID, filter outbound.CandidateFilter) ([]*recipe.Recipe, error) {
	userAllergens, err := s.allergenRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load user allergens", err)
	}

	candidates, err := s.recipeRepo.FindCandidates(ctx, filter)
	if err != nil {
		return nil, errors.NewDatabaseError("query candidate recipes", err)
	}

	safe, unsafe := allergen.FilterSafe(candidates, allergen.Types(userAllergens))
	if len(unsafe) > 0 {
		s.logger.Debug("Candidates dropped by allergen filter",
			zap.String("user_id", userID.String()),
			zap.Int("dropped", len(unsafe)),
		)
	}
	return safe, nil
}

// loadOwnedPlan distinguishes not-found from ownership mismatch. The
// forbidden path stays deliberately vague so existence is not leaked.
func (s *PlannerService) loadOwnedPlan(ctx context.Context, userID, planID uuid.UUID) (*mealplan.MealPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, errors.NewDatabaseError("find meal plan", err)
	}
	if plan == nil {
		return nil, errors.NewPlanNotFoundError(planID.String())
	}
	if !plan.OwnedBy(userID) {
		return nil, errors.NewForbiddenError()
	}
	return plan, nil
}

func (s *PlannerService) recordFeedback(ctx context.Context, userID, recipeID uuid.UUID, signal mealplan.FeedbackSignal) {
	if err := s.feedbackRepo.Record(ctx, userID, recipeID, signal); err != nil {
		s.logger.Error("Failed to record feedback signal",
			zap.String("user_id", userID.String()),
			zap.String("recipe_id", recipeID.String()),
			zap.String("signal", string(signal)),
			zap.Error(err),
		)
	}
}

// publishEvents drains the aggregate's pending domain events into the
// structured log after persistence. The planning core has no message
// bus; the log is the event sink the surrounding platform consumes.
func (s *PlannerService) publishEvents(plan *mealplan.MealPlan) {
	for _, evt := range plan.Events() {
		s.logger.Info("Domain event",
			zap.String("event", evt.EventName()),
			zap.String("plan_id", plan.ID().String()),
			zap.Time("occurred_at", evt.OccurredAt()),
		)
	}
}

func horizonLabel(days int) string {
	if days == 7 {
		return "weekly"
	}
	return "daily"
}

// lookupOutcomeLabel keeps swap failure metrics separable by cause: a
// database outage must not alert like a burst of not-found requests.
func lookupOutcomeLabel(err error) string {
	switch errors.GetCode(err) {
	case errors.CodePlanNotFound:
		return "plan_not_found"
	case errors.CodeForbidden:
		return "forbidden"
	default:
		return "lookup_failed"
	}
}

// planToDTO converts a plan aggregate to its DTO projection.
func planToDTO(p *mealplan.MealPlan) *inbound.MealPlanDTO {
	items := make([]inbound.PlanItemDTO, len(p.Items()))
	for i, item := range p.Items() {
		items[i] = itemToDTO(item)
	}

	return &inbound.MealPlanDTO{
		ID:            p.ID(),
		UserID:        p.UserID(),
		StartDate:     p.StartDate(),
		EndDate:       p.EndDate(),
		HorizonDays:   p.HorizonDays(),
		Status:        string(p.Status()),
		CalorieTarget: p.CalorieTarget(),
		Items:         items,
		CreatedAt:     p.CreatedAt(),
	}
}

func itemToDTO(item *mealplan.PlanItem) inbound.PlanItemDTO {
	return inbound.PlanItemDTO{
		ID:               item.ID,
		DayNumber:        item.DayNumber,
		MealType:         string(item.MealType),
		RecipeID:         item.RecipeID,
		Servings:         item.Servings,
		Swapped:          item.Swapped,
		OriginalRecipeID: item.OriginalRecipeID,
	}
}
