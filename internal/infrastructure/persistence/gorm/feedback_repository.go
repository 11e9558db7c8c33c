package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/mealplan"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"gorm.io/gorm"
)

// FeedbackRepository implements the feedback repository interface using GORM
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(db *gorm.DB) outbound.FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Record appends one accept/reject signal
func (r *FeedbackRepository) Record(ctx context.Context, userID, recipeID uuid.UUID, signal mealplan.FeedbackSignal) error {
	model := &FeedbackModel{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
		Signal:   string(signal),
	}
	return r.db.WithContext(ctx).Create(model).Error
}
