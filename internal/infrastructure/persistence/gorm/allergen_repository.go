package gorm

import (
	"context"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/allergen"
	"github.com/snacktrack/v2/internal/ports/outbound"
	"gorm.io/gorm"
)

// AllergenRepository implements the allergen repository interface using GORM
type AllergenRepository struct {
	db *gorm.DB
}

// NewAllergenRepository creates a new allergen repository
func NewAllergenRepository(db *gorm.DB) outbound.AllergenRepository {
	return &AllergenRepository{db: db}
}

// FindByUserID returns the user's registered allergens. A user with no
// registrations gets an empty slice, not an error.
func (r *AllergenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]allergen.UserAllergen, error) {
	var models []UserAllergenModel

	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	allergens := make([]allergen.UserAllergen, len(models))
	for i := range models {
		allergens[i] = ModelToUserAllergen(&models[i])
	}
	return allergens, nil
}
