// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeModel represents the GORM model for cached recipes. The
// planning core treats this table as a read model refreshed by the
// catalog importer.
type RecipeModel struct {
	ID    uuid.UUID `gorm:"type:char(36);primaryKey"`
	Title string    `gorm:"type:varchar(255);not null"`

	// Per-serving nutrition. Columns are nullable because upstream
	// provider data is incomplete; NULL must survive round trips.
	Nutrition NutritionModel `gorm:"embedded;embeddedPrefix:nutrition_"`

	// Categorization
	AllergenTags StringSlice `gorm:"type:json"`
	DietTags     StringSlice `gorm:"type:json"`

	ReadyMinutes int `gorm:"column:ready_minutes;default:0"`

	// CachedAt is the freshness timestamp the candidate pool orders by.
	CachedAt  time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NutritionModel represents embedded per-serving nutrition values
type NutritionModel struct {
	Calories *float64
	Protein  *float64
	Carbs    *float64
	Fat      *float64
	Sodium   *float64
	Fiber    *float64
	Sugar    *float64
}

// MealPlanModel represents the GORM model for meal plans
type MealPlanModel struct {
	ID      uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Version int64     `gorm:"default:1"`

	StartDate   time.Time `gorm:"not null"`
	HorizonDays int       `gorm:"not null"`

	Status        string  `gorm:"type:varchar(20);default:'active';index"`
	CalorieTarget float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	Items []PlanItemModel `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// PlanItemModel represents one slot assignment. The composite unique
// index enforces slot uniqueness at the storage layer too.
type PlanItemModel struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	PlanID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_plan_slot"`
	DayNumber int       `gorm:"not null;uniqueIndex:idx_plan_slot"`
	MealType  string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_plan_slot"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Servings  float64   `gorm:"default:1"`

	// Swap audit trail
	Swapped          bool       `gorm:"default:false"`
	OriginalRecipeID *uuid.UUID `gorm:"type:char(36)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserAllergenModel represents a registered allergen on a user profile
type UserAllergenModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   uuid.UUID `gorm:"type:char(36);not null;index"`
	Type     string    `gorm:"type:varchar(100);not null"`
	Severity string    `gorm:"type:varchar(20);default:'moderate'"`

	CreatedAt time.Time
}

// FeedbackModel records accept/reject signals consumed by the
// recommender's training pipeline.
type FeedbackModel struct {
	ID       uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID   uuid.UUID `gorm:"type:char(36);not null;index"`
	RecipeID uuid.UUID `gorm:"type:char(36);not null;index"`
	Signal   string    `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time `gorm:"index"`
}

// StringSlice is a custom type for storing string slices as JSON
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// TableName methods for custom table names
func (RecipeModel) TableName() string       { return "recipes" }
func (MealPlanModel) TableName() string     { return "meal_plans" }
func (PlanItemModel) TableName() string     { return "plan_items" }
func (UserAllergenModel) TableName() string { return "user_allergens" }
func (FeedbackModel) TableName() string     { return "feedback_signals" }

// BeforeCreate hooks assign identities when callers did not.

func (m *RecipeModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *MealPlanModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *PlanItemModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *UserAllergenModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *FeedbackModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&RecipeModel{},
		&MealPlanModel{},
		&PlanItemModel{},
		&UserAllergenModel{},
		&FeedbackModel{},
	)
}
