package mealplan

// MealType identifies a meal slot within a day.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// Fixed share of the daily calorie target assigned to each slot. The
// snack share is reserved but snacks are never auto-generated.
var slotFractions = map[MealType]float64{
	MealTypeBreakfast: 0.25,
	MealTypeLunch:     0.35,
	MealTypeDinner:    0.35,
	MealTypeSnack:     0.05,
}

// SlotFraction returns the calorie share for a meal type.
func (m MealType) SlotFraction() float64 {
	return slotFractions[m]
}

// IsValid reports whether the meal type is one of the known slots.
func (m MealType) IsValid() bool {
	_, ok := slotFractions[m]
	return ok
}

// GeneratedSlots is the fixed slot order plan generation fills.
func GeneratedSlots() []MealType {
	return []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner}
}

// PlanStatus represents the lifecycle state of a meal plan.
type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "draft"
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// Slot is a (day number, meal type) coordinate within a plan.
type Slot struct {
	DayNumber int
	MealType  MealType
}

// FeedbackSignal grades a recipe interaction recorded for the
// recommender's training input.
type FeedbackSignal string

const (
	FeedbackPositive FeedbackSignal = "positive"
	FeedbackNegative FeedbackSignal = "negative"
)
