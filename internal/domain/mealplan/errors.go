package mealplan

import "errors"

// Domain errors for meal plan operations

var (
	// Construction errors
	ErrInvalidHorizon       = errors.New("plan horizon must be 1 or 7 days")
	ErrInvalidCalorieTarget = errors.New("daily calorie target must be greater than 0")
	ErrMissingOwner         = errors.New("plan owner is required")

	// Slot errors
	ErrSlotTaken       = errors.New("slot already holds an item")
	ErrSlotNotFound    = errors.New("no item exists at the requested slot")
	ErrDayOutOfRange   = errors.New("day number is outside the plan's date range")
	ErrInvalidMealType = errors.New("unknown meal type")
	ErrInvalidServings = errors.New("servings multiplier must be greater than 0")

	// State errors
	ErrPlanNotFound            = errors.New("meal plan not found")
	ErrNotPlanOwner            = errors.New("caller does not own this meal plan")
	ErrInvalidStatusTransition = errors.New("invalid plan status transition")
)
