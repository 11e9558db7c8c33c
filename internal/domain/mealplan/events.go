package mealplan

import (
	"time"

	"github.com/google/uuid"
)

// PlanGeneratedEvent is raised when a plan is generated with its items.
type PlanGeneratedEvent struct {
	PlanID      uuid.UUID
	UserID      uuid.UUID
	HorizonDays int
	ItemCount   int
	GeneratedAt time.Time
}

// EventName returns the event name
func (e PlanGeneratedEvent) EventName() string {
	return "mealplan.generated"
}

// OccurredAt returns when the event occurred
func (e PlanGeneratedEvent) OccurredAt() time.Time {
	return e.GeneratedAt
}

// SlotSwappedEvent is raised when a slot's recipe is replaced.
type SlotSwappedEvent struct {
	PlanID           uuid.UUID
	UserID           uuid.UUID
	DayNumber        int
	MealType         MealType
	RejectedRecipeID uuid.UUID
	AcceptedRecipeID uuid.UUID
	SwappedAt        time.Time
}

// EventName returns the event name
func (e SlotSwappedEvent) EventName() string {
	return "mealplan.slot_swapped"
}

// OccurredAt returns when the event occurred
func (e SlotSwappedEvent) OccurredAt() time.Time {
	return e.SwappedAt
}

// PlanArchivedEvent is raised when an active plan is archived.
type PlanArchivedEvent struct {
	PlanID     uuid.UUID
	ArchivedAt time.Time
}

// EventName returns the event name
func (e PlanArchivedEvent) EventName() string {
	return "mealplan.archived"
}

// OccurredAt returns when the event occurred
func (e PlanArchivedEvent) OccurredAt() time.Time {
	return e.ArchivedAt
}
