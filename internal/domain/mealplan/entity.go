// Package mealplan contains the meal plan aggregate. A plan is a grid
// of (day number, meal type) slots over a 1- or 7-day calendar range,
// each slot holding one recipe assignment.
package mealplan

import (
	"time"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/shared"
)

// MealPlan is the aggregate root for a generated plan and its items.
type MealPlan struct {
	id      uuid.UUID
	userID  uuid.UUID
	version int64

	startDate   time.Time // calendar date, no time component
	horizonDays int       // 1 (daily) or 7 (weekly)

	status        PlanStatus
	calorieTarget float64 // overall daily target

	items []*PlanItem

	createdAt time.Time
	updatedAt time.Time

	events []shared.DomainEvent
}

// PlanItem is one slot assignment within a plan. Slots are unique per
// plan on the (day number, meal type) pair.
type PlanItem struct {
	ID        uuid.UUID
	DayNumber int
	MealType  MealType
	RecipeID  uuid.UUID
	Servings  float64

	// Swap audit trail. OriginalRecipeID is set only when Swapped.
	Swapped          bool
	OriginalRecipeID *uuid.UUID
}

// NewMealPlan creates an empty plan for the given horizon. The date is
// truncated to a calendar day in UTC.
func NewMealPlan(userID uuid.UUID, startDate time.Time, horizonDays int, calorieTarget float64) (*MealPlan, error) {
	if userID == uuid.Nil {
		return nil, ErrMissingOwner
	}
	if horizonDays != 1 && horizonDays != 7 {
		return nil, ErrInvalidHorizon
	}
	if calorieTarget <= 0 {
		return nil, ErrInvalidCalorieTarget
	}

	now := time.Now().UTC()
	return &MealPlan{
		id:            uuid.New(),
		userID:        userID,
		version:       1,
		startDate:     truncateToDate(startDate),
		horizonDays:   horizonDays,
		status:        PlanStatusActive,
		calorieTarget: calorieTarget,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstituteParams carries persisted state back into the aggregate.
type ReconstituteParams struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Version       int64
	StartDate     time.Time
	HorizonDays   int
	Status        PlanStatus
	CalorieTarget float64
	Items         []*PlanItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reconstitute rebuilds a plan from storage without raising events.
func Reconstitute(p ReconstituteParams) *MealPlan {
	return &MealPlan{
		id:            p.ID,
		userID:        p.UserID,
		version:       p.Version,
		startDate:     truncateToDate(p.StartDate),
		horizonDays:   p.HorizonDays,
		status:        p.Status,
		calorieTarget: p.CalorieTarget,
		items:         p.Items,
		createdAt:     p.CreatedAt,
		updatedAt:     p.UpdatedAt,
	}
}

// ID returns the plan identity.
func (p *MealPlan) ID() uuid.UUID { return p.id }

// UserID returns the owning user.
func (p *MealPlan) UserID() uuid.UUID { return p.userID }

// Version returns the optimistic-locking version.
func (p *MealPlan) Version() int64 { return p.version }

// StartDate returns the first calendar date of the plan.
func (p *MealPlan) StartDate() time.Time { return p.startDate }

// EndDate returns the last calendar date of the plan (inclusive).
func (p *MealPlan) EndDate() time.Time {
	return p.startDate.AddDate(0, 0, p.horizonDays-1)
}

// HorizonDays returns the number of days the plan covers.
func (p *MealPlan) HorizonDays() int { return p.horizonDays }

// Status returns the plan lifecycle status.
func (p *MealPlan) Status() PlanStatus { return p.status }

// CalorieTarget returns the overall daily calorie target.
func (p *MealPlan) CalorieTarget() float64 { return p.calorieTarget }

// Items returns the plan's slot assignments.
func (p *MealPlan) Items() []*PlanItem { return p.items }

// CreatedAt returns when the plan was created.
func (p *MealPlan) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the plan was last modified.
func (p *MealPlan) UpdatedAt() time.Time { return p.updatedAt }

// OwnedBy reports whether the given user owns this plan.
func (p *MealPlan) OwnedBy(userID uuid.UUID) bool {
	return p.userID == userID
}

// ItemAt returns the item at the given slot, or nil.
func (p *MealPlan) ItemAt(dayNumber int, mealType MealType) *PlanItem {
	for _, item := range p.items {
		if item.DayNumber == dayNumber && item.MealType == mealType {
			return item
		}
	}
	return nil
}

// AssignSlot places a recipe into an empty slot.
func (p *MealPlan) AssignSlot(dayNumber int, mealType MealType, recipeID uuid.UUID, servings float64) error {
	if dayNumber < 1 || dayNumber > p.horizonDays {
		return ErrDayOutOfRange
	}
	if !mealType.IsValid() {
		return ErrInvalidMealType
	}
	if servings <= 0 {
		return ErrInvalidServings
	}
	if p.ItemAt(dayNumber, mealType) != nil {
		return ErrSlotTaken
	}

	p.items = append(p.items, &PlanItem{
		ID:        uuid.New(),
		DayNumber: dayNumber,
		MealType:  mealType,
		RecipeID:  recipeID,
		Servings:  servings,
	})
	p.updatedAt = time.Now().UTC()
	return nil
}

// SwapSlot replaces the recipe in an occupied slot, marking the item
// swapped and keeping the first original assignment for audit/undo.
func (p *MealPlan) SwapSlot(dayNumber int, mealType MealType, replacementID uuid.UUID) (*PlanItem, error) {
	item := p.ItemAt(dayNumber, mealType)
	if item == nil {
		return nil, ErrSlotNotFound
	}

	rejected := item.RecipeID
	if !item.Swapped {
		original := item.RecipeID
		item.OriginalRecipeID = &original
	}
	item.RecipeID = replacementID
	item.Swapped = true
	p.updatedAt = time.Now().UTC()

	p.addEvent(SlotSwappedEvent{
		PlanID:           p.id,
		UserID:           p.userID,
		DayNumber:        dayNumber,
		MealType:         mealType,
		RejectedRecipeID: rejected,
		AcceptedRecipeID: replacementID,
		SwappedAt:        p.updatedAt,
	})
	return item, nil
}

// RecipeIDs returns every recipe currently assigned anywhere in the
// plan, deduplicated.
func (p *MealPlan) RecipeIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(p.items))
	out := make([]uuid.UUID, 0, len(p.items))
	for _, item := range p.items {
		if _, ok := seen[item.RecipeID]; ok {
			continue
		}
		seen[item.RecipeID] = struct{}{}
		out = append(out, item.RecipeID)
	}
	return out
}

// MarkGenerated records the generation event once all slots are filled.
func (p *MealPlan) MarkGenerated() {
	p.addEvent(PlanGeneratedEvent{
		PlanID:      p.id,
		UserID:      p.userID,
		HorizonDays: p.horizonDays,
		ItemCount:   len(p.items),
		GeneratedAt: time.Now().UTC(),
	})
}

// Archive transitions an active plan to archived.
func (p *MealPlan) Archive() error {
	if p.status != PlanStatusActive {
		return ErrInvalidStatusTransition
	}
	p.status = PlanStatusArchived
	p.updatedAt = time.Now().UTC()
	p.addEvent(PlanArchivedEvent{PlanID: p.id, ArchivedAt: p.updatedAt})
	return nil
}

// Events returns and clears pending domain events.
func (p *MealPlan) Events() []shared.DomainEvent {
	events := p.events
	p.events = nil
	return events
}

func (p *MealPlan) addEvent(event shared.DomainEvent) {
	p.events = append(p.events, event)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
