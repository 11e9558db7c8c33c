package mealplan

import (
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/snacktrack/v2/internal/domain/recipe"
)

// assignmentEngine selects one recipe per slot from the safe candidate
// pool. Selection is deterministic for a given pool order except in
// the forced-repeat fallback, which is explicitly random.
type assignmentEngine struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newAssignmentEngine(seed int64) *assignmentEngine {
	return &assignmentEngine{rng: rand.New(rand.NewSource(seed))}
}

// pick chooses a recipe for a slot with the given calorie target.
//
// Ranking among unused candidates: primary key is the absolute
// distance between the recipe's calories and the target; recipes with
// unknown calories rank behind every known-calorie candidate (absence
// is never read as zero). Ties break on the preference rank position,
// missing rank counting as worst; remaining ties keep pool order,
// which is the store's freshness ordering.
//
// When every candidate is already used the engine permits a repeat,
// chosen uniformly at random from the whole safe pool, so generation
// cannot fail on a pool smaller than the grid.
func (e *assignmentEngine) pick(
	pool []*recipe.Recipe,
	used map[uuid.UUID]struct{},
	targetCalories float64,
	preferenceRank map[uuid.UUID]int,
) *recipe.Recipe {
	if len(pool) == 0 {
		return nil
	}

	var best *recipe.Recipe
	bestDist := math.Inf(1)
	bestRank := math.MaxInt

	for _, c := range pool {
		if _, taken := used[c.ID()]; taken {
			continue
		}

		dist := math.Inf(1)
		if cal := c.Calories(); cal != nil {
			dist = math.Abs(*cal - targetCalories)
		}

		rank := math.MaxInt
		if r, ok := preferenceRank[c.ID()]; ok {
			rank = r
		}

		// The explicit nil check keeps an unused candidate selectable
		// even when both keys equal the sentinels (unknown calories
		// and no preference rank).
		if best == nil || dist < bestDist || (dist == bestDist && rank < bestRank) {
			best = c
			bestDist = dist
			bestRank = rank
		}
	}

	if best != nil {
		return best
	}

	// Pool exhausted: force a repeat.
	e.mu.Lock()
	defer e.mu.Unlock()
	return pool[e.rng.Intn(len(pool))]
}
