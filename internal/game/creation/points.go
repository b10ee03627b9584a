package creation

import "github.com/cory-johannsen/elysium/internal/game/catalog"

// AttributePointsUsed returns the sum over all entries of rating-1.
// Ratings below 1 are treated as the starting value and cost nothing.
func AttributePointsUsed(attrs map[int64]int) int {
	used := 0
	for _, r := range attrs {
		if r > StartingAttribute {
			used += r - StartingAttribute
		}
	}
	return used
}

// SkillPointsUsed returns the sum of skill ratings. The first dot in the
// predator type's free skill is exempt; further dots there are charged.
//
// Postcondition: result is never negative.
func SkillPointsUsed(skills map[int64]int, predator *catalog.PredatorType) int {
	var free int64
	if predator != nil {
		free = predator.FreeSkillID
	}
	used := 0
	for id, r := range skills {
		if r <= StartingSkill {
			continue
		}
		if free != 0 && id == free {
			r--
		}
		used += r
	}
	return used
}

// MeritPointsUsed returns the total cost of the selected merits. Ids missing
// from the catalog contribute nothing.
func MeritPointsUsed(selected []int64, cat *catalog.Catalog) int {
	used := 0
	for _, id := range distinct(selected) {
		if m, ok := cat.Merit(id); ok {
			used += m.Cost
		}
	}
	return used
}

// RawFlawPoints returns the uncapped sum of selected flaw magnitudes.
func RawFlawPoints(selected []int64, cat *catalog.Catalog) int {
	raw := 0
	for _, id := range distinct(selected) {
		if f, ok := cat.Flaw(id); ok {
			raw += f.Magnitude()
		}
	}
	return raw
}

// FlawPointsGained returns the merit points bought by flaws, capped at MaxFlawPoints.
func FlawPointsGained(selected []int64, cat *catalog.Catalog) int {
	return min(RawFlawPoints(selected, cat), MaxFlawPoints)
}

// TotalMeritBudget returns MeritPoints plus the flaw points gained.
func TotalMeritBudget(selectedFlaws []int64, cat *catalog.Catalog) int {
	return MeritPoints + FlawPointsGained(selectedFlaws, cat)
}

// FreeBackgroundIDs returns the set of background ids granted for free by
// the predator type and sect. A background granted by both appears once.
func FreeBackgroundIDs(predator *catalog.PredatorType, sect *catalog.Sect) map[int64]bool {
	free := make(map[int64]bool, 2)
	if predator != nil && predator.FreeBackground != nil {
		free[predator.FreeBackground.BackgroundID] = true
	}
	if sect != nil && sect.FreeBackground != nil {
		free[sect.FreeBackground.BackgroundID] = true
	}
	return free
}

// BackgroundPointsUsed returns the sum of background ratings, excluding the
// backgrounds granted by the predator type or sect.
func BackgroundPointsUsed(bgs map[int64]int, predator *catalog.PredatorType, sect *catalog.Sect) int {
	free := FreeBackgroundIDs(predator, sect)
	used := 0
	for id, r := range bgs {
		if free[id] || r <= 0 {
			continue
		}
		used += r
	}
	return used
}
