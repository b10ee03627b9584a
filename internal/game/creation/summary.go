package creation

import "github.com/cory-johannsen/elysium/internal/game/catalog"

// Pool reports usage of one creation pool. Remaining is negative when over budget.
type Pool struct {
	Used      int `json:"used"`
	Available int `json:"available"`
	Remaining int `json:"remaining"`
}

// MeritPool is the merit pool with the share of Available bought by flaws.
type MeritPool struct {
	Pool
	FromFlaws int `json:"from_flaws"`
}

// FlawPool reports flaw points gained against the cap.
type FlawPool struct {
	PointsGained int `json:"points_gained"`
	MaxGain      int `json:"max_gain"`
}

// Summary is the display projection of a build's pool usage.
type Summary struct {
	Attributes  Pool      `json:"attributes"`
	Skills      Pool      `json:"skills"`
	Merits      MeritPool `json:"merits"`
	Flaws       FlawPool  `json:"flaws"`
	Backgrounds Pool      `json:"backgrounds"`
}

// OverBudget reports whether any pool has negative Remaining.
func (s Summary) OverBudget() bool {
	return s.Attributes.Remaining < 0 || s.Skills.Remaining < 0 ||
		s.Merits.Remaining < 0 || s.Backgrounds.Remaining < 0
}

func pool(used, available int) Pool {
	return Pool{Used: used, Available: available, Remaining: available - used}
}

// Summarize computes pool usage for b with the same helpers Validate uses.
// It never reports problems.
//
// Precondition: cat must be indexed.
func Summarize(b Build, cat *catalog.Catalog) Summary {
	_, predator, sect := b.Modifiers(cat)
	gained := FlawPointsGained(b.Flaws, cat)
	return Summary{
		Attributes: pool(AttributePointsUsed(b.Attributes), AttributePoints),
		Skills:     pool(SkillPointsUsed(b.Skills, predator), SkillPoints),
		Merits: MeritPool{
			Pool:      pool(MeritPointsUsed(b.Merits, cat), MeritPoints+gained),
			FromFlaws: gained,
		},
		Flaws:       FlawPool{PointsGained: gained, MaxGain: MaxFlawPoints},
		Backgrounds: pool(BackgroundPointsUsed(b.Backgrounds, predator, sect), BackgroundPoints),
	}
}
