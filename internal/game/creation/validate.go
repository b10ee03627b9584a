package creation

import (
	"fmt"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
)

// Kind classifies a validation problem.
type Kind string

const (
	// BudgetExceeded is an error: a pool's used points exceed its available points.
	BudgetExceeded Kind = "budget_exceeded"
	// FavoredCategoryUnmet is a warning: the clan's favored category has no qualifying rating.
	FavoredCategoryUnmet Kind = "favored_category_unmet"
	// FlawCapExceeded is a warning: selected flaws are worth more than can be gained.
	FlawCapExceeded Kind = "flaw_cap_exceeded"
)

// Pool names used in problems and summaries.
const (
	PoolAttributes  = "Attributes"
	PoolSkills      = "Skills"
	PoolMerits      = "Merits"
	PoolFlaws       = "Flaws"
	PoolBackgrounds = "Backgrounds"
)

// Problem is a single error or warning produced by Validate.
type Problem struct {
	Kind      Kind             `json:"kind"`
	Pool      string           `json:"pool"`
	Used      int              `json:"used,omitempty"`
	Available int              `json:"available,omitempty"`
	Favored   catalog.Category `json:"favored,omitempty"`
	Message   string           `json:"message"`
}

// Blocking reports whether the problem prevents submission.
func (p Problem) Blocking() bool { return p.Kind == BudgetExceeded }

func (p Problem) String() string { return p.Message }

// Result is the verdict of Validate.
//
// Invariant: Valid == (len(Errors) == 0).
type Result struct {
	Valid    bool      `json:"valid"`
	Errors   []Problem `json:"errors"`
	Warnings []Problem `json:"warnings"`
}

// ErrorMessages returns the error messages in check order.
func (r Result) ErrorMessages() []string { return messages(r.Errors) }

// WarningMessages returns the warning messages in check order.
func (r Result) WarningMessages() []string { return messages(r.Warnings) }

func messages(ps []Problem) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Message
	}
	return out
}

// Validate runs every creation check against b and collects all problems.
// Checks run in a fixed order (attributes, favored attributes, skills,
// favored skills, merits, flaws, backgrounds) and none stops the others.
//
// Precondition: cat must be indexed.
// Postcondition: b is not modified; calling Validate again yields an equal Result.
func Validate(b Build, cat *catalog.Catalog) Result {
	clan, predator, sect := b.Modifiers(cat)
	var errs, warns []Problem

	if used := AttributePointsUsed(b.Attributes); used > AttributePoints {
		errs = append(errs, budgetProblem(PoolAttributes, used, AttributePoints))
	}
	favored := favoredCategory(clan)
	if favored != "" && !hasFavoredAttribute(b, cat, favored) {
		warns = append(warns, Problem{
			Kind:    FavoredCategoryUnmet,
			Pool:    PoolAttributes,
			Favored: favored,
			Message: fmt.Sprintf("At least one %s attribute must be 2 or higher", favored),
		})
	}

	if used := SkillPointsUsed(b.Skills, predator); used > SkillPoints {
		errs = append(errs, budgetProblem(PoolSkills, used, SkillPoints))
	}
	if favored != "" && !hasFavoredSkill(b, cat, favored) {
		warns = append(warns, Problem{
			Kind:    FavoredCategoryUnmet,
			Pool:    PoolSkills,
			Favored: favored,
			Message: fmt.Sprintf("At least one %s skill must be 1 or higher", favored),
		})
	}

	meritUsed := MeritPointsUsed(b.Merits, cat)
	budget := TotalMeritBudget(b.Flaws, cat)
	if meritUsed > budget {
		errs = append(errs, Problem{
			Kind:      BudgetExceeded,
			Pool:      PoolMerits,
			Used:      meritUsed,
			Available: budget,
			Message: fmt.Sprintf("Merits: Used %d points, but only %d available (%d base + %d from flaws)",
				meritUsed, budget, MeritPoints, budget-MeritPoints),
		})
	}

	if raw := RawFlawPoints(b.Flaws, cat); raw > MaxFlawPoints {
		warns = append(warns, Problem{
			Kind:      FlawCapExceeded,
			Pool:      PoolFlaws,
			Used:      raw,
			Available: MaxFlawPoints,
			Message:   fmt.Sprintf("Flaws: Can only gain up to %d points from flaws", MaxFlawPoints),
		})
	}

	if len(b.Backgrounds) > 0 {
		if used := BackgroundPointsUsed(b.Backgrounds, predator, sect); used > BackgroundPoints {
			errs = append(errs, budgetProblem(PoolBackgrounds, used, BackgroundPoints))
		}
	}

	return Result{
		Valid:    len(errs) == 0,
		Errors:   nonNil(errs),
		Warnings: nonNil(warns),
	}
}

func budgetProblem(pool string, used, available int) Problem {
	return Problem{
		Kind:      BudgetExceeded,
		Pool:      pool,
		Used:      used,
		Available: available,
		Message:   fmt.Sprintf("%s: Used %d points, but only %d available", pool, used, available),
	}
}

func favoredCategory(clan *catalog.Clan) catalog.Category {
	if clan == nil || clan.FavoredCategory == "" || clan.FavoredCategory == catalog.Any {
		return ""
	}
	return clan.FavoredCategory
}

func hasFavoredAttribute(b Build, cat *catalog.Catalog, favored catalog.Category) bool {
	for _, a := range cat.AttributesIn(favored) {
		if b.Attribute(a.ID) >= 2 {
			return true
		}
	}
	return false
}

func hasFavoredSkill(b Build, cat *catalog.Catalog, favored catalog.Category) bool {
	for _, s := range cat.SkillsIn(favored) {
		if b.Skill(s.ID) >= 1 {
			return true
		}
	}
	return false
}

func nonNil(ps []Problem) []Problem {
	if ps == nil {
		return []Problem{}
	}
	return ps
}
