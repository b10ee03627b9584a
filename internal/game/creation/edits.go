package creation

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
)

// ErrUnknownTrait is returned when an edit names an id missing from the catalog.
var ErrUnknownTrait = errors.New("unknown trait")

// SetAttribute returns a copy of b with the attribute clamped into [1,5].
func SetAttribute(b Build, cat *catalog.Catalog, id int64, rating int) (Build, error) {
	if _, ok := cat.Attribute(id); !ok {
		return b, fmt.Errorf("attribute %d: %w", id, ErrUnknownTrait)
	}
	next := b.Clone()
	next.Attributes[id] = clampRating(rating, StartingAttribute, MaxRating)
	return next, nil
}

// SetSkill returns a copy of b with the skill clamped into [0,5].
func SetSkill(b Build, cat *catalog.Catalog, id int64, rating int) (Build, error) {
	if _, ok := cat.Skill(id); !ok {
		return b, fmt.Errorf("skill %d: %w", id, ErrUnknownTrait)
	}
	next := b.Clone()
	next.Skills[id] = clampRating(rating, StartingSkill, MaxRating)
	return next, nil
}

// SetDiscipline returns a copy of b with the discipline clamped into [0,5].
// An in-clan discipline cannot drop below 1 while the clan is chosen.
func SetDiscipline(b Build, cat *catalog.Catalog, id int64, rating int) (Build, error) {
	if _, ok := cat.Discipline(id); !ok {
		return b, fmt.Errorf("discipline %d: %w", id, ErrUnknownTrait)
	}
	floor := 0
	if clan, _, _ := b.Modifiers(cat); clan.GrantsDiscipline(id) {
		floor = StartingDiscipline
	}
	next := b.Clone()
	setDiscipline(&next, id, clampRating(rating, floor, MaxRating))
	return next, nil
}

// SetBackground returns a copy of b with the background clamped into
// [1, max_rating]. A rating of 0 or less removes the background.
func SetBackground(b Build, cat *catalog.Catalog, id int64, rating int) (Build, error) {
	bg, ok := cat.Background(id)
	if !ok {
		return b, fmt.Errorf("background %d: %w", id, ErrUnknownTrait)
	}
	next := b.Clone()
	if rating <= 0 {
		delete(next.Backgrounds, id)
		return next, nil
	}
	next.Backgrounds[id] = clampRating(rating, 1, bg.Max())
	return next, nil
}

// ToggleMerit adds the merit when absent and removes it when present.
func ToggleMerit(b Build, cat *catalog.Catalog, id int64) (Build, error) {
	if _, ok := cat.Merit(id); !ok {
		return b, fmt.Errorf("merit %d: %w", id, ErrUnknownTrait)
	}
	next := b.Clone()
	next.Merits = toggle(next.Merits, id)
	return next, nil
}

// ToggleFlaw adds the flaw when absent and removes it when present.
func ToggleFlaw(b Build, cat *catalog.Catalog, id int64) (Build, error) {
	if _, ok := cat.Flaw(id); !ok {
		return b, fmt.Errorf("flaw %d: %w", id, ErrUnknownTrait)
	}
	next := b.Clone()
	next.Flaws = toggle(next.Flaws, id)
	return next, nil
}

func toggle(ids []int64, id int64) []int64 {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return append(ids, id)
}
