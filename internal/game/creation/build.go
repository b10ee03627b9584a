// Package creation implements the character-creation point-budget engine:
// pure functions that price a build-in-progress against the creation pools,
// classify it as valid or invalid, and keep free dots from clan, predator
// type, and sect consistent as those choices change.
//
// Nothing in this package performs I/O or holds state between calls.
package creation

import (
	"slices"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
)

// Creation pools and starting ratings.
const (
	AttributePoints  = 7
	SkillPoints      = 11
	MeritPoints      = 7
	MaxFlawPoints    = 7
	BackgroundPoints = 3

	StartingAttribute  = 1
	StartingSkill      = 0
	StartingDiscipline = 1

	MaxRating = 5
)

// Build is a snapshot of a character under construction.
//
// Absent map entries take the starting value for their trait. Merits and
// Flaws are sets; duplicate ids are counted once. Zero ids for ClanID,
// PredatorTypeID, and SectID mean "not chosen".
type Build struct {
	Attributes     map[int64]int `json:"attributes"`
	Skills         map[int64]int `json:"skills"`
	Disciplines    map[int64]int `json:"disciplines"`
	Merits         []int64       `json:"merits"`
	Flaws          []int64       `json:"flaws"`
	Backgrounds    map[int64]int `json:"backgrounds"`
	ClanID         int64         `json:"clan_id,omitempty"`
	PredatorTypeID int64         `json:"predator_type_id,omitempty"`
	SectID         int64         `json:"sect_id,omitempty"`
}

// NewBuild returns a build with every catalog attribute at 1 and every skill at 0.
//
// Precondition: cat must be non-nil.
func NewBuild(cat *catalog.Catalog) Build {
	b := Build{
		Attributes:  make(map[int64]int, len(cat.Attributes)),
		Skills:      make(map[int64]int, len(cat.Skills)),
		Disciplines: make(map[int64]int),
		Backgrounds: make(map[int64]int),
	}
	for _, a := range cat.Attributes {
		b.Attributes[a.ID] = StartingAttribute
	}
	for _, s := range cat.Skills {
		b.Skills[s.ID] = StartingSkill
	}
	return b
}

// Clone returns a deep copy of b. Nil maps become empty maps.
func (b Build) Clone() Build {
	return Build{
		Attributes:     cloneRatings(b.Attributes),
		Skills:         cloneRatings(b.Skills),
		Disciplines:    cloneRatings(b.Disciplines),
		Merits:         slices.Clone(b.Merits),
		Flaws:          slices.Clone(b.Flaws),
		Backgrounds:    cloneRatings(b.Backgrounds),
		ClanID:         b.ClanID,
		PredatorTypeID: b.PredatorTypeID,
		SectID:         b.SectID,
	}
}

func cloneRatings(m map[int64]int) map[int64]int {
	out := make(map[int64]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Attribute returns the attribute rating, coercing missing or non-positive values to 1.
func (b Build) Attribute(id int64) int {
	v, ok := b.Attributes[id]
	if !ok || v < StartingAttribute {
		return StartingAttribute
	}
	return v
}

// Skill returns the skill rating, coercing missing or negative values to 0.
func (b Build) Skill(id int64) int {
	v := b.Skills[id]
	if v < StartingSkill {
		return StartingSkill
	}
	return v
}

// HasMerit reports whether id is in the merit selection.
func (b Build) HasMerit(id int64) bool { return slices.Contains(b.Merits, id) }

// HasFlaw reports whether id is in the flaw selection.
func (b Build) HasFlaw(id int64) bool { return slices.Contains(b.Flaws, id) }

// Modifiers resolves the chosen clan, predator type, and sect. Ids that are
// unset or missing from the catalog resolve to nil.
func (b Build) Modifiers(cat *catalog.Catalog) (*catalog.Clan, *catalog.PredatorType, *catalog.Sect) {
	var (
		clan     *catalog.Clan
		predator *catalog.PredatorType
		sect     *catalog.Sect
	)
	if b.ClanID != 0 {
		clan, _ = cat.Clan(b.ClanID)
	}
	if b.PredatorTypeID != 0 {
		predator, _ = cat.PredatorType(b.PredatorTypeID)
	}
	if b.SectID != 0 {
		sect, _ = cat.Sect(b.SectID)
	}
	return clan, predator, sect
}

func clampRating(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// distinct yields each id once, in first-seen order.
func distinct(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
