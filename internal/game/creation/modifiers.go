package creation

import "github.com/cory-johannsen/elysium/internal/game/catalog"

// Change is a change to one of the build's narrative modifiers.
// It is one of ClanChanged, PredatorTypeChanged, or SectChanged.
type Change interface {
	isChange()
}

// ClanChanged replaces From with To. Either may be nil (no clan).
// Predator is the predator type active during the change.
type ClanChanged struct {
	From, To *catalog.Clan
	Predator *catalog.PredatorType
}

// PredatorTypeChanged replaces From with To. Either may be nil (cleared).
// Clan and Sect are the choices active during the change.
type PredatorTypeChanged struct {
	From, To *catalog.PredatorType
	Clan     *catalog.Clan
	Sect     *catalog.Sect
}

// SectChanged replaces From with To. Either may be nil (no sect).
// Predator is the predator type active during the change.
type SectChanged struct {
	From, To *catalog.Sect
	Predator *catalog.PredatorType
}

func (ClanChanged) isChange()         {}
func (PredatorTypeChanged) isChange() {}
func (SectChanged) isChange()         {}

// ApplyModifierChange returns a new build with the free dots of the old
// modifier removed and those of the new modifier applied.
//
// Precondition: the records in change must match the build's current choices.
// Postcondition: b is not modified.
func ApplyModifierChange(b Build, change Change) Build {
	next := b.Clone()
	switch c := change.(type) {
	case ClanChanged:
		applyClan(&next, c)
	case PredatorTypeChanged:
		applyPredator(&next, c)
	case SectChanged:
		applySect(&next, c)
	}
	return next
}

// applyClan sets the predator type's free discipline dot aside, clears the
// floors the new clan does not share, floors the new clan's disciplines at 1,
// then adds the predator dot back on top.
func applyClan(b *Build, c ClanChanged) {
	var free int64
	if c.Predator != nil {
		free = c.Predator.FreeDisciplineID
	}
	if free != 0 {
		setDiscipline(b, free, b.Disciplines[free]-1)
	}
	if c.From != nil {
		for _, id := range c.From.Disciplines {
			if !c.To.GrantsDiscipline(id) {
				delete(b.Disciplines, id)
			}
		}
	}
	b.ClanID = 0
	if c.To != nil {
		for _, id := range c.To.Disciplines {
			b.Disciplines[id] = max(b.Disciplines[id], StartingDiscipline)
		}
		b.ClanID = c.To.ID
	}
	if free != 0 {
		b.Disciplines[free]++
	}
}

func applyPredator(b *Build, c PredatorTypeChanged) {
	if p := c.From; p != nil {
		if p.FreeDisciplineID != 0 {
			floor := 0
			if c.Clan.GrantsDiscipline(p.FreeDisciplineID) {
				floor = StartingDiscipline
			}
			setDiscipline(b, p.FreeDisciplineID, max(floor, b.Disciplines[p.FreeDisciplineID]-1))
		}
		if p.FreeSkillID != 0 {
			b.Skills[p.FreeSkillID] = max(StartingSkill, b.Skills[p.FreeSkillID]-1)
		}
		if p.FreeBackground != nil {
			delete(b.Backgrounds, p.FreeBackground.BackgroundID)
			if fb := sectBackground(c.Sect); fb != nil && fb.BackgroundID == p.FreeBackground.BackgroundID {
				b.Backgrounds[fb.BackgroundID] = fb.Dots()
			}
		}
	}
	b.PredatorTypeID = 0
	if q := c.To; q != nil {
		if q.FreeDisciplineID != 0 {
			b.Disciplines[q.FreeDisciplineID]++
		}
		if q.FreeSkillID != 0 {
			b.Skills[q.FreeSkillID] = b.Skill(q.FreeSkillID) + 1
		}
		if q.FreeBackground != nil {
			b.Backgrounds[q.FreeBackground.BackgroundID] = q.FreeBackground.Dots()
		}
		b.PredatorTypeID = q.ID
	}
}

func applySect(b *Build, c SectChanged) {
	if fb := sectBackground(c.From); fb != nil {
		delete(b.Backgrounds, fb.BackgroundID)
		if p := c.Predator; p != nil && p.FreeBackground != nil && p.FreeBackground.BackgroundID == fb.BackgroundID {
			b.Backgrounds[fb.BackgroundID] = p.FreeBackground.Dots()
		}
	}
	b.SectID = 0
	if c.To != nil {
		if fb := c.To.FreeBackground; fb != nil {
			b.Backgrounds[fb.BackgroundID] = fb.Dots()
		}
		b.SectID = c.To.ID
	}
}

func sectBackground(s *catalog.Sect) *catalog.FreeBackground {
	if s == nil {
		return nil
	}
	return s.FreeBackground
}

func setDiscipline(b *Build, id int64, v int) {
	if v <= 0 {
		delete(b.Disciplines, id)
		return
	}
	b.Disciplines[id] = v
}

// ClanChange builds the change that moves b to the clan with id to (0 clears).
// Unknown ids resolve to nil.
func ClanChange(b Build, cat *catalog.Catalog, to int64) ClanChanged {
	from, predator, _ := b.Modifiers(cat)
	next, _ := cat.Clan(to)
	return ClanChanged{From: from, To: next, Predator: predator}
}

// PredatorTypeChange builds the change that moves b to the predator type with id to (0 clears).
func PredatorTypeChange(b Build, cat *catalog.Catalog, to int64) PredatorTypeChanged {
	clan, from, sect := b.Modifiers(cat)
	next, _ := cat.PredatorType(to)
	return PredatorTypeChanged{From: from, To: next, Clan: clan, Sect: sect}
}

// SectChange builds the change that moves b to the sect with id to (0 clears).
func SectChange(b Build, cat *catalog.Catalog, to int64) SectChanged {
	_, predator, from := b.Modifiers(cat)
	next, _ := cat.Sect(to)
	return SectChanged{From: from, To: next, Predator: predator}
}
