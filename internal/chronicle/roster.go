package chronicle

import (
	"cmp"
	"context"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
)

// Rated is one named trait on a sheet.
type Rated struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Category catalog.Category `json:"category,omitempty"`
	Rating   int              `json:"rating"`
	Details  string           `json:"details,omitempty"`
}

// Sheet is a stored character with every id resolved to its catalog name.
type Sheet struct {
	Character         *character.Character `json:"character"`
	Clan              string               `json:"clan,omitempty"`
	PredatorType      string               `json:"predator_type,omitempty"`
	Sect              string               `json:"sect,omitempty"`
	Location          string               `json:"location,omitempty"`
	Era               string               `json:"era,omitempty"`
	TrueAge           int                  `json:"true_age,omitempty"`
	YearsSinceEmbrace int                  `json:"years_since_embrace,omitempty"`
	Attributes        []Rated              `json:"attributes"`
	Skills            []Rated              `json:"skills"`
	Disciplines       []Rated              `json:"disciplines"`
	Backgrounds       []Rated              `json:"backgrounds"`
	Merits            []Rated              `json:"merits"`
	Flaws             []Rated              `json:"flaws"`
}

// Roster reads and maintains stored characters.
type Roster struct {
	catalogs   *CatalogCache
	characters CharacterStore
	logger     *zap.Logger
	now        func() time.Time
}

// NewRoster wires the roster to its collaborators.
func NewRoster(catalogs *CatalogCache, characters CharacterStore, logger *zap.Logger) *Roster {
	return &Roster{catalogs: catalogs, characters: characters, logger: logger, now: time.Now}
}

// List returns character headers for accountID (0 lists all).
func (r *Roster) List(ctx context.Context, accountID int64) ([]*character.Character, error) {
	return r.characters.List(ctx, accountID)
}

// Get returns the stored character.
func (r *Roster) Get(ctx context.Context, id int64) (*character.Character, error) {
	return r.characters.GetByID(ctx, id)
}

// UpdateProfile replaces the character's narrative fields.
func (r *Roster) UpdateProfile(ctx context.Context, id int64, p character.Profile) error {
	return r.characters.UpdateProfile(ctx, id, p)
}

// Delete removes the character and its story sessions.
func (r *Roster) Delete(ctx context.Context, id int64) error {
	if err := r.characters.Delete(ctx, id); err != nil {
		return err
	}
	r.logger.Info("character deleted", zap.Int64("character_id", id))
	return nil
}

// Sheet loads the character and resolves its traits against the catalog.
// Traits missing from the catalog keep their id and an empty name.
func (r *Roster) Sheet(ctx context.Context, id int64) (Sheet, error) {
	cat, err := r.catalogs.Get(ctx)
	if err != nil {
		return Sheet{}, err
	}
	c, err := r.characters.GetByID(ctx, id)
	if err != nil {
		return Sheet{}, err
	}

	now := r.now()
	sh := Sheet{
		Character:         c,
		TrueAge:           c.TrueAge(now),
		YearsSinceEmbrace: c.YearsSinceEmbrace(now),
	}
	if clan, ok := cat.Clan(c.ClanID); ok {
		sh.Clan = clan.Name
	}
	if p, ok := cat.PredatorType(c.PredatorTypeID); ok {
		sh.PredatorType = p.Name
	}
	if s, ok := cat.Sect(c.SectID); ok {
		sh.Sect = s.Name
	}
	if l, ok := cat.Location(c.LocationID); ok {
		sh.Location = l.Name
	}
	if c.DateOfBirth != nil {
		sh.Era = character.HistoricalEra(c.DateOfBirth.Year())
	}

	sh.Attributes = rated(c.Attributes, func(id int64) (string, catalog.Category) {
		if a, ok := cat.Attribute(id); ok {
			return a.Name, a.Category
		}
		return "", ""
	})
	sh.Skills = rated(c.Skills, func(id int64) (string, catalog.Category) {
		if s, ok := cat.Skill(id); ok {
			return s.Name, s.Category
		}
		return "", ""
	})
	sh.Disciplines = rated(c.Disciplines, func(id int64) (string, catalog.Category) {
		if d, ok := cat.Discipline(id); ok {
			return d.Name, ""
		}
		return "", ""
	})
	sh.Backgrounds = rated(c.Backgrounds, func(id int64) (string, catalog.Category) {
		if b, ok := cat.Background(id); ok {
			return b.Name, ""
		}
		return "", ""
	})
	for i := range sh.Backgrounds {
		sh.Backgrounds[i].Details = c.BackgroundDetails[sh.Backgrounds[i].ID]
	}
	for _, id := range c.Merits {
		m, _ := cat.Merit(id)
		sh.Merits = append(sh.Merits, Rated{ID: id, Name: nameOf(m), Rating: costOf(m)})
	}
	for _, id := range c.Flaws {
		f, _ := cat.Flaw(id)
		var rating int
		if f != nil {
			rating = f.Magnitude()
		}
		sh.Flaws = append(sh.Flaws, Rated{ID: id, Name: nameOfFlaw(f), Rating: rating})
	}
	return sh, nil
}

func rated(ratings map[int64]int, resolve func(int64) (string, catalog.Category)) []Rated {
	out := make([]Rated, 0, len(ratings))
	for id, r := range ratings {
		name, category := resolve(id)
		out = append(out, Rated{ID: id, Name: name, Category: category, Rating: r})
	}
	slices.SortFunc(out, func(a, b Rated) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func nameOf(m *catalog.Merit) string {
	if m == nil {
		return ""
	}
	return m.Name
}

func costOf(m *catalog.Merit) int {
	if m == nil {
		return 0
	}
	return m.Cost
}

func nameOfFlaw(f *catalog.Flaw) string {
	if f == nil {
		return ""
	}
	return f.Name
}
