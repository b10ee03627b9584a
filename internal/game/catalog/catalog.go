// Package catalog defines the read-only reference data of the chronicle:
// attributes, skills, disciplines, merits, flaws, backgrounds, clans,
// predator types, sects, and locations.
package catalog

import "strings"

// Category is the Physical/Social/Mental grouping shared by attributes and skills.
type Category string

const (
	Physical Category = "Physical"
	Social   Category = "Social"
	Mental   Category = "Mental"
	// Any is only valid as a clan's favored category and disables the favored check.
	Any Category = "Any"
)

// Valid reports whether c is one of the trait categories (Any excluded).
func (c Category) Valid() bool {
	switch c {
	case Physical, Social, Mental:
		return true
	}
	return false
}

// DefaultBackgroundMax is the rating ceiling used when a background omits max_rating.
const DefaultBackgroundMax = 5

// Attribute is a core trait rated 1 to 5.
type Attribute struct {
	ID       int64    `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category Category `yaml:"category" json:"category"`
}

// Skill is a learned trait rated 0 to 5.
type Skill struct {
	ID       int64    `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Category Category `yaml:"category" json:"category"`
}

// Discipline is a supernatural power.
type Discipline struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Merit is an advantage purchased with merit points.
type Merit struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Cost        int    `yaml:"cost" json:"cost"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Flaw is a drawback. Cost is stored as a magnitude and grants that many merit points.
type Flaw struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Cost        int    `yaml:"cost" json:"cost"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Magnitude returns the number of points the flaw grants, regardless of sign.
func (f Flaw) Magnitude() int {
	if f.Cost < 0 {
		return -f.Cost
	}
	return f.Cost
}

// Background is a resource or connection rated 1 to MaxRating.
type Background struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	MaxRating   int    `yaml:"max_rating,omitempty" json:"max_rating,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Max returns MaxRating, or DefaultBackgroundMax when it is unset.
func (b Background) Max() int {
	if b.MaxRating <= 0 {
		return DefaultBackgroundMax
	}
	return b.MaxRating
}

// FreeBackground is a background granted at a fixed rating by a predator type or sect.
type FreeBackground struct {
	BackgroundID int64 `yaml:"background_id" json:"background_id"`
	Rating       int   `yaml:"rating,omitempty" json:"rating,omitempty"`
}

// Dots returns the granted rating, defaulting to 1.
func (f FreeBackground) Dots() int {
	if f.Rating <= 0 {
		return 1
	}
	return f.Rating
}

// Clan is a vampire lineage.
type Clan struct {
	ID              int64    `yaml:"id" json:"id"`
	Name            string   `yaml:"name" json:"name"`
	FavoredCategory Category `yaml:"favored_category" json:"favored_category"`
	Disciplines     []int64  `yaml:"disciplines" json:"disciplines"`
	Description     string   `yaml:"description,omitempty" json:"description,omitempty"`
	Bane            string   `yaml:"bane,omitempty" json:"bane,omitempty"`
	Compulsion      string   `yaml:"compulsion,omitempty" json:"compulsion,omitempty"`
}

// GrantsDiscipline reports whether id is one of the clan's in-clan disciplines.
func (c *Clan) GrantsDiscipline(id int64) bool {
	if c == nil {
		return false
	}
	for _, d := range c.Disciplines {
		if d == id {
			return true
		}
	}
	return false
}

// PredatorType describes how a vampire feeds and the free dots it grants.
type PredatorType struct {
	ID               int64           `yaml:"id" json:"id"`
	Name             string          `yaml:"name" json:"name"`
	Description      string          `yaml:"description,omitempty" json:"description,omitempty"`
	FreeDisciplineID int64           `yaml:"free_discipline_id,omitempty" json:"free_discipline_id,omitempty"`
	FreeSkillID      int64           `yaml:"free_skill_id,omitempty" json:"free_skill_id,omitempty"`
	FreeBackground   *FreeBackground `yaml:"free_background,omitempty" json:"free_background,omitempty"`
}

// Sect is a political affiliation.
type Sect struct {
	ID             int64           `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	Description    string          `yaml:"description,omitempty" json:"description,omitempty"`
	Philosophy     string          `yaml:"philosophy,omitempty" json:"philosophy,omitempty"`
	Structure      string          `yaml:"structure,omitempty" json:"structure,omitempty"`
	CommonClans    []int64         `yaml:"common_clans,omitempty" json:"common_clans,omitempty"`
	FreeBackground *FreeBackground `yaml:"free_background,omitempty" json:"free_background,omitempty"`
}

// Location is a city or domain in which a chronicle can be set.
type Location struct {
	ID          int64  `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Catalog is a snapshot of every reference table with id lookup indexes.
//
// Invariant: after Index, every lookup method is O(1).
type Catalog struct {
	Attributes    []*Attribute    `yaml:"attributes" json:"attributes"`
	Skills        []*Skill        `yaml:"skills" json:"skills"`
	Disciplines   []*Discipline   `yaml:"disciplines" json:"disciplines"`
	Merits        []*Merit        `yaml:"merits" json:"merits"`
	Flaws         []*Flaw         `yaml:"flaws" json:"flaws"`
	Backgrounds   []*Background   `yaml:"backgrounds" json:"backgrounds"`
	Clans         []*Clan         `yaml:"clans" json:"clans"`
	PredatorTypes []*PredatorType `yaml:"predator_types" json:"predator_types"`
	Sects         []*Sect         `yaml:"sects" json:"sects"`
	Locations     []*Location     `yaml:"locations" json:"locations"`

	attributes    map[int64]*Attribute
	skills        map[int64]*Skill
	disciplines   map[int64]*Discipline
	merits        map[int64]*Merit
	flaws         map[int64]*Flaw
	backgrounds   map[int64]*Background
	clans         map[int64]*Clan
	predatorTypes map[int64]*PredatorType
	sects         map[int64]*Sect
	locations     map[int64]*Location
}

// Index builds the id lookup tables. Later duplicates overwrite earlier ones;
// use Validate to detect them.
//
// Postcondition: every lookup method reflects the current slices.
func (c *Catalog) Index() *Catalog {
	c.attributes = indexBy(c.Attributes, func(a *Attribute) int64 { return a.ID })
	c.skills = indexBy(c.Skills, func(s *Skill) int64 { return s.ID })
	c.disciplines = indexBy(c.Disciplines, func(d *Discipline) int64 { return d.ID })
	c.merits = indexBy(c.Merits, func(m *Merit) int64 { return m.ID })
	c.flaws = indexBy(c.Flaws, func(f *Flaw) int64 { return f.ID })
	c.backgrounds = indexBy(c.Backgrounds, func(b *Background) int64 { return b.ID })
	c.clans = indexBy(c.Clans, func(cl *Clan) int64 { return cl.ID })
	c.predatorTypes = indexBy(c.PredatorTypes, func(p *PredatorType) int64 { return p.ID })
	c.sects = indexBy(c.Sects, func(s *Sect) int64 { return s.ID })
	c.locations = indexBy(c.Locations, func(l *Location) int64 { return l.ID })
	return c
}

func indexBy[T any](items []*T, key func(*T) int64) map[int64]*T {
	m := make(map[int64]*T, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		m[key(it)] = it
	}
	return m
}

func lookup[T any](m map[int64]*T, id int64) (*T, bool) {
	v, ok := m[id]
	return v, ok
}

// Attribute returns the attribute with the given id.
func (c *Catalog) Attribute(id int64) (*Attribute, bool) { return lookup(c.attributes, id) }

// Skill returns the skill with the given id.
func (c *Catalog) Skill(id int64) (*Skill, bool) { return lookup(c.skills, id) }

// Discipline returns the discipline with the given id.
func (c *Catalog) Discipline(id int64) (*Discipline, bool) { return lookup(c.disciplines, id) }

// Merit returns the merit with the given id.
func (c *Catalog) Merit(id int64) (*Merit, bool) { return lookup(c.merits, id) }

// Flaw returns the flaw with the given id.
func (c *Catalog) Flaw(id int64) (*Flaw, bool) { return lookup(c.flaws, id) }

// Background returns the background with the given id.
func (c *Catalog) Background(id int64) (*Background, bool) { return lookup(c.backgrounds, id) }

// Clan returns the clan with the given id.
func (c *Catalog) Clan(id int64) (*Clan, bool) { return lookup(c.clans, id) }

// PredatorType returns the predator type with the given id.
func (c *Catalog) PredatorType(id int64) (*PredatorType, bool) { return lookup(c.predatorTypes, id) }

// Sect returns the sect with the given id.
func (c *Catalog) Sect(id int64) (*Sect, bool) { return lookup(c.sects, id) }

// Location returns the location with the given id.
func (c *Catalog) Location(id int64) (*Location, bool) { return lookup(c.locations, id) }

// AttributesIn returns the attributes of the given category in catalog order.
func (c *Catalog) AttributesIn(cat Category) []*Attribute {
	var out []*Attribute
	for _, a := range c.Attributes {
		if a != nil && a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

// SkillsIn returns the skills of the given category in catalog order.
func (c *Catalog) SkillsIn(cat Category) []*Skill {
	var out []*Skill
	for _, s := range c.Skills {
		if s != nil && s.Category == cat {
			out = append(out, s)
		}
	}
	return out
}

// ByName finds a record by case-insensitive name within one kind of table.
// The kind is one of "attribute", "skill", "discipline", "merit", "flaw",
// "background", "clan", "predator", "sect", "location".
//
// Postcondition: returns the id and true, or 0 and false when nothing matches.
func (c *Catalog) ByName(kind, name string) (int64, bool) {
	switch kind {
	case "attribute":
		return findByName(c.Attributes, name, func(a *Attribute) (int64, string) { return a.ID, a.Name })
	case "skill":
		return findByName(c.Skills, name, func(s *Skill) (int64, string) { return s.ID, s.Name })
	case "discipline":
		return findByName(c.Disciplines, name, func(d *Discipline) (int64, string) { return d.ID, d.Name })
	case "merit":
		return findByName(c.Merits, name, func(m *Merit) (int64, string) { return m.ID, m.Name })
	case "flaw":
		return findByName(c.Flaws, name, func(f *Flaw) (int64, string) { return f.ID, f.Name })
	case "background":
		return findByName(c.Backgrounds, name, func(b *Background) (int64, string) { return b.ID, b.Name })
	case "clan":
		return findByName(c.Clans, name, func(cl *Clan) (int64, string) { return cl.ID, cl.Name })
	case "predator":
		return findByName(c.PredatorTypes, name, func(p *PredatorType) (int64, string) { return p.ID, p.Name })
	case "sect":
		return findByName(c.Sects, name, func(s *Sect) (int64, string) { return s.ID, s.Name })
	case "location":
		return findByName(c.Locations, name, func(l *Location) (int64, string) { return l.ID, l.Name })
	}
	return 0, false
}

func findByName[T any](items []*T, name string, f func(*T) (int64, string)) (int64, bool) {
	for _, it := range items {
		if it == nil {
			continue
		}
		id, n := f(it)
		if strings.EqualFold(n, name) {
			return id, true
		}
	}
	return 0, false
}
