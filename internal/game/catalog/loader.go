package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a catalog content document from path.
//
// Precondition: path must name a readable YAML file.
// Postcondition: Returns an indexed, validated Catalog or a non-nil error.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cat, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cat, nil
}

// LoadBytes parses a catalog content document.
//
// Postcondition: Returns an indexed, validated Catalog or a non-nil error.
func LoadBytes(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	cat.Index()
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate reports empty entries, duplicate ids, unknown categories, non-positive merit
// costs, and references to records that do not exist.
//
// Precondition: Index must have been called.
// Postcondition: Returns nil, or a single error listing every violation.
func (c *Catalog) Validate() error {
	var errs []string

	errs = append(errs, duplicates("attribute", c.Attributes, func(a *Attribute) int64 { return a.ID })...)
	errs = append(errs, duplicates("skill", c.Skills, func(s *Skill) int64 { return s.ID })...)
	errs = append(errs, duplicates("discipline", c.Disciplines, func(d *Discipline) int64 { return d.ID })...)
	errs = append(errs, duplicates("merit", c.Merits, func(m *Merit) int64 { return m.ID })...)
	errs = append(errs, duplicates("flaw", c.Flaws, func(f *Flaw) int64 { return f.ID })...)
	errs = append(errs, duplicates("background", c.Backgrounds, func(b *Background) int64 { return b.ID })...)
	errs = append(errs, duplicates("clan", c.Clans, func(cl *Clan) int64 { return cl.ID })...)
	errs = append(errs, duplicates("predator type", c.PredatorTypes, func(p *PredatorType) int64 { return p.ID })...)
	errs = append(errs, duplicates("sect", c.Sects, func(s *Sect) int64 { return s.ID })...)
	errs = append(errs, duplicates("location", c.Locations, func(l *Location) int64 { return l.ID })...)

	for _, a := range c.Attributes {
		if a == nil {
			continue
		}
		if !a.Category.Valid() {
			errs = append(errs, fmt.Sprintf("attribute %q has invalid category %q", a.Name, a.Category))
		}
	}
	for _, s := range c.Skills {
		if s == nil {
			continue
		}
		if !s.Category.Valid() {
			errs = append(errs, fmt.Sprintf("skill %q has invalid category %q", s.Name, s.Category))
		}
	}
	for _, m := range c.Merits {
		if m == nil {
			continue
		}
		if m.Cost <= 0 {
			errs = append(errs, fmt.Sprintf("merit %q must have a positive cost, got %d", m.Name, m.Cost))
		}
	}
	for _, cl := range c.Clans {
		if cl == nil {
			continue
		}
		if !cl.FavoredCategory.Valid() && cl.FavoredCategory != Any {
			errs = append(errs, fmt.Sprintf("clan %q has invalid favored category %q", cl.Name, cl.FavoredCategory))
		}
		for _, id := range cl.Disciplines {
			if _, ok := c.Discipline(id); !ok {
				errs = append(errs, fmt.Sprintf("clan %q references unknown discipline %d", cl.Name, id))
			}
		}
	}
	for _, p := range c.PredatorTypes {
		if p == nil {
			continue
		}
		if p.FreeDisciplineID != 0 {
			if _, ok := c.Discipline(p.FreeDisciplineID); !ok {
				errs = append(errs, fmt.Sprintf("predator type %q references unknown discipline %d", p.Name, p.FreeDisciplineID))
			}
		}
		if p.FreeSkillID != 0 {
			if _, ok := c.Skill(p.FreeSkillID); !ok {
				errs = append(errs, fmt.Sprintf("predator type %q references unknown skill %d", p.Name, p.FreeSkillID))
			}
		}
		errs = append(errs, c.checkFreeBackground("predator type", p.Name, p.FreeBackground)...)
	}
	for _, s := range c.Sects {
		if s == nil {
			continue
		}
		errs = append(errs, c.checkFreeBackground("sect", s.Name, s.FreeBackground)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Catalog) checkFreeBackground(kind, name string, fb *FreeBackground) []string {
	if fb == nil {
		return nil
	}
	bg, ok := c.Background(fb.BackgroundID)
	if !ok {
		return []string{fmt.Sprintf("%s %q references unknown background %d", kind, name, fb.BackgroundID)}
	}
	if fb.Dots() > bg.Max() {
		return []string{fmt.Sprintf("%s %q grants %s at %d, above its maximum %d", kind, name, bg.Name, fb.Dots(), bg.Max())}
	}
	return nil
}

func duplicates[T any](kind string, items []*T, key func(*T) int64) []string {
	seen := make(map[int64]bool, len(items))
	var errs []string
	for i, it := range items {
		if it == nil {
			errs = append(errs, fmt.Sprintf("%s entry %d is empty", kind, i+1))
			continue
		}
		id := key(it)
		if id <= 0 {
			errs = append(errs, fmt.Sprintf("%s id must be positive, got %d", kind, id))
			continue
		}
		if seen[id] {
			errs = append(errs, fmt.Sprintf("duplicate %s id %d", kind, id))
		}
		seen[id] = true
	}
	return errs
}
