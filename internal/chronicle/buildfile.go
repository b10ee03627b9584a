package chronicle

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

// BuildFile is a build-in-progress written by hand, naming traits rather
// than numbering them:
//
//	clan: Brujah
//	predator: Alleycat
//	attributes: {Strength: 3, Stamina: 2}
//	skills: {Brawl: 2}
//	merits: [Stunning]
type BuildFile struct {
	Clan        string         `yaml:"clan"`
	Predator    string         `yaml:"predator"`
	Sect        string         `yaml:"sect"`
	Attributes  map[string]int `yaml:"attributes"`
	Skills      map[string]int `yaml:"skills"`
	Disciplines map[string]int `yaml:"disciplines"`
	Backgrounds map[string]int `yaml:"backgrounds"`
	Merits      []string       `yaml:"merits"`
	Flaws       []string       `yaml:"flaws"`
}

// LoadBuildFile reads and resolves a YAML build file against cat.
func LoadBuildFile(path string, cat *catalog.Catalog) (creation.Build, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return creation.Build{}, fmt.Errorf("reading build file: %w", err)
	}
	var f BuildFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return creation.Build{}, fmt.Errorf("parsing build file %s: %w", path, err)
	}
	return f.Resolve(cat)
}

// Edits translates f into the edits that produce it from an empty build.
// Clan, predator type, and sect come first so their free dots land before
// explicit ratings override them.
func (f BuildFile) Edits(cat *catalog.Catalog) ([]Edit, error) {
	var edits []Edit
	resolve := func(table, name string) (int64, error) {
		id, ok := cat.ByName(table, name)
		if !ok {
			return 0, fmt.Errorf("%w: no %s named %q", ErrUnknownChoice, table, name)
		}
		return id, nil
	}

	for _, m := range []struct {
		table, name string
		kind        EditKind
	}{
		{"clan", f.Clan, EditClan},
		{"predator", f.Predator, EditPredatorType},
		{"sect", f.Sect, EditSect},
	} {
		if m.name == "" {
			continue
		}
		id, err := resolve(m.table, m.name)
		if err != nil {
			return nil, err
		}
		edits = append(edits, Edit{Kind: m.kind, ID: id})
	}

	for _, r := range []struct {
		table   string
		ratings map[string]int
		kind    EditKind
	}{
		{"attribute", f.Attributes, EditAttribute},
		{"skill", f.Skills, EditSkill},
		{"discipline", f.Disciplines, EditDiscipline},
		{"background", f.Backgrounds, EditBackground},
	} {
		names := make([]string, 0, len(r.ratings))
		for name := range r.ratings {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			id, err := resolve(r.table, name)
			if err != nil {
				return nil, err
			}
			edits = append(edits, Edit{Kind: r.kind, ID: id, Rating: r.ratings[name]})
		}
	}

	for _, t := range []struct {
		table string
		names []string
		kind  EditKind
	}{
		{"merit", f.Merits, EditMerit},
		{"flaw", f.Flaws, EditFlaw},
	} {
		seen := make(map[int64]bool, len(t.names))
		for _, name := range t.names {
			id, err := resolve(t.table, name)
			if err != nil {
				return nil, err
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			edits = append(edits, Edit{Kind: t.kind, ID: id})
		}
	}
	return edits, nil
}

// Resolve applies f's edits to a fresh build.
func (f BuildFile) Resolve(cat *catalog.Catalog) (creation.Build, error) {
	edits, err := f.Edits(cat)
	if err != nil {
		return creation.Build{}, err
	}
	b := creation.NewBuild(cat)
	for _, e := range edits {
		if b, err = e.Apply(b, cat); err != nil {
			return creation.Build{}, err
		}
	}
	return b, nil
}
