// Package character defines the persisted character sheet and the historical
// context derived from a character's birth and embrace.
package character

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

// DefaultGeneration is the generation assigned when a profile leaves it unset.
const DefaultGeneration = 13

// OriginBackground is the catalog name of the background that records
// a character's time and place of birth.
const OriginBackground = "Origin"

// ErrInvalidProfile wraps every profile validation failure.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile holds the narrative fields a player fills in alongside the build.
type Profile struct {
	Name         string     `json:"name"`
	Concept      string     `json:"concept,omitempty"`
	Ambition     string     `json:"ambition,omitempty"`
	Desire       string     `json:"desire,omitempty"`
	Sire         string     `json:"sire,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Generation   int        `json:"generation,omitempty"`
	LocationID   int64      `json:"location_id,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	PlaceOfBirth string     `json:"place_of_birth,omitempty"`
	EmbraceDate  *time.Time `json:"embrace_date,omitempty"`
	ApparentAge  int        `json:"apparent_age,omitempty"`
}

// Validate reports every problem with the profile.
//
// Postcondition: returns nil when the profile is acceptable for persistence.
func (p Profile) Validate() error {
	var errs []string
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if len(p.Name) > 128 {
		errs = append(errs, "name must be at most 128 characters")
	}
	if p.Generation != 0 && (p.Generation < 4 || p.Generation > 16) {
		errs = append(errs, fmt.Sprintf("generation must be between 4 and 16, got %d", p.Generation))
	}
	if p.ApparentAge < 0 {
		errs = append(errs, "apparent_age must not be negative")
	}
	if p.DateOfBirth != nil && p.EmbraceDate != nil && p.EmbraceDate.Before(*p.DateOfBirth) {
		errs = append(errs, "embrace_date must not precede date_of_birth")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(errs, "; "))
	}
	return nil
}

// Character is a submitted character sheet.
//
// ID and CreatedAt are set by the persistence layer; a zero ID indicates an unsaved character.
type Character struct {
	ID        int64 `json:"id"`
	AccountID int64 `json:"account_id,omitempty"`
	Profile

	ClanID         int64 `json:"clan_id,omitempty"`
	PredatorTypeID int64 `json:"predator_type_id,omitempty"`
	SectID         int64 `json:"sect_id,omitempty"`

	Attributes  map[int64]int `json:"attributes"`
	Skills      map[int64]int `json:"skills"`
	Disciplines map[int64]int `json:"disciplines"`
	Backgrounds map[int64]int `json:"backgrounds"`
	// BackgroundDetails holds free-text notes keyed by background id.
	BackgroundDetails map[int64]string `json:"background_details,omitempty"`
	Merits            []int64          `json:"merits"`
	Flaws             []int64          `json:"flaws"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FromBuild converts a finished build into a character sheet. Skills,
// disciplines, and backgrounds at 0 are dropped. When cat defines the Origin
// background and the profile carries a birth date or place, an Origin
// background at 1 is added with the details string.
//
// Precondition: b must already have passed creation.Validate; cat must be indexed.
// Postcondition: b is not modified.
func FromBuild(accountID int64, p Profile, b creation.Build, cat *catalog.Catalog) (*Character, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Generation == 0 {
		p.Generation = DefaultGeneration
	}
	p.Name = strings.TrimSpace(p.Name)

	c := &Character{
		AccountID:         accountID,
		Profile:           p,
		ClanID:            b.ClanID,
		PredatorTypeID:    b.PredatorTypeID,
		SectID:            b.SectID,
		Attributes:        make(map[int64]int, len(b.Attributes)),
		Skills:            positive(b.Skills),
		Disciplines:       positive(b.Disciplines),
		Backgrounds:       positive(b.Backgrounds),
		BackgroundDetails: make(map[int64]string),
		Merits:            sortedDistinct(b.Merits),
		Flaws:             sortedDistinct(b.Flaws),
	}
	for id := range b.Attributes {
		c.Attributes[id] = b.Attribute(id)
	}

	if details := OriginDetails(p.DateOfBirth, p.PlaceOfBirth); details != "" {
		if id, ok := cat.ByName("background", OriginBackground); ok {
			c.Backgrounds[id] = 1
			c.BackgroundDetails[id] = details
		}
	}
	return c, nil
}

// Build reconstructs the creation build this sheet was made from.
func (c *Character) Build() creation.Build {
	return creation.Build{
		Attributes:     maps.Clone(c.Attributes),
		Skills:         maps.Clone(c.Skills),
		Disciplines:    maps.Clone(c.Disciplines),
		Backgrounds:    maps.Clone(c.Backgrounds),
		Merits:         slices.Clone(c.Merits),
		Flaws:          slices.Clone(c.Flaws),
		ClanID:         c.ClanID,
		PredatorTypeID: c.PredatorTypeID,
		SectID:         c.SectID,
	}
}

func positive(m map[int64]int) map[int64]int {
	out := make(map[int64]int, len(m))
	for id, r := range m {
		if r > 0 {
			out[id] = r
		}
	}
	return out
}

func sortedDistinct(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
