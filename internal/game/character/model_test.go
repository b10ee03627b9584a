package character_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

func testCatalog() *catalog.Catalog {
	cat := &catalog.Catalog{
		Attributes: []*catalog.Attribute{
			{ID: 1, Name: "Strength", Category: catalog.Physical},
			{ID: 2, Name: "Charisma", Category: catalog.Social},
		},
		Skills: []*catalog.Skill{
			{ID: 1, Name: "Brawl", Category: catalog.Physical},
			{ID: 2, Name: "Occult", Category: catalog.Mental},
		},
		Backgrounds: []*catalog.Background{
			{ID: 1, Name: "Herd"},
			{ID: 12, Name: "Origin", MaxRating: 1},
		},
	}
	return cat.Index()
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFromBuild_DropsZeroRatings(t *testing.T) {
	cat := testCatalog()
	b := creation.NewBuild(cat)
	b.Attributes[1] = 3
	b.Skills[2] = 2
	b.Disciplines[4] = 0
	b.Disciplines[5] = 1
	b.Backgrounds[1] = 0
	b.Merits = []int64{3, 1, 3}

	c, err := character.FromBuild(7, character.Profile{Name: "  Marcus  "}, b, cat)
	require.NoError(t, err)
	assert.Equal(t, "Marcus", c.Name)
	assert.Equal(t, int64(7), c.AccountID)
	assert.Equal(t, character.DefaultGeneration, c.Generation)
	assert.Equal(t, map[int64]int{1: 3, 2: 1}, c.Attributes)
	assert.Equal(t, map[int64]int{2: 2}, c.Skills)
	assert.Equal(t, map[int64]int{5: 1}, c.Disciplines)
	assert.Empty(t, c.Backgrounds)
	assert.Equal(t, []int64{1, 3}, c.Merits)
	assert.Zero(t, c.ID)
}

func TestFromBuild_AddsOriginBackground(t *testing.T) {
	cat := testCatalog()
	p := character.Profile{Name: "Marcus", DateOfBirth: date(1850, time.March, 2), PlaceOfBirth: "London"}
	c, err := character.FromBuild(1, p, creation.NewBuild(cat), cat)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Backgrounds[12])
	assert.Equal(t, "Born in 1850 (Victorian Era) in London", c.BackgroundDetails[12])
}

func TestFromBuild_NoOriginWithoutBirthData(t *testing.T) {
	cat := testCatalog()
	c, err := character.FromBuild(1, character.Profile{Name: "Marcus"}, creation.NewBuild(cat), cat)
	require.NoError(t, err)
	assert.NotContains(t, c.Backgrounds, int64(12))
}

func TestFromBuild_RejectsInvalidProfile(t *testing.T) {
	cat := testCatalog()
	_, err := character.FromBuild(1, character.Profile{Name: " ", Generation: 30}, creation.NewBuild(cat), cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must not be empty")
	assert.Contains(t, err.Error(), "generation must be between 4 and 16, got 30")
}

func TestProfileValidate_EmbraceBeforeBirth(t *testing.T) {
	p := character.Profile{Name: "A", DateOfBirth: date(1900, 1, 1), EmbraceDate: date(1890, 1, 1)}
	assert.ErrorContains(t, p.Validate(), "embrace_date must not precede date_of_birth")
}

func TestCharacterBuild_RoundTrip(t *testing.T) {
	cat := testCatalog()
	b := creation.NewBuild(cat)
	b.Attributes[2] = 4
	b.Skills[1] = 1
	b.ClanID = 3
	c, err := character.FromBuild(1, character.Profile{Name: "A"}, b, cat)
	require.NoError(t, err)

	back := c.Build()
	assert.Equal(t, creation.Validate(b, cat), creation.Validate(back, cat))
	assert.Equal(t, int64(3), back.ClanID)
}

func TestHistoricalEra_Boundaries(t *testing.T) {
	cases := map[int]string{
		100:  "Ancient Era",
		499:  "Ancient Era",
		500:  "Early Medieval Period",
		1299: "High Medieval Period",
		1450: "Late Medieval Period",
		1599: "Renaissance",
		1650: "Early Modern Period",
		1799: "Age of Enlightenment",
		1850: "Victorian Era",
		1919: "Edwardian Era",
		1930: "Interwar Period",
		1959: "Post-War Era",
		1975: "Modern Era (1960s-1970s)",
		1999: "Late 20th Century",
		2005: "Early 2000s",
		2010: "Contemporary Era",
		2026: "Contemporary Era",
	}
	for year, want := range cases {
		assert.Equal(t, want, character.HistoricalEra(year), "year %d", year)
	}
}

func TestTimePeriodContext(t *testing.T) {
	assert.Equal(t, "", character.TimePeriodContext(nil, ""))
	assert.Equal(t, "Prague", character.TimePeriodContext(nil, "Prague"))
	assert.Equal(t, "1620 (Early Modern Period)", character.TimePeriodContext(date(1620, 5, 1), ""))
	assert.Equal(t, "Born in Prague", character.OriginDetails(nil, "Prague"))
	assert.Equal(t, "", character.OriginDetails(nil, ""))
}

func TestAges(t *testing.T) {
	c := &character.Character{Profile: character.Profile{
		DateOfBirth: date(1850, time.June, 15),
		EmbraceDate: date(1880, time.June, 15),
	}}
	now := time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 175, c.TrueAge(now))
	assert.Equal(t, 145, c.YearsSinceEmbrace(now))
	assert.Equal(t, 146, c.YearsSinceEmbrace(now.AddDate(0, 0, 1)))
	assert.Zero(t, (&character.Character{}).TrueAge(now))
}

func TestProperty_YearsBetweenMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := time.Date(rapid.IntRange(100, 2020).Draw(t, "year"), time.Month(rapid.IntRange(1, 12).Draw(t, "month")),
			rapid.IntRange(1, 28).Draw(t, "day"), 0, 0, 0, 0, time.UTC)
		days := rapid.IntRange(0, 40000).Draw(t, "days")
		now := start.AddDate(0, 0, days)
		got := character.YearsBetween(start, now)
		if got < 0 || got > days/365 {
			t.Fatalf("YearsBetween(%v, %v) = %d out of range for %d days", start, now, got, days)
		}
		if later := character.YearsBetween(start, now.AddDate(0, 0, 1)); later < got {
			t.Fatalf("YearsBetween decreased from %d to %d", got, later)
		}
	})
}
