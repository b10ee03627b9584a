package handlers_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/frontend/handlers"
	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	gamecommand "github.com/cory-johannsen/elysium/internal/game/command"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadFile("../../../content/catalog.yaml")
	require.NoError(t, err)
	return cat
}

func TestParseEdit(t *testing.T) {
	cat := loadCatalog(t)
	cases := []struct {
		verb string
		args []string
		want chronicle.Edit
	}{
		{"attr", []string{"strength", "3"}, chronicle.Edit{Kind: chronicle.EditAttribute, ID: 1, Rating: 3}},
		{"skill", []string{"Animal", "Ken", "2"}, chronicle.Edit{Kind: chronicle.EditSkill, ID: 10, Rating: 2}},
		{"disc", []string{"Potence", "0"}, chronicle.Edit{Kind: chronicle.EditDiscipline, ID: 9}},
		{"merit", []string{"Stunning"}, chronicle.Edit{Kind: chronicle.EditMerit, ID: 2}},
		{"flaw", []string{"hunted"}, chronicle.Edit{Kind: chronicle.EditFlaw, ID: 8}},
		{"clan", []string{"Brujah"}, chronicle.Edit{Kind: chronicle.EditClan, ID: 1}},
		{"clan", []string{"none"}, chronicle.Edit{Kind: chronicle.EditClan}},
		{"sect", []string{"None"}, chronicle.Edit{Kind: chronicle.EditSect}},
	}
	for _, tc := range cases {
		got, err := handlers.ParseEdit(cat, tc.verb, tc.args)
		require.NoError(t, err, "%s %v", tc.verb, tc.args)
		assert.Equal(t, tc.want, got, "%s %v", tc.verb, tc.args)
	}
}

func TestParseEdit_Errors(t *testing.T) {
	cat := loadCatalog(t)
	cases := []struct {
		verb string
		args []string
		msg  string
	}{
		{"juggle", []string{"x"}, `unknown builder command "juggle"`},
		{"attr", []string{"Strength"}, "usage: attr <name> <rating>"},
		{"attr", []string{"Strength", "lots"}, `rating must be a number, got "lots"`},
		{"skill", []string{"Basketweaving", "1"}, `no skill named "Basketweaving"`},
		{"merit", nil, "usage: merit <name>"},
		{"merit", []string{"none"}, `no merit named "none"`},
	}
	for _, tc := range cases {
		_, err := handlers.ParseEdit(cat, tc.verb, tc.args)
		assert.EqualError(t, err, tc.msg, "%s %v", tc.verb, tc.args)
	}
}

func TestParseDate(t *testing.T) {
	d, err := handlers.ParseDate("1850")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1850, time.January, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = handlers.ParseDate("1923-04-17")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1923, time.April, 17, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"18x0", "April 1923", "1923-13-01", "923"} {
		_, err := handlers.ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestProperty_ParseDateYear(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		year := rapid.IntRange(1000, 9999).Draw(rt, "year")
		d, err := handlers.ParseDate(time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"))
		require.NoError(rt, err)
		assert.Equal(rt, year, d.Year())
	})
}

func TestRenderRoll(t *testing.T) {
	out := telnet.StripANSI(handlers.RenderRoll(dice.PoolResult{
		Pool: 2, Difficulty: 2, Dice: []int{6, 1}, Successes: 1,
	}))
	assert.Equal(t, "2d10 vs 2 [6 1] = 1 success (failure)", out)
}

func TestRenderSummary(t *testing.T) {
	out := telnet.StripANSI(handlers.RenderSummary(creation.Summary{
		Attributes:  creation.Pool{Used: 8, Available: 7, Remaining: -1},
		Skills:      creation.Pool{Used: 2, Available: 11, Remaining: 9},
		Merits:      creation.MeritPool{Pool: creation.Pool{Used: 4, Available: 10, Remaining: 6}, FromFlaws: 3},
		Flaws:       creation.FlawPool{PointsGained: 3, MaxGain: 7},
		Backgrounds: creation.Pool{Available: 3, Remaining: 3},
	}))
	assert.Contains(t, out, "Attributes   8/7 used, -1 left")
	assert.Contains(t, out, "Skills       2/11 used, 9 left")
	assert.Contains(t, out, "Merits       4/10 used, 6 left (3 from flaws)")
	assert.Contains(t, out, "Flaws        3/7 gained")
}

func TestRenderResult(t *testing.T) {
	ok := telnet.StripANSI(handlers.RenderResult(creation.Result{Valid: true}))
	assert.Contains(t, ok, "The build is complete.")

	out := telnet.StripANSI(handlers.RenderResult(creation.Result{
		Errors:   []creation.Problem{{Message: "Skills: Used 12 points, but only 11 available"}},
		Warnings: []creation.Problem{{Message: "At least one Physical skill must be 1 or higher"}},
	}))
	assert.NotContains(t, out, "complete")
	assert.Contains(t, out, "  x Skills: Used 12 points, but only 11 available")
	assert.Contains(t, out, "  ! At least one Physical skill must be 1 or higher")
}

func TestRenderSheet(t *testing.T) {
	born := time.Date(1850, time.March, 2, 0, 0, 0, 0, time.UTC)
	out := telnet.StripANSI(handlers.RenderSheet(chronicle.Sheet{
		Character: &character.Character{ID: 4, Profile: character.Profile{
			Name: "Marcus", Concept: "Dockworker", DateOfBirth: &born, PlaceOfBirth: "London", Generation: 13,
		}},
		Clan:       "Brujah",
		Era:        "Victorian Era",
		TrueAge:    176,
		Attributes: []chronicle.Rated{{Name: "Strength", Rating: 3}},
		Merits:     []chronicle.Rated{{Name: "Stunning", Rating: 4}},
	}))
	assert.Contains(t, out, "Marcus  #4")
	assert.Contains(t, out, "Clan:      Brujah")
	assert.Contains(t, out, "Born:      1850 (Victorian Era) in London, 176 years ago")
	assert.Contains(t, out, "Strength          ●●●○○")
	assert.Contains(t, out, "+ Stunning (4)")
	assert.NotContains(t, out, "Skills")
}

func TestRenderCatalogTable(t *testing.T) {
	cat := loadCatalog(t)
	out := telnet.StripANSI(handlers.RenderCatalogTable(cat, "clans"))
	assert.Contains(t, out, "Brujah")
	assert.Contains(t, out, "Celerity, Potence, Presence")
	assert.Contains(t, handlers.RenderCatalogTable(cat, "Skills"), "Animal Ken")
	assert.Contains(t, telnet.StripANSI(handlers.RenderCatalogTable(cat, "weapons")), `Unknown table "weapons".`)
}

func TestRenderCharacterLine(t *testing.T) {
	out := telnet.StripANSI(handlers.RenderCharacterLine(&character.Character{
		ID: 12, Profile: character.Profile{Name: "Lucia", Concept: "Fixer"},
	}))
	assert.Equal(t, "  #12   Lucia (Fixer)", out)
}

func TestRenderHelp(t *testing.T) {
	lines := handlers.RenderHelp("Commands:", gamecommand.MustRegistry(gamecommand.LobbyCommands()))
	require.Len(t, lines, 5)
	assert.Equal(t, "Commands:", telnet.StripANSI(lines[0]))
	assert.Equal(t, "  login <username> <password>     connect to your account", telnet.StripANSI(lines[1]))
	assert.Equal(t, "  quit                            disconnect", telnet.StripANSI(lines[4]))
}
