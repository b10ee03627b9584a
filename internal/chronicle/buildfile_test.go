package chronicle_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

func writeBuild(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "build.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadBuildFile(t *testing.T) {
	cat := loadCatalog(t)
	path := writeBuild(t, `
clan: brujah
attributes:
  Stamina: 3
skills:
  Brawl: 2
merits: [Stunning, stunning]
`)
	b, err := chronicle.LoadBuildFile(path, cat)
	require.NoError(t, err)
	assert.Equal(t, int64(clanBrujah), b.ClanID)
	assert.Equal(t, 3, b.Attribute(attrStamina))
	assert.Equal(t, 2, b.Skill(skillBrawl))
	assert.Equal(t, 1, b.Disciplines[discPotence])
	assert.True(t, b.HasMerit(meritStunning))

	res := creation.Validate(b, cat)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestBuildFile_EditsPutModifiersFirst(t *testing.T) {
	cat := loadCatalog(t)
	edits, err := chronicle.BuildFile{
		Attributes: map[string]int{"Strength": 2, "Dexterity": 3},
		Clan:       "Brujah",
		Sect:       "Anarch",
	}.Edits(cat)
	require.NoError(t, err)
	assert.Equal(t, []chronicle.Edit{
		{Kind: chronicle.EditClan, ID: clanBrujah},
		{Kind: chronicle.EditSect, ID: sectAnarch},
		{Kind: chronicle.EditAttribute, ID: attrDexterity, Rating: 3},
		{Kind: chronicle.EditAttribute, ID: attrStrength, Rating: 2},
	}, edits)
}

func TestLoadBuildFile_Errors(t *testing.T) {
	cat := loadCatalog(t)

	_, err := chronicle.LoadBuildFile(writeBuild(t, "skills: {Basketweaving: 2}\n"), cat)
	assert.ErrorIs(t, err, chronicle.ErrUnknownChoice)
	assert.ErrorContains(t, err, `no skill named "Basketweaving"`)

	_, err = chronicle.LoadBuildFile(writeBuild(t, "clan: [oops\n"), cat)
	assert.ErrorContains(t, err, "parsing build file")

	_, err = chronicle.LoadBuildFile(filepath.Join(t.TempDir(), "missing.yaml"), cat)
	assert.ErrorContains(t, err, "reading build file")
}
