package chronicle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

type draftFixture struct {
	svc    *chronicle.DraftService
	drafts *memDrafts
	chars  *memCharacters
	cat    *catalog.Catalog
}

func newDraftFixture(t *testing.T) draftFixture {
	t.Helper()
	cat := loadCatalog(t)
	drafts := newMemDrafts()
	chars := newMemCharacters()
	return draftFixture{
		svc:    chronicle.NewDraftService(newCache(t, cat), drafts, chars, zaptest.NewLogger(t)),
		drafts: drafts,
		chars:  chars,
		cat:    cat,
	}
}

func TestStart_InitialBuild(t *testing.T) {
	f := newDraftFixture(t)
	v, err := f.svc.Start(context.Background(), 1)
	require.NoError(t, err)

	assert.NotEmpty(t, v.Draft.ID)
	assert.Len(t, v.Draft.Build.Attributes, len(f.cat.Attributes))
	for _, r := range v.Draft.Build.Attributes {
		assert.Equal(t, 1, r)
	}
	for _, r := range v.Draft.Build.Skills {
		assert.Equal(t, 0, r)
	}
	assert.Equal(t, creation.Pool{Used: 0, Available: 7, Remaining: 7}, v.Summary.Attributes)
	assert.Equal(t, 11, v.Summary.Skills.Remaining)
}

func TestEdit_ClanPredatorSect(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.Draft.ID

	v, err = f.svc.ChangeClan(ctx, id, clanBrujah)
	require.NoError(t, err)
	assert.Equal(t, map[int64]int{discCelerity: 1, discPotence: 1, discPresence: 1}, v.Draft.Build.Disciplines)

	v, err = f.svc.ChangePredatorType(ctx, id, predAlleycat)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Draft.Build.Disciplines[discCelerity])
	assert.Equal(t, 3, v.Draft.Build.Backgrounds[bgContacts])
	assert.Equal(t, 0, v.Summary.Backgrounds.Used)

	v, err = f.svc.ChangeSect(ctx, id, sectAnarch)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Draft.Build.Backgrounds[bgContacts])

	v, err = f.svc.ChangeSect(ctx, id, sectCamarilla)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Draft.Build.Backgrounds[bgContacts], "predator's shared background restored")
	assert.Equal(t, 1, v.Draft.Build.Backgrounds[bgStatus])

	v, err = f.svc.ChangeClan(ctx, id, clanToreador)
	require.NoError(t, err)
	assert.NotContains(t, v.Draft.Build.Disciplines, int64(discPotence))

	stored, err := f.drafts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, v.Draft.Build, stored.Build)
}

func TestEdit_RatingsClamp(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.Draft.ID

	v, err = f.svc.SetAttribute(ctx, id, attrStrength, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, v.Draft.Build.Attributes[attrStrength])

	v, err = f.svc.SetSkill(ctx, id, skillBrawl, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Draft.Build.Skills[skillBrawl])

	v, err = f.svc.SetBackground(ctx, id, 12, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Draft.Build.Backgrounds[12])

	v, err = f.svc.ClearBackground(ctx, id, 12)
	require.NoError(t, err)
	assert.NotContains(t, v.Draft.Build.Backgrounds, int64(12))

	v, err = f.svc.ToggleMerit(ctx, id, meritStunning)
	require.NoError(t, err)
	assert.Equal(t, []int64{meritStunning}, v.Draft.Build.Merits)
	assert.Equal(t, 4, v.Summary.Merits.Used)

	v, err = f.svc.ToggleFlaw(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Summary.Merits.FromFlaws)

	v, err = f.svc.SetDiscipline(ctx, id, discPotence, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Draft.Build.Disciplines[discPotence])
}

func TestEdit_FailureLeavesDraftUnchanged(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.Draft.ID

	_, err = f.svc.Edit(ctx, id,
		chronicle.Edit{Kind: chronicle.EditAttribute, ID: attrStrength, Rating: 3},
		chronicle.Edit{Kind: chronicle.EditClan, ID: 999},
	)
	assert.ErrorIs(t, err, chronicle.ErrUnknownChoice)

	_, err = f.svc.Edit(ctx, id, chronicle.Edit{Kind: "hair", ID: 1})
	assert.ErrorIs(t, err, chronicle.ErrInvalidEdit)

	_, err = f.svc.SetAttribute(ctx, id, 999, 2)
	assert.ErrorIs(t, err, creation.ErrUnknownTrait)

	stored, err := f.drafts.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Build.Attributes[attrStrength])
}

func TestEdit_ClearModifierWithZero(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.ChangeClan(ctx, v.Draft.ID, clanBrujah)
	require.NoError(t, err)
	v, err = f.svc.ChangeClan(ctx, v.Draft.ID, 0)
	require.NoError(t, err)
	assert.Zero(t, v.Draft.Build.ClanID)
	assert.Empty(t, v.Draft.Build.Disciplines)
}

func TestSubmit_RejectsOverBudget(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.Draft.ID

	_, err = f.svc.Edit(ctx, id,
		chronicle.Edit{Kind: chronicle.EditAttribute, ID: attrStrength, Rating: 5},
		chronicle.Edit{Kind: chronicle.EditAttribute, ID: attrDexterity, Rating: 5},
	)
	require.NoError(t, err)

	res, err := f.svc.Validate(ctx, id)
	require.NoError(t, err)
	assert.False(t, res.Valid)

	_, err = f.svc.Submit(ctx, id, character.Profile{Name: "Overreach"}, true)
	rejected, ok := chronicle.IsRejected(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, []string{"Attributes: Used 8 points, but only 7 available"}, rejected.Result.ErrorMessages())
	assert.Contains(t, err.Error(), "Attributes: Used 8 points")

	list, _ := f.chars.List(ctx, 0)
	assert.Empty(t, list)
	_, err = f.drafts.Get(ctx, id)
	assert.NoError(t, err, "rejected draft is kept for further editing")
}

func TestSubmit_WarningsNeedConfirmation(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 5)
	require.NoError(t, err)
	id := v.Draft.ID
	_, err = f.svc.ChangeClan(ctx, id, clanBrujah)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, id, character.Profile{Name: "Tentative"}, false)
	confirm, ok := chronicle.IsConfirmationRequired(err)
	require.True(t, ok, "got %v", err)
	require.Len(t, confirm.Warnings, 2)
	assert.Equal(t, "At least one Physical attribute must be 2 or higher", confirm.Warnings[0].Message)
	assert.Equal(t, "At least one Physical skill must be 1 or higher", confirm.Warnings[1].Message)
	list, _ := f.chars.List(ctx, 0)
	assert.Empty(t, list)

	saved, err := f.svc.Submit(ctx, id, character.Profile{Name: "Tentative"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(5), saved.AccountID)
	assert.Equal(t, int64(clanBrujah), saved.ClanID)

	_, err = f.drafts.Get(ctx, id)
	assert.True(t, errors.Is(err, errDraftMissing), "draft deleted after submit")
}

func TestSubmit_CleanBuildPersists(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 2)
	require.NoError(t, err)
	id := v.Draft.ID

	_, err = f.svc.Edit(ctx, id,
		chronicle.Edit{Kind: chronicle.EditClan, ID: clanBrujah},
		chronicle.Edit{Kind: chronicle.EditAttribute, ID: attrStamina, Rating: 3},
		chronicle.Edit{Kind: chronicle.EditSkill, ID: skillBrawl, Rating: 2},
	)
	require.NoError(t, err)

	saved, err := f.svc.Submit(ctx, id, character.Profile{Name: "Clean"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Attributes[attrStamina])
	assert.Equal(t, map[int64]int{skillBrawl: 2}, saved.Skills)
}

func TestSubmit_InvalidProfile(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, 2)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, v.Draft.ID, character.Profile{Name: ""}, true)
	assert.ErrorContains(t, err, "name must not be empty")
}

func TestResume(t *testing.T) {
	f := newDraftFixture(t)
	ctx := context.Background()
	started, err := f.svc.Start(ctx, 42)
	require.NoError(t, err)

	v, err := f.svc.Resume(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, started.Draft.ID, v.Draft.ID)

	s, err := f.svc.Summary(ctx, started.Draft.ID)
	require.NoError(t, err)
	assert.Equal(t, started.Summary, s)
}
