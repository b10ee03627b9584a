package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

func TestStoryRepository_Lifecycle(t *testing.T) {
	pool, cat := seededPool(t)
	ctx := context.Background()

	c, err := character.FromBuild(0, character.Profile{Name: uniqueName("story")}, creation.NewBuild(cat), cat)
	require.NoError(t, err)
	created, err := postgres.NewCharacterRepository(pool).Create(ctx, c)
	require.NoError(t, err)

	repo := postgres.NewStoryRepository(pool)
	s, err := story.New(created.ID, "Night One", "The Prince summons you.")
	require.NoError(t, err)
	saved, err := repo.Create(ctx, s)
	require.NoError(t, err)
	assert.Greater(t, saved.ID, int64(0))
	assert.Empty(t, saved.DiceRolls)

	roll, err := dice.RollPool(3, 2, dice.NewFaces(10, 6, 1))
	require.NoError(t, err)
	saved.Continue(roll, "You kneel before the throne.")
	require.NoError(t, repo.Update(ctx, saved))

	got, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	require.Len(t, got.DiceRolls, 1)
	assert.Equal(t, []int{10, 6, 1}, got.DiceRolls[0].Dice)
	assert.Equal(t, 3, got.DiceRolls[0].Successes)
	assert.Equal(t, "You kneel before the throne.", got.CurrentScene)

	list, err := repo.ListByCharacter(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, saved.ID, list[0].ID)
}

func TestStoryRepository_Errors(t *testing.T) {
	pool, _ := seededPool(t)
	ctx := context.Background()
	repo := postgres.NewStoryRepository(pool)

	_, err := repo.GetByID(ctx, 999999999)
	assert.ErrorIs(t, err, postgres.ErrSessionNotFound)

	s, err := story.New(999999999, "Orphan", "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, s)
	assert.ErrorIs(t, err, postgres.ErrCharacterNotFound)

	s.ID = 999999999
	assert.ErrorIs(t, repo.Update(ctx, s), postgres.ErrSessionNotFound)
}
