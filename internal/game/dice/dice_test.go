package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/elysium/internal/game/dice"
)

func TestCount_TensScoreTwice(t *testing.T) {
	assert.Equal(t, 0, dice.Count([]int{1, 2, 5}))
	assert.Equal(t, 2, dice.Count([]int{6, 9, 3}))
	assert.Equal(t, 2, dice.Count([]int{10}))
	assert.Equal(t, 5, dice.Count([]int{10, 10, 6}))
}

func TestRollPool_UsesSourceFaces(t *testing.T) {
	res, err := dice.RollPool(4, 3, dice.NewFaces(10, 2, 7, 5))
	require.NoError(t, err)
	assert.Equal(t, []int{10, 2, 7, 5}, res.Dice)
	assert.Equal(t, 3, res.Successes)
	assert.True(t, res.Succeeded)
	assert.Equal(t, 1, res.Criticals())
	assert.Equal(t, "4d10 vs 3 [10 2 7 5] = 3 successes (success)", res.String())
}

func TestRollPool_FailsBelowDifficulty(t *testing.T) {
	res, err := dice.RollPool(2, 2, dice.NewFaces(6, 1))
	require.NoError(t, err)
	assert.False(t, res.Succeeded)
	assert.Equal(t, "2d10 vs 2 [6 1] = 1 success (failure)", res.String())
}

func TestRollPool_RejectsOutOfRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for _, tc := range []struct{ pool, difficulty int }{{0, 1}, {21, 1}, {3, 0}, {3, 11}} {
		_, err := dice.RollPool(tc.pool, tc.difficulty, src)
		assert.ErrorIs(t, err, dice.ErrInvalidPool, "pool %d difficulty %d", tc.pool, tc.difficulty)
	}
}

func TestProperty_RollPool_Invariants(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		pool := rapid.IntRange(dice.MinPool, dice.MaxPool).Draw(rt, "pool")
		difficulty := rapid.IntRange(dice.MinDifficulty, dice.MaxDifficulty).Draw(rt, "difficulty")
		res, err := dice.RollPool(pool, difficulty, src)
		require.NoError(rt, err)
		require.Len(rt, res.Dice, pool)
		for _, f := range res.Dice {
			assert.GreaterOrEqual(rt, f, 1)
			assert.LessOrEqual(rt, f, 10)
		}
		assert.Equal(rt, dice.Count(res.Dice), res.Successes)
		assert.Equal(rt, res.Successes >= difficulty, res.Succeeded)
		assert.LessOrEqual(rt, res.Successes, 2*pool)
	})
}

func TestParsePool(t *testing.T) {
	cases := []struct {
		expr             string
		pool, difficulty int
	}{
		{"5", 5, 1},
		{"5d10", 5, 1},
		{"5d10 vs 3", 5, 3},
		{"7 4", 7, 4},
		{"  3D10  2 ", 3, 2},
	}
	for _, tc := range cases {
		pool, difficulty, err := dice.ParsePool(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.pool, pool, tc.expr)
		assert.Equal(t, tc.difficulty, difficulty, tc.expr)
	}
}

func TestParsePool_Errors(t *testing.T) {
	for _, expr := range []string{"", "abc", "5d6", "5 x", "0", "30 2", "5 vs", "1 2 3 4"} {
		_, _, err := dice.ParsePool(expr)
		assert.Error(t, err, "%q should not parse", expr)
	}
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(10)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

func TestRoller_LogsEveryRoll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := dice.NewLoggedRoller(dice.NewFaces(8, 3, 10), zap.New(core))

	res, err := r.RollExpr("3d10 vs 2")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Successes)

	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["pool"])
	assert.Equal(t, int64(3), fields["successes"])
	assert.Equal(t, true, fields["succeeded"])

	_, err = r.Roll(0, 1)
	assert.ErrorIs(t, err, dice.ErrInvalidPool)
	assert.Equal(t, 1, logs.Len())
}
