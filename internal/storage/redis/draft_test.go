package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/elysium/internal/config"
	"github.com/cory-johannsen/elysium/internal/game/creation"
)

func newStore(t *testing.T) (*DraftStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDraftStore(client, time.Hour), mr
}

func sampleDraft(owner int64) *creation.Draft {
	return &creation.Draft{
		OwnerID: owner,
		Build: creation.Build{
			Attributes: map[int64]int{1: 3, 2: 1},
			Skills:     map[int64]int{4: 2},
			Merits:     []int64{5},
			ClanID:     1,
		},
	}
}

func TestDraftStore_CreateGet(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	d := sampleDraft(7)
	require.NoError(t, store.Create(ctx, d))
	assert.NotEmpty(t, d.ID)
	assert.False(t, d.CreatedAt.IsZero())
	assert.True(t, mr.Exists("draft:"+d.ID))
	assert.Equal(t, time.Hour, mr.TTL("draft:"+d.ID))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Build, got.Build)
	assert.Equal(t, int64(7), got.OwnerID)

	byOwner, err := store.GetByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, d.ID, byOwner.ID)
}

func TestDraftStore_CreateReplacesOwnersDraft(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	first := sampleDraft(7)
	require.NoError(t, store.Create(ctx, first))
	second := sampleDraft(7)
	require.NoError(t, store.Create(ctx, second))

	assert.False(t, mr.Exists("draft:"+first.ID))
	_, err := store.Get(ctx, first.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	got, err := store.GetByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
}

func TestDraftStore_CreateRequiresOwner(t *testing.T) {
	store, _ := newStore(t)
	assert.ErrorIs(t, store.Create(context.Background(), &creation.Draft{}), ErrInvalidDraft)
	assert.ErrorIs(t, store.Create(context.Background(), nil), ErrInvalidDraft)
}

func TestDraftStore_SaveRefreshesTTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	d := sampleDraft(3)
	require.NoError(t, store.Create(ctx, d))
	mr.FastForward(50 * time.Minute)

	d.Build.Attributes[1] = 4
	require.NoError(t, store.Save(ctx, d))
	assert.Equal(t, time.Hour, mr.TTL("draft:"+d.ID))
	assert.Equal(t, time.Hour, mr.TTL("draft:owner:3"))

	got, err := store.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Build.Attributes[1])
}

func TestDraftStore_Expiry(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	d := sampleDraft(3)
	require.NoError(t, store.Create(ctx, d))
	mr.FastForward(2 * time.Hour)

	_, err := store.Get(ctx, d.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.ErrorIs(t, store.Save(ctx, d), ErrDraftNotFound)
	_, err = store.GetByOwner(ctx, 3)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDraftStore_GetByOwnerCleansDanglingMapping(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	d := sampleDraft(9)
	require.NoError(t, store.Create(ctx, d))
	mr.Del("draft:" + d.ID)

	_, err := store.GetByOwner(ctx, 9)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.False(t, mr.Exists("draft:owner:9"))
}

func TestDraftStore_Delete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	d := sampleDraft(4)
	require.NoError(t, store.Create(ctx, d))
	require.NoError(t, store.Delete(ctx, d.ID))
	assert.False(t, mr.Exists("draft:"+d.ID))
	assert.False(t, mr.Exists("draft:owner:4"))

	assert.NoError(t, store.Delete(ctx, d.ID))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr(), PoolSize: 2})
	require.NoError(t, err)
	_ = client.Close()

	mr.Close()
	_, err = NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	assert.Error(t, err)
}
