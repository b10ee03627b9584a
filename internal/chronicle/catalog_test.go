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
)

type countingSource struct {
	calls int
	fail  bool
	cat   *catalog.Catalog
}

func (s *countingSource) Load(context.Context) (*catalog.Catalog, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("db down")
	}
	return s.cat, nil
}

func TestCatalogCache_FetchesOnce(t *testing.T) {
	src := &countingSource{cat: loadCatalog(t)}
	cache := chronicle.NewCatalogCache(src, zaptest.NewLogger(t))
	ctx := context.Background()

	first, err := cache.Get(ctx)
	require.NoError(t, err)
	second, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, src.calls)

	_, err = cache.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCatalogCache_RetriesAfterFailure(t *testing.T) {
	src := &countingSource{cat: loadCatalog(t), fail: true}
	cache := chronicle.NewCatalogCache(src, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := cache.Get(ctx)
	assert.ErrorContains(t, err, "loading catalog: db down")

	src.fail = false
	cat, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cat)
	assert.Equal(t, 2, src.calls)
}

func TestCatalogCache_RefreshKeepsSnapshotOnError(t *testing.T) {
	src := &countingSource{cat: loadCatalog(t)}
	cache := chronicle.NewCatalogCache(src, zaptest.NewLogger(t))
	ctx := context.Background()
	before, err := cache.Get(ctx)
	require.NoError(t, err)

	src.fail = true
	_, err = cache.Refresh(ctx)
	assert.Error(t, err)
	after, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestFileSource(t *testing.T) {
	cat, err := chronicle.FileSource{Path: "../../content/catalog.yaml"}.Load(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Clans)

	_, err = chronicle.FileSource{Path: "missing.yaml"}.Load(context.Background())
	assert.Error(t, err)
}
