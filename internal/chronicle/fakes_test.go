package chronicle_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
	"github.com/cory-johannsen/elysium/internal/storage/redis"
	"github.com/cory-johannsen/elysium/internal/testutil"
)

var (
	errDraftMissing     = redis.ErrDraftNotFound
	errCharacterMissing = postgres.ErrCharacterNotFound
)

type (
	memDrafts        = testutil.MemDrafts
	memCharacters    = testutil.MemCharacters
	memStories       = testutil.MemStories
	scriptedNarrator = testutil.ScriptedNarrator
)

func newMemDrafts() *memDrafts         { return testutil.NewMemDrafts() }
func newMemCharacters() *memCharacters { return testutil.NewMemCharacters() }
func newMemStories() *memStories       { return testutil.NewMemStories() }

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadFile("../../content/catalog.yaml")
	require.NoError(t, err)
	return cat
}

func newCache(t *testing.T, cat *catalog.Catalog) *chronicle.CatalogCache {
	return chronicle.NewCatalogCache(chronicle.StaticSource{Catalog: cat}, zaptest.NewLogger(t))
}

// Catalog ids from content/catalog.yaml used across tests.
const (
	attrStrength  = 1
	attrDexterity = 2
	attrStamina   = 3
	skillBrawl    = 2
	clanBrujah    = 1
	clanToreador  = 5
	discCelerity  = 4
	discPotence   = 9
	discPresence  = 10
	predAlleycat  = 1
	sectCamarilla = 1
	sectAnarch    = 2
	bgContacts    = 2
	bgStatus      = 11
	meritStunning = 2
)
