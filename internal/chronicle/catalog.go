// Package chronicle coordinates character drafts, submission, and story
// sessions on top of the creation engine and the storage collaborators.
package chronicle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/game/catalog"
)

// CatalogSource produces a catalog snapshot.
type CatalogSource interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// FileSource loads the catalog from a YAML content document.
type FileSource struct {
	Path string
}

// Load implements CatalogSource.
func (f FileSource) Load(context.Context) (*catalog.Catalog, error) {
	return catalog.LoadFile(f.Path)
}

// StaticSource serves an already-built catalog.
type StaticSource struct {
	Catalog *catalog.Catalog
}

// Load implements CatalogSource.
func (s StaticSource) Load(context.Context) (*catalog.Catalog, error) {
	return s.Catalog, nil
}

// CatalogCache fetches the catalog once and serves the snapshot until Refresh.
// A failed fetch is not cached; the next Get retries.
type CatalogCache struct {
	source CatalogSource
	logger *zap.Logger

	mu  sync.RWMutex
	cat *catalog.Catalog
}

// NewCatalogCache wraps source.
//
// Precondition: source and logger must be non-nil.
func NewCatalogCache(source CatalogSource, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{source: source, logger: logger}
}

// Get returns the cached catalog, loading it on first use.
func (c *CatalogCache) Get(ctx context.Context) (*catalog.Catalog, error) {
	c.mu.RLock()
	cat := c.cat
	c.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads the catalog from the source and replaces the snapshot.
//
// Postcondition: on error the previous snapshot, if any, is kept.
func (c *CatalogCache) Refresh(ctx context.Context) (*catalog.Catalog, error) {
	start := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	cat, err := c.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	c.cat = cat
	c.logger.Info("catalog loaded",
		zap.Int("clans", len(cat.Clans)),
		zap.Int("merits", len(cat.Merits)),
		zap.Int("flaws", len(cat.Flaws)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return cat, nil
}
