package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/mmdatafocus/warranty_backend/config"
	"github.com/mmdatafocus/warranty_backend/models"
)

// CatalogSnapshot is one immutable view of both catalogs, loaded together.
// Loading is complete-or-fail: a snapshot never holds a partial catalog.
type CatalogSnapshot struct {
	BOL01      *models.Catalog
	BOL02      *models.Catalog
	LoadErrors []models.LoadError
	FetchedAt  time.Time
}

// Get returns the catalog of one source.
func (s *CatalogSnapshot) Get(source models.CatalogSource) *models.Catalog {
	if source == models.CatalogSourceBOL02 {
		return s.BOL02
	}
	return s.BOL01
}

// FetchSnapshot loads both configured catalog sources.
func FetchSnapshot(ctx context.Context) (*CatalogSnapshot, error) {
	bol01URL, bol02URL, err := config.CatalogSourceURLs()
	if err != nil {
		return nil, err
	}

	bol01, errs01, err := FetchCatalog(ctx, models.CatalogSourceBOL01, bol01URL)
	if err != nil {
		return nil, err
	}
	bol02, errs02, err := FetchCatalog(ctx, models.CatalogSourceBOL02, bol02URL)
	if err != nil {
		return nil, err
	}

	return &CatalogSnapshot{
		BOL01:      bol01,
		BOL02:      bol02,
		LoadErrors: append(errs01, errs02...),
		FetchedAt:  time.Now(),
	}, nil
}

// CatalogCache holds the process-wide snapshot. Refresh builds a new
// snapshot and swaps it in atomically; a cached snapshot is never mutated.
// On refresh failure the previous snapshot stays live.
type CatalogCache struct {
	mu    sync.RWMutex
	snap  *CatalogSnapshot
	ttl   time.Duration
	fetch func(ctx context.Context) (*CatalogSnapshot, error)
}

func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{ttl: ttl, fetch: FetchSnapshot}
}

// Current returns the live snapshot, fetching when none exists yet or the
// TTL has lapsed. Concurrent callers during a refresh may fetch redundantly;
// last writer wins and both snapshots are equally fresh.
func (c *CatalogCache) Current(ctx context.Context) (*CatalogSnapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	if snap != nil && (c.ttl <= 0 || time.Since(snap.FetchedAt) < c.ttl) {
		return snap, nil
	}
	fresh, err := c.fetch(ctx)
	if err != nil {
		if snap != nil {
			// Keep serving the stale snapshot rather than failing runs.
			return snap, nil
		}
		return nil, err
	}
	c.mu.Lock()
	c.snap = fresh
	c.mu.Unlock()
	return fresh, nil
}

// Refresh forces a reload regardless of TTL.
func (c *CatalogCache) Refresh(ctx context.Context) (*CatalogSnapshot, error) {
	fresh, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.snap = fresh
	c.mu.Unlock()
	return fresh, nil
}
