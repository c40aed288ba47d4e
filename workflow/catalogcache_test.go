package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmdatafocus/warranty_backend/models"
)

// NOTE: These tests are network-free; the fetch function is swapped for a
// fake. Real source fetching is covered by the ParseCatalog tests plus
// deployment configuration.

func fakeSnapshot(fetchedAt time.Time) *CatalogSnapshot {
	return &CatalogSnapshot{
		BOL01:     &models.Catalog{Source: models.CatalogSourceBOL01},
		BOL02:     &models.Catalog{Source: models.CatalogSourceBOL02},
		FetchedAt: fetchedAt,
	}
}

func TestCatalogCache_FetchesOnceWithinTTL(t *testing.T) {
	calls := 0
	cache := NewCatalogCache(time.Hour)
	cache.fetch = func(ctx context.Context) (*CatalogSnapshot, error) {
		calls++
		return fakeSnapshot(time.Now()), nil
	}

	first, err := cache.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := cache.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("fetch called %d times, want 1", calls)
	}
	if first != second {
		t.Fatal("within TTL both callers must see the same snapshot")
	}
}

func TestCatalogCache_RefreshSwapsSnapshot(t *testing.T) {
	calls := 0
	cache := NewCatalogCache(time.Hour)
	cache.fetch = func(ctx context.Context) (*CatalogSnapshot, error) {
		calls++
		return fakeSnapshot(time.Now()), nil
	}

	first, _ := cache.Current(context.Background())
	refreshed, err := cache.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first == refreshed {
		t.Fatal("refresh must build a new snapshot, not mutate the old one")
	}
	current, _ := cache.Current(context.Background())
	if current != refreshed {
		t.Fatal("the refreshed snapshot must be the live one")
	}
	if calls != 2 {
		t.Fatalf("fetch called %d times, want 2", calls)
	}
}

func TestCatalogCache_ServesStaleOnFetchFailure(t *testing.T) {
	healthy := true
	cache := NewCatalogCache(time.Nanosecond)
	cache.fetch = func(ctx context.Context) (*CatalogSnapshot, error) {
		if !healthy {
			return nil, errors.New("source down")
		}
		return fakeSnapshot(time.Now()), nil
	}

	first, err := cache.Current(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	healthy = false
	time.Sleep(time.Millisecond)
	stale, err := cache.Current(context.Background())
	if err != nil {
		t.Fatalf("stale snapshot should be served instead of failing: %v", err)
	}
	if stale != first {
		t.Fatal("expected the previous snapshot")
	}

	// Explicit refresh does surface the failure.
	if _, err := cache.Refresh(context.Background()); err == nil {
		t.Fatal("refresh must report the fetch failure")
	}
	// And the old snapshot stays live.
	if current, _ := cache.Current(context.Background()); current != first {
		t.Fatal("failed refresh must not clobber the live snapshot")
	}
}
