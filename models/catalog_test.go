package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func entry(np, fob, date string) CatalogEntry {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return CatalogEntry{PartNumber: np, FOB: decimal.RequireFromString(fob), Date: d, Source: CatalogSourceBOL01}
}

func TestCatalogLatest_OneEntryPerPart(t *testing.T) {
	c := &Catalog{Source: CatalogSourceBOL01, Entries: []CatalogEntry{
		entry("P1", "10.00", "2024-01-01"),
		entry("P1", "12.00", "2024-02-01"),
		entry("P1", "11.00", "2024-01-15"),
		entry("P2", "5.00", "2024-01-01"),
	}}

	latest := c.Latest()
	if len(latest) != 2 {
		t.Fatalf("got %d parts, want 2", len(latest))
	}
	if !latest["P1"].FOB.Equal(decimal.RequireFromString("12.00")) {
		t.Errorf("P1 = %s, want the newest 12.00", latest["P1"].FOB)
	}
}

func TestCatalogLatestWithin_OlderEntryWinsInsideWindow(t *testing.T) {
	c := &Catalog{Source: CatalogSourceBOL01, Entries: []CatalogEntry{
		entry("P1", "10.00", "2024-01-01"),
		entry("P1", "12.00", "2024-02-01"),
	}}

	cutoff := entry("x", "0", "2024-01-20").Date
	latest := c.LatestWithin(&cutoff)
	if !latest["P1"].FOB.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("P1 within cutoff = %s, want 10.00", latest["P1"].FOB)
	}
}

func TestCatalogLookup(t *testing.T) {
	c := &Catalog{Source: CatalogSourceBOL01, Entries: []CatalogEntry{entry("P1", "10.00", "2024-01-01")}}

	if _, ok := c.Lookup("P9"); ok {
		t.Error("unknown part must not resolve")
	}
	got, ok := c.Lookup(" P1 ")
	if !ok || !got.FOB.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("Lookup trimmed = %+v (ok=%v), want P1 at 10.00", got, ok)
	}
}

func TestParseCatalogSource(t *testing.T) {
	if s, err := ParseCatalogSource(" bol02 "); err != nil || s != CatalogSourceBOL02 {
		t.Errorf("got %v, %v", s, err)
	}
	if _, err := ParseCatalogSource("BOL03"); err == nil {
		t.Error("BOL03 must be rejected")
	}
}
