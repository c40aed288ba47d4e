package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CatalogSource identifies one of the two FOB invoice catalogs.
type CatalogSource string

const (
	CatalogSourceBOL01 CatalogSource = "BOL01"
	CatalogSourceBOL02 CatalogSource = "BOL02"
)

func (s CatalogSource) IsValid() bool {
	return s == CatalogSourceBOL01 || s == CatalogSourceBOL02
}

func ParseCatalogSource(raw string) (CatalogSource, error) {
	s := CatalogSource(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", errors.New("catalog source must be BOL01 or BOL02")
	}
	return s, nil
}

// CatalogEntry is one invoice row: a part number priced at FOB as of a date.
// Entries are immutable once loaded.
type CatalogEntry struct {
	PartNumber string          `json:"np"`
	FOB        decimal.Decimal `json:"fob"`
	Date       time.Time       `json:"date"`
	Source     CatalogSource   `json:"source"`
}

// CatalogLayout names the columns a raw catalog file must provide.
// BOL01 dates its rows with "Ult_Ingreso" (sometimes BOM-prefixed at export),
// BOL02 with "SHIP DATE " (trailing space in the real header). Matching is
// whitespace-insensitive, so the canonical spellings below are enough.
type CatalogLayout struct {
	PartNumber string `json:"part_number" validate:"required"`
	FOB        string `json:"fob" validate:"required"`
	Date       string `json:"date" validate:"required"`
}

func DefaultCatalogLayout(source CatalogSource) CatalogLayout {
	layout := CatalogLayout{PartNumber: "NP", FOB: "FOB", Date: "Ult_Ingreso"}
	if source == CatalogSourceBOL02 {
		layout.Date = "SHIP DATE"
	}
	return layout
}

// Catalog holds every loadable row of one source. Lookups go through the
// deduplicated index, never the raw rows.
type Catalog struct {
	Source  CatalogSource
	Entries []CatalogEntry
}

// Latest returns the live index: exactly one entry per part number, the one
// with the maximum date among duplicates.
func (c *Catalog) Latest() map[string]CatalogEntry {
	return c.LatestWithin(nil)
}

// LatestWithin restricts the catalog to rows dated on or before the cutoff
// before deduplicating. A nil cutoff means no restriction. The winning row
// per part number is picked inside the window, so an older row can win when
// the newest one falls past the cutoff.
func (c *Catalog) LatestWithin(cutoff *time.Time) map[string]CatalogEntry {
	index := make(map[string]CatalogEntry, len(c.Entries))
	for _, e := range c.Entries {
		if cutoff != nil && e.Date.After(*cutoff) {
			continue
		}
		existing, ok := index[e.PartNumber]
		if !ok || e.Date.After(existing.Date) {
			index[e.PartNumber] = e
		}
	}
	return index
}

// Lookup returns the most recent entry for a part number, if any.
func (c *Catalog) Lookup(partNumber string) (CatalogEntry, bool) {
	e, ok := c.Latest()[strings.TrimSpace(partNumber)]
	return e, ok
}
