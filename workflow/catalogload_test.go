package workflow

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/warranty_backend/models"
)

func TestParseCatalog_DedupesToMaxDate(t *testing.T) {
	csv := strings.Join([]string{
		"Ult_Ingreso;NP;FOB",
		"2024-01-01;P1;10.00",
		"2024-03-15 08:30:00;P1;11.50",
		"2024-02-01;P2;5.00",
	}, "\n")

	catalog, loadErrors, err := ParseCatalog(bytes.NewBufferString(csv), models.CatalogSourceBOL01, models.DefaultCatalogLayout(models.CatalogSourceBOL01))
	if err != nil {
		t.Fatal(err)
	}
	if len(loadErrors) != 0 {
		t.Fatalf("unexpected load errors: %+v", loadErrors)
	}
	if len(catalog.Entries) != 3 {
		t.Fatalf("got %d raw entries, want 3", len(catalog.Entries))
	}

	latest := catalog.Latest()
	if len(latest) != 2 {
		t.Fatalf("got %d deduplicated parts, want 2", len(latest))
	}
	p1 := latest["P1"]
	if !p1.FOB.Equal(decimal.RequireFromString("11.50")) {
		t.Errorf("P1 FOB = %s, want the freshest row's 11.50", p1.FOB)
	}
}

func TestParseCatalog_BadDateIsRowLevelError(t *testing.T) {
	csv := strings.Join([]string{
		"Ult_Ingreso;NP;FOB",
		"not-a-date;P1;10.00",
		"2024-02-01;P2;5.00",
		"2024-02-02;;5.00",
		"2024-02-03;P4;abc",
	}, "\n")

	catalog, loadErrors, err := ParseCatalog(bytes.NewBufferString(csv), models.CatalogSourceBOL01, models.DefaultCatalogLayout(models.CatalogSourceBOL01))
	if err != nil {
		t.Fatalf("row-level problems must not fail the load: %v", err)
	}
	if len(catalog.Entries) != 1 || catalog.Entries[0].PartNumber != "P2" {
		t.Fatalf("entries = %+v, want only P2", catalog.Entries)
	}
	if len(loadErrors) != 3 {
		t.Fatalf("got %d load errors, want 3: %+v", len(loadErrors), loadErrors)
	}
	for _, le := range loadErrors {
		if le.Stage != "catalog:BOL01" {
			t.Errorf("load error stage = %q, want catalog:BOL01", le.Stage)
		}
	}
}

func TestParseCatalog_BOMHeaderAndLatin1(t *testing.T) {
	// The BOL01 export ships with a UTF-8 BOM in front of the date column
	// and Latin-1 text in the body (0xF1 = ñ).
	raw := append([]byte("\xef\xbb\xbfUlt_Ingreso;NP;FOB\n"), []byte("2024-01-01;PA\xf1O;3.30\n")...)

	catalog, loadErrors, err := ParseCatalog(bytes.NewReader(raw), models.CatalogSourceBOL01, models.DefaultCatalogLayout(models.CatalogSourceBOL01))
	if err != nil {
		t.Fatal(err)
	}
	if len(loadErrors) != 0 {
		t.Fatalf("unexpected load errors: %+v", loadErrors)
	}
	if len(catalog.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(catalog.Entries))
	}
	if got := catalog.Entries[0].PartNumber; got != "PAñO" {
		t.Errorf("part number = %q, want Latin-1 decoded PAñO", got)
	}
}

func TestParseCatalog_BOL02TrailingSpaceHeader(t *testing.T) {
	csv := strings.Join([]string{
		"NP;FOB;SHIP DATE ",
		"P9;2.20;2024-05-01 00:00:00",
	}, "\n")

	catalog, _, err := ParseCatalog(bytes.NewBufferString(csv), models.CatalogSourceBOL02, models.DefaultCatalogLayout(models.CatalogSourceBOL02))
	if err != nil {
		t.Fatal(err)
	}
	if len(catalog.Entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(catalog.Entries))
	}
}

func TestParseCatalog_MissingColumnIsFatal(t *testing.T) {
	csv := "NP;PRICE\nP1;10.00\n"
	_, _, err := ParseCatalog(bytes.NewBufferString(csv), models.CatalogSourceBOL01, models.DefaultCatalogLayout(models.CatalogSourceBOL01))
	if err == nil {
		t.Fatal("expected error for missing FOB/date columns")
	}
}
