package workflow

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"google.golang.org/api/option"

	"github.com/mmdatafocus/warranty_backend/config"
	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/utils"
)

// Catalog date cells arrive either with or without a time component.
var catalogDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

func parseCatalogDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range catalogDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q matches no accepted layout", raw)
}

// openCatalogSource opens a configured catalog location. gs://bucket/object
// reads through the GCS client (ADC, or GCS_CREDENTIALS_JSON locally);
// anything else is fetched over HTTP.
func openCatalogSource(ctx context.Context, location string) (io.ReadCloser, error) {
	if after, ok := strings.CutPrefix(location, "gs://"); ok {
		bucket, object, found := strings.Cut(after, "/")
		if !found || object == "" {
			return nil, fmt.Errorf("invalid gs:// location %q", location)
		}
		var opts []option.ClientOption
		if credJSON := config.GCSCredentialsJSON(); credJSON != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(credJSON)))
		}
		client, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, err
		}
		rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &gcsObjectReader{ReadCloser: rc, client: client}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %s", location, resp.Status)
	}
	return resp.Body, nil
}

// gcsObjectReader ties the client lifetime to the object reader.
type gcsObjectReader struct {
	io.ReadCloser
	client *storage.Client
}

func (r *gcsObjectReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.client.Close(); err == nil {
		err = cerr
	}
	return err
}

// FetchCatalog loads one catalog source completely or not at all. Row-level
// failures (bad date, bad price, blank part number) drop the row and are
// returned as LoadErrors; transport and header failures are fatal.
func FetchCatalog(ctx context.Context, source models.CatalogSource, location string) (*models.Catalog, []models.LoadError, error) {
	rc, err := openCatalogSource(ctx, location)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %s: %w", source, err)
	}
	defer rc.Close()

	catalog, loadErrors, err := ParseCatalog(rc, source, models.DefaultCatalogLayout(source))
	if err != nil {
		return nil, nil, fmt.Errorf("catalog %s: %w", source, err)
	}
	return catalog, loadErrors, nil
}

// ParseCatalog reads a semicolon-delimited, Latin-1 encoded invoice export.
func ParseCatalog(r io.Reader, source models.CatalogSource, layout models.CatalogLayout) (*models.Catalog, []models.LoadError, error) {
	stage := "catalog:" + string(source)

	reader := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading header: %w", err)
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[utils.NormalizeHeader(h)] = i
	}
	npCol, ok := cols[utils.NormalizeHeader(layout.PartNumber)]
	if !ok {
		return nil, nil, fmt.Errorf("missing column %q", layout.PartNumber)
	}
	fobCol, ok := cols[utils.NormalizeHeader(layout.FOB)]
	if !ok {
		return nil, nil, fmt.Errorf("missing column %q", layout.FOB)
	}
	dateCol, ok := cols[utils.NormalizeHeader(layout.Date)]
	if !ok {
		return nil, nil, fmt.Errorf("missing column %q", layout.Date)
	}

	catalog := &models.Catalog{Source: source}
	loadErrors := []models.LoadError{}
	rowNo := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", rowNo+1, err)
		}
		rowNo++

		field := func(col int) string {
			if col >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[col])
		}

		np := field(npCol)
		if np == "" {
			loadErrors = append(loadErrors, models.LoadError{
				Stage: stage, Row: rowNo, Field: layout.PartNumber,
				Reason: "empty part number",
			})
			continue
		}
		fob := utils.CoerceDecimal(field(fobCol))
		if fob == nil {
			loadErrors = append(loadErrors, models.LoadError{
				Stage: stage, Row: rowNo, Field: layout.FOB, Value: field(fobCol),
				Reason: "FOB is not numeric",
			})
			continue
		}
		date, err := parseCatalogDate(field(dateCol))
		if err != nil {
			loadErrors = append(loadErrors, models.LoadError{
				Stage: stage, Row: rowNo, Field: layout.Date, Value: field(dateCol),
				Reason: err.Error(),
			})
			continue
		}

		catalog.Entries = append(catalog.Entries, models.CatalogEntry{
			PartNumber: np,
			FOB:        *fob,
			Date:       date,
			Source:     source,
		})
	}

	return catalog, loadErrors, nil
}
