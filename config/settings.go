package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load env from .env (no-op when absent; Cloud Run injects env directly).
	godotenv.Load()
}

// CatalogSourceURLs returns the configured locations of the two FOB invoice
// catalogs. Both https:// and gs://bucket/object locations are accepted.
func CatalogSourceURLs() (bol01 string, bol02 string, err error) {
	bol01 = strings.TrimSpace(os.Getenv("CATALOG_BOL01_URL"))
	bol02 = strings.TrimSpace(os.Getenv("CATALOG_BOL02_URL"))
	if bol01 == "" || bol02 == "" {
		return "", "", errors.New("CATALOG_BOL01_URL and CATALOG_BOL02_URL are required")
	}
	return bol01, bol02, nil
}

func CatalogCacheTTL() time.Duration {
	// Env: CATALOG_CACHE_TTL_SECONDS (default 3600s)
	return envSeconds("CATALOG_CACHE_TTL_SECONDS", 3600)
}

func RunStoreTTL() time.Duration {
	// Env: RUN_STORE_TTL_SECONDS (default 3600s)
	return envSeconds("RUN_STORE_TTL_SECONDS", 3600)
}

// ClaimLayoutPath points to an optional JSON override of the claim-extract
// layout descriptor. Empty means the built-in monthly template layout.
func ClaimLayoutPath() string {
	return strings.TrimSpace(os.Getenv("CLAIM_LAYOUT_PATH"))
}

func envSeconds(name string, def int) time.Duration {
	secs := def
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			secs = n
		}
	}
	return time.Duration(secs) * time.Second
}

// GCSCredentialsJSON returns explicit service-account JSON when provided.
// Prefer ADC (Cloud Run service account / GOOGLE_APPLICATION_CREDENTIALS);
// set GCS_CREDENTIALS_JSON only for local development.
func GCSCredentialsJSON() string {
	return strings.TrimSpace(os.Getenv("GCS_CREDENTIALS_JSON"))
}

func ServerPort() string {
	port := os.Getenv("API_PORT")
	if port == "" {
		// Cloud Run standard env var.
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = "8080"
	}
	return port
}

// MaxUploadBytes bounds the claim-extract upload size.
func MaxUploadBytes() int64 {
	// Env: MAX_UPLOAD_MB (default 20)
	mb := int64(20)
	if v := strings.TrimSpace(os.Getenv("MAX_UPLOAD_MB")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			mb = n
		}
	}
	return mb * 1024 * 1024
}

// Validate fails fast on startup misconfiguration.
func Validate() error {
	if _, _, err := CatalogSourceURLs(); err != nil {
		return fmt.Errorf("catalog sources: %w", err)
	}
	return nil
}
