package utils

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

func DereferencePtr[T any](ptr *T, defaults ...T) T {
	if ptr != nil {
		return *ptr
	}
	if len(defaults) > 0 {
		return defaults[0]
	}
	var zero T
	return zero
}

func NilIfEmpty[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}

// FormatAmount renders a monetary amount with two decimals and comma
// thousands grouping, e.g. 1234567.5 -> "1,234,567.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// NormalizeHeader canonicalizes a column header for matching: lowercased,
// all whitespace (including embedded newlines) removed, BOM stripped.
// The monthly template carries quirks like "Part  No. (A)" and
// "Parts Price\nTotal (A)" that must match their single-space spellings.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\uFEFF")
	// A UTF-8 BOM read through a Latin-1 decoder survives as these three
	// characters; the BOL01 export ships exactly that way.
	h = strings.TrimPrefix(h, "ï»¿")
	var b strings.Builder
	for _, r := range h {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// CoerceDecimal parses a numeric cell tolerantly: surrounding whitespace and
// comma grouping are ignored. Unparseable values come back as nil ("missing"),
// never as an error, so one bad cell cannot fail a batch.
func CoerceDecimal(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// CoerceDecimalOrZero is CoerceDecimal with a zero default, for amount fields
// where missing means 0 rather than unknown.
func CoerceDecimalOrZero(raw string) decimal.Decimal {
	if d := CoerceDecimal(raw); d != nil {
		return *d
	}
	return decimal.Zero
}
