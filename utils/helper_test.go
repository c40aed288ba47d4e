package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"5", "5.00"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-1234.5", "-1,234.50"},
		{"999", "999.00"},
		{"1000", "1,000.00"},
	}
	for _, tc := range cases {
		got := FormatAmount(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("FormatAmount(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"Part  No. (A)", "Part No. (A)"},
		{"Parts Price\nTotal (A)", "Parts Price Total (A)"},
		{"SHIP DATE ", "SHIP DATE"},
		{"\uFEFFUlt_Ingreso", "Ult_Ingreso"},
		{"ï»¿Ult_Ingreso", "Ult_Ingreso"},
		{"Sublet Amount(A)", "Sublet Amount (A)"},
	}
	for _, tc := range cases {
		if NormalizeHeader(tc.a) != NormalizeHeader(tc.b) {
			t.Errorf("%q and %q should normalize identically (%q vs %q)",
				tc.a, tc.b, NormalizeHeader(tc.a), NormalizeHeader(tc.b))
		}
	}
}

func TestCoerceDecimal(t *testing.T) {
	if d := CoerceDecimal(" 1,234.50 "); d == nil || !d.Equal(decimal.RequireFromString("1234.50")) {
		t.Errorf("grouped input = %v, want 1234.50", d)
	}
	if d := CoerceDecimal("garbage"); d != nil {
		t.Errorf("garbage = %v, want nil (missing, not error)", d)
	}
	if d := CoerceDecimal(""); d != nil {
		t.Errorf("empty = %v, want nil", d)
	}
	if got := CoerceDecimalOrZero("garbage"); !got.IsZero() {
		t.Errorf("CoerceDecimalOrZero(garbage) = %s, want 0", got)
	}
}
