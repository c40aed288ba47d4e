package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoadError is a recovered row-level failure: the offending row was dropped,
// the batch continued. Stage identifies the input ("catalog:BOL01", "claims").
type LoadError struct {
	Stage  string `json:"stage"`
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// AmountSummaryRow is one evaluation-status bucket of a four-amount summary
// (parts/labor/sublet/total), with display strings formatted to two decimals.
type AmountSummaryRow struct {
	Status EvaluationResult `json:"status"`

	Parts  decimal.Decimal `json:"parts"`
	Labor  decimal.Decimal `json:"labor"`
	Sublet decimal.Decimal `json:"sublet"`
	Total  decimal.Decimal `json:"total"`

	PartsDisplay  string `json:"parts_display"`
	LaborDisplay  string `json:"labor_display"`
	SubletDisplay string `json:"sublet_display"`
	TotalDisplay  string `json:"total_display"`
}

// ClaimDifferenceRow is remittance minus claimed for one approved claim.
type ClaimDifferenceRow struct {
	DealerCode string          `json:"dealer_code"`
	ClaimNo    string          `json:"claim_no"`
	VIN        string          `json:"vin"`
	PartsDif   decimal.Decimal `json:"parts_dif"`
	LaborDif   decimal.Decimal `json:"labor_dif"`
	SubletDif  decimal.Decimal `json:"sublet_dif"`
	TotalDif   decimal.Decimal `json:"total_dif"`
}

// ApprovedDifferenceSummary aggregates remittance-vs-claimed differences over
// Approve-status claims. A non-zero aggregate signals systematic under- or
// over-payment by the payer.
type ApprovedDifferenceSummary struct {
	PartsDif  decimal.Decimal `json:"parts_dif"`
	LaborDif  decimal.Decimal `json:"labor_dif"`
	SubletDif decimal.Decimal `json:"sublet_dif"`
	TotalDif  decimal.Decimal `json:"total_dif"`

	PartsDifDisplay  string `json:"parts_dif_display"`
	LaborDifDisplay  string `json:"labor_dif_display"`
	SubletDifDisplay string `json:"sublet_dif_display"`
	TotalDifDisplay  string `json:"total_dif_display"`

	Claims []ClaimDifferenceRow `json:"claims"`
}

// ClaimPartsDifference compares, per approved claim, the bottom-up parts
// total recomputed from resolved FOB prices against the payer's reported
// Parts Remittance Amount.
type ClaimPartsDifference struct {
	DealerGroup         DealerGroup     `json:"dealer_group"`
	DealerCode          string          `json:"dealer_code"`
	ClaimNo             string          `json:"claim_no"`
	VIN                 string          `json:"vin"`
	ResolvedPartsAmount decimal.Decimal `json:"resolved_parts_amount"`
	PartsRemittance     decimal.Decimal `json:"parts_remittance"`
	PartsAmountDif      decimal.Decimal `json:"parts_amount_dif"`
}

// PartsReconciliation is the claim-level parts difference table plus the
// part-line drill-down for claims whose difference is non-zero. The detail
// is a diagnostic view, not a filter applied anywhere else.
type PartsReconciliation struct {
	Claims          []ClaimPartsDifference `json:"claims"`
	DifferenceTotal decimal.Decimal        `json:"difference_total"`
	Detail          []ResolvedPartLineItem `json:"detail"`
}

// UnresolvedPart flags a part line priced at 0 because the part number was
// absent from both catalogs within the cutoff window.
type UnresolvedPart struct {
	DealerGroup DealerGroup     `json:"dealer_group"`
	DealerCode  string          `json:"dealer_code"`
	ClaimNo     string          `json:"claim_no"`
	PartNumber  string          `json:"np"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// AmbiguousClaimNo is a claim number observed under more than one dealer
// code in the same batch. Claim-scoped joins in this pipeline always key on
// (dealer code, claim no), so ambiguity is reported, never silently merged.
type AmbiguousClaimNo struct {
	ClaimNo     string   `json:"claim_no"`
	DealerCodes []string `json:"dealer_codes"`
}

// Diagnostics collects everything an operator should review after a run:
// dropped rows, unresolved parts, ambiguous claim numbers.
type Diagnostics struct {
	CatalogLoadErrors     []LoadError        `json:"catalog_load_errors"`
	ClaimLoadErrors       []LoadError        `json:"claim_load_errors"`
	UnresolvedParts       []UnresolvedPart   `json:"unresolved_parts"`
	AmbiguousClaimNumbers []AmbiguousClaimNo `json:"ambiguous_claim_numbers"`
}

// ClaimBatch is the normalized output of one extract parse.
type ClaimBatch struct {
	Claims     []ClaimRecord `json:"claims"`
	LoadErrors []LoadError   `json:"load_errors"`
}

// Cutoff is the maximum repaired date across the batch; catalog freshness is
// restricted to it during price resolution. Nil when no row carried a
// parseable repaired date.
func (b *ClaimBatch) Cutoff() *time.Time {
	var max *time.Time
	for i := range b.Claims {
		d := b.Claims[i].DateRepaired
		if d == nil {
			continue
		}
		if max == nil || d.After(*max) {
			max = d
		}
	}
	return max
}

// RunResult is the complete outcome of one pipeline run. It is computed
// fresh from the catalog snapshot and the uploaded extract; nothing in it is
// mutated after the run completes.
type RunResult struct {
	RunId     string     `json:"run_id"`
	CreatedAt time.Time  `json:"created_at"`
	Cutoff    *time.Time `json:"cutoff"`

	Claims    []ClaimRecord          `json:"claims"`
	PartLines []ResolvedPartLineItem `json:"part_lines"`

	StatusSummary       []AmountSummaryRow        `json:"status_summary"`
	RemittanceSummary   []AmountSummaryRow        `json:"remittance_summary"`
	ApprovedDifferences ApprovedDifferenceSummary `json:"approved_differences"`
	PartsReconciliation PartsReconciliation       `json:"parts_reconciliation"`
	Settlement          SettlementReport          `json:"settlement"`

	Diagnostics Diagnostics `json:"diagnostics"`
}

// ClaimsWithStatus is the interactive evaluation-status filter.
func (r *RunResult) ClaimsWithStatus(status EvaluationResult) []ClaimRecord {
	matched := []ClaimRecord{}
	for _, c := range r.Claims {
		if c.Evaluation == status {
			matched = append(matched, c)
		}
	}
	return matched
}
