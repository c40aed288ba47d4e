package models

import (
	"github.com/shopspring/decimal"
)

// PartLineItem is one row of the long-form parts ledger: a single part slot
// lifted off a wide claim row. Only rows with a non-empty part number and a
// positive quantity are materialized.
type PartLineItem struct {
	DealerGroup DealerGroup      `json:"dealer_group"`
	DealerCode  string           `json:"dealer_code"`
	ClaimNo     string           `json:"claim_no"`
	VIN         string           `json:"vin"`
	Evaluation  EvaluationResult `json:"evaluation"`
	PartNumber  string           `json:"np"`
	Quantity    decimal.Decimal  `json:"quantity"`
}

func (p PartLineItem) Key() ClaimKey {
	return ClaimKey{DealerCode: p.DealerCode, ClaimNo: p.ClaimNo}
}

// ResolvedPartLineItem is a PartLineItem with its reference price attached.
// Resolved distinguishes a genuine catalog price of 0 from a part absent
// from both catalogs within the cutoff window; unresolved lines keep FOB 0
// so downstream totals stay arithmetic, and are also listed in the run
// diagnostics for operator review.
type ResolvedPartLineItem struct {
	PartLineItem
	FOB         decimal.Decimal `json:"fob"`
	PriceSource *CatalogSource  `json:"price_source"`
	Resolved    bool            `json:"resolved"`
	ClaimAmount decimal.Decimal `json:"claim_amount"`
}
