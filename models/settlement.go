package models

import (
	"github.com/shopspring/decimal"
)

// SettlementLine is one approved SCZ claim priced for payment to the
// distribution partner: resolved parts at FOB, half of the remitted labor,
// the remitted sublet in full. Missing addends are 0, never unknown.
type SettlementLine struct {
	ClaimNo          string          `json:"claim_no"`
	VIN              string          `json:"vin"`
	PartQuantity     decimal.Decimal `json:"part_quantity"`
	PartsClaimAmount decimal.Decimal `json:"parts_claim_amount"`
	LaborHalf        decimal.Decimal `json:"labor_half"`
	SubletRemittance decimal.Decimal `json:"sublet_remittance"`
	TotalPayable     decimal.Decimal `json:"total_payable"`
}

// SettlementReport is the payable-amount report for the settlement dealer
// group. RecognizedTotal is the top-down cross-check figure (sum of reported
// Total Remittance Amount over the same claims), independent of the
// bottom-up PayableTotal.
type SettlementReport struct {
	DealerGroup DealerGroup      `json:"dealer_group"`
	Lines       []SettlementLine `json:"lines"`

	PayableTotal    decimal.Decimal `json:"payable_total"`
	RecognizedTotal decimal.Decimal `json:"recognized_total"`

	PayableTotalDisplay    string `json:"payable_total_display"`
	RecognizedTotalDisplay string `json:"recognized_total_display"`
}
