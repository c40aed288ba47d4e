package models

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EvaluationResult is the payer's workflow status for a claim as reported in
// the monthly extract (column "Evaluation Results*", coded 1-4).
type EvaluationResult int

const (
	EvaluationResultUnknown EvaluationResult = 0
	EvaluationResultReturn  EvaluationResult = 1
	EvaluationResultReject  EvaluationResult = 2
	EvaluationResultPending EvaluationResult = 3
	EvaluationResultApprove EvaluationResult = 4
)

func (e EvaluationResult) String() string {
	switch e {
	case EvaluationResultReturn:
		return "Return"
	case EvaluationResultReject:
		return "Reject"
	case EvaluationResultPending:
		return "Pending"
	case EvaluationResultApprove:
		return "Approve"
	default:
		return "Unknown"
	}
}

// convert enum to send response
func (e EvaluationResult) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(e.String())), nil
}

// convert input to enum type
func (e *EvaluationResult) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("evaluation result must be string")
	}
	parsed, err := ParseEvaluationResultName(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

func ParseEvaluationResultName(s string) (EvaluationResult, error) {
	switch strings.TrimSpace(s) {
	case "Return":
		return EvaluationResultReturn, nil
	case "Reject":
		return EvaluationResultReject, nil
	case "Pending":
		return EvaluationResultPending, nil
	case "Approve":
		return EvaluationResultApprove, nil
	default:
		return EvaluationResultUnknown, errors.New("invalid evaluation result")
	}
}

// ParseEvaluationResultCode parses the raw extract cell. The template stores
// the code as text but re-saved workbooks sometimes carry "4.0".
func ParseEvaluationResultCode(raw string) (EvaluationResult, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 4 {
		return EvaluationResultUnknown, errors.New("invalid evaluation result code: " + raw)
	}
	return EvaluationResult(n), nil
}

// DealerGroup is derived from the dealer-code suffix and drives both the
// catalog priority during price resolution and the settlement scope.
type DealerGroup string

const (
	DealerGroupSCZ   DealerGroup = "SCZ"
	DealerGroupCBBA  DealerGroup = "CBBA"
	DealerGroupLP    DealerGroup = "LP"
	DealerGroupOther DealerGroup = "Other"
)

func DeriveDealerGroup(dealerCode string) DealerGroup {
	code := strings.TrimSpace(dealerCode)
	switch {
	case strings.HasSuffix(code, "N"):
		return DealerGroupSCZ
	case strings.HasSuffix(code, "C"):
		return DealerGroupCBBA
	case strings.HasSuffix(code, "L"):
		return DealerGroupLP
	default:
		return DealerGroupOther
	}
}

// PartSlot is one of the repeated part positions (A-E) on a wide claim row.
// Quantity is nil when the cell was blank or not numeric.
type PartSlot struct {
	PartNumber string           `json:"part_number"`
	Quantity   *decimal.Decimal `json:"quantity"`
	PriceTotal decimal.Decimal  `json:"price_total"`
}

// OperationSlot is one of the repeated labor positions (A-C).
type OperationSlot struct {
	Code  string          `json:"code"`
	Hours decimal.Decimal `json:"hours"`
}

// ClaimRecord is one warranty claim as extracted from the monthly workbook,
// wide-form, with the derived dealer group attached.
type ClaimRecord struct {
	DealerCode   string           `json:"dealer_code"`
	DealerGroup  DealerGroup      `json:"dealer_group"`
	ClaimNo      string           `json:"claim_no"`
	VIN          string           `json:"vin"`
	Model        string           `json:"model"`
	DateSold     *time.Time       `json:"date_sold"`
	DateRepaired *time.Time       `json:"date_repaired"`
	Mileage      *decimal.Decimal `json:"mileage"`
	PFP          string           `json:"pfp"`
	Evaluation   EvaluationResult `json:"evaluation"`

	Parts      []PartSlot        `json:"parts"`
	Operations []OperationSlot   `json:"operations"`
	Sublets    []decimal.Decimal `json:"sublets"`

	ClaimParts  decimal.Decimal `json:"claim_parts"`
	ClaimLabor  decimal.Decimal `json:"claim_labor"`
	ClaimSublet decimal.Decimal `json:"claim_sublet"`
	ClaimTotal  decimal.Decimal `json:"claim_total"`

	RemitParts  decimal.Decimal `json:"remit_parts"`
	RemitLabor  decimal.Decimal `json:"remit_labor"`
	RemitSublet decimal.Decimal `json:"remit_sublet"`
	RemitTotal  decimal.Decimal `json:"remit_total"`
}

// ClaimKey joins claim-scoped tables. Claim numbers are only unique within a
// dealer's claim set, so the dealer code is part of the key; numbers seen
// under more than one dealer code are additionally reported as ambiguous.
type ClaimKey struct {
	DealerCode string `json:"dealer_code"`
	ClaimNo    string `json:"claim_no"`
}

func (c *ClaimRecord) Key() ClaimKey {
	return ClaimKey{DealerCode: c.DealerCode, ClaimNo: c.ClaimNo}
}

// SlotColumns names the three columns of one part slot in the extract.
type SlotColumns struct {
	PartNumber string `json:"part_number" validate:"required"`
	Quantity   string `json:"quantity" validate:"required"`
	PriceTotal string `json:"price_total" validate:"required"`
}

// OperationColumns names the two columns of one labor slot.
type OperationColumns struct {
	Code  string `json:"code" validate:"required"`
	Hours string `json:"hours" validate:"required"`
}

// ExtractLayout is the declarative description of the claim-extract template:
// where the header row sits, where data begins, which leading columns are
// non-data, and the column spellings. The parser has no knowledge of the
// template beyond what this descriptor says, so template drift is a config
// change, not a code change. Rows and columns are 1-based physical positions.
type ExtractLayout struct {
	SheetName          string `json:"sheet_name" validate:"required"`
	HeaderRow          int    `json:"header_row" validate:"min=1"`
	DataStartRow       int    `json:"data_start_row" validate:"gtfield=HeaderRow"`
	SkipLeadingColumns int    `json:"skip_leading_columns" validate:"min=0"`

	DealerCode   string `json:"dealer_code" validate:"required"`
	ClaimNo      string `json:"claim_no" validate:"required"`
	VIN          string `json:"vin" validate:"required"`
	Model        string `json:"model" validate:"required"`
	DateSold     string `json:"date_sold" validate:"required"`
	DateRepaired string `json:"date_repaired" validate:"required"`
	Mileage      string `json:"mileage" validate:"required"`
	PFP          string `json:"pfp" validate:"required"`
	Evaluation   string `json:"evaluation" validate:"required"`

	PartSlots      []SlotColumns      `json:"part_slots" validate:"min=1,dive"`
	OperationSlots []OperationColumns `json:"operation_slots" validate:"min=1,dive"`
	SubletColumns  []string           `json:"sublet_columns" validate:"min=1,dive,required"`

	ClaimParts  string `json:"claim_parts" validate:"required"`
	ClaimLabor  string `json:"claim_labor" validate:"required"`
	ClaimSublet string `json:"claim_sublet" validate:"required"`
	ClaimTotal  string `json:"claim_total" validate:"required"`

	RemitParts  string `json:"remit_parts" validate:"required"`
	RemitLabor  string `json:"remit_labor" validate:"required"`
	RemitSublet string `json:"remit_sublet" validate:"required"`
	RemitTotal  string `json:"remit_total" validate:"required"`

	// DateRepairedLayout is the Go reference layout of the repaired date
	// ("Date Repaired" arrives as 20250131 in the monthly template).
	DateRepairedLayout string `json:"date_repaired_layout" validate:"required"`
}

// DefaultExtractLayout matches the MonthlyERP template: header on physical
// row 2, data from physical row 7, first three columns non-data, five part
// slots (A-E), three operation slots (A-C), four sublet amounts (A-D).
func DefaultExtractLayout() ExtractLayout {
	return ExtractLayout{
		SheetName:          "MonthlyERP",
		HeaderRow:          2,
		DataStartRow:       7,
		SkipLeadingColumns: 3,

		DealerCode:   "Dealer Code",
		ClaimNo:      "Claim No.",
		VIN:          "VIN",
		Model:        "Model Basic",
		DateSold:     "Date Sold",
		DateRepaired: "Date Repaired",
		Mileage:      "Mileage",
		PFP:          "PFP",
		Evaluation:   "Evaluation Results*",

		PartSlots: []SlotColumns{
			{PartNumber: "Part No. (A)", Quantity: "Part Quantity (A)", PriceTotal: "Parts Price Total (A)"},
			{PartNumber: "Part No. (B)", Quantity: "Part Quantity (B)", PriceTotal: "Parts Price Total (B)"},
			{PartNumber: "Part No. (C)", Quantity: "Part Quantity (C)", PriceTotal: "Parts Price Total (C)"},
			{PartNumber: "Part No. (D)", Quantity: "Part Quantity (D)", PriceTotal: "Parts Price Total (D)"},
			{PartNumber: "Part No. (E)", Quantity: "Part Quantity (E)", PriceTotal: "Parts Price Total (E)"},
		},
		OperationSlots: []OperationColumns{
			{Code: "Operation Code (A)", Hours: "Operation Hour (A)"},
			{Code: "Operation Code (B)", Hours: "Operation Hour (B)"},
			{Code: "Operation Code (C)", Hours: "Operation Hour (C)"},
		},
		SubletColumns: []string{
			"Sublet Amount(A)", "Sublet Amount (B)", "Sublet Amount (C)", "Sublet Amount (D)",
		},

		ClaimParts:  "Claim Amount Parts",
		ClaimLabor:  "Claim Amount Labor",
		ClaimSublet: "Claim Amount Sublet",
		ClaimTotal:  "Claim Amount Total",

		RemitParts:  "Parts Remittance Amount",
		RemitLabor:  "Labor Remittance Amount",
		RemitSublet: "Sublet Remittance Amount",
		RemitTotal:  "Total Remittance Amount",

		DateRepairedLayout: "20060102",
	}
}
