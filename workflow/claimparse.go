package workflow

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mmdatafocus/warranty_backend/config"
	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/utils"
)

const claimStage = "claims"

// LoadExtractLayout returns the claim-extract layout: the built-in monthly
// template, or the JSON override pointed at by CLAIM_LAYOUT_PATH.
func LoadExtractLayout() (models.ExtractLayout, error) {
	layout := models.DefaultExtractLayout()
	if path := config.ClaimLayoutPath(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return layout, fmt.Errorf("claim layout override: %w", err)
		}
		if err := json.Unmarshal(data, &layout); err != nil {
			return layout, fmt.Errorf("claim layout override: %w", err)
		}
	}
	if err := utils.ValidateStruct(layout); err != nil {
		return layout, fmt.Errorf("claim layout invalid: %v", utils.ProcessValidationErrors(err))
	}
	return layout, nil
}

// ParseClaimExtract reads the uploaded workbook into a normalized batch.
// A missing sheet or missing required column aborts the whole run with a
// SchemaError; bad cells inside a row are recovered as LoadErrors.
func ParseClaimExtract(r io.Reader, layout models.ExtractLayout) (*models.ClaimBatch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(layout.SheetName)
	if err != nil {
		return nil, &utils.SchemaError{Sheet: layout.SheetName, Reason: "worksheet not found"}
	}
	if len(rows) < layout.HeaderRow {
		return nil, &utils.SchemaError{Sheet: layout.SheetName, Reason: fmt.Sprintf("no header at row %d", layout.HeaderRow)}
	}

	cols, missing := mapHeaderColumns(rows[layout.HeaderRow-1], layout)
	if len(missing) > 0 {
		return nil, &utils.SchemaError{Sheet: layout.SheetName, Missing: missing}
	}

	batch := &models.ClaimBatch{Claims: []models.ClaimRecord{}, LoadErrors: []models.LoadError{}}
	for i := layout.DataStartRow - 1; i < len(rows); i++ {
		row := rows[i]
		if rowIsEmpty(row) {
			continue
		}
		claim := parseClaimRow(row, i+1, cols, layout, batch)
		batch.Claims = append(batch.Claims, claim)
	}
	return batch, nil
}

type headerIndex map[string]int

func (h headerIndex) cell(row []string, name string) string {
	col, ok := h[utils.NormalizeHeader(name)]
	if !ok || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// mapHeaderColumns resolves every layout column name to its physical index,
// ignoring the configured leading non-data columns.
func mapHeaderColumns(header []string, layout models.ExtractLayout) (headerIndex, []string) {
	cols := headerIndex{}
	for i, h := range header {
		if i < layout.SkipLeadingColumns {
			continue
		}
		key := utils.NormalizeHeader(h)
		if key == "" {
			continue
		}
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}

	required := []string{
		layout.DealerCode, layout.ClaimNo, layout.VIN, layout.Model,
		layout.DateSold, layout.DateRepaired, layout.Mileage, layout.PFP,
		layout.Evaluation,
		layout.ClaimParts, layout.ClaimLabor, layout.ClaimSublet, layout.ClaimTotal,
		layout.RemitParts, layout.RemitLabor, layout.RemitSublet, layout.RemitTotal,
	}
	for _, slot := range layout.PartSlots {
		required = append(required, slot.PartNumber, slot.Quantity, slot.PriceTotal)
	}
	for _, op := range layout.OperationSlots {
		required = append(required, op.Code, op.Hours)
	}
	required = append(required, layout.SubletColumns...)

	missing := []string{}
	for _, name := range required {
		if _, ok := cols[utils.NormalizeHeader(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return cols, missing
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseClaimRow(row []string, rowNo int, cols headerIndex, layout models.ExtractLayout, batch *models.ClaimBatch) models.ClaimRecord {
	claim := models.ClaimRecord{
		DealerCode: cols.cell(row, layout.DealerCode),
		ClaimNo:    cols.cell(row, layout.ClaimNo),
		VIN:        cols.cell(row, layout.VIN),
		Model:      cols.cell(row, layout.Model),
		PFP:        cols.cell(row, layout.PFP),
		Mileage:    utils.CoerceDecimal(cols.cell(row, layout.Mileage)),
	}
	claim.DealerGroup = models.DeriveDealerGroup(claim.DealerCode)

	claim.DateSold = parseClaimDate(cols.cell(row, layout.DateSold), layout.DateRepairedLayout)
	repairedRaw := cols.cell(row, layout.DateRepaired)
	claim.DateRepaired = parseClaimDate(repairedRaw, layout.DateRepairedLayout)
	if claim.DateRepaired == nil && repairedRaw != "" {
		batch.LoadErrors = append(batch.LoadErrors, models.LoadError{
			Stage: claimStage, Row: rowNo, Field: layout.DateRepaired, Value: repairedRaw,
			Reason: "repaired date is not parseable",
		})
	}

	evalRaw := cols.cell(row, layout.Evaluation)
	eval, err := models.ParseEvaluationResultCode(evalRaw)
	if err != nil {
		batch.LoadErrors = append(batch.LoadErrors, models.LoadError{
			Stage: claimStage, Row: rowNo, Field: layout.Evaluation, Value: evalRaw,
			Reason: "unknown evaluation result",
		})
	}
	claim.Evaluation = eval

	for _, slot := range layout.PartSlots {
		claim.Parts = append(claim.Parts, models.PartSlot{
			PartNumber: cols.cell(row, slot.PartNumber),
			Quantity:   utils.CoerceDecimal(cols.cell(row, slot.Quantity)),
			PriceTotal: utils.CoerceDecimalOrZero(cols.cell(row, slot.PriceTotal)),
		})
	}
	for _, op := range layout.OperationSlots {
		claim.Operations = append(claim.Operations, models.OperationSlot{
			Code:  cols.cell(row, op.Code),
			Hours: utils.CoerceDecimalOrZero(cols.cell(row, op.Hours)),
		})
	}
	for _, sublet := range layout.SubletColumns {
		claim.Sublets = append(claim.Sublets, utils.CoerceDecimalOrZero(cols.cell(row, sublet)))
	}

	claim.ClaimParts = utils.CoerceDecimalOrZero(cols.cell(row, layout.ClaimParts))
	claim.ClaimLabor = utils.CoerceDecimalOrZero(cols.cell(row, layout.ClaimLabor))
	claim.ClaimSublet = utils.CoerceDecimalOrZero(cols.cell(row, layout.ClaimSublet))
	claim.ClaimTotal = utils.CoerceDecimalOrZero(cols.cell(row, layout.ClaimTotal))

	claim.RemitParts = utils.CoerceDecimalOrZero(cols.cell(row, layout.RemitParts))
	claim.RemitLabor = utils.CoerceDecimalOrZero(cols.cell(row, layout.RemitLabor))
	claim.RemitSublet = utils.CoerceDecimalOrZero(cols.cell(row, layout.RemitSublet))
	claim.RemitTotal = utils.CoerceDecimalOrZero(cols.cell(row, layout.RemitTotal))

	return claim
}

// parseClaimDate accepts the template layout plus the ISO forms excelize
// yields when a cell carries a real date value.
func parseClaimDate(raw string, templateLayout string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	for _, layout := range []string{templateLayout, "2006-01-02", "2006-01-02 15:04:05", "1/2/06"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// FlattenPartLines unions the part slots of each claim into the long-form
// parts ledger. Slots with an empty part number or a missing/non-positive
// quantity are dropped; part numbers are trimmed before joining.
func FlattenPartLines(claims []models.ClaimRecord) []models.PartLineItem {
	lines := []models.PartLineItem{}
	for i := range claims {
		claim := &claims[i]
		for _, slot := range claim.Parts {
			np := strings.TrimSpace(slot.PartNumber)
			if np == "" || slot.Quantity == nil || !slot.Quantity.IsPositive() {
				continue
			}
			lines = append(lines, models.PartLineItem{
				DealerGroup: claim.DealerGroup,
				DealerCode:  claim.DealerCode,
				ClaimNo:     claim.ClaimNo,
				VIN:         claim.VIN,
				Evaluation:  claim.Evaluation,
				PartNumber:  np,
				Quantity:    *slot.Quantity,
			})
		}
	}
	return lines
}
