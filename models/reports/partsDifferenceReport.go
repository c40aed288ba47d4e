package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mmdatafocus/warranty_backend/models"
)

const partsDifferenceSheet = "Parts Differences"

// PartsDifferenceFilename is the download name of the parts workbook.
const PartsDifferenceFilename = "Parts_Differences.xlsx"

// BuildPartsDifferenceWorkbook writes the full resolved parts ledger to a
// single-sheet workbook: every part line with its reference FOB and the
// recomputed claim amount. Amounts are written as numeric cells.
func BuildPartsDifferenceWorkbook(lines []models.ResolvedPartLineItem) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", partsDifferenceSheet); err != nil {
		return nil, err
	}

	headings := []string{"Dealer Group", "Dealer Code", "Claim No.", "VIN", "NP", "Quantity", "FOB", "Price Source", "Resolved", "Parts Claim Amount"}
	col := 'A'
	for _, h := range headings {
		if err := f.SetCellValue(partsDifferenceSheet, string(col)+"1", h); err != nil {
			return nil, err
		}
		col++
	}

	for i, line := range lines {
		row := fmt.Sprint(i + 2)
		source := ""
		if line.PriceSource != nil {
			source = string(*line.PriceSource)
		}
		values := []interface{}{
			string(line.DealerGroup),
			line.DealerCode,
			line.ClaimNo,
			line.VIN,
			line.PartNumber,
			line.Quantity.InexactFloat64(),
			line.FOB.InexactFloat64(),
			source,
			line.Resolved,
			line.ClaimAmount.InexactFloat64(),
		}
		col := 'A'
		for _, value := range values {
			if err := f.SetCellValue(partsDifferenceSheet, string(col)+row, value); err != nil {
				return nil, err
			}
			col++
		}
	}

	return f, nil
}
