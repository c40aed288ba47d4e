package reports

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mmdatafocus/warranty_backend/models"
)

const settlementSheet = "Settlement Payment"

// SettlementFilename is the download name of the settlement workbook.
const SettlementFilename = "Settlement_Payment.xlsx"

// BuildSettlementWorkbook writes the payable-amount report to a single-sheet
// workbook, one row per approved claim of the settlement dealer group.
func BuildSettlementWorkbook(report models.SettlementReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", settlementSheet); err != nil {
		return nil, err
	}

	headings := []string{"Claim No.", "VIN", "Part Quantity", "Parts Claim Amount", "Labor Remittance (50%)", "Sublet Remittance", "Total Payable"}
	col := 'A'
	for _, h := range headings {
		if err := f.SetCellValue(settlementSheet, string(col)+"1", h); err != nil {
			return nil, err
		}
		col++
	}

	for i, line := range report.Lines {
		row := fmt.Sprint(i + 2)
		values := []interface{}{
			line.ClaimNo,
			line.VIN,
			line.PartQuantity.InexactFloat64(),
			line.PartsClaimAmount.InexactFloat64(),
			line.LaborHalf.InexactFloat64(),
			line.SubletRemittance.InexactFloat64(),
			line.TotalPayable.InexactFloat64(),
		}
		col := 'A'
		for _, value := range values {
			if err := f.SetCellValue(settlementSheet, string(col)+row, value); err != nil {
				return nil, err
			}
			col++
		}
	}

	return f, nil
}
