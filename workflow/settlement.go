package workflow

import (
	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/utils"
)

// Half of the remitted labor belongs to the distribution partner; the other
// half covers the dealer's workshop.
var laborShare = decimal.NewFromFloat(0.5)

// BuildSettlementReport prices approved SCZ claims for payment: resolved
// parts at FOB plus half the labor remittance plus the sublet remittance in
// full. Claims without resolvable part lines still appear, with parts 0.
// RecognizedTotal is the payer's own figure (sum of Total Remittance Amount
// over the same claims) kept alongside for the operator's cross-check.
func BuildSettlementReport(claims []models.ClaimRecord, lines []models.ResolvedPartLineItem) models.SettlementReport {
	report := models.SettlementReport{
		DealerGroup: models.DealerGroupSCZ,
		Lines:       []models.SettlementLine{},
	}

	type partsAgg struct {
		quantity decimal.Decimal
		amount   decimal.Decimal
	}
	parts := map[models.ClaimKey]*partsAgg{}
	for _, line := range lines {
		if line.Evaluation != models.EvaluationResultApprove || line.DealerGroup != models.DealerGroupSCZ {
			continue
		}
		key := line.Key()
		a, ok := parts[key]
		if !ok {
			a = &partsAgg{}
			parts[key] = a
		}
		a.quantity = a.quantity.Add(line.Quantity)
		a.amount = a.amount.Add(line.ClaimAmount)
	}

	for i := range claims {
		claim := &claims[i]
		if claim.Evaluation != models.EvaluationResultApprove || claim.DealerGroup != models.DealerGroupSCZ {
			continue
		}
		line := models.SettlementLine{
			ClaimNo:          claim.ClaimNo,
			VIN:              claim.VIN,
			LaborHalf:        claim.RemitLabor.Mul(laborShare),
			SubletRemittance: claim.RemitSublet,
		}
		if a, ok := parts[claim.Key()]; ok {
			line.PartQuantity = a.quantity
			line.PartsClaimAmount = a.amount
		}
		line.TotalPayable = line.PartsClaimAmount.Add(line.LaborHalf).Add(line.SubletRemittance)

		report.PayableTotal = report.PayableTotal.Add(line.TotalPayable)
		report.RecognizedTotal = report.RecognizedTotal.Add(claim.RemitTotal)
		report.Lines = append(report.Lines, line)
	}

	report.PayableTotalDisplay = utils.FormatAmount(report.PayableTotal)
	report.RecognizedTotalDisplay = utils.FormatAmount(report.RecognizedTotal)
	return report
}
