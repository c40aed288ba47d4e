package workflow

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/utils"
)

// BuildStatusSummary sums the claimed amounts per evaluation status, across
// all claims regardless of status.
func BuildStatusSummary(claims []models.ClaimRecord) []models.AmountSummaryRow {
	return buildAmountSummary(claims, func(c *models.ClaimRecord) (p, l, s, t decimal.Decimal) {
		return c.ClaimParts, c.ClaimLabor, c.ClaimSublet, c.ClaimTotal
	})
}

// BuildRemittanceSummary sums the payer-reported remittance amounts per
// evaluation status.
func BuildRemittanceSummary(claims []models.ClaimRecord) []models.AmountSummaryRow {
	return buildAmountSummary(claims, func(c *models.ClaimRecord) (p, l, s, t decimal.Decimal) {
		return c.RemitParts, c.RemitLabor, c.RemitSublet, c.RemitTotal
	})
}

func buildAmountSummary(claims []models.ClaimRecord, pick func(*models.ClaimRecord) (p, l, s, t decimal.Decimal)) []models.AmountSummaryRow {
	byStatus := map[models.EvaluationResult]*models.AmountSummaryRow{}
	for i := range claims {
		claim := &claims[i]
		row, ok := byStatus[claim.Evaluation]
		if !ok {
			row = &models.AmountSummaryRow{Status: claim.Evaluation}
			byStatus[claim.Evaluation] = row
		}
		p, l, s, t := pick(claim)
		row.Parts = row.Parts.Add(p)
		row.Labor = row.Labor.Add(l)
		row.Sublet = row.Sublet.Add(s)
		row.Total = row.Total.Add(t)
	}

	rows := make([]models.AmountSummaryRow, 0, len(byStatus))
	for _, row := range byStatus {
		row.PartsDisplay = utils.FormatAmount(row.Parts)
		row.LaborDisplay = utils.FormatAmount(row.Labor)
		row.SubletDisplay = utils.FormatAmount(row.Sublet)
		row.TotalDisplay = utils.FormatAmount(row.Total)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Status < rows[j].Status })
	return rows
}

// BuildApprovedDifferences computes remittance minus claimed, per approved
// claim and in aggregate.
func BuildApprovedDifferences(claims []models.ClaimRecord) models.ApprovedDifferenceSummary {
	summary := models.ApprovedDifferenceSummary{Claims: []models.ClaimDifferenceRow{}}
	for i := range claims {
		claim := &claims[i]
		if claim.Evaluation != models.EvaluationResultApprove {
			continue
		}
		row := models.ClaimDifferenceRow{
			DealerCode: claim.DealerCode,
			ClaimNo:    claim.ClaimNo,
			VIN:        claim.VIN,
			PartsDif:   claim.RemitParts.Sub(claim.ClaimParts),
			LaborDif:   claim.RemitLabor.Sub(claim.ClaimLabor),
			SubletDif:  claim.RemitSublet.Sub(claim.ClaimSublet),
			TotalDif:   claim.RemitTotal.Sub(claim.ClaimTotal),
		}
		summary.PartsDif = summary.PartsDif.Add(row.PartsDif)
		summary.LaborDif = summary.LaborDif.Add(row.LaborDif)
		summary.SubletDif = summary.SubletDif.Add(row.SubletDif)
		summary.TotalDif = summary.TotalDif.Add(row.TotalDif)
		summary.Claims = append(summary.Claims, row)
	}
	summary.PartsDifDisplay = utils.FormatAmount(summary.PartsDif)
	summary.LaborDifDisplay = utils.FormatAmount(summary.LaborDif)
	summary.SubletDifDisplay = utils.FormatAmount(summary.SubletDif)
	summary.TotalDifDisplay = utils.FormatAmount(summary.TotalDif)
	return summary
}

// BuildPartsReconciliation compares the bottom-up parts total (resolved FOB
// times quantity, summed per claim) with the payer's reported Parts
// Remittance Amount, over approved claims that have at least one part line.
// Claims with a non-zero difference get their part lines surfaced in the
// detail drill-down.
func BuildPartsReconciliation(claims []models.ClaimRecord, lines []models.ResolvedPartLineItem) models.PartsReconciliation {
	remitByKey := map[models.ClaimKey]*models.ClaimRecord{}
	for i := range claims {
		claim := &claims[i]
		if claim.Evaluation == models.EvaluationResultApprove {
			remitByKey[claim.Key()] = claim
		}
	}

	type claimAgg struct {
		group models.DealerGroup
		vin   string
		total decimal.Decimal
	}
	order := []models.ClaimKey{}
	agg := map[models.ClaimKey]*claimAgg{}
	for _, line := range lines {
		if line.Evaluation != models.EvaluationResultApprove {
			continue
		}
		key := line.Key()
		a, ok := agg[key]
		if !ok {
			a = &claimAgg{group: line.DealerGroup, vin: line.VIN}
			agg[key] = a
			order = append(order, key)
		}
		a.total = a.total.Add(line.ClaimAmount)
	}

	recon := models.PartsReconciliation{
		Claims: []models.ClaimPartsDifference{},
		Detail: []models.ResolvedPartLineItem{},
	}
	flagged := map[models.ClaimKey]bool{}
	for _, key := range order {
		a := agg[key]
		row := models.ClaimPartsDifference{
			DealerGroup:         a.group,
			DealerCode:          key.DealerCode,
			ClaimNo:             key.ClaimNo,
			VIN:                 a.vin,
			ResolvedPartsAmount: a.total,
		}
		if claim, ok := remitByKey[key]; ok {
			row.PartsRemittance = claim.RemitParts
		}
		row.PartsAmountDif = row.PartsRemittance.Sub(row.ResolvedPartsAmount)
		if !row.PartsAmountDif.IsZero() {
			flagged[key] = true
		}
		recon.DifferenceTotal = recon.DifferenceTotal.Add(row.PartsAmountDif)
		recon.Claims = append(recon.Claims, row)
	}

	for _, line := range lines {
		if line.Evaluation == models.EvaluationResultApprove && flagged[line.Key()] {
			recon.Detail = append(recon.Detail, line)
		}
	}
	return recon
}

// DetectAmbiguousClaimNumbers reports claim numbers that appear under more
// than one dealer code in the batch. The pipeline never joins on the bare
// claim number, but the payer's own reports do, so the collision is worth a
// warning.
func DetectAmbiguousClaimNumbers(claims []models.ClaimRecord) []models.AmbiguousClaimNo {
	dealersByClaim := map[string][]string{}
	for i := range claims {
		claim := &claims[i]
		if claim.ClaimNo == "" {
			continue
		}
		known := false
		for _, d := range dealersByClaim[claim.ClaimNo] {
			if d == claim.DealerCode {
				known = true
				break
			}
		}
		if !known {
			dealersByClaim[claim.ClaimNo] = append(dealersByClaim[claim.ClaimNo], claim.DealerCode)
		}
	}

	ambiguous := []models.AmbiguousClaimNo{}
	for claimNo, dealers := range dealersByClaim {
		if len(dealers) > 1 {
			sort.Strings(dealers)
			ambiguous = append(ambiguous, models.AmbiguousClaimNo{ClaimNo: claimNo, DealerCodes: dealers})
		}
	}
	sort.Slice(ambiguous, func(i, j int) bool { return ambiguous[i].ClaimNo < ambiguous[j].ClaimNo })
	return ambiguous
}
