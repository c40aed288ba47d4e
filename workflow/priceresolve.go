package workflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmdatafocus/warranty_backend/models"
)

// PriceIndex is a restricted, deduplicated catalog view: one entry per part
// number within the cutoff window.
type PriceIndex map[string]models.CatalogEntry

// BuildPriceIndexes restricts both catalogs to entries dated on or before
// the cutoff and deduplicates each to the freshest entry per part number
// within that window. A nil cutoff leaves the catalogs unrestricted.
func BuildPriceIndexes(snap *CatalogSnapshot, cutoff *time.Time) (bol01 PriceIndex, bol02 PriceIndex) {
	return PriceIndex(snap.BOL01.LatestWithin(cutoff)), PriceIndex(snap.BOL02.LatestWithin(cutoff))
}

// ResolvePrice picks the reference FOB for one part. SCZ dealers buy through
// the BOL02 channel, so their lines prefer BOL02 and fall back to BOL01;
// every other group prefers BOL01 and falls back to BOL02. The boolean is
// false when neither catalog knows the part within the window.
func ResolvePrice(partNumber string, group models.DealerGroup, bol01, bol02 PriceIndex) (decimal.Decimal, models.CatalogSource, bool) {
	primary, secondary := bol01, bol02
	if group == models.DealerGroupSCZ {
		primary, secondary = bol02, bol01
	}
	if e, ok := primary[partNumber]; ok {
		return e.FOB, e.Source, true
	}
	if e, ok := secondary[partNumber]; ok {
		return e.FOB, e.Source, true
	}
	return decimal.Zero, "", false
}

// ResolveLines attaches a reference price and claim amount to every part
// line. Unresolved parts stay in the output with FOB 0 (policy, not an
// error) and are reported separately for operator review.
func ResolveLines(lines []models.PartLineItem, bol01, bol02 PriceIndex) ([]models.ResolvedPartLineItem, []models.UnresolvedPart) {
	resolved := make([]models.ResolvedPartLineItem, 0, len(lines))
	unresolved := []models.UnresolvedPart{}

	for _, line := range lines {
		fob, source, ok := ResolvePrice(line.PartNumber, line.DealerGroup, bol01, bol02)
		item := models.ResolvedPartLineItem{
			PartLineItem: line,
			FOB:          fob,
			Resolved:     ok,
			ClaimAmount:  line.Quantity.Mul(fob),
		}
		if ok {
			src := source
			item.PriceSource = &src
		} else {
			unresolved = append(unresolved, models.UnresolvedPart{
				DealerGroup: line.DealerGroup,
				DealerCode:  line.DealerCode,
				ClaimNo:     line.ClaimNo,
				PartNumber:  line.PartNumber,
				Quantity:    line.Quantity,
			})
		}
		resolved = append(resolved, item)
	}
	return resolved, unresolved
}
