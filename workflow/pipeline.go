package workflow

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mmdatafocus/warranty_backend/appctx"
	"github.com/mmdatafocus/warranty_backend/config"
	"github.com/mmdatafocus/warranty_backend/models"
)

// Run executes one full reconciliation: parse the uploaded extract, flatten
// the parts ledger, resolve reference prices within the batch cutoff, build
// all summaries and the settlement report. All-or-nothing: any error returns
// before a result exists, so a partial report can never be emitted.
func Run(ctx context.Context, logger *logrus.Logger, snap *CatalogSnapshot, extract io.Reader, layout models.ExtractLayout) (*models.RunResult, error) {
	batch, err := ParseClaimExtract(extract, layout)
	if err != nil {
		config.LogError(logger, "pipeline.go", "Run", "ParseClaimExtract", nil, err)
		return nil, err
	}

	cutoff := batch.Cutoff()
	bol01, bol02 := BuildPriceIndexes(snap, cutoff)

	partLines := FlattenPartLines(batch.Claims)
	resolved, unresolvedParts := ResolveLines(partLines, bol01, bol02)

	result := &models.RunResult{
		RunId:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Cutoff:    cutoff,
		Claims:    batch.Claims,
		PartLines: resolved,

		StatusSummary:       BuildStatusSummary(batch.Claims),
		RemittanceSummary:   BuildRemittanceSummary(batch.Claims),
		ApprovedDifferences: BuildApprovedDifferences(batch.Claims),
		PartsReconciliation: BuildPartsReconciliation(batch.Claims, resolved),
		Settlement:          BuildSettlementReport(batch.Claims, resolved),

		Diagnostics: models.Diagnostics{
			CatalogLoadErrors:     snap.LoadErrors,
			ClaimLoadErrors:       batch.LoadErrors,
			UnresolvedParts:       unresolvedParts,
			AmbiguousClaimNumbers: DetectAmbiguousClaimNumbers(batch.Claims),
		},
	}

	fields := logrus.Fields{
		"module":           "pipeline.go",
		"run_id":           result.RunId,
		"claims":           len(result.Claims),
		"part_lines":       len(result.PartLines),
		"unresolved":       len(unresolvedParts),
		"claim_rows_bad":   len(batch.LoadErrors),
		"payable_total":    result.Settlement.PayableTotal.String(),
		"recognized_total": result.Settlement.RecognizedTotal.String(),
	}
	if cid, ok := appctx.GetString(ctx, appctx.ContextKeyCorrelationId); ok {
		fields["correlationId"] = cid
	}
	logger.WithFields(fields).Info("reconciliation run completed")

	return result, nil
}
