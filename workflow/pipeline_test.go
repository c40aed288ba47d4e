package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/mmdatafocus/warranty_backend/models"
	"github.com/mmdatafocus/warranty_backend/utils"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRun_EndToEnd(t *testing.T) {
	snap := testSnapshot(t)
	buf := buildExtract(t, "MonthlyERP", testHeaders, [][]interface{}{
		claimRow("D01N", "CL-1", "20240215", "4", "P1", "3"),
		claimRow("D02C", "CL-2", "20240220", "4", "P1", "3"),
		claimRow("D03L", "CL-3", "20240201", "3", "P2", "1"),
	})

	result, err := Run(context.Background(), quietLogger(), snap, buf, models.DefaultExtractLayout())
	if err != nil {
		t.Fatal(err)
	}

	if result.RunId == "" {
		t.Error("run id must be assigned")
	}
	if result.Cutoff == nil || result.Cutoff.Format("2006-01-02") != "2024-02-20" {
		t.Errorf("cutoff = %v, want 2024-02-20", result.Cutoff)
	}
	if len(result.PartLines) != 3 {
		t.Fatalf("got %d part lines, want 3", len(result.PartLines))
	}

	// SCZ line resolves against BOL02 (12.00 * 3), CBBA against BOL01
	// (10.00 * 3).
	if got := result.PartLines[0].ClaimAmount; !got.Equal(dec("36.00")) {
		t.Errorf("SCZ line amount = %s, want 36.00", got)
	}
	if got := result.PartLines[1].ClaimAmount; !got.Equal(dec("30.00")) {
		t.Errorf("CBBA line amount = %s, want 30.00", got)
	}

	// Settlement covers the single approved SCZ claim.
	if len(result.Settlement.Lines) != 1 || result.Settlement.Lines[0].ClaimNo != "CL-1" {
		t.Fatalf("settlement lines = %+v, want only CL-1", result.Settlement.Lines)
	}

	// The pending LP claim is reachable through the status filter.
	pending := result.ClaimsWithStatus(models.EvaluationResultPending)
	if len(pending) != 1 || pending[0].ClaimNo != "CL-3" {
		t.Fatalf("pending filter = %+v, want only CL-3", pending)
	}
}

func TestRun_SchemaErrorAbortsWithoutResult(t *testing.T) {
	snap := testSnapshot(t)
	buf := buildExtract(t, "WrongSheet", testHeaders, nil)

	result, err := Run(context.Background(), quietLogger(), snap, buf, models.DefaultExtractLayout())
	if !utils.IsSchemaError(err) {
		t.Fatalf("got %v, want SchemaError", err)
	}
	if result != nil {
		t.Fatal("no partial result may exist after an aborted run")
	}
}

func TestRun_Idempotent(t *testing.T) {
	snap := testSnapshot(t)
	rows := [][]interface{}{
		claimRow("D01N", "CL-1", "20240215", "4", "P1", "3"),
		claimRow("D02C", "CL-2", "20240220", "1", "P1", "2"),
	}

	runOnce := func() *models.RunResult {
		result, err := Run(context.Background(), quietLogger(), snap, buildExtract(t, "MonthlyERP", testHeaders, rows), models.DefaultExtractLayout())
		if err != nil {
			t.Fatal(err)
		}
		return result
	}

	first, second := runOnce(), runOnce()

	// Everything except the run identity must be byte-identical.
	normalize := func(r *models.RunResult) []byte {
		copy := *r
		copy.RunId = ""
		copy.CreatedAt = first.CreatedAt
		data, err := json.Marshal(&copy)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}
	if !bytes.Equal(normalize(first), normalize(second)) {
		t.Fatal("two runs over identical inputs must produce identical reports")
	}
}
