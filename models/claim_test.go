package models

import "testing"

func TestDeriveDealerGroup(t *testing.T) {
	cases := []struct {
		code string
		want DealerGroup
	}{
		{"1020N", DealerGroupSCZ},
		{" 1020N ", DealerGroupSCZ},
		{"2231C", DealerGroupCBBA},
		{"8812L", DealerGroupLP},
		{"7000X", DealerGroupOther},
		{"", DealerGroupOther},
	}
	for _, tc := range cases {
		if got := DeriveDealerGroup(tc.code); got != tc.want {
			t.Errorf("DeriveDealerGroup(%q) = %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestParseEvaluationResultCode(t *testing.T) {
	cases := []struct {
		raw     string
		want    EvaluationResult
		wantErr bool
	}{
		{"1", EvaluationResultReturn, false},
		{"2", EvaluationResultReject, false},
		{"3", EvaluationResultPending, false},
		{"4", EvaluationResultApprove, false},
		{" 4 ", EvaluationResultApprove, false},
		{"4.0", EvaluationResultApprove, false},
		{"5", EvaluationResultUnknown, true},
		{"", EvaluationResultUnknown, true},
		{"approve", EvaluationResultUnknown, true},
	}
	for _, tc := range cases {
		got, err := ParseEvaluationResultCode(tc.raw)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseEvaluationResultCode(%q) = %v, %v; want %v, err=%v", tc.raw, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestEvaluationResultJSONRoundTrip(t *testing.T) {
	for _, e := range []EvaluationResult{EvaluationResultReturn, EvaluationResultReject, EvaluationResultPending, EvaluationResultApprove} {
		data, err := e.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		var back EvaluationResult
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back != e {
			t.Errorf("round trip %v -> %s -> %v", e, data, back)
		}
	}
}

func TestDefaultExtractLayoutIsComplete(t *testing.T) {
	layout := DefaultExtractLayout()
	if len(layout.PartSlots) != 5 {
		t.Errorf("part slots = %d, want the template's 5", len(layout.PartSlots))
	}
	if len(layout.OperationSlots) != 3 {
		t.Errorf("operation slots = %d, want 3", len(layout.OperationSlots))
	}
	if len(layout.SubletColumns) != 4 {
		t.Errorf("sublet columns = %d, want 4", len(layout.SubletColumns))
	}
	if layout.HeaderRow >= layout.DataStartRow {
		t.Error("header row must precede the data start row")
	}
}
