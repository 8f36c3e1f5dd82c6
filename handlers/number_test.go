package handlers

import (
	"encoding/json"
	"testing"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Number
	}{
		{`50000`, Number{Value: 50000, Set: true, Valid: true}},
		{`"50000"`, Number{Value: 50000, Set: true, Valid: true}},
		{`"50,000.50"`, Number{Value: 50000.5, Set: true, Valid: true}},
		{`-10`, Number{Value: -10, Set: true, Valid: true}},
		{`""`, Number{}},
		{`"  "`, Number{}},
		{`null`, Number{}},
		{`"abc"`, Number{Set: true}},
		{`true`, Number{Set: true}},
	}

	for _, tt := range tests {
		var body struct {
			N Number `json:"n"`
		}
		if err := json.Unmarshal([]byte(`{"n":`+tt.in+`}`), &body); err != nil {
			t.Errorf("%s: unexpected error %v", tt.in, err)
			continue
		}
		if body.N != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.in, body.N, tt.want)
		}
	}

	var missing struct {
		N Number `json:"n"`
	}
	json.Unmarshal([]byte(`{}`), &missing)
	if missing.N.Set {
		t.Error("missing field should not be Set")
	}
}

func TestResolveIncome(t *testing.T) {
	tests := []struct {
		in      Number
		want    float64
		wantErr bool
	}{
		{Number{}, defaultIncome, false},
		{Number{Value: 0, Set: true, Valid: true}, defaultIncome, false},
		{Number{Value: 45000, Set: true, Valid: true}, 45000, false},
		{Number{Value: -1, Set: true, Valid: true}, 0, true},
		{Number{Set: true}, 0, true},
	}
	for _, tt := range tests {
		got, err := resolveIncome(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("resolveIncome(%+v) = %v, %v", tt.in, got, err)
		}
	}
}
