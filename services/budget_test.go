package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSplitBudget(t *testing.T) {
	got := SplitBudget(50000)
	want := BudgetSplit{Income: 50000, Needs: 25000, Wants: 15000, Savings: 10000}
	if got != want {
		t.Errorf("SplitBudget(50000) = %+v, want %+v", got, want)
	}
}

func TestSplitBudgetSumsToIncome(t *testing.T) {
	for _, income := range []float64{20000, 33333.33, 12345.67, 0.01, 999999.99, 41999.5} {
		s := SplitBudget(income)
		sum := decimal.NewFromFloat(s.Needs).
			Add(decimal.NewFromFloat(s.Wants)).
			Add(decimal.NewFromFloat(s.Savings))
		if !sum.Equal(decimal.NewFromFloat(s.Income)) {
			t.Errorf("income %v: parts sum to %s, want %v", income, sum, s.Income)
		}
		if s.Needs < s.Wants || s.Wants < s.Savings-0.01 {
			t.Errorf("income %v: unexpected ordering %+v", income, s)
		}
	}
}

func TestBudgetReport(t *testing.T) {
	pdf, err := BudgetReport(SplitBudget(45000), time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BudgetReport() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output does not look like a PDF: %q", pdf[:min(len(pdf), 16)])
	}
}
