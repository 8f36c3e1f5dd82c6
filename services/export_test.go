package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestSummarizeByCategory(t *testing.T) {
	txs := []Transaction{
		{Category: "food", Amount: 300},
		{Category: "rent", Amount: 600},
		{Category: "food", Amount: 100},
	}
	got, total := SummarizeByCategory(txs)
	if total != 1000 {
		t.Errorf("total = %v, want 1000", total)
	}
	if len(got) != 2 || got[0].Category != "rent" || got[1].Count != 2 || got[1].Percentage != 40 {
		t.Errorf("SummarizeByCategory() = %+v", got)
	}
}

func TestExportToExcel(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	store.InsertTransaction(ctx, &Transaction{UserID: "u1", Amount: 250, Category: "food", Merchant: "Swiggy", Timestamp: now.Add(-time.Hour)})
	store.InsertTransaction(ctx, &Transaction{UserID: "u1", Amount: 1200, Category: "shopping", Timestamp: now.AddDate(0, 0, -3)})
	store.InsertTransaction(ctx, &Transaction{UserID: "u1", Amount: 999, Category: "old", Timestamp: now.AddDate(0, 0, -60)})
	store.InsertTransaction(ctx, &Transaction{UserID: "u2", Amount: 10, Category: "food", Timestamp: now})

	svc := NewExportService(store)
	svc.now = func() time.Time { return now }

	data, filename, err := svc.ExportToExcel(ctx, "u1", 0)
	if err != nil {
		t.Fatalf("ExportToExcel() error = %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("filename = %q", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(transactionsSheet)
	if err != nil {
		t.Fatal(err)
	}
	// title, header, two transactions inside the default 30 days
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4: %v", len(rows), rows)
	}
	if rows[2][1] != "food" || rows[2][2] != "Swiggy" {
		t.Errorf("newest row = %v", rows[2])
	}

	summary, err := f.GetRows(categorySheet)
	if err != nil {
		t.Fatal(err)
	}
	if last := summary[len(summary)-1]; last[0] != "Total" || last[2] != "1450" {
		t.Errorf("total row = %v", last)
	}
}

func TestExportToExcelTruncatesDetailOnly(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	for i, amount := range []float64{100, 200, 300} {
		store.InsertTransaction(ctx, &Transaction{UserID: "u1", Amount: amount, Category: "food", Timestamp: now.Add(-time.Duration(i+1) * time.Hour)})
	}

	svc := NewExportService(store)
	svc.now = func() time.Time { return now }
	svc.maxRows = 2

	data, _, err := svc.ExportToExcel(ctx, "u1", 7)
	if err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, _ := f.GetRows(transactionsSheet)
	// title, header, two rows, blank, note
	if len(rows) != 6 || !strings.HasPrefix(rows[5][0], "Showing the newest 2 of 3") {
		t.Errorf("rows = %v", rows)
	}

	summary, _ := f.GetRows(categorySheet)
	if last := summary[len(summary)-1]; last[1] != "3" || last[2] != "600" {
		t.Errorf("total row = %v, want all 3 transactions", last)
	}
}
