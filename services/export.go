package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	DefaultExportDays = 30
	maxExportRows     = 5000

	transactionsSheet = "Transactions"
	categorySheet     = "By Category"
)

// ExportService renders a user's transactions as an Excel workbook
type ExportService struct {
	store   Store
	now     func() time.Time
	maxRows int
}

// NewExportService creates a new export service
func NewExportService(store Store) *ExportService {
	return &ExportService{store: store, now: time.Now, maxRows: maxExportRows}
}

var (
	colorPrimary   = "#4F46E5"
	colorSecondary = "#22C55E"
	colorStripe    = "#F1F5F9"
)

// CategoryTotal is the spend for one category in an export window
type CategoryTotal struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SummarizeByCategory totals transactions per category, largest first
func SummarizeByCategory(txs []Transaction) ([]CategoryTotal, float64) {
	byCategory := make(map[string]*CategoryTotal)
	var total float64
	for _, tx := range txs {
		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category}
			byCategory[tx.Category] = ct
		}
		ct.Amount += tx.Amount
		ct.Count++
		total += tx.Amount
	}

	out := make([]CategoryTotal, 0, len(byCategory))
	for _, ct := range byCategory {
		if total > 0 {
			ct.Percentage = round2(ct.Amount / total * 100)
		}
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out, total
}

// ExportToExcel generates an xlsx file of the last N days of transactions
func (s *ExportService) ExportToExcel(ctx context.Context, userID string, days int) ([]byte, string, error) {
	if days <= 0 {
		days = DefaultExportDays
	}

	endDate := s.now()
	startDate := endDate.AddDate(0, 0, -days)

	// the summary sheet covers the whole window, the detail sheet the newest rows
	txs, err := s.store.ListTransactions(ctx, TransactionFilter{
		UserID: userID,
		Since:  startDate,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to load transactions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16, Color: "#FFFFFF"},
		Fill: excelize.Fill{
			Type:    "gradient",
			Color:   []string{colorPrimary, colorSecondary},
			Shading: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorPrimary}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	stripeStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{colorStripe}, Pattern: 1},
	})
	amountStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	// ===== Sheet 1: transactions =====
	f.MergeCell(transactionsSheet, "A1", "E1")
	f.SetCellValue(transactionsSheet, "A1", fmt.Sprintf("FinMentor - last %d days (%s to %s)",
		days, startDate.Format("02/01/2006"), endDate.Format("02/01/2006")))
	f.SetCellStyle(transactionsSheet, "A1", "E1", titleStyle)
	f.SetRowHeight(transactionsSheet, 1, 30)

	headers := []string{"Date", "Category", "Merchant", "Note", "Amount (₹)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(transactionsSheet, cell, h)
	}
	f.SetCellStyle(transactionsSheet, "A2", "E2", headerStyle)

	rows := txs
	if len(rows) > s.maxRows {
		rows = rows[:s.maxRows]
	}
	for i, tx := range rows {
		row := i + 3
		values := []interface{}{
			tx.Timestamp.Format("2006-01-02 15:04"),
			tx.Category,
			tx.Merchant,
			tx.Note,
			tx.Amount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(transactionsSheet, cell, v)
		}
		if i%2 == 1 {
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(4, row)
			f.SetCellStyle(transactionsSheet, start, end, stripeStyle)
		}
		amountCell, _ := excelize.CoordinatesToCellName(5, row)
		f.SetCellStyle(transactionsSheet, amountCell, amountCell, amountStyle)
	}

	if len(rows) < len(txs) {
		f.SetCellValue(transactionsSheet, fmt.Sprintf("A%d", len(rows)+4),
			fmt.Sprintf("Showing the newest %d of %d transactions. See \"%s\" for full totals.", len(rows), len(txs), categorySheet))
	}

	f.SetColWidth(transactionsSheet, "A", "A", 18)
	f.SetColWidth(transactionsSheet, "B", "D", 22)
	f.SetColWidth(transactionsSheet, "E", "E", 14)

	// ===== Sheet 2: category summary =====
	if _, err := f.NewSheet(categorySheet); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %w", err)
	}
	summary, total := SummarizeByCategory(txs)

	for i, h := range []string{"Category", "Transactions", "Amount (₹)", "Share (%)"} {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(categorySheet, cell, h)
	}
	f.SetCellStyle(categorySheet, "A1", "D1", headerStyle)

	for i, ct := range summary {
		row := i + 2
		for col, v := range []interface{}{ct.Category, ct.Count, ct.Amount, ct.Percentage} {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(categorySheet, cell, v)
		}
	}
	totalRow := len(summary) + 2
	f.SetCellValue(categorySheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(categorySheet, fmt.Sprintf("B%d", totalRow), len(txs))
	f.SetCellValue(categorySheet, fmt.Sprintf("C%d", totalRow), total)
	f.SetCellStyle(categorySheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("D%d", totalRow), headerStyle)
	f.SetColWidth(categorySheet, "A", "D", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	filename := fmt.Sprintf("finmentor-transactions-%s.xlsx", endDate.Format("20060102-150405"))
	return buf.Bytes(), filename, nil
}
