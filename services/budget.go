package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

var (
	needsShare = decimal.NewFromFloat(0.5)
	wantsShare = decimal.NewFromFloat(0.3)
)

// BudgetSplit is the 50/30/20 allocation of a monthly income
type BudgetSplit struct {
	Income  float64 `json:"income"`
	Needs   float64 `json:"needs"`
	Wants   float64 `json:"wants"`
	Savings float64 `json:"savings"`
}

// SplitBudget allocates income 50/30/20 to needs, wants and savings.
// Amounts are rounded to paise and savings takes the remainder so the
// three parts always add back up to the income.
func SplitBudget(income float64) BudgetSplit {
	total := decimal.NewFromFloat(income).Round(2)
	needs := total.Mul(needsShare).Round(2)
	wants := total.Mul(wantsShare).Round(2)
	savings := total.Sub(needs).Sub(wants)

	return BudgetSplit{
		Income:  total.InexactFloat64(),
		Needs:   needs.InexactFloat64(),
		Wants:   wants.InexactFloat64(),
		Savings: savings.InexactFloat64(),
	}
}

// BudgetReport renders a one-page PDF summary of a budget split
func BudgetReport(split BudgetSplit, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FinMentor budget plan", false)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(79, 70, 229)
	pdf.Rect(0, 0, 210, 36, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(15, 10)
	pdf.Cell(0, 10, "FinMentor - Budget Plan")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(15, 22)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s", generatedAt.Format("02 Jan 2006 15:04")))

	pdf.SetTextColor(30, 41, 59)
	pdf.SetXY(15, 48)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Monthly income: Rs. %s", rupees(split.Income)))
	pdf.Ln(14)

	rows := []struct {
		label   string
		share   string
		amount  float64
		r, g, b int
		hint    string
	}{
		{"Needs", "50%", split.Needs, 79, 70, 229, "rent, food, utilities, transport"},
		{"Wants", "30%", split.Wants, 34, 197, 94, "entertainment, dining, hobbies"},
		{"Savings", "20%", split.Savings, 250, 204, 21, "emergency fund, investments"},
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(241, 245, 249)
	pdf.CellFormat(40, 9, "Bucket", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 9, "Share", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 9, "Amount (Rs.)", "1", 0, "R", true, 0, "")
	pdf.CellFormat(75, 9, "Covers", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.SetFillColor(row.r, row.g, row.b)
		pdf.CellFormat(4, 9, "", "1", 0, "L", true, 0, "")
		pdf.CellFormat(36, 9, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 9, row.share, "1", 0, "C", false, 0, "")
		pdf.CellFormat(45, 9, fmt.Sprintf("%.2f", row.amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(75, 9, row.hint, "1", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "The 50/30/20 rule balances lifestyle with financial security. "+
		"Adjust the percentages to your goals and location.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render budget report: %w", err)
	}
	return buf.Bytes(), nil
}
