package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/finmentor/backend/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var esdNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func chatAt(t time.Time, text string) SearchLog {
	user := "u1"
	return SearchLog{ID: primitive.NewObjectID(), UserID: &user, Query: &text, Source: SourceChat, Timestamp: t}
}

func txAt(t time.Time, category string, amount float64) Transaction {
	return Transaction{ID: primitive.NewObjectID(), UserID: "u1", Category: category, Amount: amount, Timestamp: t}
}

func TestNegativeKeyword(t *testing.T) {
	tests := map[string]string{
		"I'm so STRESSED about exams": "stressed",
		"feeling lonely tonight":      "lonely",
		"I lost my job today":         "lost my job",
		"she was distressed":          "",
		"planning my budget":          "",
	}
	for text, want := range tests {
		if got := NegativeKeyword(text); got != want {
			t.Errorf("NegativeKeyword(%q) = %q, want %q", text, got, want)
		}
	}
}

func TestDetectZeroBaselineSpike(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	chat := chatAt(esdNow.Add(-10*day), "I'm really stressed about work")
	txs := []Transaction{txAt(esdNow.Add(-9*day), "shopping", 600)}

	result := DetectEmotionalSpending("u1", txs, []SearchLog{chat}, since, esdNow)

	if len(result.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(result.Alerts))
	}
	a := result.Alerts[0]
	if a.Category != "shopping" || a.Spend != 600 || a.Expected != 0 {
		t.Errorf("unexpected alert %+v", a)
	}
	if a.Ratio < esdSpikeRatio {
		t.Errorf("Ratio = %v, want >= %v", a.Ratio, esdSpikeRatio)
	}
	if a.ChatID != chat.ID || a.Keyword != "stressed" || a.Trigger != *chat.Query {
		t.Errorf("alert not linked to trigger chat: %+v", a)
	}
	if !a.WindowEnd.Equal(chat.Timestamp.Add(7 * day)) {
		t.Errorf("WindowEnd = %v", a.WindowEnd)
	}
}

func TestDetectIgnoresNeutralChats(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	chat := chatAt(esdNow.Add(-10*day), "how do I plan my budget?")
	txs := []Transaction{txAt(esdNow.Add(-9*day), "shopping", 600)}

	result := DetectEmotionalSpending("u1", txs, []SearchLog{chat}, since, esdNow)
	if len(result.Alerts) != 0 {
		t.Errorf("alerts = %d, want 0", len(result.Alerts))
	}
	if result.Baseline["shopping"] == 0 {
		t.Error("without an episode the spend should count towards the baseline")
	}
}

func TestDetectAgainstBaseline(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	chat := chatAt(esdNow.Add(-10*day), "had a terrible day")

	// 83 days of ₹200 food outside the 7-day episode: baseline 200/day
	var base []Transaction
	for i := 0; i < 80; i++ {
		base = append(base, txAt(since.Add(time.Duration(i)*day+time.Hour), "food", 200))
	}
	base = append(base,
		txAt(esdNow.Add(-2*day), "food", 200),
		txAt(esdNow.Add(-1*day), "food", 200),
		txAt(esdNow.Add(-time.Hour), "food", 200),
	)

	tests := []struct {
		name        string
		windowSpend float64
		wantAlerts  int
		wantRatio   float64
	}{
		{"normal week", 1400, 0, 0},
		{"just under threshold", 2100, 0, 0},
		{"spike", 2500, 1, 1.79},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := append([]Transaction{}, base...)
			txs = append(txs, txAt(chat.Timestamp.Add(2*day), "food", tt.windowSpend))

			result := DetectEmotionalSpending("u1", txs, []SearchLog{chat}, since, esdNow)
			if got := result.Baseline["food"]; got != 200 {
				t.Fatalf("baseline = %v, want 200", got)
			}
			if len(result.Alerts) != tt.wantAlerts {
				t.Fatalf("alerts = %d, want %d", len(result.Alerts), tt.wantAlerts)
			}
			if tt.wantAlerts > 0 {
				a := result.Alerts[0]
				if a.Expected != 1400 || a.Ratio != tt.wantRatio {
					t.Errorf("Expected = %v, Ratio = %v; want 1400, %v", a.Expected, a.Ratio, tt.wantRatio)
				}
			}
		})
	}
}

func TestDetectMinimumSpend(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	chat := chatAt(esdNow.Add(-10*day), "so anxious lately")
	txs := []Transaction{txAt(esdNow.Add(-9*day), "snacks", 499)}

	if result := DetectEmotionalSpending("u1", txs, []SearchLog{chat}, since, esdNow); len(result.Alerts) != 0 {
		t.Errorf("spend below ₹500 should not alert, got %+v", result.Alerts)
	}
}

func TestDetectMergesOverlappingTriggers(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	first := chatAt(esdNow.Add(-10*day), "feeling sad")
	second := chatAt(esdNow.Add(-8*day), "still sad and tired")
	txs := []Transaction{txAt(esdNow.Add(-7*day), "food", 800)}

	result := DetectEmotionalSpending("u1", txs, []SearchLog{second, first}, since, esdNow)
	if len(result.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1", len(result.Alerts))
	}
	if result.Alerts[0].ChatID != first.ID {
		t.Error("episode should be anchored on the earliest trigger")
	}
}

func TestDetectChecksSpendAfterLaterTrigger(t *testing.T) {
	since := esdNow.AddDate(0, 0, -90)
	first := chatAt(esdNow.Add(-20*day), "so stressed")
	second := chatAt(esdNow.Add(-14*day), "feeling sad again")
	// after the first chat's window closes, inside the second one's
	txs := []Transaction{txAt(esdNow.Add(-10*day), "shopping", 800)}

	result := DetectEmotionalSpending("u1", txs, []SearchLog{first, second}, since, esdNow)
	if len(result.Alerts) != 1 {
		t.Fatalf("alerts = %d, want 1 (baseline %v)", len(result.Alerts), result.Baseline)
	}
	a := result.Alerts[0]
	if a.ChatID != first.ID || a.Spend != 800 {
		t.Errorf("unexpected alert %+v", a)
	}
	if !a.WindowEnd.Equal(second.Timestamp.Add(7 * day)) {
		t.Errorf("WindowEnd = %v, want the later trigger's window end", a.WindowEnd)
	}
	if result.Baseline["shopping"] != 0 {
		t.Errorf("episode spend leaked into the baseline: %v", result.Baseline)
	}
}

func TestDetectorAnalyze(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	chat := chatAt(esdNow.Add(-5*day), "heartbroken after the breakup")
	if _, err := store.InsertSearch(ctx, &chat); err != nil {
		t.Fatal(err)
	}
	tx := txAt(esdNow.Add(-4*day), "shopping", 3000)
	if _, err := store.InsertTransaction(ctx, &tx); err != nil {
		t.Fatal(err)
	}

	d := NewDetector(store, logger.Discard())
	d.now = func() time.Time { return esdNow }

	for run := 0; run < 2; run++ {
		result, err := d.Analyze(ctx, "u1", 0)
		if err != nil {
			t.Fatalf("Analyze() error = %v", err)
		}
		if len(result.Alerts) != 1 {
			t.Fatalf("run %d: alerts = %d, want 1", run, len(result.Alerts))
		}
	}

	stored, err := d.Alerts(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 {
		t.Errorf("stored alerts = %d, want 1 after re-running", len(stored))
	}

	if _, err := d.Analyze(ctx, "u1", 400); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Analyze(400) error = %v, want ErrInvalidInput", err)
	}
	if _, err := d.Analyze(ctx, "u1", -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Analyze(-1) error = %v, want ErrInvalidInput", err)
	}
}
