package services

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultLookbackDays = 90
	MaxLookbackDays     = 365

	esdWindow       = 7 * 24 * time.Hour
	esdSpikeRatio   = 1.5
	esdMinimumSpend = 500.0
	// expected spend never drops below one rupee so a zero baseline
	// still yields a finite ratio
	esdExpectedFloor = 1.0
)

var negativeKeywords = []string{
	"stressed", "stress", "anxious", "anxiety", "sad", "depressed", "lonely",
	"upset", "angry", "frustrated", "overwhelmed", "worried", "tired",
	"exhausted", "bored", "heartbroken", "breakup", "broke up", "fired",
	"lost my job", "bad day", "terrible", "awful", "miserable", "crying", "hate",
}

var negativeRegex = buildKeywordRegex(negativeKeywords)

func buildKeywordRegex(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`)
}

// NegativeKeyword returns the first negative-sentiment keyword in text, or ""
func NegativeKeyword(text string) string {
	return negativeRegex.FindString(strings.ToLower(text))
}

// ESDResult is the outcome of one emotional-spending analysis
type ESDResult struct {
	Alerts   []Alert            `json:"alerts"`
	Baseline map[string]float64 `json:"baseline"`
}

// Detector links negative-sentiment chat messages to spending spikes
type Detector struct {
	store Store
	log   *logrus.Logger
	now   func() time.Time
}

func NewDetector(store Store, log *logrus.Logger) *Detector {
	return &Detector{store: store, log: log, now: time.Now}
}

// Analyze scans the lookback window for a user, persists any alerts and
// returns them with the per-category daily baseline.
func (d *Detector) Analyze(ctx context.Context, userID string, lookbackDays int) (*ESDResult, error) {
	if lookbackDays == 0 {
		lookbackDays = DefaultLookbackDays
	}
	if lookbackDays < 1 || lookbackDays > MaxLookbackDays {
		return nil, fmt.Errorf("%w: lookbackDays must be between 1 and %d", ErrInvalidInput, MaxLookbackDays)
	}

	now := d.now()
	since := now.AddDate(0, 0, -lookbackDays)

	txs, err := d.store.ListTransactions(ctx, TransactionFilter{UserID: userID, Since: since})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	chats, err := d.store.ListSearches(ctx, SearchFilter{UserID: userID, Since: since})
	if err != nil {
		return nil, fmt.Errorf("failed to load chat logs: %w", err)
	}

	result := DetectEmotionalSpending(userID, txs, chats, since, now)
	if len(result.Alerts) > 0 {
		if err := d.store.SaveAlerts(ctx, result.Alerts); err != nil {
			return nil, fmt.Errorf("failed to save alerts: %w", err)
		}
	}

	d.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"transactions": len(txs),
		"chats":        len(chats),
		"alerts":       len(result.Alerts),
	}).Info("Emotional spending analysis complete")

	return result, nil
}

// Alerts returns previously stored alerts for a user
func (d *Detector) Alerts(ctx context.Context, userID string) ([]Alert, error) {
	return d.store.ListAlerts(ctx, userID, 0)
}

type episode struct {
	chat    SearchLog
	keyword string
	start   time.Time
	end     time.Time
}

// DetectEmotionalSpending is the pure heuristic behind Analyze. Transactions
// and chats outside [since, now] are ignored.
func DetectEmotionalSpending(userID string, txs []Transaction, chats []SearchLog, since, now time.Time) *ESDResult {
	episodes := findEpisodes(chats, since, now)

	// Baseline over everything that is not inside an episode window
	baselineTotals := make(map[string]float64)
	for _, tx := range txs {
		if !inRange(tx.Timestamp, since, now) || insideEpisode(episodes, tx.Timestamp) {
			continue
		}
		baselineTotals[tx.Category] += tx.Amount
	}

	lookbackDays := now.Sub(since).Hours() / 24
	baselineDays := lookbackDays - coveredDays(episodes, now)
	if baselineDays < 1 {
		baselineDays = 1
	}

	baseline := make(map[string]float64, len(baselineTotals))
	for cat, total := range baselineTotals {
		baseline[cat] = round2(total / baselineDays)
	}

	alerts := []Alert{}
	for _, ep := range episodes {
		spend := make(map[string]float64)
		for _, tx := range txs {
			if !tx.Timestamp.Before(ep.start) && tx.Timestamp.Before(ep.end) && !tx.Timestamp.After(now) {
				spend[tx.Category] += tx.Amount
			}
		}

		categories := make([]string, 0, len(spend))
		for cat := range spend {
			categories = append(categories, cat)
		}
		sort.Strings(categories)

		for _, cat := range categories {
			amount := spend[cat]
			expected := baseline[cat] * ep.days()
			if amount <= esdSpikeRatio*expected || amount < esdMinimumSpend {
				continue
			}
			alerts = append(alerts, Alert{
				UserID:      userID,
				Category:    cat,
				ChatID:      ep.chat.ID,
				Trigger:     derefString(ep.chat.Query),
				Keyword:     ep.keyword,
				WindowStart: ep.start,
				WindowEnd:   ep.end,
				Spend:       round2(amount),
				Expected:    round2(expected),
				Ratio:       round2(amount / math.Max(expected, esdExpectedFloor)),
				CreatedAt:   now,
			})
		}
	}

	return &ESDResult{Alerts: alerts, Baseline: baseline}
}

// findEpisodes groups negative-sentiment chats in time order. A trigger inside
// an open episode extends it to that trigger's own 7-day window; the episode
// stays anchored on its earliest trigger.
func findEpisodes(chats []SearchLog, since, now time.Time) []episode {
	sorted := make([]SearchLog, len(chats))
	copy(sorted, chats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var episodes []episode
	for _, chat := range sorted {
		if chat.Query == nil || !inRange(chat.Timestamp, since, now) {
			continue
		}
		keyword := NegativeKeyword(*chat.Query)
		if keyword == "" {
			continue
		}
		if n := len(episodes); n > 0 && chat.Timestamp.Before(episodes[n-1].end) {
			episodes[n-1].end = chat.Timestamp.Add(esdWindow)
			continue
		}
		episodes = append(episodes, episode{
			chat:    chat,
			keyword: keyword,
			start:   chat.Timestamp,
			end:     chat.Timestamp.Add(esdWindow),
		})
	}
	return episodes
}

// days is the episode length; a single trigger spans exactly the 7-day window
func (ep episode) days() float64 {
	return ep.end.Sub(ep.start).Hours() / 24
}

func insideEpisode(episodes []episode, t time.Time) bool {
	for _, ep := range episodes {
		if !t.Before(ep.start) && t.Before(ep.end) {
			return true
		}
	}
	return false
}

// coveredDays is how much of the lookback window episodes occupy
func coveredDays(episodes []episode, now time.Time) float64 {
	var total time.Duration
	for _, ep := range episodes {
		end := ep.end
		if end.After(now) {
			end = now
		}
		total += end.Sub(ep.start)
	}
	return total.Hours() / 24
}

func inRange(t, since, now time.Time) bool {
	return !t.Before(since) && !t.After(now)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
