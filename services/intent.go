package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const defaultGoalType = "savings goal"

var (
	monthsRegex   = regexp.MustCompile(`(?i)(\d+)\s*months?`)
	currencyRegex = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\brupees?)\s*(\d[\d,]*(?:\.\d+)?)`)
	wordUnitRegex = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(k|thousand|lakh|lac|million|crore|cr)\b`)
	bigNumRegex   = regexp.MustCompile(`\b(\d{1,3}(?:,\d{2,3})+|\d{4,})\b`)

	// text immediately before an amount that marks it as the user's income
	incomeLeadRegex = regexp.MustCompile(`(?i)\b(?:earn|earns|earning|earnings|income|salary|paid)\b(?:[\s:=]+(?:is|of|about|around|roughly|approx|monthly|net|gross))*[\s:=]*$`)

	// "make" only states income with a pay period after the amount;
	// "make 5 lakh in 10 months" is a goal
	makeLeadRegex  = regexp.MustCompile(`(?i)\b(?:make|makes|making)\b(?:\s+(?:about|around|roughly|approx))*\s*$`)
	payPeriodRegex = regexp.MustCompile(`(?i)^\s*(?:(?:a|per|each|every)\s+month\b|monthly\b|/\s*month\b|pm\b|p\.m\.)`)

	unitMultipliers = map[string]float64{
		"k":        1_000,
		"thousand": 1_000,
		"lakh":     100_000,
		"lac":      100_000,
		"million":  1_000_000,
		"crore":    10_000_000,
		"cr":       10_000_000,
	}

	// checked in order, first hit wins
	goalPatterns = []struct {
		goal  string
		regex *regexp.Regexp
	}{
		{"car", regexp.MustCompile(`\bcars?\b`)},
		{"laptop", regexp.MustCompile(`\b(?:laptops?|computers?)\b`)},
		{"house", regexp.MustCompile(`\b(?:houses?|homes?)\b`)},
		{"bike", regexp.MustCompile(`\b(?:bikes?|motorcycles?)\b`)},
		{"holiday", regexp.MustCompile(`\b(?:holidays?|vacations?|trips?)\b`)},
		{"wedding", regexp.MustCompile(`\bweddings?\b`)},
		{"education", regexp.MustCompile(`\b(?:education|study|studies)\b`)},
	}

	goalDefaults = map[string]float64{
		"car":       500_000,
		"laptop":    100_000,
		"bike":      150_000,
		"house":     5_000_000,
		"holiday":   200_000,
		"wedding":   1_000_000,
		"education": 500_000,
	}
)

// Intent is what the coach understood from a free-text message.
// Zero values mean "not mentioned".
type Intent struct {
	Months       int     `json:"months"`
	GoalAmount   float64 `json:"goalAmount"`
	GoalType     string  `json:"goalType"`
	StatedIncome float64 `json:"statedIncome"`

	lower string
}

// HasKeyword reports whether the lower-cased message contains any of the words
func (i Intent) HasKeyword(words ...string) bool {
	for _, w := range words {
		if strings.Contains(i.lower, w) {
			return true
		}
	}
	return false
}

// DefaultGoalCost returns the typical cost of a known goal type
func DefaultGoalCost(goalType string) (float64, bool) {
	cost, ok := goalDefaults[goalType]
	return cost, ok
}

type span struct{ start, end int }

func overlaps(spans []span, start, end int) bool {
	for _, s := range spans {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// ParseIntent extracts timeframe, goal amount, goal type and any stated
// income from a chat message.
func ParseIntent(message string) Intent {
	lower := strings.ToLower(message)
	intent := Intent{GoalType: defaultGoalType, lower: lower}

	var claimed []span
	if m := monthsRegex.FindStringSubmatchIndex(lower); m != nil {
		if n, err := strconv.Atoi(lower[m[2]:m[3]]); err == nil {
			intent.Months = n
		}
		claimed = append(claimed, span{m[0], m[1]})
	}

	// currency prefix, then word units, then bare large numbers
	extractors := []struct {
		regex *regexp.Regexp
		value func(lower string, m []int) (float64, bool)
	}{
		{currencyRegex, func(s string, m []int) (float64, bool) {
			return parseDigits(s[m[2]:m[3]])
		}},
		{wordUnitRegex, func(s string, m []int) (float64, bool) {
			n, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
			if err != nil {
				return 0, false
			}
			return math.Round(n * unitMultipliers[s[m[4]:m[5]]]), true
		}},
		{bigNumRegex, func(s string, m []int) (float64, bool) {
			n, ok := parseDigits(s[m[2]:m[3]])
			return n, ok && n >= 1000
		}},
	}

	for _, ex := range extractors {
		for _, m := range ex.regex.FindAllStringSubmatchIndex(lower, -1) {
			if overlaps(claimed, m[0], m[1]) {
				continue
			}
			claimed = append(claimed, span{m[0], m[1]})

			amount, ok := ex.value(lower, m)
			if !ok || amount <= 0 {
				continue
			}
			if isIncomeAmount(lower, m[0], m[1]) {
				if intent.StatedIncome == 0 {
					intent.StatedIncome = amount
				}
				continue
			}
			if intent.GoalAmount == 0 {
				intent.GoalAmount = amount
			}
		}
	}

	for _, p := range goalPatterns {
		if p.regex.MatchString(lower) {
			intent.GoalType = p.goal
			break
		}
	}

	return intent
}

// isIncomeAmount reports whether the amount at lower[start:end] is the
// user's own income rather than a goal
func isIncomeAmount(lower string, start, end int) bool {
	if incomeLeadRegex.MatchString(lower[:start]) {
		return true
	}
	return makeLeadRegex.MatchString(lower[:start]) && payPeriodRegex.MatchString(lower[end:])
}

// parseDigits reads an integer part with grouping commas, e.g. "5,00,000"
func parseDigits(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
