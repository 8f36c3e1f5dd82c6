package handlers

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a JSON field that accepts 50000, 50000.5, "50000" or "50,000".
// Set is true when the field carried a non-empty value, Valid when that
// value parsed as a finite number.
type Number struct {
	Value float64
	Set   bool
	Valid bool
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return nil
	}

	n.Set = true
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value, n.Valid = v, true
	return nil
}

// Positive returns the value when it is a valid number above zero
func (n Number) Positive() (float64, bool) {
	if n.Valid && n.Value > 0 {
		return n.Value, true
	}
	return 0, false
}

// parseNumber applies the same rules to a query string value
func parseNumber(s string) Number {
	var n Number
	_ = n.UnmarshalJSON([]byte(strconv.Quote(s)))
	return n
}
