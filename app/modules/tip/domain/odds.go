package tipdomain

import (
	"strconv"
	"strings"
)

// ParseOdds converts a raw odds string into a decimal price.
//
// Fractional odds "a/b" map to 1 + a/b, so "2/1" is 3.0. A plain decimal
// string maps to itself. The second return value is false when the string
// is unparseable; callers exclude such tips from averages rather than
// treating them as an error.
func ParseOdds(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, false
		}
		if n < 0 || d < 0 {
			return 0, false
		}
		return 1 + n/d, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
