// Package numeric coerces human-formatted numbers, as found on listing pages
// and in hand-written forms, into float64 values.
package numeric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// unitSuffixes are trailing period/area qualifiers that carry no value.
var unitSuffixes = []string{
	"/month", "/mo", "per month", "monthly",
	"/year", "/yr", "per year", "annually",
	"sq. ft.", "sq.ft.", "sq ft", "sqft", "ft2",
	"years", "year", "yrs",
}

// Parse converts strings such as "$299,900", "CA$ 1 800/mo", "5.5%",
// "$1.2M" or "450K" into a number. Parenthesised values are negative.
func Parse(raw string) (float64, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, fmt.Errorf("empty numeric value")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	s = strings.TrimSuffix(s, "%")
	s = strings.NewReplacer("ca$", "", "cad", "", "$", "", ",", "", "_", "", "\u00a0", "", " ", "").Replace(s)

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier = 1e3
		s = strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		multiplier = 1e6
		s = strings.TrimSuffix(s, "m")
	}

	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" || !containsDigit(s) {
		return 0, fmt.Errorf("invalid numeric value %q", raw)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	value *= multiplier
	if math.IsInf(value, 0) {
		return 0, fmt.Errorf("numeric value %q is out of range", raw)
	}
	if negative {
		value = -value
	}
	return value, nil
}

// ParseInt is Parse restricted to whole numbers; "25.5" is an error.
func ParseInt(raw string) (int, error) {
	value, err := Parse(raw)
	if err != nil {
		return 0, err
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("numeric value %q is not a whole number", raw)
	}
	if value > math.MaxInt32 || value < math.MinInt32 {
		return 0, fmt.Errorf("numeric value %q is out of range", raw)
	}
	return int(value), nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
