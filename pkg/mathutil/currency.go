// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundTo rounds a value to the given number of decimal places.
func RoundTo(val float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(val*factor) / factor
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Clamp bounds val to [lo, hi] and reports whether it had to move.
func Clamp(val, lo, hi float64) (float64, bool) {
	if val < lo {
		return lo, true
	}
	if val > hi {
		return hi, true
	}
	return val, false
}

// SafeRatio divides numerator by denominator. The second return value is false
// when the denominator is zero and the ratio is undefined.
func SafeRatio(numerator, denominator float64) (float64, bool) {
	if denominator == 0 {
		return 0, false
	}
	return numerator / denominator, true
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// Monthly converts an annual amount to its monthly equivalent.
func Monthly(annual float64) float64 {
	return annual / constants.MonthsPerYear
}

// Annual converts a monthly amount to its annual equivalent.
func Annual(monthly float64) float64 {
	return monthly * constants.MonthsPerYear
}
