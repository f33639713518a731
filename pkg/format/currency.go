package format

import (
	"fmt"
	"math"
	"strings"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency is Currency without cents (e.g., "$299,900").
func WholeCurrency(amount float64) string {
	s := Currency(math.Round(amount))
	return strings.TrimSuffix(s, ".00")
}

// Percent renders a 0-100 percentage with the given precision (e.g., "5.25%").
func Percent(value float64, precision int) string {
	return fmt.Sprintf("%.*f%%", precision, value)
}

// Ratio renders a coverage ratio (e.g., "1.23x").
func Ratio(value float64) string {
	return fmt.Sprintf("%.2fx", value)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
