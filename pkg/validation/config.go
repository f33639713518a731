package validation

import (
	"fmt"
	"strings"
)

// DealConfig is the part of a configured deal that validation looks at.
type DealConfig struct {
	Name        string
	Active      bool
	InputFields int
	HasBorrower bool
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	OutputFormat  string
	LoggingFormat string
	Deals         []DealConfig
}

// ValidateDealNames warns about unnamed deals and names used more than once.
// Names are compared case-insensitively since reports are matched by name.
func ValidateDealNames(deals []DealConfig) []string {
	var warnings []string
	seen := make(map[string]int, len(deals))
	for i, d := range deals {
		name := strings.TrimSpace(d.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("Deal %d has no name", i+1))
			continue
		}
		key := strings.ToLower(name)
		if first, ok := seen[key]; ok {
			warnings = append(warnings, fmt.Sprintf("Deal '%s' is defined more than once (deals %d and %d)", name, first+1, i+1))
			continue
		}
		seen[key] = i
	}
	return warnings
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	if cv.OutputFormat != "" {
		if err := ValidateOutputFormat(cv.OutputFormat); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	if cv.LoggingFormat != "" {
		if err := ValidateLogFormat(cv.LoggingFormat); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if len(cv.Deals) == 0 {
		return append(warnings, "No deals are configured")
	}

	warnings = append(warnings, ValidateDealNames(cv.Deals)...)

	active := 0
	for _, d := range cv.Deals {
		if !d.Active {
			continue
		}
		active++
		if d.InputFields == 0 {
			warnings = append(warnings, fmt.Sprintf("Deal '%s' is active but has no inputs", d.Name))
		}
	}
	if active == 0 {
		warnings = append(warnings, "No deals are active")
	}

	return warnings
}
