package numeric

import (
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  float64
		wantError bool
	}{
		{name: "Plain integer", input: "299900", expected: 299900},
		{name: "Currency with separators", input: "$299,900", expected: 299900},
		{name: "Canadian dollar prefix", input: "CA$ 1,800/mo", expected: 1800},
		{name: "Percent", input: "5.5%", expected: 5.5},
		{name: "Thousands suffix", input: "450K", expected: 450000},
		{name: "Millions suffix", input: "$1.2M", expected: 1200000},
		{name: "Square feet", input: "1,250 sq ft", expected: 1250},
		{name: "Per year", input: "$3,000/year", expected: 3000},
		{name: "Negative", input: "-250", expected: -250},
		{name: "Parenthesised negative", input: "($250.00)", expected: -250},
		{name: "Non-breaking space", input: "1\u00a0800", expected: 1800},
		{name: "Empty", input: "  ", wantError: true},
		{name: "Words", input: "call for price", wantError: true},
		{name: "Only symbol", input: "$", wantError: true},
		{name: "Suffix overflows", input: "1e308k", wantError: true},
		{name: "Exponent overflows", input: "1e400", wantError: true},
		{name: "Infinity", input: "+Inf", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("Parse(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if math.Abs(got-tt.expected) > 1e-6 {
				t.Errorf("Parse(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  int
		wantError bool
	}{
		{name: "Plain", input: "1978", expected: 1978},
		{name: "With unit", input: "25 years", expected: 25},
		{name: "Trailing zero fraction", input: "30.0", expected: 30},
		{name: "Fractional", input: "25.5", wantError: true},
		{name: "Too large", input: "1e12", wantError: true},
		{name: "Overflow", input: "1e308k", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(tt.input)
			if tt.wantError {
				if err == nil {
					t.Errorf("ParseInt(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil || got != tt.expected {
				t.Errorf("ParseInt(%q) = (%d, %v), expected %d", tt.input, got, err, tt.expected)
			}
		})
	}
}
