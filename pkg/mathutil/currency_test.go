package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundTo(t *testing.T) {
	if got := RoundTo(1.23456, 4); math.Abs(got-1.2346) > 1e-9 {
		t.Errorf("RoundTo(1.23456, 4) = %v, expected 1.2346", got)
	}
	if got := RoundTo(7.5, 0); got != 8 {
		t.Errorf("RoundTo(7.5, 0) = %v, expected 8", got)
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Very small positive", 0.001, true},
		{"Very small negative", -0.001, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsZero(tt.input)
			if result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(100.0, 100.5, 1.0) {
		t.Error("expected 100.0 and 100.5 to be within 1.0")
	}
	if WithinTolerance(100.0, 102.0, 1.0) {
		t.Error("expected 100.0 and 102.0 to differ by more than 1.0")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name        string
		input       float64
		expected    float64
		wantClamped bool
	}{
		{"Inside range", 50, 50, false},
		{"Lower bound", 0, 0, false},
		{"Upper bound", 100, 100, false},
		{"Below range", -5, 0, true},
		{"Above range", 150, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := Clamp(tt.input, 0, 100)
			if got != tt.expected || clamped != tt.wantClamped {
				t.Errorf("Clamp(%v) = (%v, %v), expected (%v, %v)", tt.input, got, clamped, tt.expected, tt.wantClamped)
			}
		})
	}
}

func TestSafeRatio(t *testing.T) {
	if _, ok := SafeRatio(10, 0); ok {
		t.Error("expected ratio with zero denominator to be undefined")
	}
	ratio, ok := SafeRatio(10, 4)
	if !ok || ratio != 2.5 {
		t.Errorf("SafeRatio(10, 4) = (%v, %v), expected (2.5, true)", ratio, ok)
	}
}

func TestCalculatePercentage(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		total    float64
		expected float64
	}{
		{"Quarter", 25, 100, 25},
		{"Down payment", 59980, 299900, 20},
		{"Zero total", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculatePercentage(tt.value, tt.total)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("CalculatePercentage(%v, %v) = %v, expected %v", tt.value, tt.total, result, tt.expected)
			}
		})
	}
}

func TestApplyPercentage(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"Management fee", 1800, 8, 144},
		{"Maintenance", 1800, 10, 180},
		{"Zero percent", 1800, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ApplyPercentage(tt.value, tt.percentage)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v", tt.value, tt.percentage, result, tt.expected)
			}
		})
	}
}

func TestMonthlyAnnualRoundTrip(t *testing.T) {
	if got := Monthly(3000); got != 250 {
		t.Errorf("Monthly(3000) = %v, expected 250", got)
	}
	if got := Annual(250); got != 3000 {
		t.Errorf("Annual(250) = %v, expected 3000", got)
	}
}
