package loans

import (
	"math"
	"testing"
)

func TestPeriodicRate(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		expected float64
	}{
		{"Zero rate", 0, 0},
		{"5.5% semi-annual", 5.5, 0.0045316817},
		{"6% semi-annual", 6.0, 0.0049386220},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PeriodicRate(tt.rate)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("PeriodicRate(%v) = %.10f, expected %.10f", tt.rate, result, tt.expected)
			}
		})
	}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name              string
		principal         float64
		annualRate        float64
		amortizationYears int
		expectedRange     []float64 // [min, max] expected range
	}{
		{
			name:              "Port Colborne rental at contract rate",
			principal:         239920,
			annualRate:        5.5,
			amortizationYears: 25,
			expectedRange:     []float64{1464.40, 1464.50}, // Around $1464.45
		},
		{
			name:              "Same loan at qualifying rate",
			principal:         239920,
			annualRate:        7.5,
			amortizationYears: 25,
			expectedRange:     []float64{1755.10, 1755.20},
		},
		{
			name:              "400k at 5% over 25 years",
			principal:         400000,
			annualRate:        5.0,
			amortizationYears: 25,
			expectedRange:     []float64{2326.37, 2326.47},
		},
		{
			name:              "Zero interest loan",
			principal:         120000,
			annualRate:        0.0,
			amortizationYears: 10,
			expectedRange:     []float64{1000, 1000},
		},
		{
			name:              "No loan",
			principal:         0,
			annualRate:        5.0,
			amortizationYears: 25,
			expectedRange:     []float64{0, 0},
		},
		{
			name:              "Zero amortization",
			principal:         100000,
			annualRate:        5.0,
			amortizationYears: 0,
			expectedRange:     []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.principal, tt.annualRate, tt.amortizationYears)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateMonthlyPaymentMonotonic(t *testing.T) {
	base := CalculateMonthlyPayment(300000, 5.0, 25)

	if higherRate := CalculateMonthlyPayment(300000, 5.01, 25); higherRate <= base {
		t.Errorf("payment should increase with rate: %.4f <= %.4f", higherRate, base)
	}
	if higherPrincipal := CalculateMonthlyPayment(300001, 5.0, 25); higherPrincipal <= base {
		t.Errorf("payment should increase with principal: %.4f <= %.4f", higherPrincipal, base)
	}
	if longer := CalculateMonthlyPayment(300000, 5.0, 26); longer >= base {
		t.Errorf("payment should decrease with amortization: %.4f >= %.4f", longer, base)
	}

	previous := 0.0
	for rate := 0.0; rate <= 12.0; rate += 0.25 {
		payment := CalculateMonthlyPayment(300000, rate, 25)
		if payment <= previous {
			t.Fatalf("payment not strictly increasing at rate %.2f: %.4f <= %.4f", rate, payment, previous)
		}
		previous = payment
	}
}

func TestStressTestRate(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		contract float64
		expected float64
	}{
		{5.5, 7.5},
		{3.0, 5.25},
		{3.25, 5.25},
		{3.26, 5.26},
		{0, 5.25},
		{9.0, 11.0},
	}

	for _, tt := range tests {
		got := rules.StressTestRate(tt.contract)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("StressTestRate(%v) = %v, expected %v", tt.contract, got, tt.expected)
		}
		if got < tt.contract || got < rules.StressTestFloor {
			t.Errorf("StressTestRate(%v) = %v violates contract/floor lower bounds", tt.contract, got)
		}
	}
}

func TestMinimumDownPayment(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name          string
		price         float64
		ownerOccupied bool
		expected      float64
	}{
		{"Owner-occupied under first tier", 400000, true, 20000},
		{"Owner-occupied at first tier", 500000, true, 25000},
		{"Owner-occupied blended tier", 700000, true, 45000},
		{"Owner-occupied at ceiling", 1500000, true, 300000},
		{"Investment", 299900, false, 59980},
		{"Zero price", 0, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.MinimumDownPayment(tt.price, tt.ownerOccupied)
			if math.Abs(got-tt.expected) > 0.005 {
				t.Errorf("MinimumDownPayment(%v, %v) = %.2f, expected %.2f", tt.price, tt.ownerOccupied, got, tt.expected)
			}
		})
	}
}

func TestMaximumLoanToValue(t *testing.T) {
	rules := DefaultRules()
	if got := rules.MaximumLoanToValue(400000, true); math.Abs(got-0.95) > 1e-9 {
		t.Errorf("owner-occupied max LTV = %v, expected 0.95", got)
	}
	if got := rules.MaximumLoanToValue(400000, false); math.Abs(got-0.80) > 1e-9 {
		t.Errorf("investment max LTV = %v, expected 0.80", got)
	}
	if got := rules.MaximumLoanToValue(2000000, true); math.Abs(got-0.80) > 1e-9 {
		t.Errorf("uninsurable price max LTV = %v, expected 0.80", got)
	}
}

func TestPremiumRate(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name         string
		downPayment  float64
		amortization int
		expectedRate float64
		expectedOK   bool
	}{
		{"Five percent", 5, 25, 4.00, true},
		{"Just under ten", 9.99, 25, 4.00, true},
		{"Ten percent", 10, 25, 3.10, true},
		{"Fifteen percent", 15, 25, 2.80, true},
		{"Band boundary 19.99", 19.99, 25, 2.80, true},
		{"Twenty percent", 20, 25, 0, true},
		{"Thirty percent", 30, 25, 0, true},
		{"Extended amortization surcharge", 10, 30, 3.30, true},
		{"Below minimum", 3, 25, 4.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, ok := rules.PremiumRate(tt.downPayment, tt.amortization)
			if math.Abs(rate-tt.expectedRate) > 1e-9 || ok != tt.expectedOK {
				t.Errorf("PremiumRate(%v, %d) = (%v, %v), expected (%v, %v)",
					tt.downPayment, tt.amortization, rate, ok, tt.expectedRate, tt.expectedOK)
			}
		})
	}
}

func TestInsurancePremiumZeroIffConventional(t *testing.T) {
	rules := DefaultRules()
	price := 400000.0
	for dp := 5.0; dp <= 40.0; dp += 0.01 {
		loan := price * (1 - dp/100)
		premium, _, _ := rules.InsurancePremium(dp, loan, 25)
		if dp >= 20 && premium != 0 {
			t.Fatalf("expected no premium at %.2f%% down, got %.2f", dp, premium)
		}
		if dp < 20 && premium <= 0 {
			t.Fatalf("expected a premium at %.2f%% down, got %.2f", dp, premium)
		}
	}
}

func TestInsurancePremiumAmount(t *testing.T) {
	rules := DefaultRules()
	premium, rate, ok := rules.InsurancePremium(10, 360000, 25)
	if !ok || rate != 3.10 {
		t.Fatalf("unexpected rate %v ok=%v", rate, ok)
	}
	if math.Abs(premium-11160) > 0.005 {
		t.Errorf("InsurancePremium() = %.2f, expected 11160.00", premium)
	}
}
