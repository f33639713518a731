package analysis

import (
	"strings"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
)

func TestGrade(t *testing.T) {
	tests := []struct {
		score    int
		expected string
	}{
		{100, "A"}, {80, "A"}, {79, "B"}, {65, "B"}, {64, "C"},
		{50, "C"}, {49, "D"}, {35, "D"}, {34, "F"}, {0, "F"},
	}

	for _, tt := range tests {
		if got := Grade(tt.score); got != tt.expected {
			t.Errorf("Grade(%d) = %s, expected %s", tt.score, got, tt.expected)
		}
	}
}

func TestStepScores(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		steps    []step
		expected int
	}{
		{"Negative cash-on-cash", -1, cashOnCashSteps, 0},
		{"Cash-on-cash at 4", 4, cashOnCashSteps, 50},
		{"Cash-on-cash at 12", 12, cashOnCashSteps, 100},
		{"Spread far below", -2.5, capRateSpreadSteps, 0},
		{"Spread slightly below", -0.5, capRateSpreadSteps, 50},
		{"Spread at par", 0, capRateSpreadSteps, 75},
		{"DSCR 0.99", 0.99, dscrSteps, 0},
		{"DSCR 1.15", 1.15, dscrSteps, 60},
		{"DSCR 1.3", 1.3, dscrSteps, 100},
		{"Deep negative cash flow", -250, cashFlowPerUnitSteps, 0},
		{"Small positive cash flow", 50, cashFlowPerUnitSteps, 50},
		{"Strong cash flow", 300, cashFlowPerUnitSteps, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stepScore(tt.value, tt.steps); got != tt.expected {
				t.Errorf("stepScore(%v) = %d, expected %d", tt.value, got, tt.expected)
			}
		})
	}
}

func scorecard(coc, capRate, dscr, cashFlow float64) Scorecard {
	return Scorecard{
		Metrics: deal.MetricsResult{
			CapRate:          capRate,
			CashOnCashReturn: &coc,
			DSCR:             &dscr,
			StressDSCR:       &dscr,
		},
		CashFlow:       deal.CashFlowResult{MonthlyNet: cashFlow, MonthlyNetPerUnit: cashFlow},
		Benchmark:      reference.Benchmark{CapRate: 5, RentToPrice: 0.45},
		BenchmarkLabel: "Hamilton",
	}
}

func gradeRank(grade string) int {
	return strings.Index("FDCBA", grade)
}

func TestScoreMonotonic(t *testing.T) {
	previous := -1
	for coc := -10.0; coc <= 20; coc += 0.5 {
		rank := gradeRank(Score(scorecard(coc, 5, 1.15, 50)).Grade)
		if rank < previous {
			t.Errorf("grade fell as cash-on-cash rose to %.1f", coc)
		}
		previous = rank
	}

	previous = -1
	for capRate := 0.0; capRate <= 10; capRate += 0.25 {
		rank := gradeRank(Score(scorecard(6, capRate, 1.15, 50)).Grade)
		if rank < previous {
			t.Errorf("grade fell as cap rate rose to %.2f", capRate)
		}
		previous = rank
	}
}

func TestScoreStrongDeal(t *testing.T) {
	result := Score(scorecard(14, 6.5, 1.45, 420))

	if result.TotalScore != 100 || result.Grade != "A" {
		t.Errorf("score = %d %s, expected 100 A", result.TotalScore, result.Grade)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	expected := []string{
		"Cash-on-cash return of 14.0%",
		"Cap rate of 6.50% exceeds Hamilton benchmark of 5.00%",
		"DSCR of 1.45x comfortably covers debt service",
		"Positive cash flow of $420.00 per month",
	}
	if len(result.Reasons) != len(expected) {
		t.Fatalf("reasons = %v", result.Reasons)
	}
	for i, fragment := range expected {
		if !strings.HasPrefix(result.Reasons[i], fragment) {
			t.Errorf("reason %d = %q, expected prefix %q", i, result.Reasons[i], fragment)
		}
	}
}

func TestScoreUndefinedMetrics(t *testing.T) {
	tests := []struct {
		name           string
		monthlyPayment float64
		expectedDSCR   int
		expectedTotal  int
	}{
		// spread 0 -> 75, cash flow 0 -> 50
		{name: "All cash purchase", monthlyPayment: 0, expectedDSCR: 100, expectedTotal: 54},
		{name: "Undefined with debt service", monthlyPayment: 1200, expectedDSCR: 0, expectedTotal: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := scorecard(0, 5, 0, 0)
			card.Metrics.CashOnCashReturn = nil
			card.Metrics.DSCR = nil
			card.Metrics.StressDSCR = nil
			card.Financing.MonthlyPayment = tt.monthlyPayment

			result := Score(card)
			if result.SubScores.CashOnCash != 0 {
				t.Errorf("undefined cash-on-cash must score zero: %+v", result.SubScores)
			}
			if result.SubScores.DSCR != tt.expectedDSCR {
				t.Errorf("DSCR sub-score = %d, expected %d", result.SubScores.DSCR, tt.expectedDSCR)
			}
			if result.TotalScore != tt.expectedTotal {
				t.Errorf("TotalScore = %d, expected %d", result.TotalScore, tt.expectedTotal)
			}
		})
	}
}

// A debt-free deal with solid returns should not be marked down for lacking a
// mortgage.
func TestScoreAllCashDeal(t *testing.T) {
	analyzer := NewAnalyzer(nil, reference.Default(), Options{})

	in := portColborne()
	in.DownPaymentPercent = deal.Float(100)
	result, err := analyzer.Analyze(in)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if result.Financing.MonthlyPayment != 0 || result.Metrics.DSCR != nil {
		t.Fatalf("expected no mortgage, got payment %.2f", result.Financing.MonthlyPayment)
	}
	if result.Scoring.SubScores.DSCR != 100 {
		t.Errorf("DSCR sub-score = %d, expected 100", result.Scoring.SubScores.DSCR)
	}
}
