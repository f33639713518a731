package analysis

import (
	"fmt"
	"math"

	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
)

// Component weights; they sum to 100.
const (
	WeightCashOnCash      = 30
	WeightCapRateSpread   = 25
	WeightDSCR            = 25
	WeightCashFlowPerUnit = 20
)

// step maps values below Below to Score.
type step struct {
	Below float64
	Score int
}

var (
	cashOnCashSteps      = []step{{0, 0}, {4, 25}, {8, 50}, {12, 75}}
	capRateSpreadSteps   = []step{{-2, 0}, {-1, 25}, {0, 50}, {1, 75}}
	dscrSteps            = []step{{1.0, 0}, {1.1, 30}, {1.2, 60}, {1.3, 80}}
	cashFlowPerUnitSteps = []step{{-200, 0}, {0, 20}, {100, 50}, {300, 75}}
)

// gradeBands partition [0, 100]; the first band whose floor the score reaches wins.
var gradeBands = []struct {
	Floor int
	Grade string
}{
	{80, "A"},
	{65, "B"},
	{50, "C"},
	{35, "D"},
	{0, "F"},
}

func stepScore(value float64, steps []step) int {
	for _, s := range steps {
		if value < s.Below {
			return s.Score
		}
	}
	return 100
}

// Grade returns the letter grade for a 0-100 score.
func Grade(score int) string {
	for _, band := range gradeBands {
		if score >= band.Floor {
			return band.Grade
		}
	}
	return "F"
}

// Scorecard is everything the scoring engine reads.
type Scorecard struct {
	Inputs         deal.NormalizedInputs
	Acquisition    deal.AcquisitionResult
	Financing      deal.FinancingResult
	CashFlow       deal.CashFlowResult
	Metrics        deal.MetricsResult
	Benchmark      reference.Benchmark
	BenchmarkLabel string
}

// Score grades a deal. It reads only the computed results and the benchmark,
// so identical scorecards always produce identical results.
func Score(card Scorecard) deal.ScoringResult {
	m := card.Metrics
	spread := m.CapRate - card.Benchmark.CapRate

	sub := deal.SubScores{
		CapRateSpread:   stepScore(spread, capRateSpreadSteps),
		CashFlowPerUnit: stepScore(card.CashFlow.MonthlyNetPerUnit, cashFlowPerUnitSteps),
	}
	if m.CashOnCashReturn != nil {
		sub.CashOnCash = stepScore(*m.CashOnCashReturn, cashOnCashSteps)
	}
	switch {
	case m.DSCR != nil:
		sub.DSCR = stepScore(*m.DSCR, dscrSteps)
	case card.Financing.MonthlyPayment == 0:
		// No mortgage, so there is no debt service to cover.
		sub.DSCR = 100
	}

	weighted := WeightCashOnCash*sub.CashOnCash +
		WeightCapRateSpread*sub.CapRateSpread +
		WeightDSCR*sub.DSCR +
		WeightCashFlowPerUnit*sub.CashFlowPerUnit
	total := int(math.Round(float64(weighted) / 100))

	return deal.ScoringResult{
		TotalScore: total,
		Grade:      Grade(total),
		SubScores:  sub,
		Reasons:    reasons(card, spread),
		Warnings:   riskFlags(card, spread),
	}
}

func reasons(card Scorecard, spread float64) []string {
	m := card.Metrics
	var out []string

	if m.CashOnCashReturn != nil && *m.CashOnCashReturn >= cashOnCashSteps[2].Below {
		out = append(out, fmt.Sprintf("Cash-on-cash return of %s", format.Percent(*m.CashOnCashReturn, 1)))
	}
	switch {
	case spread > 0:
		out = append(out, fmt.Sprintf("Cap rate of %s exceeds %s benchmark of %s",
			format.Percent(m.CapRate, 2), card.BenchmarkLabel, format.Percent(card.Benchmark.CapRate, 2)))
	case spread == 0:
		out = append(out, fmt.Sprintf("Cap rate matches %s benchmark of %s",
			card.BenchmarkLabel, format.Percent(card.Benchmark.CapRate, 2)))
	}
	if m.DSCR != nil && *m.DSCR >= dscrSteps[2].Below {
		out = append(out, fmt.Sprintf("DSCR of %s comfortably covers debt service", format.Ratio(*m.DSCR)))
	}
	if card.CashFlow.MonthlyNet > 0 {
		out = append(out, fmt.Sprintf("Positive cash flow of %s per month (%s per unit)",
			format.Currency(card.CashFlow.MonthlyNet), format.Currency(card.CashFlow.MonthlyNetPerUnit)))
	}
	if card.Benchmark.RentToPrice > 0 && m.RentToPrice >= card.Benchmark.RentToPrice {
		out = append(out, fmt.Sprintf("Rent-to-price of %s meets the %s benchmark of %s",
			format.Percent(m.RentToPrice, 2), card.BenchmarkLabel, format.Percent(card.Benchmark.RentToPrice, 2)))
	}
	return out
}

func riskFlags(card Scorecard, spread float64) []string {
	m := card.Metrics
	var out []string

	if card.CashFlow.MonthlyNet < 0 {
		out = append(out, fmt.Sprintf("Negative cash flow of %s per month", format.Currency(card.CashFlow.MonthlyNet)))
	}
	if m.DSCR != nil && *m.DSCR < 1 {
		out = append(out, fmt.Sprintf("DSCR of %s is below 1.00x; rent does not cover the mortgage", format.Ratio(*m.DSCR)))
	}
	if m.StressDSCR != nil && *m.StressDSCR < 1 && (m.DSCR == nil || *m.DSCR >= 1) {
		out = append(out, fmt.Sprintf("DSCR falls to %s at the qualifying rate of %s",
			format.Ratio(*m.StressDSCR), format.Percent(card.Financing.StressTestRate, 2)))
	}
	if spread < capRateSpreadSteps[1].Below {
		out = append(out, fmt.Sprintf("Cap rate of %s trails %s benchmark of %s",
			format.Percent(m.CapRate, 2), card.BenchmarkLabel, format.Percent(card.Benchmark.CapRate, 2)))
	}
	if card.Financing.ExceedsMaximumLTV {
		out = append(out, fmt.Sprintf("Loan-to-value of %s exceeds the %s maximum",
			format.Percent(card.Financing.BaseLoanToValue*100, 1), format.Percent(card.Financing.MaximumLoanToValue*100, 1)))
	}
	if card.Acquisition.DownPaymentBelowMinimum {
		out = append(out, fmt.Sprintf("Down payment of %s is below the %s minimum",
			format.Currency(card.Acquisition.DownPaymentAmount), format.Currency(card.Acquisition.MinimumDownPayment)))
	}
	if card.Acquisition.InsuranceUnavailable {
		out = append(out, "Mortgage default insurance is not available for this purchase")
	}
	return out
}
