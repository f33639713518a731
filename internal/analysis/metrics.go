package analysis

import (
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// CalculateMetrics derives the return metrics. Ratios with a zero denominator
// are left nil and explained in the returned warnings.
func CalculateMetrics(in deal.NormalizedInputs, acquisition deal.AcquisitionResult, financing deal.FinancingResult, cashFlow deal.CashFlowResult) (deal.MetricsResult, []string) {
	var warnings []string

	metrics := deal.MetricsResult{
		CapRate:      mathutil.CalculatePercentage(mathutil.Annual(cashFlow.NOIMonthly), in.PurchasePrice),
		RentToPrice:  mathutil.CalculatePercentage(in.MonthlyRent, in.PurchasePrice),
		CashInvested: acquisition.DownPaymentAmount + acquisition.ClosingCostsTotal + acquisition.RenovationCost,
	}

	if in.MonthlyRent == 0 && in.OtherIncome == 0 {
		warnings = append(warnings, "No rental income provided; income-based metrics reflect zero revenue")
	}

	if coc, ok := mathutil.SafeRatio(cashFlow.AnnualNet, metrics.CashInvested); ok {
		coc *= constants.PercentageMultiplier
		metrics.CashOnCashReturn = &coc
	} else {
		warnings = append(warnings, "Cash-on-cash return is undefined because no cash is invested")
	}

	if dscr, ok := mathutil.SafeRatio(cashFlow.NOIMonthly, financing.MonthlyPayment); ok {
		metrics.DSCR = &dscr
	} else {
		warnings = append(warnings, "DSCR is undefined because there is no debt service")
	}
	if stress, ok := mathutil.SafeRatio(cashFlow.NOIMonthly, financing.StressTestPayment); ok {
		metrics.StressDSCR = &stress
	}

	return metrics, warnings
}
