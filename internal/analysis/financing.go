package analysis

import (
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// ltvTolerance absorbs float noise when comparing loan-to-value to its limit.
const ltvTolerance = 1e-9

// CalculateFinancing sizes the mortgage. The premium is added to the
// principal; the stress test payment is used only for qualification.
func CalculateFinancing(rules loans.Rules, in deal.NormalizedInputs, acquisition deal.AcquisitionResult) deal.FinancingResult {
	price := in.PurchasePrice
	baseLoan := price - in.DownPaymentAmount
	principal := baseLoan + acquisition.MortgageInsurancePremium
	stressRate := rules.StressTestRate(in.InterestRate)

	result := deal.FinancingResult{
		BaseLoan:           baseLoan,
		MortgagePrincipal:  principal,
		InterestRate:       in.InterestRate,
		AmortizationYears:  in.AmortizationYears,
		MonthlyPayment:     loans.CalculateMonthlyPayment(principal, in.InterestRate, in.AmortizationYears),
		StressTestRate:     stressRate,
		StressTestPayment:  loans.CalculateMonthlyPayment(principal, stressRate, in.AmortizationYears),
		MaximumLoanToValue: rules.MaximumLoanToValue(price, in.OwnerOccupied),
	}
	result.LoanToValue, _ = mathutil.SafeRatio(principal, price)
	result.BaseLoanToValue, _ = mathutil.SafeRatio(baseLoan, price)
	result.ExceedsMaximumLTV = result.BaseLoanToValue > result.MaximumLoanToValue+ltvTolerance
	return result
}
