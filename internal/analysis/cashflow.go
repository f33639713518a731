package analysis

import (
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// CalculateCashFlow subtracts the contract-rate mortgage payment from NOI.
func CalculateCashFlow(in deal.NormalizedInputs, financing deal.FinancingResult) deal.CashFlowResult {
	expenses := CalculateOperatingExpenses(in)
	egi := EffectiveGrossIncome(in)
	noi := egi - expenses.Total
	net := noi - financing.MonthlyPayment

	units := in.Units
	if units < 1 {
		units = 1
	}

	return deal.CashFlowResult{
		GrossRent:            in.MonthlyRent,
		VacancyLoss:          mathutil.ApplyPercentage(in.MonthlyRent, in.VacancyRate),
		OtherIncome:          in.OtherIncome,
		EffectiveGrossIncome: egi,
		OperatingExpenses:    expenses,
		NOIMonthly:           noi,
		DebtService:          financing.MonthlyPayment,
		MonthlyNet:           net,
		AnnualNet:            mathutil.Annual(net),
		MonthlyNetPerUnit:    net / float64(units),
	}
}
