package analysis

import (
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// EffectiveGrossIncome is rent net of vacancy plus other income, monthly.
func EffectiveGrossIncome(in deal.NormalizedInputs) float64 {
	return in.MonthlyRent*(1-in.VacancyRate/100) + in.OtherIncome
}

// CalculateOperatingExpenses itemizes the monthly operating costs. Management
// and maintenance are charged on scheduled rent, not collected rent.
func CalculateOperatingExpenses(in deal.NormalizedInputs) deal.OperatingExpenses {
	expenses := deal.OperatingExpenses{
		PropertyTax:        mathutil.Monthly(in.PropertyTaxAnnual),
		Insurance:          mathutil.Monthly(in.InsuranceAnnual),
		Utilities:          in.UtilitiesMonthly,
		HOACondoFees:       in.HOACondoFeesMonthly,
		Other:              in.OtherExpensesMonthly,
		PropertyManagement: mathutil.ApplyPercentage(in.MonthlyRent, in.PropertyManagementPercent),
		Maintenance:        mathutil.ApplyPercentage(in.MonthlyRent, in.MaintenancePercent),
	}
	expenses.Total = expenses.PropertyTax + expenses.Insurance + expenses.Utilities +
		expenses.HOACondoFees + expenses.Other + expenses.PropertyManagement + expenses.Maintenance
	return expenses
}
