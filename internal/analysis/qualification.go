package analysis

import (
	"fmt"

	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// Qualify computes the borrower's gross and total debt service ratios at the
// stress test payment. It shares nothing with the cash flow path beyond the
// financing result.
func Qualify(in deal.NormalizedInputs, financing deal.FinancingResult, borrower deal.Borrower) deal.QualificationResult {
	heating := constants.DefaultHeatingMonthly
	if borrower.HeatingMonthly != nil {
		heating = *borrower.HeatingMonthly
	}

	housing := financing.StressTestPayment +
		mathutil.Monthly(in.PropertyTaxAnnual) +
		heating +
		constants.CondoFeeQualifyingShare*in.HOACondoFeesMonthly

	result := deal.QualificationResult{
		StressTestPayment: financing.StressTestPayment,
		HousingCosts:      housing,
		MaxGDS:            constants.MaxGDSPercent,
		MaxTDS:            constants.MaxTDSPercent,
	}

	if borrower.GrossMonthlyIncome <= 0 {
		result.Warnings = append(result.Warnings, "GDS and TDS are undefined without gross monthly income")
		return result
	}

	gds := mathutil.CalculatePercentage(housing, borrower.GrossMonthlyIncome)
	tds := mathutil.CalculatePercentage(housing+borrower.OtherMonthlyDebts, borrower.GrossMonthlyIncome)
	result.GDS = &gds
	result.TDS = &tds
	result.Qualifies = gds <= result.MaxGDS && tds <= result.MaxTDS

	if gds > result.MaxGDS {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("GDS of %s exceeds the %s limit", format.Percent(gds, 1), format.Percent(result.MaxGDS, 0)))
	}
	if tds > result.MaxTDS {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("TDS of %s exceeds the %s limit", format.Percent(tds, 1), format.Percent(result.MaxTDS, 0)))
	}
	return result
}
