// Package analysis computes a DealAnalysis from normalized inputs: the cost
// of acquisition, the mortgage, operating cash flow, return metrics and the
// composite score.
package analysis

import (
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/landtransfer"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
)

// CalculateLandTransferTax applies the provincial schedule and, where the city
// levies one, the municipal schedule to the purchase price.
func CalculateLandTransferTax(tables reference.Provider, province, city string, price float64, firstTimeBuyer bool) deal.LandTransferTax {
	schedule, _ := tables.ProvincialSchedule(province)
	provincial := schedule.Calculate(price, firstTimeBuyer)
	results := []landtransfer.Result{provincial}

	tax := deal.LandTransferTax{Provincial: provincial.Net, Rebate: provincial.Rebate}
	if municipal, ok := tables.MunicipalSchedule(city); ok {
		m := municipal.Calculate(price, firstTimeBuyer)
		results = append(results, m)
		tax.Municipal = m.Net
		tax.Rebate = mathutil.Round(tax.Rebate + m.Rebate)
	}
	tax.Total = landtransfer.Total(results...)
	tax.Jurisdictions = results
	return tax
}

// CalculateRenovationRange prices the condition's low, mid and high tiers for
// the floor area. An override collapses the range onto the override.
func CalculateRenovationRange(tables reference.Provider, in deal.NormalizedInputs) deal.RenovationRange {
	if in.RenovationOverride {
		return deal.RenovationRange{Low: in.RenovationCost, Mid: in.RenovationCost, High: in.RenovationCost}
	}
	tier, _ := tables.Renovation(in.PropertyCondition)
	return deal.RenovationRange{
		Low:  mathutil.Round(tier.Low * in.SquareFeet),
		Mid:  mathutil.Round(tier.Mid * in.SquareFeet),
		High: mathutil.Round(tier.High * in.SquareFeet),
	}
}

// CalculateAcquisition returns the cash needed to close, the default
// insurance premium capitalized into the mortgage, and whether the down
// payment conforms to the federal minimums.
func CalculateAcquisition(tables reference.Provider, in deal.NormalizedInputs) deal.AcquisitionResult {
	rules := tables.MortgageRules()
	price := in.PurchasePrice

	result := deal.AcquisitionResult{
		LandTransferTax:    CalculateLandTransferTax(tables, in.Province, in.City, price, in.FirstTimeBuyer),
		MinimumDownPayment: mathutil.Round(rules.MinimumDownPayment(price, in.OwnerOccupied)),
		DownPaymentAmount:  in.DownPaymentAmount,
		RenovationCost:     in.RenovationCost,
		RenovationRange:    CalculateRenovationRange(tables, in),
	}
	result.DownPaymentBelowMinimum = in.DownPaymentAmount < result.MinimumDownPayment &&
		!mathutil.IsZero(result.MinimumDownPayment-in.DownPaymentAmount)

	baseLoan := price - in.DownPaymentAmount
	result.InsuranceRequired = baseLoan > 0 && rules.RequiresInsurance(in.DownPaymentPercent)
	if result.InsuranceRequired {
		premium, rate, insurable := rules.InsurancePremium(in.DownPaymentPercent, baseLoan, in.AmortizationYears)
		result.MortgageInsurancePremium = premium
		result.PremiumRatePercent = rate
		result.InsuranceUnavailable = !insurable || !in.OwnerOccupied || price >= rules.InsuredPriceCeiling
		result.PremiumSalesTax = mathutil.Round(mathutil.ApplyPercentage(premium, tables.PremiumSalesTaxPercent(in.Province)))
	}

	fees := tables.ClosingCosts()
	closing := deal.ClosingCosts{
		LandTransferTax:   result.LandTransferTax.Total,
		PremiumSalesTax:   result.PremiumSalesTax,
		LegalFees:         fees.LegalFees,
		Inspection:        fees.Inspection,
		Appraisal:         fees.Appraisal,
		TitleInsurance:    fees.TitleInsurance,
		OtherClosingCosts: in.OtherClosingCosts,
	}
	closing.Total = mathutil.Round(closing.LandTransferTax + closing.PremiumSalesTax + fees.Total() + closing.OtherClosingCosts)

	result.ClosingCosts = closing
	result.ClosingCostsTotal = closing.Total
	result.TotalAcquisitionCost = mathutil.Round(in.DownPaymentAmount + closing.Total + in.RenovationCost)
	return result
}
