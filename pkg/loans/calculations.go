// Package loans provides Canadian mortgage calculations: amortizing payments
// under semi-annual compounding, the minimum qualifying rate, minimum down
// payments and mortgage default insurance premiums.
package loans

import (
	"math"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
)

// PeriodicRate converts a nominal annual rate (percent) compounded
// semi-annually, as Canadian fixed-rate mortgages are quoted, into the
// equivalent effective monthly rate.
func PeriodicRate(annualInterestRate float64) float64 {
	if annualInterestRate == 0 {
		return 0
	}
	semiAnnualRate := annualInterestRate / (constants.PercentageMultiplier * constants.SemiAnnualPeriodsPerYear)
	exponent := float64(constants.SemiAnnualPeriodsPerYear) / float64(constants.MonthsPerYear)
	return math.Pow(1.00+semiAnnualRate, exponent) - 1.00
}

// CalculateMonthlyPayment calculates the monthly payment for a mortgage using the standard amortization formula.
func CalculateMonthlyPayment(principal, annualInterestRate float64, amortizationYears int) float64 {
	termMonths := amortizationYears * constants.MonthsPerYear
	if termMonths <= 0 || principal <= 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	periodicInterestRate := PeriodicRate(annualInterestRate)
	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicInterestRate / discountFactor
}

// PremiumBand is a mortgage default insurance premium rate that applies to
// down payments in [MinDownPaymentPercent, MaxDownPaymentPercent).
type PremiumBand struct {
	MinDownPaymentPercent float64 `yaml:"minDownPaymentPercent" json:"min_down_payment_percent"`
	MaxDownPaymentPercent float64 `yaml:"maxDownPaymentPercent" json:"max_down_payment_percent"`
	RatePercent           float64 `yaml:"ratePercent" json:"rate_percent"`
}

// Contains reports whether the down payment falls inside the band.
func (b PremiumBand) Contains(downPaymentPercent float64) bool {
	return downPaymentPercent >= b.MinDownPaymentPercent && downPaymentPercent < b.MaxDownPaymentPercent
}

// Rules holds the regulatory parameters the calculations depend on.
type Rules struct {
	StressTestBuffer                    float64       `yaml:"stressTestBuffer" json:"stress_test_buffer"`
	StressTestFloor                     float64       `yaml:"stressTestFloor" json:"stress_test_floor"`
	InsuranceThresholdPercent           float64       `yaml:"insuranceThresholdPercent" json:"insurance_threshold_percent"`
	MinimumDownPaymentPercent           float64       `yaml:"minimumDownPaymentPercent" json:"minimum_down_payment_percent"`
	FirstTierPriceLimit                 float64       `yaml:"firstTierPriceLimit" json:"first_tier_price_limit"`
	SecondTierDownPaymentPercent        float64       `yaml:"secondTierDownPaymentPercent" json:"second_tier_down_payment_percent"`
	InsuredPriceCeiling                 float64       `yaml:"insuredPriceCeiling" json:"insured_price_ceiling"`
	InvestmentMinimumDownPaymentPercent float64       `yaml:"investmentMinimumDownPaymentPercent" json:"investment_minimum_down_payment_percent"`
	ExtendedAmortizationYears           int           `yaml:"extendedAmortizationYears" json:"extended_amortization_years"`
	ExtendedAmortizationSurcharge       float64       `yaml:"extendedAmortizationSurcharge" json:"extended_amortization_surcharge"`
	PremiumBands                        []PremiumBand `yaml:"premiumBands" json:"premium_bands"`
}

// DefaultRules returns the federal rules in force for the bundled reference tables.
func DefaultRules() Rules {
	return Rules{
		StressTestBuffer:                    constants.StressTestBuffer,
		StressTestFloor:                     constants.StressTestFloor,
		InsuranceThresholdPercent:           constants.InsuranceThresholdPercent,
		MinimumDownPaymentPercent:           constants.MinimumInsuredDownPaymentPercent,
		FirstTierPriceLimit:                 constants.FirstTierPriceLimit,
		SecondTierDownPaymentPercent:        constants.SecondTierDownPaymentPercent,
		InsuredPriceCeiling:                 constants.InsuredPriceCeiling,
		InvestmentMinimumDownPaymentPercent: constants.InsuranceThresholdPercent,
		ExtendedAmortizationYears:           constants.ExtendedAmortizationYears,
		ExtendedAmortizationSurcharge:       0.20,
		PremiumBands: []PremiumBand{
			{MinDownPaymentPercent: 5, MaxDownPaymentPercent: 10, RatePercent: 4.00},
			{MinDownPaymentPercent: 10, MaxDownPaymentPercent: 15, RatePercent: 3.10},
			{MinDownPaymentPercent: 15, MaxDownPaymentPercent: 20, RatePercent: 2.80},
		},
	}
}

// StressTestRate returns the minimum qualifying rate for a contract rate:
// the greater of the contract rate plus the buffer and the floor.
func (r Rules) StressTestRate(contractRate float64) float64 {
	return math.Max(contractRate+r.StressTestBuffer, r.StressTestFloor)
}

// MinimumDownPayment returns the smallest down payment allowed for the price.
// Owner-occupied purchases follow the tiered insured minimum; investment
// purchases cannot be insured and need the conventional threshold.
func (r Rules) MinimumDownPayment(price float64, ownerOccupied bool) float64 {
	if price <= 0 {
		return 0
	}
	if !ownerOccupied || price >= r.InsuredPriceCeiling {
		return mathutil.ApplyPercentage(price, r.investmentMinimum())
	}
	if price <= r.FirstTierPriceLimit {
		return mathutil.ApplyPercentage(price, r.MinimumDownPaymentPercent)
	}
	return mathutil.ApplyPercentage(r.FirstTierPriceLimit, r.MinimumDownPaymentPercent) +
		mathutil.ApplyPercentage(price-r.FirstTierPriceLimit, r.SecondTierDownPaymentPercent)
}

// MaximumLoanToValue returns the largest base loan-to-value ratio (0-1,
// premium excluded) allowed for the price and use.
func (r Rules) MaximumLoanToValue(price float64, ownerOccupied bool) float64 {
	if !ownerOccupied || price >= r.InsuredPriceCeiling {
		return 1 - r.investmentMinimum()/constants.PercentageMultiplier
	}
	return 1 - r.MinimumDownPaymentPercent/constants.PercentageMultiplier
}

// RequiresInsurance reports whether a down payment needs default insurance.
func (r Rules) RequiresInsurance(downPaymentPercent float64) bool {
	return downPaymentPercent < r.InsuranceThresholdPercent
}

// PremiumRate returns the premium rate (percent of the insured loan) for a
// down payment. The boolean is false when the down payment is below every
// band and the loan is uninsurable; the highest band rate is still returned so
// callers that tolerate non-conforming deals can price it.
func (r Rules) PremiumRate(downPaymentPercent float64, amortizationYears int) (float64, bool) {
	if !r.RequiresInsurance(downPaymentPercent) {
		return 0, true
	}

	surcharge := 0.0
	if r.ExtendedAmortizationYears > 0 && amortizationYears > r.ExtendedAmortizationYears {
		surcharge = r.ExtendedAmortizationSurcharge
	}

	highest := 0.0
	for _, band := range r.PremiumBands {
		if band.Contains(downPaymentPercent) {
			return band.RatePercent + surcharge, true
		}
		if band.RatePercent > highest {
			highest = band.RatePercent
		}
	}
	return highest + surcharge, false
}

// InsurancePremium returns the premium, rounded to cents, for insuring the
// base loan. The boolean mirrors PremiumRate.
func (r Rules) InsurancePremium(downPaymentPercent, insuredLoan float64, amortizationYears int) (premium, ratePercent float64, ok bool) {
	ratePercent, ok = r.PremiumRate(downPaymentPercent, amortizationYears)
	if ratePercent == 0 || insuredLoan <= 0 {
		return 0, ratePercent, ok
	}
	return mathutil.Round(mathutil.ApplyPercentage(insuredLoan, ratePercent)), ratePercent, ok
}

func (r Rules) investmentMinimum() float64 {
	if r.InvestmentMinimumDownPaymentPercent > 0 {
		return r.InvestmentMinimumDownPaymentPercent
	}
	return r.InsuranceThresholdPercent
}
