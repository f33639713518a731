package deal

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/mathutil"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"go.uber.org/zap"
)

// Normalizer resolves partial PropertyInputs against the reference tables.
type Normalizer struct {
	logger *zap.Logger
	tables reference.Provider
}

// NewNormalizer creates a Normalizer. A nil logger is replaced with a no-op logger.
func NewNormalizer(logger *zap.Logger, tables reference.Provider) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger, tables: tables}
}

// CanonicalName turns a reference key such as "Single-Family" into the
// identifier form "single_family".
func CanonicalName(name string) string {
	return strings.ReplaceAll(reference.Key(name), " ", "_")
}

// Normalize fills defaults, clamps percentages and validates the inputs. It
// returns the warnings produced by clamps and fallbacks, or ValidationErrors
// listing every field problem found.
func (n *Normalizer) Normalize(in PropertyInputs) (NormalizedInputs, []string, error) {
	var (
		out      NormalizedInputs
		warnings []string
		problems ValidationErrors
	)
	defaults := n.tables.FinancingDefaults()
	rules := n.tables.MortgageRules()

	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	out.Address = strings.TrimSpace(in.Address)
	if out.Address == "" {
		problems.Add("address", "is required")
	}
	out.City = strings.TrimSpace(in.City)
	if out.City == "" {
		problems.Add("city", "is required")
	} else if _, ok := n.tables.Benchmark(out.City); !ok {
		warn("No market benchmark for %s; using the default benchmark", out.City)
	}

	if in.PurchasePrice == nil {
		problems.Add("purchase_price", "is required")
	} else if price := *in.PurchasePrice; price <= 0 || math.IsNaN(price) {
		problems.Add("purchase_price", "must be greater than zero, got %.2f", price)
	} else if price > constants.MaxInputAmount {
		problems.Add("purchase_price", "must not exceed %.0f, got %g", constants.MaxInputAmount, price)
	} else {
		out.PurchasePrice = *in.PurchasePrice
	}

	// Province
	province := strings.TrimSpace(in.Province)
	if province == "" {
		province = defaults.Province
	}
	out.Province = province
	out.ProvinceCode = reference.ProvinceCode(province)
	if _, ok := n.tables.ProvincialSchedule(province); !ok {
		if province == "" {
			warn("Province not provided; using the default land transfer schedule")
		} else {
			warn("Unknown province %q; using the default land transfer schedule", province)
		}
	}

	// Enumerations
	out.PropertyType = CanonicalName(firstNonBlank(in.PropertyType, defaults.PropertyType))
	if !n.tables.HasPropertyType(out.PropertyType) {
		problems.Add("property_type", "unknown property type %q; expected one of %s",
			in.PropertyType, strings.Join(n.tables.PropertyTypes(), ", "))
	}
	out.Strategy = Strategy(CanonicalName(firstNonBlank(in.Strategy, defaults.Strategy)))
	if !out.Strategy.Valid() {
		problems.Add("strategy", "unknown strategy %q", in.Strategy)
	}
	out.OwnerOccupied = out.Strategy.OwnerOccupied()
	out.PropertyCondition = CanonicalName(firstNonBlank(in.PropertyCondition, defaults.Condition))
	if !n.tables.HasCondition(out.PropertyCondition) {
		problems.Add("property_condition", "unknown property condition %q; expected one of %s",
			in.PropertyCondition, strings.Join(n.tables.Conditions(), ", "))
	}
	profile, _ := n.tables.ExpenseProfile(out.PropertyType)

	// Physical attributes
	out.Bedrooms = nonNegativeInt(&problems, "bedrooms", in.Bedrooms, 0)
	out.Bathrooms = nonNegative(&problems, "bathrooms", in.Bathrooms, 0)
	out.SquareFeet = nonNegative(&problems, "square_feet", in.SquareFeet, 0)
	out.YearBuilt = nonNegativeInt(&problems, "year_built", in.YearBuilt, 0)
	out.Units = profile.Units
	if in.Units != nil {
		if *in.Units < 1 {
			problems.Add("units", "must be at least 1, got %d", *in.Units)
		} else {
			out.Units = *in.Units
		}
	}
	if out.Units < 1 {
		out.Units = 1
	}

	// Financing
	out.InterestRate = clampPercent(&problems, warn, "interest_rate", in.InterestRate, defaults.InterestRate)
	out.AmortizationYears = defaults.AmortizationYears
	if in.AmortizationYears != nil {
		years := *in.AmortizationYears
		if years < constants.MinAmortizationYears || years > constants.MaxAmortizationYears {
			problems.Add("amortization_years", "must be between %d and %d, got %d",
				constants.MinAmortizationYears, constants.MaxAmortizationYears, years)
		} else {
			out.AmortizationYears = years
		}
	}
	if in.FirstTimeBuyer != nil {
		out.FirstTimeBuyer = *in.FirstTimeBuyer
	}
	out.OtherClosingCosts = nonNegative(&problems, "other_closing_costs", in.OtherClosingCosts, 0)

	// Revenue
	out.MonthlyRent = nonNegative(&problems, "monthly_rent", in.MonthlyRent, 0)
	out.OtherIncome = nonNegative(&problems, "other_income", in.OtherIncome, 0)
	out.VacancyRate = clampPercent(&problems, warn, "vacancy_rate", in.VacancyRate, profile.VacancyRate)

	// Operating expenses
	out.PropertyManagementPercent = clampPercent(&problems, warn, "property_management_percent", in.PropertyManagementPercent, profile.PropertyManagementPercent)
	out.MaintenancePercent = clampPercent(&problems, warn, "maintenance_percent", in.MaintenancePercent, profile.MaintenancePercent)
	out.UtilitiesMonthly = nonNegative(&problems, "utilities_monthly", in.UtilitiesMonthly, profile.UtilitiesMonthly)
	out.HOACondoFeesMonthly = nonNegative(&problems, "hoa_condo_fees_monthly", in.HOACondoFeesMonthly, profile.HOACondoFeesMonthly)
	out.OtherExpensesMonthly = nonNegative(&problems, "other_expenses_monthly", in.OtherExpensesMonthly, profile.OtherExpensesMonthly)
	out.PropertyTaxAnnual = nonNegative(&problems, "property_tax_annual", in.PropertyTaxAnnual,
		mathutil.Round(mathutil.ApplyPercentage(out.PurchasePrice, profile.PropertyTaxRatePercent)))
	out.InsuranceAnnual = nonNegative(&problems, "insurance_annual", in.InsuranceAnnual,
		profile.InsuranceAnnualPerUnit*float64(out.Units))

	// Down payment
	if out.PurchasePrice > 0 {
		resolveDownPayment(&out, in, rules.MinimumDownPayment(out.PurchasePrice, out.OwnerOccupied), &problems, warn)
	}

	// Renovation
	if in.RenovationCost != nil {
		out.RenovationCost = nonNegative(&problems, "renovation_cost", in.RenovationCost, 0)
		out.RenovationOverride = true
	} else if tier, _ := n.tables.Renovation(out.PropertyCondition); tier.Mid > 0 {
		if out.SquareFeet > 0 {
			out.RenovationCost = mathutil.Round(tier.Mid * out.SquareFeet)
		} else {
			warn("Renovation cost for %s condition cannot be estimated without square footage; assuming 0",
				strings.ReplaceAll(out.PropertyCondition, "_", " "))
		}
	}

	if len(problems) > 0 {
		n.logger.Debug("inputs failed validation",
			zap.String("op", "deal.Normalize"),
			zap.Strings("fields", problems.Fields()),
		)
		return NormalizedInputs{}, warnings, problems
	}

	n.logger.Debug("inputs normalized",
		zap.String("op", "deal.Normalize"),
		zap.String("address", out.Address),
		zap.String("property_type", out.PropertyType),
		zap.Int("warnings", len(warnings)),
	)
	return out, warnings, nil
}

// resolveDownPayment keeps the amount and percent consistent. A supplied
// amount takes precedence over a supplied percent; with neither, the minimum
// for the price tier is used.
func resolveDownPayment(out *NormalizedInputs, in PropertyInputs, minimum float64, problems *ValidationErrors, warn func(string, ...interface{})) {
	price := out.PurchasePrice

	switch {
	case in.DownPaymentAmount != nil:
		amount := *in.DownPaymentAmount
		if amount < 0 || math.IsNaN(amount) {
			problems.Add("down_payment_amount", "must not be negative, got %.2f", amount)
			return
		}
		if math.IsInf(amount, 0) {
			problems.Add("down_payment_amount", "is not a finite number")
			return
		}
		if amount > price {
			warn("Down payment %.2f exceeds the purchase price; clamped to %.2f", amount, price)
			amount = price
		}
		out.DownPaymentAmount = mathutil.Round(amount)
		out.DownPaymentPercent = mathutil.RoundTo(mathutil.CalculatePercentage(out.DownPaymentAmount, price), 6)

		if in.DownPaymentPercent != nil {
			implied := mathutil.ApplyPercentage(price, *in.DownPaymentPercent)
			if !mathutil.WithinTolerance(implied, out.DownPaymentAmount, constants.DownPaymentAgreementTolerance) {
				warn("down_payment_percent %.2f%% disagrees with down_payment_amount %.2f; using the amount",
					*in.DownPaymentPercent, out.DownPaymentAmount)
			}
		}
	case in.DownPaymentPercent != nil:
		pct := clampPercent(problems, warn, "down_payment_percent", in.DownPaymentPercent, 0)
		out.DownPaymentPercent = pct
		out.DownPaymentAmount = mathutil.Round(mathutil.ApplyPercentage(price, pct))
	default:
		out.DownPaymentAmount = mathutil.Round(minimum)
		out.DownPaymentPercent = mathutil.RoundTo(mathutil.CalculatePercentage(out.DownPaymentAmount, price), 6)
	}
}

// clampPercent resolves a 0-100 field, clamping out-of-range values with a warning.
func clampPercent(problems *ValidationErrors, warn func(string, ...interface{}), field string, value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		problems.Add(field, "is not a finite number")
		return fallback
	}
	clamped, moved := mathutil.Clamp(*value, 0, constants.PercentageMultiplier)
	if moved {
		warn("%s %.2f is outside [0, 100]; clamped to %.0f", field, *value, clamped)
	}
	return clamped
}

func nonNegative(problems *ValidationErrors, field string, value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	if *value < 0 || math.IsNaN(*value) {
		problems.Add(field, "must not be negative, got %.2f", *value)
		return fallback
	}
	if *value > constants.MaxInputAmount {
		problems.Add(field, "must not exceed %.0f, got %g", constants.MaxInputAmount, *value)
		return fallback
	}
	return *value
}

func nonNegativeInt(problems *ValidationErrors, field string, value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	if *value < 0 {
		problems.Add(field, "must not be negative, got %d", *value)
		return fallback
	}
	return *value
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
