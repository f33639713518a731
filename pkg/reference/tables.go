// Package reference holds the read-only lookup tables the deal analysis
// depends on: market benchmarks by city, operating expense profiles by
// property type, renovation costs by condition, land transfer tax schedules
// and the federal mortgage rules. Every table carries a "default" entry used
// when a key is unknown.
package reference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/landtransfer"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
)

// Benchmark is the market reference for a city.
type Benchmark struct {
	CapRate          float64 `yaml:"capRate" json:"cap_rate"`
	RentToPrice      float64 `yaml:"rentToPrice" json:"rent_to_price"`
	AverageDaysOnMkt int     `yaml:"averageDaysOnMarket" json:"average_days_on_market"`
}

// ExpenseProfile holds operating defaults for a property type.
type ExpenseProfile struct {
	Units                     int     `yaml:"units" json:"units"`
	VacancyRate               float64 `yaml:"vacancyRate" json:"vacancy_rate"`
	PropertyManagementPercent float64 `yaml:"propertyManagementPercent" json:"property_management_percent"`
	MaintenancePercent        float64 `yaml:"maintenancePercent" json:"maintenance_percent"`
	UtilitiesMonthly          float64 `yaml:"utilitiesMonthly" json:"utilities_monthly"`
	HOACondoFeesMonthly       float64 `yaml:"hoaCondoFeesMonthly" json:"hoa_condo_fees_monthly"`
	OtherExpensesMonthly      float64 `yaml:"otherExpensesMonthly" json:"other_expenses_monthly"`
	PropertyTaxRatePercent    float64 `yaml:"propertyTaxRatePercent" json:"property_tax_rate_percent"`
	InsuranceAnnualPerUnit    float64 `yaml:"insuranceAnnualPerUnit" json:"insurance_annual_per_unit"`
}

// RenovationTier is the cost per square foot for a property condition.
type RenovationTier struct {
	Low  float64 `yaml:"low" json:"low"`
	Mid  float64 `yaml:"mid" json:"mid"`
	High float64 `yaml:"high" json:"high"`
}

// ClosingCosts are the fixed professional fees of a purchase.
type ClosingCosts struct {
	LegalFees      float64 `yaml:"legalFees" json:"legal_fees"`
	Inspection     float64 `yaml:"inspection" json:"inspection"`
	Appraisal      float64 `yaml:"appraisal" json:"appraisal"`
	TitleInsurance float64 `yaml:"titleInsurance" json:"title_insurance"`
}

// Total sums the fees.
func (c ClosingCosts) Total() float64 {
	return c.LegalFees + c.Inspection + c.Appraisal + c.TitleInsurance
}

// FinancingDefaults fill financing and classification fields left blank.
type FinancingDefaults struct {
	InterestRate      float64 `yaml:"interestRate" json:"interest_rate"`
	AmortizationYears int     `yaml:"amortizationYears" json:"amortization_years"`
	Province          string  `yaml:"province" json:"province"`
	PropertyType      string  `yaml:"propertyType" json:"property_type"`
	Strategy          string  `yaml:"strategy" json:"strategy"`
	Condition         string  `yaml:"condition" json:"condition"`
}

// Tables is the complete, versioned reference data set.
type Tables struct {
	Version                string                           `yaml:"version"`
	Benchmarks             map[string]Benchmark             `yaml:"benchmarks"`
	ExpenseProfiles        map[string]ExpenseProfile        `yaml:"expenseProfiles"`
	RenovationCosts        map[string]RenovationTier        `yaml:"renovationCosts"`
	ProvincialLandTransfer map[string]landtransfer.Schedule `yaml:"provincialLandTransfer"`
	MunicipalLandTransfer  map[string]landtransfer.Schedule `yaml:"municipalLandTransfer"`
	PremiumSalesTax        map[string]float64               `yaml:"premiumSalesTax"`
	Closing                ClosingCosts                     `yaml:"closingCosts"`
	Financing              FinancingDefaults                `yaml:"financingDefaults"`
	Mortgage               loans.Rules                      `yaml:"mortgageRules"`
}

// Provider is the read-only view of the reference data the calculators use.
// Lookups return the default entry and false when the key is unknown.
type Provider interface {
	TablesVersion() string
	Benchmark(city string) (Benchmark, bool)
	ExpenseProfile(propertyType string) (ExpenseProfile, bool)
	Renovation(condition string) (RenovationTier, bool)
	ProvincialSchedule(province string) (landtransfer.Schedule, bool)
	MunicipalSchedule(city string) (landtransfer.Schedule, bool)
	PremiumSalesTaxPercent(province string) float64
	ClosingCosts() ClosingCosts
	FinancingDefaults() FinancingDefaults
	MortgageRules() loans.Rules
	HasPropertyType(propertyType string) bool
	HasCondition(condition string) bool
	PropertyTypes() []string
	Conditions() []string
}

// Key normalizes a lookup key: trimmed, lower-case, single-spaced, with
// hyphens and underscores treated as spaces and periods dropped.
func Key(name string) string {
	replaced := strings.NewReplacer("_", " ", "-", " ", ".", "").Replace(strings.ToLower(name))
	return strings.Join(strings.Fields(replaced), " ")
}

// TablesVersion identifies the approximation of the published rules in use.
func (t *Tables) TablesVersion() string {
	return t.Version
}

// Benchmark returns the market benchmark for a city.
func (t *Tables) Benchmark(city string) (Benchmark, bool) {
	return lookup(t.Benchmarks, city)
}

// ExpenseProfile returns the operating defaults for a property type.
func (t *Tables) ExpenseProfile(propertyType string) (ExpenseProfile, bool) {
	return lookup(t.ExpenseProfiles, propertyType)
}

// Renovation returns the per-square-foot renovation tier for a condition.
func (t *Tables) Renovation(condition string) (RenovationTier, bool) {
	return lookup(t.RenovationCosts, condition)
}

// ProvincialSchedule returns the provincial land transfer tax schedule.
// Province names and two-letter codes are both accepted.
func (t *Tables) ProvincialSchedule(province string) (landtransfer.Schedule, bool) {
	code := ProvinceCode(province)
	if code == "" {
		schedule, _ := lookup(t.ProvincialLandTransfer, constants.DefaultReferenceKey)
		return schedule, false
	}
	return lookup(t.ProvincialLandTransfer, code)
}

// MunicipalSchedule returns the city's own land transfer tax schedule, if it
// levies one. There is no default municipal tax.
func (t *Tables) MunicipalSchedule(city string) (landtransfer.Schedule, bool) {
	schedule, ok := t.MunicipalLandTransfer[Key(city)]
	return schedule, ok
}

// PremiumSalesTaxPercent returns the provincial sales tax charged on mortgage
// default insurance premiums, payable in cash at closing.
func (t *Tables) PremiumSalesTaxPercent(province string) float64 {
	return t.PremiumSalesTax[Key(ProvinceCode(province))]
}

// ClosingCosts returns the fixed purchase fees.
func (t *Tables) ClosingCosts() ClosingCosts {
	return t.Closing
}

// FinancingDefaults returns the defaults for blank financing fields.
func (t *Tables) FinancingDefaults() FinancingDefaults {
	return t.Financing
}

// MortgageRules returns the federal mortgage rules.
func (t *Tables) MortgageRules() loans.Rules {
	return t.Mortgage
}

// HasPropertyType reports whether the property type has its own profile.
func (t *Tables) HasPropertyType(propertyType string) bool {
	_, ok := t.ExpenseProfiles[Key(propertyType)]
	return ok
}

// HasCondition reports whether the condition has its own renovation tier.
func (t *Tables) HasCondition(condition string) bool {
	_, ok := t.RenovationCosts[Key(condition)]
	return ok
}

// PropertyTypes lists the known property types in sorted order.
func (t *Tables) PropertyTypes() []string {
	return sortedKeys(t.ExpenseProfiles)
}

// Conditions lists the known property conditions in sorted order.
func (t *Tables) Conditions() []string {
	return sortedKeys(t.RenovationCosts)
}

// Validate checks that every table has a default entry and every schedule is well formed.
func (t *Tables) Validate() error {
	if _, ok := t.Benchmarks[constants.DefaultReferenceKey]; !ok {
		return fmt.Errorf("benchmarks: missing %q entry", constants.DefaultReferenceKey)
	}
	if _, ok := t.ExpenseProfiles[constants.DefaultReferenceKey]; !ok {
		return fmt.Errorf("expense profiles: missing %q entry", constants.DefaultReferenceKey)
	}
	if _, ok := t.RenovationCosts[constants.DefaultReferenceKey]; !ok {
		return fmt.Errorf("renovation costs: missing %q entry", constants.DefaultReferenceKey)
	}
	if _, ok := t.ProvincialLandTransfer[constants.DefaultReferenceKey]; !ok {
		return fmt.Errorf("provincial land transfer: missing %q entry", constants.DefaultReferenceKey)
	}

	for _, name := range sortedKeys(t.ProvincialLandTransfer) {
		if err := t.ProvincialLandTransfer[name].Validate(); err != nil {
			return fmt.Errorf("provincial land transfer %s: %w", name, err)
		}
	}
	for _, name := range sortedKeys(t.MunicipalLandTransfer) {
		if err := t.MunicipalLandTransfer[name].Validate(); err != nil {
			return fmt.Errorf("municipal land transfer %s: %w", name, err)
		}
	}
	for _, name := range sortedKeys(t.RenovationCosts) {
		tier := t.RenovationCosts[name]
		if tier.Low > tier.Mid || tier.Mid > tier.High {
			return fmt.Errorf("renovation costs %s: tiers must satisfy low <= mid <= high", name)
		}
	}
	for _, name := range sortedKeys(t.ExpenseProfiles) {
		if t.ExpenseProfiles[name].Units < 1 {
			return fmt.Errorf("expense profile %s: units must be at least 1", name)
		}
	}

	rules := t.Mortgage
	if rules.StressTestFloor <= 0 || rules.StressTestBuffer < 0 {
		return fmt.Errorf("mortgage rules: stress test buffer and floor must be positive")
	}
	for i, band := range rules.PremiumBands {
		if band.MinDownPaymentPercent >= band.MaxDownPaymentPercent {
			return fmt.Errorf("mortgage rules: premium band %d is empty", i)
		}
	}
	return nil
}

// normalize re-keys every map so lookups are insensitive to case and spacing.
func (t *Tables) normalize() {
	t.Benchmarks = rekey(t.Benchmarks)
	t.ExpenseProfiles = rekey(t.ExpenseProfiles)
	t.RenovationCosts = rekey(t.RenovationCosts)
	t.MunicipalLandTransfer = rekey(t.MunicipalLandTransfer)
	t.PremiumSalesTax = rekey(t.PremiumSalesTax)

	provincial := make(map[string]landtransfer.Schedule, len(t.ProvincialLandTransfer))
	for name, schedule := range t.ProvincialLandTransfer {
		key := Key(name)
		if code := ProvinceCode(name); code != "" {
			key = Key(code)
		}
		provincial[key] = schedule
	}
	t.ProvincialLandTransfer = provincial
}

func lookup[V any](table map[string]V, name string) (V, bool) {
	if v, ok := table[Key(name)]; ok {
		return v, true
	}
	return table[constants.DefaultReferenceKey], false
}

func rekey[V any](table map[string]V) map[string]V {
	out := make(map[string]V, len(table))
	for name, v := range table {
		out[Key(name)] = v
	}
	return out
}

func sortedKeys[V any](table map[string]V) []string {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
