// Package deal defines the records that flow through a deal analysis: the
// partial PropertyInputs supplied by a user, a listing import or a scraped
// page, the fully resolved NormalizedInputs, and the immutable DealAnalysis
// produced from them.
package deal

import (
	"reflect"
	"strings"
)

// Strategy is the investment plan for the property.
type Strategy string

// Supported strategies.
const (
	StrategyBuyAndHold Strategy = "buy_and_hold"
	StrategyBRRRR      Strategy = "brrrr"
	StrategyFlip       Strategy = "flip"
	StrategyHouseHack  Strategy = "house_hack"
)

// Strategies lists the supported strategies.
var Strategies = []Strategy{StrategyBuyAndHold, StrategyBRRRR, StrategyFlip, StrategyHouseHack}

// OwnerOccupied reports whether the buyer lives in the property, which
// governs the minimum down payment and insurability.
func (s Strategy) OwnerOccupied() bool {
	return s == StrategyHouseHack
}

// Valid reports whether s is a supported strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// PropertyInputs is a possibly partial description of a deal. Nil pointers and
// empty strings are missing values; percentages are 0-100, money is dollars.
type PropertyInputs struct {
	Address      string   `json:"address,omitempty" yaml:"address,omitempty" mapstructure:"address"`
	City         string   `json:"city,omitempty" yaml:"city,omitempty" mapstructure:"city"`
	Province     string   `json:"province,omitempty" yaml:"province,omitempty" mapstructure:"province"`
	PropertyType string   `json:"property_type,omitempty" yaml:"property_type,omitempty" mapstructure:"property_type"`
	Bedrooms     *int     `json:"bedrooms,omitempty" yaml:"bedrooms,omitempty" mapstructure:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms,omitempty" yaml:"bathrooms,omitempty" mapstructure:"bathrooms"`
	SquareFeet   *float64 `json:"square_feet,omitempty" yaml:"square_feet,omitempty" mapstructure:"square_feet"`
	YearBuilt    *int     `json:"year_built,omitempty" yaml:"year_built,omitempty" mapstructure:"year_built"`
	Units        *int     `json:"units,omitempty" yaml:"units,omitempty" mapstructure:"units"`

	PurchasePrice      *float64 `json:"purchase_price,omitempty" yaml:"purchase_price,omitempty" mapstructure:"purchase_price"`
	DownPaymentPercent *float64 `json:"down_payment_percent,omitempty" yaml:"down_payment_percent,omitempty" mapstructure:"down_payment_percent"`
	DownPaymentAmount  *float64 `json:"down_payment_amount,omitempty" yaml:"down_payment_amount,omitempty" mapstructure:"down_payment_amount"`
	InterestRate       *float64 `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty" mapstructure:"interest_rate"`
	AmortizationYears  *int     `json:"amortization_years,omitempty" yaml:"amortization_years,omitempty" mapstructure:"amortization_years"`
	Strategy           string   `json:"strategy,omitempty" yaml:"strategy,omitempty" mapstructure:"strategy"`
	PropertyCondition  string   `json:"property_condition,omitempty" yaml:"property_condition,omitempty" mapstructure:"property_condition"`
	RenovationCost     *float64 `json:"renovation_cost,omitempty" yaml:"renovation_cost,omitempty" mapstructure:"renovation_cost"`
	FirstTimeBuyer     *bool    `json:"first_time_buyer,omitempty" yaml:"first_time_buyer,omitempty" mapstructure:"first_time_buyer"`
	OtherClosingCosts  *float64 `json:"other_closing_costs,omitempty" yaml:"other_closing_costs,omitempty" mapstructure:"other_closing_costs"`

	MonthlyRent *float64 `json:"monthly_rent,omitempty" yaml:"monthly_rent,omitempty" mapstructure:"monthly_rent"`
	OtherIncome *float64 `json:"other_income,omitempty" yaml:"other_income,omitempty" mapstructure:"other_income"`
	VacancyRate *float64 `json:"vacancy_rate,omitempty" yaml:"vacancy_rate,omitempty" mapstructure:"vacancy_rate"`

	PropertyTaxAnnual         *float64 `json:"property_tax_annual,omitempty" yaml:"property_tax_annual,omitempty" mapstructure:"property_tax_annual"`
	InsuranceAnnual           *float64 `json:"insurance_annual,omitempty" yaml:"insurance_annual,omitempty" mapstructure:"insurance_annual"`
	PropertyManagementPercent *float64 `json:"property_management_percent,omitempty" yaml:"property_management_percent,omitempty" mapstructure:"property_management_percent"`
	MaintenancePercent        *float64 `json:"maintenance_percent,omitempty" yaml:"maintenance_percent,omitempty" mapstructure:"maintenance_percent"`
	UtilitiesMonthly          *float64 `json:"utilities_monthly,omitempty" yaml:"utilities_monthly,omitempty" mapstructure:"utilities_monthly"`
	HOACondoFeesMonthly       *float64 `json:"hoa_condo_fees_monthly,omitempty" yaml:"hoa_condo_fees_monthly,omitempty" mapstructure:"hoa_condo_fees_monthly"`
	OtherExpensesMonthly      *float64 `json:"other_expenses_monthly,omitempty" yaml:"other_expenses_monthly,omitempty" mapstructure:"other_expenses_monthly"`
}

// Float returns a pointer to v, for building PropertyInputs literals.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

// Merge returns base with every field that is present in overlay replaced by
// the overlay's value. Use it to let manual entries override imported ones.
func Merge(base, overlay PropertyInputs) PropertyInputs {
	merged := base
	out := reflect.ValueOf(&merged).Elem()
	over := reflect.ValueOf(overlay)
	for i := 0; i < over.NumField(); i++ {
		if present(over.Field(i)) {
			out.Field(i).Set(over.Field(i))
		}
	}
	return merged
}

// PresentFields lists the field names (as in the wire format) that hold a value.
func (p PropertyInputs) PresentFields() []string {
	v := reflect.ValueOf(p)
	typ := v.Type()
	var fields []string
	for i := 0; i < v.NumField(); i++ {
		if present(v.Field(i)) {
			fields = append(fields, FieldName(typ.Field(i)))
		}
	}
	return fields
}

// FieldName returns the wire name of a PropertyInputs struct field.
func FieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
	if name == "" {
		return field.Name
	}
	return name
}

func present(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr:
		return !v.IsNil()
	case reflect.String:
		return strings.TrimSpace(v.String()) != ""
	default:
		return !v.IsZero()
	}
}
