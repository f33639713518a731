package reference

import (
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/landtransfer"
	"github.com/iwvelando/deal-analyzer/pkg/loans"
)

// DefaultVersion identifies the bundled tables.
const DefaultVersion = "2025.1"

// Default returns the bundled reference tables. Each call returns a fresh
// copy so callers may overlay their own data.
func Default() *Tables {
	t := &Tables{
		Version: DefaultVersion,
		Benchmarks: map[string]Benchmark{
			"toronto":       {CapRate: 3.5, RentToPrice: 0.28, AverageDaysOnMkt: 18},
			"ottawa":        {CapRate: 4.5, RentToPrice: 0.40, AverageDaysOnMkt: 22},
			"hamilton":      {CapRate: 4.5, RentToPrice: 0.37, AverageDaysOnMkt: 24},
			"london":        {CapRate: 5.0, RentToPrice: 0.42, AverageDaysOnMkt: 22},
			"kitchener":     {CapRate: 4.5, RentToPrice: 0.38, AverageDaysOnMkt: 20},
			"windsor":       {CapRate: 6.0, RentToPrice: 0.55, AverageDaysOnMkt: 25},
			"st catharines": {CapRate: 5.0, RentToPrice: 0.43, AverageDaysOnMkt: 28},
			"niagara falls": {CapRate: 5.0, RentToPrice: 0.43, AverageDaysOnMkt: 30},
			"vancouver":     {CapRate: 3.0, RentToPrice: 0.25, AverageDaysOnMkt: 20},
			"victoria":      {CapRate: 3.5, RentToPrice: 0.30, AverageDaysOnMkt: 25},
			"calgary":       {CapRate: 5.0, RentToPrice: 0.45, AverageDaysOnMkt: 20},
			"edmonton":      {CapRate: 6.0, RentToPrice: 0.55, AverageDaysOnMkt: 40},
			"winnipeg":      {CapRate: 6.0, RentToPrice: 0.55, AverageDaysOnMkt: 30},
			"montreal":      {CapRate: 4.5, RentToPrice: 0.40, AverageDaysOnMkt: 45},
			"quebec city":   {CapRate: 5.5, RentToPrice: 0.50, AverageDaysOnMkt: 50},
			"halifax":       {CapRate: 5.0, RentToPrice: 0.42, AverageDaysOnMkt: 30},
			"regina":        {CapRate: 6.5, RentToPrice: 0.60, AverageDaysOnMkt: 45},
			"saskatoon":     {CapRate: 6.0, RentToPrice: 0.55, AverageDaysOnMkt: 40},
			"default":       {CapRate: 5.0, RentToPrice: 0.45, AverageDaysOnMkt: 30},
		},
		ExpenseProfiles: map[string]ExpenseProfile{
			"single family": {Units: 1, VacancyRate: 4, PropertyManagementPercent: 8, MaintenancePercent: 5,
				PropertyTaxRatePercent: 1.0, InsuranceAnnualPerUnit: 1200},
			"semi detached": {Units: 1, VacancyRate: 4, PropertyManagementPercent: 8, MaintenancePercent: 5,
				PropertyTaxRatePercent: 1.0, InsuranceAnnualPerUnit: 1100},
			"townhouse": {Units: 1, VacancyRate: 4, PropertyManagementPercent: 8, MaintenancePercent: 4,
				HOACondoFeesMonthly: 150, PropertyTaxRatePercent: 1.0, InsuranceAnnualPerUnit: 900},
			"condo": {Units: 1, VacancyRate: 4, PropertyManagementPercent: 8, MaintenancePercent: 3,
				HOACondoFeesMonthly: 500, PropertyTaxRatePercent: 0.9, InsuranceAnnualPerUnit: 400},
			"duplex": {Units: 2, VacancyRate: 5, PropertyManagementPercent: 8, MaintenancePercent: 7,
				UtilitiesMonthly: 100, PropertyTaxRatePercent: 1.1, InsuranceAnnualPerUnit: 1000},
			"triplex": {Units: 3, VacancyRate: 5, PropertyManagementPercent: 8, MaintenancePercent: 8,
				UtilitiesMonthly: 150, PropertyTaxRatePercent: 1.1, InsuranceAnnualPerUnit: 900},
			"fourplex": {Units: 4, VacancyRate: 5, PropertyManagementPercent: 8, MaintenancePercent: 8,
				UtilitiesMonthly: 200, PropertyTaxRatePercent: 1.15, InsuranceAnnualPerUnit: 850},
			"multi family": {Units: 6, VacancyRate: 6, PropertyManagementPercent: 8, MaintenancePercent: 10,
				UtilitiesMonthly: 300, OtherExpensesMonthly: 100, PropertyTaxRatePercent: 1.2, InsuranceAnnualPerUnit: 800},
			"default": {Units: 1, VacancyRate: 5, PropertyManagementPercent: 8, MaintenancePercent: 5,
				PropertyTaxRatePercent: 1.0, InsuranceAnnualPerUnit: 1200},
		},
		RenovationCosts: map[string]RenovationTier{
			"turnkey":  {Low: 0, Mid: 0, High: 0},
			"cosmetic": {Low: 10, Mid: 20, High: 30},
			"moderate": {Low: 30, Mid: 45, High: 60},
			"major":    {Low: 60, Mid: 85, High: 110},
			"gut":      {Low: 120, Mid: 160, High: 200},
			"default":  {Low: 0, Mid: 0, High: 0},
		},
		ProvincialLandTransfer: map[string]landtransfer.Schedule{
			"ON": {
				Name: "Ontario",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0.5},
					{Threshold: 55000, RatePercent: 1.0},
					{Threshold: 250000, RatePercent: 1.5},
					{Threshold: 400000, RatePercent: 2.0},
					{Threshold: 2000000, RatePercent: 2.5},
				},
				FirstTimeBuyerRebate: landtransfer.Rebate{MaxAmount: 4000},
			},
			"BC": {
				Name: "British Columbia",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 1.0},
					{Threshold: 200000, RatePercent: 2.0},
					{Threshold: 2000000, RatePercent: 3.0},
					{Threshold: 3000000, RatePercent: 5.0},
				},
				FirstTimeBuyerRebate: landtransfer.Rebate{MaxAmount: 8000, PriceCeiling: 835000},
			},
			"AB": {
				Name:     "Alberta",
				FixedFee: 50,
				Brackets: []landtransfer.Bracket{{Threshold: 0, RatePercent: 0.1}},
			},
			"SK": {
				Name: "Saskatchewan",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0},
					{Threshold: 6300, RatePercent: 0.4},
				},
			},
			"MB": {
				Name: "Manitoba",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0},
					{Threshold: 30000, RatePercent: 0.5},
					{Threshold: 90000, RatePercent: 1.0},
					{Threshold: 150000, RatePercent: 1.5},
					{Threshold: 200000, RatePercent: 2.0},
				},
			},
			"QC": {
				Name: "Quebec",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0.5},
					{Threshold: 61500, RatePercent: 1.0},
					{Threshold: 307800, RatePercent: 1.5},
				},
			},
			"NB": {
				Name:     "New Brunswick",
				Brackets: []landtransfer.Bracket{{Threshold: 0, RatePercent: 1.0}},
			},
			"NS": {
				Name:     "Nova Scotia",
				Brackets: []landtransfer.Bracket{{Threshold: 0, RatePercent: 1.5}},
			},
			"PE": {
				Name: "Prince Edward Island",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0},
					{Threshold: 30000, RatePercent: 1.0},
				},
				FirstTimeBuyerRebate: landtransfer.Rebate{MaxAmount: 1000000},
			},
			"NL": {
				Name:     "Newfoundland and Labrador",
				FixedFee: 100,
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0},
					{Threshold: 500, RatePercent: 0.4},
				},
			},
			constants.DefaultReferenceKey: {
				Name:     "Default",
				Brackets: []landtransfer.Bracket{{Threshold: 0, RatePercent: 1.0}},
			},
		},
		MunicipalLandTransfer: map[string]landtransfer.Schedule{
			"toronto": {
				Name: "Toronto",
				Brackets: []landtransfer.Bracket{
					{Threshold: 0, RatePercent: 0.5},
					{Threshold: 55000, RatePercent: 1.0},
					{Threshold: 250000, RatePercent: 1.5},
					{Threshold: 400000, RatePercent: 2.0},
					{Threshold: 2000000, RatePercent: 2.5},
					{Threshold: 3000000, RatePercent: 3.5},
					{Threshold: 4000000, RatePercent: 4.5},
					{Threshold: 5000000, RatePercent: 5.5},
					{Threshold: 10000000, RatePercent: 6.5},
					{Threshold: 20000000, RatePercent: 7.5},
				},
				FirstTimeBuyerRebate: landtransfer.Rebate{MaxAmount: 4475},
			},
		},
		PremiumSalesTax: map[string]float64{
			"ON": 8,
			"QC": 9,
			"SK": 6,
		},
		Closing: ClosingCosts{
			LegalFees:      1800,
			Inspection:     550,
			Appraisal:      400,
			TitleInsurance: 350,
		},
		Financing: FinancingDefaults{
			InterestRate:      5.0,
			AmortizationYears: 25,
			PropertyType:      "single_family",
			Strategy:          "buy_and_hold",
			Condition:         "turnkey",
		},
		Mortgage: loans.DefaultRules(),
	}
	t.normalize()
	return t
}
