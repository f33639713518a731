package deal

import (
	"github.com/iwvelando/deal-analyzer/pkg/landtransfer"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
)

// NormalizedInputs is a complete, internally consistent deal description.
// Percentages are 0-100 and DownPaymentAmount agrees with DownPaymentPercent.
type NormalizedInputs struct {
	Address      string  `json:"address"`
	City         string  `json:"city"`
	Province     string  `json:"province"`
	ProvinceCode string  `json:"province_code,omitempty"`
	PropertyType string  `json:"property_type"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SquareFeet   float64 `json:"square_feet"`
	YearBuilt    int     `json:"year_built,omitempty"`
	Units        int     `json:"units"`

	PurchasePrice      float64  `json:"purchase_price"`
	DownPaymentPercent float64  `json:"down_payment_percent"`
	DownPaymentAmount  float64  `json:"down_payment_amount"`
	InterestRate       float64  `json:"interest_rate"`
	AmortizationYears  int      `json:"amortization_years"`
	Strategy           Strategy `json:"strategy"`
	OwnerOccupied      bool     `json:"owner_occupied"`
	PropertyCondition  string   `json:"property_condition"`
	RenovationCost     float64  `json:"renovation_cost"`
	RenovationOverride bool     `json:"renovation_override"`
	FirstTimeBuyer     bool     `json:"first_time_buyer"`
	OtherClosingCosts  float64  `json:"other_closing_costs"`

	MonthlyRent float64 `json:"monthly_rent"`
	OtherIncome float64 `json:"other_income"`
	VacancyRate float64 `json:"vacancy_rate"`

	PropertyTaxAnnual         float64 `json:"property_tax_annual"`
	InsuranceAnnual           float64 `json:"insurance_annual"`
	PropertyManagementPercent float64 `json:"property_management_percent"`
	MaintenancePercent        float64 `json:"maintenance_percent"`
	UtilitiesMonthly          float64 `json:"utilities_monthly"`
	HOACondoFeesMonthly       float64 `json:"hoa_condo_fees_monthly"`
	OtherExpensesMonthly      float64 `json:"other_expenses_monthly"`
}

// LandTransferTax splits the tax between jurisdictions.
type LandTransferTax struct {
	Provincial    float64               `json:"provincial"`
	Municipal     float64               `json:"municipal"`
	Rebate        float64               `json:"rebate"`
	Total         float64               `json:"total"`
	Jurisdictions []landtransfer.Result `json:"jurisdictions"`
}

// RenovationRange is the renovation estimate at each cost tier.
type RenovationRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// ClosingCosts itemizes the cash costs of closing.
type ClosingCosts struct {
	LandTransferTax   float64 `json:"land_transfer_tax"`
	PremiumSalesTax   float64 `json:"premium_sales_tax"`
	LegalFees         float64 `json:"legal_fees"`
	Inspection        float64 `json:"inspection"`
	Appraisal         float64 `json:"appraisal"`
	TitleInsurance    float64 `json:"title_insurance"`
	OtherClosingCosts float64 `json:"other_closing_costs"`
	Total             float64 `json:"total"`
}

// AcquisitionResult is the cost of buying the property.
type AcquisitionResult struct {
	LandTransferTax          LandTransferTax `json:"land_transfer_tax"`
	MinimumDownPayment       float64         `json:"minimum_down_payment"`
	DownPaymentAmount        float64         `json:"down_payment_amount"`
	InsuranceRequired        bool            `json:"insurance_required"`
	PremiumRatePercent       float64         `json:"premium_rate_percent"`
	MortgageInsurancePremium float64         `json:"mortgage_insurance_premium"`
	PremiumSalesTax          float64         `json:"premium_sales_tax"`
	RenovationCost           float64         `json:"renovation_cost"`
	RenovationRange          RenovationRange `json:"renovation_range"`
	ClosingCosts             ClosingCosts    `json:"closing_costs"`
	ClosingCostsTotal        float64         `json:"closing_costs_total"`
	TotalAcquisitionCost     float64         `json:"total_acquisition_cost"`
	DownPaymentBelowMinimum  bool            `json:"down_payment_below_minimum"`
	InsuranceUnavailable     bool            `json:"insurance_unavailable"`
}

// FinancingResult describes the mortgage.
type FinancingResult struct {
	BaseLoan           float64 `json:"base_loan"`
	MortgagePrincipal  float64 `json:"mortgage_principal"`
	InterestRate       float64 `json:"interest_rate"`
	AmortizationYears  int     `json:"amortization_years"`
	MonthlyPayment     float64 `json:"monthly_payment"`
	StressTestRate     float64 `json:"stress_test_rate"`
	StressTestPayment  float64 `json:"stress_test_payment"`
	LoanToValue        float64 `json:"loan_to_value"`
	BaseLoanToValue    float64 `json:"base_loan_to_value"`
	MaximumLoanToValue float64 `json:"maximum_loan_to_value"`
	ExceedsMaximumLTV  bool    `json:"exceeds_maximum_ltv"`
}

// OperatingExpenses itemizes the monthly operating costs.
type OperatingExpenses struct {
	PropertyTax        float64 `json:"property_tax"`
	Insurance          float64 `json:"insurance"`
	Utilities          float64 `json:"utilities"`
	HOACondoFees       float64 `json:"hoa_condo_fees"`
	Other              float64 `json:"other"`
	PropertyManagement float64 `json:"property_management"`
	Maintenance        float64 `json:"maintenance"`
	Total              float64 `json:"total"`
}

// CashFlowResult is the monthly operating picture.
type CashFlowResult struct {
	GrossRent            float64           `json:"gross_rent"`
	VacancyLoss          float64           `json:"vacancy_loss"`
	OtherIncome          float64           `json:"other_income"`
	EffectiveGrossIncome float64           `json:"effective_gross_income"`
	OperatingExpenses    OperatingExpenses `json:"operating_expenses"`
	NOIMonthly           float64           `json:"noi_monthly"`
	DebtService          float64           `json:"debt_service"`
	MonthlyNet           float64           `json:"monthly_net"`
	AnnualNet            float64           `json:"annual_net"`
	MonthlyNetPerUnit    float64           `json:"monthly_net_per_unit"`
}

// MetricsResult holds the return metrics. Nil means undefined.
type MetricsResult struct {
	CapRate          float64  `json:"cap_rate"`
	CashOnCashReturn *float64 `json:"cash_on_cash_return"`
	DSCR             *float64 `json:"dscr"`
	StressDSCR       *float64 `json:"stress_dscr"`
	RentToPrice      float64  `json:"rent_to_price"`
	CashInvested     float64  `json:"cash_invested"`
}

// Borrower is the household applying for the mortgage.
type Borrower struct {
	GrossMonthlyIncome float64  `json:"gross_monthly_income" yaml:"gross_monthly_income" mapstructure:"gross_monthly_income"`
	OtherMonthlyDebts  float64  `json:"other_monthly_debts" yaml:"other_monthly_debts" mapstructure:"other_monthly_debts"`
	HeatingMonthly     *float64 `json:"heating_monthly,omitempty" yaml:"heating_monthly,omitempty" mapstructure:"heating_monthly"`
}

// QualificationResult holds the borrower's debt service ratios at the
// stress test payment.
type QualificationResult struct {
	StressTestPayment float64  `json:"stress_test_payment"`
	HousingCosts      float64  `json:"housing_costs"`
	GDS               *float64 `json:"gds"`
	TDS               *float64 `json:"tds"`
	MaxGDS            float64  `json:"max_gds"`
	MaxTDS            float64  `json:"max_tds"`
	Qualifies         bool     `json:"qualifies"`
	Warnings          []string `json:"warnings,omitempty"`
}

// SubScores are the 0-100 component scores.
type SubScores struct {
	CashOnCash      int `json:"cash_on_cash"`
	CapRateSpread   int `json:"cap_rate_spread"`
	DSCR            int `json:"dscr"`
	CashFlowPerUnit int `json:"cash_flow_per_unit"`
}

// ScoringResult is the deal's grade.
type ScoringResult struct {
	TotalScore int       `json:"total_score"`
	Grade      string    `json:"grade"`
	SubScores  SubScores `json:"sub_scores"`
	Reasons    []string  `json:"reasons"`
	Warnings   []string  `json:"warnings"`
}

// DealAnalysis is the immutable outcome of analysing one NormalizedInputs
// snapshot.
type DealAnalysis struct {
	Property      NormalizedInputs    `json:"property"`
	Benchmark     reference.Benchmark `json:"benchmark"`
	BenchmarkCity string              `json:"benchmark_city"`
	Acquisition   AcquisitionResult   `json:"acquisition"`
	Financing     FinancingResult     `json:"financing"`
	CashFlow      CashFlowResult      `json:"cash_flow"`
	Metrics       MetricsResult       `json:"metrics"`
	Scoring       ScoringResult       `json:"scoring"`
	Warnings      []string            `json:"warnings"`
	TablesVersion string              `json:"tables_version"`
}
