// Package constants provides shared constants for the deal-analyzer application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// SemiAnnualPeriodsPerYear is the compounding frequency Canadian lenders
	// must disclose fixed mortgage rates at.
	SemiAnnualPeriodsPerYear = 2
)

// Regulatory constants for the federal minimum qualifying rate (stress test).
const (
	// StressTestBuffer is added to the contract rate, in percentage points.
	StressTestBuffer = 2.0

	// StressTestFloor is the minimum qualifying rate, in percent.
	StressTestFloor = 5.25
)

// Mortgage default insurance constants
const (
	// InsuranceThresholdPercent is the down payment at or above which a
	// mortgage is conventional and needs no default insurance.
	InsuranceThresholdPercent = 20.0

	// MinimumInsuredDownPaymentPercent is the smallest down payment any
	// insured purchase may have.
	MinimumInsuredDownPaymentPercent = 5.0

	// InsuredPriceCeiling is the purchase price at or above which default
	// insurance is unavailable and 20% down is required.
	InsuredPriceCeiling = 1500000.0

	// FirstTierPriceLimit is the portion of the price subject to the 5%
	// minimum down payment.
	FirstTierPriceLimit = 500000.0

	// SecondTierDownPaymentPercent applies to the portion between
	// FirstTierPriceLimit and InsuredPriceCeiling.
	SecondTierDownPaymentPercent = 10.0

	// ExtendedAmortizationYears is the amortization beyond which insured
	// mortgages carry a premium surcharge.
	ExtendedAmortizationYears = 25
)

// Input bounds
const (
	// MinAmortizationYears is the shortest accepted amortization.
	MinAmortizationYears = 1

	// MaxAmortizationYears is the longest accepted amortization.
	MaxAmortizationYears = 40

	// MaxInputAmount caps prices, amounts and areas so that every derived
	// figure stays finite.
	MaxInputAmount = 1e12
)

// Qualification constants
const (
	// DefaultHeatingMonthly is the heating cost lenders assume for GDS/TDS.
	DefaultHeatingMonthly = 100.0

	// CondoFeeQualifyingShare is the share of condo fees counted in GDS/TDS.
	CondoFeeQualifyingShare = 0.5

	// MaxGDSPercent is the insurer GDS limit.
	MaxGDSPercent = 39.0

	// MaxTDSPercent is the insurer TDS limit.
	MaxTDSPercent = 44.0
)

// Reference keys
const (
	// DefaultReferenceKey is the fallback entry name in every reference table.
	DefaultReferenceKey = "default"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for listing pages (2 MB)
	DefaultMaxUploadSizeBytes int64 = 2 * 1024 * 1024
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// DownPaymentAgreementTolerance is how far a supplied amount and percent
	// may disagree before a warning is raised, in dollars.
	DownPaymentAgreementTolerance = 1.0

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
