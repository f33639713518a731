package analysis

import (
	"fmt"

	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"go.uber.org/zap"
)

// Options adjust how strictly deals are checked.
type Options struct {
	// AllowNonConforming reports down payments below the federal minimum and
	// loan-to-value above the maximum as warnings instead of errors.
	AllowNonConforming bool `mapstructure:"allowNonConforming" yaml:"allowNonConforming"`
}

// Analyzer runs the full pipeline. It holds no mutable state and is safe for
// concurrent use.
type Analyzer struct {
	logger     *zap.Logger
	tables     reference.Provider
	normalizer *deal.Normalizer
	options    Options
}

// NewAnalyzer creates an Analyzer over the given reference tables.
func NewAnalyzer(logger *zap.Logger, tables reference.Provider, options Options) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		logger:     logger,
		tables:     tables,
		normalizer: deal.NewNormalizer(logger, tables),
		options:    options,
	}
}

// Normalize resolves raw inputs without analysing them.
func (a *Analyzer) Normalize(in deal.PropertyInputs) (deal.NormalizedInputs, []string, error) {
	return a.normalizer.Normalize(in)
}

// Analyze normalizes the inputs and evaluates them. Normalization warnings
// lead the aggregate warning list.
func (a *Analyzer) Analyze(in deal.PropertyInputs) (deal.DealAnalysis, error) {
	normalized, warnings, err := a.normalizer.Normalize(in)
	if err != nil {
		return deal.DealAnalysis{}, err
	}

	result, err := a.Evaluate(normalized)
	if err != nil {
		return deal.DealAnalysis{}, err
	}
	result.Warnings = append(warnings, result.Warnings...)
	return result, nil
}

// Evaluate computes the analysis of one normalized snapshot.
func (a *Analyzer) Evaluate(in deal.NormalizedInputs) (deal.DealAnalysis, error) {
	acquisition := CalculateAcquisition(a.tables, in)
	financing := CalculateFinancing(a.tables.MortgageRules(), in, acquisition)
	if err := a.checkConformance(acquisition, financing); err != nil {
		a.logger.Debug("non-conforming financing rejected",
			zap.String("op", "analysis.Evaluate"),
			zap.String("address", in.Address),
			zap.Error(err),
		)
		return deal.DealAnalysis{}, err
	}

	cashFlow := CalculateCashFlow(in, financing)
	metrics, degeneracies := CalculateMetrics(in, acquisition, financing, cashFlow)

	benchmark, found := a.tables.Benchmark(in.City)
	label := in.City
	if !found {
		label = "the default market"
	}
	scoring := Score(Scorecard{
		Inputs:         in,
		Acquisition:    acquisition,
		Financing:      financing,
		CashFlow:       cashFlow,
		Metrics:        metrics,
		Benchmark:      benchmark,
		BenchmarkLabel: label,
	})

	warnings := make([]string, 0, len(degeneracies)+len(scoring.Warnings))
	warnings = append(warnings, degeneracies...)
	warnings = append(warnings, scoring.Warnings...)

	a.logger.Debug("deal analysed",
		zap.String("op", "analysis.Evaluate"),
		zap.String("address", in.Address),
		zap.Int("score", scoring.TotalScore),
		zap.String("grade", scoring.Grade),
	)

	return deal.DealAnalysis{
		Property:      in,
		Benchmark:     benchmark,
		BenchmarkCity: label,
		Acquisition:   acquisition,
		Financing:     financing,
		CashFlow:      cashFlow,
		Metrics:       metrics,
		Scoring:       scoring,
		Warnings:      warnings,
		TablesVersion: a.tables.TablesVersion(),
	}, nil
}

// Qualify normalizes the inputs and computes the borrower's GDS and TDS.
func (a *Analyzer) Qualify(in deal.PropertyInputs, borrower deal.Borrower) (deal.QualificationResult, error) {
	normalized, _, err := a.normalizer.Normalize(in)
	if err != nil {
		return deal.QualificationResult{}, err
	}
	acquisition := CalculateAcquisition(a.tables, normalized)
	financing := CalculateFinancing(a.tables.MortgageRules(), normalized, acquisition)
	return Qualify(normalized, financing, borrower), nil
}

func (a *Analyzer) checkConformance(acquisition deal.AcquisitionResult, financing deal.FinancingResult) error {
	if a.options.AllowNonConforming {
		return nil
	}

	var problems deal.ValidationErrors
	if acquisition.DownPaymentBelowMinimum {
		problems.Add("down_payment_amount", "%s is below the %s minimum for this price and use",
			format.Currency(acquisition.DownPaymentAmount), format.Currency(acquisition.MinimumDownPayment))
	}
	if financing.ExceedsMaximumLTV {
		problems.Add("down_payment_percent", "loan-to-value of %s exceeds the %s maximum",
			format.Percent(financing.BaseLoanToValue*100, 1), format.Percent(financing.MaximumLoanToValue*100, 1))
	}
	if err := problems.Err(); err != nil {
		return fmt.Errorf("non-conforming financing: %w", err)
	}
	return nil
}
