// Package report defines the data structures related to a batch of deal
// reports and includes functions for evaluating them.
package report

import (
	"errors"
	"fmt"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/optimizer"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"go.uber.org/zap"
)

// Report holds the outcome for one configured deal. A deal whose inputs are
// rejected has Errors and no Analysis.
type Report struct {
	Name          string                    `json:"name" yaml:"name"`
	Analysis      *deal.DealAnalysis        `json:"analysis,omitempty" yaml:"analysis,omitempty"`
	Qualification *deal.QualificationResult `json:"qualification,omitempty" yaml:"qualification,omitempty"`
	Offer         *optimization.Summary     `json:"offer,omitempty" yaml:"offer,omitempty"`
	Errors        []string                  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Failed reports whether the deal could not be analysed.
func (r Report) Failed() bool {
	return len(r.Errors) > 0
}

// Evaluate analyses every active deal in the configuration. Bad inputs are
// recorded on that deal's Report and do not stop the batch.
func Evaluate(logger *zap.Logger, conf config.Configuration, tables reference.Provider) ([]Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tables == nil {
		return nil, errors.New("no reference tables provided")
	}

	analyzer := analysis.NewAnalyzer(logger, tables, conf.Analysis)

	var results []Report
	for _, d := range conf.Deals {
		if !d.Active {
			logger.Debug(fmt.Sprintf("skipping deal %s because it is inactive", d.Name),
				zap.String("op", "report.Evaluate"),
			)
			continue
		}
		results = append(results, evaluateDeal(logger, analyzer, d))
	}

	return results, nil
}

func evaluateDeal(logger *zap.Logger, analyzer *analysis.Analyzer, d config.Deal) Report {
	result := Report{Name: d.Name}

	inputs, err := d.PropertyInputs()
	if err != nil {
		result.Errors = errorMessages(err)
		logger.Warn("deal inputs rejected",
			zap.String("op", "report.Evaluate"),
			zap.String("deal", d.Name),
			zap.Error(err),
		)
		return result
	}

	return EvaluateInputs(logger, analyzer, d.Name, inputs, d.Borrower, d.Offer)
}

// EvaluateInputs analyses already decoded inputs, such as a listing merged
// with manual overrides. The borrower is qualified and the maximum offer is
// searched for when given.
func EvaluateInputs(logger *zap.Logger, analyzer *analysis.Analyzer, name string, inputs deal.PropertyInputs, borrower *deal.Borrower, offer *optimization.Target) Report {
	if logger == nil {
		logger = zap.NewNop()
	}
	result := Report{Name: name}

	dealAnalysis, err := analyzer.Analyze(inputs)
	if err != nil {
		result.Errors = errorMessages(err)
		logger.Warn("deal analysis failed",
			zap.String("op", "report.Evaluate"),
			zap.String("deal", name),
			zap.Error(err),
		)
		return result
	}
	result.Analysis = &dealAnalysis

	if borrower != nil {
		qualification, err := analyzer.Qualify(inputs, *borrower)
		if err != nil {
			result.Errors = errorMessages(err)
			return result
		}
		result.Qualification = &qualification
	}

	if offer != nil {
		result.Offer = maxOffer(logger, analyzer, name, inputs, *offer)
	}

	logger.Debug("deal analysed",
		zap.String("op", "report.Evaluate"),
		zap.String("deal", name),
		zap.Int("score", dealAnalysis.Scoring.TotalScore),
		zap.String("grade", dealAnalysis.Scoring.Grade),
	)
	return result
}

// maxOffer runs the offer search. A bad target is reported as a note on the
// summary so the analysis itself still stands.
func maxOffer(logger *zap.Logger, analyzer *analysis.Analyzer, name string, inputs deal.PropertyInputs, target optimization.Target) *optimization.Summary {
	runner, err := optimizer.NewRunner(logger, analyzer)
	if err == nil {
		var summary optimization.Summary
		summary, err = runner.MaxOffer(name, inputs, target)
		if err == nil {
			return &summary
		}
	}
	logger.Warn("offer search failed",
		zap.String("op", "report.Evaluate"),
		zap.String("deal", name),
		zap.Error(err),
	)
	return &optimization.Summary{
		Scope:      "deal",
		TargetName: name,
		Field:      "purchase_price",
		Floor:      target.MonthlyCashFlow,
		Notes:      []string{err.Error()},
	}
}

// errorMessages flattens field-level problems into one message per field.
func errorMessages(err error) []string {
	var problems deal.ValidationErrors
	if !errors.As(err, &problems) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(problems))
	for _, problem := range problems {
		messages = append(messages, problem.Error())
	}
	return messages
}
