// Package optimizer searches deal inputs for the values that meet a target.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"go.uber.org/zap"
)

const (
	// DefaultTolerance is the price resolution of the search, in dollars.
	DefaultTolerance = 100.0
	// MaxIterations bounds the bisection.
	MaxIterations = 60

	fieldPurchasePrice = "purchase_price"
)

// Runner finds the highest offer price that keeps a deal's monthly cash flow
// at or above a floor.
type Runner struct {
	logger   *zap.Logger
	analyzer *analysis.Analyzer
}

type evaluation struct {
	value    float64
	cashFlow float64
	floor    float64
	analysed bool
}

// A price the analyzer rejects, e.g. one whose down payment falls below the
// minimum, is never feasible.
func (e evaluation) feasible() bool {
	return e.analysed && e.cashFlow >= e.floor
}

func (e evaluation) headroom() float64 {
	return e.cashFlow - e.floor
}

// NewRunner constructs a Runner around the provided analyzer.
func NewRunner(logger *zap.Logger, analyzer *analysis.Analyzer) (*Runner, error) {
	if analyzer == nil {
		return nil, errors.New("analyzer cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, analyzer: analyzer}, nil
}

// MaxOffer bisects the purchase price between the target's bounds. Monthly
// cash flow falls as the price rises, so the search keeps the highest price
// known to meet the floor. When no price in range meets it, the summary is
// not converged and carries a note.
func (r *Runner) MaxOffer(name string, inputs deal.PropertyInputs, target optimization.Target) (optimization.Summary, error) {
	if inputs.PurchasePrice == nil || *inputs.PurchasePrice <= 0 {
		return optimization.Summary{}, fmt.Errorf("%s: a positive purchase_price is required to search for an offer", name)
	}
	original := *inputs.PurchasePrice

	minVal, maxVal, err := bounds(original, target)
	if err != nil {
		return optimization.Summary{}, fmt.Errorf("%s: %w", name, err)
	}
	tolerance := target.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	floor := target.MonthlyCashFlow

	lowerEval := r.evaluate(inputs, minVal, floor)
	upperEval := r.evaluate(inputs, maxVal, floor)

	summary := optimization.Summary{
		Scope:           "deal",
		TargetName:      name,
		Field:           fieldPurchasePrice,
		Original:        original,
		OriginalDisplay: format.WholeCurrency(original),
		Floor:           floor,
	}

	iterations := 0
	finalEval := upperEval
	switch {
	case !lowerEval.feasible():
		finalEval = lowerEval
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to reach monthly cash flow of %s within bounds %s to %s",
			format.Currency(floor), format.WholeCurrency(minVal), format.WholeCurrency(maxVal),
		))
	case upperEval.feasible():
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"every price up to %s meets the target", format.WholeCurrency(maxVal),
		))
	default:
		finalEval = lowerEval
		lower, upper := minVal, maxVal
		for iterations < MaxIterations && upper-lower > tolerance {
			mid := lower + (upper-lower)/2
			evalMid := r.evaluate(inputs, mid, floor)
			iterations++
			if evalMid.feasible() {
				finalEval = evalMid
				lower = mid
			} else {
				upper = mid
			}
		}
		// Report a whole-dollar price that still meets the floor.
		if whole := math.Floor(finalEval.value); whole != finalEval.value {
			if wholeEval := r.evaluate(inputs, whole, floor); wholeEval.feasible() {
				finalEval = wholeEval
			}
		}
	}

	summary.Value = finalEval.value
	summary.ValueDisplay = format.WholeCurrency(finalEval.value)
	summary.CashFlow = finalEval.cashFlow
	summary.Headroom = finalEval.headroom()
	summary.Iterations = iterations
	summary.Converged = finalEval.feasible()

	r.logger.Info("optimizer searched offer price",
		zap.String("op", "optimizer.MaxOffer"),
		zap.String("deal", name),
		zap.Float64("originalNumeric", summary.Original),
		zap.Float64("optimizedNumeric", summary.Value),
		zap.Float64("floor", summary.Floor),
		zap.Float64("cashFlow", summary.CashFlow),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)

	return summary, nil
}

func (r *Runner) evaluate(inputs deal.PropertyInputs, price, floor float64) evaluation {
	inputs.PurchasePrice = deal.Float(price)
	eval := evaluation{value: price, floor: floor}

	result, err := r.analyzer.Analyze(inputs)
	if err != nil {
		r.logger.Debug("offer price rejected",
			zap.String("op", "optimizer.evaluate"),
			zap.Float64("price", price),
			zap.Error(err),
		)
		return eval
	}
	eval.analysed = true
	eval.cashFlow = result.CashFlow.MonthlyNet
	return eval
}

func bounds(original float64, target optimization.Target) (float64, float64, error) {
	minVal := target.MinPrice
	if minVal <= 0 {
		minVal = math.Round(original * 0.5)
	}
	maxVal := target.MaxPrice
	if maxVal <= 0 {
		maxVal = math.Round(original * 1.5)
	}
	if maxVal <= minVal {
		return 0, 0, fmt.Errorf("offer bounds must satisfy min < max, got %s to %s",
			format.WholeCurrency(minVal), format.WholeCurrency(maxVal))
	}
	return minVal, maxVal, nil
}
