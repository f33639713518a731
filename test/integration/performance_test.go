package integration

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/report"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"go.uber.org/zap"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	analyzer := analysis.NewAnalyzer(zap.NewNop(), reference.Default(), analysis.Options{})
	cities := []string{"Port Colborne", "Toronto", "Hamilton", "Ottawa", "Welland"}

	const iterations = 2000
	start := time.Now()
	for i := 0; i < iterations; i++ {
		in := deal.PropertyInputs{
			Address:            fmt.Sprintf("%d Main St", i),
			City:               cities[i%len(cities)],
			Province:           "ON",
			PurchasePrice:      deal.Float(250000 + float64(i%40)*25000),
			DownPaymentPercent: deal.Float(20),
			InterestRate:       deal.Float(4 + float64(i%5)*0.5),
			MonthlyRent:        deal.Float(1500 + float64(i%20)*75),
		}
		if _, err := analyzer.Analyze(in); err != nil {
			t.Fatalf("Analyze() failed on iteration %d: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	t.Logf("Analysed %d deals in %v (%v per deal)", iterations, elapsed, elapsed/iterations)
	if elapsed > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", elapsed)
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	_, first := evaluateTestConfig(t)
	for i := 0; i < 5; i++ {
		_, again := evaluateTestConfig(t)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first run", i+1)
		}
	}
}

func BenchmarkEvaluate(b *testing.B) {
	in := deal.PropertyInputs{
		Address:            "88 Dufferin St",
		City:               "Toronto",
		Province:           "ON",
		PropertyType:       "duplex",
		PurchasePrice:      deal.Float(850000),
		DownPaymentPercent: deal.Float(10),
		InterestRate:       deal.Float(4.89),
		Strategy:           string(deal.StrategyHouseHack),
		FirstTimeBuyer:     deal.Bool(true),
		MonthlyRent:        deal.Float(2400),
	}
	borrower := &deal.Borrower{GrossMonthlyIncome: 14500, OtherMonthlyDebts: 450}
	analyzer := analysis.NewAnalyzer(zap.NewNop(), reference.Default(), analysis.Options{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if r := report.EvaluateInputs(nil, analyzer, "duplex", in, borrower, nil); r.Failed() {
			b.Fatalf("evaluation failed: %v", r.Errors)
		}
	}
}
