package report_test

import (
	"strings"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/report"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"github.com/iwvelando/deal-analyzer/pkg/testutil"
	"go.uber.org/zap"
)

func TestEvaluateTestConfig(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	results, err := report.Evaluate(zap.NewNop(), *conf, reference.Default())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 active deal reports, got %d", len(results))
	}
	if testutil.FindReport(results, "Welland fixer upper") != nil {
		t.Error("inactive deals must not be reported")
	}

	bungalow := testutil.FindReport(results, "Port Colborne bungalow")
	if bungalow == nil || bungalow.Failed() {
		t.Fatalf("expected a successful bungalow report, got %+v", bungalow)
	}
	if bungalow.Analysis.Scoring.TotalScore != 13 || bungalow.Analysis.Scoring.Grade != "F" {
		t.Errorf("bungalow score = %d %s, expected 13 F",
			bungalow.Analysis.Scoring.TotalScore, bungalow.Analysis.Scoring.Grade)
	}
	testutil.AssertClose(t, "monthly_payment", bungalow.Analysis.Financing.MonthlyPayment, 1464.45, 0.05)
	if bungalow.Qualification != nil {
		t.Error("no borrower was configured for the bungalow")
	}

	duplex := testutil.FindReport(results, "Toronto duplex house hack")
	if duplex == nil || duplex.Failed() {
		t.Fatalf("expected a successful duplex report, got %+v", duplex)
	}
	testutil.AssertClose(t, "premium", duplex.Analysis.Acquisition.MortgageInsurancePremium, 23715, 0.001)
	testutil.AssertClose(t, "premium_sales_tax", duplex.Analysis.Acquisition.PremiumSalesTax, 1897.20, 0.001)
	if duplex.Analysis.Acquisition.LandTransferTax.Rebate <= 0 {
		t.Error("expected first-time buyer rebates on the duplex")
	}
	if duplex.Qualification == nil || duplex.Qualification.GDS == nil || duplex.Qualification.TDS == nil {
		t.Fatalf("expected debt service ratios, got %+v", duplex.Qualification)
	}
}

func TestEvaluateReportsBadDeals(t *testing.T) {
	yaml := `
deals:
  - name: Unparseable rent
    active: true
    inputs:
      address: 1 Main St
      city: Hamilton
      monthly_rent: lots
  - name: Thin down payment
    active: true
    inputs:
      address: 2 Main St
      city: Hamilton
      purchase_price: 600000
      down_payment_percent: 10
      strategy: buy_and_hold
  - name: Good
    active: true
    inputs:
      address: 3 Main St
      city: Hamilton
      purchase_price: 600000
      monthly_rent: 3200
`
	conf, err := config.LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	results, err := report.Evaluate(nil, *conf, reference.Default())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	tests := []struct {
		name           string
		expectFailed   bool
		expectedErrors []string
	}{
		{"Unparseable rent", true, []string{"monthly_rent"}},
		{"Thin down payment", true, []string{"down_payment_amount", "down_payment_percent"}},
		{"Good", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testutil.FindReport(results, tt.name)
			if r == nil {
				t.Fatalf("no report for %s", tt.name)
			}
			if r.Failed() != tt.expectFailed {
				t.Fatalf("Failed() = %v, errors %v", r.Failed(), r.Errors)
			}
			if tt.expectFailed && r.Analysis != nil {
				t.Error("failed deals should carry no analysis")
			}
			if len(r.Errors) != len(tt.expectedErrors) {
				t.Fatalf("errors = %v, expected fields %v", r.Errors, tt.expectedErrors)
			}
			for i, field := range tt.expectedErrors {
				if !strings.HasPrefix(r.Errors[i], field+":") {
					t.Errorf("error %d = %q, expected field %s", i, r.Errors[i], field)
				}
			}
		})
	}
}

func TestEvaluateLenient(t *testing.T) {
	conf := config.Configuration{
		Deals: []config.Deal{{
			Name:   "Thin down payment",
			Active: true,
			Inputs: map[string]interface{}{
				"address":              "2 Main St",
				"city":                 "Hamilton",
				"purchase_price":       600000,
				"down_payment_percent": 10,
			},
		}},
	}
	conf.Analysis.AllowNonConforming = true

	results, err := report.Evaluate(nil, conf, reference.Default())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(results) != 1 || results[0].Failed() {
		t.Fatalf("expected a lenient report, got %+v", results)
	}
	found := false
	for _, w := range results[0].Analysis.Warnings {
		if strings.Contains(w, "Loan-to-value") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a loan-to-value warning, got %v", results[0].Analysis.Warnings)
	}
}

func TestEvaluateOfferTargets(t *testing.T) {
	inputs := map[string]interface{}{
		"address":              "3 Main St",
		"city":                 "Hamilton",
		"purchase_price":       600000,
		"down_payment_percent": 20,
		"monthly_rent":         3200,
	}
	conf := config.Configuration{
		Deals: []config.Deal{
			{Name: "Generous", Active: true, Inputs: inputs, Offer: &optimization.Target{MonthlyCashFlow: -1000000, MaxPrice: 700000}},
			{Name: "Inverted", Active: true, Inputs: inputs, Offer: &optimization.Target{MinPrice: 700000, MaxPrice: 500000}},
		},
	}

	results, err := report.Evaluate(nil, conf, reference.Default())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	generous := testutil.FindReport(results, "Generous")
	if generous == nil || generous.Offer == nil || !generous.Offer.Converged || generous.Offer.Value != 700000 {
		t.Errorf("expected the upper bound to be offered, got %+v", generous)
	}

	inverted := testutil.FindReport(results, "Inverted")
	if inverted == nil || inverted.Failed() {
		t.Fatalf("a bad offer target must not fail the analysis, got %+v", inverted)
	}
	if inverted.Offer == nil || inverted.Offer.Converged || len(inverted.Offer.Notes) != 1 {
		t.Errorf("expected an unconverged offer with one note, got %+v", inverted.Offer)
	}
}

func TestEvaluateWithoutTables(t *testing.T) {
	if _, err := report.Evaluate(nil, config.Configuration{}, nil); err == nil {
		t.Error("expected an error without reference tables")
	}
}
