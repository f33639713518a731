package integration

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/listing"
	"github.com/iwvelando/deal-analyzer/internal/report"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/output"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"github.com/iwvelando/deal-analyzer/pkg/testutil"
	"go.uber.org/zap"
)

const testConfig = "../test_config.yaml"

// evaluateTestConfig runs the test configuration the same way main() does.
func evaluateTestConfig(t *testing.T) (*config.Configuration, []report.Report) {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	tables, err := conf.ReferenceTables()
	if err != nil {
		t.Fatalf("ReferenceTables() error = %v", err)
	}
	results, err := report.Evaluate(zap.NewNop(), *conf, tables)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	return conf, results
}

func TestMainIntegrationBaseline(t *testing.T) {
	_, results := evaluateTestConfig(t)

	expectedDeals := []string{"Port Colborne bungalow", "Toronto duplex house hack"}
	if len(results) != len(expectedDeals) {
		t.Fatalf("expected %d reports, got %d", len(expectedDeals), len(results))
	}
	for i, expected := range expectedDeals {
		if results[i].Name != expected {
			t.Errorf("report %d: expected %q, got %q", i, expected, results[i].Name)
		}
		if results[i].Failed() {
			t.Errorf("report %q failed: %v", results[i].Name, results[i].Errors)
		}
	}

	bungalow := testutil.FindReport(results, "Port Colborne bungalow")
	testutil.AssertClose(t, "down_payment", bungalow.Analysis.Acquisition.DownPaymentAmount, 59980, 0.001)
	testutil.AssertClose(t, "mortgage_principal", bungalow.Analysis.Financing.MortgagePrincipal, 239920, 0.001)
	testutil.AssertClose(t, "monthly_payment", bungalow.Analysis.Financing.MonthlyPayment, 1464.45, 0.05)
	if bungalow.Analysis.Acquisition.MortgageInsurancePremium != 0 {
		t.Errorf("a 20%% down payment is conventional, got premium %.2f",
			bungalow.Analysis.Acquisition.MortgageInsurancePremium)
	}

	if bungalow.Offer == nil || !bungalow.Offer.Converged {
		t.Fatalf("expected a converged offer search, got %+v", bungalow.Offer)
	}
	if bungalow.Offer.Value >= 299900 || bungalow.Offer.CashFlow < -100 {
		t.Errorf("offer %.2f with cash flow %.2f should undercut the asking price and meet -$100",
			bungalow.Offer.Value, bungalow.Offer.CashFlow)
	}

	duplex := testutil.FindReport(results, "Toronto duplex house hack")
	if duplex.Offer != nil {
		t.Error("no offer target was configured for the duplex")
	}
	testutil.AssertClose(t, "duplex premium", duplex.Analysis.Acquisition.MortgageInsurancePremium, 23715, 0.001)
	if duplex.Analysis.Acquisition.LandTransferTax.Municipal <= 0 {
		t.Error("Toronto purchases pay the municipal land transfer tax")
	}
	if duplex.Qualification == nil {
		t.Fatal("expected a qualification result for the duplex borrower")
	}
}

func TestOutputFormats(t *testing.T) {
	_, results := evaluateTestConfig(t)

	t.Run(constants.OutputFormatPretty, func(t *testing.T) {
		var buf bytes.Buffer
		if err := output.Write(&buf, constants.OutputFormatPretty, results); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		for _, name := range []string{"Port Colborne bungalow", "Toronto duplex house hack"} {
			if !strings.Contains(buf.String(), "--- Results for deal "+name+" ---") {
				t.Errorf("pretty output is missing %q", name)
			}
		}
	})

	t.Run(constants.OutputFormatCSV, func(t *testing.T) {
		var buf bytes.Buffer
		if err := output.Write(&buf, constants.OutputFormatCSV, results); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != len(results)+1 {
			t.Fatalf("expected %d CSV rows, got %d", len(results)+1, len(records))
		}
		if records[0][0] != "deal" || records[1][0] != "Port Colborne bungalow" {
			t.Errorf("unexpected CSV layout: %v", records[:2])
		}
	})

	t.Run(constants.OutputFormatJSON, func(t *testing.T) {
		var buf bytes.Buffer
		if err := output.Write(&buf, constants.OutputFormatJSON, results); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		var decoded []report.Report
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != len(results) {
			t.Fatalf("expected %d reports, got %d", len(results), len(decoded))
		}
		if decoded[0].Analysis.Scoring.Grade != results[0].Analysis.Scoring.Grade {
			t.Errorf("grade changed in JSON round trip: %q vs %q",
				decoded[0].Analysis.Scoring.Grade, results[0].Analysis.Scoring.Grade)
		}
	})
}

func TestConfigurationValidation(t *testing.T) {
	conf, err := config.LoadConfiguration(testConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected the test configuration to be clean, got %v", warnings)
	}
	if active := conf.ActiveDeals(); len(active) != 2 {
		t.Errorf("expected 2 active deals, got %d", len(active))
	}
}

// The listing directory supplies the property and the configured deal
// supplies the financing, as with deal-analyzer -mls.
func TestListingDirectoryMerge(t *testing.T) {
	conf, results := evaluateTestConfig(t)
	logger := zap.NewNop()

	directory, err := conf.ListingDirectory(logger)
	if err != nil {
		t.Fatalf("ListingDirectory() error = %v", err)
	}
	found, err := directory.Find(context.Background(), "x1234567")
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	manual, err := conf.ActiveDeals()[0].PropertyInputs()
	if err != nil {
		t.Fatalf("PropertyInputs() error = %v", err)
	}
	merged := deal.Merge(found.Inputs(), manual)
	if merged.Bedrooms == nil || *merged.Bedrooms != 3 {
		t.Errorf("expected bedrooms from the listing, got %v", merged.Bedrooms)
	}

	tables, err := conf.ReferenceTables()
	if err != nil {
		t.Fatalf("ReferenceTables() error = %v", err)
	}
	analyzer := analysis.NewAnalyzer(logger, tables, conf.Analysis)
	imported := report.EvaluateInputs(logger, analyzer, found.MLSNumber, merged, nil, nil)
	if imported.Failed() {
		t.Fatalf("merged listing failed: %v", imported.Errors)
	}

	configured := testutil.FindReport(results, "Port Colborne bungalow")
	testutil.AssertClose(t, "monthly_payment", imported.Analysis.Financing.MonthlyPayment,
		configured.Analysis.Financing.MonthlyPayment, 1e-9)
	testutil.AssertClose(t, "purchase_price", imported.Analysis.Property.PurchasePrice, 299900, 0)
}

// A saved listing page overlaid with a manual rent, as with deal-analyzer -html.
func TestListingPageMerge(t *testing.T) {
	page := `<html><body>
  <h1 itemprop="streetAddress">44 Bay St</h1>
  <span itemprop="addressLocality">Hamilton</span>
  <span itemprop="addressRegion">ON</span>
  <meta itemprop="price" content="525000">
  <div data-field="monthly_rent">$2,100/mo</div>
</body></html>`

	parsed, err := listing.NewScraper(nil).Parse(strings.NewReader(page), "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	manual := deal.PropertyInputs{
		MonthlyRent:        deal.Float(2600),
		DownPaymentPercent: deal.Float(20),
		InterestRate:       deal.Float(5),
	}
	merged := deal.Merge(parsed.Inputs, manual)

	analyzer := analysis.NewAnalyzer(nil, reference.Default(), analysis.Options{})
	result := report.EvaluateInputs(nil, analyzer, "44 Bay St", merged, nil, nil)
	if result.Failed() {
		t.Fatalf("merged page failed: %v", result.Errors)
	}
	testutil.AssertClose(t, "purchase_price", result.Analysis.Property.PurchasePrice, 525000, 0)
	testutil.AssertClose(t, "monthly_rent", result.Analysis.Property.MonthlyRent, 2600, 0)
	testutil.AssertClose(t, "down_payment", result.Analysis.Acquisition.DownPaymentAmount, 105000, 0.001)
}
