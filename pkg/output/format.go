// Package output provides utilities for formatting and displaying deal reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/deal-analyzer/internal/report"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/format"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// csvHeader lists the columns written by CsvFormat, one row per deal.
var csvHeader = []string{
	"deal", "score", "grade", "purchase_price", "down_payment", "mortgage_principal",
	"monthly_payment", "noi_monthly", "monthly_cash_flow", "cap_rate",
	"cash_on_cash_return", "dscr", "total_acquisition_cost", "max_offer", "warnings", "errors",
}

// Write renders the reports in the named format.
func Write(w io.Writer, outputFormat string, results []report.Report) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	}
	return fmt.Errorf("unsupported output format %s", outputFormat)
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []report.Report) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintf(w, "\n")
		}
		_, _ = fmt.Fprintf(w, "--- Results for deal %s ---\n", result.Name)
		if result.Failed() {
			for _, e := range result.Errors {
				_, _ = fmt.Fprintf(w, "error: %s\n", e)
			}
			continue
		}

		a := result.Analysis
		_, _ = p.Fprintf(w, "Score: %d (%s)\n", a.Scoring.TotalScore, a.Scoring.Grade)
		row := func(label, value string) {
			_, _ = fmt.Fprintf(w, "%-27s | %s\n", label, value)
		}
		row("Item", "Value")
		row("____", "_____")
		money := func(v float64) string { return p.Sprintf("$%.2f", v) }

		row("Purchase price", money(a.Property.PurchasePrice))
		row("Down payment", money(a.Acquisition.DownPaymentAmount))
		row("Land transfer tax", money(a.Acquisition.LandTransferTax.Total))
		row("Mortgage insurance premium", money(a.Acquisition.MortgageInsurancePremium))
		row("Closing costs", money(a.Acquisition.ClosingCostsTotal))
		row("Renovation", money(a.Acquisition.RenovationCost))
		row("Total cash required", money(a.Acquisition.TotalAcquisitionCost))
		row("Mortgage principal", money(a.Financing.MortgagePrincipal))
		row("Monthly payment", money(a.Financing.MonthlyPayment))
		row("Stress test payment", money(a.Financing.StressTestPayment))
		row("Effective gross income", money(a.CashFlow.EffectiveGrossIncome))
		row("Operating expenses", money(a.CashFlow.OperatingExpenses.Total))
		row("Net operating income", money(a.CashFlow.NOIMonthly))
		row("Monthly cash flow", money(a.CashFlow.MonthlyNet))
		row("Cap rate", p.Sprintf("%.2f%%", a.Metrics.CapRate))
		row("Cash-on-cash return", optional(a.Metrics.CashOnCashReturn, "%.2f%%"))
		row("DSCR", optional(a.Metrics.DSCR, "%.2fx"))

		if result.Qualification != nil {
			row("GDS", optional(result.Qualification.GDS, "%.2f%%"))
			row("TDS", optional(result.Qualification.TDS, "%.2f%%"))
			row("Qualifies", strconv.FormatBool(result.Qualification.Qualifies))
		}
		if offer := result.Offer; offer != nil {
			value := "n/a"
			if offer.Converged {
				value = offer.ValueDisplay
			}
			row("Max offer", fmt.Sprintf("%s (cash flow >= %s)", value, format.Currency(offer.Floor)))
			for _, note := range offer.Notes {
				_, _ = fmt.Fprintf(w, "~ %s\n", note)
			}
		}
		for _, reason := range a.Scoring.Reasons {
			_, _ = fmt.Fprintf(w, "+ %s\n", reason)
		}
		for _, warning := range a.Warnings {
			_, _ = fmt.Fprintf(w, "! %s\n", warning)
		}
	}
	return nil
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(w io.Writer, results []report.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write(csvRow(result)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// JSONFormat outputs the reports as an indented JSON array.
func JSONFormat(w io.Writer, results []report.Report) error {
	if results == nil {
		results = []report.Report{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

func csvRow(result report.Report) []string {
	if result.Failed() {
		row := make([]string, len(csvHeader))
		row[0] = result.Name
		row[len(row)-1] = strings.Join(result.Errors, "; ")
		return row
	}

	a := result.Analysis
	return []string{
		result.Name,
		strconv.Itoa(a.Scoring.TotalScore),
		a.Scoring.Grade,
		amount(a.Property.PurchasePrice),
		amount(a.Acquisition.DownPaymentAmount),
		amount(a.Financing.MortgagePrincipal),
		amount(a.Financing.MonthlyPayment),
		amount(a.CashFlow.NOIMonthly),
		amount(a.CashFlow.MonthlyNet),
		strconv.FormatFloat(a.Metrics.CapRate, 'f', 4, 64),
		optionalFloat(a.Metrics.CashOnCashReturn),
		optionalFloat(a.Metrics.DSCR),
		amount(a.Acquisition.TotalAcquisitionCost),
		maxOffer(result.Offer),
		strings.Join(a.Warnings, "; "),
		"",
	}
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func maxOffer(offer *optimization.Summary) string {
	if offer == nil || !offer.Converged {
		return ""
	}
	return amount(offer.Value)
}

func optional(v *float64, layout string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(layout, *v)
}

func optionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}
