package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/iwvelando/deal-analyzer/internal/analysis"
	"github.com/iwvelando/deal-analyzer/internal/config"
	"github.com/iwvelando/deal-analyzer/internal/deal"
	"github.com/iwvelando/deal-analyzer/internal/listing"
	"github.com/iwvelando/deal-analyzer/internal/report"
	"github.com/iwvelando/deal-analyzer/pkg/constants"
	"github.com/iwvelando/deal-analyzer/pkg/numeric"
	"github.com/iwvelando/deal-analyzer/pkg/optimization"
	"github.com/iwvelando/deal-analyzer/pkg/output"
	"github.com/iwvelando/deal-analyzer/pkg/reference"
	"github.com/iwvelando/deal-analyzer/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	htmlPage := flag.String("html", "", "saved listing page to import; the first active deal supplies overrides")
	mlsNumber := flag.String("mls", "", "MLS number to look up in the configured listing directory")
	city := flag.String("city", "", "city override for an imported listing")
	address := flag.String("address", "", "address override for an imported listing")
	targetCashFlow := flag.String("target-cash-flow", "", "search an imported listing for the highest offer keeping this monthly cash flow")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	tables, err := conf.ReferenceTables()
	if err != nil {
		logger.Fatal("failed to load reference tables",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	var results []report.Report
	if *htmlPage != "" || *mlsNumber != "" {
		var offer *optimization.Target
		if *targetCashFlow != "" {
			floor, err := numeric.Parse(*targetCashFlow)
			if err != nil {
				logger.Fatal("invalid target cash flow",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
			offer = &optimization.Target{MonthlyCashFlow: floor}
		}
		results = []report.Report{importedReport(logger, conf, tables, *htmlPage, *mlsNumber, *city, *address, offer)}
	} else {
		results, err = report.Evaluate(logger, *conf, tables)
		if err != nil {
			logger.Fatal("failed to evaluate deals",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	err = output.Write(os.Stdout, outputFormat, results)
	if err != nil {
		logger.Fatal("failed to write results",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// importedReport analyses a single listing taken from a saved page or the
// listing directory. Inputs from the first active deal and the command line
// override the imported values.
func importedReport(logger *zap.Logger, conf *config.Configuration, tables reference.Provider, htmlPage, mlsNumber, city, address string, offer *optimization.Target) report.Report {
	var imported deal.PropertyInputs
	name := mlsNumber

	if htmlPage != "" {
		f, err := os.Open(htmlPage)
		if err != nil {
			logger.Fatal("failed to open listing page",
				zap.String("op", "main"),
				zap.String("path", htmlPage),
				zap.Error(err),
			)
		}
		page, err := listing.NewScraper(logger).Parse(f, htmlPage)
		_ = f.Close()
		if err != nil {
			logger.Fatal("failed to parse listing page",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		for _, skipped := range page.Skipped {
			logger.Warn("listing value skipped",
				zap.String("op", "main"),
				zap.String("field", skipped.Field),
				zap.String("reason", skipped.Message),
			)
		}
		imported = page.Inputs
		name = firstNonEmpty(page.MLSNumber, page.Title, htmlPage)
	} else {
		directory, err := conf.ListingDirectory(logger)
		if err != nil {
			logger.Fatal("failed to load listing directory",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		found, err := directory.Find(ctx, mlsNumber)
		cancel()
		if err != nil {
			logger.Fatal("failed to look up listing",
				zap.String("op", "main"),
				zap.String("mls", mlsNumber),
				zap.Error(err),
			)
		}
		imported = found.Inputs()
		name = found.MLSNumber
	}

	var manual deal.PropertyInputs
	var borrower *deal.Borrower
	if active := conf.ActiveDeals(); len(active) > 0 {
		inputs, err := active[0].PropertyInputs()
		if err != nil {
			logger.Fatal("failed to decode override inputs",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		manual = inputs
		borrower = active[0].Borrower
		if offer == nil {
			offer = active[0].Offer
		}
	}
	if city != "" {
		manual.City = city
	}
	if address != "" {
		manual.Address = address
	}

	analyzer := analysis.NewAnalyzer(logger, tables, conf.Analysis)
	return report.EvaluateInputs(logger, analyzer, name, deal.Merge(imported, manual), borrower, offer)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
