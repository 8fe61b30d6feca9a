package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/iwvelando/ecoprice/internal/config"
	"github.com/iwvelando/ecoprice/internal/history"
	"github.com/iwvelando/ecoprice/internal/logging"
	"github.com/iwvelando/ecoprice/internal/pricing"
	"github.com/iwvelando/ecoprice/internal/report"
	"github.com/iwvelando/ecoprice/pkg/constants"
	"github.com/iwvelando/ecoprice/pkg/output"
	"github.com/iwvelando/ecoprice/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	reportFlag := flag.Bool("report", false, "generate the narrative report even if disabled in config")
	reportOut := flag.String("report-out", "", "write the narrative report to this file")
	historyPath := flag.String("history", "", "record the run in this SQLite database")
	flag.Parse()

	// A missing .env is fine; the API key may come from the environment or config.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	requestedFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		requestedFormat = *outputFormatFlag
	}

	outputFormat, err := validation.ParseOutputFormat(requestedFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	result, err := pricing.Optimize(conf.Product, conf.Search.Policy())
	if err != nil {
		logger.Fatal("failed to optimize price",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if result.Excluded > 0 {
		logger.Warn("candidate prices excluded from the search",
			zap.String("op", "main"),
			zap.Int("excluded", result.Excluded),
		)
	}

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(result, conf.Output.CurrencySymbol)
	case constants.OutputFormatCSV:
		output.CsvFormat(result)
	case constants.OutputFormatJSON:
		if err := output.JsonFormat(result); err != nil {
			logger.Fatal("failed to render result",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runID := uuid.NewString()
	reportStatus := report.StatusSkipped
	if *reportFlag || conf.Report.Enabled {
		outcome := generateReport(ctx, logger, conf, runID, result)
		reportStatus = outcome.Status

		if outputFormat == constants.OutputFormatPretty {
			fmt.Println()
			fmt.Println("--- Narrative report ---")
			fmt.Println(report.PlainText(outcome))
		}
		if *reportOut != "" {
			if err := os.WriteFile(*reportOut, []byte(report.PlainText(outcome)), 0644); err != nil {
				logger.Error("failed to write report",
					zap.String("op", "main"),
					zap.String("path", *reportOut),
					zap.Error(err),
				)
			}
		}
	}

	recordPath := conf.History.Path
	if *historyPath != "" {
		recordPath = *historyPath
	}
	recordRun(ctx, logger, recordPath, history.NewRun(runID, conf.Product, result, string(reportStatus)))
}

// generateReport never fails the run; problems surface as a failed outcome.
func generateReport(ctx context.Context, logger *zap.Logger, conf *config.Configuration, id string, result *pricing.Result) report.Outcome {
	provider, err := report.NewProvider(conf.Report, &http.Client{})
	if err != nil {
		logger.Warn("report provider unavailable",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return report.Outcome{ID: id, Status: report.StatusFailed, Detail: err.Error()}
	}

	generator := report.NewGenerator(logger, provider, conf.Report.Timeout())
	return generator.GenerateWithID(ctx, id, report.NewFacts(conf.Product, result, conf.Output.CurrencySymbol))
}

func recordRun(ctx context.Context, logger *zap.Logger, path string, run *history.Run) {
	recorder, err := history.Open(path)
	if err != nil {
		logger.Warn("failed to open run history",
			zap.String("op", "main"),
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	defer func() {
		_ = recorder.Close()
	}()

	if err := recorder.RecordRun(ctx, run); err != nil {
		logger.Warn("failed to record run",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
