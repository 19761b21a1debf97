package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"boekcli/internal/config"
	"boekcli/internal/infrastructure"
	"boekcli/internal/validation"
)

func main() {
	transactions := flag.String("transactions", "", "transactions .xlsx (defaults to import/dump.xlsx relative to executable)")
	trialBalances := flag.String("trial-balances", "", "trial balances .xlsx (defaults to import/balansen.xlsx)")
	strict := flag.Bool("strict", false, "exit nonzero when coverage is below 100%")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *transactions == "" {
		*transactions = paths.GetImportPath("dump.xlsx")
	}
	if *trialBalances == "" {
		*trialBalances = paths.GetImportPath("balansen.xlsx")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("validate.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.NewRunLogger()

	logger.Info("Starting account code validation",
		slog.String("transactions", *transactions),
		slog.String("trial_balances", *trialBalances),
		slog.Bool("strict", *strict))

	for _, in := range []string{*transactions, *trialBalances} {
		if err := validation.ValidateWorkbook(in); err != nil {
			logger.Error("Input validation failed", slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	result, err := validation.Validate(*transactions, *trialBalances)
	if err != nil {
		logger.Error("Validation failed to run", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	validation.WriteReport(os.Stdout, result)

	logger.Info("Validation complete",
		slog.Bool("passed", result.Passed()),
		slog.Float64("coverage_pct", result.Coverage()),
		slog.Int("missing_codes", len(result.Missing)),
		slog.Int("extra_codes", len(result.Extra)))

	if *strict && !result.Passed() {
		os.Exit(1)
	}
}
