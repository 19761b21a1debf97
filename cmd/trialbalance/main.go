package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"boekcli/internal/config"
	"boekcli/internal/excel"
	"boekcli/internal/infrastructure"
	"boekcli/internal/store"
	"boekcli/internal/transform"
	"boekcli/internal/validation"
)

func main() {
	in := flag.String("in", "", "input trial balance .xlsx (defaults to import/balansen.xlsx relative to executable)")
	out := flag.String("out", "", "output database file (defaults to export/trial_balances.db)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *in == "" {
		*in = paths.GetImportPath("balansen.xlsx")
	}
	if *out == "" {
		*out = paths.TrialBalancesDB
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("trialbalance.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.NewRunLogger()

	logger.Info("Starting trial balance processing",
		slog.String("input", *in),
		slog.String("output", *out))
	fmt.Printf("Loading Excel file: %s\n", *in)

	if err := validation.ValidateWorkbook(*in); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ds, err := excel.ReadSheet(*in)
	if err != nil {
		logger.Error("Failed to read trial balance", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d rows with %d columns\n", ds.Len(), len(ds.Columns))

	fact, err := transform.TrialBalances(ds)
	if err != nil {
		logger.Error("Transform failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Final dataset: %d rows\n", fact.Len())

	st, err := store.Open(*out)
	if err != nil {
		logger.Error("Failed to open output database", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	count, err := st.WriteTable("fct_TrialBalances", fact, transform.TrialBalancesSchema, store.Replace)
	if err != nil {
		logger.Error("Failed to write fact table", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := st.CreateUniqueAccountCodesView("fct_TrialBalances"); err != nil {
		logger.Error("Failed to create view", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Trial balance processed",
		slog.Int("rows", count),
		slog.String("output", *out))
	fmt.Printf("Verified: %d rows written to fct_TrialBalances table\n", count)
}
