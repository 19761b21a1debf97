package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"boekcli/internal/config"
	"boekcli/internal/infrastructure"
	"boekcli/internal/store"
	"boekcli/internal/validation"
)

func main() {
	transactionsDB := flag.String("transactions", "", "transactions database (defaults to export/transactions.db)")
	trialBalancesDB := flag.String("trialbalances", "", "trial balances database (defaults to export/trial_balances.db)")
	out := flag.String("out", "", "combined output database (defaults to export/combined.db)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *transactionsDB == "" {
		*transactionsDB = paths.TransactionsDB
	}
	if *trialBalancesDB == "" {
		*trialBalancesDB = paths.TrialBalancesDB
	}
	if *out == "" {
		*out = paths.CombinedDB
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("combine.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.NewRunLogger()

	logger.Info("Combining databases",
		slog.String("transactions", *transactionsDB),
		slog.String("trial_balances", *trialBalancesDB),
		slog.String("output", *out))
	fmt.Printf("Combining databases into %s...\n", *out)

	// Both sources must exist before anything is written; there is no
	// partial combine.
	for _, src := range []string{*transactionsDB, *trialBalancesDB} {
		if !config.FileExists(src) {
			logger.Error("Source database not found", slog.String("path", src))
			fmt.Fprintf(os.Stderr, "Error: source database %s not found\n", src)
			os.Exit(1)
		}
	}

	if err := validation.EnsureWritableDir(filepath.Dir(*out)); err != nil {
		logger.Error("Output directory check failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Start from a fresh file so reruns do not accumulate stale tables.
	if err := os.Remove(*out); err != nil && !os.IsNotExist(err) {
		logger.Error("Failed to remove existing output", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	st, err := store.Open(*out)
	if err != nil {
		logger.Error("Failed to open output database", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	fmt.Println("  Copying transactions table...")
	txCount, err := st.CopyTableFrom(*transactionsDB, "transactions")
	if err != nil {
		logger.Error("Failed to copy transactions", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("    Copied %d rows\n", txCount)

	fmt.Println("  Copying fct_TrialBalances table...")
	tbCount, err := st.CopyTableFrom(*trialBalancesDB, "fct_TrialBalances")
	if err != nil {
		logger.Error("Failed to copy trial balances", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("    Copied %d rows\n", tbCount)

	if err := st.CreateUniqueAccountCodesView("fct_TrialBalances"); err != nil {
		logger.Error("Failed to create view", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Databases combined",
		slog.Int("transaction_rows", txCount),
		slog.Int("trial_balance_rows", tbCount),
		slog.String("output", *out))
	fmt.Printf("\nCombined database created: %s\n", *out)
	fmt.Printf("  Tables: 2\n")
	fmt.Printf("  Total rows: %d\n", txCount+tbCount)
}
