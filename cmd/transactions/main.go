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
	in := flag.String("in", "", "input transaction dump .xlsx (defaults to import/dump.xlsx relative to executable)")
	out := flag.String("out", "", "output database file (defaults to export/transactions.db)")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *in == "" {
		*in = paths.GetImportPath("dump.xlsx")
	}
	if *out == "" {
		*out = paths.TransactionsDB
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("transactions.log")
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger = infrastructure.NewRunLogger()

	logger.Info("Starting transaction dump processing",
		slog.String("input", *in),
		slog.String("output", *out))
	fmt.Printf("Processing %s...\n", *in)

	if err := validation.ValidateWorkbook(*in); err != nil {
		logger.Error("Input validation failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ds, err := excel.ReadSheet(*in)
	if err != nil {
		logger.Error("Failed to read dump", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("  Loaded: %d rows, %d columns\n", ds.Len(), len(ds.Columns))

	if err := transform.Transactions(ds); err != nil {
		logger.Error("Transform failed", slog.String("error", err.Error()))
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

	count, err := st.WriteTable("transactions", ds, transform.TransactionsSchema, store.Replace)
	if err != nil {
		logger.Error("Failed to write transactions table", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Transaction dump processed",
		slog.Int("rows", count),
		slog.String("output", *out))
	fmt.Printf("  Written to: %s\n", *out)
	fmt.Printf("  Final: %d rows, %d columns\n", count, len(ds.Columns))
}
