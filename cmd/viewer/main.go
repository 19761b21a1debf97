package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"boekcli/internal/config"
	"boekcli/internal/infrastructure"
	"boekcli/internal/store"
	"boekcli/internal/viewer"
)

func main() {
	dbPath := flag.String("db", "", "analytical database to view (defaults to export/combined.db)")
	port := flag.Int("port", -1, "listen port (0 = OS-assigned; default from config)")
	noBrowser := flag.Bool("no-browser", false, "do not open the browser automatically")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}

	if *dbPath == "" {
		*dbPath = paths.CombinedDB
		// Fall back to the trial balances database when nothing was
		// combined yet.
		if !config.FileExists(*dbPath) && config.FileExists(paths.TrialBalancesDB) {
			*dbPath = paths.TrialBalancesDB
		}
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
		cfg.Logging.FilePath = paths.GetLogPath("viewer.log")
	}
	if *port >= 0 {
		cfg.Server.Port = *port
	}
	if *noBrowser {
		cfg.Server.OpenBrowser = false
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, logger := infrastructure.NewRunContext(context.Background())
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting viewer",
		slog.String("database", *dbPath),
		slog.Int("port", cfg.Server.Port))

	st, err := store.OpenExisting(*dbPath)
	if err != nil {
		logger.Error("Failed to open database", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	srv, err := viewer.NewServer(st, cfg.Server, logger)
	if err != nil {
		logger.Error("Failed to start viewer", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, func(url string) {
			logger.Info("Viewer listening", slog.String("url", url))
			fmt.Printf("Viewer running at %s (Ctrl+C to stop)\n", url)
		})
	})

	if err := g.Wait(); err != nil {
		logger.Error("Viewer error", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
