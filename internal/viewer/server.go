// Package viewer serves the local browser UI over a previously written
// analytical database. Everything stays on the machine: the server binds to
// localhost and only ever reads the database file it was started with.
package viewer

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"boekcli/internal/config"
	"boekcli/internal/store"
)

//go:embed web
var webFiles embed.FS

// FactTable is the trial balance fact table the viewer queries.
const FactTable = "fct_TrialBalances"

// Server is the local viewer HTTP server.
type Server struct {
	store  *store.Store
	cfg    config.ServerConfig
	logger *slog.Logger
	router *chi.Mux
}

// NewServer creates a viewer over an already opened store.
func NewServer(st *store.Store, cfg config.ServerConfig, logger *slog.Logger) (*Server, error) {
	exists, err := st.TableExists(FactTable)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("database %s has no %s table; run the trial balance transform first", st.Path(), FactTable)
	}

	s := &Server{store: st, cfg: cfg, logger: logger}
	s.setupRouter()
	return s, nil
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/meta", s.handleMeta)
		r.Get("/filters", s.handleFilters)
		r.Get("/rows", s.handleRows)
		r.Get("/rollup", s.handleRollup)
	})

	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		// The embed is part of the binary; a failure here is a build defect.
		panic(fmt.Sprintf("embedded web assets unavailable: %v", err))
	}
	r.Handle("/*", http.FileServer(http.FS(sub)))

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the server and blocks until ctx is cancelled or the listener
// fails. Port 0 asks the OS for a free port; the chosen URL is returned via
// the onReady callback before serving starts.
func (s *Server) Run(ctx context.Context, onReady func(url string)) error {
	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	url := fmt.Sprintf("http://%s", listener.Addr().String())
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	if onReady != nil {
		onReady(url)
	}
	if s.cfg.OpenBrowser {
		if err := openBrowser(url); err != nil {
			s.logger.Warn("Could not open browser", slog.String("error", err.Error()))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		s.logger.Info("Viewer stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openBrowser opens the system default browser at the given URL.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
