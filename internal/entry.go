// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/callnote/internal/api"
	"github.com/starford/callnote/internal/compose"
	"github.com/starford/callnote/internal/extract"
	"github.com/starford/callnote/internal/index"
	"github.com/starford/callnote/internal/noteservice"
	"github.com/starford/callnote/internal/split"
	"github.com/starford/callnote/internal/sse"
	"github.com/starford/callnote/internal/storage"
	"github.com/starford/callnote/internal/workspace"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{version: "dev", out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_path", cfg.Store.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Int("warn_threshold", cfg.Notes.WarnThreshold),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, db, err := openRecords(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	// SSE broker.
	broker := sse.NewBroker(cfg.Events.HistoryThrottle, cfg.Events.DraftInterval)
	defer broker.Close()

	svc := newService(cfg, store, db, noteservice.WithNotifier(broker.PublishRecordEvent))
	ws := workspace.New(svc,
		workspace.WithAssembler(compose.NewAssembler(
			compose.WithThreshold(cfg.Notes.WarnThreshold),
			compose.WithPublisher(broker),
		)),
		workspace.WithSplitter(split.New(split.WithBudget(cfg.Notes.SplitBudget))),
		workspace.WithExtractor(extract.New(extract.WithCopyLimit(cfg.Notes.CopyLimit))),
	)
	apiRouter := api.NewRouter(svc, ws, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if err := db.Ping(); err != nil {
			logger.Warn("readiness check failed", slog.String("error", err.Error()))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	// Mount API routes under /api; the SSE endpoint is /api/events.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Pick up record files written by other processes.
	g.Go(func() error {
		if err := index.Watch(gCtx, db, store, logger, broker.PublishRecordEvent); err != nil {
			logger.Warn("record watcher stopped", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Close the broker first so open SSE streams end and Shutdown can finish.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// openRecords opens the record store and the index and brings the index up
// to date with the store.
func openRecords(cfg *Config, logger *slog.Logger) (storage.Provider, *index.DB, error) {
	store, err := storage.NewFS(cfg.Store.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}
	return store, db, nil
}

// newService builds the note service with the configured limits.
func newService(cfg *Config, store storage.Provider, db index.RecordIndex, opts ...noteservice.Option) *noteservice.Service {
	base := []noteservice.Option{
		noteservice.WithAssembler(compose.NewAssembler(compose.WithThreshold(cfg.Notes.WarnThreshold))),
		noteservice.WithSplitter(split.New(split.WithBudget(cfg.Notes.SplitBudget))),
		noteservice.WithExtractor(extract.New(extract.WithCopyLimit(cfg.Notes.CopyLimit))),
	}
	return noteservice.NewService(store, db, append(base, opts...)...)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
