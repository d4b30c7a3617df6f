package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/analytics"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/http/api"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/adapters/storage"
	app "github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/app"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/config"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/internal/domain/catalog"
	"github.com/quizfloww/quiz-de-estilo4-59-sub000/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Load the question catalog.
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Error(ctx, "failed to load catalog", logger.String("path", cfg.CatalogPath), logger.Error(err))
		return
	}
	log.Info(ctx, "catalog loaded",
		logger.String("path", cfg.CatalogPath),
		logger.Int("normal", cat.NormalCount()),
		logger.Int("strategic", cat.StrategicCount()),
	)

	// Select the session store backend.
	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to open session store", logger.String("backend", cfg.StorageBackend), logger.Error(err))
		return
	}

	// Analytics dispatcher with the structured-log sink.
	dispatcher := analytics.NewDispatcher(
		analytics.WithQueueSize(cfg.EventQueueSize),
		analytics.WithLogger(log.Named("analytics")),
	)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	// Create and start the service with configuration options
	svc := app.New(cat,
		app.WithLogger(log),
		app.WithStore(store),
		app.WithEmitter(dispatcher),
		app.WithAutoAdvanceDelay(time.Duration(cfg.AutoAdvanceDelayMS)*time.Millisecond),
		app.WithMaxSecondary(cfg.MaxSecondary),
	)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxTopStyles)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// newStore opens the configured session store backend.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return storage.NewSQLiteStore(ctx, cfg.StorageDSN)
	case config.BackendRedis:
		return storage.NewRedisStore(ctx, cfg.StorageDSN)
	default:
		return storage.NewMemoryStore(), nil
	}
}
