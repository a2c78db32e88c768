package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/foxzi/hackflow/internal/config"
	"github.com/foxzi/hackflow/internal/metrics"
	"github.com/foxzi/hackflow/internal/web/server"
)

// App is the main application
type App struct {
	config        *config.Config
	webServer     *server.Server
	metricsServer *metrics.Server
	logger        *slog.Logger
}

// New creates a new application
func New(cfg *config.Config) (*App, error) {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput creates an application that logs to out
func NewWithOutput(cfg *config.Config, out io.Writer) (*App, error) {
	// Setup logger
	logger := setupLogger(cfg.Logging, out)

	// Create metrics before the web server so request counters are live
	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		m := metrics.New()
		metrics.SetGlobal(m)
		metricsServer = metrics.NewServer(
			m,
			cfg.Metrics.ListenAddr,
			cfg.Metrics.Path,
			cfg.Metrics.AllowedIPs,
			logger.With("component", "metrics"),
		)
		logger.Info("metrics enabled", "addr", cfg.Metrics.ListenAddr, "path", cfg.Metrics.Path)
	}

	webServer, err := server.New(cfg, logger.With("component", "web"))
	if err != nil {
		return nil, fmt.Errorf("failed to create web server: %w", err)
	}

	if cfg.SlowModeEnabled() {
		logger.Info("slow mode enabled",
			"interval", cfg.Moderation.SlowModeInterval,
			"burst", cfg.Moderation.SlowModeBurst,
		)
	}

	return &App{
		config:        cfg,
		webServer:     webServer,
		metricsServer: metricsServer,
		logger:        logger,
	}, nil
}

// Run starts all components and waits for shutdown
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting hackflow",
		"addr", a.config.Server.ListenAddr,
		"site", a.config.Site.Name,
		"metrics", a.metricsServer != nil,
	)

	// Create context that listens for signals
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Channel to collect errors
	errCh := make(chan error, 2)

	// Start web server; it also runs the live feed hub until ctx ends
	go func() {
		if err := a.webServer.Start(ctx); err != nil {
			errCh <- fmt.Errorf("web server: %w", err)
		}
	}()

	// Start metrics server
	if a.metricsServer != nil {
		go func() {
			if err := a.metricsServer.ListenAndServe(); err != nil {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	// Wait for shutdown signal or error
	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("server error", "error", runErr)
		cancel()
	}

	// Graceful shutdown
	if err := a.Shutdown(context.Background()); err != nil {
		return err
	}
	return runErr
}

// Shutdown gracefully shuts down all components
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	// Create timeout context
	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	// Web server stops the live feed before draining requests
	if err := a.webServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("web server shutdown error", "error", err)
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics server shutdown error", "error", err)
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}

// setupLogger creates a logger based on configuration
func setupLogger(cfg config.LoggingConfig, out io.Writer) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
