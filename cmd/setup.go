package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/abhisek/synapse/internal/config"
	"github.com/abhisek/synapse/internal/metrics"
	"github.com/abhisek/synapse/internal/store"
)

// env bundles what every command needs after flag parsing.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Registry
	closers []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// setup loads the config, applies flag overrides, and starts logging and
// the metrics endpoint. interactive sends logs to a file so they do not
// corrupt the terminal UI.
func setup(cmd *cobra.Command, interactive bool) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, metrics: metrics.DefaultRegistry()}
	logger, closeLog, err := newLogger(cmd, interactive)
	if err != nil {
		return nil, err
	}
	e.logger = logger
	e.closers = append(e.closers, closeLog)
	slog.SetDefault(logger)

	if cfg.Metrics.Addr != "" {
		e.closers = append(e.closers, serveMetrics(cfg.Metrics.Addr, e.metrics, logger))
	}
	return e, nil
}

// applyFlags overlays explicitly set flags on cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}

	str("user", &cfg.Source.User)
	str("metrics-addr", &cfg.Metrics.Addr)
	if flags.Changed("watch") {
		cfg.Source.Watch, _ = flags.GetBool("watch")
	}

	// Specific locations imply their source kind; --source wins.
	if flags.Changed("snapshot") {
		str("snapshot", &cfg.Source.Path)
		cfg.Source.Kind = "file"
	}
	if flags.Changed("pg") {
		str("pg", &cfg.Source.DSN)
		cfg.Source.Kind = "postgres"
	}
	if flags.Changed("url") {
		str("url", &cfg.Source.URL)
		cfg.Source.Kind = "http"
	}
	if flags.Changed("db") && !flags.Changed("source") && cfg.Source.Kind == "demo" {
		cfg.Source.Kind = "sqlite"
	}
	str("source", &cfg.Source.Kind)

	switch cfg.Source.Kind {
	case "postgres":
		if cfg.Source.DSN == "" {
			cfg.Source.DSN = os.Getenv("DATABASE_URL")
		}
		if cfg.Source.DSN == "" {
			return errors.New("postgres source needs --pg or DATABASE_URL")
		}
	case "http":
		if cfg.Source.URL == "" {
			return errors.New("http source needs --url")
		}
	}
	return nil
}

func newLogger(cmd *cobra.Command, interactive bool) (*slog.Logger, func(), error) {
	debug, _ := cmd.Flags().GetBool("debug")
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	path, _ := cmd.Flags().GetString("log-file")
	if path == "" && interactive {
		dir, err := store.DataDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "synapse.log")
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	} else if !debug {
		level = slog.LevelWarn
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeFn, nil
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *metrics.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.Prometheus(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "err", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
