package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/notesexport/pkg/cli"
	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/exports/retention"
	"mercator-hq/notesexport/pkg/security/auth"
	securityTLS "mercator-hq/notesexport/pkg/security/tls"
	"mercator-hq/notesexport/pkg/server"
	"mercator-hq/notesexport/pkg/telemetry/health"
	"mercator-hq/notesexport/pkg/telemetry/metrics"
	"mercator-hq/notesexport/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the notes export server",
	Long: `Start the notes export server with the specified configuration.

The server accepts export bundles on POST {base}/notes/export and serves node
names and latest bundles on GET {base}/notes/export/node-names.

Examples:
  # Start with defaults (and notesexport.yaml if present)
  notesexport run

  # Start with custom config
  notesexport run --config /etc/notesexport/config.yaml

  # Override listen address
  notesexport run --listen 0.0.0.0:8080

  # Validate config without starting server
  notesexport run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(err)
	}

	logger, err := newLogger(&cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(cmd, cfg)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	// Export store and retention
	exportStore := newStore(cfg)
	fmt.Fprintf(out, "✓ Exports directory: %s (retention: %s)\n", exportStore.Dir(), retentionSummary(cfg))

	// Metrics
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	exportStore.SetRecorder(collector)

	if cfg.Retention.Enabled && cfg.Retention.Schedule != "" {
		scheduler := retention.NewScheduler(cfg.Retention.Schedule, exportStore.Prune)
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer scheduler.Stop()
		fmt.Fprintf(out, "✓ Scheduled pruning: %s (UTC)\n", cfg.Retention.Schedule)
	}

	// Tracing
	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Tracing.Timeout)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()
	if tracer.Enabled() {
		fmt.Fprintf(out, "✓ Tracing enabled (OTLP %s)\n", cfg.Telemetry.Tracing.Endpoint)
	}

	// Health
	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
	checker.RegisterCheck("storage", exportStore.Check)

	// Authentication
	var authn *auth.BearerAuthenticator
	if cfg.Auth.Enabled {
		source, closeSource, err := newTokenSource(&cfg.Auth)
		if err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to load bearer token: %w", err))
		}
		defer func() { _ = closeSource() }()

		authn = auth.NewBearerAuthenticator(source)
		checker.RegisterCheck("auth", tokenCheck(source))

		if _, err := source.Secret(ctx); err != nil {
			slog.Warn("no bearer token configured, export routes will answer 500 until one is provided",
				"provider", source.Provider(),
			)
		}
		fmt.Fprintf(out, "✓ Bearer authentication enabled (%s)\n", source.Provider())
	} else {
		slog.Warn("authentication disabled, export routes are open")
	}

	// TLS
	var tlsConfig *tls.Config
	if cfg.Server.TLS.Enabled {
		reloader := securityTLS.NewCertificateReloader(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile, cfg.Server.TLS.ReloadInterval)
		if err := reloader.Start(ctx); err != nil {
			return cli.NewCommandError("run", fmt.Errorf("failed to load TLS certificate: %w", err))
		}
		if tlsConfig, err = securityTLS.ServerConfig(&cfg.Server.TLS, reloader); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	srv, err := server.New(cfg, server.Options{
		Store:   exportStore,
		Auth:    authn,
		Metrics: collector,
		Health:  checker,
		Version: versionInfo(),
		Tracer:  tracer,
		TLS:     tlsConfig,
		Logger:  logger,
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	scheme := "http"
	if tlsConfig != nil {
		scheme = "https"
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "✓ Server listening on %s://%s%s\n", scheme, cfg.Server.ListenAddress, cfg.Server.BasePath)
	if cfg.Telemetry.Health.Enabled {
		fmt.Fprintf(out, "✓ Health endpoint: %s\n", cfg.Telemetry.Health.LivenessPath)
	}
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s\n", cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	select {
	case err := <-errChan:
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		return nil
	case <-ctx.Done():
		fmt.Fprintln(out, "\nReceived shutdown signal, shutting down gracefully...")
		stop()

		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}
		if err := <-errChan; err != nil && !errors.Is(err, context.Canceled) {
			return cli.NewCommandError("run", err)
		}

		fmt.Fprintln(out, "✓ Server stopped")
		return nil
	}
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "notesexport v%s\n", Version)
	if cmd.Flags().Changed("config") {
		fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(out, "✓ Configuration loaded")

	slog.Debug("configuration",
		"listen_address", cfg.Server.ListenAddress,
		"base_path", cfg.Server.BasePath,
		"exports_dir", cfg.Storage.ExportsDir,
		"auth_enabled", cfg.Auth.Enabled,
		"tls_enabled", cfg.Server.TLS.Enabled,
	)
}

func retentionSummary(cfg *config.Config) string {
	if !cfg.Retention.Enabled {
		return "disabled"
	}
	return "one per " + cfg.Retention.GroupBy
}
