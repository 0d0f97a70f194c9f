package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/exports/retention"
	"mercator-hq/notesexport/pkg/exports/store"
	"mercator-hq/notesexport/pkg/security/secrets"
	"mercator-hq/notesexport/pkg/telemetry/logging"
)

// newLogger builds the process logger from the telemetry config.
func newLogger(cfg *config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	return logging.New(logging.Config{
		Level:      cfg.Level,
		Format:     cfg.Format,
		AddSource:  cfg.AddSource,
		Redact:     cfg.Redact,
		RedactKeys: cfg.RedactKeys,
		Writer:     w,
	})
}

// newPruner builds the retention pruner for cfg.
func newPruner(cfg *config.RetentionConfig) *retention.Pruner {
	return retention.NewPruner(&retention.Config{
		Enabled: cfg.Enabled,
		GroupBy: retention.GroupBy(cfg.GroupBy),
	}, time.Now)
}

// newStore builds the export store over the configured directory.
func newStore(cfg *config.Config) *store.Store {
	return store.New(&store.Config{
		Dir:      cfg.Storage.ExportsDir,
		FileMode: cfg.Storage.FilePerm(),
		DirMode:  cfg.Storage.DirPerm(),
	}, newPruner(&cfg.Retention), time.Now)
}

// newTokenSource returns where the bearer token comes from. The returned
// close function releases a watched token file.
func newTokenSource(cfg *config.AuthConfig) (secrets.Source, func() error, error) {
	if cfg.TokenFile == "" {
		return secrets.Static(cfg.Token), func() error { return nil }, nil
	}

	source, err := secrets.NewFileSource(cfg.TokenFile, cfg.WatchTokenFile)
	if err != nil {
		return nil, nil, err
	}
	return source, source.Close, nil
}

// tokenCheck reports through readiness whether a bearer token is available.
func tokenCheck(source secrets.Source) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := source.Secret(ctx)
		return err
	}
}
