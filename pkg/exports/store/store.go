package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/notesexport/pkg/exports"
	"mercator-hq/notesexport/pkg/exports/retention"
	"mercator-hq/notesexport/pkg/telemetry/tracing"
)

// Config contains configuration for the export store.
type Config struct {
	// Dir is the exports directory. Relative paths resolve against the
	// process working directory.
	Dir string

	// FileMode is the permission used for export files.
	FileMode os.FileMode

	// DirMode is the permission used when creating the exports directory.
	DirMode os.FileMode
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Dir:      "exports",
		FileMode: 0o644,
		DirMode:  0o755,
	}
}

// Pruner compacts the exports directory after a write.
type Pruner interface {
	Prune(ctx context.Context, dir string) retention.Result
}

// Recorder receives store activity for metrics.
type Recorder interface {
	RecordWrite(status string, bytes int, duration time.Duration)
	RecordRead(op, status string, duration time.Duration)
	RecordPrune(result retention.Result)
}

// Store is the Writer and Reader over one exports directory.
type Store struct {
	config   *Config
	pruner   Pruner
	now      exports.Clock
	recorder Recorder
	tracer   trace.Tracer
	logger   *slog.Logger

	mu sync.RWMutex
}

// New creates a Store. A nil config selects DefaultConfig, a nil pruner
// disables retention and a nil clock selects time.Now.
func New(config *Config, pruner Pruner, now exports.Clock) *Store {
	if config == nil {
		config = DefaultConfig()
	}
	if config.FileMode == 0 {
		config.FileMode = 0o644
	}
	if config.DirMode == 0 {
		config.DirMode = 0o755
	}
	if now == nil {
		now = time.Now
	}

	return &Store{
		config: config,
		pruner: pruner,
		now:    now,
		tracer: otel.Tracer(tracing.InstrumentationName),
		logger: slog.Default().With("component", "exports.store"),
	}
}

// SetRecorder attaches a metrics recorder. Call it before serving traffic.
func (s *Store) SetRecorder(r Recorder) {
	s.recorder = r
}

// Dir returns the exports directory.
func (s *Store) Dir() string {
	return s.config.Dir
}

// Check reports whether the exports directory is usable. A directory that
// does not exist yet is fine; the first write creates it.
func (s *Store) Check(ctx context.Context) error {
	info, err := os.Stat(s.config.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return exports.NewStorageError("stat", s.config.Dir, err)
	}
	if !info.IsDir() {
		return exports.NewStorageError("stat", s.config.Dir,
			fmt.Errorf("not a directory"))
	}
	return nil
}

func (s *Store) recordWrite(status string, n int, d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordWrite(status, n, d)
	}
}

func (s *Store) recordRead(op, status string, d time.Duration) {
	if s.recorder != nil {
		s.recorder.RecordRead(op, status, d)
	}
}

func (s *Store) recordPrune(result retention.Result) {
	if s.recorder != nil {
		s.recorder.RecordPrune(result)
	}
}
