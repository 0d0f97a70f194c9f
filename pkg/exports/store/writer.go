package store

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"mercator-hq/notesexport/pkg/exports"
	"mercator-hq/notesexport/pkg/exports/retention"
	"mercator-hq/notesexport/pkg/telemetry/tracing"
)

// Write stores bundle as a new export file and then prunes the directory.
//
// It returns the filename (not the path) of the new export. Prune results do
// not affect the return value: once the file is written the write succeeded.
// Filesystem failures are returned as *exports.StorageError.
func (s *Store) Write(ctx context.Context, bundle *exports.Bundle) (string, error) {
	ctx, span := s.tracer.Start(ctx, "exports.write")
	defer span.End()

	filename, err := s.write(ctx, bundle)
	if err != nil {
		tracing.SetError(span, err)
		return "", err
	}
	tracing.SetExportAttributes(span, bundle.NodeName, filename)
	return filename, nil
}

func (s *Store) write(ctx context.Context, bundle *exports.Bundle) (string, error) {
	start := time.Now()

	if bundle == nil {
		s.recordWrite("invalid", 0, time.Since(start))
		return "", exports.NewValidationError("", "bundle is required")
	}
	if err := exports.ValidateNodeName(bundle.NodeName); err != nil {
		s.recordWrite("invalid", 0, time.Since(start))
		return "", err
	}

	data, err := bundle.MarshalIndent()
	if err != nil {
		s.recordWrite("error", 0, time.Since(start))
		return "", exports.NewStorageError("encode", bundle.NodeName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := s.config.Dir
	if err := os.MkdirAll(dir, s.config.DirMode); err != nil {
		s.recordWrite("error", 0, time.Since(start))
		return "", exports.NewStorageError("mkdir", dir, err)
	}

	filename := exports.Filename(bundle.NodeName, s.now())
	path := filepath.Join(dir, filename)

	if err := writeFileAtomic(path, data, s.config.FileMode); err != nil {
		s.recordWrite("error", 0, time.Since(start))
		return "", exports.NewStorageError("write", path, err)
	}

	s.logger.InfoContext(ctx, "export written",
		"file", filename,
		"node_name", bundle.NodeName,
		"bytes", len(data),
	)

	if s.pruner != nil {
		s.prune(ctx)
	}

	s.recordWrite("success", len(data), time.Since(start))
	return filename, nil
}

// Prune runs the pruner outside of a write, holding the same lock as Write.
// It returns an empty result when the store has no pruner.
func (s *Store) Prune(ctx context.Context) retention.Result {
	if s.pruner == nil {
		return retention.Result{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prune(ctx)
}

// prune runs one pass. Callers hold the write lock.
func (s *Store) prune(ctx context.Context) retention.Result {
	ctx, span := s.tracer.Start(ctx, "exports.prune")
	defer span.End()

	result := s.pruner.Prune(ctx, s.config.Dir)
	tracing.SetPruneAttributes(span, result.Scanned, result.Deleted, result.Failed)
	s.recordPrune(result)
	return result
}
