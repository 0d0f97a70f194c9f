package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"mercator-hq/notesexport/pkg/exports"
	"mercator-hq/notesexport/pkg/telemetry/tracing"
)

// ListNames returns every node name with at least one export, sorted and
// without duplicates. A missing exports directory yields an empty list.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	start := time.Now()

	s.mu.RLock()
	files, err := s.scan()
	s.mu.RUnlock()
	if err != nil {
		s.recordRead("list", "error", time.Since(start))
		return nil, err
	}

	seen := make(map[string]struct{}, len(files))
	names := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := seen[f.NodeName]; ok {
			continue
		}
		seen[f.NodeName] = struct{}{}
		names = append(names, f.NodeName)
	}
	sort.Strings(names)

	s.recordRead("list", "success", time.Since(start))
	return names, nil
}

// Files returns every export file in the directory, ordered by node name and
// then by timestamp.
func (s *Store) Files(ctx context.Context) ([]exports.File, error) {
	s.mu.RLock()
	files, err := s.scan()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].NodeName != files[j].NodeName {
			return files[i].NodeName < files[j].NodeName
		}
		return files[i].Timestamp < files[j].Timestamp
	})
	return files, nil
}

// Latest returns the newest export document for nodeName exactly as stored.
//
// The document is checked to be JSON but is not validated as a bundle.
// It returns *exports.NotFoundError when nodeName has no exports.
func (s *Store) Latest(ctx context.Context, nodeName string) (json.RawMessage, error) {
	ctx, span := s.tracer.Start(ctx, "exports.latest")
	defer span.End()
	tracing.SetExportAttributes(span, nodeName, "")

	doc, err := s.latest(ctx, nodeName)
	if err != nil {
		tracing.SetError(span, err)
	}
	return doc, err
}

func (s *Store) latest(ctx context.Context, nodeName string) (json.RawMessage, error) {
	start := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.scan()
	if err != nil {
		s.recordRead("latest", "error", time.Since(start))
		return nil, err
	}

	var matches []exports.File
	for _, f := range files {
		if f.NodeName == nodeName {
			matches = append(matches, f)
		}
	}
	if len(matches) == 0 {
		s.recordRead("latest", "not_found", time.Since(start))
		return nil, exports.NewNotFoundError(nodeName)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Timestamp < matches[j].Timestamp
	})
	latest := matches[len(matches)-1]

	path := filepath.Join(s.config.Dir, latest.Name)
	data, err := os.ReadFile(path)
	if err != nil {
		s.recordRead("latest", "error", time.Since(start))
		return nil, exports.NewStorageError("read", path, err)
	}
	if !json.Valid(data) {
		s.recordRead("latest", "error", time.Since(start))
		return nil, exports.NewStorageError("decode", path, fmt.Errorf("file is not valid JSON"))
	}

	s.logger.DebugContext(ctx, "export read",
		"file", latest.Name,
		"node_name", nodeName,
		"candidates", len(matches),
	)

	s.recordRead("latest", "success", time.Since(start))
	return json.RawMessage(data), nil
}

// scan lists the export files in the directory. Callers hold s.mu.
func (s *Store) scan() ([]exports.File, error) {
	entries, err := os.ReadDir(s.config.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, exports.NewStorageError("list", s.config.Dir, err)
	}

	files := make([]exports.File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if f, ok := exports.ParseFilename(entry.Name()); ok {
			files = append(files, f)
		}
	}
	return files, nil
}
