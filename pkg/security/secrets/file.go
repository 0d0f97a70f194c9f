package secrets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileSource loads a secret from a single file.
//
// The file must be a regular file readable by its owner only (0600 or
// 0400). Surrounding whitespace is trimmed. When watching is enabled the
// parent directory is watched so that atomic replacements (rename over,
// Kubernetes symlink swaps) are picked up as well as in-place writes.
//
// A file that is missing or invalid does not stop the service: Secret
// reports ErrNotConfigured until a valid file appears.
type FileSource struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	value   string
	loadErr error

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewFileSource creates a file-backed secret source and performs the first
// load. If watch is true the file is reloaded whenever it changes.
func NewFileSource(path string, watch bool) (*FileSource, error) {
	s := &FileSource{
		path:   path,
		logger: slog.Default().With("component", "secrets.file"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	s.reload()

	if !watch {
		close(s.doneCh)
		return s, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	s.watcher = watcher
	go s.watchLoop()

	s.logger.Info("watching token file", "path", path)
	return s, nil
}

// Secret implements Source.
func (s *FileSource) Secret(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.loadErr != nil {
		return "", fmt.Errorf("%w: %v", ErrNotConfigured, s.loadErr)
	}
	if s.value == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrNotConfigured, s.path)
	}
	return s.value, nil
}

// Provider implements Source.
func (s *FileSource) Provider() string {
	return "file"
}

// Reload re-reads the file immediately.
func (s *FileSource) Reload() error {
	return s.reload()
}

// Close stops the file watcher and cleans up resources.
func (s *FileSource) Close() error {
	if s.watcher == nil {
		return nil
	}
	close(s.stopCh)
	err := s.watcher.Close()
	<-s.doneCh
	return err
}

func (s *FileSource) reload() error {
	value, err := readSecretFile(s.path)

	s.mu.Lock()
	changed := value != s.value || (err == nil) != (s.loadErr == nil)
	s.value = value
	s.loadErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("token file unavailable", "path", s.path, "error", err)
		return err
	}
	if changed {
		s.logger.Info("token file loaded", "path", s.path)
	}
	return nil
}

// readSecretFile reads and validates a secret file.
func readSecretFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat secret file: %w", err)
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("secret path is not a regular file: %s", path)
	}

	mode := info.Mode().Perm()
	if mode != 0o600 && mode != 0o400 {
		return "", fmt.Errorf("insecure permissions on %s: %o (expected 0600 or 0400)", path, mode)
	}

	// #nosec G304 - operator-supplied path
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// watchLoop reloads the secret when anything in its directory changes.
func (s *FileSource) watchLoop() {
	defer close(s.doneCh)

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) == 0 {
				continue
			}

			s.logger.Debug("token file change detected",
				"file", filepath.Base(event.Name),
				"op", event.Op.String(),
			)
			_ = s.reload()

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("file watcher error", "error", err)

		case <-s.stopCh:
			return
		}
	}
}
