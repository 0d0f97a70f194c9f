package retention

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"mercator-hq/notesexport/pkg/exports"
)

// GroupBy selects the key that retention buckets are built from.
type GroupBy string

const (
	// GroupByDay keeps one file per past day across all node names.
	GroupByDay GroupBy = "day"

	// GroupByDayAndName keeps one file per node name per past day.
	GroupByDayAndName GroupBy = "day_and_name"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// Enabled turns pruning on. When false Prune only scans.
	Enabled bool

	// GroupBy selects how past files are bucketed.
	GroupBy GroupBy
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		GroupBy: GroupByDay,
	}
}

// Result summarizes one pruning pass.
type Result struct {
	// Scanned is the number of export files found in the directory.
	Scanned int

	// Buckets is the number of past-day buckets considered.
	Buckets int

	// Deleted is the number of files removed.
	Deleted int

	// Vanished is the number of files that were already gone when removed.
	Vanished int

	// Failed is the number of files that could not be removed.
	Failed int

	// Duration is how long the pass took.
	Duration time.Duration
}

// Pruner enforces the day-bucket retention policy on an exports directory.
type Pruner struct {
	config *Config
	now    exports.Clock
	logger *slog.Logger
}

// NewPruner creates a new retention pruner. A nil config selects
// DefaultConfig and a nil clock selects time.Now.
func NewPruner(config *Config, now exports.Clock) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	if config.GroupBy == "" {
		config.GroupBy = GroupByDay
	}
	if now == nil {
		now = time.Now
	}

	return &Pruner{
		config: config,
		now:    now,
		logger: slog.Default().With("component", "exports.retention"),
	}
}

// Prune removes every past-day export except the last one in its bucket.
//
// Files from today, files dated after today and files that do not follow the
// export filename grammar are left alone. Prune never fails: listing and
// deletion errors are logged and reflected in the result.
func (p *Pruner) Prune(ctx context.Context, dir string) Result {
	start := time.Now()
	result := Result{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		p.logger.WarnContext(ctx, "failed to list exports directory",
			"dir", dir,
			"error", err,
		)
		result.Duration = time.Since(start)
		return result
	}

	today := exports.Day(p.now())
	buckets := make(map[string][]string)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file, ok := exports.ParseFilename(entry.Name())
		if !ok {
			continue
		}
		result.Scanned++

		day := file.Day()
		if day >= today {
			continue
		}

		key := p.bucketKey(file)
		buckets[key] = append(buckets[key], file.Name)
	}

	result.Buckets = len(buckets)

	if !p.config.Enabled {
		p.logger.DebugContext(ctx, "retention disabled, skipping deletion",
			"dir", dir,
			"buckets", result.Buckets,
		)
		result.Duration = time.Since(start)
		return result
	}

	for key, names := range buckets {
		sort.Strings(names)
		for _, name := range names[:len(names)-1] {
			p.remove(ctx, dir, key, name, &result)
		}
	}

	result.Duration = time.Since(start)

	if result.Deleted == 0 && result.Failed == 0 {
		p.logger.DebugContext(ctx, "no exports pruned",
			"dir", dir,
			"scanned", result.Scanned,
			"today", today,
		)
	} else {
		p.logger.InfoContext(ctx, "export pruning completed",
			"dir", dir,
			"scanned", result.Scanned,
			"buckets", result.Buckets,
			"deleted", result.Deleted,
			"vanished", result.Vanished,
			"failed", result.Failed,
			"group_by", string(p.config.GroupBy),
		)
	}

	return result
}

// remove deletes a single file and records the outcome.
func (p *Pruner) remove(ctx context.Context, dir, bucket, name string, result *Result) {
	err := os.Remove(filepath.Join(dir, name))
	switch {
	case err == nil:
		result.Deleted++
		p.logger.DebugContext(ctx, "pruned export",
			"file", name,
			"bucket", bucket,
		)
	case errors.Is(err, fs.ErrNotExist):
		result.Vanished++
	default:
		result.Failed++
		p.logger.WarnContext(ctx, "failed to prune export",
			"file", name,
			"bucket", bucket,
			"error", err,
		)
	}
}

// bucketKey returns the retention bucket a file belongs to.
func (p *Pruner) bucketKey(file exports.File) string {
	if p.config.GroupBy == GroupByDayAndName {
		// Filenames never contain '/', so it cannot collide with a node name.
		return file.Day() + "/" + file.NodeName
	}
	return file.Day()
}
