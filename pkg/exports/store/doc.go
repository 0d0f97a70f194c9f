// Package store reads and writes export files in a single exports directory.
//
// A Store combines the two sides of the directory:
//
//   - Write validates nothing beyond the node name (callers pass a parsed
//     bundle), creates the directory on demand, writes the bundle atomically
//     under its timestamped filename and then runs the retention pruner
//     before returning.
//   - ListNames and Latest derive everything from filenames; there is no
//     separate metadata store.
//
// A single RWMutex serializes writers (write plus prune) against each other
// and against readers within one process. Nothing coordinates separate
// processes sharing the same directory.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(retention.DefaultConfig(), time.Now)
//	s := store.New(store.DefaultConfig(), pruner, time.Now)
//
//	file, err := s.Write(ctx, bundle)
//	names, err := s.ListNames(ctx)
//	doc, err := s.Latest(ctx, "alpha")
package store
