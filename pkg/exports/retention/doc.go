// Package retention compacts an exports directory into one file per past day.
//
// # Retention Policy
//
// After every write the pruner scans the exports directory and, for each
// calendar day strictly before today (UTC), keeps only the export whose
// filename sorts last. Today's files are never touched, so a burst of writes
// on the current day is always retained in full.
//
// By default a day bucket spans every node name: if "alpha" and "beta" both
// export on the same day, only the later of the two survives once that day is
// over. Set GroupBy to GroupByDayAndName to keep one file per node per day
// instead.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(retention.DefaultConfig(), time.Now)
//	result := pruner.Prune(ctx, "exports")
//	log.Printf("deleted %d files", result.Deleted)
//
// Pruning is best effort. A file that cannot be removed is logged and counted
// in Result.Failed; a file that vanished before it could be removed is counted
// in Result.Vanished. Neither stops the rest of the pass.
package retention
