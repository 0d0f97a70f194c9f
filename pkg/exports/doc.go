// Package exports defines the on-disk model for encrypted note exports.
//
// # Overview
//
// Clients upload bundles that are already encrypted. The server never looks
// inside the ciphertext; it only files each bundle under the logical name the
// client supplies (nodeName) and the instant it was received.
//
// The filename is the only index:
//
//	notes-export-<nodeName>-<timestamp>.json
//
// where <timestamp> is an ISO-8601 UTC instant with ':' and '.' replaced by
// '-', for example 2024-01-01T10-00-00-000Z. Because every component of the
// timestamp is fixed width, plain string comparison orders files by creation
// time.
//
// # Packages
//
//   - exports: Bundle validation, filename grammar, error types
//   - exports/store: Writer and Reader over a single exports directory
//   - exports/retention: day-bucketed pruning run after every write
//
// # Basic Usage
//
//	bundle, err := exports.ParseBundle(body)
//	if err != nil {
//	    // *exports.ValidationError
//	}
//	name := exports.Filename(bundle.NodeName, time.Now())
package exports
