// Package logging configures structured logging with secret redaction.
//
// # Overview
//
// The logging package builds a log/slog logger for the service:
//   - JSON or text output at a configurable level
//   - Redaction of secrets by attribute key (token, authorization,
//     ciphertext, salt, iv, ...) and of bearer tokens inside string values
//   - Request IDs carried on the context are added to every record logged
//     with a *Context method
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.Default().With("component", "server").InfoContext(ctx, "export written",
//	    "file", "notes-export-alpha-2024-01-01T10-00-00-000Z.json",
//	    "authorization", "Bearer abc", // logged as "***"
//	)
package logging
