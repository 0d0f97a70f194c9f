// Package health provides liveness, readiness and version endpoints.
//
// # Endpoints
//
//   - /health: liveness, the process is up and serving HTTP
//   - /ready: readiness, every registered component check passes
//   - /version: build information
//
// The notes export service registers two readiness checks: "storage" (the
// exports directory is usable) and "auth" (a bearer secret is configured
// when authentication is enabled). A failing check turns /ready into a 503
// without affecting /health.
//
// # Usage
//
//	checker := health.New(cfg.Telemetry.Health.CheckTimeout)
//	checker.RegisterCheck("storage", store.Check)
//	checker.Mount(mux, health.Paths{
//	    Liveness:  "/health",
//	    Readiness: "/ready",
//	    Version:   "/version",
//	}, health.VersionInfo{Version: "1.0.0"})
package health
