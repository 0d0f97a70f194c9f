// Package server provides the HTTP server for note export uploads.
//
// # Routes
//
// The export routes are mounted under server.base_path (default "/api"):
//
//	POST {base}/notes/export                    store a bundle (201, 400, 401, 413, 500)
//	GET  {base}/notes/export/node-names         list node names ({"names": [...]})
//	GET  {base}/notes/export/node-names?name=n  latest bundle of node n (200 or 404)
//
// Both require "Authorization: Bearer <token>" unless auth is disabled.
// The health, readiness, version and metrics endpoints are mounted at their
// configured paths without authentication.
//
// # Errors
//
// Every error response has the body {"error": "<message>"}. The message is
// one of a fixed set (MsgInvalidPayload, MsgUnauthorized, MsgNotFound,
// MsgPayloadTooLarge, MsgServerError); internal causes are only logged.
//
// # Basic Usage
//
//	srv, err := server.New(cfg, server.Options{
//	    Store:   exportStore,
//	    Auth:    auth.NewBearerAuthenticator(secrets.Static(cfg.Auth.Token)),
//	    Metrics: collector,
//	    Health:  checker,
//	})
//	if err != nil {
//	    return err
//	}
//
//	go func() { errCh <- srv.Start(ctx) }()
//	...
//	srv.Shutdown(context.Background())
package server
