/*
Package tls serves the HTTP server's certificate and reloads it when the
certificate or key file changes.

	reloader := tls.NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval)
	if err := reloader.Start(ctx); err != nil {
		return err
	}
	tlsConfig, err := tls.ServerConfig(&cfg, reloader)
*/
package tls
