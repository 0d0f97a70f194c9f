package tls

import (
	"crypto/tls"
	"fmt"

	"mercator-hq/notesexport/pkg/config"
)

// ParseMinVersion converts a configured version string to its crypto/tls
// constant. TLS 1.0 and 1.1 are not accepted.
func ParseMinVersion(version string) (uint16, error) {
	switch version {
	case "1.2":
		return tls.VersionTLS12, nil
	case "1.3", "":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", version)
	}
}

// ServerConfig builds the crypto/tls configuration for the HTTP server.
// Certificates are served by the reloader so that renewed files are picked
// up without a restart.
func ServerConfig(cfg *config.TLSConfig, reloader *CertificateReloader) (*tls.Config, error) {
	minVersion, err := ParseMinVersion(cfg.MinVersion)
	if err != nil {
		return nil, err
	}

	// #nosec G402 - MinVersion is validated above and never below 1.2
	return &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificate,
	}, nil
}
