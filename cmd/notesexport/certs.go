package main

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/notesexport/pkg/cli"
	securityTLS "mercator-hq/notesexport/pkg/security/tls"
)

var certsValidateFlags struct {
	certFile string
	keyFile  string
}

var certsCmd = &cobra.Command{
	Use:   "certs",
	Short: "Inspect TLS certificates",
}

var certsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the server certificate and key",
	Long: `Validate the TLS certificate and private key the server would load.

This command checks that:
  - the certificate and key form a pair
  - the certificate is currently valid
  - the certificate does not expire within 30 days (warning only)

The files default to server.tls.cert_file and server.tls.key_file.

Examples:
  # Validate the configured pair
  notesexport certs validate

  # Validate explicit files
  notesexport certs validate --cert server.crt --key server.key`,
	Args: cobra.NoArgs,
	RunE: runCertsValidate,
}

func init() {
	rootCmd.AddCommand(certsCmd)
	certsCmd.AddCommand(certsValidateCmd)

	certsValidateCmd.Flags().StringVar(&certsValidateFlags.certFile, "cert", "", "certificate file (overrides server.tls.cert_file)")
	certsValidateCmd.Flags().StringVar(&certsValidateFlags.keyFile, "key", "", "private key file (overrides server.tls.key_file)")
}

func runCertsValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	certFile, keyFile := cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile
	if certsValidateFlags.certFile != "" {
		certFile = certsValidateFlags.certFile
	}
	if certsValidateFlags.keyFile != "" {
		keyFile = certsValidateFlags.keyFile
	}
	if certFile == "" || keyFile == "" {
		return cli.NewConfigError("server.tls", "certificate and key files are required (--cert, --key)")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Validating certificate: %s\n\n", certFile)

	pair, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		fmt.Fprintln(out, "✗ Certificate and key do NOT match")
		return cli.NewCommandError("certs validate", err)
	}
	fmt.Fprintln(out, "✓ Certificate and key match")

	now := time.Now()
	if err := securityTLS.ValidateCertificate(&pair, now); err != nil {
		fmt.Fprintf(out, "✗ %v\n", err)
		return cli.NewCommandError("certs validate", err)
	}

	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return cli.NewCommandError("certs validate", err)
	}
	fmt.Fprintf(out, "✓ Certificate valid until %s\n", leaf.NotAfter.Format("2006-01-02"))

	if days, soon := securityTLS.ExpiresSoon(leaf, now); soon {
		fmt.Fprintf(out, "⚠  Certificate expires in %d days\n", days)
	}

	fmt.Fprintln(out, "\nCertificate Details:")
	fmt.Fprintf(out, "  Subject: %s\n", leaf.Subject.CommonName)
	fmt.Fprintf(out, "  Issuer: %s\n", leaf.Issuer.CommonName)
	fmt.Fprintf(out, "  Serial: %x\n", leaf.SerialNumber)
	fmt.Fprintf(out, "  Valid From: %s\n", leaf.NotBefore.Format(time.RFC3339))
	fmt.Fprintf(out, "  Valid Until: %s\n", leaf.NotAfter.Format(time.RFC3339))
	if len(leaf.DNSNames) > 0 {
		fmt.Fprintf(out, "  SANs (DNS): %v\n", leaf.DNSNames)
	}
	if len(leaf.IPAddresses) > 0 {
		fmt.Fprintf(out, "  SANs (IP): %v\n", leaf.IPAddresses)
	}

	return nil
}
