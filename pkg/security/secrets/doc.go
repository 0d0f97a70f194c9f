/*
Package secrets supplies the bearer secret that guards the export routes.

# Sources

A Source returns the current value of one secret:

  - Static: a fixed value from configuration or the environment
  - FileSource: a file readable only by its owner, optionally watched with
    fsnotify and reloaded on change

Both report ErrNotConfigured when no usable value exists. Callers treat that
as a server-side misconfiguration rather than a client error.

# Basic Usage

	src, err := secrets.NewFileSource("/run/secrets/notesexport-token", true)
	if err != nil {
		return err
	}
	defer src.Close()

	token, err := src.Secret(ctx)
*/
package secrets
