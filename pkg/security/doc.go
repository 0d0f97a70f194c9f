/*
Package security groups the credential handling of the notes export server.

  - secrets: where the shared bearer token comes from (static value or a
    watched file)
  - auth: bearer-token authentication middleware
  - tls: optional TLS termination with certificate hot reload

# Example

	source, err := secrets.NewFileSource("/run/secrets/notes-token", true)
	if err != nil {
		return err
	}
	defer source.Close()

	authn := auth.NewBearerAuthenticator(source)
	http.Handle("/api/", auth.Middleware(authn, writeError)(handler))
*/
package security
