/*
Package auth implements shared-secret bearer authentication.

Clients send "Authorization: Bearer <token>". The token is compared in
constant time with the value of a secrets.Source. Failures are reported as
*AuthError:

  - the header is missing, uses another scheme, or carries the wrong token:
    401 Unauthorized
  - the server has no token configured: 500, since no client can succeed

# Basic Usage

	authn := auth.NewBearerAuthenticator(secrets.Static(cfg.Auth.Token))
	protected := auth.Middleware(authn, writeError)(handler)
*/
package auth
