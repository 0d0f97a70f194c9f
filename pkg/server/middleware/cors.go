package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"mercator-hq/notesexport/pkg/config"
)

// CORS adds Cross-Origin Resource Sharing headers to every response and
// answers preflight OPTIONS requests with 204.
//
// With the default configuration every origin is allowed and the request
// headers named in Access-Control-Request-Headers are reflected back, which
// is what existing browser clients expect. Origin entries may be glob
// patterns such as "https://*.example.com".
type CORS struct {
	cfg      config.CORSConfig
	wildcard bool
	patterns []glob.Glob
}

// NewCORS compiles the origin patterns of cfg.
func NewCORS(cfg config.CORSConfig) (*CORS, error) {
	c := &CORS{cfg: cfg}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.wildcard = true
			continue
		}
		g, err := glob.Compile(origin)
		if err != nil {
			return nil, fmt.Errorf("invalid CORS origin pattern %q: %w", origin, err)
		}
		c.patterns = append(c.patterns, g)
	}
	return c, nil
}

// Handler wraps next with CORS handling.
func (c *CORS) Handler(next http.Handler) http.Handler {
	if !c.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		c.setOrigin(h, r.Header.Get("Origin"))

		if c.cfg.AllowCredentials {
			h.Set("Access-Control-Allow-Credentials", "true")
		}

		if r.Method != http.MethodOptions {
			if len(c.cfg.ExposedHeaders) > 0 {
				h.Set("Access-Control-Expose-Headers", strings.Join(c.cfg.ExposedHeaders, ","))
			}
			next.ServeHTTP(w, r)
			return
		}

		if len(c.cfg.AllowedMethods) > 0 {
			h.Set("Access-Control-Allow-Methods", strings.Join(c.cfg.AllowedMethods, ","))
		}

		if len(c.cfg.AllowedHeaders) > 0 {
			h.Set("Access-Control-Allow-Headers", strings.Join(c.cfg.AllowedHeaders, ","))
		} else if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Headers", requested)
		}

		if c.cfg.MaxAge > 0 {
			h.Set("Access-Control-Max-Age", strconv.Itoa(c.cfg.MaxAge))
		}

		h.Set("Content-Length", "0")
		w.WriteHeader(http.StatusNoContent)
	})
}

// setOrigin writes Access-Control-Allow-Origin. A bare wildcard is sent as
// "*"; any other match reflects the request origin and varies on it.
func (c *CORS) setOrigin(h http.Header, origin string) {
	if c.wildcard && !c.cfg.AllowCredentials {
		h.Set("Access-Control-Allow-Origin", "*")
		return
	}

	h.Add("Vary", "Origin")
	if origin != "" && c.Allowed(origin) {
		h.Set("Access-Control-Allow-Origin", origin)
	}
}

// Allowed reports whether origin matches the configured origins.
func (c *CORS) Allowed(origin string) bool {
	if c.wildcard {
		return true
	}
	for _, g := range c.patterns {
		if g.Match(origin) {
			return true
		}
	}
	return false
}
