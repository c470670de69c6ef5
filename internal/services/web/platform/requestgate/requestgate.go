// Package requestgate redirects requests for gated paths that carry no
// session cookie.
//
// The gate only checks cookie presence. Validating the session is left to the
// query layer, which treats an invalid credential as signed out.
package requestgate

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultPatterns gates the dashboard root and everything below it.
var DefaultPatterns = []string{"/dashboard", "/dashboard/:path*"}

const wildcardSuffix = "/:path*"

// Config describes one gate.
type Config struct {
	// Patterns are exact paths or "/prefix/:path*" wildcard paths.
	Patterns []string
	// Marker is the substring that identifies a session cookie.
	Marker string
	// RedirectTo is the public entry page for requests without a session.
	RedirectTo string
}

// Gate is a compiled path gate.
type Gate struct {
	exact      map[string]struct{}
	prefixes   []string
	marker     string
	redirectTo string
}

// New compiles cfg, falling back to DefaultPatterns and "/".
func New(cfg Config) (*Gate, error) {
	marker := strings.TrimSpace(cfg.Marker)
	if marker == "" {
		return nil, fmt.Errorf("session cookie marker is required")
	}
	redirectTo := strings.TrimSpace(cfg.RedirectTo)
	if redirectTo == "" {
		redirectTo = "/"
	}
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	g := &Gate{exact: map[string]struct{}{}, marker: marker, redirectTo: redirectTo}
	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}
		if !strings.HasPrefix(pattern, "/") {
			return nil, fmt.Errorf("gate pattern %q must start with /", pattern)
		}
		if prefix, ok := strings.CutSuffix(pattern, wildcardSuffix); ok {
			g.prefixes = append(g.prefixes, prefix+"/")
			continue
		}
		if strings.Contains(pattern, ":") || strings.Contains(pattern, "*") {
			return nil, fmt.Errorf("gate pattern %q: only a trailing %s wildcard is supported", pattern, wildcardSuffix)
		}
		g.exact[pattern] = struct{}{}
	}
	return g, nil
}

// Matches reports whether path is gated.
func (g *Gate) Matches(path string) bool {
	if g == nil {
		return false
	}
	if _, ok := g.exact[path]; ok {
		return true
	}
	for _, prefix := range g.prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Allows reports whether r may pass: ungated, or carrying a session cookie.
func (g *Gate) Allows(r *http.Request) bool {
	if g == nil || r == nil || r.URL == nil {
		return true
	}
	if !g.Matches(r.URL.Path) {
		return true
	}
	return HasSessionMarker(r, g.marker)
}

// Middleware redirects gated requests without a session cookie.
func (g *Gate) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.Allows(r) {
				next.ServeHTTP(w, r)
				return
			}
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Redirect", g.redirectTo)
				w.WriteHeader(http.StatusOK)
				return
			}
			http.Redirect(w, r, g.redirectTo, http.StatusFound)
		})
	}
}

// HasSessionMarker reports whether any request cookie name contains marker
// and carries a value.
func HasSessionMarker(r *http.Request, marker string) bool {
	if r == nil || marker == "" {
		return false
	}
	for _, cookie := range r.Cookies() {
		if strings.Contains(cookie.Name, marker) && strings.TrimSpace(cookie.Value) != "" {
			return true
		}
	}
	return false
}

// ParsePatterns splits a comma-separated pattern list.
func ParsePatterns(raw string) []string {
	var patterns []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			patterns = append(patterns, part)
		}
	}
	return patterns
}
