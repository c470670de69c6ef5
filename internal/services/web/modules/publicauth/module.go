// Package publicauth serves the signed-out surface: landing, sign-in and
// sign-up, password reset, email links and the engine email hook.
package publicauth

import (
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Module provides public auth routes.
type Module struct {
	deps module.Dependencies
}

// New returns a public auth module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "publicauth" }

// Healthy reports whether the auth engine is wired.
func (m Module) Healthy() bool { return m.deps.Healthy() }

// Mount wires public auth route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.deps.WithDefaults()))
	return module.Mount{Prefix: routepath.Root, Handler: mux}, nil
}
