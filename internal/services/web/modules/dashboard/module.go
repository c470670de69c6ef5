// Package dashboard serves the signed-in home: account switcher, active
// organization and the embedded snapshot.
package dashboard

import (
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Module provides authenticated dashboard routes.
type Module struct {
	deps module.Dependencies
}

// New returns a dashboard module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "dashboard" }

// Healthy reports whether the auth engine is wired.
func (m Module) Healthy() bool { return m.deps.Healthy() }

// Mount wires dashboard route handlers.
func (m Module) Mount() (module.Mount, error) {
	deps := m.deps.WithDefaults()
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Queries, deps.Actions), deps))
	return module.Mount{Prefix: routepath.DashboardPrefix, Handler: mux}, nil
}
