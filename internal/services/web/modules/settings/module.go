// Package settings serves account settings: profile, sessions, security and
// account deletion.
package settings

import (
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Module provides authenticated settings routes.
type Module struct {
	deps module.Dependencies
}

// New returns a settings module. Without engine services the routes answer
// with engine-unavailable fallbacks.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "settings" }

// Healthy reports whether the auth engine is wired.
func (m Module) Healthy() bool { return m.deps.Healthy() }

// Mount wires settings route handlers.
func (m Module) Mount() (module.Mount, error) {
	deps := m.deps.WithDefaults()
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(newService(deps.Queries), deps))
	return module.Mount{Prefix: routepath.SettingsPrefix, Handler: mux}, nil
}
