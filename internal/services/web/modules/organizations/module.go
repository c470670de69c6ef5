// Package organizations serves the organization, membership and invitation
// mutations posted from the dashboard.
package organizations

import (
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Module provides organization mutation routes.
type Module struct {
	deps module.Dependencies
}

// New returns an organizations module.
func New(deps module.Dependencies) Module {
	return Module{deps: deps}
}

// ID returns a stable module identifier.
func (Module) ID() string { return "organizations" }

// Healthy reports whether the auth engine is wired.
func (m Module) Healthy() bool { return m.deps.Healthy() }

// Mount wires organization route handlers.
func (m Module) Mount() (module.Mount, error) {
	mux := http.NewServeMux()
	registerRoutes(mux, newHandlers(m.deps.WithDefaults()))
	return module.Mount{
		Prefix:             routepath.OrganizationsPrefix,
		AdditionalPrefixes: []string{routepath.InvitationsPrefix},
		Handler:            mux,
	}, nil
}
