package modules

import (
	"github.com/louisbranch/spawnbot/internal/services/web/modules/dashboard"
	"github.com/louisbranch/spawnbot/internal/services/web/modules/organizations"
	"github.com/louisbranch/spawnbot/internal/services/web/modules/publicauth"
	"github.com/louisbranch/spawnbot/internal/services/web/modules/settings"
)

// DefaultPublicModules returns the signed-out web modules.
func DefaultPublicModules(deps Dependencies) []Module {
	return []Module{
		publicauth.New(deps),
	}
}

// DefaultProtectedModules returns the authenticated web modules.
func DefaultProtectedModules(deps Dependencies) []Module {
	return []Module{
		dashboard.New(deps),
		organizations.New(deps),
		settings.New(deps),
	}
}
