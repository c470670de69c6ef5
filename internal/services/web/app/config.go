package app

import (
	"io/fs"
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
)

// Config captures the composition inputs for the web root handler.
type Config struct {
	PublicModules    []module.Module
	ProtectedModules []module.Module
	// AuthRequired reports whether a request may reach protected modules.
	// Nil selects session cookie presence.
	AuthRequired func(*http.Request) bool
	SchemePolicy requestmeta.SchemePolicy
	// Static is served under /static/ when set.
	Static fs.FS
	// Metrics is served at /metrics when set.
	Metrics http.Handler
}
