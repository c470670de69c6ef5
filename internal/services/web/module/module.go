// Package module defines the feature contract used by web composition.
package module

import (
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// ResolveViewer resolves the signed-in user for page chrome. It returns nil
// for signed-out requests.
type ResolveViewer func(*http.Request) *snapshot.User

// Mount describes a module route mount.
type Mount struct {
	Prefix string
	// AdditionalPrefixes route more subtrees to the same handler.
	AdditionalPrefixes []string
	Handler            http.Handler
}

// Module declares the minimum contract required by web composition.
type Module interface {
	ID() string
	Mount() (Mount, error)
}

// HealthReporter is an optional interface for modules that can report their
// operational availability. Modules backed by the auth engine implement this
// so the health endpoint can report a missing engine.
type HealthReporter interface {
	Healthy() bool
}
