package module

import (
	"context"
	"log"
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// EmailDeliverer renders and sends engine email events.
type EmailDeliverer interface {
	Deliver(ctx context.Context, event email.Event) error
}

// Dependencies carries the shared services web modules are built from.
type Dependencies struct {
	Actions *actions.Dispatcher
	Queries *queries.Loader
	// Mailer and HookSecret back the engine email hook. The hook is disabled
	// when either is missing.
	Mailer          EmailDeliverer
	HookSecret      string
	SocialProviders []string
	SchemePolicy    requestmeta.SchemePolicy
	Logger          *log.Logger
}

// Healthy reports whether the engine-backed services are wired.
func (d Dependencies) Healthy() bool {
	return d.Actions != nil && d.Queries != nil
}

// WithDefaults fills missing services with engine-unavailable stand-ins so
// routes still answer with fallbacks.
func (d Dependencies) WithDefaults() Dependencies {
	if d.Logger == nil {
		d.Logger = log.Default()
	}
	if d.Actions == nil {
		d.Actions = actions.NewDispatcher(engine.Unavailable(), actions.WithLogger(d.Logger))
	}
	if d.Queries == nil {
		d.Queries = queries.NewLoader(engine.Unavailable(), queries.WithLogger(d.Logger))
	}
	if d.SocialProviders == nil {
		d.SocialProviders = actions.SocialProviders
	}
	return d
}

// ResolveViewer returns a resolver backed by the session query.
func (d Dependencies) ResolveViewer() ResolveViewer {
	loader := d.Queries
	return func(r *http.Request) *snapshot.User {
		if loader == nil || r == nil {
			return nil
		}
		session := loader.Session(r.Context())
		if session == nil {
			return nil
		}
		user := session.User
		return &user
	}
}
