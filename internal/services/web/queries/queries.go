// Package queries loads the read-side snapshots rendered by the dashboard.
//
// Reads are memoized per inbound request once WithRequestState has installed
// the request memo, so concurrent renders issue at most one engine call per
// query. Engine failures never reach callers: each query logs the cause and
// degrades to nil for single entities or an empty slice for lists.
package queries

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/metrics"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/sync/errgroup"
)

// Query names used in logs and metrics.
const (
	QuerySession        = "session"
	QuerySessions       = "sessions"
	QueryDeviceSessions = "deviceSessions"
	QueryOrganization   = "fullOrganization"
	QueryOrganizations  = "organizations"
	QueryInvitations    = "invitations"
)

// Loader reads snapshots from the auth engine with the credential carried by
// the request context.
type Loader struct {
	engine  engine.Engine
	metrics *metrics.Metrics
	logger  *log.Logger
	admins  map[string]struct{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithMetrics sets the degradation metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithLogger sets the logger for degraded reads.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithAdminUserIDs sets the user ids reported as administrators.
func WithAdminUserIDs(ids []string) Option {
	return func(l *Loader) {
		for _, id := range ids {
			if id = strings.TrimSpace(id); id != "" {
				l.admins[id] = struct{}{}
			}
		}
	}
}

// NewLoader builds a loader over eng. A nil engine degrades every read.
func NewLoader(eng engine.Engine, opts ...Option) *Loader {
	if eng == nil {
		eng = engine.Unavailable()
	}
	l := &Loader{engine: eng, logger: log.Default(), admins: map[string]struct{}{}}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

type requestState struct {
	sessionOnce        sync.Once
	session            *snapshot.Identity
	sessionsOnce       sync.Once
	sessions           []snapshot.DeviceSession
	deviceSessionsOnce sync.Once
	deviceSessions     []snapshot.DeviceSession
	organizationOnce   sync.Once
	organization       *snapshot.Organization
	organizationsOnce  sync.Once
	organizations      []snapshot.OrganizationSummary
	invitationsOnce    sync.Once
	invitations        []snapshot.Invitation
}

type requestStateKey struct{}

// WithState returns ctx carrying a fresh request memo.
func WithState(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestStateKey{}, &requestState{})
}

// WithRequestState installs a request memo for every request.
func WithRequestState() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithState(r.Context())))
		})
	}
}

func stateFrom(ctx context.Context) *requestState {
	if ctx == nil {
		return nil
	}
	state, _ := ctx.Value(requestStateKey{}).(*requestState)
	return state
}

func memo[T any](once *sync.Once, slot *T, load func() T) T {
	once.Do(func() { *slot = load() })
	return *slot
}

func signedIn(ctx context.Context) bool {
	_, ok := engine.CredentialFromContext(ctx)
	return ok
}

func (l *Loader) degrade(name string, err error) {
	l.logger.Printf("queries: op=%s err=%v", name, err)
	l.metrics.RecordQueryDegraded(name)
}

// Session returns the signed-in identity, or nil when the request carries no
// credential or the engine cannot resolve it.
func (l *Loader) Session(ctx context.Context) *snapshot.Identity {
	load := func() *snapshot.Identity {
		if !signedIn(ctx) {
			return nil
		}
		identity, err := l.engine.GetSession(ctx)
		if err != nil {
			l.degrade(QuerySession, err)
			return nil
		}
		return identity
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.sessionOnce, &state.session, load)
	}
	return load()
}

// FullOrganization returns the active organization with members and
// invitations, or nil in the Personal context.
func (l *Loader) FullOrganization(ctx context.Context) *snapshot.Organization {
	load := func() *snapshot.Organization {
		if !signedIn(ctx) {
			return nil
		}
		organization, err := l.engine.GetFullOrganization(ctx)
		if err != nil {
			l.degrade(QueryOrganization, err)
			return nil
		}
		if organization != nil {
			if err := organization.Validate(); err != nil {
				l.degrade(QueryOrganization, err)
				return nil
			}
		}
		return organization
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.organizationOnce, &state.organization, load)
	}
	return load()
}

// Sessions returns the signed-in user's sessions.
func (l *Loader) Sessions(ctx context.Context) []snapshot.DeviceSession {
	load := func() []snapshot.DeviceSession {
		return loadList(ctx, l, QuerySessions, l.engine.ListSessions)
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.sessionsOnce, &state.sessions, load)
	}
	return load()
}

// DeviceSessions returns the accounts signed in on this browser. A list that
// does not flag exactly one current session degrades to empty.
func (l *Loader) DeviceSessions(ctx context.Context) []snapshot.DeviceSession {
	load := func() []snapshot.DeviceSession {
		sessions := loadList(ctx, l, QueryDeviceSessions, l.engine.ListDeviceSessions)
		if err := snapshot.ValidateDeviceSessions(sessions); err != nil {
			l.degrade(QueryDeviceSessions, err)
			return []snapshot.DeviceSession{}
		}
		return sessions
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.deviceSessionsOnce, &state.deviceSessions, load)
	}
	return load()
}

// Organizations returns every organization the user belongs to.
func (l *Loader) Organizations(ctx context.Context) []snapshot.OrganizationSummary {
	load := func() []snapshot.OrganizationSummary {
		return loadList(ctx, l, QueryOrganizations, l.engine.ListOrganizations)
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.organizationsOnce, &state.organizations, load)
	}
	return load()
}

// Invitations returns invitations addressed to the signed-in user.
func (l *Loader) Invitations(ctx context.Context) []snapshot.Invitation {
	load := func() []snapshot.Invitation {
		return loadList(ctx, l, QueryInvitations, l.engine.ListInvitations)
	}
	if state := stateFrom(ctx); state != nil {
		return memo(&state.invitationsOnce, &state.invitations, load)
	}
	return load()
}

func loadList[T any](ctx context.Context, l *Loader, name string, list func(context.Context) ([]T, error)) []T {
	if !signedIn(ctx) {
		return []T{}
	}
	items, err := list(ctx)
	if err != nil {
		l.degrade(name, err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// TwoFactorEnabled reports the signed-in user's two-factor status.
func (l *Loader) TwoFactorEnabled(ctx context.Context) bool {
	session := l.Session(ctx)
	return session != nil && session.User.TwoFactorEnabled
}

// EmailVerified reports whether the signed-in user's email is verified.
func (l *Loader) EmailVerified(ctx context.Context) bool {
	session := l.Session(ctx)
	return session != nil && session.User.EmailVerified
}

// IsAdmin reports whether the signed-in user is a configured administrator.
func (l *Loader) IsAdmin(ctx context.Context) bool {
	session := l.Session(ctx)
	if session == nil {
		return false
	}
	_, ok := l.admins[session.User.ID]
	return ok
}

// Dashboard is everything the dashboard page renders.
type Dashboard struct {
	Session        *snapshot.Identity
	Sessions       []snapshot.DeviceSession
	DeviceSessions []snapshot.DeviceSession
	Organization   *snapshot.Organization
	Organizations  []snapshot.OrganizationSummary
	Invitations    []snapshot.Invitation
}

// SignedIn reports whether the dashboard has a session to render.
func (d Dashboard) SignedIn() bool { return d.Session != nil }

// Hydration returns the versioned payload embedded in the page.
func (d Dashboard) Hydration() snapshot.Hydration {
	return snapshot.Hydration{Identity: d.Session, Organization: d.Organization, DeviceSessions: d.DeviceSessions}
}

// Dashboard loads the dashboard reads concurrently and waits for all of
// them. Without a session the remaining reads are skipped.
func (l *Loader) Dashboard(ctx context.Context) Dashboard {
	data := Dashboard{Session: l.Session(ctx)}
	if data.Session == nil {
		return Dashboard{
			Sessions:       []snapshot.DeviceSession{},
			DeviceSessions: []snapshot.DeviceSession{},
			Organizations:  []snapshot.OrganizationSummary{},
			Invitations:    []snapshot.Invitation{},
		}
	}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { data.Sessions = l.Sessions(groupCtx); return nil })
	group.Go(func() error { data.DeviceSessions = l.DeviceSessions(groupCtx); return nil })
	group.Go(func() error { data.Organization = l.FullOrganization(groupCtx); return nil })
	group.Go(func() error { data.Organizations = l.Organizations(groupCtx); return nil })
	group.Go(func() error { data.Invitations = l.Invitations(groupCtx); return nil })
	// Reads degrade to defaults instead of failing, so Wait has nothing to report.
	_ = group.Wait()
	return data
}
