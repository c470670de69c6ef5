package queries

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// fakeEngine serves read calls and counts them. Write calls fall through to
// the unavailable engine.
type fakeEngine struct {
	engine.Engine

	mu     sync.Mutex
	counts map[string]*atomic.Int32

	session         *snapshot.Identity
	sessionErr      error
	organization    *snapshot.Organization
	organizationErr error
	sessions        []snapshot.DeviceSession
	deviceSessions  []snapshot.DeviceSession
	organizations   []snapshot.OrganizationSummary
	invitations     []snapshot.Invitation
	listErr         error

	invitationCredential string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{Engine: engine.Unavailable(), counts: map[string]*atomic.Int32{}}
}

func (f *fakeEngine) hit(name string) {
	f.mu.Lock()
	counter, ok := f.counts[name]
	if !ok {
		counter = &atomic.Int32{}
		f.counts[name] = counter
	}
	f.mu.Unlock()
	counter.Add(1)
}

func (f *fakeEngine) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if counter, ok := f.counts[name]; ok {
		return int(counter.Load())
	}
	return 0
}

func (f *fakeEngine) GetSession(context.Context) (*snapshot.Identity, error) {
	f.hit("GetSession")
	return f.session, f.sessionErr
}

func (f *fakeEngine) GetFullOrganization(context.Context) (*snapshot.Organization, error) {
	f.hit("GetFullOrganization")
	return f.organization, f.organizationErr
}

func (f *fakeEngine) ListSessions(context.Context) ([]snapshot.DeviceSession, error) {
	f.hit("ListSessions")
	return f.sessions, f.listErr
}

func (f *fakeEngine) ListDeviceSessions(context.Context) ([]snapshot.DeviceSession, error) {
	f.hit("ListDeviceSessions")
	return f.deviceSessions, f.listErr
}

func (f *fakeEngine) ListOrganizations(context.Context) ([]snapshot.OrganizationSummary, error) {
	f.hit("ListOrganizations")
	return f.organizations, f.listErr
}

func (f *fakeEngine) ListInvitations(ctx context.Context) ([]snapshot.Invitation, error) {
	f.hit("ListInvitations")
	credential, _ := engine.CredentialFromContext(ctx)
	f.mu.Lock()
	f.invitationCredential = credential
	f.mu.Unlock()
	return f.invitations, f.listErr
}
