package publicauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/engine/devengine"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/webctx"
	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	"golang.org/x/crypto/bcrypt"
)

// recordingMailer captures the links the development engine sends.
type recordingMailer struct {
	mu    sync.Mutex
	links map[string]string
}

func (m *recordingMailer) record(to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links == nil {
		m.links = map[string]string{}
	}
	m.links[to] = link
	return nil
}

func (m *recordingMailer) linkFor(to string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[to]
}

func (m *recordingMailer) SendMagicLink(_ context.Context, to string, link string) error {
	return m.record(to, link)
}

func (m *recordingMailer) SendResetPassword(_ context.Context, to string, link string) error {
	return m.record(to, link)
}

func (m *recordingMailer) SendVerification(_ context.Context, to string, link string) error {
	return m.record(to, link)
}

func (m *recordingMailer) SendInvitation(_ context.Context, invitation email.Invitation) error {
	return m.record(invitation.To, invitation.InvitationID)
}

// fakeDeliverer records hook events.
type fakeDeliverer struct {
	mu     sync.Mutex
	events []email.Event
	err    error
}

func (d *fakeDeliverer) Deliver(_ context.Context, event email.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return d.err
}

func (d *fakeDeliverer) delivered() []email.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]email.Event(nil), d.events...)
}

type fixture struct {
	handler http.Handler
	mailer  *recordingMailer
}

func newFixture(t *testing.T, configure func(*module.Dependencies)) fixture {
	t.Helper()

	mailer := &recordingMailer{}
	eng := devengine.New(
		devengine.WithMailer(mailer),
		devengine.WithSecret("test-secret"),
		devengine.WithPasswordCost(bcrypt.MinCost),
	)
	deps := module.Dependencies{
		Actions: actions.NewDispatcher(eng, actions.WithNotifier(revalidate.RequestNotifier{})),
		Queries: queries.NewLoader(eng),
	}
	if configure != nil {
		configure(&deps)
	}
	mount, err := New(deps).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	handler := httpx.Chain(mount.Handler,
		webctx.Middleware(),
		queries.WithRequestState(),
		revalidate.Middleware(),
	)
	return fixture{handler: handler, mailer: mailer}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f fixture) postForm(path string, values url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return f.do(req)
}

func (f fixture) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return f.do(req)
}

// signUp registers an account and returns its session cookie.
func (f fixture) signUp(t *testing.T, address string) *http.Cookie {
	t.Helper()
	rr := f.postForm("/sign-up", url.Values{"email": {address}, "password": {"password123"}, "name": {"Ada"}})
	cookie := responseCookie(rr, sessioncookie.Name)
	if cookie == nil || cookie.Value == "" {
		t.Fatalf("sign-up set no session cookie; status = %d body = %q", rr.Code, rr.Body.String())
	}
	return cookie
}

func responseCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
