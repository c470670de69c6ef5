package settings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/engine/devengine"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/webctx"
	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/crypto/bcrypt"
)

// verificationMailer counts verification emails.
type verificationMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *verificationMailer) SendMagicLink(context.Context, string, string) error     { return nil }
func (m *verificationMailer) SendResetPassword(context.Context, string, string) error { return nil }
func (m *verificationMailer) SendInvitation(context.Context, email.Invitation) error  { return nil }

func (m *verificationMailer) SendVerification(_ context.Context, to string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *verificationMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

type fixture struct {
	engine  *devengine.Engine
	mailer  *verificationMailer
	handler http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	mailer := &verificationMailer{}
	eng := devengine.New(
		devengine.WithMailer(mailer),
		devengine.WithSecret("test-secret"),
		devengine.WithPasswordCost(bcrypt.MinCost),
	)
	deps := module.Dependencies{
		Actions: actions.NewDispatcher(eng, actions.WithNotifier(revalidate.RequestNotifier{})),
		Queries: queries.NewLoader(eng),
	}
	mount, err := New(deps).Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	root := http.NewServeMux()
	root.Handle(mount.Prefix, mount.Handler)
	root.Handle(strings.TrimSuffix(mount.Prefix, "/"), mount.Handler)
	handler := httpx.Chain(root,
		webctx.Middleware(),
		queries.WithRequestState(),
		revalidate.Middleware(),
	)
	return fixture{engine: eng, mailer: mailer, handler: handler}
}

// signIn opens a session for address, creating the account on first use.
func (f fixture) signIn(t *testing.T, address string) *http.Cookie {
	t.Helper()
	ctx := context.Background()
	identity, err := f.engine.SignInEmail(ctx, engine.SignInInput{Email: address, Password: "password123"})
	if err != nil {
		identity, err = f.engine.SignUpEmail(ctx, engine.SignUpInput{Email: address, Password: "password123"})
	}
	if err != nil {
		t.Fatalf("open session for %q: %v", address, err)
	}
	return &http.Cookie{Name: sessioncookie.Name, Value: identity.SessionToken}
}

func (f fixture) session(t *testing.T, cookie *http.Cookie) *snapshot.Identity {
	t.Helper()
	identity, err := f.engine.GetSession(engine.WithCredential(context.Background(), cookie.Value))
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	return identity
}

func (f fixture) sessions(t *testing.T, cookie *http.Cookie) []snapshot.DeviceSession {
	t.Helper()
	sessions, err := f.engine.ListSessions(engine.WithCredential(context.Background(), cookie.Value))
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	return sessions
}

func (f fixture) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f fixture) post(path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f fixture) postJSON(t *testing.T, path string, values url.Values, cookie *http.Cookie) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("POST %s decode body: %v", path, err)
	}
	return payload
}

func clearedSessionCookie(rr *httptest.ResponseRecorder) bool {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == sessioncookie.Name && cookie.MaxAge < 0 {
			return true
		}
	}
	return false
}
