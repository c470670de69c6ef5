package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
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

type fixture struct {
	engine  *devengine.Engine
	handler http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	eng := devengine.New(devengine.WithSecret("test-secret"), devengine.WithPasswordCost(bcrypt.MinCost))
	deps := module.Dependencies{
		Actions: actions.NewDispatcher(eng, actions.WithNotifier(revalidate.RequestNotifier{})),
		Queries: queries.NewLoader(eng),
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
	return fixture{engine: eng, handler: handler}
}

// signUp registers an account, reusing the device of existing when set.
func (f fixture) signUp(t *testing.T, address string, existing *http.Cookie) (*http.Cookie, snapshot.Identity) {
	t.Helper()
	ctx := context.Background()
	if existing != nil {
		ctx = engine.WithCredential(ctx, existing.Value)
	}
	identity, err := f.engine.SignUpEmail(ctx, engine.SignUpInput{Email: address, Password: "password123", Name: strings.Split(address, "@")[0]})
	if err != nil {
		t.Fatalf("SignUpEmail(%q) error = %v", address, err)
	}
	return &http.Cookie{Name: sessioncookie.Name, Value: identity.SessionToken}, identity
}

func (f fixture) createOrganization(t *testing.T, session *http.Cookie, name, slug string) snapshot.OrganizationSummary {
	t.Helper()
	org, err := f.engine.CreateOrganization(engine.WithCredential(context.Background(), session.Value), name, slug)
	if err != nil {
		t.Fatalf("CreateOrganization(%q) error = %v", name, err)
	}
	return org
}

func (f fixture) get(path string, session *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != nil {
		req.AddCookie(session)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f fixture) post(path string, values url.Values, session *http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if session != nil {
		req.AddCookie(session)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func (f fixture) activeOrganization(t *testing.T, session *http.Cookie) string {
	t.Helper()
	identity, err := f.engine.GetSession(engine.WithCredential(context.Background(), session.Value))
	if err != nil || identity == nil {
		t.Fatalf("GetSession() = %v, %v", identity, err)
	}
	return identity.ActiveOrganizationID
}
