package organizations

import (
	"context"
	"encoding/json"
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

// newFixture mounts the module the way composition does: one handler
// behind every prefix it declares.
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
	root := http.NewServeMux()
	for _, prefix := range append([]string{mount.Prefix}, mount.AdditionalPrefixes...) {
		root.Handle(prefix, mount.Handler)
		root.Handle(strings.TrimSuffix(prefix, "/"), mount.Handler)
	}
	handler := httpx.Chain(root,
		webctx.Middleware(),
		queries.WithRequestState(),
		revalidate.Middleware(),
	)
	return fixture{engine: eng, handler: handler}
}

func (f fixture) signUp(t *testing.T, address string) *http.Cookie {
	t.Helper()
	identity, err := f.engine.SignUpEmail(context.Background(), engine.SignUpInput{Email: address, Password: "password123"})
	if err != nil {
		t.Fatalf("SignUpEmail(%q) error = %v", address, err)
	}
	return &http.Cookie{Name: sessioncookie.Name, Value: identity.SessionToken}
}

func (f fixture) ctx(session *http.Cookie) context.Context {
	return engine.WithCredential(context.Background(), session.Value)
}

func (f fixture) createOrganization(t *testing.T, session *http.Cookie, name, slug string) snapshot.OrganizationSummary {
	t.Helper()
	org, err := f.engine.CreateOrganization(f.ctx(session), name, slug)
	if err != nil {
		t.Fatalf("CreateOrganization(%q) error = %v", name, err)
	}
	return org
}

func (f fixture) fullOrganization(t *testing.T, session *http.Cookie) *snapshot.Organization {
	t.Helper()
	org, err := f.engine.GetFullOrganization(f.ctx(session))
	if err != nil {
		t.Fatalf("GetFullOrganization() error = %v", err)
	}
	return org
}

func (f fixture) post(path string, values url.Values, session *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for idx := 0; idx+1 < len(headers); idx += 2 {
		req.Header.Set(headers[idx], headers[idx+1])
	}
	if session != nil {
		req.AddCookie(session)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

// postJSON posts a form asking for the action envelope.
func (f fixture) postJSON(t *testing.T, path string, values url.Values, session *http.Cookie) map[string]any {
	t.Helper()
	rr := f.post(path, values, session, "Accept", "application/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("POST %s status = %d, want %d", path, rr.Code, http.StatusOK)
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("POST %s decode body: %v", path, err)
	}
	return payload
}
