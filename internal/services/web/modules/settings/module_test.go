package settings

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

func TestModuleIDAndPrefix(t *testing.T) {
	t.Parallel()

	m := New(module.Dependencies{})
	if m.ID() != "settings" {
		t.Fatalf("ID() = %q, want %q", m.ID(), "settings")
	}
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.SettingsPrefix {
		t.Fatalf("Prefix = %q, want %q", mount.Prefix, routepath.SettingsPrefix)
	}
}

func TestSettingsPageListsSessionsWithoutTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first := f.signIn(t, "ada@example.com")
	second := f.signIn(t, "ada@example.com")

	for _, path := range []string{"/dashboard/settings", "/dashboard/settings/"} {
		rr := f.get(path, second)
		if rr.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want %d", path, rr.Code, http.StatusOK)
		}
		body := rr.Body.String()
		if strings.Contains(body, first.Value) || strings.Contains(body, second.Value) {
			t.Fatalf("GET %s leaked a session token", path)
		}
		if got := strings.Count(body, `name="sessionId"`); got != 1 {
			t.Fatalf("GET %s revoke forms = %d, want 1", path, got)
		}
	}
}

func TestSettingsWithoutSessionRedirectsToSignIn(t *testing.T) {
	t.Parallel()

	rr := newFixture(t).get("/dashboard/settings", &http.Cookie{Name: sessioncookie.Name, Value: "gone"})
	if got := rr.Header().Get("Location"); got != "/sign-in?callbackURL=%2Fdashboard%2Fsettings" {
		t.Fatalf("Location = %q", got)
	}
}

func TestUpdateAccountKeepsBlankFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")
	rr := f.post("/dashboard/settings/account", url.Values{"name": {"Ada Lovelace"}, "email": {""}}, cookie)
	if got := rr.Header().Get("Location"); got != "/dashboard/settings" {
		t.Fatalf("Location = %q, want %q", got, "/dashboard/settings")
	}
	user := f.session(t, cookie).User
	if user.Name != "Ada Lovelace" || user.Email != "ada@example.com" {
		t.Fatalf("user = %+v", user)
	}
}

func TestUpdateAccountRejectsInvalidEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")
	payload := f.postJSON(t, "/dashboard/settings/account", url.Values{"email": {"not-an-email"}}, cookie)
	if payload["success"] != false || payload["code"] != "VALIDATION_ERROR" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestSendVerificationEmailUsesSessionAddress(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")
	payload := f.postJSON(t, "/dashboard/settings/verification-email", url.Values{}, cookie)
	if payload["success"] != true {
		t.Fatalf("payload = %v", payload)
	}
	if got := f.mailer.recipients(); len(got) != 1 || got[0] != "ada@example.com" {
		t.Fatalf("recipients = %v", got)
	}
}

func TestRevokeSessionResolvesIDOnServer(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	other := f.signIn(t, "ada@example.com")
	current := f.signIn(t, "ada@example.com")
	var otherID string
	for _, session := range f.sessions(t, current) {
		if !session.Current {
			otherID = session.ID
		}
	}

	rr := f.post("/dashboard/settings/sessions/revoke", url.Values{"sessionId": {otherID}}, current)
	if got := rr.Header().Get("Location"); got != "/dashboard/settings" {
		t.Fatalf("Location = %q, want %q", got, "/dashboard/settings")
	}
	if clearedSessionCookie(rr) {
		t.Fatalf("revoking another session cleared this browser's cookie")
	}
	if got := len(f.sessions(t, current)); got != 1 {
		t.Fatalf("sessions after revoke = %d, want 1", got)
	}
	if f.session(t, other) != nil {
		t.Fatalf("revoked session still resolves")
	}
}

func TestRevokeSessionRejectsRawTokens(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	other := f.signIn(t, "ada@example.com")
	current := f.signIn(t, "ada@example.com")
	payload := f.postJSON(t, "/dashboard/settings/sessions/revoke", url.Values{"sessionId": {other.Value}}, current)
	if payload["success"] != false {
		t.Fatalf("payload = %v", payload)
	}
	if f.session(t, other) == nil {
		t.Fatalf("session revoked by raw token")
	}
}

func TestRevokeAllSessionsSignsOut(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")
	rr := f.post("/dashboard/settings/sessions/revoke-all", url.Values{}, cookie)
	if got := rr.Header().Get("Location"); got != "/sign-in" {
		t.Fatalf("Location = %q, want %q", got, "/sign-in")
	}
	if !clearedSessionCookie(rr) {
		t.Fatalf("session cookie not cleared")
	}
	if f.session(t, cookie) != nil {
		t.Fatalf("session still resolves")
	}
}

func TestDeleteAccount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")

	wrong := f.post("/dashboard/settings/account/delete", url.Values{"password": {"nope-nope"}}, cookie)
	if got := wrong.Header().Get("Location"); got != "/dashboard/settings" {
		t.Fatalf("wrong password Location = %q", got)
	}
	if clearedSessionCookie(wrong) {
		t.Fatalf("failed delete cleared the cookie")
	}

	rr := f.post("/dashboard/settings/account/delete", url.Values{"password": {"password123"}}, cookie)
	if got := rr.Header().Get("Location"); got != "/" {
		t.Fatalf("Location = %q, want %q", got, "/")
	}
	if !clearedSessionCookie(rr) {
		t.Fatalf("session cookie not cleared")
	}
}

func TestSecurityPlaceholdersReportNotImplemented(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	cookie := f.signIn(t, "ada@example.com")
	tests := []struct {
		path string
		form url.Values
	}{
		{path: "/dashboard/settings/two-factor/enable", form: url.Values{"password": {"password123"}}},
		{path: "/dashboard/settings/two-factor/verify", form: url.Values{"code": {"123456"}}},
		{path: "/dashboard/settings/two-factor/disable", form: url.Values{"password": {"password123"}}},
		{path: "/dashboard/settings/passkeys", form: url.Values{"name": {"laptop"}}},
		{path: routepath.PasskeyDelete("pk-1"), form: url.Values{}},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			payload := f.postJSON(t, tc.path, tc.form, cookie)
			if payload["success"] != false || payload["code"] != "NOT_IMPLEMENTED" {
				t.Fatalf("payload = %v", payload)
			}
		})
	}
}
