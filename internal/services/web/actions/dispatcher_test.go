package actions

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/metrics"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

var errTransport = errors.New("dial tcp 127.0.0.1:3000: connection refused")

func newTestDispatcher(eng engine.Engine, opts ...Option) *Dispatcher {
	base := []Option{WithLogger(log.New(io.Discard, "", 0))}
	return NewDispatcher(eng, append(base, opts...)...)
}

func signedIn() context.Context {
	return engine.WithCredential(context.Background(), "tok-1")
}

func strPtr(value string) *string { return &value }

func assertFailure[T any](t *testing.T, result actionresult.Result[T], message string, code string) {
	t.Helper()
	if result.OK() {
		t.Fatalf("result OK = true, want failure %q", message)
	}
	if result.Message() != message {
		t.Fatalf("message = %q, want %q", result.Message(), message)
	}
	if result.Code() != code {
		t.Fatalf("code = %q, want %q", result.Code(), code)
	}
}

func TestSignInMasksEngineRejections(t *testing.T) {
	t.Parallel()

	for _, rejection := range []*engine.Error{
		engine.Reject(http.StatusUnauthorized, engine.CodeInvalidCredentials, "Invalid email or password"),
		engine.Reject(http.StatusNotFound, "USER_NOT_FOUND", "User not found"),
	} {
		rejection := rejection
		eng := &fakeEngine{signInEmail: func(engine.SignInInput) (snapshot.Identity, error) { return snapshot.Identity{}, rejection }}
		result := newTestDispatcher(eng).SignIn(context.Background(), SignInRequest{Email: "a@b.com", Password: "wrong"})
		assertFailure(t, result, "Invalid credentials", CodeInvalidCredentials)
		if strings.Contains(result.Message(), "not found") {
			t.Fatalf("message %q reveals account existence", result.Message())
		}
	}
}

func TestSignInTransportFailureLogsAndFallsBack(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	eng := &fakeEngine{signInEmail: func(engine.SignInInput) (snapshot.Identity, error) { return snapshot.Identity{}, errTransport }}
	d := NewDispatcher(eng, WithLogger(log.New(&buffer, "", 0)))

	result := d.SignIn(context.Background(), SignInRequest{Email: "a@b.com", Password: "pw"})
	assertFailure(t, result, "Failed to sign in", "")
	logLine := buffer.String()
	for _, marker := range []string{"op=signIn", "connection refused"} {
		if !strings.Contains(logLine, marker) {
			t.Fatalf("log missing %q: %q", marker, logLine)
		}
	}
}

func TestSignInSuccessReturnsIdentity(t *testing.T) {
	t.Parallel()

	result := newTestDispatcher(&fakeEngine{}).SignIn(context.Background(), SignInRequest{Email: " ada@example.com ", Password: "pw"})
	if !result.OK() {
		t.Fatalf("SignIn() failed: %q", result.Message())
	}
	if result.Data().SessionToken != "tok-1" || result.Data().User.Email != "ada@example.com" {
		t.Fatalf("identity = %+v", result.Data())
	}
}

func TestValidationFailuresNeverReachEngine(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	d := newTestDispatcher(eng)
	ctx := signedIn()

	tests := []struct {
		name  string
		run   func() (bool, string, map[string]any)
		field string
	}{
		{name: "sign in without password", field: "password", run: func() (bool, string, map[string]any) {
			r := d.SignIn(ctx, SignInRequest{Email: "a@b.com"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "sign up with malformed email", field: "email", run: func() (bool, string, map[string]any) {
			r := d.SignUp(ctx, SignUpRequest{Email: "not-an-email", Password: "pw"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "create organization without name", field: "name", run: func() (bool, string, map[string]any) {
			r := d.CreateOrganization(ctx, CreateOrganizationRequest{Name: "  "})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "invite with unknown role", field: "role", run: func() (bool, string, map[string]any) {
			r := d.InviteMember(ctx, InviteMemberRequest{OrganizationID: "org-1", Email: "x@y.com", Role: "superuser"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "update role to guest", field: "role", run: func() (bool, string, map[string]any) {
			r := d.UpdateMemberRole(ctx, UpdateMemberRoleRequest{OrganizationID: "org-1", MemberID: "m-1", Role: "guest"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "update role with capitalized value", field: "role", run: func() (bool, string, map[string]any) {
			r := d.UpdateMemberRole(ctx, UpdateMemberRoleRequest{OrganizationID: "org-1", MemberID: "m-1", Role: "Admin"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "update organization without fields", field: "data", run: func() (bool, string, map[string]any) {
			r := d.UpdateOrganization(ctx, UpdateOrganizationRequest{OrganizationID: "org-1"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "update account without fields", field: "data", run: func() (bool, string, map[string]any) {
			r := d.UpdateAccount(ctx, UpdateAccountRequest{})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "delete account without password", field: "password", run: func() (bool, string, map[string]any) {
			r := d.DeleteAccount(ctx, DeleteAccountRequest{})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "magic link with external callback", field: "callbackURL", run: func() (bool, string, map[string]any) {
			r := d.SendMagicLink(ctx, MagicLinkRequest{Email: "a@b.com", CallbackURL: "https://evil.example"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "social with unknown provider", field: "provider", run: func() (bool, string, map[string]any) {
			r := d.SignInSocial(ctx, SocialSignInRequest{Provider: "myspace"})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "revoke session without token", field: "token", run: func() (bool, string, map[string]any) {
			r := d.RevokeSession(ctx, RevokeSessionRequest{})
			return r.OK(), r.Code(), r.Details()
		}},
		{name: "remove member without member", field: "memberIdOrEmail", run: func() (bool, string, map[string]any) {
			r := d.RemoveMember(ctx, RemoveMemberRequest{OrganizationID: "org-1"})
			return r.OK(), r.Code(), r.Details()
		}},
	}
	for _, tc := range tests {
		ok, code, details := tc.run()
		if ok {
			t.Fatalf("%s: expected failure", tc.name)
		}
		if code != CodeValidation {
			t.Fatalf("%s: code = %q, want %q", tc.name, code, CodeValidation)
		}
		if _, found := details[tc.field]; !found {
			t.Fatalf("%s: details = %v, want field %q", tc.name, details, tc.field)
		}
	}
	if calls := eng.called(); len(calls) != 0 {
		t.Fatalf("engine calls = %v, want none", calls)
	}
}

func TestSignUpFailures(t *testing.T) {
	t.Parallel()

	rejected := &fakeEngine{signUpEmail: func(engine.SignUpInput) (snapshot.Identity, error) {
		return snapshot.Identity{}, engine.Reject(http.StatusUnprocessableEntity, engine.CodeUserExists, "User already exists")
	}}
	assertFailure(t, newTestDispatcher(rejected).SignUp(context.Background(), SignUpRequest{Email: "a@b.com", Password: "pw"}), "User already exists", engine.CodeUserExists)

	empty := &fakeEngine{signUpEmail: func(engine.SignUpInput) (snapshot.Identity, error) { return snapshot.Identity{}, nil }}
	assertFailure(t, newTestDispatcher(empty).SignUp(context.Background(), SignUpRequest{Email: "a@b.com", Password: "pw"}), "Failed to create account", "")

	broken := &fakeEngine{signUpEmail: func(engine.SignUpInput) (snapshot.Identity, error) { return snapshot.Identity{}, errTransport }}
	assertFailure(t, newTestDispatcher(broken).SignUp(context.Background(), SignUpRequest{Email: "a@b.com", Password: "pw"}), "Failed to sign up", "")
}

func TestEmailSendsAreSuccessShapedOnRejection(t *testing.T) {
	t.Parallel()

	rejection := engine.Reject(http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	eng := &fakeEngine{forgetPasswordErr: rejection, sendVerificationErr: rejection, sendMagicLinkErr: rejection}
	d := newTestDispatcher(eng)

	reset := d.SendPasswordReset(context.Background(), PasswordResetRequest{Email: "ghost@example.com"})
	if !reset.OK() || reset.Data().Message != "Password reset email sent" {
		t.Fatalf("SendPasswordReset() = %v %q", reset.OK(), reset.Message())
	}
	if eng.lastForgetRedirect != DefaultResetRedirect {
		t.Fatalf("redirectTo = %q, want %q", eng.lastForgetRedirect, DefaultResetRedirect)
	}
	verification := d.SendVerificationEmail(signedIn(), VerificationEmailRequest{Email: "ghost@example.com"})
	if !verification.OK() || verification.Data().Message != "Verification email sent" {
		t.Fatalf("SendVerificationEmail() = %v %q", verification.OK(), verification.Message())
	}
	if eng.lastVerifyCallback != DefaultCallbackURL {
		t.Fatalf("callbackURL = %q, want %q", eng.lastVerifyCallback, DefaultCallbackURL)
	}
	magic := d.SendMagicLink(context.Background(), MagicLinkRequest{Email: "ghost@example.com"})
	if !magic.OK() || magic.Data().Message != "Magic link sent" {
		t.Fatalf("SendMagicLink() = %v %q", magic.OK(), magic.Message())
	}
	if eng.lastMagicCallback != DefaultCallbackURL {
		t.Fatalf("callbackURL = %q, want %q", eng.lastMagicCallback, DefaultCallbackURL)
	}
}

func TestEmailSendsFailOnTransportErrors(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{forgetPasswordErr: errTransport, sendVerificationErr: errTransport, sendMagicLinkErr: errTransport}
	d := newTestDispatcher(eng)

	assertFailure(t, d.SendPasswordReset(context.Background(), PasswordResetRequest{Email: "a@b.com"}), "Failed to send reset email", "")
	assertFailure(t, d.SendVerificationEmail(signedIn(), VerificationEmailRequest{Email: "a@b.com"}), "Failed to send verification email", "")
	assertFailure(t, d.SendMagicLink(context.Background(), MagicLinkRequest{Email: "a@b.com"}), "Failed to send magic link", "")
}

func TestSessionBoundOperationsRequireCredential(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	d := newTestDispatcher(eng)

	assertFailure(t, d.SendVerificationEmail(context.Background(), VerificationEmailRequest{Email: "a@b.com"}), "Failed to send verification email", CodeUnauthorized)
	assertFailure(t, d.SignOut(context.Background()), "Failed to sign out", CodeUnauthorized)
	if calls := eng.called(); len(calls) != 0 {
		t.Fatalf("engine calls = %v, want none", calls)
	}
	if result := d.SignOut(signedIn()); !result.OK() {
		t.Fatalf("SignOut() failed: %q", result.Message())
	}
}

func TestEngineMessagesPassThrough(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{
		resetPasswordErr: engine.Reject(http.StatusBadRequest, engine.CodeInvalidToken, "Invalid token"),
		verifyEmailErr:   engine.Reject(http.StatusBadRequest, engine.CodeInvalidToken, "Token expired"),
		deleteUserErr:    engine.Reject(http.StatusBadRequest, engine.CodeInvalidPassword, "Invalid password"),
		createOrganization: func(string, string) (snapshot.OrganizationSummary, error) {
			return snapshot.OrganizationSummary{}, engine.Reject(http.StatusConflict, engine.CodeSlugTaken, "Organization slug already taken")
		},
		createInvitation: func(engine.InvitationInput) (snapshot.Invitation, error) {
			return snapshot.Invitation{}, engine.Reject(http.StatusForbidden, engine.CodeForbidden, "")
		},
	}
	d := newTestDispatcher(eng)
	ctx := signedIn()

	assertFailure(t, d.ResetPassword(ctx, ResetPasswordRequest{NewPassword: "pw", Token: "t"}), "Invalid token", engine.CodeInvalidToken)
	assertFailure(t, d.VerifyEmail(ctx, VerifyEmailRequest{Token: "t"}), "Token expired", engine.CodeInvalidToken)
	assertFailure(t, d.DeleteAccount(ctx, DeleteAccountRequest{Password: "wrong"}), "Invalid password", engine.CodeInvalidPassword)
	assertFailure(t, d.CreateOrganization(ctx, CreateOrganizationRequest{Name: "Acme"}), "Organization slug already taken", engine.CodeSlugTaken)
	assertFailure(t, d.InviteMember(ctx, InviteMemberRequest{OrganizationID: "org-1", Email: "x@y.com", Role: "admin"}), "Failed to invite member", engine.CodeForbidden)
}

func TestTransportFailuresUseOperationFallbacks(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{
		deleteOrganizationErr: errTransport,
		removeMemberErr:       errTransport,
		cancelInvitationErr:   errTransport,
		setActiveOrgErr:       errTransport,
		revokeSessionErr:      errTransport,
		revokeSessionsErr:     errTransport,
		deleteUserErr:         errTransport,
		updateOrganization: func(string, engine.OrganizationPatch) (snapshot.OrganizationSummary, error) {
			return snapshot.OrganizationSummary{}, errTransport
		},
		updateMemberRole: func(string, string, snapshot.Role) (snapshot.Member, error) { return snapshot.Member{}, errTransport },
		updateUser:       func(engine.UserPatch) (snapshot.User, error) { return snapshot.User{}, errTransport },
		verifyMagicLink:  func(string) (snapshot.Identity, error) { return snapshot.Identity{}, errTransport },
		signInSocial:     func(string, string) (string, error) { return "", errTransport },
		createOrganization: func(string, string) (snapshot.OrganizationSummary, error) {
			return snapshot.OrganizationSummary{}, errTransport
		},
	}
	d := newTestDispatcher(eng)
	ctx := signedIn()

	assertFailure(t, d.CreateOrganization(ctx, CreateOrganizationRequest{Name: "Acme"}), "Failed to create organization", "")
	assertFailure(t, d.UpdateOrganization(ctx, UpdateOrganizationRequest{OrganizationID: "org-1", Name: strPtr("New")}), "Failed to update organization", "")
	assertFailure(t, d.DeleteOrganization(ctx, DeleteOrganizationRequest{OrganizationID: "org-1"}), "Failed to delete organization", "")
	assertFailure(t, d.RemoveMember(ctx, RemoveMemberRequest{OrganizationID: "org-1", MemberIDOrEmail: "m-1"}), "Failed to remove member", "")
	assertFailure(t, d.UpdateMemberRole(ctx, UpdateMemberRoleRequest{OrganizationID: "org-1", MemberID: "m-1", Role: "admin"}), "Failed to update member role", "")
	assertFailure(t, d.CancelInvitation(ctx, CancelInvitationRequest{InvitationID: "inv-1"}), "Failed to cancel invitation", "")
	assertFailure(t, d.SetActiveOrganization(ctx, SetActiveOrganizationRequest{}), "Failed to set active organization", "")
	assertFailure(t, d.RevokeSession(ctx, RevokeSessionRequest{Token: "tok-2"}), "Failed to revoke session", "")
	assertFailure(t, d.RevokeAllSessions(ctx), "Failed to revoke sessions", "")
	assertFailure(t, d.UpdateAccount(ctx, UpdateAccountRequest{Name: strPtr("Ada")}), "Failed to update account", "")
	assertFailure(t, d.DeleteAccount(ctx, DeleteAccountRequest{Password: "pw"}), "Failed to delete account", "")
	assertFailure(t, d.VerifyMagicLink(ctx, VerifyMagicLinkRequest{Token: "t"}), "Failed to verify magic link", "")
	assertFailure(t, d.SignInSocial(ctx, SocialSignInRequest{Provider: "github"}), "Failed to sign in with provider", "")
}

func TestCreateOrganizationDerivesSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		want string
	}{
		{name: "Acme Corp", want: "acme-corp"},
		{name: "  Spawn   Bot\tLabs ", want: "spawn-bot-labs"},
		{name: "Acme Corp", slug: "Custom Slug", want: "custom-slug"},
	}
	for _, tc := range tests {
		eng := &fakeEngine{}
		result := newTestDispatcher(eng).CreateOrganization(signedIn(), CreateOrganizationRequest{Name: tc.name, Slug: tc.slug})
		if !result.OK() {
			t.Fatalf("CreateOrganization(%q) failed: %q", tc.name, result.Message())
		}
		if result.Data().Slug != tc.want || eng.lastCreateSlug != tc.want {
			t.Fatalf("slug = %q (engine %q), want %q", result.Data().Slug, eng.lastCreateSlug, tc.want)
		}
	}
}

func TestInviteMemberReturnsPendingInvitationAndRevalidates(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	d := newTestDispatcher(&fakeEngine{}, WithNotifier(notifier))
	result := d.InviteMember(signedIn(), InviteMemberRequest{OrganizationID: "org-1", Email: "x@y.com", Role: "admin"})
	if !result.OK() {
		t.Fatalf("InviteMember() failed: %q", result.Message())
	}
	if result.Data().Status != snapshot.InvitationPending || result.Data().Role != snapshot.RoleAdmin {
		t.Fatalf("invitation = %+v", result.Data())
	}
	if got := notifier.signaled(); len(got) != 1 || got[0] != DashboardPath {
		t.Fatalf("revalidated = %v, want [%s]", got, DashboardPath)
	}
}

func TestRevalidationFiresOnFailureAndOnlyForOrganizationMutations(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{}
	eng := &fakeEngine{removeMemberErr: errTransport}
	d := newTestDispatcher(eng, WithNotifier(notifier))
	ctx := signedIn()

	d.RemoveMember(ctx, RemoveMemberRequest{OrganizationID: "org-1", MemberIDOrEmail: "m-1"})
	d.CancelInvitation(ctx, CancelInvitationRequest{InvitationID: "inv-1"})
	d.DeleteOrganization(ctx, DeleteOrganizationRequest{OrganizationID: "org-1"})
	d.UpdateOrganization(ctx, UpdateOrganizationRequest{OrganizationID: "org-1", Logo: strPtr("https://cdn.example/logo.png")})
	d.UpdateMemberRole(ctx, UpdateMemberRoleRequest{OrganizationID: "org-1", MemberID: "m-1", Role: "member"})
	d.SetActiveOrganization(ctx, SetActiveOrganizationRequest{OrganizationID: strPtr("org-1")})
	if got := len(notifier.signaled()); got != 6 {
		t.Fatalf("revalidations = %d, want 6", got)
	}

	d.CreateOrganization(ctx, CreateOrganizationRequest{Name: "Acme"})
	d.RevokeAllSessions(ctx)
	d.UpdateAccount(ctx, UpdateAccountRequest{Name: strPtr("Ada")})
	if got := len(notifier.signaled()); got != 6 {
		t.Fatalf("revalidations = %d after non-organization actions, want 6", got)
	}
}

func TestSetActiveOrganizationNilSelectsPersonal(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{lastActiveOrgID: "stale"}
	result := newTestDispatcher(eng).SetActiveOrganization(signedIn(), SetActiveOrganizationRequest{OrganizationID: nil})
	if !result.OK() || result.Data().Message != "Active organization updated" {
		t.Fatalf("SetActiveOrganization() = %v %q", result.OK(), result.Message())
	}
	if eng.lastActiveOrgID != "" {
		t.Fatalf("engine organization id = %q, want empty", eng.lastActiveOrgID)
	}
}

func TestSetActiveSessionResolvesTokenServerSide(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{deviceSessions: []snapshot.DeviceSession{
		{ID: "ds-1", Current: true, SessionToken: "tok-1", User: &snapshot.User{ID: "user-1"}},
		{ID: "ds-2", SessionToken: "tok-2", User: &snapshot.User{ID: "user-2"}},
	}}
	d := newTestDispatcher(eng)

	result := d.SetActiveSession(signedIn(), SetActiveSessionRequest{DeviceSessionID: "ds-2"})
	if !result.OK() || result.Data().User.ID != "user-2" {
		t.Fatalf("SetActiveSession() = %v %q %+v", result.OK(), result.Message(), result.Data())
	}
	if eng.lastActiveSession != "tok-2" {
		t.Fatalf("engine token = %q, want tok-2", eng.lastActiveSession)
	}

	assertFailure(t, d.SetActiveSession(signedIn(), SetActiveSessionRequest{DeviceSessionID: "ds-9"}), "Failed to switch account", CodeNotFound)
}

func TestStubsAlwaysFailWithoutCallingEngine(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	d := newTestDispatcher(eng)
	ctx := signedIn()

	tests := []struct {
		name    string
		result  actionresult.Result[struct{}]
		message string
	}{
		{name: "enable two-factor", result: d.EnableTwoFactor(ctx, EnableTwoFactorRequest{Password: "pw"}), message: "Two-factor functionality not implemented"},
		{name: "verify two-factor", result: d.VerifyTwoFactor(ctx, VerifyTwoFactorRequest{Code: "123456", Type: "totp"}), message: "Two-factor functionality not implemented"},
		{name: "disable two-factor", result: d.DisableTwoFactor(ctx, DisableTwoFactorRequest{}), message: "Two-factor functionality not implemented"},
		{name: "register passkey", result: d.RegisterPasskey(ctx, RegisterPasskeyRequest{Name: "laptop"}), message: "Passkey functionality not implemented"},
		{name: "delete passkey", result: d.DeletePasskey(ctx, DeletePasskeyRequest{}), message: "Passkey functionality not implemented"},
		{name: "accept invitation", result: d.AcceptInvitation(ctx, AcceptInvitationRequest{InvitationID: "inv-1"}), message: "Accept invitation functionality not implemented"},
	}
	for _, tc := range tests {
		if tc.result.OK() || tc.result.Message() != tc.message || tc.result.Code() != CodeNotImplemented {
			t.Fatalf("%s: result = %v %q %q", tc.name, tc.result.OK(), tc.result.Message(), tc.result.Code())
		}
	}
	if calls := eng.called(); len(calls) != 0 {
		t.Fatalf("engine calls = %v, want none", calls)
	}
}

func TestPanicsBecomeUnexpectedFailure(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	notifier := &fakeNotifier{}
	eng := &fakeEngine{panicOn: "DeleteOrganization"}
	d := NewDispatcher(eng, WithLogger(log.New(&buffer, "", 0)), WithNotifier(notifier))

	result := d.DeleteOrganization(signedIn(), DeleteOrganizationRequest{OrganizationID: "org-1"})
	assertFailure(t, result, actionresult.UnexpectedMessage, "")
	if !strings.Contains(buffer.String(), "op=deleteOrganization panic=") {
		t.Fatalf("panic log = %q", buffer.String())
	}
	if len(notifier.signaled()) != 1 {
		t.Fatalf("expected revalidation after panic")
	}
}

func TestNilEngineUsesFallbacks(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(nil)
	assertFailure(t, d.CreateOrganization(signedIn(), CreateOrganizationRequest{Name: "Acme"}), "Failed to create organization", "")
	assertFailure(t, d.SignIn(context.Background(), SignInRequest{Email: "a@b.com", Password: "pw"}), "Failed to sign in", "")
}

func TestActionMetricsCountOutcomes(t *testing.T) {
	t.Parallel()

	m := metrics.New(true)
	d := newTestDispatcher(&fakeEngine{}, WithMetrics(m))
	d.CreateOrganization(signedIn(), CreateOrganizationRequest{Name: "Acme"})
	d.EnableTwoFactor(signedIn(), EnableTwoFactorRequest{})

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	for _, marker := range []string{
		`spawnbot_web_actions_total{action="createOrganization",outcome="success"} 1`,
		`spawnbot_web_actions_total{action="enableTwoFactor",outcome="failure"} 1`,
	} {
		if !strings.Contains(body, marker) {
			t.Fatalf("metrics missing %q", marker)
		}
	}
}

func TestUpdateOrganizationNormalizesPatch(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	result := newTestDispatcher(eng).UpdateOrganization(signedIn(), UpdateOrganizationRequest{
		OrganizationID: "org-1",
		Name:           strPtr("  Acme Labs "),
		Slug:           strPtr("Acme Labs"),
	})
	if !result.OK() {
		t.Fatalf("UpdateOrganization() failed: %q", result.Message())
	}
	patch := eng.lastOrganizationEdit
	if patch.Name == nil || *patch.Name != "Acme Labs" || patch.Slug == nil || *patch.Slug != "acme-labs" || patch.Logo != nil {
		t.Fatalf("patch = %+v", patch)
	}
}
