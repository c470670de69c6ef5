package actions

import (
	"context"
	"sync"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// fakeEngine records calls and returns configured results. Unset funcs
// succeed with zero values.
type fakeEngine struct {
	mu    sync.Mutex
	calls []string

	signInEmail           func(engine.SignInInput) (snapshot.Identity, error)
	signUpEmail           func(engine.SignUpInput) (snapshot.Identity, error)
	signOutErr            error
	forgetPasswordErr     error
	resetPasswordErr      error
	sendVerificationErr   error
	verifyEmailErr        error
	sendMagicLinkErr      error
	verifyMagicLink       func(string) (snapshot.Identity, error)
	signInSocial          func(string, string) (string, error)
	createOrganization    func(string, string) (snapshot.OrganizationSummary, error)
	updateOrganization    func(string, engine.OrganizationPatch) (snapshot.OrganizationSummary, error)
	deleteOrganizationErr error
	createInvitation      func(engine.InvitationInput) (snapshot.Invitation, error)
	cancelInvitationErr   error
	removeMemberErr       error
	updateMemberRole      func(string, string, snapshot.Role) (snapshot.Member, error)
	setActiveOrgErr       error
	deviceSessions        []snapshot.DeviceSession
	deviceSessionsErr     error
	setActiveSession      func(string) (snapshot.Identity, error)
	revokeSessionErr      error
	revokeSessionsErr     error
	updateUser            func(engine.UserPatch) (snapshot.User, error)
	deleteUserErr         error

	lastForgetRedirect   string
	lastMagicCallback    string
	lastVerifyCallback   string
	lastActiveOrgID      string
	lastActiveSession    string
	lastCreateSlug       string
	lastRevokedToken     string
	lastOrganizationEdit engine.OrganizationPatch
	panicOn              string
}

func (f *fakeEngine) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
	if f.panicOn == name {
		panic("fake engine panic in " + name)
	}
}

func (f *fakeEngine) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeEngine) SignInEmail(_ context.Context, input engine.SignInInput) (snapshot.Identity, error) {
	f.record("SignInEmail")
	if f.signInEmail != nil {
		return f.signInEmail(input)
	}
	return snapshot.Identity{SessionToken: "tok-1", User: snapshot.User{ID: "user-1", Email: input.Email}}, nil
}

func (f *fakeEngine) SignUpEmail(_ context.Context, input engine.SignUpInput) (snapshot.Identity, error) {
	f.record("SignUpEmail")
	if f.signUpEmail != nil {
		return f.signUpEmail(input)
	}
	return snapshot.Identity{SessionToken: "tok-1", User: snapshot.User{ID: "user-1", Email: input.Email, Name: input.Name}}, nil
}

func (f *fakeEngine) SignOut(context.Context) error {
	f.record("SignOut")
	return f.signOutErr
}

func (f *fakeEngine) ForgetPassword(_ context.Context, _ string, redirectTo string) error {
	f.record("ForgetPassword")
	f.lastForgetRedirect = redirectTo
	return f.forgetPasswordErr
}

func (f *fakeEngine) ResetPassword(context.Context, string, string) error {
	f.record("ResetPassword")
	return f.resetPasswordErr
}

func (f *fakeEngine) SendVerificationEmail(_ context.Context, _ string, callbackURL string) error {
	f.record("SendVerificationEmail")
	f.lastVerifyCallback = callbackURL
	return f.sendVerificationErr
}

func (f *fakeEngine) VerifyEmail(context.Context, string) error {
	f.record("VerifyEmail")
	return f.verifyEmailErr
}

func (f *fakeEngine) SendMagicLink(_ context.Context, _ string, callbackURL string) error {
	f.record("SendMagicLink")
	f.lastMagicCallback = callbackURL
	return f.sendMagicLinkErr
}

func (f *fakeEngine) VerifyMagicLink(_ context.Context, token string) (snapshot.Identity, error) {
	f.record("VerifyMagicLink")
	if f.verifyMagicLink != nil {
		return f.verifyMagicLink(token)
	}
	return snapshot.Identity{SessionToken: "tok-magic", User: snapshot.User{ID: "user-1"}}, nil
}

func (f *fakeEngine) SignInSocial(_ context.Context, provider string, callbackURL string) (string, error) {
	f.record("SignInSocial")
	if f.signInSocial != nil {
		return f.signInSocial(provider, callbackURL)
	}
	return "https://accounts.example/" + provider, nil
}

func (f *fakeEngine) GetSession(context.Context) (*snapshot.Identity, error) {
	f.record("GetSession")
	return nil, nil
}

func (f *fakeEngine) ListSessions(context.Context) ([]snapshot.DeviceSession, error) {
	f.record("ListSessions")
	return nil, nil
}

func (f *fakeEngine) RevokeSession(_ context.Context, token string) error {
	f.record("RevokeSession")
	f.lastRevokedToken = token
	return f.revokeSessionErr
}

func (f *fakeEngine) RevokeSessions(context.Context) error {
	f.record("RevokeSessions")
	return f.revokeSessionsErr
}

func (f *fakeEngine) ListDeviceSessions(context.Context) ([]snapshot.DeviceSession, error) {
	f.record("ListDeviceSessions")
	return f.deviceSessions, f.deviceSessionsErr
}

func (f *fakeEngine) SetActiveSession(_ context.Context, token string) (snapshot.Identity, error) {
	f.record("SetActiveSession")
	f.lastActiveSession = token
	if f.setActiveSession != nil {
		return f.setActiveSession(token)
	}
	return snapshot.Identity{SessionToken: token, User: snapshot.User{ID: "user-2"}}, nil
}

func (f *fakeEngine) CreateOrganization(_ context.Context, name string, slug string) (snapshot.OrganizationSummary, error) {
	f.record("CreateOrganization")
	f.lastCreateSlug = slug
	if f.createOrganization != nil {
		return f.createOrganization(name, slug)
	}
	return snapshot.OrganizationSummary{ID: "org-1", Name: name, Slug: slug}, nil
}

func (f *fakeEngine) UpdateOrganization(_ context.Context, organizationID string, patch engine.OrganizationPatch) (snapshot.OrganizationSummary, error) {
	f.record("UpdateOrganization")
	f.lastOrganizationEdit = patch
	if f.updateOrganization != nil {
		return f.updateOrganization(organizationID, patch)
	}
	return snapshot.OrganizationSummary{ID: organizationID}, nil
}

func (f *fakeEngine) DeleteOrganization(context.Context, string) error {
	f.record("DeleteOrganization")
	return f.deleteOrganizationErr
}

func (f *fakeEngine) CreateInvitation(_ context.Context, input engine.InvitationInput) (snapshot.Invitation, error) {
	f.record("CreateInvitation")
	if f.createInvitation != nil {
		return f.createInvitation(input)
	}
	return snapshot.Invitation{
		ID:             "inv-1",
		OrganizationID: input.OrganizationID,
		Email:          input.Email,
		Role:           input.Role,
		Status:         snapshot.InvitationPending,
	}, nil
}

func (f *fakeEngine) CancelInvitation(context.Context, string) error {
	f.record("CancelInvitation")
	return f.cancelInvitationErr
}

func (f *fakeEngine) RemoveMember(context.Context, string, string) error {
	f.record("RemoveMember")
	return f.removeMemberErr
}

func (f *fakeEngine) UpdateMemberRole(_ context.Context, organizationID string, memberID string, role snapshot.Role) (snapshot.Member, error) {
	f.record("UpdateMemberRole")
	if f.updateMemberRole != nil {
		return f.updateMemberRole(organizationID, memberID, role)
	}
	return snapshot.Member{ID: memberID, UserID: "user-2", Role: role}, nil
}

func (f *fakeEngine) SetActiveOrganization(_ context.Context, organizationID string) error {
	f.record("SetActiveOrganization")
	f.lastActiveOrgID = organizationID
	return f.setActiveOrgErr
}

func (f *fakeEngine) GetFullOrganization(context.Context) (*snapshot.Organization, error) {
	f.record("GetFullOrganization")
	return nil, nil
}

func (f *fakeEngine) ListOrganizations(context.Context) ([]snapshot.OrganizationSummary, error) {
	f.record("ListOrganizations")
	return nil, nil
}

func (f *fakeEngine) ListInvitations(context.Context) ([]snapshot.Invitation, error) {
	f.record("ListInvitations")
	return nil, nil
}

func (f *fakeEngine) UpdateUser(_ context.Context, patch engine.UserPatch) (snapshot.User, error) {
	f.record("UpdateUser")
	if f.updateUser != nil {
		return f.updateUser(patch)
	}
	user := snapshot.User{ID: "user-1"}
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	return user, nil
}

func (f *fakeEngine) DeleteUser(context.Context, string) error {
	f.record("DeleteUser")
	return f.deleteUserErr
}

// fakeNotifier records revalidation signals.
type fakeNotifier struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNotifier) Revalidate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNotifier) signaled() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}
