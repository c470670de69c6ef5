package engine

import (
	"context"

	apperrors "github.com/louisbranch/spawnbot/internal/services/web/platform/errors"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// Unavailable returns an engine that fails every call with an unavailable error.
func Unavailable() Engine {
	return unavailableEngine{}
}

type unavailableEngine struct{}

func errUnavailable() error {
	return apperrors.EK(apperrors.KindUnavailable, "error.web.message.auth_engine_unavailable", "auth engine is not configured")
}

func (unavailableEngine) SignInEmail(context.Context, SignInInput) (snapshot.Identity, error) {
	return snapshot.Identity{}, errUnavailable()
}

func (unavailableEngine) SignUpEmail(context.Context, SignUpInput) (snapshot.Identity, error) {
	return snapshot.Identity{}, errUnavailable()
}

func (unavailableEngine) SignOut(context.Context) error { return errUnavailable() }

func (unavailableEngine) ForgetPassword(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableEngine) ResetPassword(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableEngine) SendVerificationEmail(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableEngine) VerifyEmail(context.Context, string) error { return errUnavailable() }

func (unavailableEngine) SendMagicLink(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableEngine) VerifyMagicLink(context.Context, string) (snapshot.Identity, error) {
	return snapshot.Identity{}, errUnavailable()
}

func (unavailableEngine) SignInSocial(context.Context, string, string) (string, error) {
	return "", errUnavailable()
}

func (unavailableEngine) GetSession(context.Context) (*snapshot.Identity, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) ListSessions(context.Context) ([]snapshot.DeviceSession, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) RevokeSession(context.Context, string) error { return errUnavailable() }

func (unavailableEngine) RevokeSessions(context.Context) error { return errUnavailable() }

func (unavailableEngine) ListDeviceSessions(context.Context) ([]snapshot.DeviceSession, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) SetActiveSession(context.Context, string) (snapshot.Identity, error) {
	return snapshot.Identity{}, errUnavailable()
}

func (unavailableEngine) CreateOrganization(context.Context, string, string) (snapshot.OrganizationSummary, error) {
	return snapshot.OrganizationSummary{}, errUnavailable()
}

func (unavailableEngine) UpdateOrganization(context.Context, string, OrganizationPatch) (snapshot.OrganizationSummary, error) {
	return snapshot.OrganizationSummary{}, errUnavailable()
}

func (unavailableEngine) DeleteOrganization(context.Context, string) error { return errUnavailable() }

func (unavailableEngine) CreateInvitation(context.Context, InvitationInput) (snapshot.Invitation, error) {
	return snapshot.Invitation{}, errUnavailable()
}

func (unavailableEngine) CancelInvitation(context.Context, string) error { return errUnavailable() }

func (unavailableEngine) RemoveMember(context.Context, string, string) error {
	return errUnavailable()
}

func (unavailableEngine) UpdateMemberRole(context.Context, string, string, snapshot.Role) (snapshot.Member, error) {
	return snapshot.Member{}, errUnavailable()
}

func (unavailableEngine) SetActiveOrganization(context.Context, string) error {
	return errUnavailable()
}

func (unavailableEngine) GetFullOrganization(context.Context) (*snapshot.Organization, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) ListOrganizations(context.Context) ([]snapshot.OrganizationSummary, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) ListInvitations(context.Context) ([]snapshot.Invitation, error) {
	return nil, errUnavailable()
}

func (unavailableEngine) UpdateUser(context.Context, UserPatch) (snapshot.User, error) {
	return snapshot.User{}, errUnavailable()
}

func (unavailableEngine) DeleteUser(context.Context, string) error { return errUnavailable() }
