// Package engine defines the contract of the external authentication engine.
//
// The web service never verifies credentials or issues sessions itself. Every
// call carries the inbound credential through its context (see
// WithCredential) instead of relying on a shared client session.
package engine

import (
	"context"

	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// SignInInput carries email/password sign-in fields.
type SignInInput struct {
	Email      string
	Password   string
	RememberMe bool
}

// SignUpInput carries email/password registration fields.
type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

// InvitationInput carries the fields for a new organization invitation.
type InvitationInput struct {
	OrganizationID string
	Email          string
	Role           snapshot.Role
}

// OrganizationPatch carries optional organization fields to update.
type OrganizationPatch struct {
	Name *string
	Slug *string
	Logo *string
}

// UserPatch carries optional account fields to update.
type UserPatch struct {
	Name  *string
	Email *string
	Image *string
}

// Authenticator covers credential, email-link and social sign-in flows.
type Authenticator interface {
	SignInEmail(ctx context.Context, input SignInInput) (snapshot.Identity, error)
	SignUpEmail(ctx context.Context, input SignUpInput) (snapshot.Identity, error)
	SignOut(ctx context.Context) error
	ForgetPassword(ctx context.Context, email string, redirectTo string) error
	ResetPassword(ctx context.Context, newPassword string, token string) error
	SendVerificationEmail(ctx context.Context, email string, callbackURL string) error
	VerifyEmail(ctx context.Context, token string) error
	SendMagicLink(ctx context.Context, email string, callbackURL string) error
	VerifyMagicLink(ctx context.Context, token string) (snapshot.Identity, error)
	SignInSocial(ctx context.Context, provider string, callbackURL string) (string, error)
}

// Sessions covers session reads, revocation and multi-session switching.
type Sessions interface {
	// GetSession returns nil without error when the credential is absent,
	// expired or revoked.
	GetSession(ctx context.Context) (*snapshot.Identity, error)
	ListSessions(ctx context.Context) ([]snapshot.DeviceSession, error)
	RevokeSession(ctx context.Context, token string) error
	RevokeSessions(ctx context.Context) error
	ListDeviceSessions(ctx context.Context) ([]snapshot.DeviceSession, error)
	SetActiveSession(ctx context.Context, sessionToken string) (snapshot.Identity, error)
}

// Organizations covers organization, membership and invitation management.
type Organizations interface {
	CreateOrganization(ctx context.Context, name string, slug string) (snapshot.OrganizationSummary, error)
	UpdateOrganization(ctx context.Context, organizationID string, patch OrganizationPatch) (snapshot.OrganizationSummary, error)
	DeleteOrganization(ctx context.Context, organizationID string) error
	CreateInvitation(ctx context.Context, input InvitationInput) (snapshot.Invitation, error)
	CancelInvitation(ctx context.Context, invitationID string) error
	RemoveMember(ctx context.Context, organizationID string, memberIDOrEmail string) error
	UpdateMemberRole(ctx context.Context, organizationID string, memberID string, role snapshot.Role) (snapshot.Member, error)
	// SetActiveOrganization selects an organization for the session; an
	// empty id clears the selection.
	SetActiveOrganization(ctx context.Context, organizationID string) error
	// GetFullOrganization returns nil without error when no organization is active.
	GetFullOrganization(ctx context.Context) (*snapshot.Organization, error)
	ListOrganizations(ctx context.Context) ([]snapshot.OrganizationSummary, error)
	ListInvitations(ctx context.Context) ([]snapshot.Invitation, error)
}

// Accounts covers self-service account changes.
type Accounts interface {
	UpdateUser(ctx context.Context, patch UserPatch) (snapshot.User, error)
	DeleteUser(ctx context.Context, password string) error
}

// Engine is the full authentication engine contract.
type Engine interface {
	Authenticator
	Sessions
	Organizations
	Accounts
}
