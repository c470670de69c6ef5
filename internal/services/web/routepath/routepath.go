// Package routepath stores canonical HTTP paths for web modules.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                = "/"
	Health              = "/healthz"
	Metrics             = "/metrics"
	StaticPrefix        = "/static/"
	SignIn              = "/sign-in"
	SignUp              = "/sign-up"
	SignOut             = "/sign-out"
	ForgotPassword      = "/forgot-password"
	ResetPassword       = "/reset-password"
	VerifyEmail         = "/verify-email"
	MagicLink           = "/magic-link"
	MagicLinkVerify     = "/magic-link/verify"
	SocialSignInPrefix  = "/sign-in/social/"
	SocialSignInPattern = SocialSignInPrefix + "{provider}"
	AcceptInvitePrefix  = "/accept-invitation/"
	AcceptInvitePattern = AcceptInvitePrefix + "{invitationID}"
	AuthEmailHook       = "/hooks/auth-email"

	Dashboard                 = "/dashboard"
	DashboardPrefix           = "/dashboard/"
	DashboardSnapshot         = "/dashboard/snapshot"
	DashboardActiveOrg        = "/dashboard/active-organization"
	DashboardAccountSwitch    = "/dashboard/accounts/switch"
	OrganizationsPrefix       = "/dashboard/organizations/"
	Organizations             = "/dashboard/organizations"
	OrganizationUpdatePattern = OrganizationsPrefix + "{orgID}/update"
	OrganizationDeletePattern = OrganizationsPrefix + "{orgID}/delete"
	OrganizationInvitePattern = OrganizationsPrefix + "{orgID}/invitations"
	MemberRemovePattern       = OrganizationsPrefix + "{orgID}/members/{memberID}/remove"
	MemberRolePattern         = OrganizationsPrefix + "{orgID}/members/{memberID}/role"
	InvitationsPrefix         = "/dashboard/invitations/"
	InvitationCancelPattern   = InvitationsPrefix + "{invitationID}/cancel"
	InvitationAcceptPattern   = InvitationsPrefix + "{invitationID}/accept"
	Settings                  = "/dashboard/settings"
	SettingsPrefix            = "/dashboard/settings/"
	SettingsAccount           = "/dashboard/settings/account"
	SettingsAccountDelete     = "/dashboard/settings/account/delete"
	SettingsVerification      = "/dashboard/settings/verification-email"
	SettingsSessionRevoke     = "/dashboard/settings/sessions/revoke"
	SettingsSessionRevokeAll  = "/dashboard/settings/sessions/revoke-all"
	SettingsTwoFactorEnable   = "/dashboard/settings/two-factor/enable"
	SettingsTwoFactorVerify   = "/dashboard/settings/two-factor/verify"
	SettingsTwoFactorDisable  = "/dashboard/settings/two-factor/disable"
	SettingsPasskeys          = "/dashboard/settings/passkeys"
	SettingsPasskeyDelete     = SettingsPasskeys + "/{passkeyID}/delete"
)

// SocialSignIn returns the social sign-in route for provider.
func SocialSignIn(provider string) string {
	return SocialSignInPrefix + escapeSegment(provider)
}

// AcceptInvitation returns the invitation landing route.
func AcceptInvitation(invitationID string) string {
	return AcceptInvitePrefix + escapeSegment(invitationID)
}

// Organization returns the route prefix of one organization.
func Organization(orgID string) string {
	return OrganizationsPrefix + escapeSegment(orgID)
}

// OrganizationUpdate returns the organization update route.
func OrganizationUpdate(orgID string) string {
	return Organization(orgID) + "/update"
}

// OrganizationDelete returns the organization delete route.
func OrganizationDelete(orgID string) string {
	return Organization(orgID) + "/delete"
}

// OrganizationInvite returns the organization invitation route.
func OrganizationInvite(orgID string) string {
	return Organization(orgID) + "/invitations"
}

// MemberRemove returns the member removal route.
func MemberRemove(orgID, memberID string) string {
	return Organization(orgID) + "/members/" + escapeSegment(memberID) + "/remove"
}

// MemberRole returns the member role update route.
func MemberRole(orgID, memberID string) string {
	return Organization(orgID) + "/members/" + escapeSegment(memberID) + "/role"
}

// InvitationCancel returns the invitation cancel route.
func InvitationCancel(invitationID string) string {
	return InvitationsPrefix + escapeSegment(invitationID) + "/cancel"
}

// InvitationAccept returns the invitation accept route.
func InvitationAccept(invitationID string) string {
	return InvitationsPrefix + escapeSegment(invitationID) + "/accept"
}

// PasskeyDelete returns the passkey delete route.
func PasskeyDelete(passkeyID string) string {
	return SettingsPasskeys + "/" + escapeSegment(passkeyID) + "/delete"
}

// WithQuery appends query values to path, dropping empty values.
func WithQuery(path string, pairs ...string) string {
	values := url.Values{}
	for idx := 0; idx+1 < len(pairs); idx += 2 {
		if value := strings.TrimSpace(pairs[idx+1]); value != "" {
			values.Set(pairs[idx], value)
		}
	}
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
