package actions

import (
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
)

// Default redirect targets handed to the engine for email links.
const (
	DefaultResetRedirect = "/reset-password"
	DefaultCallbackURL   = "/dashboard"
)

// SocialProviders lists the accepted social sign-in providers.
var SocialProviders = []string{"google", "github", "microsoft"}

// SignInRequest signs in with email and password.
type SignInRequest struct {
	Email      string
	Password   string
	RememberMe bool
}

// Validate checks required fields.
func (r SignInRequest) Validate() error {
	var c checker
	c.required("email", r.Email, "Email is required")
	c.required("password", r.Password, "Password is required")
	return c.err()
}

// SignUpRequest registers a new account.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
}

// Validate checks required fields.
func (r SignUpRequest) Validate() error {
	var c checker
	c.email("email", r.Email)
	c.required("password", r.Password, "Password is required")
	return c.err()
}

// PasswordResetRequest asks the engine to email a reset link.
type PasswordResetRequest struct {
	Email      string
	RedirectTo string
}

// Validate checks required fields.
func (r PasswordResetRequest) Validate() error {
	var c checker
	c.required("email", r.Email, "Email is required")
	if r.RedirectTo != "" && !httpx.IsLocalPath(r.RedirectTo) {
		c.add("redirectTo", "Redirect must be a local path")
	}
	return c.err()
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	NewPassword string
	Token       string
}

// Validate checks required fields.
func (r ResetPasswordRequest) Validate() error {
	var c checker
	c.required("password", r.NewPassword, "Password is required")
	c.required("token", r.Token, "Reset token is required")
	return c.err()
}

// VerificationEmailRequest asks the engine to resend the verification email.
type VerificationEmailRequest struct {
	Email       string
	CallbackURL string
}

// Validate checks required fields.
func (r VerificationEmailRequest) Validate() error {
	var c checker
	c.required("email", r.Email, "Email is required")
	if r.CallbackURL != "" && !httpx.IsLocalPath(r.CallbackURL) {
		c.add("callbackURL", "Callback must be a local path")
	}
	return c.err()
}

// VerifyEmailRequest confirms an email address.
type VerifyEmailRequest struct {
	Token string
}

// Validate checks required fields.
func (r VerifyEmailRequest) Validate() error {
	var c checker
	c.required("token", r.Token, "Verification token is required")
	return c.err()
}

// MagicLinkRequest asks the engine to email a sign-in link.
type MagicLinkRequest struct {
	Email       string
	CallbackURL string
}

// Validate checks required fields.
func (r MagicLinkRequest) Validate() error {
	var c checker
	c.email("email", r.Email)
	if r.CallbackURL != "" && !httpx.IsLocalPath(r.CallbackURL) {
		c.add("callbackURL", "Callback must be a local path")
	}
	return c.err()
}

// VerifyMagicLinkRequest exchanges a magic-link token for a session.
type VerifyMagicLinkRequest struct {
	Token string
}

// Validate checks required fields.
func (r VerifyMagicLinkRequest) Validate() error {
	var c checker
	c.required("token", r.Token, "Magic link token is required")
	return c.err()
}

// SocialSignInRequest starts a social sign-in.
type SocialSignInRequest struct {
	Provider    string
	CallbackURL string
}

// Validate checks the provider and callback.
func (r SocialSignInRequest) Validate() error {
	var c checker
	if !isSocialProvider(r.Provider) {
		c.add("provider", "Provider must be google, github or microsoft")
	}
	if r.CallbackURL != "" && !httpx.IsLocalPath(r.CallbackURL) {
		c.add("callbackURL", "Callback must be a local path")
	}
	return c.err()
}

func isSocialProvider(provider string) bool {
	provider = strings.ToLower(strings.TrimSpace(provider))
	for _, known := range SocialProviders {
		if provider == known {
			return true
		}
	}
	return false
}

// CreateOrganizationRequest creates an organization. An empty slug is
// derived from the name.
type CreateOrganizationRequest struct {
	Name string
	Slug string
}

// Validate checks required fields.
func (r CreateOrganizationRequest) Validate() error {
	var c checker
	c.required("name", r.Name, "Organization name is required")
	if r.Slug != "" && Slugify(r.Slug) == "" {
		c.add("slug", "Slug is invalid")
	}
	return c.err()
}

// InviteMemberRequest invites an email address into an organization.
type InviteMemberRequest struct {
	OrganizationID string
	Email          string
	Role           string
}

// Validate checks required fields and the role.
func (r InviteMemberRequest) Validate() error {
	var c checker
	c.required("organizationId", r.OrganizationID, "Organization is required")
	c.email("email", r.Email)
	c.role("role", r.Role)
	return c.err()
}

// UpdateOrganizationRequest patches organization fields.
type UpdateOrganizationRequest struct {
	OrganizationID string
	Name           *string
	Slug           *string
	Logo           *string
}

// Validate checks that at least one non-empty field is present.
func (r UpdateOrganizationRequest) Validate() error {
	var c checker
	c.required("organizationId", r.OrganizationID, "Organization is required")
	if r.Name == nil && r.Slug == nil && r.Logo == nil {
		c.add("data", "Nothing to update")
	}
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		c.add("name", "Organization name is required")
	}
	if r.Slug != nil && Slugify(*r.Slug) == "" {
		c.add("slug", "Slug is invalid")
	}
	return c.err()
}

// DeleteOrganizationRequest deletes an organization.
type DeleteOrganizationRequest struct {
	OrganizationID string
}

// Validate checks required fields.
func (r DeleteOrganizationRequest) Validate() error {
	var c checker
	c.required("organizationId", r.OrganizationID, "Organization is required")
	return c.err()
}

// RemoveMemberRequest removes a member by member id or email.
type RemoveMemberRequest struct {
	OrganizationID  string
	MemberIDOrEmail string
}

// Validate checks required fields.
func (r RemoveMemberRequest) Validate() error {
	var c checker
	c.required("organizationId", r.OrganizationID, "Organization is required")
	c.required("memberIdOrEmail", r.MemberIDOrEmail, "Member is required")
	return c.err()
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	OrganizationID string
	MemberID       string
	Role           string
}

// Validate checks required fields and the role.
func (r UpdateMemberRoleRequest) Validate() error {
	var c checker
	c.required("organizationId", r.OrganizationID, "Organization is required")
	c.required("memberId", r.MemberID, "Member is required")
	c.role("role", r.Role)
	return c.err()
}

// CancelInvitationRequest cancels a pending invitation.
type CancelInvitationRequest struct {
	InvitationID string
}

// Validate checks required fields.
func (r CancelInvitationRequest) Validate() error {
	var c checker
	c.required("invitationId", r.InvitationID, "Invitation is required")
	return c.err()
}

// SetActiveOrganizationRequest selects the active organization. A nil
// OrganizationID selects the Personal context.
type SetActiveOrganizationRequest struct {
	OrganizationID *string
}

// Validate rejects a present but blank organization id.
func (r SetActiveOrganizationRequest) Validate() error {
	var c checker
	if r.OrganizationID != nil {
		c.required("organizationId", *r.OrganizationID, "Organization is required")
	}
	return c.err()
}

// RevokeSessionRequest revokes one session by token.
type RevokeSessionRequest struct {
	Token string
}

// Validate checks required fields.
func (r RevokeSessionRequest) Validate() error {
	var c checker
	c.required("token", r.Token, "Session is required")
	return c.err()
}

// SetActiveSessionRequest switches to another signed-in account.
type SetActiveSessionRequest struct {
	DeviceSessionID string
}

// Validate checks required fields.
func (r SetActiveSessionRequest) Validate() error {
	var c checker
	c.required("deviceSessionId", r.DeviceSessionID, "Account is required")
	return c.err()
}

// UpdateAccountRequest patches account fields.
type UpdateAccountRequest struct {
	Name  *string
	Email *string
	Image *string
}

// Validate checks that at least one field is present.
func (r UpdateAccountRequest) Validate() error {
	var c checker
	if r.Name == nil && r.Email == nil && r.Image == nil {
		c.add("data", "Nothing to update")
	}
	if r.Email != nil {
		c.email("email", *r.Email)
	}
	return c.err()
}

// DeleteAccountRequest deletes the signed-in account.
type DeleteAccountRequest struct {
	Password string
}

// Validate checks required fields.
func (r DeleteAccountRequest) Validate() error {
	var c checker
	c.required("password", r.Password, "Password is required")
	return c.err()
}

// EnableTwoFactorRequest enables two-factor authentication.
type EnableTwoFactorRequest struct {
	Password string
}

// VerifyTwoFactorRequest verifies a TOTP or backup code.
type VerifyTwoFactorRequest struct {
	Code string
	Type string
}

// DisableTwoFactorRequest disables two-factor authentication.
type DisableTwoFactorRequest struct {
	Password string
}

// RegisterPasskeyRequest registers a named passkey.
type RegisterPasskeyRequest struct {
	Name string
}

// DeletePasskeyRequest deletes a passkey.
type DeletePasskeyRequest struct {
	PasskeyID string
}

// AcceptInvitationRequest accepts an organization invitation.
type AcceptInvitationRequest struct {
	InvitationID string
}
