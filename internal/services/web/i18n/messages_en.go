package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.AmericanEnglish

	message.SetString(lang, "meta.description", "Spawn Bot accounts, organizations and team access.")

	// Titles
	message.SetString(lang, "title.landing", "Welcome")
	message.SetString(lang, "title.sign_in", "Sign in")
	message.SetString(lang, "title.sign_up", "Create account")
	message.SetString(lang, "title.forgot", "Forgot password")
	message.SetString(lang, "title.reset", "Reset password")
	message.SetString(lang, "title.verify_email", "Verify email")
	message.SetString(lang, "title.magic_link", "Magic link")
	message.SetString(lang, "title.accept_invitation", "Invitation")
	message.SetString(lang, "title.dashboard", "Dashboard")
	message.SetString(lang, "title.settings", "Settings")

	// Navigation
	message.SetString(lang, "nav.sign_in", "Sign in")
	message.SetString(lang, "nav.sign_up", "Sign up")
	message.SetString(lang, "nav.dashboard", "Dashboard")
	message.SetString(lang, "nav.settings", "Settings")
	message.SetString(lang, "nav.sign_out", "Sign out")

	// Landing
	message.SetString(lang, "landing.tagline", "Sign in to manage your bots, your organizations and your team.")
	message.SetString(lang, "landing.signed_in_as", "Signed in as %s")
	message.SetString(lang, "landing.open_dashboard", "Open dashboard")

	// Fields
	message.SetString(lang, "field.email", "Email")
	message.SetString(lang, "field.password", "Password")
	message.SetString(lang, "field.new_password", "New password")
	message.SetString(lang, "field.name", "Name")
	message.SetString(lang, "field.image", "Avatar URL")
	message.SetString(lang, "field.role", "Role")
	message.SetString(lang, "field.slug", "Slug")
	message.SetString(lang, "field.slug_optional", "Slug (optional)")
	message.SetString(lang, "field.logo", "Logo URL")
	message.SetString(lang, "field.code", "Authenticator code")
	message.SetString(lang, "field.passkey_name", "Passkey name")

	// Sign in and sign up
	message.SetString(lang, "sign_in.heading", "Sign in to Spawn Bot")
	message.SetString(lang, "sign_in.remember_me", "Keep me signed in")
	message.SetString(lang, "sign_in.submit", "Sign in")
	message.SetString(lang, "sign_in.forgot", "Forgot your password?")
	message.SetString(lang, "sign_in.magic_link", "Email me a sign-in link")
	message.SetString(lang, "sign_in.social", "Continue with %s")
	message.SetString(lang, "sign_in.no_account", "No account yet?")
	message.SetString(lang, "sign_up.heading", "Create your account")
	message.SetString(lang, "sign_up.submit", "Create account")
	message.SetString(lang, "sign_up.have_account", "Already have an account?")

	// Password reset
	message.SetString(lang, "forgot.heading", "Reset your password")
	message.SetString(lang, "forgot.help", "Enter your email and we will send you a reset link.")
	message.SetString(lang, "forgot.submit", "Send reset link")
	message.SetString(lang, "reset.heading", "Choose a new password")
	message.SetString(lang, "reset.submit", "Update password")
	message.SetString(lang, "reset.missing_token", "This reset link is missing its token. Request a new one.")

	// Email links
	message.SetString(lang, "verify.success.heading", "Email verified")
	message.SetString(lang, "verify.success.message", "Your email address has been confirmed.")
	message.SetString(lang, "verify.failed.heading", "Verification failed")
	message.SetString(lang, "verify.failed.message", "This verification link is invalid or has expired.")
	message.SetString(lang, "magic.failed.heading", "Magic link invalid")
	message.SetString(lang, "magic.failed.message", "We could not sign you in with this link.")
	message.SetString(lang, "magic.failed.detail", "It may have expired or already been used.")
	message.SetString(lang, "status.missing_token", "This link is missing its token.")
	message.SetString(lang, "status.back_dashboard", "Go to dashboard")
	message.SetString(lang, "status.back_sign_in", "Back to sign in")

	// Invitations
	message.SetString(lang, "invite.heading", "You have been invited")
	message.SetString(lang, "invite.message", "Sign in with the invited email address to review invitation %s.")
	message.SetString(lang, "invite.signed_in", "Review your pending invitations from the dashboard.")

	// Dashboard
	message.SetString(lang, "dashboard.welcome", "Welcome, %s")
	message.SetString(lang, "dashboard.admin", "Admin")
	message.SetString(lang, "dashboard.unverified", "Your email address is not verified yet.")
	message.SetString(lang, "dashboard.accounts", "Accounts")
	message.SetString(lang, "dashboard.switch_to", "Switch to %s")
	message.SetString(lang, "dashboard.add_account", "Add another account")
	message.SetString(lang, "dashboard.personal", "Personal workspace")
	message.SetString(lang, "dashboard.members", "Members")
	message.SetString(lang, "dashboard.update_role", "Update")
	message.SetString(lang, "dashboard.remove_member", "Remove")
	message.SetString(lang, "dashboard.leave", "Leave")
	message.SetString(lang, "dashboard.pending_invitations", "Pending invitations")
	message.SetString(lang, "dashboard.cancel_invitation", "Cancel")
	message.SetString(lang, "dashboard.invite", "Invite a teammate")
	message.SetString(lang, "dashboard.invite_submit", "Send invitation")
	message.SetString(lang, "dashboard.edit_organization", "Organization details")
	message.SetString(lang, "dashboard.save", "Save")
	message.SetString(lang, "dashboard.delete_organization", "Delete organization")
	message.SetString(lang, "dashboard.your_invitations", "Invitations for you")
	message.SetString(lang, "dashboard.invited_as", "Invited as %s")
	message.SetString(lang, "dashboard.accept", "Accept")
	message.SetString(lang, "dashboard.create_organization", "Create an organization")
	message.SetString(lang, "dashboard.create", "Create")
	message.SetString(lang, "role.owner", "Owner")
	message.SetString(lang, "role.admin", "Admin")
	message.SetString(lang, "role.member", "Member")

	// Settings
	message.SetString(lang, "settings.heading", "Settings")
	message.SetString(lang, "settings.account", "Profile")
	message.SetString(lang, "settings.save", "Save profile")
	message.SetString(lang, "settings.resend_verification", "Resend verification email")
	message.SetString(lang, "settings.sessions", "Active sessions")
	message.SetString(lang, "settings.unknown_device", "Unknown device")
	message.SetString(lang, "settings.current_session", "This device")
	message.SetString(lang, "settings.revoke", "Revoke")
	message.SetString(lang, "settings.revoke_all", "Sign out everywhere")
	message.SetString(lang, "settings.two_factor", "Two-factor authentication")
	message.SetString(lang, "settings.two_factor_enable", "Enable two-factor")
	message.SetString(lang, "settings.two_factor_verify", "Verify code")
	message.SetString(lang, "settings.two_factor_disable", "Disable two-factor")
	message.SetString(lang, "settings.passkeys", "Passkeys")
	message.SetString(lang, "settings.passkey_add", "Add passkey")
	message.SetString(lang, "settings.delete_heading", "Delete account")
	message.SetString(lang, "settings.delete_help", "This permanently removes your account and memberships.")
	message.SetString(lang, "settings.delete_submit", "Delete my account")

	// Errors
	message.SetString(lang, "error.title_not_found", "Page not found")
	message.SetString(lang, "error.message_not_found", "The page you are looking for does not exist.")
	message.SetString(lang, "error.title_forbidden", "Access denied")
	message.SetString(lang, "error.message_forbidden", "You do not have access to this page.")
	message.SetString(lang, "error.title_server", "Something went wrong")
	message.SetString(lang, "error.message_server", "Please try again in a moment.")
	message.SetString(lang, "error.back_home", "Back to home")
}
