package email

import (
	"context"
	"fmt"
	"strings"
)

// Event kinds the engine reports through the email hook.
const (
	KindMagicLink     = "magic-link"
	KindResetPassword = "reset-password"
	KindVerification  = "verification"
	KindInvitation    = "invitation"
	KindOTP           = "otp"
)

// Event is an engine request to send one auth email.
type Event struct {
	Kind         string `json:"kind"`
	Email        string `json:"email"`
	URL          string `json:"url,omitempty"`
	Token        string `json:"token,omitempty"`
	OTP          string `json:"otp,omitempty"`
	Organization string `json:"organization,omitempty"`
	Inviter      string `json:"inviter,omitempty"`
	InviterEmail string `json:"inviterEmail,omitempty"`
	InvitationID string `json:"invitationId,omitempty"`
}

// UnknownKindError reports an event kind the mailer cannot render.
type UnknownKindError struct {
	Kind string
}

func (e UnknownKindError) Error() string {
	return fmt.Sprintf("unknown email kind %q", e.Kind)
}

// Deliver renders and sends the email described by event.
func (m *Mailer) Deliver(ctx context.Context, event Event) error {
	switch strings.ToLower(strings.TrimSpace(event.Kind)) {
	case KindMagicLink:
		return m.SendMagicLink(ctx, event.Email, event.URL)
	case KindResetPassword:
		return m.SendResetPassword(ctx, event.Email, event.URL)
	case KindVerification:
		return m.SendVerification(ctx, event.Email, event.URL)
	case KindOTP:
		return m.SendOTP(ctx, event.Email, event.OTP)
	case KindInvitation:
		return m.SendInvitation(ctx, Invitation{
			To:               event.Email,
			InviterName:      event.Inviter,
			InviterEmail:     event.InviterEmail,
			OrganizationName: event.Organization,
			InvitationID:     event.InvitationID,
		})
	default:
		return UnknownKindError{Kind: event.Kind}
	}
}
