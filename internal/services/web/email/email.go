// Package email renders and sends the auth emails: magic links, invitations,
// password resets, verification links and one-time codes.
package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Defaults used when the mailer is not configured otherwise.
const (
	DefaultFrom    = "delivered@resend.dev"
	DefaultAppName = "Spawn Bot"
)

// Subjects of the emails the mailer sends.
const (
	SubjectMagicLink     = "Magic Link Login"
	SubjectInvitation    = "You've been invited to join an organization"
	SubjectResetPassword = "Reset your password"
	SubjectVerification  = "Verify your email address"
	SubjectOTP           = "Your OTP"
)

// Message is one email handed to a delivery provider.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Sender delivers messages out of band.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, msg Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, msg Message) error { return f(ctx, msg) }

// Mailer renders auth emails and sends them through a Sender.
type Mailer struct {
	sender  Sender
	from    string
	appName string
	baseURL *url.URL
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithFrom sets the sender address.
func WithFrom(from string) Option {
	return func(m *Mailer) {
		if from = strings.TrimSpace(from); from != "" {
			m.from = from
		}
	}
}

// WithAppName sets the product name shown in emails.
func WithAppName(name string) Option {
	return func(m *Mailer) {
		if name = strings.TrimSpace(name); name != "" {
			m.appName = name
		}
	}
}

// WithBaseURL sets the public origin used to make links absolute.
func WithBaseURL(raw string) Option {
	return func(m *Mailer) {
		parsed, err := url.Parse(strings.TrimSpace(raw))
		if err == nil && parsed.Scheme != "" && parsed.Host != "" {
			m.baseURL = parsed
		}
	}
}

// NewMailer builds a mailer over sender.
func NewMailer(sender Sender, opts ...Option) *Mailer {
	m := &Mailer{sender: sender, from: DefaultFrom, appName: DefaultAppName}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// AppName returns the product name shown in emails.
func (m *Mailer) AppName() string { return m.appName }

// Absolute resolves link against the configured base URL. Links are returned
// unchanged when no base URL is configured or link is already absolute.
func (m *Mailer) Absolute(link string) string {
	link = strings.TrimSpace(link)
	if m.baseURL == nil || link == "" {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}
	return m.baseURL.ResolveReference(ref).String()
}

// InvitationURL returns the accept link for an invitation.
func (m *Mailer) InvitationURL(invitationID string) string {
	return m.Absolute(routepath.AcceptInvitation(invitationID))
}

// SendMagicLink emails a sign-in link.
func (m *Mailer) SendMagicLink(ctx context.Context, to string, link string) error {
	link = m.Absolute(link)
	return m.send(ctx, to, SubjectMagicLink, magicLinkEmail(m.appName, to, link))
}

// SendResetPassword emails a password reset link.
func (m *Mailer) SendResetPassword(ctx context.Context, to string, link string) error {
	link = m.Absolute(link)
	return m.send(ctx, to, SubjectResetPassword, resetPasswordEmail(m.appName, to, link))
}

// SendVerification emails an address verification link.
func (m *Mailer) SendVerification(ctx context.Context, to string, link string) error {
	link = m.Absolute(link)
	return m.send(ctx, to, SubjectVerification, verificationEmail(m.appName, link))
}

// SendOTP emails a one-time two-factor code.
func (m *Mailer) SendOTP(ctx context.Context, to string, otp string) error {
	if strings.TrimSpace(otp) == "" {
		return errors.New("otp is required")
	}
	return m.send(ctx, to, SubjectOTP, otpEmail(m.appName, otp))
}

// Invitation describes an organization invitation email.
type Invitation struct {
	To               string
	InviterName      string
	InviterEmail     string
	OrganizationName string
	InvitationID     string
}

// SendInvitation emails an organization invitation.
func (m *Mailer) SendInvitation(ctx context.Context, invitation Invitation) error {
	if strings.TrimSpace(invitation.InvitationID) == "" {
		return errors.New("invitation id is required")
	}
	link := m.InvitationURL(invitation.InvitationID)
	return m.send(ctx, invitation.To, SubjectInvitation, invitationEmail(m.appName, invitation, link))
}

func (m *Mailer) send(ctx context.Context, to string, subject string, body templ.Component) error {
	if m == nil || m.sender == nil {
		return errors.New("email sender is not configured")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("recipient is required")
	}
	var html bytes.Buffer
	if err := body.Render(ctx, &html); err != nil {
		return fmt.Errorf("render %q email: %w", subject, err)
	}
	msg := Message{From: m.from, To: to, Subject: subject, HTML: html.String()}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %q email: %w", subject, err)
	}
	return nil
}
