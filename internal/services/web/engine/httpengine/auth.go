package httpengine

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/net/idna"
)

// normalizeEmail trims the address and converts its domain to ASCII.
func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return "", engine.Reject(http.StatusBadRequest, engine.CodeInvalidInput, "Invalid email")
	}
	domain, err := idna.Lookup.ToASCII(email[at+1:])
	if err != nil {
		return "", engine.Reject(http.StatusBadRequest, engine.CodeInvalidInput, "Invalid email")
	}
	return email[:at] + "@" + strings.ToLower(domain), nil
}

// SignInEmail signs in with email and password.
func (c *Client) SignInEmail(ctx context.Context, input engine.SignInInput) (snapshot.Identity, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return snapshot.Identity{}, err
	}
	body := map[string]any{"email": email, "password": input.Password, "rememberMe": input.RememberMe}
	var resp tokenResponse
	if err := c.post(ctx, "signInEmail", "/sign-in/email", body, &resp); err != nil {
		return snapshot.Identity{}, err
	}
	return resp.toIdentity(), nil
}

// SignUpEmail registers an account.
func (c *Client) SignUpEmail(ctx context.Context, input engine.SignUpInput) (snapshot.Identity, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return snapshot.Identity{}, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = email[:strings.LastIndex(email, "@")]
	}
	body := map[string]any{"email": email, "password": input.Password, "name": name}
	var resp tokenResponse
	if err := c.post(ctx, "signUpEmail", "/sign-up/email", body, &resp); err != nil {
		return snapshot.Identity{}, err
	}
	return resp.toIdentity(), nil
}

// SignOut ends the session carried by ctx.
func (c *Client) SignOut(ctx context.Context) error {
	return c.post(ctx, "signOut", "/sign-out", map[string]any{}, nil)
}

// ForgetPassword asks the engine to email a reset link.
func (c *Client) ForgetPassword(ctx context.Context, email string, redirectTo string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return c.post(ctx, "forgetPassword", "/forget-password", map[string]any{"email": email, "redirectTo": redirectTo}, nil)
}

// ResetPassword completes a password reset.
func (c *Client) ResetPassword(ctx context.Context, newPassword string, token string) error {
	return c.post(ctx, "resetPassword", "/reset-password", map[string]any{"newPassword": newPassword, "token": token}, nil)
}

// SendVerificationEmail asks the engine to resend the verification email.
func (c *Client) SendVerificationEmail(ctx context.Context, email string, callbackURL string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return c.post(ctx, "sendVerificationEmail", "/send-verification-email", map[string]any{"email": email, "callbackURL": callbackURL}, nil)
}

// VerifyEmail confirms an email address.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.get(ctx, "verifyEmail", "/verify-email", url.Values{"token": {token}}, nil)
}

// SendMagicLink asks the engine to email a sign-in link.
func (c *Client) SendMagicLink(ctx context.Context, email string, callbackURL string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return c.post(ctx, "sendMagicLink", "/sign-in/magic-link", map[string]any{"email": email, "callbackURL": callbackURL}, nil)
}

// VerifyMagicLink exchanges a magic-link token for a session.
func (c *Client) VerifyMagicLink(ctx context.Context, token string) (snapshot.Identity, error) {
	var resp tokenResponse
	if err := c.get(ctx, "verifyMagicLink", "/magic-link/verify", url.Values{"token": {token}}, &resp); err != nil {
		return snapshot.Identity{}, err
	}
	return resp.toIdentity(), nil
}

// SignInSocial returns the provider URL continuing a social sign-in.
func (c *Client) SignInSocial(ctx context.Context, provider string, callbackURL string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	body := map[string]any{"provider": provider, "callbackURL": callbackURL, "disableRedirect": true}
	if err := c.post(ctx, "signInSocial", "/sign-in/social", body, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.URL) == "" {
		return "", errors.New("sign in social: engine returned no provider URL")
	}
	return resp.URL, nil
}
