package actions

import (
	"context"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// SocialRedirect is the provider URL a social sign-in continues at.
type SocialRedirect struct {
	URL string `json:"url"`
}

// SignIn signs in with email and password. Every engine rejection reports
// the same message so responses do not reveal which accounts exist.
func (d *Dispatcher) SignIn(ctx context.Context, req SignInRequest) actionresult.Result[snapshot.Identity] {
	op := operation{name: "signIn", fallback: "Failed to sign in"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Identity, error) {
		identity, err := d.engine.SignInEmail(ctx, engine.SignInInput{
			Email:      strings.TrimSpace(req.Email),
			Password:   req.Password,
			RememberMe: req.RememberMe,
		})
		if err != nil {
			if _, rejected := engine.AsError(err); rejected {
				return snapshot.Identity{}, fail("Invalid credentials", CodeInvalidCredentials)
			}
			return snapshot.Identity{}, wrapEngine("sign in", err)
		}
		if strings.TrimSpace(identity.SessionToken) == "" {
			return snapshot.Identity{}, fail("Invalid credentials", CodeInvalidCredentials)
		}
		return identity, nil
	})
}

// SignUp registers an account and returns its first session.
func (d *Dispatcher) SignUp(ctx context.Context, req SignUpRequest) actionresult.Result[snapshot.Identity] {
	op := operation{name: "signUp", fallback: "Failed to sign up"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Identity, error) {
		identity, err := d.engine.SignUpEmail(ctx, engine.SignUpInput{
			Email:    strings.TrimSpace(req.Email),
			Password: req.Password,
			Name:     strings.TrimSpace(req.Name),
		})
		if err != nil {
			return snapshot.Identity{}, wrapEngine("sign up", err)
		}
		if strings.TrimSpace(identity.User.ID) == "" {
			return snapshot.Identity{}, fail("Failed to create account", "")
		}
		return identity, nil
	})
}

// SignOut ends the current session.
func (d *Dispatcher) SignOut(ctx context.Context) actionresult.Result[struct{}] {
	op := operation{name: "signOut", fallback: "Failed to sign out"}
	return run(ctx, d, op, nil, func(ctx context.Context) (struct{}, error) {
		if err := requireCredential(ctx, op.fallback); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, wrapEngine("sign out", d.engine.SignOut(ctx))
	})
}

// SendPasswordReset asks the engine to email a reset link. Engine
// rejections still report success.
func (d *Dispatcher) SendPasswordReset(ctx context.Context, req PasswordResetRequest) actionresult.Result[Message] {
	op := operation{name: "sendPasswordReset", fallback: "Failed to send reset email"}
	sent := Message{Message: "Password reset email sent"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		redirectTo := strings.TrimSpace(req.RedirectTo)
		if redirectTo == "" {
			redirectTo = DefaultResetRedirect
		}
		err := d.engine.ForgetPassword(ctx, strings.TrimSpace(req.Email), redirectTo)
		return d.quietRejection(op, sent, err)
	})
}

// ResetPassword completes a password reset with the emailed token.
func (d *Dispatcher) ResetPassword(ctx context.Context, req ResetPasswordRequest) actionresult.Result[Message] {
	op := operation{name: "resetPassword", fallback: "Failed to reset password"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.ResetPassword(ctx, req.NewPassword, strings.TrimSpace(req.Token)); err != nil {
			return Message{}, wrapEngine("reset password", err)
		}
		return Message{Message: "Password reset successfully"}, nil
	})
}

// SendVerificationEmail asks the engine to resend the verification email
// for the signed-in account. Engine rejections still report success.
func (d *Dispatcher) SendVerificationEmail(ctx context.Context, req VerificationEmailRequest) actionresult.Result[Message] {
	op := operation{name: "sendVerificationEmail", fallback: "Failed to send verification email"}
	sent := Message{Message: "Verification email sent"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := requireCredential(ctx, op.fallback); err != nil {
			return Message{}, err
		}
		callbackURL := strings.TrimSpace(req.CallbackURL)
		if callbackURL == "" {
			callbackURL = DefaultCallbackURL
		}
		err := d.engine.SendVerificationEmail(ctx, strings.TrimSpace(req.Email), callbackURL)
		return d.quietRejection(op, sent, err)
	})
}

// VerifyEmail confirms an email address with the emailed token.
func (d *Dispatcher) VerifyEmail(ctx context.Context, req VerifyEmailRequest) actionresult.Result[Message] {
	op := operation{name: "verifyEmail", fallback: "Failed to verify email"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.VerifyEmail(ctx, strings.TrimSpace(req.Token)); err != nil {
			return Message{}, wrapEngine("verify email", err)
		}
		return Message{Message: "Email verified successfully"}, nil
	})
}

// SendMagicLink asks the engine to email a sign-in link. Engine rejections
// still report success.
func (d *Dispatcher) SendMagicLink(ctx context.Context, req MagicLinkRequest) actionresult.Result[Message] {
	op := operation{name: "sendMagicLink", fallback: "Failed to send magic link"}
	sent := Message{Message: "Magic link sent"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		callbackURL := strings.TrimSpace(req.CallbackURL)
		if callbackURL == "" {
			callbackURL = DefaultCallbackURL
		}
		err := d.engine.SendMagicLink(ctx, strings.TrimSpace(req.Email), callbackURL)
		return d.quietRejection(op, sent, err)
	})
}

// VerifyMagicLink exchanges a magic-link token for a session.
func (d *Dispatcher) VerifyMagicLink(ctx context.Context, req VerifyMagicLinkRequest) actionresult.Result[snapshot.Identity] {
	op := operation{name: "verifyMagicLink", fallback: "Failed to verify magic link"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Identity, error) {
		identity, err := d.engine.VerifyMagicLink(ctx, strings.TrimSpace(req.Token))
		if err != nil {
			return snapshot.Identity{}, wrapEngine("verify magic link", err)
		}
		return identity, nil
	})
}

// SignInSocial returns the provider URL that continues a social sign-in.
func (d *Dispatcher) SignInSocial(ctx context.Context, req SocialSignInRequest) actionresult.Result[SocialRedirect] {
	op := operation{name: "signInSocial", fallback: "Failed to sign in with provider"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (SocialRedirect, error) {
		callbackURL := strings.TrimSpace(req.CallbackURL)
		if callbackURL == "" {
			callbackURL = DefaultCallbackURL
		}
		url, err := d.engine.SignInSocial(ctx, strings.ToLower(strings.TrimSpace(req.Provider)), callbackURL)
		if err != nil {
			return SocialRedirect{}, wrapEngine("sign in social", err)
		}
		if strings.TrimSpace(url) == "" {
			return SocialRedirect{}, fail(op.fallback, "")
		}
		return SocialRedirect{URL: url}, nil
	})
}

// quietRejection reports sent for engine rejections and keeps transport
// failures as errors.
func (d *Dispatcher) quietRejection(op operation, sent Message, err error) (Message, error) {
	if err == nil {
		return sent, nil
	}
	if engineErr, rejected := engine.AsError(err); rejected {
		d.logger.Printf("actions: op=%s rejected code=%s", op.name, engineErr.Code)
		return sent, nil
	}
	return Message{}, wrapEngine(op.name, err)
}
