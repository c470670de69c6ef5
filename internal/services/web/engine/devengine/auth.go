package devengine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/crypto/bcrypt"
)

func invalidCredentials() error {
	return engine.Reject(http.StatusUnauthorized, engine.CodeInvalidCredentials, "Invalid email or password")
}

// SignUpEmail registers an account and opens its first session.
func (e *Engine) SignUpEmail(ctx context.Context, input engine.SignUpInput) (snapshot.Identity, error) {
	address := normalizeEmail(input.Email)
	if address == "" {
		return snapshot.Identity{}, badRequest(engine.CodeInvalidInput, "Email is required")
	}
	hash, err := e.hashPassword(input.Password)
	if err != nil {
		return snapshot.Identity{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.userByEmail[address]; exists {
		return snapshot.Identity{}, engine.Reject(http.StatusUnprocessableEntity, engine.CodeUserExists, "User already exists")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name, _, _ = strings.Cut(address, "@")
	}
	user := &userRecord{
		user:         snapshot.User{ID: newID(), Email: address, Name: name},
		passwordHash: hash,
	}
	e.users[user.user.ID] = user
	e.userByEmail[address] = user.user.ID
	return e.identity(e.openSession(ctx, user.user.ID), user), nil
}

// SignInEmail signs in with email and password.
func (e *Engine) SignInEmail(ctx context.Context, input engine.SignInInput) (snapshot.Identity, error) {
	address := normalizeEmail(input.Email)

	e.mu.Lock()
	defer e.mu.Unlock()
	userID, ok := e.userByEmail[address]
	if !ok {
		return snapshot.Identity{}, invalidCredentials()
	}
	user := e.users[userID]
	if len(user.passwordHash) == 0 || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(input.Password)) != nil {
		return snapshot.Identity{}, invalidCredentials()
	}
	return e.identity(e.openSession(ctx, userID), user), nil
}

// SignOut ends the session carried by ctx.
func (e *Engine) SignOut(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	session, _, err := e.requireSession(ctx)
	if err != nil {
		return err
	}
	delete(e.sessions, session.token)
	return nil
}

// ForgetPassword emails a reset link to a known address.
func (e *Engine) ForgetPassword(ctx context.Context, address string, redirectTo string) error {
	address = normalizeEmail(address)
	e.mu.Lock()
	userID, ok := e.userByEmail[address]
	e.mu.Unlock()
	if !ok {
		return badRequest("USER_NOT_FOUND", "User not found")
	}
	token, err := e.issueToken(purposeReset, userID, address, ResetTTL)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	return e.deliver(func(m Mailer) error {
		return m.SendResetPassword(ctx, address, withQuery(redirectTo, url.Values{"token": {token}}))
	})
}

// ResetPassword sets a new password with an emailed reset token.
func (e *Engine) ResetPassword(_ context.Context, newPassword string, token string) error {
	hash, err := e.hashPassword(newPassword)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	claims, err := e.consumeToken(token, purposeReset)
	if err != nil {
		return err
	}
	user, ok := e.users[claims.Subject]
	if !ok {
		return invalidToken()
	}
	user.passwordHash = hash
	return nil
}

// SendVerificationEmail emails a verification link to an unverified address.
func (e *Engine) SendVerificationEmail(ctx context.Context, address string, callbackURL string) error {
	address = normalizeEmail(address)
	e.mu.Lock()
	userID, ok := e.userByEmail[address]
	verified := ok && e.users[userID].user.EmailVerified
	e.mu.Unlock()
	if !ok {
		return badRequest("USER_NOT_FOUND", "User not found")
	}
	if verified {
		return badRequest("EMAIL_ALREADY_VERIFIED", "Email is already verified")
	}
	token, err := e.issueToken(purposeVerify, userID, address, VerifyTTL)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}
	link := withQuery(routepath.VerifyEmail, url.Values{"token": {token}, "callbackURL": {callbackURL}})
	return e.deliver(func(m Mailer) error { return m.SendVerification(ctx, address, link) })
}

// VerifyEmail marks an address verified with an emailed token.
func (e *Engine) VerifyEmail(_ context.Context, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	claims, err := e.consumeToken(token, purposeVerify)
	if err != nil {
		return err
	}
	user, ok := e.users[claims.Subject]
	if !ok || user.user.Email != claims.Email {
		return invalidToken()
	}
	user.user.EmailVerified = true
	return nil
}

// SendMagicLink emails a sign-in link. Unknown addresses get an account on
// verification.
func (e *Engine) SendMagicLink(ctx context.Context, address string, callbackURL string) error {
	address = normalizeEmail(address)
	if address == "" {
		return badRequest(engine.CodeInvalidInput, "Email is required")
	}
	token, err := e.issueToken(purposeMagic, address, address, MagicLinkTTL)
	if err != nil {
		return fmt.Errorf("issue magic link token: %w", err)
	}
	link := withQuery(routepath.MagicLinkVerify, url.Values{"token": {token}, "callbackURL": {callbackURL}})
	return e.deliver(func(m Mailer) error { return m.SendMagicLink(ctx, address, link) })
}

// VerifyMagicLink exchanges a magic-link token for a session.
func (e *Engine) VerifyMagicLink(ctx context.Context, token string) (snapshot.Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	claims, err := e.consumeToken(token, purposeMagic)
	if err != nil {
		return snapshot.Identity{}, err
	}
	address := claims.Email
	userID, ok := e.userByEmail[address]
	if !ok {
		name, _, _ := strings.Cut(address, "@")
		record := &userRecord{user: snapshot.User{ID: newID(), Email: address, Name: name}}
		e.users[record.user.ID] = record
		e.userByEmail[address] = record.user.ID
		userID = record.user.ID
	}
	user := e.users[userID]
	user.user.EmailVerified = true
	return e.identity(e.openSession(ctx, userID), user), nil
}

// SignInSocial is unavailable: the development engine has no providers.
func (e *Engine) SignInSocial(context.Context, string, string) (string, error) {
	return "", badRequest("PROVIDER_NOT_FOUND", "Social sign-in is not configured")
}

// deliver runs send against the configured mailer outside the engine lock.
func (e *Engine) deliver(send func(Mailer) error) error {
	if e.mailer == nil {
		return nil
	}
	if err := send(e.mailer); err != nil {
		return fmt.Errorf("deliver email: %w", err)
	}
	return nil
}

func withQuery(target string, values url.Values) string {
	target = strings.TrimSpace(target)
	parsed, err := url.Parse(target)
	if err != nil {
		parsed = &url.URL{Path: "/"}
	}
	query := parsed.Query()
	for key, vals := range values {
		for _, value := range vals {
			if value != "" {
				query.Set(key, value)
			}
		}
	}
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
