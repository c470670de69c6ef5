// Package devengine is an in-memory auth engine for local runs and tests.
//
// It implements engine.Engine with bcrypt password hashes, signed
// single-use email tokens, organization roles and multi-session device
// groups. State lives for the life of the process.
package devengine

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/crypto/bcrypt"
)

// Lifetimes of sessions, emailed tokens and invitations.
const (
	SessionTTL    = 7 * 24 * time.Hour
	MagicLinkTTL  = 10 * time.Minute
	ResetTTL      = time.Hour
	VerifyTTL     = 24 * time.Hour
	InvitationTTL = 48 * time.Hour
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var _ engine.Engine = (*Engine)(nil)

// Mailer delivers the emails the engine triggers.
type Mailer interface {
	SendMagicLink(ctx context.Context, to string, link string) error
	SendResetPassword(ctx context.Context, to string, link string) error
	SendVerification(ctx context.Context, to string, link string) error
	SendInvitation(ctx context.Context, invitation email.Invitation) error
}

type userRecord struct {
	user         snapshot.User
	passwordHash []byte
}

type sessionRecord struct {
	id                   string
	token                string
	userID               string
	device               string
	expiresAt            time.Time
	updatedAt            time.Time
	userAgent            string
	ipAddress            string
	activeOrganizationID string
}

type organizationRecord struct {
	summary snapshot.OrganizationSummary
}

type memberRecord struct {
	id             string
	organizationID string
	userID         string
	role           snapshot.Role
	createdAt      time.Time
}

// Engine is the in-memory auth engine.
type Engine struct {
	mu            sync.Mutex
	users         map[string]*userRecord
	userByEmail   map[string]string
	sessions      map[string]*sessionRecord
	organizations map[string]*organizationRecord
	members       map[string]*memberRecord
	invitations   map[string]*snapshot.Invitation
	usedTokens    map[string]struct{}

	mailer       Mailer
	secret       []byte
	now          func() time.Time
	passwordCost int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMailer sets the email delivery hooks.
func WithMailer(mailer Mailer) Option {
	return func(e *Engine) { e.mailer = mailer }
}

// WithSecret sets the key signing emailed tokens.
func WithSecret(secret string) Option {
	return func(e *Engine) {
		if secret = strings.TrimSpace(secret); secret != "" {
			e.secret = []byte(secret)
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithPasswordCost sets the bcrypt cost.
func WithPasswordCost(cost int) Option {
	return func(e *Engine) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			e.passwordCost = cost
		}
	}
}

// New builds an empty engine. Without a secret a random one is generated,
// so emailed tokens do not survive a restart.
func New(opts ...Option) *Engine {
	e := &Engine{
		users:         map[string]*userRecord{},
		userByEmail:   map[string]string{},
		sessions:      map[string]*sessionRecord{},
		organizations: map[string]*organizationRecord{},
		members:       map[string]*memberRecord{},
		invitations:   map[string]*snapshot.Invitation{},
		usedTokens:    map[string]struct{}{},
		now:           time.Now,
		passwordCost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if len(e.secret) == 0 {
		e.secret = []byte(randomToken())
	}
	return e
}

func randomToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

func newID() string {
	return uuid.NewString()
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func unauthorized() error {
	return engine.Reject(http.StatusUnauthorized, engine.CodeUnauthorized, "Unauthorized")
}

func forbidden(message string) error {
	return engine.Reject(http.StatusForbidden, engine.CodeForbidden, message)
}

func notFound(message string) error {
	return engine.Reject(http.StatusNotFound, engine.CodeNotFound, message)
}

func badRequest(code, message string) error {
	return engine.Reject(http.StatusBadRequest, code, message)
}

// currentSession resolves the credential carried by ctx. The caller holds
// e.mu.
func (e *Engine) currentSession(ctx context.Context) (*sessionRecord, *userRecord, bool) {
	token, ok := engine.CredentialFromContext(ctx)
	if !ok {
		return nil, nil, false
	}
	session, ok := e.sessions[token]
	if !ok {
		return nil, nil, false
	}
	if !session.expiresAt.After(e.now()) {
		delete(e.sessions, token)
		return nil, nil, false
	}
	user, ok := e.users[session.userID]
	if !ok {
		return nil, nil, false
	}
	return session, user, true
}

// requireSession is currentSession that rejects a missing session.
func (e *Engine) requireSession(ctx context.Context) (*sessionRecord, *userRecord, error) {
	session, user, ok := e.currentSession(ctx)
	if !ok {
		return nil, nil, unauthorized()
	}
	return session, user, nil
}

// openSession issues a session for userID. A caller that is already signed
// in keeps its device group so the browser can switch between accounts. The
// caller holds e.mu.
func (e *Engine) openSession(ctx context.Context, userID string) *sessionRecord {
	now := e.now()
	device := newID()
	if current, _, ok := e.currentSession(ctx); ok {
		device = current.device
	}
	session := &sessionRecord{
		id:        newID(),
		token:     randomToken(),
		userID:    userID,
		device:    device,
		expiresAt: now.Add(SessionTTL),
		updatedAt: now,
	}
	info := engine.ClientInfoFromContext(ctx)
	session.userAgent = info.UserAgent
	session.ipAddress = info.IPAddress
	e.sessions[session.token] = session
	return session
}

func (e *Engine) identity(session *sessionRecord, user *userRecord) snapshot.Identity {
	return snapshot.Identity{
		SessionToken:         session.token,
		User:                 user.user,
		ExpiresAt:            session.expiresAt,
		ActiveOrganizationID: session.activeOrganizationID,
	}
}

func (e *Engine) hashPassword(password string) ([]byte, error) {
	if len(password) < MinPasswordLength {
		return nil, badRequest("PASSWORD_TOO_SHORT", "Password too short")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), e.passwordCost)
	if err != nil {
		return nil, err
	}
	return hash, nil
}
