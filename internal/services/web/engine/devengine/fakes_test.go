package devengine

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"golang.org/x/crypto/bcrypt"
)

type sentEmail struct {
	kind string
	to   string
	link string
}

// recordingMailer keeps every email the engine triggers.
type recordingMailer struct {
	mu          sync.Mutex
	sent        []sentEmail
	invitations []email.Invitation
	err         error
}

func (m *recordingMailer) add(kind, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{kind: kind, to: to, link: link})
	return m.err
}

func (m *recordingMailer) SendMagicLink(_ context.Context, to string, link string) error {
	return m.add("magic-link", to, link)
}

func (m *recordingMailer) SendResetPassword(_ context.Context, to string, link string) error {
	return m.add("reset-password", to, link)
}

func (m *recordingMailer) SendVerification(_ context.Context, to string, link string) error {
	return m.add("verification", to, link)
}

func (m *recordingMailer) SendInvitation(_ context.Context, invitation email.Invitation) error {
	m.mu.Lock()
	m.invitations = append(m.invitations, invitation)
	m.mu.Unlock()
	return m.add("invitation", invitation.To, "")
}

func (m *recordingMailer) last(t *testing.T) sentEmail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no email sent")
	}
	return m.sent[len(m.sent)-1]
}

// tokenFrom extracts the token query parameter of an emailed link.
func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link %q: %v", link, err)
	}
	token := parsed.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q carries no token", link)
	}
	return token
}

// testClock is a settable time source.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestEngine(t *testing.T) (*Engine, *recordingMailer, *testClock) {
	t.Helper()
	mailer := &recordingMailer{}
	clock := newTestClock()
	eng := New(
		WithMailer(mailer),
		WithClock(clock.Now),
		WithSecret("test-secret"),
		WithPasswordCost(bcrypt.MinCost),
	)
	return eng, mailer, clock
}
