package devengine

import (
	"context"
	"sort"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// GetSession returns the identity behind the credential, or nil when it is
// missing, expired or revoked.
func (e *Engine) GetSession(ctx context.Context) (*snapshot.Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	session, user, ok := e.currentSession(ctx)
	if !ok {
		return nil, nil
	}
	session.updatedAt = e.now()
	identity := e.identity(session, user)
	return &identity, nil
}

// ListSessions returns every live session of the signed-in user.
func (e *Engine) ListSessions(ctx context.Context) ([]snapshot.DeviceSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, _, err := e.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	sessions := make([]snapshot.DeviceSession, 0)
	for _, session := range e.liveSessions() {
		if session.userID != current.userID {
			continue
		}
		sessions = append(sessions, e.deviceSession(session, current))
	}
	return sessions, nil
}

// RevokeSession revokes a session of the signed-in user by token.
func (e *Engine) RevokeSession(ctx context.Context, token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, _, err := e.requireSession(ctx)
	if err != nil {
		return err
	}
	target, ok := e.sessions[strings.TrimSpace(token)]
	if !ok || target.userID != current.userID {
		return notFound("Session not found")
	}
	delete(e.sessions, target.token)
	return nil
}

// RevokeSessions revokes every session of the signed-in user, the current
// one included.
func (e *Engine) RevokeSessions(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, _, err := e.requireSession(ctx)
	if err != nil {
		return err
	}
	for token, session := range e.sessions {
		if session.userID == current.userID {
			delete(e.sessions, token)
		}
	}
	return nil
}

// ListDeviceSessions returns one session per account signed in on the
// caller's browser.
func (e *Engine) ListDeviceSessions(ctx context.Context) ([]snapshot.DeviceSession, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, _, err := e.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{current.userID: {}}
	sessions := []snapshot.DeviceSession{e.deviceSession(current, current)}
	for _, session := range e.liveSessions() {
		if session.device != current.device {
			continue
		}
		if _, dup := seen[session.userID]; dup {
			continue
		}
		seen[session.userID] = struct{}{}
		sessions = append(sessions, e.deviceSession(session, current))
	}
	return sessions, nil
}

// SetActiveSession switches the browser to another account in its device
// group and returns that account's identity.
func (e *Engine) SetActiveSession(ctx context.Context, sessionToken string) (snapshot.Identity, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	current, _, err := e.requireSession(ctx)
	if err != nil {
		return snapshot.Identity{}, err
	}
	target, ok := e.sessions[strings.TrimSpace(sessionToken)]
	if !ok || target.device != current.device || !target.expiresAt.After(e.now()) {
		return snapshot.Identity{}, unauthorized()
	}
	user, ok := e.users[target.userID]
	if !ok {
		return snapshot.Identity{}, unauthorized()
	}
	target.updatedAt = e.now()
	return e.identity(target, user), nil
}

// liveSessions returns unexpired sessions, most recently active first. The
// caller holds e.mu.
func (e *Engine) liveSessions() []*sessionRecord {
	now := e.now()
	live := make([]*sessionRecord, 0, len(e.sessions))
	for _, session := range e.sessions {
		if session.expiresAt.After(now) {
			live = append(live, session)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if !live[i].updatedAt.Equal(live[j].updatedAt) {
			return live[i].updatedAt.After(live[j].updatedAt)
		}
		return live[i].id < live[j].id
	})
	return live
}

func (e *Engine) deviceSession(session, current *sessionRecord) snapshot.DeviceSession {
	item := snapshot.DeviceSession{
		ID:           session.id,
		UserAgent:    session.userAgent,
		IPAddress:    session.ipAddress,
		LastActive:   session.updatedAt,
		Current:      session.token == current.token,
		SessionToken: session.token,
	}
	if user, ok := e.users[session.userID]; ok {
		u := user.user
		item.User = &u
	}
	return item
}
