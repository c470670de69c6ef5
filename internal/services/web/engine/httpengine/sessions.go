package httpengine

import (
	"context"
	"encoding/json"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// GetSession resolves the credential carried by ctx. It returns nil when the
// engine reports no session.
func (c *Client) GetSession(ctx context.Context) (*snapshot.Identity, error) {
	if _, ok := engine.CredentialFromContext(ctx); !ok {
		return nil, nil
	}
	var raw json.RawMessage
	if err := c.get(ctx, "getSession", "/get-session", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var resp sessionEnvelope
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	if resp.Session.Token == "" || resp.User.ID == "" {
		return nil, nil
	}
	identity := resp.toIdentity()
	return &identity, nil
}

// ListSessions returns the signed-in user's sessions.
func (c *Client) ListSessions(ctx context.Context) ([]snapshot.DeviceSession, error) {
	var resp []sessionDTO
	if err := c.get(ctx, "listSessions", "/list-sessions", nil, &resp); err != nil {
		return nil, err
	}
	current, _ := engine.CredentialFromContext(ctx)
	sessions := make([]snapshot.DeviceSession, 0, len(resp))
	for _, session := range resp {
		sessions = append(sessions, session.toDeviceSession(current))
	}
	return sessions, nil
}

// RevokeSession revokes one session by token.
func (c *Client) RevokeSession(ctx context.Context, token string) error {
	return c.post(ctx, "revokeSession", "/revoke-session", map[string]any{"token": token}, nil)
}

// RevokeSessions revokes every session of the signed-in user.
func (c *Client) RevokeSessions(ctx context.Context) error {
	return c.post(ctx, "revokeSessions", "/revoke-sessions", map[string]any{}, nil)
}

// ListDeviceSessions returns the accounts signed in on this browser.
func (c *Client) ListDeviceSessions(ctx context.Context) ([]snapshot.DeviceSession, error) {
	var resp []sessionEnvelope
	if err := c.get(ctx, "listDeviceSessions", "/multi-session/list-device-sessions", nil, &resp); err != nil {
		return nil, err
	}
	current, _ := engine.CredentialFromContext(ctx)
	sessions := make([]snapshot.DeviceSession, 0, len(resp))
	for _, session := range resp {
		sessions = append(sessions, session.toDeviceSession(current))
	}
	return sessions, nil
}

// SetActiveSession switches the browser to the session with sessionToken.
func (c *Client) SetActiveSession(ctx context.Context, sessionToken string) (snapshot.Identity, error) {
	var resp sessionEnvelope
	if err := c.post(ctx, "setActiveSession", "/multi-session/set-active", map[string]any{"sessionToken": sessionToken}, &resp); err != nil {
		return snapshot.Identity{}, err
	}
	return resp.toIdentity(), nil
}
