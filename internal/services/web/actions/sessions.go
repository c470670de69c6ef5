package actions

import (
	"context"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// RevokeSession revokes one of the signed-in user's sessions.
func (d *Dispatcher) RevokeSession(ctx context.Context, req RevokeSessionRequest) actionresult.Result[Message] {
	op := operation{name: "revokeSession", fallback: "Failed to revoke session"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.RevokeSession(ctx, strings.TrimSpace(req.Token)); err != nil {
			return Message{}, wrapEngine("revoke session", err)
		}
		return Message{Message: "Session revoked successfully"}, nil
	})
}

// RevokeAllSessions revokes every session of the signed-in user.
func (d *Dispatcher) RevokeAllSessions(ctx context.Context) actionresult.Result[Message] {
	op := operation{name: "revokeAllSessions", fallback: "Failed to revoke sessions"}
	return run(ctx, d, op, nil, func(ctx context.Context) (Message, error) {
		if err := d.engine.RevokeSessions(ctx); err != nil {
			return Message{}, wrapEngine("revoke sessions", err)
		}
		return Message{Message: "All sessions revoked successfully"}, nil
	})
}

// SetActiveSession switches the browser to another signed-in account. The
// device session id is resolved to its token on the server so tokens never
// reach the client.
func (d *Dispatcher) SetActiveSession(ctx context.Context, req SetActiveSessionRequest) actionresult.Result[snapshot.Identity] {
	op := operation{name: "setActiveSession", fallback: "Failed to switch account"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Identity, error) {
		sessions, err := d.engine.ListDeviceSessions(ctx)
		if err != nil {
			return snapshot.Identity{}, wrapEngine("list device sessions", err)
		}
		wantID := strings.TrimSpace(req.DeviceSessionID)
		token := ""
		for _, session := range sessions {
			if session.ID == wantID {
				token = strings.TrimSpace(session.SessionToken)
				break
			}
		}
		if token == "" {
			return snapshot.Identity{}, fail(op.fallback, CodeNotFound)
		}
		identity, err := d.engine.SetActiveSession(ctx, token)
		if err != nil {
			return snapshot.Identity{}, wrapEngine("set active session", err)
		}
		return identity, nil
	})
}
