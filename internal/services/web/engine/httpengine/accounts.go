package httpengine

import (
	"context"
	"errors"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// UpdateUser patches the signed-in user's profile. An email change goes
// through the engine's change-email flow. The refreshed user is read back
// from the session.
func (c *Client) UpdateUser(ctx context.Context, patch engine.UserPatch) (snapshot.User, error) {
	data := map[string]any{}
	if patch.Name != nil {
		data["name"] = *patch.Name
	}
	if patch.Image != nil {
		data["image"] = *patch.Image
	}
	if len(data) > 0 {
		var resp statusResponse
		if err := c.post(ctx, "updateUser", "/update-user", data, &resp); err != nil {
			return snapshot.User{}, err
		}
	}
	if patch.Email != nil {
		email, err := normalizeEmail(*patch.Email)
		if err != nil {
			return snapshot.User{}, err
		}
		if err := c.post(ctx, "changeEmail", "/change-email", map[string]any{"newEmail": email}, nil); err != nil {
			return snapshot.User{}, err
		}
	}
	identity, err := c.GetSession(ctx)
	if err != nil {
		return snapshot.User{}, err
	}
	if identity == nil {
		return snapshot.User{}, errors.New("update user: session ended")
	}
	return identity.User, nil
}

// DeleteUser deletes the signed-in account after a password check.
func (c *Client) DeleteUser(ctx context.Context, password string) error {
	return c.post(ctx, "deleteUser", "/delete-user", map[string]any{"password": password}, nil)
}
