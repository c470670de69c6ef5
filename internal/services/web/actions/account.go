package actions

import (
	"context"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// UpdateAccount patches the signed-in user's profile.
func (d *Dispatcher) UpdateAccount(ctx context.Context, req UpdateAccountRequest) actionresult.Result[snapshot.User] {
	op := operation{name: "updateAccount", fallback: "Failed to update account"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.User, error) {
		user, err := d.engine.UpdateUser(ctx, engine.UserPatch{
			Name:  trimmed(req.Name),
			Email: trimmed(req.Email),
			Image: trimmed(req.Image),
		})
		if err != nil {
			return snapshot.User{}, wrapEngine("update user", err)
		}
		return user, nil
	})
}

// DeleteAccount deletes the signed-in account after a password check.
func (d *Dispatcher) DeleteAccount(ctx context.Context, req DeleteAccountRequest) actionresult.Result[Message] {
	op := operation{name: "deleteAccount", fallback: "Failed to delete account"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.DeleteUser(ctx, req.Password); err != nil {
			return Message{}, wrapEngine("delete user", err)
		}
		return Message{Message: "Account deleted successfully"}, nil
	})
}
