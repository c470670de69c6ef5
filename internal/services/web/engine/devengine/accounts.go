package devengine

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	"golang.org/x/crypto/bcrypt"
)

// UpdateUser patches the signed-in user's profile. A new email address is
// unverified until confirmed again.
func (e *Engine) UpdateUser(ctx context.Context, patch engine.UserPatch) (snapshot.User, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, user, err := e.requireSession(ctx)
	if err != nil {
		return snapshot.User{}, err
	}
	if patch.Email != nil {
		address := normalizeEmail(*patch.Email)
		if address == "" {
			return snapshot.User{}, badRequest(engine.CodeInvalidInput, "Email is required")
		}
		if address != user.user.Email {
			if _, taken := e.userByEmail[address]; taken {
				return snapshot.User{}, engine.Reject(http.StatusUnprocessableEntity, engine.CodeUserExists, "User already exists")
			}
			delete(e.userByEmail, user.user.Email)
			e.userByEmail[address] = user.user.ID
			user.user.Email = address
			user.user.EmailVerified = false
		}
	}
	if patch.Name != nil {
		user.user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Image != nil {
		user.user.Image = strings.TrimSpace(*patch.Image)
	}
	return user.user, nil
}

// DeleteUser deletes the signed-in account after checking its password,
// with its sessions and memberships.
func (e *Engine) DeleteUser(ctx context.Context, password string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, user, err := e.requireSession(ctx)
	if err != nil {
		return err
	}
	if len(user.passwordHash) == 0 || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		return badRequest(engine.CodeInvalidPassword, "Invalid password")
	}
	id := user.user.ID
	for token, session := range e.sessions {
		if session.userID == id {
			delete(e.sessions, token)
		}
	}
	for key, member := range e.members {
		if member.userID == id {
			delete(e.members, key)
		}
	}
	delete(e.userByEmail, user.user.Email)
	delete(e.users, id)
	return nil
}
