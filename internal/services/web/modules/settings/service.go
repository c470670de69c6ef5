package settings

import (
	"context"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/queries"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

type service struct {
	loader *queries.Loader
}

func newService(loader *queries.Loader) service {
	return service{loader: loader}
}

// loadView reads the settings page state. ok is false without a session.
func (s service) loadView(ctx context.Context) (webtemplates.SettingsView, bool) {
	session := s.loader.Session(ctx)
	if session == nil {
		return webtemplates.SettingsView{}, false
	}
	return webtemplates.SettingsView{
		User:             session.User,
		Sessions:         s.loader.Sessions(ctx),
		TwoFactorEnabled: s.loader.TwoFactorEnabled(ctx),
	}, true
}

// sessionToken resolves a session id from the page to its token. Tokens
// never leave the server, so forms only carry ids.
func (s service) sessionToken(ctx context.Context, sessionID string) (token string, current bool) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", false
	}
	for _, session := range s.loader.Sessions(ctx) {
		if session.ID == sessionID {
			return session.SessionToken, session.Current
		}
	}
	return "", false
}

// email returns the signed-in address.
func (s service) email(ctx context.Context) string {
	if session := s.loader.Session(ctx); session != nil {
		return session.User.Email
	}
	return ""
}
