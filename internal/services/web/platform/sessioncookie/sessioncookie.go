// Package sessioncookie centralizes the engine session cookie.
//
// The engine issues opaque session tokens; this package only stores them in
// the browser and reads them back. Over HTTPS the cookie carries the
// __Secure- prefix.
package sessioncookie

import (
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
)

const (
	// Marker is the substring every session cookie name contains.
	Marker = "session_token"
	// Name is the session cookie name on plain HTTP.
	Name = "spawn." + Marker
	// SecureName is the session cookie name on HTTPS.
	SecureName = "__Secure-" + Name
)

// Read returns the trimmed session token when present.
func Read(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, name := range []string{SecureName, Name} {
		cookie, err := r.Cookie(name)
		if err != nil || cookie == nil {
			continue
		}
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value, true
		}
	}
	return "", false
}

// Write sets the session cookie without an explicit expiry.
func Write(w http.ResponseWriter, r *http.Request, token string) {
	WriteWithPolicy(w, r, token, time.Time{}, requestmeta.SchemePolicy{})
}

// WriteWithPolicy sets the session cookie, expiring with the engine session
// when expiresAt is set.
func WriteWithPolicy(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	secure := requestmeta.IsHTTPSWithPolicy(r, policy)
	cookie := &http.Cookie{
		Name:     cookieName(secure),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expiresAt.IsZero() {
		cookie.Expires = expiresAt.UTC()
	}
	http.SetCookie(w, cookie)
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request) {
	ClearWithPolicy(w, r, requestmeta.SchemePolicy{})
}

// ClearWithPolicy expires the session cookie under both names.
func ClearWithPolicy(w http.ResponseWriter, r *http.Request, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	secure := requestmeta.IsHTTPSWithPolicy(r, policy)
	for _, name := range []string{Name, SecureName} {
		if name == SecureName && !secure {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func cookieName(secure bool) string {
	if secure {
		return SecureName
	}
	return Name
}
