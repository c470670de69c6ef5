// Package webctx carries the inbound session credential and browser metadata
// into request contexts for engine calls.
package webctx

import (
	"context"
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
)

// WithRequestCredential returns the request context enriched with the session
// cookie token and client metadata.
func WithRequestCredential(r *http.Request) context.Context {
	if r == nil {
		return context.Background()
	}
	ctx := engine.WithClientInfo(r.Context(), engine.ClientInfo{
		UserAgent: strings.TrimSpace(r.UserAgent()),
		IPAddress: httpx.ClientIP(r),
	})
	if token, ok := sessioncookie.Read(r); ok {
		ctx = engine.WithCredential(ctx, token)
	}
	return ctx
}

// Middleware installs the request credential on every request.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithRequestCredential(r)))
		})
	}
}

// WithSession returns ctx carrying token as the credential for follow-up
// reads in the same request, such as a render right after sign-in.
func WithSession(ctx context.Context, token string) context.Context {
	return engine.WithCredential(ctx, token)
}
