package engine

import (
	"context"
	"strings"
)

type credentialKey struct{}

type clientInfoKey struct{}

// ClientInfo describes the browser behind a request, recorded by the engine
// on new sessions.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

// WithCredential returns ctx carrying the inbound session token.
func WithCredential(ctx context.Context, token string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFromContext returns the session token carried by ctx.
func CredentialFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	token, _ := ctx.Value(credentialKey{}).(string)
	if token == "" {
		return "", false
	}
	return token, true
}

// WithClientInfo returns ctx carrying browser metadata.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFromContext returns browser metadata carried by ctx.
func ClientInfoFromContext(ctx context.Context) ClientInfo {
	if ctx == nil {
		return ClientInfo{}
	}
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}
