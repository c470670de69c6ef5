package actions

import (
	"context"

	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
)

const (
	twoFactorNotImplemented  = "Two-factor functionality not implemented"
	passkeyNotImplemented    = "Passkey functionality not implemented"
	invitationNotImplemented = "Accept invitation functionality not implemented"
)

// The operations below are placeholders: they never reach the engine and
// always fail with NOT_IMPLEMENTED.

// EnableTwoFactor is not implemented.
func (d *Dispatcher) EnableTwoFactor(ctx context.Context, _ EnableTwoFactorRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "enableTwoFactor", twoFactorNotImplemented)
}

// VerifyTwoFactor is not implemented.
func (d *Dispatcher) VerifyTwoFactor(ctx context.Context, _ VerifyTwoFactorRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "verifyTwoFactor", twoFactorNotImplemented)
}

// DisableTwoFactor is not implemented.
func (d *Dispatcher) DisableTwoFactor(ctx context.Context, _ DisableTwoFactorRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "disableTwoFactor", twoFactorNotImplemented)
}

// RegisterPasskey is not implemented.
func (d *Dispatcher) RegisterPasskey(ctx context.Context, _ RegisterPasskeyRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "registerPasskey", passkeyNotImplemented)
}

// DeletePasskey is not implemented.
func (d *Dispatcher) DeletePasskey(ctx context.Context, _ DeletePasskeyRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "deletePasskey", passkeyNotImplemented)
}

// AcceptInvitation is not implemented.
func (d *Dispatcher) AcceptInvitation(ctx context.Context, _ AcceptInvitationRequest) actionresult.Result[struct{}] {
	return d.notImplemented(ctx, "acceptInvitation", invitationNotImplemented)
}

func (d *Dispatcher) notImplemented(ctx context.Context, name string, message string) actionresult.Result[struct{}] {
	op := operation{name: name, fallback: message}
	return run(ctx, d, op, nil, func(context.Context) (struct{}, error) {
		return struct{}{}, fail(message, CodeNotImplemented)
	})
}
