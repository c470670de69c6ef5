package devengine

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
)

// Purposes of emailed tokens.
const (
	purposeReset  = "reset-password"
	purposeVerify = "verify-email"
	purposeMagic  = "magic-link"
)

type emailTokenClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"purpose"`
	Email   string `json:"email"`
}

func (e *Engine) issueToken(purpose, subject, address string, ttl time.Duration) (string, error) {
	now := e.now()
	claims := emailTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ID:        newID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Purpose: purpose,
		Email:   address,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(e.secret)
}

// consumeToken verifies raw for purpose and marks it used. The caller holds
// e.mu.
func (e *Engine) consumeToken(raw, purpose string) (emailTokenClaims, error) {
	var parsed emailTokenClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &parsed, func(*jwt.Token) (any, error) {
		return e.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return emailTokenClaims{}, invalidToken()
	}
	if parsed.Purpose != purpose || parsed.ID == "" || parsed.ExpiresAt == nil {
		return emailTokenClaims{}, invalidToken()
	}
	if !parsed.ExpiresAt.Time.After(e.now()) {
		return emailTokenClaims{}, badRequest(codeTokenExpired, "Token expired")
	}
	if _, used := e.usedTokens[parsed.ID]; used {
		return emailTokenClaims{}, invalidToken()
	}
	e.usedTokens[parsed.ID] = struct{}{}
	return parsed, nil
}

const codeTokenExpired = "TOKEN_EXPIRED"

func invalidToken() error {
	return badRequest(engine.CodeInvalidToken, "Invalid token")
}
