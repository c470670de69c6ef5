package publicauth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
)

const maxHookBodyBytes = 64 << 10

// Failure codes returned by the email hook.
const (
	codeHookUnconfigured = "EMAIL_NOT_CONFIGURED"
	codeDeliveryFailed   = "EMAIL_DELIVERY_FAILED"
)

// handleEmailHook delivers auth emails the engine asks for. The engine
// authenticates with the shared hook secret as a bearer token.
func (h handlers) handleEmailHook(w http.ResponseWriter, r *http.Request) {
	if h.hook == nil || h.hookSecret == "" {
		writeHookResult(w, http.StatusServiceUnavailable, "Email delivery is not configured", codeHookUnconfigured)
		return
	}
	if !validBearer(r.Header.Get("Authorization"), h.hookSecret) {
		writeHookResult(w, http.StatusUnauthorized, "Unauthorized", actions.CodeUnauthorized)
		return
	}
	var event email.Event
	if err := json.NewDecoder(io.LimitReader(r.Body, maxHookBodyBytes)).Decode(&event); err != nil {
		writeHookResult(w, http.StatusBadRequest, "Invalid email event", actions.CodeValidation)
		return
	}
	if strings.TrimSpace(event.Email) == "" {
		writeHookResult(w, http.StatusBadRequest, "Email is required", actions.CodeValidation)
		return
	}
	if err := h.hook.Deliver(r.Context(), event); err != nil {
		var unknown email.UnknownKindError
		if errors.As(err, &unknown) {
			writeHookResult(w, http.StatusBadRequest, unknown.Error(), actions.CodeValidation)
			return
		}
		h.logHookFailure(r, event, err)
		writeHookResult(w, http.StatusBadGateway, "Failed to send email", codeDeliveryFailed)
		return
	}
	_ = actionresult.Write(w, http.StatusOK, actionresult.Success(actions.Message{Message: "Email sent"}))
}

func (h handlers) logHookFailure(r *http.Request, event email.Event, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Printf("email hook: deliver %s (request %s): %v", event.Kind, httpx.RequestIDFrom(r), err)
}

func validBearer(header, secret string) bool {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(secret)) == 1
}

func writeHookResult(w http.ResponseWriter, status int, message, code string) {
	_ = actionresult.Write(w, status, actionresult.Failure[struct{}](message, actionresult.WithCode(code)))
}
