package settings

import (
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

const noticeAccountUpdated = "Account updated successfully"

type handlers struct {
	modulehandler.Base
	service service
	actions *actions.Dispatcher
}

func newHandlers(s service, deps module.Dependencies) handlers {
	return handlers{
		Base:    modulehandler.NewBase(deps.ResolveViewer(), deps.SchemePolicy),
		service: s,
		actions: deps.Actions,
	}
}

var back = modulehandler.Outcome{Redirect: routepath.Settings}

func backWith(success string) modulehandler.Outcome {
	return modulehandler.Outcome{Redirect: routepath.Settings, Success: success}
}

func (h handlers) handleSettings(w http.ResponseWriter, r *http.Request) {
	view, ok := h.service.loadView(r.Context())
	if !ok {
		sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
		httpx.WriteRedirect(w, r, routepath.WithQuery(routepath.SignIn, "callbackURL", routepath.Settings))
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.settings"), http.StatusOK, webtemplates.Settings(view, loc))
}

func (h handlers) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.UpdateAccount(r.Context(), actions.UpdateAccountRequest{
		Name:  changedField(r, "name"),
		Email: changedField(r, "email"),
		Image: postedField(r, "image"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(noticeAccountUpdated))
}

func (h handlers) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.DeleteAccount(r.Context(), actions.DeleteAccountRequest{Password: r.FormValue("password")})
	if result.OK() {
		sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
	}
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        routepath.Root,
		FailureRedirect: routepath.Settings,
		Success:         result.Data().Message,
	})
}

func (h handlers) handleSendVerification(w http.ResponseWriter, r *http.Request) {
	result := h.actions.SendVerificationEmail(r.Context(), actions.VerificationEmailRequest{
		Email:       h.service.email(r.Context()),
		CallbackURL: routepath.Settings,
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(result.Data().Message))
}

func (h handlers) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	token, current := h.service.sessionToken(r.Context(), r.FormValue("sessionId"))
	result := h.actions.RevokeSession(r.Context(), actions.RevokeSessionRequest{Token: token})
	outcome := backWith(result.Data().Message)
	if result.OK() && current {
		sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
		outcome.Redirect = routepath.SignIn
	}
	modulehandler.WriteResult(h.Base, w, r, result, outcome)
}

// handleRevokeAllSessions ends every session the account holds, this one
// included, so the browser lands signed out.
func (h handlers) handleRevokeAllSessions(w http.ResponseWriter, r *http.Request) {
	result := h.actions.RevokeAllSessions(r.Context())
	if result.OK() {
		sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
	}
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        routepath.SignIn,
		FailureRedirect: routepath.Settings,
		Success:         result.Data().Message,
	})
}

func (h handlers) handleEnableTwoFactor(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.EnableTwoFactor(r.Context(), actions.EnableTwoFactorRequest{Password: r.FormValue("password")})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

func (h handlers) handleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.VerifyTwoFactor(r.Context(), actions.VerifyTwoFactorRequest{
		Code: strings.TrimSpace(r.FormValue("code")),
		Type: strings.TrimSpace(r.FormValue("type")),
	})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

func (h handlers) handleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.DisableTwoFactor(r.Context(), actions.DisableTwoFactorRequest{Password: r.FormValue("password")})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

func (h handlers) handleRegisterPasskey(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Settings) {
		return
	}
	result := h.actions.RegisterPasskey(r.Context(), actions.RegisterPasskeyRequest{Name: strings.TrimSpace(r.FormValue("name"))})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

func (h handlers) handleDeletePasskey(w http.ResponseWriter, r *http.Request) {
	result := h.actions.DeletePasskey(r.Context(), actions.DeletePasskeyRequest{PasskeyID: r.PathValue("passkeyID")})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

// changedField returns a non-blank posted value; blank inputs keep the
// stored value.
func changedField(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.PostFormValue(name))
	if value == "" {
		return nil
	}
	return &value
}

// postedField returns the posted value even when blank, so the field can be
// cleared.
func postedField(r *http.Request, name string) *string {
	if _, ok := r.PostForm[name]; !ok {
		return nil
	}
	value := strings.TrimSpace(r.PostForm.Get(name))
	return &value
}
