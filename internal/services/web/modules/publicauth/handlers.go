package publicauth

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

type handlers struct {
	modulehandler.Base
	actions    *actions.Dispatcher
	hook       module.EmailDeliverer
	hookSecret string
	providers  []string
	logger     *log.Logger
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{
		Base:       modulehandler.NewBase(deps.ResolveViewer(), deps.SchemePolicy),
		actions:    deps.Actions,
		hook:       deps.Mailer,
		hookSecret: strings.TrimSpace(deps.HookSecret),
		providers:  deps.SocialProviders,
		logger:     deps.Logger,
	}
}

// callbackTarget keeps post sign-in navigation on this site.
func callbackTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !httpx.IsLocalPath(raw) {
		return actions.DefaultCallbackURL
	}
	return raw
}

func signInPath(callbackURL string) string {
	if callbackURL == actions.DefaultCallbackURL {
		return routepath.SignIn
	}
	return routepath.WithQuery(routepath.SignIn, "callbackURL", callbackURL)
}

func (h handlers) handleLanding(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.landing"), http.StatusOK, webtemplates.Landing(h.ResolveRequestViewer(r), loc))
}

func (h handlers) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	form := webtemplates.AuthForm{
		Email:       strings.TrimSpace(r.URL.Query().Get("email")),
		CallbackURL: callbackTarget(r.URL.Query().Get("callbackURL")),
	}
	h.WritePage(w, r, webtemplates.T(loc, "title.sign_in"), http.StatusOK, webtemplates.SignIn(form, h.providers, loc))
}

func (h handlers) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.SignIn) {
		return
	}
	callbackURL := callbackTarget(r.FormValue("callbackURL"))
	rememberMe := r.FormValue("rememberMe") == "true" || r.FormValue("rememberMe") == "on"
	result := h.actions.SignIn(r.Context(), actions.SignInRequest{
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		RememberMe: rememberMe,
	})
	h.startSession(w, r, result, rememberMe)
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        callbackURL,
		FailureRedirect: signInPath(callbackURL),
	})
}

func (h handlers) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.sign_up"), http.StatusOK, webtemplates.SignUp(webtemplates.AuthForm{}, loc))
}

func (h handlers) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.SignUp) {
		return
	}
	result := h.actions.SignUp(r.Context(), actions.SignUpRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Name:     r.FormValue("name"),
	})
	h.startSession(w, r, result, true)
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        actions.DefaultCallbackURL,
		FailureRedirect: routepath.SignUp,
	})
}

// startSession stores the issued session token. Without rememberMe the
// cookie ends with the browser session.
func (h handlers) startSession(w http.ResponseWriter, r *http.Request, result actionresult.Result[snapshot.Identity], rememberMe bool) {
	if !result.OK() {
		return
	}
	identity := result.Data()
	expiresAt := time.Time{}
	if rememberMe {
		expiresAt = identity.ExpiresAt
	}
	sessioncookie.WriteWithPolicy(w, r, identity.SessionToken, expiresAt, h.SchemePolicy())
}

func (h handlers) handleSignOut(w http.ResponseWriter, r *http.Request) {
	result := h.actions.SignOut(r.Context())
	sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
	// The browser is signed out either way; an engine failure only leaves a
	// stale server session behind.
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{Redirect: routepath.Root})
}

func (h handlers) handleForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.forgot"), http.StatusOK, webtemplates.ForgotPassword(webtemplates.AuthForm{}, loc))
}

func (h handlers) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.ForgotPassword) {
		return
	}
	result := h.actions.SendPasswordReset(r.Context(), actions.PasswordResetRequest{
		Email:      r.FormValue("email"),
		RedirectTo: actions.DefaultResetRedirect,
	})
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        routepath.SignIn,
		FailureRedirect: routepath.ForgotPassword,
		Success:         result.Data().Message,
	})
}

func (h handlers) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		h.WritePage(w, r, webtemplates.T(loc, "title.reset"), http.StatusBadRequest, webtemplates.Status(webtemplates.StatusView{
			Heading:   webtemplates.T(loc, "reset.heading"),
			Message:   webtemplates.T(loc, "reset.missing_token"),
			LinkURL:   routepath.ForgotPassword,
			LinkLabel: webtemplates.T(loc, "forgot.submit"),
			Failed:    true,
		}))
		return
	}
	h.WritePage(w, r, webtemplates.T(loc, "title.reset"), http.StatusOK, webtemplates.ResetPassword(webtemplates.AuthForm{Token: token}, loc))
}

func (h handlers) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.ForgotPassword) {
		return
	}
	token := strings.TrimSpace(r.FormValue("token"))
	result := h.actions.ResetPassword(r.Context(), actions.ResetPasswordRequest{
		NewPassword: r.FormValue("password"),
		Token:       token,
	})
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect:        routepath.SignIn,
		FailureRedirect: routepath.WithQuery(routepath.ResetPassword, "token", token),
		Success:         result.Data().Message,
	})
}

func (h handlers) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	query := r.URL.Query()
	callbackURL := callbackTarget(query.Get("callbackURL"))
	result := h.actions.VerifyEmail(r.Context(), actions.VerifyEmailRequest{Token: query.Get("token")})
	if httpx.WantsJSON(r) {
		_ = actionresult.Write(w, http.StatusOK, result)
		return
	}
	view := webtemplates.StatusView{
		Heading:   webtemplates.T(loc, "verify.success.heading"),
		Message:   webtemplates.T(loc, "verify.success.message"),
		LinkURL:   callbackURL,
		LinkLabel: webtemplates.T(loc, "status.back_dashboard"),
	}
	status := http.StatusOK
	if !result.OK() {
		status = http.StatusBadRequest
		view = webtemplates.StatusView{
			Heading:   webtemplates.T(loc, "verify.failed.heading"),
			Message:   webtemplates.T(loc, "verify.failed.message"),
			Detail:    result.Message(),
			LinkURL:   routepath.SignIn,
			LinkLabel: webtemplates.T(loc, "status.back_sign_in"),
			Failed:    true,
		}
	}
	h.WritePage(w, r, webtemplates.T(loc, "title.verify_email"), status, webtemplates.Status(view))
}

func (h handlers) handleMagicLink(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.SignIn) {
		return
	}
	callbackURL := callbackTarget(r.FormValue("callbackURL"))
	result := h.actions.SendMagicLink(r.Context(), actions.MagicLinkRequest{
		Email:       r.FormValue("email"),
		CallbackURL: callbackURL,
	})
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{
		Redirect: signInPath(callbackURL),
		Success:  result.Data().Message,
	})
}

func (h handlers) handleMagicLinkVerify(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	callbackURL := callbackTarget(query.Get("callbackURL"))
	result := h.actions.VerifyMagicLink(r.Context(), actions.VerifyMagicLinkRequest{Token: query.Get("token")})
	if result.OK() {
		h.startSession(w, r, result, true)
		modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{Redirect: callbackURL})
		return
	}
	if httpx.WantsJSON(r) {
		_ = actionresult.Write(w, http.StatusOK, result)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.magic_link"), http.StatusBadRequest, webtemplates.Status(webtemplates.StatusView{
		Heading:   webtemplates.T(loc, "magic.failed.heading"),
		Message:   webtemplates.T(loc, "magic.failed.message"),
		Detail:    webtemplates.T(loc, "magic.failed.detail"),
		LinkURL:   signInPath(callbackURL),
		LinkLabel: webtemplates.T(loc, "status.back_sign_in"),
		Failed:    true,
	}))
}

func (h handlers) handleSocialSignIn(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.SignIn) {
		return
	}
	callbackURL := callbackTarget(r.FormValue("callbackURL"))
	result := h.actions.SignInSocial(r.Context(), actions.SocialSignInRequest{
		Provider:    r.PathValue("provider"),
		CallbackURL: callbackURL,
	})
	if !result.OK() || httpx.WantsJSON(r) {
		modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{Redirect: signInPath(callbackURL)})
		return
	}
	// The provider URL is off-site, so it bypasses the local redirect check.
	httpx.WriteRedirect(w, r, result.Data().URL)
}

func (h handlers) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	loc, _ := h.PageLocalizer(w, r)
	invitationID := strings.TrimSpace(r.PathValue("invitationID"))
	result := h.actions.AcceptInvitation(r.Context(), actions.AcceptInvitationRequest{InvitationID: invitationID})
	view := webtemplates.StatusView{
		Heading:   webtemplates.T(loc, "invite.heading"),
		Message:   webtemplates.T(loc, "invite.message", invitationID),
		Detail:    result.Message(),
		LinkURL:   signInPath(actions.DefaultCallbackURL),
		LinkLabel: webtemplates.T(loc, "nav.sign_in"),
		Failed:    !result.OK(),
	}
	if h.ResolveRequestViewer(r) != nil {
		view.Message = webtemplates.T(loc, "invite.signed_in")
		view.LinkURL = routepath.Dashboard
		view.LinkLabel = webtemplates.T(loc, "status.back_dashboard")
	}
	h.WritePage(w, r, webtemplates.T(loc, "title.accept_invitation"), http.StatusOK, webtemplates.Status(view))
}
