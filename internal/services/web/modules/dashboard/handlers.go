package dashboard

import (
	"errors"
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

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

func (h handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.loadView(r.Context())
	if errors.Is(err, errSignedOut) {
		// The cookie outlived its engine session.
		sessioncookie.ClearWithPolicy(w, r, h.SchemePolicy())
		httpx.WriteRedirect(w, r, routepath.WithQuery(routepath.SignIn, "callbackURL", routepath.Dashboard))
		return
	}
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, webtemplates.T(loc, "title.dashboard"), http.StatusOK, webtemplates.Dashboard(view, loc))
}

func (h handlers) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.loadSnapshot(r.Context())
	if errors.Is(err, errSignedOut) {
		_ = actionresult.Write(w, http.StatusUnauthorized, actionresult.Failure[struct{}]("Unauthorized", actionresult.WithCode(actions.CodeUnauthorized)))
		return
	}
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h handlers) handleActiveOrganization(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	view, result := h.service.switchOrganization(r.Context(), r.FormValue("organizationId"))
	if !httpx.IsHTMXRequest(r) || httpx.WantsJSON(r) {
		modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{Redirect: routepath.Dashboard})
		return
	}
	revalidate.WriteHeader(r.Context(), w)
	loc, _ := h.PageLocalizer(w, r)
	h.WritePage(w, r, "", http.StatusOK, webtemplates.OrganizationCard(view, loc))
}

func (h handlers) handleAccountSwitch(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	result := h.actions.SetActiveSession(r.Context(), actions.SetActiveSessionRequest{
		DeviceSessionID: strings.TrimSpace(r.FormValue("deviceSessionId")),
	})
	if result.OK() {
		identity := result.Data()
		sessioncookie.WriteWithPolicy(w, r, identity.SessionToken, identity.ExpiresAt, h.SchemePolicy())
	}
	modulehandler.WriteResult(h.Base, w, r, result, modulehandler.Outcome{Redirect: routepath.Dashboard})
}
