// Package modulehandler provides a composable base for web module handlers.
//
// Modules share viewer resolution, localization, page rendering, error pages
// and the mutation response contract. Modules embed Base rather than
// duplicating that scaffold.
package modulehandler

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	flashnotice "github.com/louisbranch/spawnbot/internal/services/web/platform/flash"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/spawnbot/internal/services/web/platform/i18n"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/pagerender"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/revalidate"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/weberror"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

// InvalidFormMessage is the failure shown for unparseable form bodies.
const InvalidFormMessage = "Invalid form submission"

// Base carries the shared request-scoped helpers used by module handlers.
type Base struct {
	resolveViewer module.ResolveViewer
	policy        requestmeta.SchemePolicy
}

// NewBase builds a handler base.
func NewBase(resolveViewer module.ResolveViewer, policy requestmeta.SchemePolicy) Base {
	return Base{resolveViewer: resolveViewer, policy: policy}
}

// ResolveRequestViewer returns the signed-in user, or nil.
func (b Base) ResolveRequestViewer(r *http.Request) *snapshot.User {
	if b.resolveViewer == nil || r == nil {
		return nil
	}
	return b.resolveViewer(r)
}

// SchemePolicy returns the cookie scheme policy.
func (b Base) SchemePolicy() requestmeta.SchemePolicy {
	return b.policy
}

// PageLocalizer resolves a localizer and language tag from the request.
func (b Base) PageLocalizer(w http.ResponseWriter, r *http.Request) (webtemplates.Localizer, string) {
	return webi18n.ResolveLocalizer(w, r)
}

// WriteError renders a localized module error response.
func (b Base) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteModuleError(w, r, err, b)
}

// WriteNotFound renders a 404 error page within the layout.
func (b Base) WriteNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, http.StatusNotFound, b)
}

// WritePage renders a module page (HTMX-aware).
func (b Base) WritePage(w http.ResponseWriter, r *http.Request, title string, statusCode int, fragment templ.Component) {
	if err := pagerender.WriteModulePage(w, r, b, pagerender.ModulePage{
		Title:      title,
		StatusCode: statusCode,
		Fragment:   fragment,
	}); err != nil {
		b.WriteError(w, r, err)
	}
}

// WriteFlash stores a one-time notice for the next page render.
func (b Base) WriteFlash(w http.ResponseWriter, r *http.Request, notice flashnotice.Notice) {
	flashnotice.WriteWithPolicy(w, r, notice, b.policy)
}

// Outcome chooses where a browser lands after a mutation.
type Outcome struct {
	Redirect string
	// FailureRedirect defaults to Redirect.
	FailureRedirect string
	// Success is the notice shown on success; empty shows none.
	Success string
}

// WriteResult answers a mutation. Clients that accept JSON get the action
// envelope; browsers get a flash notice and an HTMX-aware redirect. Recorded
// revalidation signals are flushed in both cases.
func WriteResult[T any](b Base, w http.ResponseWriter, r *http.Request, result actionresult.Result[T], outcome Outcome) {
	revalidate.WriteHeader(httpx.RequestContext(r), w)
	if httpx.WantsJSON(r) {
		_ = actionresult.Write(w, http.StatusOK, result)
		return
	}
	target := outcome.Redirect
	if result.OK() {
		if message := strings.TrimSpace(outcome.Success); message != "" {
			b.WriteFlash(w, r, flashnotice.Success(message))
		}
	} else {
		b.WriteFlash(w, r, flashnotice.Error(result.Message()))
		if outcome.FailureRedirect != "" {
			target = outcome.FailureRedirect
		}
	}
	if !httpx.IsLocalPath(target) {
		target = "/"
	}
	httpx.WriteRedirect(w, r, target)
}

// ParseForm parses the request form. On failure it writes the invalid form
// response and returns false.
func ParseForm(b Base, w http.ResponseWriter, r *http.Request, redirect string) bool {
	if err := httpx.ParseForm(w, r); err != nil {
		WriteResult(b, w, r, actionresult.Failure[struct{}](InvalidFormMessage, actionresult.WithCode("INVALID_FORM")), Outcome{Redirect: redirect})
		return false
	}
	return true
}
