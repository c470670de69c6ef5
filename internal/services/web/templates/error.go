package templates

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// ErrorPageTitle returns the localized title for an error status.
func ErrorPageTitle(status int, loc Localizer) string {
	return T(loc, errorKey(status, "title"))
}

// ErrorState renders the body of an error page.
func ErrorState(status int, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card error-state" id="app-error-state"><h1>`)
		w.text(ErrorPageTitle(status, loc))
		w.raw(`</h1><p>`)
		w.text(T(loc, errorKey(status, "message")))
		w.raw(`</p>`)
		w.link(routepath.Root, T(loc, "error.back_home"))
		w.raw(`</section>`)
	})
}

func errorKey(status int, field string) string {
	switch status {
	case http.StatusNotFound:
		return "error." + field + "_not_found"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "error." + field + "_forbidden"
	default:
		return "error." + field + "_server"
	}
}
