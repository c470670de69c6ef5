// Package templates renders the web service's HTML components.
package templates

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// AppName is the product name shown in page chrome.
const AppName = "Spawn Bot"

const htmxScript = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// Toast is a one-time notice rendered at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// Page carries the shared chrome of a full page render.
type Page struct {
	Title string
	Lang  string
	// User is nil for signed-out renders.
	User  *snapshot.User
	Toast *Toast
	Loc   Localizer
}

// PageTitle suffixes title with the product name.
func PageTitle(title string) string {
	if title == "" {
		return AppName
	}
	return title + " | " + AppName
}

// Layout renders the document shell around the children in context.
func Layout(page Page) templ.Component {
	return component(func(w *writer) {
		lang := page.Lang
		if lang == "" {
			lang = "en-US"
		}
		w.raw(`<!DOCTYPE html><html`)
		w.attr("lang", lang)
		w.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(PageTitle(page.Title))
		w.raw(`</title><meta name="description"`)
		w.attr("content", T(page.Loc, "meta.description"))
		w.raw(`><link rel="stylesheet"`)
		w.href(routepath.StaticPrefix + "app.css")
		w.raw(`><script defer`)
		w.attr("src", htmxScript)
		w.raw(`></script><script defer`)
		w.attr("src", routepath.StaticPrefix+"app.js")
		w.raw(`></script></head><body hx-boost="true">`)
		navigation(w, page)
		if page.Toast != nil && page.Toast.Message != "" {
			w.raw(`<div id="app-toast" role="status"`)
			w.attr("class", "toast toast-"+page.Toast.Kind)
			w.raw(`>`)
			w.text(page.Toast.Message)
			w.raw(`</div>`)
		}
		w.raw(`<main id="main">`)
		w.children()
		w.raw(`</main></body></html>`)
	})
}

func navigation(w *writer, page Page) {
	w.raw(`<header class="nav"><a class="brand"`)
	w.href(routepath.Root)
	w.raw(`>`)
	w.text(AppName)
	w.raw(`</a><nav>`)
	if page.User == nil {
		w.link(routepath.SignIn, T(page.Loc, "nav.sign_in"))
		w.link(routepath.SignUp, T(page.Loc, "nav.sign_up"))
		w.raw(`</nav></header>`)
		return
	}
	w.link(routepath.Dashboard, T(page.Loc, "nav.dashboard"))
	w.link(routepath.Settings, T(page.Loc, "nav.settings"))
	w.raw(`<span class="viewer">`)
	w.text(page.User.DisplayName())
	w.raw(`</span>`)
	w.form(routepath.SignOut, "class", "inline")
	w.submit(T(page.Loc, "nav.sign_out"), "link")
	w.endForm()
	w.raw(`</nav></header>`)
}
