// Package pagerender centralizes module page rendering behavior.
package pagerender

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	flashnotice "github.com/louisbranch/spawnbot/internal/services/web/platform/flash"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/spawnbot/internal/services/web/platform/i18n"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
	webtemplates "github.com/louisbranch/spawnbot/internal/services/web/templates"
)

// ViewerResolver resolves the signed-in user for page chrome. A nil user
// renders the signed-out navigation.
type ViewerResolver interface {
	ResolveRequestViewer(r *http.Request) *snapshot.User
}

// ModulePage describes a module page response for both full-page and HTMX flows.
type ModulePage struct {
	Title      string
	StatusCode int
	Fragment   templ.Component
}

type emptyComponent struct{}

func (emptyComponent) Render(context.Context, io.Writer) error {
	return nil
}

// WriteModulePage writes the fragment alone for HTMX requests and inside the
// document layout otherwise. Only full-page renders consume the flash notice.
func WriteModulePage(w http.ResponseWriter, r *http.Request, resolver ViewerResolver, page ModulePage) error {
	if w == nil {
		return nil
	}
	statusCode := page.StatusCode
	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	fragment := page.Fragment
	if fragment == nil {
		fragment = emptyComponent{}
	}

	loc, lang := webi18n.ResolveLocalizer(w, r)
	ctx := httpx.RequestContext(r)
	var buf bytes.Buffer
	if httpx.IsHTMXRequest(r) {
		if err := fragment.Render(ctx, &buf); err != nil {
			return err
		}
		return writeHTML(w, statusCode, buf.Bytes())
	}

	var viewer *snapshot.User
	if resolver != nil {
		viewer = resolver.ResolveRequestViewer(r)
	}
	layout := webtemplates.Layout(webtemplates.Page{
		Title: page.Title,
		Lang:  lang,
		User:  viewer,
		Toast: resolveFlashToast(w, r, loc),
		Loc:   loc,
	})
	if err := layout.Render(templ.WithChildren(ctx, fragment), &buf); err != nil {
		return err
	}
	return writeHTML(w, statusCode, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, statusCode int, body []byte) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_, err := w.Write(body)
	return err
}

func resolveFlashToast(w http.ResponseWriter, r *http.Request, loc webi18n.Localizer) *webtemplates.Toast {
	notice, ok := flashnotice.ReadAndClear(w, r)
	if !ok {
		return nil
	}
	message := strings.TrimSpace(notice.Message)
	if key := strings.TrimSpace(notice.Key); key != "" {
		message = strings.TrimSpace(loc.Sprintf(key))
		if message == "" {
			message = key
		}
	}
	if message == "" {
		return nil
	}
	return &webtemplates.Toast{
		Kind:    string(notice.Kind),
		Message: message,
	}
}
