// Package i18n resolves the request localizer for web rendering.
package i18n

import (
	"net/http"

	webi18n "github.com/louisbranch/spawnbot/internal/services/web/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Localizer provides translated strings for web components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// ResolveTag returns the language tag selected for r.
func ResolveTag(r *http.Request) language.Tag {
	tag, _ := webi18n.ResolveTag(r)
	return tag
}

// ResolveLocalizer returns a printer for the request language and the tag
// string for the document lang attribute. A lang query selection is
// persisted as a cookie.
func ResolveLocalizer(w http.ResponseWriter, r *http.Request) (Localizer, string) {
	tag, persist := webi18n.ResolveTag(r)
	if persist {
		webi18n.SetLanguageCookie(w, tag)
	}
	return webi18n.Printer(tag), tag.String()
}
