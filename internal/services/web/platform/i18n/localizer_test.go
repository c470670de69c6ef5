package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	webi18n "github.com/louisbranch/spawnbot/internal/services/web/i18n"
)

func TestResolveLocalizerPersistsQuerySelection(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?lang=en-US", nil)
	rr := httptest.NewRecorder()
	loc, lang := ResolveLocalizer(rr, req)
	if lang != "en-US" {
		t.Fatalf("lang = %q, want %q", lang, "en-US")
	}
	if got := loc.Sprintf("nav.sign_in"); got != "Sign in" {
		t.Fatalf("Sprintf(nav.sign_in) = %q, want %q", got, "Sign in")
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != webi18n.LangCookieName {
		t.Fatalf("cookies = %v, want %s", cookies, webi18n.LangCookieName)
	}
}

func TestResolveLocalizerWithoutQueryWritesNoCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rr := httptest.NewRecorder()
	_, lang := ResolveLocalizer(rr, req)
	if lang != "en-US" {
		t.Fatalf("lang = %q, want %q", lang, "en-US")
	}
	if cookies := rr.Result().Cookies(); len(cookies) != 0 {
		t.Fatalf("cookies = %v, want none", cookies)
	}
	if got := ResolveTag(req).String(); got != "en-US" {
		t.Fatalf("ResolveTag = %q, want %q", got, "en-US")
	}
}
