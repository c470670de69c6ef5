package weberror

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/spawnbot/internal/services/web/platform/errors"
	webi18n "github.com/louisbranch/spawnbot/internal/services/web/platform/i18n"
)

func TestWriteModuleErrorRendersAppErrorPageForNotFound(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/dashboard/missing", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindNotFound, "missing"), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `id="app-error-state"`) {
		t.Fatalf("body missing app error state marker: %q", body)
	}
	if !strings.Contains(body, "Page not found") {
		t.Fatalf("body missing localized title: %q", body)
	}
}

func TestWriteModuleErrorWritesPlainTextForBadRequest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/settings/account", nil)
	rr := httptest.NewRecorder()
	WriteModuleError(rr, req, apperrors.E(apperrors.KindInvalidInput, "bad form"), nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	body := rr.Body.String()
	if !strings.Contains(body, http.StatusText(http.StatusBadRequest)) {
		t.Fatalf("body = %q, want generic bad-request message", body)
	}
	if strings.Contains(body, "bad form") {
		t.Fatalf("body leaked internal error text: %q", body)
	}
}

func TestWriteAppErrorHTMXOmitsDocument(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	req.Header.Set("HX-Request", "true")
	rr := httptest.NewRecorder()
	WriteAppError(rr, req, http.StatusBadGateway, nil)
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadGateway)
	}
	if body := strings.ToLower(rr.Body.String()); strings.Contains(body, "<html") {
		t.Fatalf("htmx error response rendered a full document: %q", body)
	}
}

func TestWriteAppErrorCoercesNonPageStatus(t *testing.T) {
	t.Parallel()

	rr := httptest.NewRecorder()
	WriteAppError(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusTeapot, nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusInternalServerError)
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	loc, _ := webi18n.ResolveLocalizer(httptest.NewRecorder(), req)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "catalog key", err: apperrors.EK(apperrors.KindForbidden, "error.title_forbidden", "raw"), want: "Access denied"},
		{name: "unknown key", err: apperrors.EK(apperrors.KindConflict, "missing.key", "raw"), want: http.StatusText(http.StatusConflict)},
		{name: "plain error", err: errors.New("boom"), want: http.StatusText(http.StatusInternalServerError)},
	}
	for _, tc := range tests {
		if got := PublicMessage(loc, tc.err); got != tc.want {
			t.Fatalf("%s: PublicMessage() = %q, want %q", tc.name, got, tc.want)
		}
	}
}
