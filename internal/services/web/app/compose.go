package app

import (
	"fmt"
	"net/http"
	"strings"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Signed-out visitors land on the public entry page.
const defaultEntryPath = routepath.Root

// ComposeInput carries module groups and shared composition contracts.
type ComposeInput struct {
	AuthRequired        func(*http.Request) bool
	PublicModules       []module.Module
	ProtectedModules    []module.Module
	RequestSchemePolicy requestmeta.SchemePolicy
}

// Compose builds a root HTTP handler from module groups.
func Compose(input ComposeInput) (*http.ServeMux, error) {
	root := http.NewServeMux()
	if input.AuthRequired == nil {
		input.AuthRequired = func(*http.Request) bool { return false }
	}
	seen := make(map[string]string)

	for _, feature := range input.PublicModules {
		if feature == nil {
			return nil, fmt.Errorf("public module is nil")
		}
		if err := mountPublicModule(root, feature, seen); err != nil {
			return nil, err
		}
	}

	wrap := wrapProtectedModule(input.AuthRequired, input.RequestSchemePolicy)
	for _, feature := range input.ProtectedModules {
		if feature == nil {
			return nil, fmt.Errorf("protected module is nil")
		}
		if err := mountProtectedModule(root, feature, seen, wrap); err != nil {
			return nil, err
		}
	}

	return root, nil
}

func mountModule(
	root *http.ServeMux,
	feature module.Module,
	handler http.Handler,
	prefix string,
	seen map[string]string,
) error {
	if previous, ok := seen[prefix]; ok {
		return fmt.Errorf("module %q duplicates prefix %q owned by module %q", feature.ID(), prefix, previous)
	}
	seen[prefix] = feature.ID()
	root.Handle(prefix, handler)
	return nil
}

func mountPublicModule(root *http.ServeMux, feature module.Module, seen map[string]string) error {
	mount, prefixes, err := resolveMount(feature)
	if err != nil {
		return err
	}
	for _, prefix := range prefixes {
		if isProtectedPrefix(prefix) {
			return fmt.Errorf("module %q has protected prefix %q in public group", feature.ID(), prefix)
		}
		if err := mountModule(root, feature, mount.Handler, prefix, seen); err != nil {
			return err
		}
	}
	return nil
}

func mountProtectedModule(root *http.ServeMux, feature module.Module, seen map[string]string, wrap func(http.Handler) http.Handler) error {
	mount, prefixes, err := resolveMount(feature)
	if err != nil {
		return err
	}
	handler := wrap(mount.Handler)
	for _, prefix := range prefixes {
		if !isProtectedPrefix(prefix) {
			return fmt.Errorf("module %q must mount under %s, got %q", feature.ID(), routepath.DashboardPrefix, prefix)
		}
		if err := mountModule(root, feature, handler, prefix, seen); err != nil {
			return err
		}
		if alias := protectedSlashlessPrefixAlias(prefix); alias != "" {
			if err := mountModule(root, feature, handler, alias, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func isProtectedPrefix(prefix string) bool {
	return strings.HasPrefix(prefix, routepath.DashboardPrefix)
}

// resolveMount validates a module mount and returns its prefixes, primary
// prefix first.
func resolveMount(feature module.Module) (module.Mount, []string, error) {
	mount, err := feature.Mount()
	if err != nil {
		return module.Mount{}, nil, fmt.Errorf("mount module %q: %w", feature.ID(), err)
	}
	if mount.Handler == nil {
		return module.Mount{}, nil, fmt.Errorf("mount module %q: handler is required", feature.ID())
	}
	prefixes := make([]string, 0, 1+len(mount.AdditionalPrefixes))
	for _, prefix := range append([]string{mount.Prefix}, mount.AdditionalPrefixes...) {
		if err := validatePrefix(prefix); err != nil {
			return module.Mount{}, nil, fmt.Errorf("mount module %q has invalid prefix %q: %w", feature.ID(), prefix, err)
		}
		prefixes = append(prefixes, prefix)
	}
	return mount, prefixes, nil
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("prefix is required")
	}
	if strings.TrimSpace(prefix) != prefix {
		return fmt.Errorf("prefix must not include surrounding whitespace")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("prefix must begin with /")
	}
	if !strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("prefix must end with /")
	}
	return nil
}

func protectedSlashlessPrefixAlias(prefix string) string {
	if !isProtectedPrefix(prefix) {
		return ""
	}
	return strings.TrimSuffix(prefix, "/")
}

func requireAuth(authenticated func(*http.Request) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authenticated(r) {
				httpx.WriteRedirect(w, r, defaultEntryPath)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func wrapProtectedModule(authenticated func(*http.Request) bool, policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	authWrap := requireAuth(authenticated)
	csrfWrap := requireCookieSessionSameOrigin(policy)
	return func(next http.Handler) http.Handler {
		return authWrap(csrfWrap(next))
	}
}

func requireCookieSessionSameOrigin(policy requestmeta.SchemePolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isMutationMethod(r) || !hasSessionCookie(r) {
				next.ServeHTTP(w, r)
				return
			}
			if !requestmeta.HasSameOriginProofWithPolicy(r, policy) {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isMutationMethod(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func hasSessionCookie(r *http.Request) bool {
	_, ok := sessioncookie.Read(r)
	return ok
}
