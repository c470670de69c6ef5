package app

import (
	"net/http"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/httpx"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// BuildRootHandler composes a root mux from the configured module groups and
// adds the platform routes.
func BuildRootHandler(cfg Config) (http.Handler, error) {
	authRequired := cfg.AuthRequired
	if authRequired == nil {
		authRequired = hasSessionCookie
	}
	root, err := Compose(ComposeInput{
		AuthRequired:        authRequired,
		PublicModules:       cfg.PublicModules,
		ProtectedModules:    cfg.ProtectedModules,
		RequestSchemePolicy: cfg.SchemePolicy,
	})
	if err != nil {
		return nil, err
	}
	all := append(append([]module.Module(nil), cfg.PublicModules...), cfg.ProtectedModules...)
	root.Handle(http.MethodGet+" "+routepath.Health, healthHandler(all))
	if cfg.Metrics != nil {
		root.Handle(http.MethodGet+" "+routepath.Metrics, cfg.Metrics)
	}
	if cfg.Static != nil {
		root.Handle(http.MethodGet+" "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(cfg.Static))))
	}
	return root, nil
}

type healthReport struct {
	Status  string          `json:"status"`
	Modules map[string]bool `json:"modules"`
}

// healthHandler reports 200 when every module that reports health is
// healthy, otherwise 503.
func healthHandler(features []module.Module) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		report := healthReport{Status: "ok", Modules: map[string]bool{}}
		status := http.StatusOK
		for _, feature := range features {
			reporter, ok := feature.(module.HealthReporter)
			if !ok {
				continue
			}
			healthy := reporter.Healthy()
			report.Modules[feature.ID()] = healthy
			if !healthy {
				report.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		w.Header().Set("Cache-Control", "no-store")
		_ = httpx.WriteJSON(w, status, report)
	})
}
