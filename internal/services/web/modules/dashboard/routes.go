package dashboard

import (
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Dashboard, h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.DashboardPrefix+"{$}", h.handleIndex)
	mux.HandleFunc(http.MethodGet+" "+routepath.DashboardSnapshot, h.handleSnapshot)
	mux.HandleFunc(http.MethodPost+" "+routepath.DashboardActiveOrg, h.handleActiveOrganization)
	mux.HandleFunc(http.MethodPost+" "+routepath.DashboardAccountSwitch, h.handleAccountSwitch)
	mux.HandleFunc(routepath.DashboardPrefix+"{rest...}", h.WriteNotFound)
}
