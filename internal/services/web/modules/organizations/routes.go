package organizations

import (
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodPost+" "+routepath.Organizations, h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.OrganizationsPrefix+"{$}", h.handleCreate)
	mux.HandleFunc(http.MethodPost+" "+routepath.OrganizationUpdatePattern, h.handleUpdate)
	mux.HandleFunc(http.MethodPost+" "+routepath.OrganizationDeletePattern, h.handleDelete)
	mux.HandleFunc(http.MethodPost+" "+routepath.OrganizationInvitePattern, h.handleInvite)
	mux.HandleFunc(http.MethodPost+" "+routepath.MemberRemovePattern, h.handleRemoveMember)
	mux.HandleFunc(http.MethodPost+" "+routepath.MemberRolePattern, h.handleUpdateRole)
	mux.HandleFunc(http.MethodPost+" "+routepath.InvitationCancelPattern, h.handleCancelInvitation)
	mux.HandleFunc(http.MethodPost+" "+routepath.InvitationAcceptPattern, h.handleAcceptInvitation)
	mux.HandleFunc(routepath.OrganizationsPrefix+"{rest...}", h.WriteNotFound)
	mux.HandleFunc(routepath.InvitationsPrefix+"{rest...}", h.WriteNotFound)
}
