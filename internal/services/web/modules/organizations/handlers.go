package organizations

import (
	"net/http"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/actions"
	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/modulehandler"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

// Notices shown after successful mutations that return data instead of a
// message.
const (
	noticeCreated     = "Organization created successfully"
	noticeUpdated     = "Organization updated successfully"
	noticeInvited     = "Invitation sent"
	noticeRoleUpdated = "Member role updated"
)

type handlers struct {
	modulehandler.Base
	actions *actions.Dispatcher
}

func newHandlers(deps module.Dependencies) handlers {
	return handlers{
		Base:    modulehandler.NewBase(deps.ResolveViewer(), deps.SchemePolicy),
		actions: deps.Actions,
	}
}

var back = modulehandler.Outcome{Redirect: routepath.Dashboard}

func backWith(success string) modulehandler.Outcome {
	return modulehandler.Outcome{Redirect: routepath.Dashboard, Success: success}
}

func (h handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	result := h.actions.CreateOrganization(r.Context(), actions.CreateOrganizationRequest{
		Name: r.FormValue("name"),
		Slug: r.FormValue("slug"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(noticeCreated))
}

func (h handlers) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	result := h.actions.UpdateOrganization(r.Context(), actions.UpdateOrganizationRequest{
		OrganizationID: r.PathValue("orgID"),
		Name:           filledField(r, "name"),
		Slug:           filledField(r, "slug"),
		Logo:           postedField(r, "logo"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(noticeUpdated))
}

func (h handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	result := h.actions.DeleteOrganization(r.Context(), actions.DeleteOrganizationRequest{
		OrganizationID: r.PathValue("orgID"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(result.Data().Message))
}

func (h handlers) handleInvite(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	result := h.actions.InviteMember(r.Context(), actions.InviteMemberRequest{
		OrganizationID: r.PathValue("orgID"),
		Email:          r.FormValue("email"),
		Role:           r.FormValue("role"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(noticeInvited))
}

func (h handlers) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	result := h.actions.RemoveMember(r.Context(), actions.RemoveMemberRequest{
		OrganizationID:  r.PathValue("orgID"),
		MemberIDOrEmail: r.PathValue("memberID"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(result.Data().Message))
}

func (h handlers) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	if !modulehandler.ParseForm(h.Base, w, r, routepath.Dashboard) {
		return
	}
	result := h.actions.UpdateMemberRole(r.Context(), actions.UpdateMemberRoleRequest{
		OrganizationID: r.PathValue("orgID"),
		MemberID:       r.PathValue("memberID"),
		Role:           r.FormValue("role"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(noticeRoleUpdated))
}

func (h handlers) handleCancelInvitation(w http.ResponseWriter, r *http.Request) {
	result := h.actions.CancelInvitation(r.Context(), actions.CancelInvitationRequest{
		InvitationID: r.PathValue("invitationID"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, backWith(result.Data().Message))
}

func (h handlers) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	result := h.actions.AcceptInvitation(r.Context(), actions.AcceptInvitationRequest{
		InvitationID: r.PathValue("invitationID"),
	})
	modulehandler.WriteResult(h.Base, w, r, result, back)
}

// filledField returns the trimmed value when the form carried a non-blank
// value, so blank inputs leave the field unchanged.
func filledField(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.PostFormValue(name))
	if value == "" {
		return nil
	}
	return &value
}

// postedField returns the value whenever the form carried the field, so an
// emptied input clears it.
func postedField(r *http.Request, name string) *string {
	if _, ok := r.PostForm[name]; !ok {
		return nil
	}
	value := strings.TrimSpace(r.PostForm.Get(name))
	return &value
}
