package actions

import (
	"context"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/platform/actionresult"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// CreateOrganization creates an organization owned by the signed-in user.
func (d *Dispatcher) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) actionresult.Result[snapshot.OrganizationSummary] {
	op := operation{name: "createOrganization", fallback: "Failed to create organization"}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.OrganizationSummary, error) {
		name := strings.TrimSpace(req.Name)
		slug := Slugify(req.Slug)
		if slug == "" {
			slug = Slugify(name)
		}
		organization, err := d.engine.CreateOrganization(ctx, name, slug)
		if err != nil {
			return snapshot.OrganizationSummary{}, wrapEngine("create organization", err)
		}
		return organization, nil
	})
}

// InviteMember invites an email address into an organization.
func (d *Dispatcher) InviteMember(ctx context.Context, req InviteMemberRequest) actionresult.Result[snapshot.Invitation] {
	op := operation{name: "inviteMember", fallback: "Failed to invite member", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Invitation, error) {
		role, _ := snapshot.ParseRole(req.Role)
		invitation, err := d.engine.CreateInvitation(ctx, engine.InvitationInput{
			OrganizationID: strings.TrimSpace(req.OrganizationID),
			Email:          strings.TrimSpace(req.Email),
			Role:           role,
		})
		if err != nil {
			return snapshot.Invitation{}, wrapEngine("create invitation", err)
		}
		return invitation, nil
	})
}

// UpdateOrganization patches organization fields.
func (d *Dispatcher) UpdateOrganization(ctx context.Context, req UpdateOrganizationRequest) actionresult.Result[snapshot.OrganizationSummary] {
	op := operation{name: "updateOrganization", fallback: "Failed to update organization", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.OrganizationSummary, error) {
		patch := engine.OrganizationPatch{Logo: trimmed(req.Logo), Name: trimmed(req.Name)}
		if req.Slug != nil {
			slug := Slugify(*req.Slug)
			patch.Slug = &slug
		}
		organization, err := d.engine.UpdateOrganization(ctx, strings.TrimSpace(req.OrganizationID), patch)
		if err != nil {
			return snapshot.OrganizationSummary{}, wrapEngine("update organization", err)
		}
		return organization, nil
	})
}

// DeleteOrganization deletes an organization.
func (d *Dispatcher) DeleteOrganization(ctx context.Context, req DeleteOrganizationRequest) actionresult.Result[Message] {
	op := operation{name: "deleteOrganization", fallback: "Failed to delete organization", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.DeleteOrganization(ctx, strings.TrimSpace(req.OrganizationID)); err != nil {
			return Message{}, wrapEngine("delete organization", err)
		}
		return Message{Message: "Organization deleted successfully"}, nil
	})
}

// RemoveMember removes a member by member id or email.
func (d *Dispatcher) RemoveMember(ctx context.Context, req RemoveMemberRequest) actionresult.Result[Message] {
	op := operation{name: "removeMember", fallback: "Failed to remove member", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		err := d.engine.RemoveMember(ctx, strings.TrimSpace(req.OrganizationID), strings.TrimSpace(req.MemberIDOrEmail))
		if err != nil {
			return Message{}, wrapEngine("remove member", err)
		}
		return Message{Message: "Member removed successfully"}, nil
	})
}

// UpdateMemberRole changes a member's role.
func (d *Dispatcher) UpdateMemberRole(ctx context.Context, req UpdateMemberRoleRequest) actionresult.Result[snapshot.Member] {
	op := operation{name: "updateMemberRole", fallback: "Failed to update member role", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (snapshot.Member, error) {
		role, _ := snapshot.ParseRole(req.Role)
		member, err := d.engine.UpdateMemberRole(ctx, strings.TrimSpace(req.OrganizationID), strings.TrimSpace(req.MemberID), role)
		if err != nil {
			return snapshot.Member{}, wrapEngine("update member role", err)
		}
		return member, nil
	})
}

// CancelInvitation cancels a pending invitation.
func (d *Dispatcher) CancelInvitation(ctx context.Context, req CancelInvitationRequest) actionresult.Result[Message] {
	op := operation{name: "cancelInvitation", fallback: "Failed to cancel invitation", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		if err := d.engine.CancelInvitation(ctx, strings.TrimSpace(req.InvitationID)); err != nil {
			return Message{}, wrapEngine("cancel invitation", err)
		}
		return Message{Message: "Invitation cancelled successfully"}, nil
	})
}

// SetActiveOrganization selects the active organization, or the Personal
// context when the request carries no organization id.
func (d *Dispatcher) SetActiveOrganization(ctx context.Context, req SetActiveOrganizationRequest) actionresult.Result[Message] {
	op := operation{name: "setActiveOrganization", fallback: "Failed to set active organization", revalidate: true}
	return run(ctx, d, op, req.Validate, func(ctx context.Context) (Message, error) {
		organizationID := ""
		if req.OrganizationID != nil {
			organizationID = strings.TrimSpace(*req.OrganizationID)
		}
		if err := d.engine.SetActiveOrganization(ctx, organizationID); err != nil {
			return Message{}, wrapEngine("set active organization", err)
		}
		return Message{Message: "Active organization updated"}, nil
	})
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	out := strings.TrimSpace(*value)
	return &out
}
