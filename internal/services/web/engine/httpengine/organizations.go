package httpengine

import (
	"context"
	"encoding/json"

	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// CreateOrganization creates an organization owned by the signed-in user.
func (c *Client) CreateOrganization(ctx context.Context, name string, slug string) (snapshot.OrganizationSummary, error) {
	var resp organizationDTO
	if err := c.post(ctx, "createOrganization", "/organization/create", map[string]any{"name": name, "slug": slug}, &resp); err != nil {
		return snapshot.OrganizationSummary{}, err
	}
	return resp.toSummary(), nil
}

// UpdateOrganization patches organization fields.
func (c *Client) UpdateOrganization(ctx context.Context, organizationID string, patch engine.OrganizationPatch) (snapshot.OrganizationSummary, error) {
	data := map[string]any{}
	if patch.Name != nil {
		data["name"] = *patch.Name
	}
	if patch.Slug != nil {
		data["slug"] = *patch.Slug
	}
	if patch.Logo != nil {
		data["logo"] = *patch.Logo
	}
	var resp organizationDTO
	body := map[string]any{"organizationId": organizationID, "data": data}
	if err := c.post(ctx, "updateOrganization", "/organization/update", body, &resp); err != nil {
		return snapshot.OrganizationSummary{}, err
	}
	return resp.toSummary(), nil
}

// DeleteOrganization deletes an organization.
func (c *Client) DeleteOrganization(ctx context.Context, organizationID string) error {
	return c.post(ctx, "deleteOrganization", "/organization/delete", map[string]any{"organizationId": organizationID}, nil)
}

// CreateInvitation invites an email address into an organization.
func (c *Client) CreateInvitation(ctx context.Context, input engine.InvitationInput) (snapshot.Invitation, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return snapshot.Invitation{}, err
	}
	body := map[string]any{"organizationId": input.OrganizationID, "email": email, "role": string(input.Role)}
	var resp invitationDTO
	if err := c.post(ctx, "createInvitation", "/organization/invite-member", body, &resp); err != nil {
		return snapshot.Invitation{}, err
	}
	return resp.toInvitation(), nil
}

// CancelInvitation cancels a pending invitation.
func (c *Client) CancelInvitation(ctx context.Context, invitationID string) error {
	return c.post(ctx, "cancelInvitation", "/organization/cancel-invitation", map[string]any{"invitationId": invitationID}, nil)
}

// RemoveMember removes a member by member id or email.
func (c *Client) RemoveMember(ctx context.Context, organizationID string, memberIDOrEmail string) error {
	body := map[string]any{"organizationId": organizationID, "memberIdOrEmail": memberIDOrEmail}
	return c.post(ctx, "removeMember", "/organization/remove-member", body, nil)
}

// UpdateMemberRole changes a member's role.
func (c *Client) UpdateMemberRole(ctx context.Context, organizationID string, memberID string, role snapshot.Role) (snapshot.Member, error) {
	body := map[string]any{"organizationId": organizationID, "memberId": memberID, "role": string(role)}
	var resp memberDTO
	if err := c.post(ctx, "updateMemberRole", "/organization/update-member-role", body, &resp); err != nil {
		return snapshot.Member{}, err
	}
	return resp.toMember(), nil
}

// SetActiveOrganization selects the active organization. An empty id sends
// null, which selects the Personal context.
func (c *Client) SetActiveOrganization(ctx context.Context, organizationID string) error {
	var id any
	if organizationID != "" {
		id = organizationID
	}
	return c.post(ctx, "setActiveOrganization", "/organization/set-active", map[string]any{"organizationId": id}, nil)
}

// GetFullOrganization returns the active organization, or nil when none is
// active.
func (c *Client) GetFullOrganization(ctx context.Context) (*snapshot.Organization, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "getFullOrganization", "/organization/get-full-organization", nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var resp organizationDTO
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	organization := resp.toOrganization()
	return &organization, nil
}

// ListOrganizations returns every organization the user belongs to.
func (c *Client) ListOrganizations(ctx context.Context) ([]snapshot.OrganizationSummary, error) {
	var resp []organizationDTO
	if err := c.get(ctx, "listOrganizations", "/organization/list", nil, &resp); err != nil {
		return nil, err
	}
	organizations := make([]snapshot.OrganizationSummary, 0, len(resp))
	for _, organization := range resp {
		organizations = append(organizations, organization.toSummary())
	}
	return organizations, nil
}

// ListInvitations returns invitations addressed to the signed-in user.
func (c *Client) ListInvitations(ctx context.Context) ([]snapshot.Invitation, error) {
	var resp []invitationDTO
	if err := c.get(ctx, "listInvitations", "/organization/list-user-invitations", nil, &resp); err != nil {
		return nil, err
	}
	invitations := make([]snapshot.Invitation, 0, len(resp))
	for _, invitation := range resp {
		invitations = append(invitations, invitation.toInvitation())
	}
	return invitations, nil
}
