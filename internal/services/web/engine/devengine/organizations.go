package devengine

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"github.com/louisbranch/spawnbot/internal/services/web/email"
	"github.com/louisbranch/spawnbot/internal/services/web/engine"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// CreateOrganization creates an organization owned by the signed-in user
// and makes it active for the session.
func (e *Engine) CreateOrganization(ctx context.Context, name string, slug string) (snapshot.OrganizationSummary, error) {
	name, slug = strings.TrimSpace(name), strings.TrimSpace(slug)
	if name == "" || slug == "" {
		return snapshot.OrganizationSummary{}, badRequest(engine.CodeInvalidInput, "Name and slug are required")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	session, user, err := e.requireSession(ctx)
	if err != nil {
		return snapshot.OrganizationSummary{}, err
	}
	if e.slugTaken(slug, "") {
		return snapshot.OrganizationSummary{}, slugTaken()
	}
	org := &organizationRecord{summary: snapshot.OrganizationSummary{ID: newID(), Name: name, Slug: slug}}
	e.organizations[org.summary.ID] = org
	owner := &memberRecord{
		id:             newID(),
		organizationID: org.summary.ID,
		userID:         user.user.ID,
		role:           snapshot.RoleOwner,
		createdAt:      e.now(),
	}
	e.members[owner.id] = owner
	session.activeOrganizationID = org.summary.ID
	return org.summary, nil
}

// UpdateOrganization patches an organization. Owners and admins only.
func (e *Engine) UpdateOrganization(ctx context.Context, organizationID string, patch engine.OrganizationPatch) (snapshot.OrganizationSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	org, actor, err := e.requireMembership(ctx, organizationID)
	if err != nil {
		return snapshot.OrganizationSummary{}, err
	}
	if !actor.role.CanManageMembers() {
		return snapshot.OrganizationSummary{}, forbidden("You are not allowed to update this organization")
	}
	if patch.Slug != nil {
		slug := strings.TrimSpace(*patch.Slug)
		if slug == "" {
			return snapshot.OrganizationSummary{}, badRequest(engine.CodeInvalidInput, "Slug is required")
		}
		if e.slugTaken(slug, org.summary.ID) {
			return snapshot.OrganizationSummary{}, slugTaken()
		}
		org.summary.Slug = slug
	}
	if patch.Name != nil {
		if name := strings.TrimSpace(*patch.Name); name != "" {
			org.summary.Name = name
		}
	}
	if patch.Logo != nil {
		org.summary.Logo = strings.TrimSpace(*patch.Logo)
	}
	return org.summary, nil
}

// DeleteOrganization removes an organization with its memberships and
// invitations. Owners only.
func (e *Engine) DeleteOrganization(ctx context.Context, organizationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	org, actor, err := e.requireMembership(ctx, organizationID)
	if err != nil {
		return err
	}
	if actor.role != snapshot.RoleOwner {
		return forbidden("Only owners can delete an organization")
	}
	id := org.summary.ID
	delete(e.organizations, id)
	for key, member := range e.members {
		if member.organizationID == id {
			delete(e.members, key)
		}
	}
	for key, invitation := range e.invitations {
		if invitation.OrganizationID == id {
			delete(e.invitations, key)
		}
	}
	for _, session := range e.sessions {
		if session.activeOrganizationID == id {
			session.activeOrganizationID = ""
		}
	}
	return nil
}

// CreateInvitation invites an email address into an organization and emails
// the invitation.
func (e *Engine) CreateInvitation(ctx context.Context, input engine.InvitationInput) (snapshot.Invitation, error) {
	address := normalizeEmail(input.Email)
	if address == "" {
		return snapshot.Invitation{}, badRequest(engine.CodeInvalidInput, "Email is required")
	}
	if !input.Role.Valid() {
		return snapshot.Invitation{}, badRequest(engine.CodeInvalidInput, "Invalid role")
	}

	e.mu.Lock()
	org, actor, err := e.requireMembership(ctx, input.OrganizationID)
	if err != nil {
		e.mu.Unlock()
		return snapshot.Invitation{}, err
	}
	if !actor.role.CanManageMembers() {
		e.mu.Unlock()
		return snapshot.Invitation{}, forbidden("You are not allowed to invite members")
	}
	if input.Role == snapshot.RoleOwner && actor.role != snapshot.RoleOwner {
		e.mu.Unlock()
		return snapshot.Invitation{}, forbidden("Only owners can invite owners")
	}
	if userID, ok := e.userByEmail[address]; ok {
		if _, member := e.memberOf(org.summary.ID, userID); member {
			e.mu.Unlock()
			return snapshot.Invitation{}, badRequest("USER_IS_ALREADY_A_MEMBER", "User is already a member of this organization")
		}
	}
	now := e.now()
	for _, existing := range e.invitations {
		if existing.OrganizationID == org.summary.ID && existing.Email == address &&
			existing.Status == snapshot.InvitationPending && existing.ExpiresAt.After(now) {
			e.mu.Unlock()
			return snapshot.Invitation{}, badRequest("USER_IS_ALREADY_INVITED", "User is already invited to this organization")
		}
	}
	invitation := &snapshot.Invitation{
		ID:             newID(),
		OrganizationID: org.summary.ID,
		Email:          address,
		Role:           input.Role,
		Status:         snapshot.InvitationPending,
		InviterID:      actor.userID,
		ExpiresAt:      now.Add(InvitationTTL),
	}
	e.invitations[invitation.ID] = invitation
	inviter := e.users[actor.userID].user
	message := email.Invitation{
		To:               address,
		InviterName:      inviter.DisplayName(),
		InviterEmail:     inviter.Email,
		OrganizationName: org.summary.Name,
		InvitationID:     invitation.ID,
	}
	created := *invitation
	e.mu.Unlock()

	if err := e.deliver(func(m Mailer) error { return m.SendInvitation(ctx, message) }); err != nil {
		return snapshot.Invitation{}, err
	}
	return created, nil
}

// CancelInvitation cancels a pending invitation. Owners and admins only.
func (e *Engine) CancelInvitation(ctx context.Context, invitationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	invitation, ok := e.invitations[strings.TrimSpace(invitationID)]
	if !ok {
		return notFound("Invitation not found")
	}
	_, actor, err := e.requireMembership(ctx, invitation.OrganizationID)
	if err != nil {
		return err
	}
	if !actor.role.CanManageMembers() {
		return forbidden("You are not allowed to cancel invitations")
	}
	if invitation.Status != snapshot.InvitationPending {
		return badRequest(engine.CodeInvalidInput, "Invitation is no longer pending")
	}
	invitation.Status = snapshot.InvitationCanceled
	return nil
}

// RemoveMember removes a member by membership id or email. Members may
// remove themselves; removing others needs an owner or admin.
func (e *Engine) RemoveMember(ctx context.Context, organizationID string, memberIDOrEmail string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	org, actor, err := e.requireMembership(ctx, organizationID)
	if err != nil {
		return err
	}
	target, ok := e.findMember(org.summary.ID, memberIDOrEmail)
	if !ok {
		return notFound("Member not found")
	}
	if target.id != actor.id && !actor.role.CanManageMembers() {
		return forbidden("You are not allowed to remove members")
	}
	if target.role == snapshot.RoleOwner {
		if actor.role != snapshot.RoleOwner {
			return forbidden("Only owners can remove owners")
		}
		if e.ownerCount(org.summary.ID) <= 1 {
			return badRequest("LAST_OWNER", "The last owner cannot be removed")
		}
	}
	delete(e.members, target.id)
	for _, session := range e.sessions {
		if session.userID == target.userID && session.activeOrganizationID == org.summary.ID {
			session.activeOrganizationID = ""
		}
	}
	return nil
}

// UpdateMemberRole changes a member's role. Owners and admins only; only
// owners grant or revoke ownership.
func (e *Engine) UpdateMemberRole(ctx context.Context, organizationID string, memberID string, role snapshot.Role) (snapshot.Member, error) {
	if !role.Valid() {
		return snapshot.Member{}, badRequest(engine.CodeInvalidInput, "Invalid role")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	org, actor, err := e.requireMembership(ctx, organizationID)
	if err != nil {
		return snapshot.Member{}, err
	}
	if !actor.role.CanManageMembers() {
		return snapshot.Member{}, forbidden("You are not allowed to update members")
	}
	target, ok := e.members[strings.TrimSpace(memberID)]
	if !ok || target.organizationID != org.summary.ID {
		return snapshot.Member{}, notFound("Member not found")
	}
	if (role == snapshot.RoleOwner || target.role == snapshot.RoleOwner) && actor.role != snapshot.RoleOwner {
		return snapshot.Member{}, forbidden("Only owners can change ownership")
	}
	if target.role == snapshot.RoleOwner && role != snapshot.RoleOwner && e.ownerCount(org.summary.ID) <= 1 {
		return snapshot.Member{}, badRequest("LAST_OWNER", "The last owner cannot be demoted")
	}
	target.role = role
	return e.member(target), nil
}

// SetActiveOrganization selects an organization the user belongs to. An
// empty id returns the session to the personal workspace.
func (e *Engine) SetActiveOrganization(ctx context.Context, organizationID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	organizationID = strings.TrimSpace(organizationID)
	if organizationID == "" {
		session, _, err := e.requireSession(ctx)
		if err != nil {
			return err
		}
		session.activeOrganizationID = ""
		return nil
	}
	org, _, err := e.requireMembership(ctx, organizationID)
	if err != nil {
		return err
	}
	session, _, _ := e.currentSession(ctx)
	session.activeOrganizationID = org.summary.ID
	return nil
}

// GetFullOrganization returns the active organization with its members and
// invitations, or nil when none is active.
func (e *Engine) GetFullOrganization(ctx context.Context) (*snapshot.Organization, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	session, user, err := e.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	org, ok := e.organizations[session.activeOrganizationID]
	if !ok {
		return nil, nil
	}
	if _, member := e.memberOf(org.summary.ID, user.user.ID); !member {
		return nil, nil
	}
	full := &snapshot.Organization{
		ID:          org.summary.ID,
		Name:        org.summary.Name,
		Slug:        org.summary.Slug,
		Logo:        org.summary.Logo,
		Members:     []snapshot.Member{},
		Invitations: []snapshot.Invitation{},
	}
	for _, record := range e.sortedMembers(org.summary.ID) {
		full.Members = append(full.Members, e.member(record))
	}
	full.Invitations = append(full.Invitations, e.sortedInvitations(func(inv *snapshot.Invitation) bool {
		return inv.OrganizationID == org.summary.ID
	})...)
	return full, nil
}

// ListOrganizations returns the organizations the user belongs to, by name.
func (e *Engine) ListOrganizations(ctx context.Context) ([]snapshot.OrganizationSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, user, err := e.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	orgs := make([]snapshot.OrganizationSummary, 0)
	for _, member := range e.members {
		if member.userID != user.user.ID {
			continue
		}
		if org, ok := e.organizations[member.organizationID]; ok {
			orgs = append(orgs, org.summary)
		}
	}
	sort.Slice(orgs, func(i, j int) bool {
		if orgs[i].Name != orgs[j].Name {
			return orgs[i].Name < orgs[j].Name
		}
		return orgs[i].ID < orgs[j].ID
	})
	return orgs, nil
}

// ListInvitations returns pending invitations addressed to the user.
func (e *Engine) ListInvitations(ctx context.Context) ([]snapshot.Invitation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, user, err := e.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	now := e.now()
	return e.sortedInvitations(func(inv *snapshot.Invitation) bool {
		return inv.Email == user.user.Email && inv.Status == snapshot.InvitationPending && inv.ExpiresAt.After(now)
	}), nil
}

func slugTaken() error {
	return engine.Reject(http.StatusConflict, engine.CodeSlugTaken, "Organization slug already taken")
}

// The helpers below expect the caller to hold e.mu.

func (e *Engine) requireMembership(ctx context.Context, organizationID string) (*organizationRecord, *memberRecord, error) {
	_, user, err := e.requireSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	org, ok := e.organizations[strings.TrimSpace(organizationID)]
	if !ok {
		return nil, nil, notFound("Organization not found")
	}
	member, ok := e.memberOf(org.summary.ID, user.user.ID)
	if !ok {
		return nil, nil, forbidden("You are not a member of this organization")
	}
	return org, member, nil
}

func (e *Engine) memberOf(organizationID, userID string) (*memberRecord, bool) {
	for _, member := range e.members {
		if member.organizationID == organizationID && member.userID == userID {
			return member, true
		}
	}
	return nil, false
}

func (e *Engine) findMember(organizationID, memberIDOrEmail string) (*memberRecord, bool) {
	key := strings.TrimSpace(memberIDOrEmail)
	if member, ok := e.members[key]; ok && member.organizationID == organizationID {
		return member, true
	}
	if userID, ok := e.userByEmail[normalizeEmail(key)]; ok {
		return e.memberOf(organizationID, userID)
	}
	return nil, false
}

func (e *Engine) ownerCount(organizationID string) int {
	owners := 0
	for _, member := range e.members {
		if member.organizationID == organizationID && member.role == snapshot.RoleOwner {
			owners++
		}
	}
	return owners
}

func (e *Engine) slugTaken(slug, exceptID string) bool {
	for id, org := range e.organizations {
		if id != exceptID && strings.EqualFold(org.summary.Slug, slug) {
			return true
		}
	}
	return false
}

func (e *Engine) member(record *memberRecord) snapshot.Member {
	member := snapshot.Member{ID: record.id, UserID: record.userID, Role: record.role}
	if user, ok := e.users[record.userID]; ok {
		member.User = user.user
	}
	return member
}

func (e *Engine) sortedMembers(organizationID string) []*memberRecord {
	members := make([]*memberRecord, 0)
	for _, member := range e.members {
		if member.organizationID == organizationID {
			members = append(members, member)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if !members[i].createdAt.Equal(members[j].createdAt) {
			return members[i].createdAt.Before(members[j].createdAt)
		}
		return members[i].id < members[j].id
	})
	return members
}

func (e *Engine) sortedInvitations(keep func(*snapshot.Invitation) bool) []snapshot.Invitation {
	invitations := make([]snapshot.Invitation, 0)
	for _, invitation := range e.invitations {
		if keep(invitation) {
			invitations = append(invitations, *invitation)
		}
	}
	sort.Slice(invitations, func(i, j int) bool {
		if !invitations[i].ExpiresAt.Equal(invitations[j].ExpiresAt) {
			return invitations[i].ExpiresAt.Before(invitations[j].ExpiresAt)
		}
		return invitations[i].ID < invitations[j].ID
	})
	return invitations
}
