// Package snapshot defines the read-only identity, organization and device
// session shapes rendered for a request.
//
// Snapshots are built per request from the auth engine and never mutated by
// the web layer; mutations go through actions and are re-fetched afterwards.
package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// Role is an organization membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Roles lists the accepted roles in display order.
func Roles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleMember}
}

// ParseRole validates a role value. Matching is exact, the same rule Decode
// applies.
func ParseRole(value string) (Role, error) {
	role := Role(value)
	if !role.Valid() {
		return "", fmt.Errorf("role %q must be one of owner, admin, member", value)
	}
	return role, nil
}

// Valid reports whether r is one of the accepted roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	default:
		return false
	}
}

// CanManageMembers reports whether the role may invite, remove or re-role members.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationRejected InvitationStatus = "rejected"
	InvitationCanceled InvitationStatus = "canceled"
)

// Valid reports whether s is a known invitation status.
func (s InvitationStatus) Valid() bool {
	switch s {
	case InvitationPending, InvitationAccepted, InvitationRejected, InvitationCanceled:
		return true
	default:
		return false
	}
}

// User is the public profile of an authenticated principal.
type User struct {
	ID               string
	Email            string
	Name             string
	Image            string
	EmailVerified    bool
	TwoFactorEnabled bool
}

// DisplayName returns the name, falling back to the email address.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}

// Initial returns the first letter used for avatar fallbacks.
func (u User) Initial() string {
	for _, r := range u.DisplayName() {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// Identity is the authenticated principal for one request.
//
// SessionToken is opaque and stays on the server.
type Identity struct {
	SessionToken         string
	User                 User
	ExpiresAt            time.Time
	ActiveOrganizationID string
}

// Personal reports whether no organization is active.
func (i Identity) Personal() bool {
	return strings.TrimSpace(i.ActiveOrganizationID) == ""
}

// Member is one organization membership.
type Member struct {
	ID     string
	UserID string
	Role   Role
	User   User
}

// Invitation is a pending or resolved organization invitation.
type Invitation struct {
	ID             string
	OrganizationID string
	Email          string
	Role           Role
	Status         InvitationStatus
	InviterID      string
	ExpiresAt      time.Time
}

// OrganizationSummary identifies an organization without membership detail.
type OrganizationSummary struct {
	ID   string
	Name string
	Slug string
	Logo string
}

// Organization is the active organization with members and invitations.
type Organization struct {
	ID          string
	Name        string
	Slug        string
	Logo        string
	Members     []Member
	Invitations []Invitation
}

// Summary returns the organization identity fields.
func (o Organization) Summary() OrganizationSummary {
	return OrganizationSummary{ID: o.ID, Name: o.Name, Slug: o.Slug, Logo: o.Logo}
}

// MemberFor returns the membership for userID.
func (o Organization) MemberFor(userID string) (Member, bool) {
	for _, member := range o.Members {
		if member.UserID == userID {
			return member, true
		}
	}
	return Member{}, false
}

// PendingInvitations returns invitations still awaiting a response.
func (o Organization) PendingInvitations() []Invitation {
	pending := make([]Invitation, 0, len(o.Invitations))
	for _, invitation := range o.Invitations {
		if invitation.Status == InvitationPending {
			pending = append(pending, invitation)
		}
	}
	return pending
}

// Validate enforces membership and role invariants.
func (o Organization) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("organization id is required")
	}
	seen := make(map[string]struct{}, len(o.Members))
	for idx, member := range o.Members {
		if strings.TrimSpace(member.UserID) == "" {
			return fmt.Errorf("member %d: user id is required", idx)
		}
		if _, dup := seen[member.UserID]; dup {
			return fmt.Errorf("member %d: duplicate user id %q", idx, member.UserID)
		}
		seen[member.UserID] = struct{}{}
		if !member.Role.Valid() {
			return fmt.Errorf("member %d: invalid role %q", idx, member.Role)
		}
	}
	for idx, invitation := range o.Invitations {
		if !invitation.Role.Valid() {
			return fmt.Errorf("invitation %d: invalid role %q", idx, invitation.Role)
		}
		if !invitation.Status.Valid() {
			return fmt.Errorf("invitation %d: invalid status %q", idx, invitation.Status)
		}
	}
	return nil
}

// DeviceSession is one signed-in browser session for multi-session support.
type DeviceSession struct {
	ID           string
	UserAgent    string
	IPAddress    string
	LastActive   time.Time
	Current      bool
	User         *User
	SessionToken string
}

// ValidateDeviceSessions checks that a non-empty list flags exactly one
// current session.
func ValidateDeviceSessions(sessions []DeviceSession) error {
	if len(sessions) == 0 {
		return nil
	}
	current := 0
	for idx, session := range sessions {
		if strings.TrimSpace(session.ID) == "" {
			return fmt.Errorf("device session %d: id is required", idx)
		}
		if session.Current {
			current++
		}
	}
	if current != 1 {
		return fmt.Errorf("device sessions flag %d current entries, want 1", current)
	}
	return nil
}

// OtherAccounts returns device sessions that belong to a different user
// than currentUserID, for the account switcher.
func OtherAccounts(sessions []DeviceSession, currentUserID string) []DeviceSession {
	others := make([]DeviceSession, 0, len(sessions))
	for _, session := range sessions {
		if session.User == nil || session.User.ID == currentUserID {
			continue
		}
		others = append(others, session)
	}
	return others
}

// TwoFactorStatus reports the user's two-factor state.
type TwoFactorStatus struct {
	Enabled  bool
	Verified bool
}

// EmailVerificationStatus reports whether the user's email is confirmed.
type EmailVerificationStatus struct {
	Verified bool
	Email    string
}
