package httpengine

import (
	"strings"
	"time"

	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

type userDTO struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Name             string  `json:"name"`
	Image            *string `json:"image"`
	EmailVerified    bool    `json:"emailVerified"`
	TwoFactorEnabled bool    `json:"twoFactorEnabled"`
}

func (u userDTO) toUser() snapshot.User {
	user := snapshot.User{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		EmailVerified:    u.EmailVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
	}
	if u.Image != nil {
		user.Image = *u.Image
	}
	return user
}

type sessionDTO struct {
	ID                   string    `json:"id"`
	Token                string    `json:"token"`
	UserID               string    `json:"userId"`
	ExpiresAt            time.Time `json:"expiresAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
	UserAgent            string    `json:"userAgent"`
	IPAddress            string    `json:"ipAddress"`
	ActiveOrganizationID *string   `json:"activeOrganizationId"`
}

// sessionEnvelope is the engine's session-with-user shape.
type sessionEnvelope struct {
	Session sessionDTO `json:"session"`
	User    userDTO    `json:"user"`
}

func (e sessionEnvelope) toIdentity() snapshot.Identity {
	identity := snapshot.Identity{
		SessionToken: e.Session.Token,
		User:         e.User.toUser(),
		ExpiresAt:    e.Session.ExpiresAt,
	}
	if e.Session.ActiveOrganizationID != nil {
		identity.ActiveOrganizationID = strings.TrimSpace(*e.Session.ActiveOrganizationID)
	}
	return identity
}

func (e sessionEnvelope) toDeviceSession(currentToken string) snapshot.DeviceSession {
	user := e.User.toUser()
	return snapshot.DeviceSession{
		ID:           e.Session.ID,
		UserAgent:    e.Session.UserAgent,
		IPAddress:    e.Session.IPAddress,
		LastActive:   lastActive(e.Session),
		Current:      currentToken != "" && e.Session.Token == currentToken,
		User:         &user,
		SessionToken: e.Session.Token,
	}
}

func (s sessionDTO) toDeviceSession(currentToken string) snapshot.DeviceSession {
	return snapshot.DeviceSession{
		ID:           s.ID,
		UserAgent:    s.UserAgent,
		IPAddress:    s.IPAddress,
		LastActive:   lastActive(s),
		Current:      currentToken != "" && s.Token == currentToken,
		SessionToken: s.Token,
	}
}

func lastActive(s sessionDTO) time.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.ExpiresAt
}

// tokenResponse is returned by credential sign-in, sign-up and magic-link
// verification.
type tokenResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

func (t tokenResponse) toIdentity() snapshot.Identity {
	return snapshot.Identity{SessionToken: t.Token, User: t.User.toUser()}
}

type organizationDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Logo        *string         `json:"logo"`
	Members     []memberDTO     `json:"members"`
	Invitations []invitationDTO `json:"invitations"`
}

func (o organizationDTO) toSummary() snapshot.OrganizationSummary {
	summary := snapshot.OrganizationSummary{ID: o.ID, Name: o.Name, Slug: o.Slug}
	if o.Logo != nil {
		summary.Logo = *o.Logo
	}
	return summary
}

func (o organizationDTO) toOrganization() snapshot.Organization {
	summary := o.toSummary()
	organization := snapshot.Organization{
		ID:          summary.ID,
		Name:        summary.Name,
		Slug:        summary.Slug,
		Logo:        summary.Logo,
		Members:     make([]snapshot.Member, 0, len(o.Members)),
		Invitations: make([]snapshot.Invitation, 0, len(o.Invitations)),
	}
	for _, member := range o.Members {
		organization.Members = append(organization.Members, member.toMember())
	}
	for _, invitation := range o.Invitations {
		organization.Invitations = append(organization.Invitations, invitation.toInvitation())
	}
	return organization
}

type memberDTO struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Role   string  `json:"role"`
	User   userDTO `json:"user"`
}

func (m memberDTO) toMember() snapshot.Member {
	return snapshot.Member{ID: m.ID, UserID: m.UserID, Role: role(m.Role), User: m.User.toUser()}
}

type invitationDTO struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organizationId"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	InviterID      string    `json:"inviterId"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

func (i invitationDTO) toInvitation() snapshot.Invitation {
	return snapshot.Invitation{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		Email:          i.Email,
		Role:           role(i.Role),
		Status:         snapshot.InvitationStatus(strings.ToLower(strings.TrimSpace(i.Status))),
		InviterID:      i.InviterID,
		ExpiresAt:      i.ExpiresAt,
	}
}

// role keeps the first of a comma-separated role list.
func role(raw string) snapshot.Role {
	first, _, _ := strings.Cut(raw, ",")
	return snapshot.Role(strings.ToLower(strings.TrimSpace(first)))
}

type statusResponse struct {
	Status bool `json:"status"`
}
