package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SchemaVersion is the version stamped on every encoded hydration payload.
const SchemaVersion = 1

// Hydration is the server-to-client payload for interactive dashboard parts.
//
// A nil Identity means signed out; a nil Organization means Personal.
type Hydration struct {
	Identity       *Identity
	Organization   *Organization
	DeviceSessions []DeviceSession
}

type hydrationWire struct {
	Version        int                 `json:"version"`
	Identity       *identityWire       `json:"identity"`
	Organization   *organizationWire   `json:"organization"`
	DeviceSessions []deviceSessionWire `json:"deviceSessions"`
}

type userWire struct {
	ID               string `json:"id"`
	Email            string `json:"email"`
	Name             string `json:"name"`
	Image            string `json:"image,omitempty"`
	EmailVerified    bool   `json:"emailVerified"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled,omitempty"`
}

type identityWire struct {
	User                 userWire `json:"user"`
	ExpiresAt            string   `json:"expiresAt"`
	ActiveOrganizationID *string  `json:"activeOrganizationId"`
}

type memberWire struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	Role   string   `json:"role"`
	User   userWire `json:"user"`
}

type invitationWire struct {
	ID             string `json:"id"`
	OrganizationID string `json:"organizationId,omitempty"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	Status         string `json:"status"`
	InviterID      string `json:"inviterId,omitempty"`
	ExpiresAt      string `json:"expiresAt"`
}

type organizationWire struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Logo        string           `json:"logo,omitempty"`
	Members     []memberWire     `json:"members"`
	Invitations []invitationWire `json:"invitations"`
}

type deviceSessionWire struct {
	ID         string    `json:"id"`
	UserAgent  string    `json:"userAgent,omitempty"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	LastActive string    `json:"lastActive"`
	Current    bool      `json:"current"`
	User       *userWire `json:"user,omitempty"`
}

// Encode renders a hydration payload. Timestamps become RFC 3339 strings and
// session tokens are dropped.
func Encode(h Hydration) ([]byte, error) {
	wire := hydrationWire{
		Version:        SchemaVersion,
		DeviceSessions: make([]deviceSessionWire, 0, len(h.DeviceSessions)),
	}
	if h.Identity != nil {
		identity := identityWire{
			User:      userToWire(h.Identity.User),
			ExpiresAt: formatTime(h.Identity.ExpiresAt),
		}
		if id := strings.TrimSpace(h.Identity.ActiveOrganizationID); id != "" {
			identity.ActiveOrganizationID = &id
		}
		wire.Identity = &identity
	}
	if h.Organization != nil {
		if err := h.Organization.Validate(); err != nil {
			return nil, fmt.Errorf("encode organization: %w", err)
		}
		wire.Organization = organizationToWire(*h.Organization)
	}
	if err := ValidateDeviceSessions(h.DeviceSessions); err != nil {
		return nil, fmt.Errorf("encode device sessions: %w", err)
	}
	for _, session := range h.DeviceSessions {
		wire.DeviceSessions = append(wire.DeviceSessions, deviceSessionToWire(session))
	}
	return json.Marshal(wire)
}

// Decode parses and validates a hydration payload.
func Decode(raw []byte) (Hydration, error) {
	var wire hydrationWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Hydration{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if wire.Version != SchemaVersion {
		return Hydration{}, fmt.Errorf("decode snapshot: unsupported version %d", wire.Version)
	}

	var h Hydration
	if wire.Identity != nil {
		expiresAt, err := parseTime(wire.Identity.ExpiresAt)
		if err != nil {
			return Hydration{}, fmt.Errorf("decode identity expiresAt: %w", err)
		}
		identity := Identity{User: userFromWire(wire.Identity.User), ExpiresAt: expiresAt}
		if wire.Identity.ActiveOrganizationID != nil {
			identity.ActiveOrganizationID = *wire.Identity.ActiveOrganizationID
		}
		if strings.TrimSpace(identity.User.ID) == "" {
			return Hydration{}, fmt.Errorf("decode identity: user id is required")
		}
		h.Identity = &identity
	}
	if wire.Organization != nil {
		organization, err := organizationFromWire(*wire.Organization)
		if err != nil {
			return Hydration{}, err
		}
		if err := organization.Validate(); err != nil {
			return Hydration{}, fmt.Errorf("decode organization: %w", err)
		}
		h.Organization = &organization
	}
	for idx, item := range wire.DeviceSessions {
		lastActive, err := parseTime(item.LastActive)
		if err != nil {
			return Hydration{}, fmt.Errorf("decode device session %d lastActive: %w", idx, err)
		}
		session := DeviceSession{
			ID:         item.ID,
			UserAgent:  item.UserAgent,
			IPAddress:  item.IPAddress,
			LastActive: lastActive,
			Current:    item.Current,
		}
		if item.User != nil {
			user := userFromWire(*item.User)
			session.User = &user
		}
		h.DeviceSessions = append(h.DeviceSessions, session)
	}
	if err := ValidateDeviceSessions(h.DeviceSessions); err != nil {
		return Hydration{}, fmt.Errorf("decode device sessions: %w", err)
	}
	return h, nil
}

func organizationToWire(o Organization) *organizationWire {
	wire := &organizationWire{
		ID:          o.ID,
		Name:        o.Name,
		Slug:        o.Slug,
		Logo:        o.Logo,
		Members:     make([]memberWire, 0, len(o.Members)),
		Invitations: make([]invitationWire, 0, len(o.Invitations)),
	}
	for _, member := range o.Members {
		wire.Members = append(wire.Members, memberWire{
			ID:     member.ID,
			UserID: member.UserID,
			Role:   string(member.Role),
			User:   userToWire(member.User),
		})
	}
	for _, invitation := range o.Invitations {
		wire.Invitations = append(wire.Invitations, invitationToWire(invitation))
	}
	return wire
}

func invitationToWire(invitation Invitation) invitationWire {
	return invitationWire{
		ID:             invitation.ID,
		OrganizationID: invitation.OrganizationID,
		Email:          invitation.Email,
		Role:           string(invitation.Role),
		Status:         string(invitation.Status),
		InviterID:      invitation.InviterID,
		ExpiresAt:      formatTime(invitation.ExpiresAt),
	}
}

func deviceSessionToWire(session DeviceSession) deviceSessionWire {
	item := deviceSessionWire{
		ID:         session.ID,
		UserAgent:  session.UserAgent,
		IPAddress:  session.IPAddress,
		LastActive: formatTime(session.LastActive),
		Current:    session.Current,
	}
	if session.User != nil {
		user := userToWire(*session.User)
		item.User = &user
	}
	return item
}

func organizationFromWire(wire organizationWire) (Organization, error) {
	o := Organization{ID: wire.ID, Name: wire.Name, Slug: wire.Slug, Logo: wire.Logo}
	for _, member := range wire.Members {
		o.Members = append(o.Members, Member{
			ID:     member.ID,
			UserID: member.UserID,
			Role:   Role(member.Role),
			User:   userFromWire(member.User),
		})
	}
	for idx, invitation := range wire.Invitations {
		expiresAt, err := parseTime(invitation.ExpiresAt)
		if err != nil {
			return Organization{}, fmt.Errorf("decode invitation %d expiresAt: %w", idx, err)
		}
		o.Invitations = append(o.Invitations, Invitation{
			ID:             invitation.ID,
			OrganizationID: invitation.OrganizationID,
			Email:          invitation.Email,
			Role:           Role(invitation.Role),
			Status:         InvitationStatus(invitation.Status),
			InviterID:      invitation.InviterID,
			ExpiresAt:      expiresAt,
		})
	}
	return o, nil
}

func userToWire(u User) userWire {
	return userWire{ID: u.ID, Email: u.Email, Name: u.Name, Image: u.Image, EmailVerified: u.EmailVerified, TwoFactorEnabled: u.TwoFactorEnabled}
}

func userFromWire(u userWire) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name, Image: u.Image, EmailVerified: u.EmailVerified, TwoFactorEnabled: u.TwoFactorEnabled}
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
