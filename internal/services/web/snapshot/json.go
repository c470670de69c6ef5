package snapshot

import "encoding/json"

// The JSON forms below reuse the hydration schema so every payload leaving
// the server shares one shape and never includes session tokens.

// MarshalJSON renders the public user fields.
func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userToWire(u))
}

// MarshalJSON renders the identity without its session token.
func (i Identity) MarshalJSON() ([]byte, error) {
	wire := identityWire{User: userToWire(i.User), ExpiresAt: formatTime(i.ExpiresAt)}
	if !i.Personal() {
		id := i.ActiveOrganizationID
		wire.ActiveOrganizationID = &id
	}
	return json.Marshal(wire)
}

// MarshalJSON renders the organization identity fields.
func (o OrganizationSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
		Logo string `json:"logo,omitempty"`
	}{ID: o.ID, Name: o.Name, Slug: o.Slug, Logo: o.Logo})
}

// MarshalJSON renders the organization with members and invitations.
func (o Organization) MarshalJSON() ([]byte, error) {
	return json.Marshal(organizationToWire(o))
}

// MarshalJSON renders one membership.
func (m Member) MarshalJSON() ([]byte, error) {
	return json.Marshal(memberWire{ID: m.ID, UserID: m.UserID, Role: string(m.Role), User: userToWire(m.User)})
}

// MarshalJSON renders one invitation.
func (i Invitation) MarshalJSON() ([]byte, error) {
	return json.Marshal(invitationToWire(i))
}

// MarshalJSON renders one device session without its session token.
func (s DeviceSession) MarshalJSON() ([]byte, error) {
	return json.Marshal(deviceSessionToWire(s))
}
