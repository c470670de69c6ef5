package organizations

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	module "github.com/louisbranch/spawnbot/internal/services/web/module"
	flashnotice "github.com/louisbranch/spawnbot/internal/services/web/platform/flash"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

func TestMountDeclaresOrganizationAndInvitationPrefixes(t *testing.T) {
	t.Parallel()

	m := New(module.Dependencies{})
	if m.ID() != "organizations" {
		t.Fatalf("ID() = %q, want %q", m.ID(), "organizations")
	}
	mount, err := m.Mount()
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	if mount.Prefix != routepath.OrganizationsPrefix {
		t.Fatalf("Prefix = %q, want %q", mount.Prefix, routepath.OrganizationsPrefix)
	}
	if len(mount.AdditionalPrefixes) != 1 || mount.AdditionalPrefixes[0] != routepath.InvitationsPrefix {
		t.Fatalf("AdditionalPrefixes = %v", mount.AdditionalPrefixes)
	}
}

func TestCreateOrganizationDerivesSlug(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	rr := f.post("/dashboard/organizations", url.Values{"name": {"Acme Rockets"}}, session)
	if rr.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusFound)
	}
	if got := rr.Header().Get("Location"); got != "/dashboard" {
		t.Fatalf("Location = %q, want %q", got, "/dashboard")
	}
	org := f.fullOrganization(t, session)
	if org == nil || org.Slug != "acme-rockets" {
		t.Fatalf("organization = %+v, want slug acme-rockets", org)
	}
	if member, ok := org.MemberFor(org.Members[0].UserID); !ok || member.Role != snapshot.RoleOwner {
		t.Fatalf("creator membership = %+v, want owner", member)
	}
}

func TestCreateOrganizationValidationFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	payload := f.postJSON(t, "/dashboard/organizations", url.Values{"name": {"  "}}, session)
	if payload["success"] != false || payload["code"] != "VALIDATION_ERROR" {
		t.Fatalf("payload = %v", payload)
	}

	rr := f.post("/dashboard/organizations", url.Values{"name": {""}}, session)
	if rr.Header().Get("Location") != "/dashboard" {
		t.Fatalf("Location = %q, want %q", rr.Header().Get("Location"), "/dashboard")
	}
	found := false
	for _, cookie := range rr.Result().Cookies() {
		found = found || cookie.Name == flashnotice.CookieName
	}
	if !found {
		t.Fatalf("validation failure set no flash notice")
	}
}

func TestUpdateOrganizationKeepsBlankFields(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	org := f.createOrganization(t, session, "Acme", "acme")

	rr := f.post(routepath.OrganizationUpdate(org.ID), url.Values{"name": {"Acme Corp"}, "slug": {""}}, session, "HX-Request", "true")
	if got := rr.Header().Get("HX-Redirect"); got != "/dashboard" {
		t.Fatalf("HX-Redirect = %q, want %q", got, "/dashboard")
	}
	if got := rr.Header().Get("HX-Trigger"); !strings.Contains(got, "/dashboard") {
		t.Fatalf("HX-Trigger = %q, want dashboard revalidation", got)
	}
	full := f.fullOrganization(t, session)
	if full.Name != "Acme Corp" || full.Slug != "acme" {
		t.Fatalf("organization = %+v, want renamed with slug kept", full)
	}
}

func TestInviteAndCancelInvitation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	org := f.createOrganization(t, session, "Acme", "acme")

	payload := f.postJSON(t, routepath.OrganizationInvite(org.ID), url.Values{"email": {"grace@example.com"}, "role": {"admin"}}, session)
	if payload["success"] != true {
		t.Fatalf("invite payload = %v", payload)
	}
	pending := f.fullOrganization(t, session).PendingInvitations()
	if len(pending) != 1 || pending[0].Role != snapshot.RoleAdmin {
		t.Fatalf("pending = %+v, want one admin invitation", pending)
	}

	again := f.postJSON(t, routepath.OrganizationInvite(org.ID), url.Values{"email": {"grace@example.com"}, "role": {"member"}}, session)
	if again["success"] != false {
		t.Fatalf("duplicate invite payload = %v", again)
	}

	cancel := f.postJSON(t, routepath.InvitationCancel(pending[0].ID), url.Values{}, session)
	if cancel["success"] != true {
		t.Fatalf("cancel payload = %v", cancel)
	}
	if left := f.fullOrganization(t, session).PendingInvitations(); len(left) != 0 {
		t.Fatalf("pending after cancel = %+v", left)
	}
}

func TestInviteRejectsInvalidRole(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	org := f.createOrganization(t, session, "Acme", "acme")
	payload := f.postJSON(t, routepath.OrganizationInvite(org.ID), url.Values{"email": {"grace@example.com"}, "role": {"emperor"}}, session)
	if payload["success"] != false || payload["code"] != "VALIDATION_ERROR" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestLastOwnerCannotBeDemotedOrRemoved(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	org := f.createOrganization(t, session, "Acme", "acme")
	owner := f.fullOrganization(t, session).Members[0]

	demote := f.postJSON(t, routepath.MemberRole(org.ID, owner.ID), url.Values{"role": {"member"}}, session)
	if demote["success"] != false || demote["error"] != "The last owner cannot be demoted" {
		t.Fatalf("demote payload = %v", demote)
	}
	remove := f.postJSON(t, routepath.MemberRemove(org.ID, owner.ID), url.Values{}, session)
	if remove["success"] != false || remove["error"] != "The last owner cannot be removed" {
		t.Fatalf("remove payload = %v", remove)
	}
}

func TestDeleteOrganizationRequiresOwnership(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	owner := f.signUp(t, "ada@example.com")
	org := f.createOrganization(t, owner, "Acme", "acme")
	outsider := f.signUp(t, "grace@example.com")

	denied := f.postJSON(t, routepath.OrganizationDelete(org.ID), url.Values{}, outsider)
	if denied["success"] != false {
		t.Fatalf("outsider delete payload = %v", denied)
	}
	deleted := f.postJSON(t, routepath.OrganizationDelete(org.ID), url.Values{}, owner)
	if deleted["success"] != true {
		t.Fatalf("owner delete payload = %v", deleted)
	}
	if got := f.fullOrganization(t, owner); got != nil {
		t.Fatalf("organization after delete = %+v, want nil", got)
	}
}

func TestAcceptInvitationIsNotImplemented(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	payload := f.postJSON(t, routepath.InvitationAccept("inv-1"), url.Values{}, session)
	if payload["success"] != false || payload["code"] != "NOT_IMPLEMENTED" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestUnknownOrganizationRouteIsNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	session := f.signUp(t, "ada@example.com")
	rr := f.post("/dashboard/organizations/org-1/explode", url.Values{}, session)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}
