package templates

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// OrganizationCardID is the element swapped after an organization switch.
const OrganizationCardID = "organization-card"

// SnapshotScriptID is the element holding the hydration payload.
const SnapshotScriptID = "spawn-snapshot"

// DashboardView is the signed-in dashboard.
type DashboardView struct {
	User                 snapshot.User
	Organization         *snapshot.Organization
	Organizations        []snapshot.OrganizationSummary
	ActiveOrganizationID string
	// Accounts lists the other accounts signed in on this browser.
	Accounts    []snapshot.DeviceSession
	Invitations []snapshot.Invitation
	IsAdmin     bool
	SwitchError string
	// Snapshot is the encoded hydration payload, already JSON.
	Snapshot string
}

// Role returns the viewer's role in the active organization.
func (v DashboardView) Role() (snapshot.Role, bool) {
	if v.Organization == nil {
		return "", false
	}
	member, ok := v.Organization.MemberFor(v.User.ID)
	return member.Role, ok
}

// Dashboard renders the dashboard body.
func Dashboard(view DashboardView, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div id="dashboard"`)
		w.attr("data-revalidate-path", routepath.Dashboard)
		w.raw(`><section class="welcome"><h1>`)
		w.text(T(loc, "dashboard.welcome", view.User.DisplayName()))
		w.raw(`</h1>`)
		if view.IsAdmin {
			w.raw(`<span class="badge">`)
			w.text(T(loc, "dashboard.admin"))
			w.raw(`</span>`)
		}
		if !view.User.EmailVerified {
			w.alert("warning", T(loc, "dashboard.unverified"))
		}
		w.raw(`</section>`)

		accountSwitcher(w, view, loc)
		w.component(OrganizationCard(view, loc))
		if view.Organization != nil {
			organizationMembers(w, view, loc)
		}
		userInvitations(w, view, loc)
		createOrganization(w, loc)

		w.raw(`<script type="application/json"`)
		w.attr("id", SnapshotScriptID)
		w.raw(`>`)
		w.raw(view.Snapshot)
		w.raw(`</script></div>`)
	})
}

func accountSwitcher(w *writer, view DashboardView, loc Localizer) {
	w.raw(`<section class="card accounts"><h2>`)
	w.text(T(loc, "dashboard.accounts"))
	w.raw(`</h2><p class="current">`)
	w.text(view.User.DisplayName())
	w.raw(` <span class="meta">`)
	w.text(view.User.Email)
	w.raw(`</span></p><ul>`)
	for _, account := range view.Accounts {
		if account.User == nil {
			continue
		}
		w.raw(`<li>`)
		w.form(routepath.DashboardAccountSwitch, "class", "inline")
		w.hidden("deviceSessionId", account.ID)
		w.submit(T(loc, "dashboard.switch_to", account.User.DisplayName()), "link")
		w.endForm()
		w.raw(`</li>`)
	}
	w.raw(`</ul>`)
	w.link(routepath.WithQuery(routepath.SignIn, "callbackURL", routepath.Dashboard), T(loc, "dashboard.add_account"))
	w.raw(`</section>`)
}

// OrganizationCard renders the active organization selector.
func OrganizationCard(view DashboardView, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card organization"`)
		w.attr("id", OrganizationCardID)
		w.raw(`><h2>`)
		if view.Organization != nil {
			w.text(view.Organization.Name)
			w.raw(` <span class="meta">`)
			w.text(view.Organization.Slug)
			w.raw(`</span>`)
		} else {
			w.text(T(loc, "dashboard.personal"))
		}
		w.raw(`</h2>`)
		w.alert("error", view.SwitchError)
		w.raw(`<ul class="switcher">`)
		switchItem(w, "", T(loc, "dashboard.personal"), view.ActiveOrganizationID == "", loc)
		for _, org := range view.Organizations {
			switchItem(w, org.ID, org.Name, org.ID == view.ActiveOrganizationID, loc)
		}
		w.raw(`</ul></section>`)
	})
}

func switchItem(w *writer, orgID, label string, active bool, loc Localizer) {
	if active {
		w.raw(`<li class="active" aria-current="true">`)
		w.text(label)
		w.raw(`</li>`)
		return
	}
	w.raw(`<li>`)
	w.form(routepath.DashboardActiveOrg,
		"class", "inline",
		"hx-post", routepath.DashboardActiveOrg,
		"hx-target", "#"+OrganizationCardID,
		"hx-swap", "outerHTML",
	)
	w.hidden("organizationId", orgID)
	w.submit(T(loc, "dashboard.switch_to", label), "link")
	w.endForm()
	w.raw(`</li>`)
}

func organizationMembers(w *writer, view DashboardView, loc Localizer) {
	org := view.Organization
	role, _ := view.Role()
	manage := role.CanManageMembers()

	w.raw(`<section class="card members"><h2>`)
	w.text(T(loc, "dashboard.members"))
	w.raw(`</h2><table><thead><tr><th>`)
	w.text(T(loc, "field.name"))
	w.raw(`</th><th>`)
	w.text(T(loc, "field.role"))
	w.raw(`</th><th></th></tr></thead><tbody>`)
	for _, member := range org.Members {
		w.raw(`<tr><td>`)
		w.text(member.User.DisplayName())
		w.raw(` <span class="meta">`)
		w.text(member.User.Email)
		w.raw(`</span></td><td>`)
		if manage {
			w.form(routepath.MemberRole(org.ID, member.ID), "class", "inline")
			roleSelect(w, member.Role, loc)
			w.submit(T(loc, "dashboard.update_role"), "")
			w.endForm()
		} else {
			w.text(roleLabel(member.Role, loc))
		}
		w.raw(`</td><td>`)
		if manage || member.UserID == view.User.ID {
			w.form(routepath.MemberRemove(org.ID, member.ID), "class", "inline")
			label := T(loc, "dashboard.remove_member")
			if member.UserID == view.User.ID {
				label = T(loc, "dashboard.leave")
			}
			w.submit(label, "danger")
			w.endForm()
		}
		w.raw(`</td></tr>`)
	}
	w.raw(`</tbody></table>`)

	pending := org.PendingInvitations()
	if len(pending) > 0 {
		w.raw(`<h3>`)
		w.text(T(loc, "dashboard.pending_invitations"))
		w.raw(`</h3><ul class="invitations">`)
		for _, invitation := range pending {
			w.raw(`<li>`)
			w.text(invitation.Email)
			w.raw(` <span class="meta">`)
			w.text(roleLabel(invitation.Role, loc))
			w.raw(`</span>`)
			if manage {
				w.form(routepath.InvitationCancel(invitation.ID), "class", "inline")
				w.submit(T(loc, "dashboard.cancel_invitation"), "link")
				w.endForm()
			}
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
	}

	if manage {
		w.raw(`<h3>`)
		w.text(T(loc, "dashboard.invite"))
		w.raw(`</h3>`)
		w.form(routepath.OrganizationInvite(org.ID))
		w.input("email", "email", T(loc, "field.email"), "", true)
		roleSelect(w, snapshot.RoleMember, loc)
		w.submit(T(loc, "dashboard.invite_submit"), "primary")
		w.endForm()

		w.raw(`<h3>`)
		w.text(T(loc, "dashboard.edit_organization"))
		w.raw(`</h3>`)
		w.form(routepath.OrganizationUpdate(org.ID))
		w.input("text", "name", T(loc, "field.name"), org.Name, false)
		w.input("text", "slug", T(loc, "field.slug"), org.Slug, false)
		w.input("url", "logo", T(loc, "field.logo"), org.Logo, false)
		w.submit(T(loc, "dashboard.save"), "")
		w.endForm()
	}
	if role == snapshot.RoleOwner {
		w.form(routepath.OrganizationDelete(org.ID), "class", "danger-zone")
		w.submit(T(loc, "dashboard.delete_organization"), "danger")
		w.endForm()
	}
	w.raw(`</section>`)
}

func userInvitations(w *writer, view DashboardView, loc Localizer) {
	if len(view.Invitations) == 0 {
		return
	}
	w.raw(`<section class="card"><h2>`)
	w.text(T(loc, "dashboard.your_invitations"))
	w.raw(`</h2><ul>`)
	for _, invitation := range view.Invitations {
		w.raw(`<li>`)
		w.text(T(loc, "dashboard.invited_as", roleLabel(invitation.Role, loc)))
		w.form(routepath.InvitationAccept(invitation.ID), "class", "inline")
		w.submit(T(loc, "dashboard.accept"), "link")
		w.endForm()
		w.raw(`</li>`)
	}
	w.raw(`</ul></section>`)
}

func createOrganization(w *writer, loc Localizer) {
	w.raw(`<section class="card"><h2>`)
	w.text(T(loc, "dashboard.create_organization"))
	w.raw(`</h2>`)
	w.form(routepath.Organizations)
	w.input("text", "name", T(loc, "field.name"), "", true)
	w.input("text", "slug", T(loc, "field.slug_optional"), "", false)
	w.submit(T(loc, "dashboard.create"), "primary")
	w.endForm()
	w.raw(`</section>`)
}

func roleSelect(w *writer, selected snapshot.Role, loc Localizer) {
	w.raw(`<select name="role">`)
	for _, role := range snapshot.Roles() {
		w.raw(`<option`)
		w.attr("value", string(role))
		if role == selected {
			w.raw(` selected`)
		}
		w.raw(`>`)
		w.text(roleLabel(role, loc))
		w.raw(`</option>`)
	}
	w.raw(`</select>`)
}

func roleLabel(role snapshot.Role, loc Localizer) string {
	return T(loc, "role."+string(role))
}
