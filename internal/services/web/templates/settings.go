package templates

import (
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// SettingsView is the account settings page.
type SettingsView struct {
	User             snapshot.User
	Sessions         []snapshot.DeviceSession
	TwoFactorEnabled bool
}

// Settings renders account, security and session management.
func Settings(view SettingsView, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div id="settings"><h1>`)
		w.text(T(loc, "settings.heading"))
		w.raw(`</h1>`)

		w.raw(`<section class="card"><h2>`)
		w.text(T(loc, "settings.account"))
		w.raw(`</h2>`)
		w.form(routepath.SettingsAccount)
		w.input("text", "name", T(loc, "field.name"), view.User.Name, false)
		w.input("email", "email", T(loc, "field.email"), view.User.Email, false)
		w.input("url", "image", T(loc, "field.image"), view.User.Image, false)
		w.submit(T(loc, "settings.save"), "primary")
		w.endForm()
		if !view.User.EmailVerified {
			w.alert("warning", T(loc, "dashboard.unverified"))
			w.form(routepath.SettingsVerification)
			w.submit(T(loc, "settings.resend_verification"), "")
			w.endForm()
		}
		w.raw(`</section>`)

		settingsSessions(w, view.Sessions, loc)
		settingsSecurity(w, view.TwoFactorEnabled, loc)

		w.raw(`<section class="card danger-zone"><h2>`)
		w.text(T(loc, "settings.delete_heading"))
		w.raw(`</h2><p>`)
		w.text(T(loc, "settings.delete_help"))
		w.raw(`</p>`)
		w.form(routepath.SettingsAccountDelete)
		w.input("password", "password", T(loc, "field.password"), "", true)
		w.submit(T(loc, "settings.delete_submit"), "danger")
		w.endForm()
		w.raw(`</section></div>`)
	})
}

func settingsSessions(w *writer, sessions []snapshot.DeviceSession, loc Localizer) {
	w.raw(`<section class="card sessions"><h2>`)
	w.text(T(loc, "settings.sessions"))
	w.raw(`</h2><ul>`)
	for _, session := range sessions {
		w.raw(`<li>`)
		agent := session.UserAgent
		if agent == "" {
			agent = T(loc, "settings.unknown_device")
		}
		w.text(agent)
		if session.IPAddress != "" {
			w.raw(` <span class="meta">`)
			w.text(session.IPAddress)
			w.raw(`</span>`)
		}
		if !session.LastActive.IsZero() {
			w.raw(` <time`)
			w.attr("datetime", session.LastActive.UTC().Format(time.RFC3339))
			w.raw(`>`)
			w.text(session.LastActive.UTC().Format("Jan 2, 2006 15:04 MST"))
			w.raw(`</time>`)
		}
		if session.Current {
			w.raw(` <span class="badge">`)
			w.text(T(loc, "settings.current_session"))
			w.raw(`</span>`)
		} else {
			w.form(routepath.SettingsSessionRevoke, "class", "inline")
			w.hidden("sessionId", session.ID)
			w.submit(T(loc, "settings.revoke"), "link")
			w.endForm()
		}
		w.raw(`</li>`)
	}
	w.raw(`</ul>`)
	w.form(routepath.SettingsSessionRevokeAll)
	w.submit(T(loc, "settings.revoke_all"), "danger")
	w.endForm()
	w.raw(`</section>`)
}

func settingsSecurity(w *writer, twoFactor bool, loc Localizer) {
	w.raw(`<section class="card security"><h2>`)
	w.text(T(loc, "settings.two_factor"))
	w.raw(`</h2>`)
	if twoFactor {
		w.form(routepath.SettingsTwoFactorDisable)
		w.input("password", "password", T(loc, "field.password"), "", true)
		w.submit(T(loc, "settings.two_factor_disable"), "danger")
		w.endForm()
	} else {
		w.form(routepath.SettingsTwoFactorEnable)
		w.input("password", "password", T(loc, "field.password"), "", true)
		w.submit(T(loc, "settings.two_factor_enable"), "")
		w.endForm()
		w.form(routepath.SettingsTwoFactorVerify)
		w.input("text", "code", T(loc, "field.code"), "", true)
		w.submit(T(loc, "settings.two_factor_verify"), "")
		w.endForm()
	}
	w.raw(`<h2>`)
	w.text(T(loc, "settings.passkeys"))
	w.raw(`</h2>`)
	w.form(routepath.SettingsPasskeys)
	w.input("text", "name", T(loc, "field.passkey_name"), "", false)
	w.submit(T(loc, "settings.passkey_add"), "")
	w.endForm()
	w.raw(`</section>`)
}
