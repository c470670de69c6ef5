package templates

import (
	"strings"

	"github.com/a-h/templ"
	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
	"github.com/louisbranch/spawnbot/internal/services/web/snapshot"
)

// AuthForm carries values echoed back into the public auth forms.
type AuthForm struct {
	Email       string
	Name        string
	CallbackURL string
	Token       string
	Error       string
}

// StatusView is a single-message page such as a verification result.
type StatusView struct {
	Heading   string
	Message   string
	Detail    string
	LinkURL   string
	LinkLabel string
	Failed    bool
}

// Landing renders the public entry page.
func Landing(user *snapshot.User, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="hero"><h1>`)
		w.text(AppName)
		w.raw(`</h1><p>`)
		w.text(T(loc, "landing.tagline"))
		w.raw(`</p><div class="actions">`)
		if user != nil {
			w.raw(`<p>`)
			w.text(T(loc, "landing.signed_in_as", user.DisplayName()))
			w.raw(`</p>`)
			w.link(routepath.Dashboard, T(loc, "landing.open_dashboard"))
		} else {
			w.link(routepath.SignIn, T(loc, "nav.sign_in"))
			w.link(routepath.SignUp, T(loc, "nav.sign_up"))
		}
		w.raw(`</div></section>`)
	})
}

// SignIn renders the credential, magic link and social sign-in forms.
func SignIn(form AuthForm, providers []string, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card auth"><h1>`)
		w.text(T(loc, "sign_in.heading"))
		w.raw(`</h1>`)
		w.alert("error", form.Error)
		w.form(routepath.SignIn)
		w.hidden("callbackURL", form.CallbackURL)
		w.input("email", "email", T(loc, "field.email"), form.Email, true)
		w.input("password", "password", T(loc, "field.password"), "", true)
		w.raw(`<label class="check"><input type="checkbox" name="rememberMe" value="true" checked><span>`)
		w.text(T(loc, "sign_in.remember_me"))
		w.raw(`</span></label>`)
		w.submit(T(loc, "sign_in.submit"), "primary")
		w.endForm()
		w.raw(`<p class="meta">`)
		w.link(routepath.ForgotPassword, T(loc, "sign_in.forgot"))
		w.raw(`</p><hr>`)

		w.form(routepath.MagicLink)
		w.hidden("callbackURL", form.CallbackURL)
		w.input("email", "email", T(loc, "field.email"), form.Email, true)
		w.submit(T(loc, "sign_in.magic_link"), "")
		w.endForm()

		if len(providers) > 0 {
			w.raw(`<div class="social">`)
			for _, provider := range providers {
				w.form(routepath.SocialSignIn(provider))
				w.hidden("callbackURL", form.CallbackURL)
				w.submit(T(loc, "sign_in.social", providerLabel(provider)), "")
				w.endForm()
			}
			w.raw(`</div>`)
		}
		w.raw(`<p class="meta">`)
		w.text(T(loc, "sign_in.no_account"))
		w.raw(` `)
		w.link(routepath.SignUp, T(loc, "nav.sign_up"))
		w.raw(`</p></section>`)
	})
}

// SignUp renders the registration form.
func SignUp(form AuthForm, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card auth"><h1>`)
		w.text(T(loc, "sign_up.heading"))
		w.raw(`</h1>`)
		w.alert("error", form.Error)
		w.form(routepath.SignUp)
		w.input("text", "name", T(loc, "field.name"), form.Name, false)
		w.input("email", "email", T(loc, "field.email"), form.Email, true)
		w.input("password", "password", T(loc, "field.password"), "", true)
		w.submit(T(loc, "sign_up.submit"), "primary")
		w.endForm()
		w.raw(`<p class="meta">`)
		w.text(T(loc, "sign_up.have_account"))
		w.raw(` `)
		w.link(routepath.SignIn, T(loc, "nav.sign_in"))
		w.raw(`</p></section>`)
	})
}

// ForgotPassword renders the password reset request form.
func ForgotPassword(form AuthForm, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card auth"><h1>`)
		w.text(T(loc, "forgot.heading"))
		w.raw(`</h1><p>`)
		w.text(T(loc, "forgot.help"))
		w.raw(`</p>`)
		w.alert("error", form.Error)
		w.form(routepath.ForgotPassword)
		w.input("email", "email", T(loc, "field.email"), form.Email, true)
		w.submit(T(loc, "forgot.submit"), "primary")
		w.endForm()
		w.raw(`</section>`)
	})
}

// ResetPassword renders the new password form for an emailed token.
func ResetPassword(form AuthForm, loc Localizer) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="card auth"><h1>`)
		w.text(T(loc, "reset.heading"))
		w.raw(`</h1>`)
		w.alert("error", form.Error)
		w.form(routepath.ResetPassword)
		w.hidden("token", form.Token)
		w.input("password", "password", T(loc, "field.new_password"), "", true)
		w.submit(T(loc, "reset.submit"), "primary")
		w.endForm()
		w.raw(`</section>`)
	})
}

// Status renders a single-message panel.
func Status(view StatusView) templ.Component {
	return component(func(w *writer) {
		class := "card status"
		if view.Failed {
			class += " status-failed"
		}
		w.raw(`<section`)
		w.attr("class", class)
		w.raw(`><h1>`)
		w.text(view.Heading)
		w.raw(`</h1><p>`)
		w.text(view.Message)
		w.raw(`</p>`)
		if view.Detail != "" {
			w.raw(`<p class="meta">`)
			w.text(view.Detail)
			w.raw(`</p>`)
		}
		if view.LinkURL != "" {
			w.link(view.LinkURL, view.LinkLabel)
		}
		w.raw(`</section>`)
	})
}

func providerLabel(provider string) string {
	switch strings.ToLower(provider) {
	case "github":
		return "GitHub"
	case "google":
		return "Google"
	case "microsoft":
		return "Microsoft"
	default:
		return provider
	}
}
