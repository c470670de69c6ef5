package email

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const (
	containerStyle = "border:1px solid #eaeaea;border-radius:4px;margin:0 auto;max-width:465px;padding:20px;font-family:sans-serif"
	headingStyle   = "color:#000;font-size:24px;font-weight:normal;text-align:center;margin:30px 0"
	textStyle      = "color:#000;font-size:14px;line-height:24px"
	buttonStyle    = "background:#000;border-radius:4px;color:#fff;font-size:12px;font-weight:600;text-decoration:none;text-align:center;padding:12px 20px;display:block"
	footerStyle    = "color:#666;font-size:12px;line-height:24px"
)

// writer accumulates the first write error so templates read top to bottom.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) href(link string) {
	w.raw(templ.EscapeString(string(templ.URL(link))))
}

func layout(title string, body func(*writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, out io.Writer) error {
		w := &writer{w: out}
		w.raw(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
		w.text(title)
		w.raw(`</title></head><body style="background:#fff"><div style="` + containerStyle + `"><h1 style="` + headingStyle + `">`)
		w.text(title)
		w.raw(`</h1>`)
		body(w)
		w.raw(`</div></body></html>`)
		return w.err
	})
}

func paragraph(w *writer, parts ...func(*writer)) {
	w.raw(`<p style="` + textStyle + `">`)
	for _, part := range parts {
		part(w)
	}
	w.raw(`</p>`)
}

func plain(s string) func(*writer) { return func(w *writer) { w.text(s) } }

func strong(s string) func(*writer) {
	return func(w *writer) {
		w.raw(`<strong>`)
		w.text(s)
		w.raw(`</strong>`)
	}
}

func button(w *writer, link string, label string) {
	w.raw(`<a href="`)
	w.href(link)
	w.raw(`" style="` + buttonStyle + `">`)
	w.text(label)
	w.raw(`</a>`)
}

func copyLink(w *writer, link string) {
	paragraph(w, plain("or copy and paste this URL into your browser: "), func(w *writer) {
		w.raw(`<a href="`)
		w.href(link)
		w.raw(`" style="color:#2563eb;text-decoration:none">`)
		w.text(link)
		w.raw(`</a>`)
	})
}

func footer(w *writer, note string) {
	w.raw(`<hr style="border:1px solid #eaeaea;margin:26px 0">`)
	w.raw(`<p style="` + footerStyle + `">`)
	w.text(note)
	w.raw(`</p>`)
}

func magicLinkEmail(appName, email, link string) templ.Component {
	return layout("Sign in to your account", func(w *writer) {
		paragraph(w, plain("Hey "), strong(email), plain(","))
		paragraph(w, plain("Click the button below to sign in to your "+appName+" account. This link will expire in 10 minutes."))
		button(w, link, "Sign in")
		copyLink(w, link)
		footer(w, "If you didn't request this email, you can safely ignore it.")
	})
}

func resetPasswordEmail(appName, email, link string) templ.Component {
	return layout("Reset your password", func(w *writer) {
		paragraph(w, plain("Hello "), strong(email), plain(","))
		paragraph(w, plain("Someone requested a password reset for your "+appName+" account. Click the button below to choose a new password."))
		button(w, link, "Reset password")
		copyLink(w, link)
		footer(w, "If you didn't request a password reset, you can safely ignore this email.")
	})
}

func verificationEmail(appName, link string) templ.Component {
	return layout("Verify your email address", func(w *writer) {
		paragraph(w, plain("Confirm this address to finish setting up your "+appName+" account."))
		button(w, link, "Verify your email address")
		copyLink(w, link)
	})
}

func otpEmail(appName, otp string) templ.Component {
	return layout("Your OTP", func(w *writer) {
		paragraph(w, plain("Your OTP is "), strong(otp))
		footer(w, "Use this code to finish signing in to "+appName+". It expires shortly.")
	})
}

func invitationEmail(appName string, invitation Invitation, link string) templ.Component {
	title := "Join " + invitation.OrganizationName + " on " + appName
	return layout(title, func(w *writer) {
		paragraph(w, plain("Hello "), strong(invitation.To), plain(","))
		inviter := func(w *writer) {
			w.raw(`<strong>`)
			w.text(invitation.InviterName)
			w.raw(`</strong>`)
			if invitation.InviterEmail != "" {
				w.text(" (" + invitation.InviterEmail + ")")
			}
		}
		paragraph(w, inviter, plain(" has invited you to the "), strong(invitation.OrganizationName), plain(" team on "+appName+"."))
		button(w, link, "Join the team")
		copyLink(w, link)
		footer(w, "If you were not expecting this invitation, you can ignore this email.")
	})
}
