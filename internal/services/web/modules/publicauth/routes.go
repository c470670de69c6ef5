package publicauth

import (
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" /{$}", h.handleLanding)
	mux.HandleFunc(http.MethodGet+" "+routepath.SignIn, h.handleSignInPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.SignIn, h.handleSignIn)
	mux.HandleFunc(http.MethodGet+" "+routepath.SignUp, h.handleSignUpPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.SignUp, h.handleSignUp)
	mux.HandleFunc(http.MethodPost+" "+routepath.SignOut, h.handleSignOut)
	mux.HandleFunc(http.MethodGet+" "+routepath.ForgotPassword, h.handleForgotPasswordPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.ForgotPassword, h.handleForgotPassword)
	mux.HandleFunc(http.MethodGet+" "+routepath.ResetPassword, h.handleResetPasswordPage)
	mux.HandleFunc(http.MethodPost+" "+routepath.ResetPassword, h.handleResetPassword)
	mux.HandleFunc(http.MethodGet+" "+routepath.VerifyEmail, h.handleVerifyEmail)
	mux.HandleFunc(http.MethodPost+" "+routepath.MagicLink, h.handleMagicLink)
	mux.HandleFunc(http.MethodGet+" "+routepath.MagicLinkVerify, h.handleMagicLinkVerify)
	mux.HandleFunc(http.MethodPost+" "+routepath.SocialSignInPattern, h.handleSocialSignIn)
	mux.HandleFunc(http.MethodGet+" "+routepath.AcceptInvitePattern, h.handleAcceptInvitation)
	mux.HandleFunc(http.MethodPost+" "+routepath.AuthEmailHook, h.handleEmailHook)
	mux.HandleFunc("/", h.WriteNotFound)
}
