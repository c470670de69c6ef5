package settings

import (
	"net/http"

	"github.com/louisbranch/spawnbot/internal/services/web/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Settings, h.handleSettings)
	mux.HandleFunc(http.MethodGet+" "+routepath.SettingsPrefix+"{$}", h.handleSettings)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsAccount, h.handleUpdateAccount)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsAccountDelete, h.handleDeleteAccount)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsVerification, h.handleSendVerification)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsSessionRevoke, h.handleRevokeSession)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsSessionRevokeAll, h.handleRevokeAllSessions)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsTwoFactorEnable, h.handleEnableTwoFactor)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsTwoFactorVerify, h.handleVerifyTwoFactor)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsTwoFactorDisable, h.handleDisableTwoFactor)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsPasskeys, h.handleRegisterPasskey)
	mux.HandleFunc(http.MethodPost+" "+routepath.SettingsPasskeyDelete, h.handleDeletePasskey)
	mux.HandleFunc(routepath.SettingsPrefix+"{rest...}", h.WriteNotFound)
}
