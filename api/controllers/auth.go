package controllers

import (
	"net/http"
	"strings"

	"github.com/agentmart/agentmart-backend/api/middleware"
	"github.com/agentmart/agentmart-backend/api/responses"
	"github.com/agentmart/agentmart-backend/api/validators"
	"github.com/agentmart/agentmart-backend/internal/auth"
	pkgAuth "github.com/agentmart/agentmart-backend/pkg/auth"
	"github.com/agentmart/agentmart-backend/pkg/config"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

func sessionCookie(cfg *config.Config, token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.Pages.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteLaxMode,
	}
}

func setSessionCookie(w http.ResponseWriter, cfg *config.Config, token string) {
	http.SetCookie(w, sessionCookie(cfg, token, cfg.JWT.ExpirationMinutes*60))
}

func clearSessionCookie(w http.ResponseWriter, cfg *config.Config) {
	http.SetCookie(w, sessionCookie(cfg, "", -1))
}

// AuthRegister creates a buyer account and opens a session.
func AuthRegister(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RegisterInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Register(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, sess.AccessToken)
		responses.WriteSuccessStatus(w, http.StatusCreated, sess)
	}
}

// AuthLogin verifies credentials and opens a session.
func AuthLogin(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.LoginInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Login(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, sess.AccessToken)
		responses.WriteSuccess(w, sess)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthRefresh exchanges a refresh token for a new session. The access token
// may be expired; only its signature and issuer are checked.
func AuthRefresh(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.TokenFromRequest(r, cfg.Pages.SessionCookie)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseExpiredAccessToken(cfg.JWT, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		var input refreshRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := svc.Refresh(r.Context(), claims.UserID, claims.ID, input.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setSessionCookie(w, cfg, sess.AccessToken)
		responses.WriteSuccess(w, sess)
	}
}

// AuthLogout revokes the refresh session behind the presented token and
// clears the session cookie.
func AuthLogout(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.TokenFromRequest(r, cfg.Pages.SessionCookie)
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		claims, err := pkgAuth.ParseAccessToken(cfg.JWT, token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
			return
		}

		if err := svc.Logout(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearSessionCookie(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthCallback redeems a one-time code, opens the browser session, and
// redirects to the requested page.
func AuthCallback(svc auth.Service, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(r.URL.Query().Get("code"))

		sess, err := svc.ExchangeCode(r.Context(), code)
		if err != nil {
			if logg != nil {
				logg.Warn(r.Context(), "auth code exchange failed")
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		setSessionCookie(w, cfg, sess.AccessToken)
		http.Redirect(w, r, safeNextURL(r.URL.Query().Get("next"), cfg.Pages.DefaultNextURL), http.StatusFound)
	}
}

type passwordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type passwordResetComplete struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// AuthPasswordResetRequest issues a single-use reset token. The response is
// identical whether or not the email exists, to avoid account enumeration.
func AuthPasswordResetRequest(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input passwordResetRequest
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.RequestPasswordReset(r.Context(), input.Email); err != nil {
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if logg != nil {
				logg.Warn(r.Context(), "password reset requested for unknown email")
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "reset_requested"})
	}
}

// AuthPasswordResetComplete redeems a reset token and sets the new password.
func AuthPasswordResetComplete(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input passwordResetComplete
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CompletePasswordReset(r.Context(), input.Token, input.NewPassword); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "password_updated"})
	}
}

// safeNextURL only honors site-relative paths so the callback cannot be used
// as an open redirect.
func safeNextURL(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}
