package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/agentmart/agentmart-backend/api/responses"
	pkgAuth "github.com/agentmart/agentmart-backend/pkg/auth"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// AuthParams bundles everything the auth middleware chain needs.
type AuthParams struct {
	JWT      config.JWTConfig
	Verifier session.AccessSessionChecker
	// CookieName is the session cookie checked when no bearer token is
	// present. Empty disables cookie auth.
	CookieName string
	Logger     *logger.Logger
}

// Auth validates a bearer token or session cookie and seeds the request
// context with the claims.
func Auth(params AuthParams) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, params.CookieName)
			if token == "" {
				responses.WriteError(r.Context(), params.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(params.JWT, token)
			if err != nil {
				responses.WriteError(r.Context(), params.Logger, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if claims.ID == "" {
				responses.WriteError(r.Context(), params.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if params.Verifier != nil {
				ok, err := params.Verifier.HasSession(r.Context(), claims.ID)
				if err != nil {
					responses.WriteError(r.Context(), params.Logger, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), params.Logger, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)

			if params.Logger != nil {
				ctx = params.Logger.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the context with claims when a valid token is present
// but lets anonymous requests through untouched.
func OptionalAuth(params AuthParams) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, params.CookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := pkgAuth.ParseAccessToken(params.JWT, token)
			if err != nil || claims.ID == "" {
				next.ServeHTTP(w, r)
				return
			}
			if params.Verifier != nil {
				if ok, err := params.Verifier.HasSession(r.Context(), claims.ID); err != nil || !ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))
			ctx = context.WithValue(ctx, ctxAccessID, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenFromRequest extracts the access token from the Authorization header,
// falling back to the session cookie.
func TokenFromRequest(r *http.Request, cookieName string) string {
	return tokenFromRequest(r, cookieName)
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw != "" {
		token := raw
		if strings.HasPrefix(strings.ToLower(token), "bearer ") {
			token = strings.TrimSpace(token[7:])
		}
		if token != "" {
			return token
		}
	}

	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil {
			return strings.TrimSpace(cookie.Value)
		}
	}
	return ""
}
