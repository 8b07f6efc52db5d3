package web

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/api/middleware"
	pkgauth "github.com/agentmart/agentmart-backend/pkg/auth"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

// Visitor describes the authenticated browser behind a page request. A nil
// Visitor means the request carried no usable session.
type Visitor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// Decision is the outcome of a guard check: either the page renders, or the
// browser is sent elsewhere.
type Decision struct {
	Target string
}

func (d Decision) Allowed() bool { return d.Target == "" }

func Allow() Decision { return Decision{} }

func Redirect(target string) Decision { return Decision{Target: target} }

// Policy decides whether a visitor may see a page. Policies run in order;
// the first redirect wins.
type Policy func(v *Visitor, r *http.Request) Decision

// RequireSession bounces anonymous visitors to the login page, carrying the
// original path so the callback can return them after signing in.
func RequireSession(loginPath string) Policy {
	return func(v *Visitor, r *http.Request) Decision {
		if v != nil {
			return Allow()
		}
		return Redirect(loginPath + "?next=" + url.QueryEscape(r.URL.Path))
	}
}

// RequireRole bounces signed-in visitors whose role is not in the allow set.
// Pair it with RequireSession; on its own it lets anonymous visitors through.
func RequireRole(target string, roles ...enums.UserRole) Policy {
	return func(v *Visitor, r *http.Request) Decision {
		if v == nil {
			return Allow()
		}
		for _, role := range roles {
			if v.Role == role {
				return Allow()
			}
		}
		return Redirect(target)
	}
}

// GuardParams groups dependencies for the page guard.
type GuardParams struct {
	JWT        config.JWTConfig
	Verifier   session.AccessSessionChecker
	CookieName string
	Logger     *logger.Logger
}

// Guard resolves the visitor behind a request and evaluates page policies
// against it. Token problems never fail a page; they just mean anonymous.
type Guard struct {
	jwt      config.JWTConfig
	verifier session.AccessSessionChecker
	cookie   string
	logg     *logger.Logger
}

func NewGuard(params GuardParams) *Guard {
	return &Guard{
		jwt:      params.JWT,
		verifier: params.Verifier,
		cookie:   params.CookieName,
		logg:     params.Logger,
	}
}

// Visitor extracts the signed-in user from the session cookie, if any.
func (g *Guard) Visitor(r *http.Request) *Visitor {
	token := middleware.TokenFromRequest(r, g.cookie)
	if token == "" {
		return nil
	}

	claims, err := pkgauth.ParseAccessToken(g.jwt, token)
	if err != nil || claims.ID == "" {
		return nil
	}

	ok, err := g.verifier.HasSession(r.Context(), claims.ID)
	if err != nil {
		if g.logg != nil {
			g.logg.Warn(r.Context(), "session lookup failed during page guard")
		}
		return nil
	}
	if !ok {
		return nil
	}

	return &Visitor{UserID: claims.UserID, Role: claims.Role}
}

// Check resolves the visitor and runs the policies in order, returning the
// visitor alongside the first redirect (or Allow when every policy passes).
func (g *Guard) Check(r *http.Request, policies ...Policy) (*Visitor, Decision) {
	v := g.Visitor(r)
	for _, policy := range policies {
		if d := policy(v, r); !d.Allowed() {
			return v, d
		}
	}
	return v, Allow()
}
