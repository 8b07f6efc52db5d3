package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/agentmart/agentmart-backend/pkg/auth"
	"github.com/agentmart/agentmart-backend/pkg/auth/session"
	"github.com/agentmart/agentmart-backend/pkg/config"
	"github.com/agentmart/agentmart-backend/pkg/enums"
)

type stubVerifier struct {
	ok  bool
	err error
}

func (s stubVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	return s.ok, s.err
}

func guardJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}
}

func newTestGuard(verifier session.AccessSessionChecker) *Guard {
	return NewGuard(GuardParams{
		JWT:        guardJWTConfig(),
		Verifier:   verifier,
		CookieName: "agentmart_session",
	})
}

func sessionRequest(t *testing.T, path string, role enums.UserRole) *http.Request {
	t.Helper()
	token, err := pkgauth.MintAccessToken(guardJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: "agentmart_session", Value: token})
	return req
}

func TestGuardRedirectMatrix(t *testing.T) {
	guard := newTestGuard(stubVerifier{ok: true})
	policies := []Policy{
		RequireSession("/login"),
		RequireRole("/become-seller", enums.UserRoleSeller, enums.UserRoleAdmin),
	}

	t.Run("anonymous goes to login with next", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/submit-agent", nil)
		_, decision := guard.Check(req, policies...)
		if decision.Allowed() {
			t.Fatal("expected redirect")
		}
		if decision.Target != "/login?next=%2Fsubmit-agent" {
			t.Fatalf("unexpected target %q", decision.Target)
		}
	})

	t.Run("buyer goes to seller onboarding", func(t *testing.T) {
		_, decision := guard.Check(sessionRequest(t, "/submit-agent", enums.UserRoleBuyer), policies...)
		if decision.Target != "/become-seller" {
			t.Fatalf("unexpected target %q", decision.Target)
		}
	})

	t.Run("seller is allowed", func(t *testing.T) {
		v, decision := guard.Check(sessionRequest(t, "/submit-agent", enums.UserRoleSeller), policies...)
		if !decision.Allowed() {
			t.Fatalf("expected allow, got redirect to %q", decision.Target)
		}
		if v == nil || v.Role != enums.UserRoleSeller {
			t.Fatalf("unexpected visitor %+v", v)
		}
	})

	t.Run("admin is allowed", func(t *testing.T) {
		_, decision := guard.Check(sessionRequest(t, "/submit-agent", enums.UserRoleAdmin), policies...)
		if !decision.Allowed() {
			t.Fatalf("expected allow, got redirect to %q", decision.Target)
		}
	})
}

func TestGuardTreatsRevokedSessionAsAnonymous(t *testing.T) {
	guard := newTestGuard(stubVerifier{ok: false})

	_, decision := guard.Check(sessionRequest(t, "/dashboard", enums.UserRoleBuyer), RequireSession("/login"))
	if decision.Allowed() {
		t.Fatal("expected redirect for revoked session")
	}
	if decision.Target != "/login?next=%2Fdashboard" {
		t.Fatalf("unexpected target %q", decision.Target)
	}
}

func TestGuardTreatsVerifierErrorAsAnonymous(t *testing.T) {
	guard := newTestGuard(stubVerifier{err: context.DeadlineExceeded})

	if v := guard.Visitor(sessionRequest(t, "/dashboard", enums.UserRoleBuyer)); v != nil {
		t.Fatalf("expected nil visitor, got %+v", v)
	}
}

func TestGuardIgnoresGarbageCookie(t *testing.T) {
	guard := newTestGuard(stubVerifier{ok: true})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "agentmart_session", Value: "not-a-jwt"})
	if v := guard.Visitor(req); v != nil {
		t.Fatalf("expected nil visitor, got %+v", v)
	}
}
