package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/pkg/enums"
)

type stubCategories struct {
	items []categories.CategoryDTO
	err   error
}

func (s stubCategories) List(ctx context.Context) ([]categories.CategoryDTO, error) {
	return s.items, s.err
}

func newTestPages(t *testing.T, verifier stubVerifier, cats stubCategories) *Pages {
	t.Helper()
	pages, err := NewPages(PagesParams{
		Guard:      newTestGuard(verifier),
		Categories: cats,
	})
	if err != nil {
		t.Fatalf("new pages: %v", err)
	}
	return pages
}

func TestHomeRendersMarketingCopy(t *testing.T) {
	pages := newTestPages(t, stubVerifier{}, stubCategories{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	pages.Home(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "marketplace for AI agent workflows") {
		t.Fatalf("marketing copy missing from body:\n%s", body)
	}
	if strings.Contains(body, "Welcome to AgentMart!") {
		t.Fatal("welcome banner should not render without the flag")
	}
}

func TestHomeShowsWelcomeBanner(t *testing.T) {
	pages := newTestPages(t, stubVerifier{}, stubCategories{})

	req := httptest.NewRequest(http.MethodGet, "/?welcome=1", nil)
	rec := httptest.NewRecorder()
	pages.Home(rec, req)

	if !strings.Contains(rec.Body.String(), "Welcome to AgentMart!") {
		t.Fatal("expected welcome banner")
	}
}

func TestSubmitAgentGating(t *testing.T) {
	cats := stubCategories{items: []categories.CategoryDTO{
		{ID: uuid.New(), Name: "Data Pipelines", Slug: "data-pipelines"},
	}}

	t.Run("anonymous redirects to login", func(t *testing.T) {
		pages := newTestPages(t, stubVerifier{ok: true}, cats)
		req := httptest.NewRequest(http.MethodGet, "/submit-agent", nil)
		rec := httptest.NewRecorder()
		pages.SubmitAgent(rec, req)

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302 got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/login?next=%2Fsubmit-agent" {
			t.Fatalf("unexpected redirect %q", got)
		}
	})

	t.Run("buyer redirects to become-seller", func(t *testing.T) {
		pages := newTestPages(t, stubVerifier{ok: true}, cats)
		rec := httptest.NewRecorder()
		pages.SubmitAgent(rec, sessionRequest(t, "/submit-agent", enums.UserRoleBuyer))

		if rec.Code != http.StatusFound {
			t.Fatalf("expected 302 got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/become-seller" {
			t.Fatalf("unexpected redirect %q", got)
		}
	})

	t.Run("seller sees the form with categories", func(t *testing.T) {
		pages := newTestPages(t, stubVerifier{ok: true}, cats)
		rec := httptest.NewRecorder()
		pages.SubmitAgent(rec, sessionRequest(t, "/submit-agent", enums.UserRoleSeller))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Data Pipelines") {
			t.Fatal("expected category option in form")
		}
	})
}

func TestDashboardRequiresSession(t *testing.T) {
	pages := newTestPages(t, stubVerifier{ok: true}, stubCategories{})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	pages.Dashboard(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login?next=%2Fdashboard" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestMarkdownRendererSanitizes(t *testing.T) {
	r := NewMarkdownRenderer()

	out, err := r.Render("# Hello\n\n<script>alert(1)</script>\n\n**bold**")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatal("script tag survived sanitization")
	}
	if !strings.Contains(string(out), "<strong>bold</strong>") {
		t.Fatalf("expected bold markup in %q", out)
	}
}
