package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agentmart/agentmart-backend/internal/categories"
	"github.com/agentmart/agentmart-backend/pkg/enums"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
)

//go:embed templates
var pageFS embed.FS

// PagesParams groups dependencies for the server-rendered pages.
type PagesParams struct {
	Guard      *Guard
	Categories categories.Service
	Markdown   *MarkdownRenderer
	Logger     *logger.Logger
}

// Pages serves the small set of browser-facing pages in front of the API.
type Pages struct {
	guard      *Guard
	categories categories.Service
	logg       *logger.Logger
	tmpl       *template.Template
	homeHTML   template.HTML
}

func NewPages(params PagesParams) (*Pages, error) {
	if params.Guard == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "page guard is required")
	}
	if params.Categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "categories service is required")
	}
	if params.Markdown == nil {
		params.Markdown = NewMarkdownRenderer()
	}

	tmpl, err := template.ParseFS(pageFS, "templates/*.html")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to parse page templates")
	}

	// The marketing copy is static, so render it once up front.
	src, err := pageFS.ReadFile("templates/home.md")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read marketing copy")
	}
	homeHTML, err := params.Markdown.Render(string(src))
	if err != nil {
		return nil, err
	}

	return &Pages{
		guard:      params.Guard,
		categories: params.Categories,
		logg:       params.Logger,
		tmpl:       tmpl,
		homeHTML:   homeHTML,
	}, nil
}

// Routes mounts every page on the given router.
func (p *Pages) Routes(r chi.Router) {
	r.Get("/", p.Home)
	r.Get("/login", p.Login)
	r.Get("/dashboard", p.Dashboard)
	r.Get("/submit-agent", p.SubmitAgent)
	r.Get("/become-seller", p.BecomeSeller)
	r.Get("/unauthorized", p.Unauthorized)
}

func (p *Pages) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		if p.logg != nil {
			p.logg.Error(r.Context(), "page render failed", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "home.html", map[string]any{
		"Welcome": r.URL.Query().Get("welcome") == "1",
		"Content": p.homeHTML,
	})
}

func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	p.render(w, r, "login.html", map[string]any{
		"Next": safePageNext(r.URL.Query().Get("next")),
	})
}

func (p *Pages) Dashboard(w http.ResponseWriter, r *http.Request) {
	v, decision := p.guard.Check(r, RequireSession("/login"))
	if !decision.Allowed() {
		http.Redirect(w, r, decision.Target, http.StatusFound)
		return
	}

	p.render(w, r, "dashboard.html", map[string]any{
		"UserID": v.UserID,
		"Role":   v.Role,
	})
}

// SubmitAgent renders the listing form for sellers. Anonymous visitors go to
// login; signed-in buyers go to the seller onboarding page instead.
func (p *Pages) SubmitAgent(w http.ResponseWriter, r *http.Request) {
	v, decision := p.guard.Check(r,
		RequireSession("/login"),
		RequireRole("/become-seller", enums.UserRoleSeller, enums.UserRoleAdmin),
	)
	if !decision.Allowed() {
		http.Redirect(w, r, decision.Target, http.StatusFound)
		return
	}

	cats, err := p.categories.List(r.Context())
	if err != nil {
		if p.logg != nil {
			p.logg.Error(r.Context(), "failed to load categories for submit page", err)
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	p.render(w, r, "submit_agent.html", map[string]any{
		"Role":       v.Role,
		"Categories": cats,
	})
}

func (p *Pages) BecomeSeller(w http.ResponseWriter, r *http.Request) {
	_, decision := p.guard.Check(r, RequireSession("/login"))
	if !decision.Allowed() {
		http.Redirect(w, r, decision.Target, http.StatusFound)
		return
	}

	p.render(w, r, "become_seller.html", nil)
}

func (p *Pages) Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	if err := p.tmpl.ExecuteTemplate(w, "unauthorized.html", nil); err != nil && p.logg != nil {
		p.logg.Error(r.Context(), "page render failed", err)
	}
}

// safePageNext keeps the login form's next parameter site-relative.
func safePageNext(next string) string {
	if len(next) < 2 || next[0] != '/' || next[1] == '/' {
		return ""
	}
	return next
}
