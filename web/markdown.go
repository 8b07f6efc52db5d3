package web

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
)

// MarkdownRenderer converts trusted-author markdown into sanitized HTML for
// the server-rendered pages.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").Matching(bluemonday.SpaceSeparatedTokens).OnElements("h1", "h2", "h3", "h4")

	return &MarkdownRenderer{md: md, policy: policy}
}

// Render converts markdown to HTML and strips anything the sanitizer policy
// does not allow. The result is safe to inject into templates unescaped.
func (r *MarkdownRenderer) Render(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to render markdown")
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}
