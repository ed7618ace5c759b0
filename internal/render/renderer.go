// Package render turns a post into the HTML page served for a preview link,
// cutting the body at the paywall marker when the caller may only read part
// of it.
package render

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/osteele/liquid"

	"github.com/ignite/preview-resolver/internal/domain"
)

// ErrDenied is returned when asked to render a post the caller may not see.
var ErrDenied = errors.New("render: access denied")

// DefaultTemplate is the built-in post template. Templates receive:
//
//	post             title, description, slug, uuid, status, type, visibility
//	content          sanitised body HTML for the caller's cut
//	paywall          true when the body was cut
//	paywall_message  call to action shown after the cut
//	tiers            names of the tiers gating the post
//	body_class       "post-template" or "page-template"
const DefaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{ post.title | default: "(Untitled)" | escape }}</title>
{% if post.description != "" %}<meta name="description" content="{{ post.description | escape }}">
{% endif %}<meta name="robots" content="noindex">
</head>
<body class="{{ body_class }}">
<main class="gh-main">
<article class="gh-article {{ post.type }}">
<header class="gh-article-header">
<h1 class="gh-article-title">{{ post.title | escape }}</h1>
</header>
<section class="gh-content">
{{ content }}
</section>
{% if paywall %}<aside class="gh-post-upgrade-cta">
<div class="gh-post-upgrade-cta-content">
<h2>{{ paywall_message | escape }}</h2>
</div>
</aside>
{% endif %}</article>
</main>
</body>
</html>
`

// PageRenderer renders preview pages from a parsed Liquid template. It is
// safe for concurrent use.
type PageRenderer struct {
	engine    *liquid.Engine
	tpl       *liquid.Template
	sanitizer *bluemonday.Policy
}

// New parses templateSrc. An empty source uses DefaultTemplate.
func New(templateSrc string) (*PageRenderer, error) {
	if strings.TrimSpace(templateSrc) == "" {
		templateSrc = DefaultTemplate
	}

	engine := liquid.NewEngine()
	registerFilters(engine)

	tpl, err := engine.ParseString(templateSrc)
	if err != nil {
		return nil, fmt.Errorf("parse post template: %w", err)
	}

	return &PageRenderer{
		engine:    engine,
		tpl:       tpl,
		sanitizer: bluemonday.UGCPolicy(),
	}, nil
}

// NewFromFile reads a template from disk. An empty path uses DefaultTemplate.
func NewFromFile(path string) (*PageRenderer, error) {
	if path == "" {
		return New("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read post template: %w", err)
	}
	return New(string(data))
}

// Render produces the page for post. A Full decision shows the whole body;
// Partial shows only what precedes the paywall marker plus the upgrade call
// to action.
func (r *PageRenderer) Render(post *domain.Post, decision domain.Decision) (string, error) {
	if post == nil {
		return "", errors.New("render: nil post")
	}

	var body string
	paywall := false
	segments := domain.SplitContent(bodyHTML(post))
	switch decision {
	case domain.AccessFull:
		body = segments.Full()
	case domain.AccessPartial:
		body = segments.BeforePaywall
		paywall = true
	default:
		return "", ErrDenied
	}

	bindings := liquid.Bindings{
		"post": map[string]any{
			"title":       post.Title,
			"description": post.Description(),
			"slug":        post.Slug,
			"uuid":        post.UUID,
			"status":      string(post.Status),
			"type":        string(post.Type),
			"visibility":  string(post.Visibility),
		},
		"content":         r.sanitizer.Sanitize(body),
		"paywall":         paywall,
		"paywall_message": PaywallMessage(post),
		"tiers":           domain.TierNames(post.Tiers),
		"body_class":      bodyClass(post),
	}

	out, err := r.tpl.RenderString(bindings)
	if err != nil {
		return "", fmt.Errorf("render post %s: %w", post.ID, err)
	}
	return out, nil
}

// bodyHTML returns the stored HTML, converting markdown bodies when no HTML
// has been stored.
func bodyHTML(post *domain.Post) string {
	if post.Format == domain.FormatMarkdown && post.HTML == "" && post.Markdown != "" {
		return markdownToHTML(post.Markdown)
	}
	return post.HTML
}

func markdownToHTML(src string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.ToHTML([]byte(src), p, renderer))
}

func bodyClass(post *domain.Post) string {
	if post.IsPage() {
		return "page-template"
	}
	return "post-template"
}
