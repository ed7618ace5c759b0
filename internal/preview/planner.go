// Package preview resolves UUID preview links into HTTP responses: it looks
// the post up, applies the paywall policy, plans the response, and enforces
// the frontend header contract.
package preview

import (
	"strings"

	"github.com/ignite/preview-resolver/internal/domain"
)

// Outcome is the response class chosen for a request.
type Outcome int

const (
	OutcomeNotFound Outcome = iota
	OutcomeRender
	OutcomeRedirect
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRender:
		return "render"
	case OutcomeRedirect:
		return "redirect"
	default:
		return "not_found"
	}
}

// Plan is the response the handler must emit. Location and RedirectKind
// are set for OutcomeRedirect; Decision is set for OutcomeRender.
type Plan struct {
	Outcome      Outcome
	Decision     domain.Decision
	RedirectKind RedirectKind
	Location     string
}

// Planner maps a post and an access decision to a response plan. It is pure
// and holds only path configuration.
type Planner struct {
	adminPath string
	emailPath string
}

const (
	DefaultAdminPath = "/ghost/"
	DefaultEmailPath = "/email/"
)

// NewPlanner creates a planner. Empty paths fall back to the defaults.
func NewPlanner(adminPath, emailPath string) *Planner {
	return &Planner{
		adminPath: normalisePath(adminPath, DefaultAdminPath),
		emailPath: normalisePath(emailPath, DefaultEmailPath),
	}
}

func normalisePath(p, fallback string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// Plan decides the preview response for post by lifecycle status:
//
//	draft, scheduled        render with the decision's cut
//	published               301 to the canonical slug URL
//	sent, email-only        301 to the email archive view
//	sent, not email-only    301 to the canonical slug URL
//
// Unknown statuses and Deny decisions are planned as not found.
func (pl *Planner) Plan(post *domain.Post, decision domain.Decision) Plan {
	if post == nil || decision == domain.AccessDeny {
		return Plan{Outcome: OutcomeNotFound}
	}

	switch post.Status {
	case domain.PostDraft, domain.PostScheduled:
		return Plan{Outcome: OutcomeRender, Decision: decision}
	case domain.PostPublished:
		return pl.permanent(post.CanonicalURL())
	case domain.PostSent:
		if post.EmailOnly {
			return pl.permanent(pl.EmailURL(post))
		}
		return pl.permanent(post.CanonicalURL())
	default:
		return Plan{Outcome: OutcomeNotFound}
	}
}

// PlanEdit redirects to the admin editor for post, whatever its status.
func (pl *Planner) PlanEdit(post *domain.Post) Plan {
	if post == nil {
		return Plan{Outcome: OutcomeNotFound}
	}
	return Plan{
		Outcome:      OutcomeRedirect,
		RedirectKind: RedirectEditor,
		Location:     pl.EditorURL(post),
	}
}

// PlanEmail renders the email archive view. Only email-only posts that have
// been sent have one.
func (pl *Planner) PlanEmail(post *domain.Post, decision domain.Decision) Plan {
	if post == nil || decision == domain.AccessDeny {
		return Plan{Outcome: OutcomeNotFound}
	}
	if !post.EmailOnly || post.Status != domain.PostSent {
		return Plan{Outcome: OutcomeNotFound}
	}
	return Plan{Outcome: OutcomeRender, Decision: decision}
}

// EditorURL is the admin editor location for post.
func (pl *Planner) EditorURL(post *domain.Post) string {
	kind := string(domain.TypePost)
	if post.IsPage() {
		kind = string(domain.TypePage)
	}
	return pl.adminPath + "#/editor/" + kind + "/" + post.ID
}

// EmailPath is the normalised email archive prefix, with leading and
// trailing slashes. The email route is mounted under it.
func (pl *Planner) EmailPath() string {
	return pl.emailPath
}

// EmailURL is the email archive location for post.
func (pl *Planner) EmailURL(post *domain.Post) string {
	return pl.emailPath + post.UUID + "/"
}

func (pl *Planner) permanent(location string) Plan {
	return Plan{
		Outcome:      OutcomeRedirect,
		RedirectKind: RedirectPermanent,
		Location:     location,
	}
}
