package preview

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ignite/preview-resolver/internal/access"
	"github.com/ignite/preview-resolver/internal/domain"
	"github.com/ignite/preview-resolver/internal/pkg/httputil"
	"github.com/ignite/preview-resolver/internal/pkg/logger"
)

// MemberStatusParam is the query parameter carrying the caller-asserted
// membership status.
const MemberStatusParam = "member_status"

// PostLookup resolves a post by UUID. Implementations return
// domain.ErrPostNotFound on a miss and must find posts in every status.
type PostLookup interface {
	FindByUUID(ctx context.Context, uuid string) (*domain.Post, error)
}

// Renderer turns a post into an HTML page honouring the paywall decision.
type Renderer interface {
	Render(post *domain.Post, decision domain.Decision) (string, error)
}

// Handler serves the UUID preview routes.
type Handler struct {
	lookup   PostLookup
	policy   *access.Policy
	planner  *Planner
	renderer Renderer
}

// NewHandler creates a preview handler.
func NewHandler(lookup PostLookup, policy *access.Policy, planner *Planner, renderer Renderer) *Handler {
	return &Handler{
		lookup:   lookup,
		policy:   policy,
		planner:  planner,
		renderer: renderer,
	}
}

// RegisterRoutes mounts the preview, editor and email archive routes on r.
// The email route lives under the planner's email path so its redirects
// always land on a mounted route. Every route runs behind FrontendHeaders.
func (h *Handler) RegisterRoutes(r chi.Router) {
	email := h.planner.EmailPath()

	r.Group(func(r chi.Router) {
		r.Use(FrontendHeaders)

		r.Get("/p/{uuid}", h.addTrailingSlash)
		r.Get("/p/{uuid}/", h.HandlePreview)
		r.Get("/p/{uuid}/edit", h.addTrailingSlash)
		r.Get("/p/{uuid}/edit/", h.HandleEdit)
		r.Get(email+"{uuid}", h.addTrailingSlash)
		r.Get(email+"{uuid}/", h.HandleEmail)
	})
}

// HandlePreview resolves GET /p/{uuid}/.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	post, ok := h.find(w, r)
	if !ok {
		return
	}

	caller := membershipFromRequest(r)
	decision := h.policy.DecidePost(post, caller)
	plan := h.planner.Plan(post, decision)

	logger.Debug("preview resolved",
		"uuid", post.UUID,
		"status", post.Status,
		"member_status", caller,
		"decision", decision,
		"outcome", plan.Outcome,
	)
	h.respond(w, post, plan)
}

// HandleEdit resolves GET /p/{uuid}/edit/ to the admin editor.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	post, ok := h.find(w, r)
	if !ok {
		return
	}
	h.respond(w, post, h.planner.PlanEdit(post))
}

// HandleEmail resolves GET {email path}{uuid}/ for sent email-only posts.
func (h *Handler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	post, ok := h.find(w, r)
	if !ok {
		return
	}

	decision := h.policy.DecidePost(post, membershipFromRequest(r))
	h.respond(w, post, h.planner.PlanEmail(post, decision))
}

// find looks the post up and writes the failure response itself. It writes
// nothing when the caller has gone away; FrontendHeaders finishes that
// response.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*domain.Post, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		notFound(w)
		return nil, false
	}

	post, err := h.lookup.FindByUUID(r.Context(), id.String())
	switch {
	case err == nil:
		return post, true
	case errors.Is(err, domain.ErrPostNotFound):
		logger.Debug("preview uuid not found", "uuid", id.String())
		notFound(w)
	case errors.Is(err, context.Canceled) || r.Context().Err() != nil:
		logger.Debug("preview lookup abandoned", "uuid", id.String(), "error", err)
	default:
		logger.Error("preview lookup failed", "uuid", id.String(), "error", err)
		httputil.InternalError(w, err)
	}
	return nil, false
}

func (h *Handler) respond(w http.ResponseWriter, post *domain.Post, plan Plan) {
	switch plan.Outcome {
	case OutcomeRender:
		page, err := h.renderer.Render(post, plan.Decision)
		if err != nil {
			logger.Error("preview render failed", "uuid", post.UUID, "error", err)
			httputil.InternalError(w, err)
			return
		}
		w.Header().Set("Cache-Control", CacheControlNoCache)
		httputil.HTML(w, http.StatusOK, page)
	case OutcomeRedirect:
		w.Header().Set("Cache-Control", plan.RedirectKind.CacheControl())
		httputil.Redirect(w, plan.RedirectKind.StatusCode(), plan.Location)
	default:
		notFound(w)
	}
}

func (h *Handler) addTrailingSlash(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Path + "/"
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	w.Header().Set("Cache-Control", RedirectPermanent.CacheControl())
	httputil.Redirect(w, RedirectPermanent.StatusCode(), target)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", CacheControlNoCache)
	httputil.NotFound(w)
}

// membershipFromRequest reads the caller-asserted member status. A missing
// or empty parameter is domain.MemberAbsent.
func membershipFromRequest(r *http.Request) domain.MembershipStatus {
	return domain.ParseMembershipStatus(strings.TrimSpace(r.URL.Query().Get(MemberStatusParam)))
}
