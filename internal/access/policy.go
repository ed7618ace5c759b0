// Package access decides how much of a post a caller may read through a
// preview link.
package access

import (
	"strings"

	"github.com/ignite/preview-resolver/internal/domain"
)

// DefaultFreeTierSlug is the slug of the built-in free membership tier.
const DefaultFreeTierSlug = "free"

// Policy is the paywall access policy. It holds configuration only and is
// safe for concurrent use.
type Policy struct {
	freeTierSlug string
}

// NewPolicy creates a policy. An empty freeTierSlug uses DefaultFreeTierSlug.
func NewPolicy(freeTierSlug string) *Policy {
	slug := strings.ToLower(strings.TrimSpace(freeTierSlug))
	if slug == "" {
		slug = DefaultFreeTierSlug
	}
	return &Policy{freeTierSlug: slug}
}

// Decide returns Full or Partial for the given visibility, gating tiers and
// caller standing. Rules apply in order:
//
//  1. public posts are always Full
//  2. an absent membership signal is Full (the UUID authorizes the preview)
//  3. anonymous callers get Partial on gated posts
//  4. free members get Full on members posts or when a gating tier is free
//  5. paid members get Full unless a tiers post has no tiers to satisfy
//
// Deny is never returned: preview access only 404s for unknown UUIDs.
func (p *Policy) Decide(visibility domain.Visibility, tiers []domain.Tier, caller domain.MembershipStatus) domain.Decision {
	if !visibility.IsGated() {
		return domain.AccessFull
	}

	switch caller {
	case domain.MemberAbsent:
		return domain.AccessFull
	case domain.MemberFree:
		if visibility == domain.VisibilityMembers || p.includesFreeTier(visibility, tiers) {
			return domain.AccessFull
		}
		return domain.AccessPartial
	case domain.MemberPaid:
		if visibility == domain.VisibilityTiers && len(tiers) == 0 {
			return domain.AccessPartial
		}
		return domain.AccessFull
	default:
		return domain.AccessPartial
	}
}

// DecidePost is Decide applied to a post's own visibility and tiers.
func (p *Policy) DecidePost(post *domain.Post, caller domain.MembershipStatus) domain.Decision {
	return p.Decide(post.Visibility, post.Tiers, caller)
}

// includesFreeTier reports whether the effective tier set contains the free
// tier. A paid post gates behind paid tiers only, whatever rows it carries.
func (p *Policy) includesFreeTier(visibility domain.Visibility, tiers []domain.Tier) bool {
	if visibility != domain.VisibilityTiers {
		return false
	}
	for _, t := range tiers {
		if p.IsFreeTier(t) {
			return true
		}
	}
	return false
}

// IsFreeTier reports whether t is the designated free tier.
func (p *Policy) IsFreeTier(t domain.Tier) bool {
	if t.Type == domain.TierFree {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(t.Slug), p.freeTierSlug)
}
