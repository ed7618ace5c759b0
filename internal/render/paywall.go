package render

import (
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/preview-resolver/internal/domain"
)

// PaywallMessage is the call to action shown where a partial body stops.
func PaywallMessage(post *domain.Post) string {
	switch post.Visibility {
	case domain.VisibilityMembers:
		return "This post is for subscribers only"
	case domain.VisibilityTiers:
		names := domain.TierNames(post.Tiers)
		if len(names) == 0 {
			return "This post is for subscribers on selected tiers only"
		}
		suffix := " tier only"
		if len(names) > 1 {
			suffix = " tiers only"
		}
		return "This post is for subscribers on the " + JoinAnd(names) + suffix
	default:
		return "This post is for paying subscribers only"
	}
}

// JoinAnd joins items as an English list: "A", "A and B", "A, B and C".
func JoinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// registerFilters adds the filters custom themes may use.
func registerFilters(engine *liquid.Engine) {
	// {{ tiers | join_and }}
	engine.RegisterFilter("join_and", func(items []string) string {
		return JoinAnd(items)
	})

	// {{ post.title | default: "(Untitled)" }}
	engine.RegisterFilter("default", func(value any, fallback string) any {
		if value == nil {
			return fallback
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return fallback
		}
		return value
	})
}
