package domain

import "strings"

// Visibility controls which audience may read a post past the paywall cut.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityMembers Visibility = "members"
	VisibilityPaid    Visibility = "paid"
	VisibilityTiers   Visibility = "tiers"
)

// IsGated returns true when the post has content behind the paywall cut.
func (v Visibility) IsGated() bool {
	return v != VisibilityPublic
}

// ParseVisibility normalises a stored visibility value. Unknown values are
// treated as paid so that a bad row never exposes gated content.
func ParseVisibility(s string) Visibility {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityPublic:
		return VisibilityPublic
	case VisibilityMembers:
		return VisibilityMembers
	case VisibilityTiers:
		return VisibilityTiers
	default:
		return VisibilityPaid
	}
}

// TierType separates the free membership level from paid ones.
type TierType string

const (
	TierFree TierType = "free"
	TierPaid TierType = "paid"
)

// Tier is a named membership level that can gate a post.
type Tier struct {
	ID   string   `json:"id" db:"id"`
	Slug string   `json:"slug" db:"slug"`
	Name string   `json:"name" db:"name"`
	Type TierType `json:"type" db:"type"`
}

// TierNames lists tier display names in order, for paywall messaging.
func TierNames(tiers []Tier) []string {
	names := make([]string, 0, len(tiers))
	for _, t := range tiers {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}
