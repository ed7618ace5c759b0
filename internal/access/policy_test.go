package access

import (
	"testing"

	"github.com/ignite/preview-resolver/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	freeTier = domain.Tier{ID: "t-free", Slug: "free", Name: "Free", Type: domain.TierFree}
	goldTier = domain.Tier{ID: "t-gold", Slug: "gold", Name: "Gold", Type: domain.TierPaid}
)

var allCallers = []domain.MembershipStatus{
	domain.MemberAbsent,
	domain.MemberAnonymous,
	domain.MemberFree,
	domain.MemberPaid,
}

var allVisibilities = []domain.Visibility{
	domain.VisibilityPublic,
	domain.VisibilityMembers,
	domain.VisibilityPaid,
	domain.VisibilityTiers,
}

func TestDecide(t *testing.T) {
	p := NewPolicy("")

	tests := []struct {
		name       string
		visibility domain.Visibility
		tiers      []domain.Tier
		caller     domain.MembershipStatus
		want       domain.Decision
	}{
		{"anonymous on members post", domain.VisibilityMembers, nil, domain.MemberAnonymous, domain.AccessPartial},
		{"anonymous on paid post", domain.VisibilityPaid, nil, domain.MemberAnonymous, domain.AccessPartial},
		{"anonymous on tiers post", domain.VisibilityTiers, []domain.Tier{goldTier}, domain.MemberAnonymous, domain.AccessPartial},
		{"free on members post", domain.VisibilityMembers, nil, domain.MemberFree, domain.AccessFull},
		{"free on paid post", domain.VisibilityPaid, nil, domain.MemberFree, domain.AccessPartial},
		{"free on paid post carrying free tier row", domain.VisibilityPaid, []domain.Tier{freeTier}, domain.MemberFree, domain.AccessPartial},
		{"free on tiers post with free tier", domain.VisibilityTiers, []domain.Tier{freeTier, goldTier}, domain.MemberFree, domain.AccessFull},
		{"free on tiers post without free tier", domain.VisibilityTiers, []domain.Tier{goldTier}, domain.MemberFree, domain.AccessPartial},
		{"paid on members post", domain.VisibilityMembers, nil, domain.MemberPaid, domain.AccessFull},
		{"paid on paid post", domain.VisibilityPaid, nil, domain.MemberPaid, domain.AccessFull},
		{"paid on tiers post", domain.VisibilityTiers, []domain.Tier{goldTier}, domain.MemberPaid, domain.AccessFull},
		{"paid on tiers post with empty tier set", domain.VisibilityTiers, nil, domain.MemberPaid, domain.AccessPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Decide(tt.visibility, tt.tiers, tt.caller))
		})
	}
}

func TestDecide_PublicIsAlwaysFull(t *testing.T) {
	p := NewPolicy("")
	for _, caller := range allCallers {
		assert.Equal(t, domain.AccessFull, p.Decide(domain.VisibilityPublic, []domain.Tier{goldTier}, caller), caller.String())
	}
}

func TestDecide_AbsentIsAlwaysFull(t *testing.T) {
	p := NewPolicy("")
	for _, v := range allVisibilities {
		assert.Equal(t, domain.AccessFull, p.Decide(v, nil, domain.MemberAbsent), string(v))
		assert.Equal(t, domain.AccessFull, p.Decide(v, []domain.Tier{goldTier}, domain.MemberAbsent), string(v))
	}
}

func TestDecide_NeverDenies(t *testing.T) {
	p := NewPolicy("")
	tierSets := [][]domain.Tier{nil, {freeTier}, {goldTier}, {freeTier, goldTier}}
	for _, v := range allVisibilities {
		for _, tiers := range tierSets {
			for _, caller := range allCallers {
				assert.NotEqual(t, domain.AccessDeny, p.Decide(v, tiers, caller))
			}
		}
	}
}

func TestDecide_Idempotent(t *testing.T) {
	p := NewPolicy("")
	first := p.Decide(domain.VisibilityTiers, []domain.Tier{goldTier}, domain.MemberFree)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Decide(domain.VisibilityTiers, []domain.Tier{goldTier}, domain.MemberFree))
	}
}

func TestIsFreeTier_BySlug(t *testing.T) {
	p := NewPolicy("Community")
	assert.True(t, p.IsFreeTier(domain.Tier{Slug: "community", Type: domain.TierPaid}))
	assert.True(t, p.IsFreeTier(domain.Tier{Slug: "anything", Type: domain.TierFree}))
	assert.False(t, p.IsFreeTier(goldTier))

	post := &domain.Post{
		Visibility: domain.VisibilityTiers,
		Tiers:      []domain.Tier{{Slug: "community"}},
	}
	assert.Equal(t, domain.AccessFull, p.DecidePost(post, domain.MemberFree))
}
