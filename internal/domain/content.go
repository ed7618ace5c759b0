package domain

import "strings"

// PaywallMarker is the HTML comment that marks the paywall cut in a post body.
const PaywallMarker = "<!--members-only-->"

// ContentSegments is a post body split at the paywall cut.
type ContentSegments struct {
	BeforePaywall string
	AfterPaywall  string
	// HasCut is false when the body carries no paywall marker.
	HasCut bool
}

// SplitContent splits html at the first paywall marker. Without a marker
// the whole body is after the cut, so nothing leaks ahead of the paywall.
func SplitContent(html string) ContentSegments {
	idx := strings.Index(html, PaywallMarker)
	if idx < 0 {
		return ContentSegments{AfterPaywall: html}
	}
	return ContentSegments{
		BeforePaywall: html[:idx],
		AfterPaywall:  html[idx+len(PaywallMarker):],
		HasCut:        true,
	}
}

// Full joins both segments back into the complete body.
func (c ContentSegments) Full() string {
	return c.BeforePaywall + c.AfterPaywall
}
