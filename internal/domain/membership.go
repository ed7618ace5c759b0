package domain

import "strings"

// MembershipStatus is the caller's asserted membership standing.
//
// MemberAbsent means no assertion was made at all. It is deliberately
// distinct from MemberAnonymous: absent callers read the full post,
// anonymous callers hit the paywall on gated posts.
type MembershipStatus int

const (
	MemberAbsent MembershipStatus = iota
	MemberAnonymous
	MemberFree
	MemberPaid
)

var membershipNames = map[MembershipStatus]string{
	MemberAbsent:    "absent",
	MemberAnonymous: "anonymous",
	MemberFree:      "free",
	MemberPaid:      "paid",
}

func (m MembershipStatus) String() string {
	if name, ok := membershipNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMembershipStatus converts a raw member_status value. An empty value
// is MemberAbsent. Values other than free or paid carry no entitlement and
// map to MemberAnonymous.
func ParseMembershipStatus(raw string) MembershipStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return MemberAbsent
	case "free":
		return MemberFree
	case "paid", "comped":
		return MemberPaid
	default:
		return MemberAnonymous
	}
}

// Decision is the outcome of the access policy for one request.
type Decision string

const (
	// AccessFull shows the whole post.
	AccessFull Decision = "full"
	// AccessPartial shows content up to the paywall cut plus the paywall block.
	AccessPartial Decision = "partial"
	// AccessDeny refuses the post. Preview routes never produce it.
	AccessDeny Decision = "deny"
)
