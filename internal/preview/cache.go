package preview

import "net/http"

// Cache-Control values for frontend responses.
const (
	CacheControlYear    = "public, max-age=31536000"
	CacheControlNoCache = "no-cache, private, no-store, must-revalidate, max-stale=0, post-check=0, pre-check=0"
)

// RedirectKind names the intent of a redirect. Status code and cache policy
// both follow from the intent.
type RedirectKind int

const (
	// RedirectPermanent forwards a retired preview URL to its live location.
	RedirectPermanent RedirectKind = iota + 1
	// RedirectEditor sends an editor link to the admin editor.
	RedirectEditor
)

// StatusCode returns the HTTP status for the redirect kind.
func (k RedirectKind) StatusCode() int {
	if k == RedirectPermanent {
		return http.StatusMovedPermanently
	}
	return http.StatusFound
}

// CacheControl returns the Cache-Control header for the redirect kind.
func (k RedirectKind) CacheControl() string {
	if k == RedirectPermanent {
		return CacheControlYear
	}
	return CacheControlNoCache
}

func (k RedirectKind) String() string {
	switch k {
	case RedirectPermanent:
		return "permanent"
	case RedirectEditor:
		return "editor"
	default:
		return "none"
	}
}
