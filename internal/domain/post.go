package domain

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// ErrPostNotFound is returned by every PostLookup when no post has the UUID.
var ErrPostNotFound = errors.New("post not found")

// PostStatus enumerates the lifecycle states of a post.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
	PostSent      PostStatus = "sent"
)

// Valid reports whether s is a known lifecycle state.
func (s PostStatus) Valid() bool {
	switch s {
	case PostDraft, PostScheduled, PostPublished, PostSent:
		return true
	}
	return false
}

// PostType distinguishes posts from static pages. Both are previewable.
type PostType string

const (
	TypePost PostType = "post"
	TypePage PostType = "page"
)

// ContentFormat is the storage format of a post body.
type ContentFormat string

const (
	FormatHTML     ContentFormat = "html"
	FormatMarkdown ContentFormat = "markdown"
)

// Post is a post or page as seen by the preview resolver.
//
// UUID is the preview key and never changes; ID is the internal identifier
// used by the admin editor; Slug drives the canonical public URL.
type Post struct {
	ID              string        `json:"id" db:"id"`
	UUID            string        `json:"uuid" db:"uuid"`
	Type            PostType      `json:"type" db:"type"`
	Status          PostStatus    `json:"status" db:"status"`
	Visibility      Visibility    `json:"visibility" db:"visibility"`
	Tiers           []Tier        `json:"tiers,omitempty"`
	EmailOnly       bool          `json:"email_only" db:"email_only"`
	Slug            string        `json:"slug" db:"slug"`
	Title           string        `json:"title" db:"title"`
	MetaDescription string        `json:"meta_description" db:"meta_description"`
	CustomExcerpt   string        `json:"custom_excerpt" db:"custom_excerpt"`
	Format          ContentFormat `json:"format" db:"format"`
	HTML            string        `json:"html" db:"html"`
	Markdown        string        `json:"markdown,omitempty" db:"markdown"`
	PublishedAt     *time.Time    `json:"published_at" db:"published_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsPage returns true for static pages.
func (p *Post) IsPage() bool {
	return p.Type == TypePage
}

// CanonicalURL is the slug-based public path ("/{slug}/"). It is only
// meaningful for posts that are live on the web; callers check status.
// The slug is escaped as a single path segment, so a stored slug can never
// turn the redirect into a scheme-relative or off-site location.
func (p *Post) CanonicalURL() string {
	slug := strings.Trim(p.Slug, "/")
	if slug == "" {
		return "/"
	}
	return "/" + url.PathEscape(slug) + "/"
}

// PublicURL returns the canonical URL for published posts and "" otherwise.
func (p *Post) PublicURL() string {
	if p.Status != PostPublished {
		return ""
	}
	return p.CanonicalURL()
}

// Description is the meta description, falling back to the custom excerpt.
func (p *Post) Description() string {
	if strings.TrimSpace(p.MetaDescription) != "" {
		return p.MetaDescription
	}
	return p.CustomExcerpt
}
