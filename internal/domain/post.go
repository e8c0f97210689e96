package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// PostStatus is the publishing state of a post.
type PostStatus string

const (
	// PostStatusDraft is never publicly visible.
	PostStatusDraft PostStatus = "DRAFT"
	// PostStatusPublished is visible once PublishedAt has passed.
	PostStatusPublished PostStatus = "PUBLISHED"
	// PostStatusScheduled waits for an external trigger to publish it at PublishAt.
	PostStatusScheduled PostStatus = "SCHEDULED"
)

// PostStatuses lists every valid status.
var PostStatuses = []PostStatus{PostStatusDraft, PostStatusPublished, PostStatusScheduled}

// ParsePostStatus converts s into a PostStatus.
func ParsePostStatus(s string) (PostStatus, error) {
	switch st := PostStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown post status %q", s)
	}
}

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// Post is a blog article.
type Post struct {
	Entity
	AuthorID        string     `json:"author_id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Excerpt         string     `json:"excerpt"`
	Body            string     `json:"body"`
	CoverImage      string     `json:"cover_image,omitempty"`
	Status          PostStatus `json:"status"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	PublishAt       *time.Time `json:"publish_at,omitempty"`
	ReadingTime     int        `json:"reading_time"`
	MetaTitle       string     `json:"meta_title,omitempty"`
	MetaDescription string     `json:"meta_description,omitempty"`
	CanonicalURL    string     `json:"canonical_url,omitempty"`
	Version         int        `json:"version"`

	Author     *User       `json:"author,omitempty"`
	Categories []*Category `json:"categories"`
	Tags       []*Tag      `json:"tags"`
}

// Visible is the single public visibility rule: a post is visible iff it is
// PUBLISHED and its publication instant is set and not after now.
// Every public read path goes through this function or mirrors it exactly.
func Visible(status PostStatus, publishedAt *time.Time, now time.Time) bool {
	return status == PostStatusPublished && publishedAt != nil && !publishedAt.After(now)
}

// IsVisible reports whether p may be shown to the public at now.
func (p *Post) IsVisible(now time.Time) bool {
	return Visible(p.Status, p.PublishedAt, now)
}

// AuthoredBy reports whether userID is the author of p.
func (p *Post) AuthoredBy(userID string) bool {
	return userID != "" && p.AuthorID == userID
}

// PublicPath returns the site-relative URL of the post.
func (p *Post) PublicPath() string {
	return PostPath(p.Slug)
}

// PostPath returns the site-relative URL of the post with the given slug.
func PostPath(slug string) string {
	return "/blog/" + slug
}

// ReadingTime estimates reading minutes for body at WordsPerMinute, never
// less than one.
func ReadingTime(body string) int {
	words := len(strings.Fields(body))
	return max(1, int(math.Ceil(float64(words)/WordsPerMinute)))
}

// InitialPublishedAt decides PublishedAt for a new post.
// An explicit value wins; otherwise a PUBLISHED post is stamped with now.
func InitialPublishedAt(status PostStatus, explicit *time.Time, now time.Time) *time.Time {
	if explicit != nil {
		t := *explicit
		return &t
	}
	if status == PostStatusPublished {
		t := now
		return &t
	}
	return nil
}

// NextPublishedAt decides PublishedAt when a post is updated.
// An explicit value wins. Otherwise the first transition to PUBLISHED stamps now,
// and an already stamped post keeps its original instant.
func NextPublishedAt(current *time.Time, status PostStatus, explicit *time.Time, now time.Time) *time.Time {
	if explicit != nil {
		t := *explicit
		return &t
	}
	if status == PostStatusPublished && current == nil {
		t := now
		return &t
	}
	return current
}
