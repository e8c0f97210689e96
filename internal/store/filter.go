package store

import (
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// PostFilter narrows a post query. Zero values mean "no constraint".
type PostFilter struct {
	// Status restricts to one status. Admin listings only.
	Status *domain.PostStatus
	// VisibleAt restricts to posts publicly visible at this instant,
	// mirroring domain.Visible.
	VisibleAt *time.Time
	// Search is a case-insensitive substring matched against title, body or excerpt.
	Search     string
	CategoryID string
	TagID      string
	AuthorID   string
}

// Visible returns a filter for posts visible to the public at now.
func Visible(now time.Time) PostFilter {
	return PostFilter{VisibleAt: &now}
}
