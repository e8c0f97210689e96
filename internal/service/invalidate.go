package service

import (
	"context"

	"github.com/listenupapp/pressroom/internal/domain"
)

// Public paths whose rendered output depends on post, category and tag data.
const (
	PathHome       = "/"
	PathBlog       = "/blog"
	PathCategories = "/categories"
	PathTags       = "/tags"
)

// Invalidator is told which public paths are stale after a committed mutation.
// Implementations must not block the caller.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// NoopInvalidator discards invalidations.
type NoopInvalidator struct{}

// Invalidate does nothing.
func (NoopInvalidator) Invalidate(context.Context, ...string) {}

// PostIndexer keeps a secondary index of posts in step with storage.
type PostIndexer interface {
	IndexPost(ctx context.Context, post *domain.Post) error
	DeletePost(ctx context.Context, id string) error
}

// postPaths returns the paths touched by a change to a post, including the
// previous slug when it was renamed.
func postPaths(slug, oldSlug string) []string {
	paths := []string{PathBlog, PathHome, domain.PostPath(slug)}
	if oldSlug != "" && oldSlug != slug {
		paths = append(paths, domain.PostPath(oldSlug))
	}
	return paths
}
