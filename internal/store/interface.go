// Package store defines the persistence interface for the pressroom server.
package store

import (
	"context"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// PostLinks carries the category and tag ids for a post write.
// On update a nil slice leaves that set untouched; a non-nil slice
// (even empty) replaces it.
type PostLinks struct {
	CategoryIDs []string
	TagIDs      []string
}

// Store defines all persistence operations.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	ResolveUser(ctx context.Context, user *domain.User, profileName string) (*domain.User, bool, error)
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post, links PostLinks) error
	UpdatePost(ctx context.Context, post *domain.Post, links PostLinks, expectedVersion *int) error
	DeletePost(ctx context.Context, id string) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]*domain.Post, error)
	ListPosts(ctx context.Context, filter PostFilter, page PageParams) (*Page[*domain.Post], error)
	FindPosts(ctx context.Context, filter PostFilter, limit int) ([]*domain.Post, error)
	PostStats(ctx context.Context, recent int) (*domain.PostStats, error)

	// Categories
	CreateCategory(ctx context.Context, category *domain.Category) error
	UpdateCategory(ctx context.Context, category *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context, now time.Time) ([]*domain.Category, error)
	ResolveCategoryRefs(ctx context.Context, refs []string) (ids []string, missing []string, err error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListTags(ctx context.Context, now time.Time) ([]*domain.Tag, error)
	ResolveTagRefs(ctx context.Context, refs []string) (ids []string, missing []string, err error)
}
