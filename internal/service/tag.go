package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/pressroom/internal/access"
	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/id"
	"github.com/listenupapp/pressroom/internal/store"
	"github.com/listenupapp/pressroom/internal/validation"
)

// TagService orchestrates tag operations.
// Tags are flat labels; only admins manage them.
type TagService struct {
	store       store.Store
	indexer     PostIndexer
	invalidator Invalidator
	logger      *slog.Logger
	validator   *validation.Validator
	now         func() time.Time
}

// NewTagService creates a new tag service. indexer may be nil.
func NewTagService(store store.Store, indexer PostIndexer, invalidator Invalidator, logger *slog.Logger) *TagService {
	if invalidator == nil {
		invalidator = NoopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TagService{
		store:       store,
		indexer:     indexer,
		invalidator: invalidator,
		logger:      logger,
		validator:   validation.New(),
		now:         time.Now,
	}
}

// CreateTagRequest contains fields for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50"`
	Slug string `json:"slug,omitempty" validate:"max=50"`
}

// UpdateTagRequest contains fields for updating a tag.
type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,notblank,max=50"`
	Slug *string `json:"slug,omitempty" validate:"omitempty,max=50"`
}

// TagArchive is a tag with its visible posts, newest first.
type TagArchive struct {
	Tag   *domain.Tag
	Posts []*domain.Post
}

// List returns all tags by name with visible post counts.
func (s *TagService) List(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// GetBySlug returns the tag archive, or nil when the slug is unknown.
func (s *TagService) GetBySlug(ctx context.Context, slug string) (*TagArchive, error) {
	t, err := s.store.GetTagBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	filter := store.Visible(s.now())
	filter.TagID = t.ID
	posts, err := s.store.FindPosts(ctx, filter, 0)
	if err != nil {
		return nil, fmt.Errorf("find tag posts: %w", err)
	}
	t.PostCount = len(posts)

	return &TagArchive{Tag: t, Posts: posts}, nil
}

// Create creates a tag. Admin only.
func (s *TagService) Create(ctx context.Context, user *domain.User, req CreateTagRequest) (*domain.Tag, error) {
	if d := access.RequireAdmin(user); d.Denied() {
		return nil, d.Err()
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	slug, err := taxonomySlug(req.Slug, req.Name)
	if err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag id: %w", err)
	}

	t := &domain.Tag{
		Entity: domain.Entity{ID: tagID},
		Name:   strings.TrimSpace(req.Name),
		Slug:   slug,
	}
	t.InitTimestamps(s.now())

	if err := s.store.CreateTag(ctx, t); err != nil {
		return nil, mapTaxonomyError("tag", err)
	}

	s.logger.Info("tag created", "tag_id", t.ID, "slug", t.Slug, "user_id", user.ID)
	s.invalidator.Invalidate(ctx, PathBlog, PathTags)
	return t, nil
}

// Update renames a tag. Admin only.
func (s *TagService) Update(ctx context.Context, user *domain.User, tagID string, req UpdateTagRequest) (*domain.Tag, error) {
	if d := access.RequireAdmin(user); d.Denied() {
		return nil, d.Err()
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	t, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, mapTaxonomyError("tag", err)
	}
	oldSlug := t.Slug

	if req.Name != nil {
		t.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug, err := taxonomySlug(*req.Slug, "")
		if err != nil {
			return nil, err
		}
		t.Slug = slug
	}
	t.Touch(s.now())

	if err := s.store.UpdateTag(ctx, t); err != nil {
		return nil, mapTaxonomyError("tag", err)
	}

	s.logger.Info("tag updated", "tag_id", t.ID, "slug", t.Slug, "user_id", user.ID)

	if t.Slug != oldSlug && s.indexer != nil {
		posts, err := s.store.FindPosts(ctx, store.PostFilter{TagID: t.ID}, 0)
		if err != nil {
			s.logger.Warn("failed to load posts for reindex", "tag_id", t.ID, "error", err)
		} else {
			reindexPosts(ctx, s.store, s.indexer, s.logger, posts)
		}
	}
	s.invalidator.Invalidate(ctx, PathBlog, PathTags)
	return t, nil
}

// Delete removes a tag and its post links. Admin only.
func (s *TagService) Delete(ctx context.Context, user *domain.User, tagID string) error {
	if d := access.RequireAdmin(user); d.Denied() {
		return d.Err()
	}

	affected, err := s.store.FindPosts(ctx, store.PostFilter{TagID: tagID}, 0)
	if err != nil {
		return fmt.Errorf("find tag posts: %w", err)
	}

	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return mapTaxonomyError("tag", err)
	}

	s.logger.Info("tag deleted", "tag_id", tagID, "user_id", user.ID)

	reindexPosts(ctx, s.store, s.indexer, s.logger, affected)
	s.invalidator.Invalidate(ctx, PathBlog, PathTags)
	return nil
}
