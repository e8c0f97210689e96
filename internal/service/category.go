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
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/id"
	"github.com/listenupapp/pressroom/internal/store"
	"github.com/listenupapp/pressroom/internal/util"
	"github.com/listenupapp/pressroom/internal/validation"
)

// CategoryService orchestrates category operations.
type CategoryService struct {
	store       store.Store
	indexer     PostIndexer
	invalidator Invalidator
	logger      *slog.Logger
	validator   *validation.Validator
	now         func() time.Time
}

// NewCategoryService creates a new category service. indexer may be nil.
func NewCategoryService(store store.Store, indexer PostIndexer, invalidator Invalidator, logger *slog.Logger) *CategoryService {
	if invalidator == nil {
		invalidator = NoopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{
		store:       store,
		indexer:     indexer,
		invalidator: invalidator,
		logger:      logger,
		validator:   validation.New(),
		now:         time.Now,
	}
}

// CreateCategoryRequest contains fields for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Slug        string `json:"slug,omitempty" validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
}

// UpdateCategoryRequest contains fields for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// CategoryArchive is a category with its visible posts, newest first.
type CategoryArchive struct {
	Category *domain.Category
	Posts    []*domain.Post
}

// List returns all categories by name with visible post counts.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.store.ListCategories(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetBySlug returns the category archive, or nil when the slug is unknown.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryArchive, error) {
	c, err := s.store.GetCategoryBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	filter := store.Visible(s.now())
	filter.CategoryID = c.ID
	posts, err := s.store.FindPosts(ctx, filter, 0)
	if err != nil {
		return nil, fmt.Errorf("find category posts: %w", err)
	}
	c.PostCount = len(posts)

	return &CategoryArchive{Category: c, Posts: posts}, nil
}

// Create creates a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, user *domain.User, req CreateCategoryRequest) (*domain.Category, error) {
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

	categoryID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, fmt.Errorf("generate category id: %w", err)
	}

	c := &domain.Category{
		Entity:      domain.Entity{ID: categoryID},
		Name:        strings.TrimSpace(req.Name),
		Slug:        slug,
		Description: strings.TrimSpace(req.Description),
	}
	c.InitTimestamps(s.now())

	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, mapTaxonomyError("category", err)
	}

	s.logger.Info("category created", "category_id", c.ID, "slug", c.Slug, "user_id", user.ID)
	s.invalidator.Invalidate(ctx, PathBlog, PathCategories)
	return c, nil
}

// Update changes a category. Admin only.
func (s *CategoryService) Update(ctx context.Context, user *domain.User, categoryID string, req UpdateCategoryRequest) (*domain.Category, error) {
	if d := access.RequireAdmin(user); d.Denied() {
		return nil, d.Err()
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, mapTaxonomyError("category", err)
	}
	oldSlug := c.Slug

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug, err := taxonomySlug(*req.Slug, "")
		if err != nil {
			return nil, err
		}
		c.Slug = slug
	}
	if req.Description != nil {
		c.Description = strings.TrimSpace(*req.Description)
	}
	c.Touch(s.now())

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, mapTaxonomyError("category", err)
	}

	s.logger.Info("category updated", "category_id", c.ID, "slug", c.Slug, "user_id", user.ID)

	if c.Slug != oldSlug && s.indexer != nil {
		posts, err := s.store.FindPosts(ctx, store.PostFilter{CategoryID: c.ID}, 0)
		if err != nil {
			s.logger.Warn("failed to load posts for reindex", "category_id", c.ID, "error", err)
		} else {
			reindexPosts(ctx, s.store, s.indexer, s.logger, posts)
		}
	}
	s.invalidator.Invalidate(ctx, PathBlog, PathCategories)
	return c, nil
}

// Delete removes a category. Posts keep existing without it. Admin only.
func (s *CategoryService) Delete(ctx context.Context, user *domain.User, categoryID string) error {
	if d := access.RequireAdmin(user); d.Denied() {
		return d.Err()
	}

	affected, err := s.store.FindPosts(ctx, store.PostFilter{CategoryID: categoryID}, 0)
	if err != nil {
		return fmt.Errorf("find category posts: %w", err)
	}

	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return mapTaxonomyError("category", err)
	}

	s.logger.Info("category deleted", "category_id", categoryID, "user_id", user.ID)

	reindexPosts(ctx, s.store, s.indexer, s.logger, affected)
	s.invalidator.Invalidate(ctx, PathBlog, PathCategories)
	return nil
}

// reindexPosts refreshes index documents after a taxonomy change.
func reindexPosts(ctx context.Context, st store.Store, indexer PostIndexer, logger *slog.Logger, posts []*domain.Post) {
	if indexer == nil || len(posts) == 0 {
		return
	}
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	fresh, err := st.GetPostsByIDs(ctx, ids)
	if err != nil {
		logger.Warn("failed to reload posts for reindex", "error", err)
		return
	}
	for _, p := range fresh {
		if err := indexer.IndexPost(ctx, p); err != nil {
			logger.Warn("failed to index post", "post_id", p.ID, "error", err)
		}
	}
}

// taxonomySlug normalizes a category or tag slug, deriving it from name when empty.
func taxonomySlug(requested, name string) (string, error) {
	source := strings.TrimSpace(requested)
	if source == "" {
		source = name
	}
	slug := util.Slugify(source)
	if slug == "" {
		return "", domainerrors.InvalidField("slug", "must contain at least one letter or digit")
	}
	return slug, nil
}

func mapTaxonomyError(kind string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFoundf("%s%s not found", strings.ToUpper(kind[:1]), kind[1:])
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflictf("A %s with this slug already exists", kind)
	default:
		return fmt.Errorf("%s: %w", kind, err)
	}
}
