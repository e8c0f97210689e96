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

// Body formats accepted on write. HTML is converted to markdown before storage.
const (
	BodyFormatMarkdown = "markdown"
	BodyFormatHTML     = "html"
)

// RecentPostsLimit is how many posts the dashboard shows.
const RecentPostsLimit = 5

// PostService orchestrates the publishing workflow.
type PostService struct {
	store       store.Store
	indexer     PostIndexer
	invalidator Invalidator
	logger      *slog.Logger
	validator   *validation.Validator
	now         func() time.Time
}

// NewPostService creates a new post service. indexer may be nil.
func NewPostService(store store.Store, indexer PostIndexer, invalidator Invalidator, logger *slog.Logger) *PostService {
	if invalidator == nil {
		invalidator = NoopInvalidator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostService{
		store:       store,
		indexer:     indexer,
		invalidator: invalidator,
		logger:      logger,
		validator:   validation.New(),
		now:         time.Now,
	}
}

// CreatePostRequest contains fields for creating a post.
type CreatePostRequest struct {
	Title           string     `json:"title" validate:"required,notblank,max=200"`
	Slug            string     `json:"slug,omitempty" validate:"max=200"`
	Excerpt         string     `json:"excerpt,omitempty" validate:"max=500"`
	Body            string     `json:"body" validate:"required,notblank"`
	BodyFormat      string     `json:"body_format,omitempty" validate:"omitempty,oneof=markdown html"`
	CoverImage      string     `json:"cover_image,omitempty" validate:"omitempty,url"`
	Status          string     `json:"status,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	PublishAt       *time.Time `json:"publish_at,omitempty"`
	MetaTitle       string     `json:"meta_title,omitempty" validate:"max=200"`
	MetaDescription string     `json:"meta_description,omitempty" validate:"max=300"`
	CanonicalURL    string     `json:"canonical_url,omitempty" validate:"omitempty,url"`
	CategoryIDs     []string   `json:"category_ids,omitempty" validate:"max=20"`
	TagIDs          []string   `json:"tag_ids,omitempty" validate:"max=50"`
}

// UpdatePostRequest contains fields for updating a post. Nil fields are left
// unchanged. A non-nil CategoryIDs or TagIDs replaces the whole set, so an
// empty list clears it.
type UpdatePostRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Slug            *string    `json:"slug,omitempty" validate:"omitempty,max=200"`
	Excerpt         *string    `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Body            *string    `json:"body,omitempty" validate:"omitempty,notblank"`
	BodyFormat      string     `json:"body_format,omitempty" validate:"omitempty,oneof=markdown html"`
	CoverImage      *string    `json:"cover_image,omitempty" validate:"omitempty,url"`
	Status          *string    `json:"status,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	PublishAt       *time.Time `json:"publish_at,omitempty"`
	MetaTitle       *string    `json:"meta_title,omitempty" validate:"omitempty,max=200"`
	MetaDescription *string    `json:"meta_description,omitempty" validate:"omitempty,max=300"`
	CanonicalURL    *string    `json:"canonical_url,omitempty" validate:"omitempty,url"`
	CategoryIDs     []string   `json:"category_ids,omitempty" validate:"omitempty,max=20"`
	TagIDs          []string   `json:"tag_ids,omitempty" validate:"omitempty,max=50"`
	ExpectedVersion *int       `json:"expected_version,omitempty" validate:"omitempty,min=1"`
}

// ListPostsParams selects a page of posts.
// Status is admin-only; when empty only visible posts are listed.
type ListPostsParams struct {
	Page     int
	Limit    int
	Status   string
	Search   string
	Category string // slug
	Tag      string // slug
}

// Create creates a post authored by user.
func (s *PostService) Create(ctx context.Context, user *domain.User, req CreatePostRequest) (*domain.Post, error) {
	// 1. Gate before anything else, so denial does not depend on the payload.
	if d := access.RequireAdmin(user); d.Denied() {
		return nil, d.Err()
	}

	// 2. Validate shape.
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	status := domain.PostStatusDraft
	if req.Status != "" {
		parsed, err := domain.ParsePostStatus(req.Status)
		if err != nil {
			return nil, domainerrors.InvalidField("status", "must be one of DRAFT, PUBLISHED, SCHEDULED")
		}
		status = parsed
	}

	slug, err := postSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	body, err := normalizeBody(req.Body, req.BodyFormat)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := checkSchedule(status, req.PublishAt, now); err != nil {
		return nil, err
	}

	// 3. Resolve category and tag references.
	links, err := s.resolveLinks(ctx, req.CategoryIDs, req.TagIDs)
	if err != nil {
		return nil, err
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, fmt.Errorf("generate post id: %w", err)
	}

	post := &domain.Post{
		Entity:          domain.Entity{ID: postID},
		AuthorID:        user.ID,
		Title:           strings.TrimSpace(req.Title),
		Slug:            slug,
		Excerpt:         strings.TrimSpace(req.Excerpt),
		Body:            body,
		CoverImage:      req.CoverImage,
		Status:          status,
		PublishedAt:     domain.InitialPublishedAt(status, req.PublishedAt, now),
		PublishAt:       req.PublishAt,
		ReadingTime:     domain.ReadingTime(body),
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CanonicalURL:    req.CanonicalURL,
		Version:         1,
	}
	post.InitTimestamps(now)

	// 4. Persist post and links together.
	if err := s.store.CreatePost(ctx, post, links); err != nil {
		return nil, s.mapStoreError("create post", err)
	}

	created, err := s.store.GetPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}

	s.logger.Info("post created",
		"post_id", created.ID,
		"slug", created.Slug,
		"status", created.Status,
		"user_id", user.ID,
	)

	s.afterWrite(ctx, created, "")
	return created, nil
}

// Update applies a partial update to a post.
func (s *PostService) Update(ctx context.Context, user *domain.User, postID string, req UpdatePostRequest) (*domain.Post, error) {
	if d := access.RequireAuthenticated(user); d.Denied() {
		return nil, d.Err()
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, s.mapStoreError("get post", err)
	}

	if d := access.CanModifyPost(user, post); d.Denied() {
		return nil, d.Err()
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	oldSlug := post.Slug

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil {
		slug, err := postSlug(*req.Slug, "")
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}
	if req.Excerpt != nil {
		post.Excerpt = strings.TrimSpace(*req.Excerpt)
	}
	if req.Body != nil {
		body, err := normalizeBody(*req.Body, req.BodyFormat)
		if err != nil {
			return nil, err
		}
		post.Body = body
		post.ReadingTime = domain.ReadingTime(body)
	}
	if req.CoverImage != nil {
		post.CoverImage = *req.CoverImage
	}
	if req.MetaTitle != nil {
		post.MetaTitle = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = *req.MetaDescription
	}
	if req.CanonicalURL != nil {
		post.CanonicalURL = *req.CanonicalURL
	}
	if req.Status != nil {
		status, err := domain.ParsePostStatus(*req.Status)
		if err != nil {
			return nil, domainerrors.InvalidField("status", "must be one of DRAFT, PUBLISHED, SCHEDULED")
		}
		post.Status = status
	}
	if req.PublishAt != nil {
		post.PublishAt = req.PublishAt
	}

	now := s.now()
	// An overdue scheduled post stays editable until someone reschedules it.
	if req.Status != nil || req.PublishAt != nil {
		if err := checkSchedule(post.Status, post.PublishAt, now); err != nil {
			return nil, err
		}
	}
	post.PublishedAt = domain.NextPublishedAt(post.PublishedAt, post.Status, req.PublishedAt, now)
	post.Touch(now)

	links, err := s.resolveLinks(ctx, req.CategoryIDs, req.TagIDs)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdatePost(ctx, post, links, req.ExpectedVersion); err != nil {
		return nil, s.mapStoreError("update post", err)
	}

	updated, err := s.store.GetPost(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}

	s.logger.Info("post updated",
		"post_id", updated.ID,
		"slug", updated.Slug,
		"status", updated.Status,
		"version", updated.Version,
		"user_id", user.ID,
	)

	s.afterWrite(ctx, updated, oldSlug)
	return updated, nil
}

// Delete removes a post.
func (s *PostService) Delete(ctx context.Context, user *domain.User, postID string) error {
	if d := access.RequireAuthenticated(user); d.Denied() {
		return d.Err()
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return s.mapStoreError("get post", err)
	}

	if d := access.CanModifyPost(user, post); d.Denied() {
		return d.Err()
	}

	if err := s.store.DeletePost(ctx, post.ID); err != nil {
		return s.mapStoreError("delete post", err)
	}

	s.logger.Info("post deleted", "post_id", post.ID, "slug", post.Slug, "user_id", user.ID)

	if s.indexer != nil {
		if err := s.indexer.DeletePost(ctx, post.ID); err != nil {
			s.logger.Warn("failed to remove post from search index", "post_id", post.ID, "error", err)
		}
	}
	s.invalidator.Invalidate(ctx, postPaths(post.Slug, "")...)
	return nil
}

// GetByID returns any post the user may modify, regardless of visibility.
func (s *PostService) GetByID(ctx context.Context, user *domain.User, postID string) (*domain.Post, error) {
	if d := access.RequireAuthenticated(user); d.Denied() {
		return nil, d.Err()
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, s.mapStoreError("get post", err)
	}

	if d := access.CanModifyPost(user, post); d.Denied() {
		return nil, d.Err()
	}
	return post, nil
}

// GetBySlug returns a visible post, or nil when there is none.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.store.GetPostBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get post by slug: %w", err)
	}

	// The query found it; visibility is still checked here.
	if !post.IsVisible(s.now()) {
		return nil, nil
	}
	return post, nil
}

// List returns a page of posts. A status filter requires an admin; without
// one, only visible posts are returned.
func (s *PostService) List(ctx context.Context, user *domain.User, params ListPostsParams) (*store.Page[*domain.Post], error) {
	var filter store.PostFilter

	if params.Status != "" {
		if d := access.RequireAdmin(user); d.Denied() {
			return nil, d.Err()
		}
		status, err := domain.ParsePostStatus(params.Status)
		if err != nil {
			return nil, domainerrors.InvalidField("status", "must be one of DRAFT, PUBLISHED, SCHEDULED")
		}
		filter.Status = &status
	} else {
		filter = store.Visible(s.now())
	}

	filter.Search = strings.TrimSpace(params.Search)

	if params.Category != "" {
		c, err := s.store.GetCategoryBySlug(ctx, params.Category)
		if errors.Is(err, store.ErrNotFound) {
			return store.NewPage[*domain.Post](nil, 0, pageParams(params)), nil
		}
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		filter.CategoryID = c.ID
	}
	if params.Tag != "" {
		t, err := s.store.GetTagBySlug(ctx, params.Tag)
		if errors.Is(err, store.ErrNotFound) {
			return store.NewPage[*domain.Post](nil, 0, pageParams(params)), nil
		}
		if err != nil {
			return nil, fmt.Errorf("get tag: %w", err)
		}
		filter.TagID = t.ID
	}

	page, err := s.store.ListPosts(ctx, filter, pageParams(params))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return page, nil
}

// Latest returns up to limit visible posts, newest first.
func (s *PostService) Latest(ctx context.Context, limit int) ([]*domain.Post, error) {
	posts, err := s.store.FindPosts(ctx, store.Visible(s.now()), limit)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	return posts, nil
}

// Stats returns dashboard counts. Admin only.
func (s *PostService) Stats(ctx context.Context, user *domain.User) (*domain.PostStats, error) {
	if d := access.RequireAdmin(user); d.Denied() {
		return nil, d.Err()
	}
	stats, err := s.store.PostStats(ctx, RecentPostsLimit)
	if err != nil {
		return nil, fmt.Errorf("post stats: %w", err)
	}
	return stats, nil
}

// afterWrite refreshes the search index and announces stale paths.
// Failures here never undo the committed write.
func (s *PostService) afterWrite(ctx context.Context, post *domain.Post, oldSlug string) {
	if s.indexer != nil {
		if err := s.indexer.IndexPost(ctx, post); err != nil {
			s.logger.Warn("failed to index post", "post_id", post.ID, "error", err)
		}
	}
	s.invalidator.Invalidate(ctx, postPaths(post.Slug, oldSlug)...)
}

// resolveLinks turns category and tag references (ids or slugs) into ids.
// A nil reference list stays nil so the relation is left untouched.
func (s *PostService) resolveLinks(ctx context.Context, categoryRefs, tagRefs []string) (store.PostLinks, error) {
	var links store.PostLinks

	if categoryRefs != nil {
		ids, missing, err := s.store.ResolveCategoryRefs(ctx, categoryRefs)
		if err != nil {
			return links, fmt.Errorf("resolve categories: %w", err)
		}
		if len(missing) > 0 {
			return links, domainerrors.InvalidField("category_ids", "unknown category: "+strings.Join(missing, ", "))
		}
		links.CategoryIDs = ids
	}

	if tagRefs != nil {
		ids, missing, err := s.store.ResolveTagRefs(ctx, tagRefs)
		if err != nil {
			return links, fmt.Errorf("resolve tags: %w", err)
		}
		if len(missing) > 0 {
			return links, domainerrors.InvalidField("tag_ids", "unknown tag: "+strings.Join(missing, ", "))
		}
		links.TagIDs = ids
	}

	return links, nil
}

func (s *PostService) mapStoreError(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("Post not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflict("A post with this slug already exists")
	case errors.Is(err, store.ErrVersionMismatch):
		return domainerrors.Conflict("Post was changed by someone else; reload and try again")
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.Validation("Post references an author, category or tag that no longer exists")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// postSlug normalizes the requested slug, deriving it from title when empty.
func postSlug(requested, title string) (string, error) {
	source := strings.TrimSpace(requested)
	if source == "" {
		source = title
	}
	slug := util.Slugify(source)
	if slug == "" {
		return "", domainerrors.InvalidField("slug", "must contain at least one letter or digit")
	}
	return slug, nil
}

func normalizeBody(body, format string) (string, error) {
	if format != BodyFormatHTML {
		return body, nil
	}
	md, err := util.HTMLToMarkdown(body)
	if err != nil {
		return "", domainerrors.InvalidField("body", "could not be converted from HTML")
	}
	return md, nil
}

// checkSchedule requires a future publish_at for scheduled posts.
func checkSchedule(status domain.PostStatus, publishAt *time.Time, now time.Time) error {
	if status != domain.PostStatusScheduled {
		return nil
	}
	if publishAt == nil || !publishAt.After(now) {
		return domainerrors.InvalidField("publish_at", "must be in the future for scheduled posts")
	}
	return nil
}

func pageParams(p ListPostsParams) store.PageParams {
	pp := store.PageParams{Page: p.Page, Limit: p.Limit}
	pp.Validate()
	return pp
}
