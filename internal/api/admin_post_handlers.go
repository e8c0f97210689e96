package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	"github.com/listenupapp/pressroom/internal/service"
)

func (s *Server) registerAdminPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminListPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/posts",
		Summary:     "List posts (admin)",
		Description: "Returns a page of posts. Filtering by status requires the admin role.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminGetPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/posts/{id}",
		Summary:     "Get post (admin)",
		Description: "Returns any post the caller may edit, whatever its status",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/posts",
		Summary:       "Create post",
		Description:   "Creates a post authored by the caller",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePost",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/posts/{id}",
		Summary:     "Update post",
		Description: "Updates a post. Omitted fields are unchanged; category_ids and tag_ids replace the whole set.",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes a post",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPostStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/stats",
		Summary:     "Dashboard stats",
		Description: "Returns post counts by status and the most recent posts",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPostStats)
}

// === DTOs ===

// AdminListPostsInput contains parameters for the admin post list.
type AdminListPostsInput struct {
	Authorization string `header:"Authorization"`
	dto.PaginationParams
	Status   string `query:"status" doc:"DRAFT, PUBLISHED or SCHEDULED; omitted lists visible posts"`
	Search   string `query:"search" doc:"Case-insensitive substring match on title, body and excerpt"`
	Category string `query:"category" doc:"Category slug"`
	Tag      string `query:"tag" doc:"Tag slug"`
}

// AdminPostInput addresses a post by ID.
type AdminPostInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
}

// CreatePostRequest is the request body for creating a post. Field rules are
// enforced by the service after the caller is authorized.
type CreatePostRequest struct {
	Title           string     `json:"title,omitempty" doc:"Title (required, max 200)"`
	Slug            string     `json:"slug,omitempty" doc:"URL slug; derived from the title when omitted"`
	Excerpt         string     `json:"excerpt,omitempty" doc:"Short summary"`
	Body            string     `json:"body,omitempty" doc:"Post body (required)"`
	BodyFormat      string     `json:"body_format,omitempty" doc:"markdown (default) or html; html is converted to markdown"`
	CoverImage      string     `json:"cover_image,omitempty" doc:"Cover image URL"`
	Status          string     `json:"status,omitempty" doc:"DRAFT (default), PUBLISHED or SCHEDULED"`
	PublishedAt     *time.Time `json:"published_at,omitempty" doc:"Explicit publication time"`
	PublishAt       *time.Time `json:"publish_at,omitempty" doc:"Planned publication time; required for SCHEDULED"`
	MetaTitle       string     `json:"meta_title,omitempty" doc:"SEO title override"`
	MetaDescription string     `json:"meta_description,omitempty" doc:"SEO description override"`
	CanonicalURL    string     `json:"canonical_url,omitempty" doc:"Canonical URL override"`
	CategoryIDs     []string   `json:"category_ids,omitempty" doc:"Category IDs or slugs"`
	TagIDs          []string   `json:"tag_ids,omitempty" doc:"Tag IDs or slugs"`
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePostRequest
}

// UpdatePostRequest is the request body for updating a post.
type UpdatePostRequest struct {
	Title           *string    `json:"title,omitempty" doc:"Title"`
	Slug            *string    `json:"slug,omitempty" doc:"URL slug"`
	Excerpt         *string    `json:"excerpt,omitempty" doc:"Short summary"`
	Body            *string    `json:"body,omitempty" doc:"Post body"`
	BodyFormat      string     `json:"body_format,omitempty" doc:"markdown (default) or html"`
	CoverImage      *string    `json:"cover_image,omitempty" doc:"Cover image URL"`
	Status          *string    `json:"status,omitempty" doc:"DRAFT, PUBLISHED or SCHEDULED"`
	PublishedAt     *time.Time `json:"published_at,omitempty" doc:"Explicit publication time"`
	PublishAt       *time.Time `json:"publish_at,omitempty" doc:"Planned publication time"`
	MetaTitle       *string    `json:"meta_title,omitempty" doc:"SEO title override"`
	MetaDescription *string    `json:"meta_description,omitempty" doc:"SEO description override"`
	CanonicalURL    *string    `json:"canonical_url,omitempty" doc:"Canonical URL override"`
	CategoryIDs     *[]string  `json:"category_ids,omitempty" doc:"Replaces all categories; [] clears them"`
	TagIDs          *[]string  `json:"tag_ids,omitempty" doc:"Replaces all tags; [] clears them"`
	ExpectedVersion *int       `json:"expected_version,omitempty" doc:"Reject the update if the post has moved past this version"`
}

// UpdatePostInput wraps the update post request for Huma.
type UpdatePostInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body UpdatePostRequest
}

// PostStatsOutput wraps dashboard stats for Huma.
type PostStatsOutput struct {
	Body dto.PostStatsResponse
}

// === Handlers ===

func (s *Server) handleAdminListPosts(ctx context.Context, input *AdminListPostsInput) (*PostListOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Post.List(ctx, user, service.ListPostsParams{
		Page:     input.Page,
		Limit:    input.Limit,
		Status:   input.Status,
		Search:   input.Search,
		Category: input.Category,
		Tag:      input.Tag,
	})
	if err != nil {
		return nil, err
	}

	return &PostListOutput{Body: dto.NewListResponse(page, dto.PostSummary)}, nil
}

func (s *Server) handleAdminGetPost(ctx context.Context, input *AdminPostInput) (*PostOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Post.GetByID(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: dto.PostFromDomain(post, true)}, nil
}

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	b := input.Body
	post, err := s.services.Post.Create(ctx, user, service.CreatePostRequest{
		Title:           b.Title,
		Slug:            b.Slug,
		Excerpt:         b.Excerpt,
		Body:            b.Body,
		BodyFormat:      b.BodyFormat,
		CoverImage:      b.CoverImage,
		Status:          b.Status,
		PublishedAt:     b.PublishedAt,
		PublishAt:       b.PublishAt,
		MetaTitle:       b.MetaTitle,
		MetaDescription: b.MetaDescription,
		CanonicalURL:    b.CanonicalURL,
		CategoryIDs:     b.CategoryIDs,
		TagIDs:          b.TagIDs,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: dto.PostFromDomain(post, true)}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	b := input.Body
	req := service.UpdatePostRequest{
		Title:           b.Title,
		Slug:            b.Slug,
		Excerpt:         b.Excerpt,
		Body:            b.Body,
		BodyFormat:      b.BodyFormat,
		CoverImage:      b.CoverImage,
		Status:          b.Status,
		PublishedAt:     b.PublishedAt,
		PublishAt:       b.PublishAt,
		MetaTitle:       b.MetaTitle,
		MetaDescription: b.MetaDescription,
		CanonicalURL:    b.CanonicalURL,
		ExpectedVersion: b.ExpectedVersion,
	}
	// A present list, even an empty one, replaces the set.
	if b.CategoryIDs != nil {
		req.CategoryIDs = nonNil(*b.CategoryIDs)
	}
	if b.TagIDs != nil {
		req.TagIDs = nonNil(*b.TagIDs)
	}

	post, err := s.services.Post.Update(ctx, user, input.ID, req)
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: dto.PostFromDomain(post, true)}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *AdminPostInput) (*dto.MessageOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Post.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Post deleted"}}, nil
}

func (s *Server) handleGetPostStats(ctx context.Context, input *AuthenticatedInput) (*PostStatsOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Post.Stats(ctx, user)
	if err != nil {
		return nil, err
	}

	return &PostStatsOutput{Body: dto.StatsFromDomain(stats)}, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
