package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/service"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns a page of visible posts, newest first",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPostBySlug",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{slug}",
		Summary:     "Get post",
		Description: "Returns a visible post by slug, with resolved SEO metadata",
		Tags:        []string{"Posts"},
	}, s.handleGetPostBySlug)
}

// === DTOs ===

// ListPostsInput contains parameters for listing public posts.
type ListPostsInput struct {
	dto.PaginationParams
	Search   string `query:"search" doc:"Case-insensitive substring match on title, body and excerpt"`
	Category string `query:"category" doc:"Category slug"`
	Tag      string `query:"tag" doc:"Tag slug"`
}

// PostListOutput wraps a page of posts for Huma.
type PostListOutput struct {
	Body dto.ListResponse[dto.PostResponse]
}

// GetPostBySlugInput contains parameters for fetching a post by slug.
type GetPostBySlugInput struct {
	dto.SlugParam
}

// PostOutput wraps a single post for Huma.
type PostOutput struct {
	Body dto.PostResponse
}

// === Handlers ===

func (s *Server) handleListPosts(ctx context.Context, input *ListPostsInput) (*PostListOutput, error) {
	page, err := s.services.Post.List(ctx, nil, service.ListPostsParams{
		Page:     input.Page,
		Limit:    s.pageLimit(input.Limit),
		Search:   input.Search,
		Category: input.Category,
		Tag:      input.Tag,
	})
	if err != nil {
		return nil, err
	}

	return &PostListOutput{Body: dto.NewListResponse(page, dto.PostSummary)}, nil
}

func (s *Server) handleGetPostBySlug(ctx context.Context, input *GetPostBySlugInput) (*PostOutput, error) {
	post, err := s.services.Post.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domainerrors.NotFound("Post not found")
	}

	return &PostOutput{Body: dto.PostFromDomain(post, true)}, nil
}
