package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags",
		Summary:     "List tags",
		Description: "Returns all tags with visible post counts",
		Tags:        []string{"Tags"},
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTag",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/{slug}",
		Summary:     "Get tag archive",
		Description: "Returns a tag and its visible posts, newest first",
		Tags:        []string{"Tags"},
	}, s.handleGetTag)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/tags",
		Summary:       "Create tag",
		Description:   "Creates a tag (admin only)",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateTag",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/tags/{id}",
		Summary:     "Update tag",
		Description: "Updates a tag (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/tags/{id}",
		Summary:     "Delete tag",
		Description: "Deletes a tag and detaches it from posts (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)
}

// === DTOs ===

// ListTagsResponse contains all tags.
type ListTagsResponse struct {
	Tags []dto.TagResponse `json:"tags" doc:"Tags by name"`
}

// ListTagsOutput wraps the list tags response for Huma.
type ListTagsOutput struct {
	Body ListTagsResponse
}

// GetTagInput contains parameters for a tag archive.
type GetTagInput struct {
	dto.SlugParam
}

// TagArchiveResponse is a tag with its visible posts.
type TagArchiveResponse struct {
	Tag   dto.TagResponse    `json:"tag" doc:"Tag"`
	Posts []dto.PostResponse `json:"posts" doc:"Visible posts, newest first"`
}

// TagArchiveOutput wraps the archive for Huma.
type TagArchiveOutput struct {
	Body TagArchiveResponse
}

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name,omitempty" doc:"Tag name (required)"`
	Slug string `json:"slug,omitempty" doc:"URL slug; derived from the name when omitted"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateTagRequest
}

// UpdateTagRequest is the request body for updating a tag.
type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" doc:"Tag name"`
	Slug *string `json:"slug,omitempty" doc:"URL slug"`
}

// UpdateTagInput wraps the update tag request for Huma.
type UpdateTagInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body UpdateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
}

// TagOutput wraps the tag response for Huma.
type TagOutput struct {
	Body dto.TagResponse
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *struct{}) (*ListTagsOutput, error) {
	tags, err := s.services.Tag.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.TagResponse, len(tags))
	for i, t := range tags {
		resp[i] = dto.TagFromDomain(t)
	}
	return &ListTagsOutput{Body: ListTagsResponse{Tags: resp}}, nil
}

func (s *Server) handleGetTag(ctx context.Context, input *GetTagInput) (*TagArchiveOutput, error) {
	archive, err := s.services.Tag.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if archive == nil {
		return nil, domainerrors.NotFound("Tag not found")
	}

	return &TagArchiveOutput{
		Body: TagArchiveResponse{
			Tag:   dto.TagFromDomain(archive.Tag),
			Posts: dto.Posts(archive.Posts),
		},
	}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Tag.Create(ctx, user, service.CreateTagRequest{
		Name: input.Body.Name,
		Slug: input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: dto.TagFromDomain(t)}, nil
}

func (s *Server) handleUpdateTag(ctx context.Context, input *UpdateTagInput) (*TagOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	t, err := s.services.Tag.Update(ctx, user, input.ID, service.UpdateTagRequest{
		Name: input.Body.Name,
		Slug: input.Body.Slug,
	})
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: dto.TagFromDomain(t)}, nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*dto.MessageOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Tag.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Tag deleted"}}, nil
}
