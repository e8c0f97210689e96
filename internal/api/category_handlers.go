package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories with visible post counts",
		Tags:        []string{"Categories"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{slug}",
		Summary:     "Get category archive",
		Description: "Returns a category and its visible posts, newest first",
		Tags:        []string{"Categories"},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/categories",
		Summary:       "Create category",
		Description:   "Creates a category (admin only)",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/categories/{id}",
		Summary:     "Update category",
		Description: "Updates a category (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category and detaches it from posts (admin only)",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCategory)
}

// === DTOs ===

// ListCategoriesResponse contains all categories.
type ListCategoriesResponse struct {
	Categories []dto.CategoryResponse `json:"categories" doc:"Categories by name"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// GetCategoryInput contains parameters for a category archive.
type GetCategoryInput struct {
	dto.SlugParam
}

// CategoryArchiveResponse is a category with its visible posts.
type CategoryArchiveResponse struct {
	Category dto.CategoryResponse `json:"category" doc:"Category"`
	Posts    []dto.PostResponse   `json:"posts" doc:"Visible posts, newest first"`
}

// CategoryArchiveOutput wraps the archive for Huma.
type CategoryArchiveOutput struct {
	Body CategoryArchiveResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name        string `json:"name,omitempty" doc:"Category name (required)"`
	Slug        string `json:"slug,omitempty" doc:"URL slug; derived from the name when omitted"`
	Description string `json:"description,omitempty" doc:"Description"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCategoryRequest
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" doc:"Category name"`
	Slug        *string `json:"slug,omitempty" doc:"URL slug"`
	Description *string `json:"description,omitempty" doc:"Description"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
	Body UpdateCategoryRequest
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	dto.IDParam
}

// CategoryOutput wraps the category response for Huma.
type CategoryOutput struct {
	Body dto.CategoryResponse
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*ListCategoriesOutput, error) {
	categories, err := s.services.Category.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]dto.CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = dto.CategoryFromDomain(c)
	}
	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryArchiveOutput, error) {
	archive, err := s.services.Category.GetBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if archive == nil {
		return nil, domainerrors.NotFound("Category not found")
	}

	return &CategoryArchiveOutput{
		Body: CategoryArchiveResponse{
			Category: dto.CategoryFromDomain(archive.Category),
			Posts:    dto.Posts(archive.Posts),
		},
	}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Category.Create(ctx, user, service.CreateCategoryRequest{
		Name:        input.Body.Name,
		Slug:        input.Body.Slug,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: dto.CategoryFromDomain(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Category.Update(ctx, user, input.ID, service.UpdateCategoryRequest{
		Name:        input.Body.Name,
		Slug:        input.Body.Slug,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: dto.CategoryFromDomain(c)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*dto.MessageOutput, error) {
	user, err := s.currentUser(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Category.Delete(ctx, user, input.ID); err != nil {
		return nil, err
	}

	return &dto.MessageOutput{Body: dto.MessageResponse{Message: "Category deleted"}}, nil
}
