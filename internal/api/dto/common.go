// Package dto provides request and response types for the pressroom API.
// These types are used by huma to generate OpenAPI documentation and perform validation.
package dto

import "github.com/listenupapp/pressroom/internal/store"

// ListResponse is a paginated list response.
type ListResponse[T any] struct {
	Items     []T `json:"items" doc:"Items on this page"`
	Total     int `json:"total" doc:"Total count across all pages"`
	Page      int `json:"page" doc:"Current page number"`
	Limit     int `json:"limit" doc:"Items per page"`
	PageCount int `json:"page_count" doc:"Number of pages, ceil(total/limit)"`
}

// NewListResponse converts a store page, mapping each item with fn.
func NewListResponse[S, T any](page *store.Page[S], fn func(S) T) ListResponse[T] {
	items := make([]T, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return ListResponse[T]{
		Items:     items,
		Total:     page.Total,
		Page:      page.Page,
		Limit:     page.Limit,
		PageCount: page.PageCount,
	}
}

// PaginationParams defines common pagination query parameters.
// Limits above 100 are clamped rather than rejected.
type PaginationParams struct {
	Page  int `query:"page" minimum:"1" doc:"Page number (default 1)"`
	Limit int `query:"limit" minimum:"1" doc:"Items per page (default 12, max 100)"`
}

// IDParam is a path parameter for resource IDs.
type IDParam struct {
	ID string `path:"id" doc:"Resource identifier"`
}

// SlugParam is a path parameter for public slugs.
type SlugParam struct {
	Slug string `path:"slug" doc:"URL slug"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for huma.
type MessageOutput struct {
	Body MessageResponse
}
