package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/pressroom/internal/api/dto"
	"github.com/listenupapp/pressroom/internal/search"
	"github.com/listenupapp/pressroom/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search posts",
		Description: "Full-text search across visible posts, ranked by relevance",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching posts.
type SearchInput struct {
	Query    string `query:"q" doc:"Search query"`
	Category string `query:"category" doc:"Restrict to a category slug"`
	Tag      string `query:"tag" doc:"Restrict to a tag slug"`
	Limit    int    `query:"limit" minimum:"0" doc:"Max results (default 20, capped at 50)"`
	Offset   int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
}

// SearchHitResult is a matching post with highlighted fragments.
type SearchHitResult struct {
	dto.PostResponse
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted fragments by field"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value" doc:"Facet value (slug)"`
	Count int    `json:"count" doc:"Number of matches"`
}

// SearchFacets contains facet counts for narrowing a search.
type SearchFacets struct {
	Categories []FacetCount `json:"categories" doc:"Category facets"`
	Tags       []FacetCount `json:"tags" doc:"Tag facets"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Normalized search query"`
	Total  int64             `json:"total" doc:"Total visible matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Matching posts in relevance order"`
	Facets SearchFacets      `json:"facets" doc:"Facet counts for filtering"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	s.logger.Debug("Search request received",
		"query", input.Query,
		"category", input.Category,
		"tag", input.Tag,
	)

	result, err := s.services.Search.Search(ctx, service.SearchPostsParams{
		Query:    input.Query,
		Category: input.Category,
		Tag:      input.Tag,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Search completed",
		"query", result.Query,
		"total", result.Total,
		"hits", len(result.Posts),
		"took_ms", result.TookMs,
	)

	resp := SearchResponse{
		Query:  result.Query,
		Total:  int64(result.Total), //nolint:gosec // post counts stay far below int64
		TookMs: result.TookMs,
		Hits:   make([]SearchHitResult, 0, len(result.Posts)),
		Facets: SearchFacets{
			Categories: facetCounts(result.Facets.Categories),
			Tags:       facetCounts(result.Facets.Tags),
		},
	}

	for _, p := range result.Posts {
		resp.Hits = append(resp.Hits, SearchHitResult{
			PostResponse: dto.PostSummary(p),
			Highlights:   result.Highlights[p.ID],
		})
	}

	return &SearchOutput{Body: resp}, nil
}

func facetCounts(in []search.FacetCount) []FacetCount {
	out := make([]FacetCount, len(in))
	for i, f := range in {
		out[i] = FacetCount{Value: f.Value, Count: f.Count}
	}
	return out
}
