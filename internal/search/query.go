package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a post search.
type SearchParams struct {
	Query string

	// VisibleAt restricts hits to PUBLISHED posts with published_at <= VisibleAt.
	// Callers still re-check each hydrated post.
	VisibleAt *time.Time

	CategorySlug string
	TagSlug      string

	Limit  int
	Offset int

	IncludeFacets bool
	Highlight     bool
}

// SearchResult is one page of hits.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets"`
}

// SearchHit is a single matching post.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// SearchFacets holds term counts over the hits.
type SearchFacets struct {
	Categories []FacetCount `json:"categories,omitempty"`
	Tags       []FacetCount `json:"tags,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query and returns hits ordered by relevance.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "-published_at"})
	req.Fields = []string{"id", "title", "slug"}

	if params.IncludeFacets {
		req.AddFacet("categories", bleve.NewFacetRequest("categories", 20))
		req.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
	}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("excerpt")
	}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if sl, ok := hit.Fields["slug"].(string); ok {
			h.Slug = sl
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					h.Highlights[field] = fragments[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(res)
	}

	return result, nil
}

// buildSearchQuery ANDs the text query with the visibility and taxonomy filters.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if q := strings.TrimSpace(params.Query); q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		excerptMatch := bleve.NewMatchQuery(q)
		excerptMatch.SetField("excerpt")
		excerptMatch.SetBoost(1.5)

		bodyMatch := bleve.NewMatchQuery(q)
		bodyMatch.SetField("body")

		// Typo tolerance on titles.
		fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, excerptMatch, bodyMatch, fuzzy}

		if len(q) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(q))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.VisibleAt != nil {
		status := bleve.NewTermQuery("PUBLISHED")
		status.SetField("status")

		lo := 1.0
		hi := float64(params.VisibleAt.UnixMilli())
		inclusive := true
		published := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
		published.SetField("published_at")

		queries = append(queries, status, published)
	}

	if params.CategorySlug != "" {
		tq := bleve.NewTermQuery(params.CategorySlug)
		tq.SetField("categories")
		queries = append(queries, tq)
	}
	if params.TagSlug != "" {
		tq := bleve.NewTermQuery(params.TagSlug)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if f, ok := result.Facets["categories"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	if f, ok := result.Facets["tags"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			facets.Tags = append(facets.Tags, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}
