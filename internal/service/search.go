package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/search"
	"github.com/listenupapp/pressroom/internal/store"
)

// MaxSearchLimit caps the page size of a search.
const MaxSearchLimit = 50

// SearchService bridges the search index with the data store. The index
// ranks; storage is the source of truth for what gets returned.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SearchPostsParams configures a public post search.
type SearchPostsParams struct {
	Query    string
	Category string // slug
	Tag      string // slug
	Limit    int
	Offset   int
}

// PostSearchResult holds visible matching posts in relevance order.
type PostSearchResult struct {
	Query      string
	Total      uint64
	TookMs     int64
	Posts      []*domain.Post
	Highlights map[string]map[string]string // post id -> field -> fragment
	Facets     search.SearchFacets
}

// Search runs a relevance search and returns only posts that are visible now.
func (s *SearchService) Search(ctx context.Context, params SearchPostsParams) (*PostSearchResult, error) {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		return nil, domainerrors.InvalidField("q", "is required")
	}
	if params.Limit <= 0 {
		params.Limit = store.DefaultPageLimit
	}
	if params.Limit > MaxSearchLimit {
		params.Limit = MaxSearchLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	now := s.now()
	res, err := s.index.Search(ctx, search.SearchParams{
		Query:         q,
		VisibleAt:     &now,
		CategorySlug:  params.Category,
		TagSlug:       params.Tag,
		Limit:         params.Limit,
		Offset:        params.Offset,
		IncludeFacets: true,
		Highlight:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	ids := make([]string, len(res.Hits))
	highlights := make(map[string]map[string]string)
	for i, hit := range res.Hits {
		ids[i] = hit.ID
		if len(hit.Highlights) > 0 {
			highlights[hit.ID] = hit.Highlights
		}
	}

	hydrated, err := s.store.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("hydrate search hits: %w", err)
	}

	// The index can lag behind storage, so every hit is checked again.
	posts := make([]*domain.Post, 0, len(hydrated))
	for _, p := range hydrated {
		if p.IsVisible(now) {
			posts = append(posts, p)
		}
	}

	total := res.Total
	if dropped := uint64(len(res.Hits) - len(posts)); dropped <= total {
		total -= dropped
	}

	return &PostSearchResult{
		Query:      q,
		Total:      total,
		TookMs:     res.TookMs,
		Posts:      posts,
		Highlights: highlights,
		Facets:     res.Facets,
	}, nil
}

// IndexPost indexes a single post. Call this when a post is created or updated.
func (s *SearchService) IndexPost(ctx context.Context, post *domain.Post) error {
	if err := s.index.IndexPost(ctx, post); err != nil {
		return fmt.Errorf("index post: %w", err)
	}
	s.logger.Debug("indexed post", "post_id", post.ID, "slug", post.Slug)
	return nil
}

// DeletePost removes a post from the index.
func (s *SearchService) DeletePost(ctx context.Context, postID string) error {
	return s.index.DeletePost(ctx, postID)
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the entire search index from storage.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	posts, err := s.store.FindPosts(ctx, store.PostFilter{}, 0)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}

	docs := make([]*search.PostDocument, 0, len(posts))
	for _, p := range posts {
		docs = append(docs, search.PostToDocument(p))
	}
	if len(docs) > 0 {
		if err := s.index.IndexDocuments(docs); err != nil {
			return fmt.Errorf("index posts: %w", err)
		}
	}

	s.logger.Info("reindex complete", "posts", len(docs))
	return nil
}

// ReindexIfEmpty rebuilds the index when it holds no documents, which is the
// case on first start and after the mapping version changed.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReindexAll(ctx)
}
