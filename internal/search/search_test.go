package search

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pressroom/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

func testPost(id, title string, status domain.PostStatus, publishedAt *time.Time) *domain.Post {
	return &domain.Post{
		Entity:      domain.Entity{ID: id, UpdatedAt: time.Now()},
		Title:       title,
		Slug:        id,
		Excerpt:     "An excerpt about " + title,
		Body:        "Body of " + title,
		Status:      status,
		PublishedAt: publishedAt,
		Author:      &domain.User{DisplayName: "Admin User"},
		Categories:  []*domain.Category{{Slug: "web-development"}},
		Tags:        []*domain.Tag{{Slug: "react"}},
	}
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewSearchIndex_ReopensExisting(t *testing.T) {
	tmpDir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	require.NoError(t, index.IndexPost(context.Background(), testPost("post-1", "Hello", domain.PostStatusDraft, nil)))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: tmpDir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexAndDelete(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, index.IndexDocuments([]*PostDocument{
		PostToDocument(testPost("post-1", "One", domain.PostStatusDraft, nil)),
		PostToDocument(testPost("post-2", "Two", domain.PostStatusDraft, nil)),
		PostToDocument(testPost("post-3", "Three", domain.PostStatusDraft, nil)),
	}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	require.NoError(t, index.DeletePost(ctx, "post-2"))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSearchIndex_SearchRespectsVisibility(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	for _, p := range []*domain.Post{
		testPost("post-visible", "Getting Started with React", domain.PostStatusPublished, &past),
		testPost("post-draft", "React Drafts", domain.PostStatusDraft, nil),
		testPost("post-future", "React Futures", domain.PostStatusPublished, &future),
	} {
		require.NoError(t, index.IndexPost(ctx, p))
	}

	all, err := index.Search(ctx, SearchParams{Query: "react"})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), all.Total)

	visible, err := index.Search(ctx, SearchParams{Query: "react", VisibleAt: &now, IncludeFacets: true})
	require.NoError(t, err)
	require.Len(t, visible.Hits, 1)
	assert.Equal(t, "post-visible", visible.Hits[0].ID)
	assert.Equal(t, "Getting Started with React", visible.Hits[0].Title)
	require.NotEmpty(t, visible.Facets.Tags)
	assert.Equal(t, "react", visible.Facets.Tags[0].Value)
}

func TestSearchIndex_SearchByCategory(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()
	ctx := context.Background()

	tagged := testPost("post-1", "Typed APIs", domain.PostStatusDraft, nil)
	other := testPost("post-2", "Typed Styles", domain.PostStatusDraft, nil)
	other.Categories = []*domain.Category{{Slug: "design"}}
	require.NoError(t, index.IndexPost(ctx, tagged))
	require.NoError(t, index.IndexPost(ctx, other))

	res, err := index.Search(ctx, SearchParams{Query: "typed", CategorySlug: "design"})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "post-2", res.Hits[0].ID)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	require.NoError(t, index.IndexPost(context.Background(), testPost("post-1", "One", domain.PostStatusDraft, nil)))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestPostToDocument(t *testing.T) {
	published := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := PostToDocument(testPost("post-1", "Hello", domain.PostStatusPublished, &published))

	assert.Equal(t, "PUBLISHED", doc.Status)
	assert.Equal(t, published.UnixMilli(), doc.PublishedAt)
	assert.Equal(t, []string{"web-development"}, doc.Categories)
	assert.Equal(t, "Admin User", doc.Author)

	m := PostToDocument(testPost("post-2", "Draft", domain.PostStatusDraft, nil)).ToMap()
	_, hasPublished := m["published_at"]
	assert.False(t, hasPublished, "drafts carry no published_at")
}
