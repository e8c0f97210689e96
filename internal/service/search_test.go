package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/pressroom/internal/errors"
	"github.com/listenupapp/pressroom/internal/search"
)

func setupSearchTest(t *testing.T) (*testEnv, *SearchService) {
	t.Helper()
	env := setupServiceTest(t)

	index, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	svc := NewSearchService(index, env.store, nil)
	env.posts.indexer = svc
	env.categories.indexer = svc
	env.tags.indexer = svc
	return env, svc
}

func TestSearchService_ReturnsVisiblePostsOnly(t *testing.T) {
	env, svc := setupSearchTest(t)
	ctx := context.Background()
	svc.now = func() time.Time { return env.now }

	shown, err := env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Gardening Basics", Body: "Soil and seeds", Status: "PUBLISHED"})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Gardening Secrets", Body: "Unfinished"})
	require.NoError(t, err)

	res, err := svc.Search(ctx, SearchPostsParams{Query: "gardening"})
	require.NoError(t, err)
	require.Len(t, res.Posts, 1)
	assert.Equal(t, shown.ID, res.Posts[0].ID)
	assert.Equal(t, uint64(1), res.Total)
}

func TestSearchService_RechecksVisibilityAfterHydration(t *testing.T) {
	env, svc := setupSearchTest(t)
	ctx := context.Background()
	svc.now = func() time.Time { return env.now }

	post, err := env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Fleeting Thoughts", Body: "x", Status: "PUBLISHED"})
	require.NoError(t, err)

	// Unpublish behind the index's back.
	env.posts.indexer = nil
	_, err = env.posts.Update(ctx, env.admin, post.ID, UpdatePostRequest{Status: ptr("DRAFT")})
	require.NoError(t, err)

	res, err := svc.Search(ctx, SearchPostsParams{Query: "fleeting"})
	require.NoError(t, err)
	assert.Empty(t, res.Posts)
	assert.Equal(t, uint64(0), res.Total)
}

func TestSearchService_DeleteRemovesFromIndex(t *testing.T) {
	env, svc := setupSearchTest(t)
	ctx := context.Background()

	post, err := env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Ephemeral", Body: "x", Status: "PUBLISHED"})
	require.NoError(t, err)

	count, err := svc.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, env.posts.Delete(ctx, env.admin, post.ID))

	count, err = svc.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchService_ReindexIfEmpty(t *testing.T) {
	env, svc := setupSearchTest(t)
	ctx := context.Background()

	// Written without an indexer, so the index starts empty.
	env.posts.indexer = nil
	for _, title := range []string{"One", "Two", "Three"} {
		_, err := env.posts.Create(ctx, env.admin, CreatePostRequest{Title: title, Body: "x"})
		require.NoError(t, err)
	}

	require.NoError(t, svc.ReindexIfEmpty(ctx))
	count, err := svc.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchService_RequiresQuery(t *testing.T) {
	_, svc := setupSearchTest(t)

	_, err := svc.Search(context.Background(), SearchPostsParams{Query: "   "})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
