package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/pressroom/internal/errors"
)

func TestCategoryService_CRUD(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.categories.Create(ctx, env.member, CreateCategoryRequest{Name: "Tech"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	_, err = env.categories.Create(ctx, nil, CreateCategoryRequest{Name: "Tech"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	tech, err := env.categories.Create(ctx, env.admin, CreateCategoryRequest{Name: "Web Development", Description: "All things web"})
	require.NoError(t, err)
	assert.Equal(t, "web-development", tech.Slug)
	assert.Equal(t, []string{PathBlog, PathCategories}, env.invalidator.last())

	_, err = env.categories.Create(ctx, env.admin, CreateCategoryRequest{Name: "Web development"})
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = env.categories.Create(ctx, env.admin, CreateCategoryRequest{Name: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	updated, err := env.categories.Update(ctx, env.admin, tech.ID, UpdateCategoryRequest{Name: ptr("Web"), Slug: ptr("web")})
	require.NoError(t, err)
	assert.Equal(t, "Web", updated.Name)
	assert.Equal(t, "web", updated.Slug)
	assert.Equal(t, "All things web", updated.Description)

	_, err = env.categories.Update(ctx, env.admin, "cat-missing", UpdateCategoryRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = env.categories.Create(ctx, env.admin, CreateCategoryRequest{Name: "Design"})
	require.NoError(t, err)

	list, err := env.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Design", list[0].Name)
	assert.Equal(t, "Web", list[1].Name)

	require.NoError(t, env.categories.Delete(ctx, env.admin, tech.ID))
	assert.ErrorIs(t, env.categories.Delete(ctx, env.admin, tech.ID), domainerrors.ErrNotFound)
}

func TestCategoryService_ArchiveShowsVisiblePostsOnly(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.categories.Create(ctx, env.admin, CreateCategoryRequest{Name: "Tech"})
	require.NoError(t, err)

	_, err = env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Older", Body: "x", Status: "PUBLISHED", CategoryIDs: []string{"tech"}})
	require.NoError(t, err)
	env.advance(time.Hour)
	_, err = env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Newer", Body: "x", Status: "PUBLISHED", CategoryIDs: []string{"tech"}})
	require.NoError(t, err)
	_, err = env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Draft", Body: "x", CategoryIDs: []string{"tech"}})
	require.NoError(t, err)

	archive, err := env.categories.GetBySlug(ctx, "tech")
	require.NoError(t, err)
	require.NotNil(t, archive)
	require.Len(t, archive.Posts, 2)
	assert.Equal(t, "Newer", archive.Posts[0].Title)
	assert.Equal(t, "Older", archive.Posts[1].Title)

	list, err := env.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].PostCount)

	missing, err := env.categories.GetBySlug(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTagService_CRUD(t *testing.T) {
	env := setupServiceTest(t)
	ctx := context.Background()

	_, err := env.tags.Create(ctx, env.member, CreateTagRequest{Name: "Go"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	goTag, err := env.tags.Create(ctx, env.admin, CreateTagRequest{Name: "Go"})
	require.NoError(t, err)
	assert.Equal(t, "go", goTag.Slug)
	assert.Equal(t, []string{PathBlog, PathTags}, env.invalidator.last())

	post, err := env.posts.Create(ctx, env.admin, CreatePostRequest{Title: "Tagged", Body: "x", Status: "PUBLISHED", TagIDs: []string{"go"}})
	require.NoError(t, err)

	archive, err := env.tags.GetBySlug(ctx, "go")
	require.NoError(t, err)
	require.NotNil(t, archive)
	require.Len(t, archive.Posts, 1)
	assert.Equal(t, post.ID, archive.Posts[0].ID)

	renamed, err := env.tags.Update(ctx, env.admin, goTag.ID, UpdateTagRequest{Name: ptr("Golang"), Slug: ptr("golang")})
	require.NoError(t, err)
	assert.Equal(t, "golang", renamed.Slug)

	require.NoError(t, env.tags.Delete(ctx, env.admin, goTag.ID))

	got, err := env.posts.GetByID(ctx, env.admin, post.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags, "links cascade with the tag")
}
