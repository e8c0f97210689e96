package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

func TestCreateAndGetCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestCategory(t, s, "cat-1", "Technology", "technology")
	c.Description = "All things tech"
	c.UpdatedAt = time.Now()
	if err := s.UpdateCategory(ctx, c); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	got, err := s.GetCategory(ctx, "cat-1")
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Technology" {
		t.Errorf("Name: got %q, want %q", got.Name, "Technology")
	}
	if got.Description != "All things tech" {
		t.Errorf("Description: got %q, want %q", got.Description, "All things tech")
	}

	bySlug, err := s.GetCategoryBySlug(ctx, "technology")
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	if bySlug.ID != "cat-1" {
		t.Errorf("ID: got %q, want %q", bySlug.ID, "cat-1")
	}
}

func TestCategory_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestCategory(t, s, "cat-1", "Tech", "tech")
	now := time.Now()
	dup := &domain.Category{Entity: domain.Entity{ID: "cat-2", CreatedAt: now, UpdatedAt: now}, Name: "Tech 2", Slug: "tech"}

	if err := s.CreateCategory(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("CreateCategory duplicate: got %v, want ErrAlreadyExists", err)
	}
}

func TestCategory_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.GetCategory(ctx, "cat-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetCategory: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteCategory(ctx, "cat-missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteCategory: got %v, want ErrNotFound", err)
	}
	missing := &domain.Category{Entity: domain.Entity{ID: "cat-missing"}, Name: "x", Slug: "x"}
	if err := s.UpdateCategory(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateCategory: got %v, want ErrNotFound", err)
	}
}

func TestListCategories_OrderAndVisibleCounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	makeTestCategory(t, s, "cat-z", "Zebra", "zebra")
	makeTestCategory(t, s, "cat-a", "Apple", "apple")

	past := time.Now().Add(-time.Hour)
	visible := makeTestPost("post-v", "visible", author.ID, domain.PostStatusPublished, &past)
	draft := makeTestPost("post-d", "draft", author.ID, domain.PostStatusDraft, nil)
	for _, p := range []*domain.Post{visible, draft} {
		if err := s.CreatePost(ctx, p, store.PostLinks{CategoryIDs: []string{"cat-a"}}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	categories, err := s.ListCategories(ctx, time.Now())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("ListCategories: got %d, want 2", len(categories))
	}
	if categories[0].Name != "Apple" || categories[1].Name != "Zebra" {
		t.Errorf("order: got %q, %q", categories[0].Name, categories[1].Name)
	}
	if categories[0].PostCount != 1 {
		t.Errorf("Apple PostCount: got %d, want 1 (drafts excluded)", categories[0].PostCount)
	}
	if categories[1].PostCount != 0 {
		t.Errorf("Zebra PostCount: got %d, want 0", categories[1].PostCount)
	}
}

func TestResolveCategoryRefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	makeTestCategory(t, s, "cat-1", "Tech", "tech")
	makeTestCategory(t, s, "cat-2", "Design", "design")

	ids, missing, err := s.ResolveCategoryRefs(ctx, []string{"tech", "cat-2", "cat-1", "nope"})
	if err != nil {
		t.Fatalf("ResolveCategoryRefs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "cat-1" || ids[1] != "cat-2" {
		t.Errorf("ids: got %v, want [cat-1 cat-2]", ids)
	}
	if len(missing) != 1 || missing[0] != "nope" {
		t.Errorf("missing: got %v, want [nope]", missing)
	}

	ids, missing, err = s.ResolveCategoryRefs(ctx, nil)
	if err != nil {
		t.Fatalf("ResolveCategoryRefs empty: %v", err)
	}
	if ids == nil || len(ids) != 0 || len(missing) != 0 {
		t.Errorf("empty refs: ids=%v missing=%v", ids, missing)
	}
}
