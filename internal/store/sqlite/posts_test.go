package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

func makeTestCategory(t *testing.T, s *Store, id, name, slug string) *domain.Category {
	t.Helper()
	now := time.Now()
	c := &domain.Category{Entity: domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now}, Name: name, Slug: slug}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return c
}

func makeTestTag(t *testing.T, s *Store, id, name, slug string) *domain.Tag {
	t.Helper()
	now := time.Now()
	tag := &domain.Tag{Entity: domain.Entity{ID: id, CreatedAt: now, UpdatedAt: now}, Name: name, Slug: slug}
	if err := s.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	return tag
}

func TestCreateAndGetPost(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	makeTestCategory(t, s, "cat-1", "Technology", "technology")
	makeTestTag(t, s, "tag-1", "react", "react")

	published := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	post := makeTestPost("post-1", "hello-world", author.ID, domain.PostStatusPublished, &published)
	post.MetaTitle = "Hello SEO"
	post.CoverImage = "https://img.example.com/cover.png"

	links := store.PostLinks{CategoryIDs: []string{"cat-1"}, TagIDs: []string{"tag-1"}}
	if err := s.CreatePost(ctx, post, links); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	got, err := s.GetPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Slug != "hello-world" {
		t.Errorf("Slug: got %q, want %q", got.Slug, "hello-world")
	}
	if got.Version != 1 {
		t.Errorf("Version: got %d, want 1", got.Version)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(published) {
		t.Errorf("PublishedAt: got %v, want %v", got.PublishedAt, published)
	}
	if got.PublishAt != nil {
		t.Errorf("PublishAt: got %v, want nil", got.PublishAt)
	}
	if got.MetaTitle != "Hello SEO" {
		t.Errorf("MetaTitle: got %q, want %q", got.MetaTitle, "Hello SEO")
	}
	if got.Author == nil || got.Author.ID != author.ID {
		t.Errorf("Author: got %+v, want %q", got.Author, author.ID)
	}
	if len(got.Categories) != 1 || got.Categories[0].Slug != "technology" {
		t.Errorf("Categories: got %+v, want [technology]", got.Categories)
	}
	if len(got.Tags) != 1 || got.Tags[0].Slug != "react" {
		t.Errorf("Tags: got %+v, want [react]", got.Tags)
	}

	bySlug, err := s.GetPostBySlug(ctx, "hello-world")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if bySlug.ID != "post-1" {
		t.Errorf("ID: got %q, want %q", bySlug.ID, "post-1")
	}

	if _, err := s.GetPostBySlug(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetPostBySlug missing: got %v, want ErrNotFound", err)
	}
}

func TestCreatePost_DuplicateSlugLeavesFirstUnchanged(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	first := makeTestPost("post-1", "same-slug", author.ID, domain.PostStatusDraft, nil)
	if err := s.CreatePost(ctx, first, store.PostLinks{}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	second := makeTestPost("post-2", "same-slug", author.ID, domain.PostStatusDraft, nil)
	second.Title = "Intruder"
	if err := s.CreatePost(ctx, second, store.PostLinks{}); !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("CreatePost duplicate: got %v, want ErrAlreadyExists", err)
	}

	got, err := s.GetPostBySlug(ctx, "same-slug")
	if err != nil {
		t.Fatalf("GetPostBySlug: %v", err)
	}
	if got.ID != "post-1" || got.Title != first.Title {
		t.Errorf("first post changed: got id=%q title=%q", got.ID, got.Title)
	}
}

func TestCreatePost_UnknownCategoryRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	post := makeTestPost("post-1", "orphan", author.ID, domain.PostStatusDraft, nil)

	err := s.CreatePost(ctx, post, store.PostLinks{CategoryIDs: []string{"cat-missing"}})
	if !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("CreatePost: got %v, want ErrInvalidReference", err)
	}

	if _, err := s.GetPost(ctx, "post-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("post should not exist after rollback: got %v", err)
	}
}

func TestUpdatePost_ReplacesLinksAndBumpsVersion(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	makeTestCategory(t, s, "cat-a", "Alpha", "alpha")
	makeTestCategory(t, s, "cat-b", "Beta", "beta")
	makeTestTag(t, s, "tag-a", "go", "go")

	post := makeTestPost("post-1", "linked", author.ID, domain.PostStatusDraft, nil)
	if err := s.CreatePost(ctx, post, store.PostLinks{CategoryIDs: []string{"cat-a"}, TagIDs: []string{"tag-a"}}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	// Replace categories, leave tags untouched.
	post.Title = "Linked, revised"
	if err := s.UpdatePost(ctx, post, store.PostLinks{CategoryIDs: []string{"cat-b"}}, nil); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if post.Version != 2 {
		t.Errorf("Version: got %d, want 2", post.Version)
	}

	got, err := s.GetPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if got.Title != "Linked, revised" {
		t.Errorf("Title: got %q", got.Title)
	}
	if len(got.Categories) != 1 || got.Categories[0].ID != "cat-b" {
		t.Errorf("Categories: got %+v, want [cat-b]", got.Categories)
	}
	if len(got.Tags) != 1 || got.Tags[0].ID != "tag-a" {
		t.Errorf("Tags: got %+v, want [tag-a] untouched", got.Tags)
	}

	// An empty, non-nil set clears the relation.
	if err := s.UpdatePost(ctx, post, store.PostLinks{TagIDs: []string{}}, nil); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	got, err = s.GetPost(ctx, "post-1")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags: got %d, want 0", len(got.Tags))
	}
}

func TestUpdatePost_VersionCheck(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	post := makeTestPost("post-1", "versioned", author.ID, domain.PostStatusDraft, nil)
	if err := s.CreatePost(ctx, post, store.PostLinks{}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	stale := 7
	if err := s.UpdatePost(ctx, post, store.PostLinks{}, &stale); !errors.Is(err, store.ErrVersionMismatch) {
		t.Errorf("UpdatePost stale: got %v, want ErrVersionMismatch", err)
	}

	current := 1
	if err := s.UpdatePost(ctx, post, store.PostLinks{}, &current); err != nil {
		t.Errorf("UpdatePost current: %v", err)
	}

	missing := makeTestPost("post-missing", "missing", author.ID, domain.PostStatusDraft, nil)
	if err := s.UpdatePost(ctx, missing, store.PostLinks{}, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdatePost missing: got %v, want ErrNotFound", err)
	}
}

func TestUpdatePost_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	for _, slug := range []string{"one", "two"} {
		if err := s.CreatePost(ctx, makeTestPost("post-"+slug, slug, author.ID, domain.PostStatusDraft, nil), store.PostLinks{}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	p, err := s.GetPost(ctx, "post-two")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	p.Slug = "one"
	if err := s.UpdatePost(ctx, p, store.PostLinks{}, nil); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("UpdatePost: got %v, want ErrAlreadyExists", err)
	}
}

func TestDeletePost_CascadesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	makeTestCategory(t, s, "cat-a", "Alpha", "alpha")
	post := makeTestPost("post-1", "doomed", author.ID, domain.PostStatusDraft, nil)
	if err := s.CreatePost(ctx, post, store.PostLinks{CategoryIDs: []string{"cat-a"}}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if err := s.DeletePost(ctx, "post-1"); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	var links int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM post_categories`).Scan(&links); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 0 {
		t.Errorf("post_categories: got %d rows, want 0", links)
	}

	if err := s.DeletePost(ctx, "post-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeletePost twice: got %v, want ErrNotFound", err)
	}
}

// TestListPosts_VisibleFilterMatchesDomainRule checks that the SQL filter
// returns exactly the posts domain.Visible accepts.
func TestListPosts_VisibleFilterMatchesDomainRule(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	instants := []*time.Time{
		nil,
		timePtr(now.Add(-72 * time.Hour)),
		timePtr(now.Add(-time.Millisecond)),
		timePtr(now),
		timePtr(now.Add(time.Millisecond)),
		timePtr(now.Add(72 * time.Hour)),
	}

	var all []*domain.Post
	for si, status := range domain.PostStatuses {
		for ii, at := range instants {
			p := makeTestPost(fmt.Sprintf("post-%d-%d", si, ii), fmt.Sprintf("p-%d-%d", si, ii), author.ID, status, at)
			if err := s.CreatePost(ctx, p, store.PostLinks{}); err != nil {
				t.Fatalf("CreatePost: %v", err)
			}
			all = append(all, p)
		}
	}

	want := map[string]bool{}
	for _, p := range all {
		if p.IsVisible(now) {
			want[p.ID] = true
		}
	}

	page, err := s.ListPosts(ctx, store.Visible(now), store.PageParams{Page: 1, Limit: 100})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Total != len(want) {
		t.Errorf("Total: got %d, want %d", page.Total, len(want))
	}
	for _, p := range page.Items {
		if !want[p.ID] {
			t.Errorf("post %s (%s, %v) returned but not visible", p.ID, p.Status, p.PublishedAt)
		}
	}

	// Newest publication first.
	for i := 1; i < len(page.Items); i++ {
		if page.Items[i-1].PublishedAt.Before(*page.Items[i].PublishedAt) {
			t.Errorf("order: %v before %v", page.Items[i-1].PublishedAt, page.Items[i].PublishedAt)
		}
	}
}

func TestListPosts_StatusFilterAndSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	past := time.Now().Add(-time.Hour)

	draft := makeTestPost("post-d", "draft", author.ID, domain.PostStatusDraft, nil)
	draft.Title = "Learning GOLANG"
	pub := makeTestPost("post-p", "pub", author.ID, domain.PostStatusPublished, &past)
	pub.Excerpt = "A golang primer"
	other := makeTestPost("post-o", "other", author.ID, domain.PostStatusPublished, &past)
	other.Body = "100% wildcard_literal"

	for _, p := range []*domain.Post{draft, pub, other} {
		if err := s.CreatePost(ctx, p, store.PostLinks{}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	status := domain.PostStatusDraft
	page, err := s.ListPosts(ctx, store.PostFilter{Status: &status}, store.PageParams{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "post-d" {
		t.Errorf("status filter: got total=%d", page.Total)
	}

	page, err = s.ListPosts(ctx, store.PostFilter{Search: "GoLang"}, store.PageParams{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Total != 2 {
		t.Errorf("search across title and excerpt: got %d, want 2", page.Total)
	}

	page, err = s.ListPosts(ctx, store.PostFilter{Search: "100%"}, store.PageParams{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Total != 1 || page.Items[0].ID != "post-o" {
		t.Errorf("literal percent: got total=%d", page.Total)
	}

	page, err = s.ListPosts(ctx, store.PostFilter{Search: "d_a"}, store.PageParams{})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("underscore must match literally: got %d", page.Total)
	}
}

func TestListPosts_SearchFoldsUnicodeCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	past := time.Now().Add(-time.Hour)

	post := makeTestPost("post-u", "uber-cafe", author.ID, domain.PostStatusPublished, &past)
	post.Title = "Über Café"
	post.Excerpt = "Straße notes"
	if err := s.CreatePost(ctx, post, store.PostLinks{}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	tests := []struct {
		search string
		want   int
	}{
		{"Über", 1},
		{"über", 1},
		{"ÜBER", 1},
		{"café", 1},
		{"CAFÉ", 1},
		{"strasse", 1},
		{"uber", 0},
	}
	for _, tt := range tests {
		page, err := s.ListPosts(ctx, store.PostFilter{Search: tt.search}, store.PageParams{})
		if err != nil {
			t.Fatalf("ListPosts(%q): %v", tt.search, err)
		}
		if page.Total != tt.want {
			t.Errorf("search %q: got %d, want %d", tt.search, page.Total, tt.want)
		}
	}
}

func TestListPosts_PagePastEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	past := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := makeTestPost(fmt.Sprintf("post-%d", i), fmt.Sprintf("slug-%d", i), author.ID, domain.PostStatusPublished, &past)
		if err := s.CreatePost(ctx, p, store.PostLinks{}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	page, err := s.ListPosts(ctx, store.Visible(time.Now()), store.PageParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(page.Items) != 2 || page.PageCount != 3 || page.Total != 5 {
		t.Errorf("page 2: items=%d pageCount=%d total=%d", len(page.Items), page.PageCount, page.Total)
	}

	page, err = s.ListPosts(ctx, store.Visible(time.Now()), store.PageParams{Page: 9, Limit: 2})
	if err != nil {
		t.Fatalf("ListPosts: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("past end: got %d items, want 0", len(page.Items))
	}
	if page.Total != 5 {
		t.Errorf("past end total: got %d, want 5", page.Total)
	}
}

func TestFindPosts_ByCategoryAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	makeTestCategory(t, s, "cat-a", "Alpha", "alpha")
	base := time.Now().Add(-24 * time.Hour)

	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		p := makeTestPost(fmt.Sprintf("post-%d", i), fmt.Sprintf("slug-%d", i), author.ID, domain.PostStatusPublished, &at)
		links := store.PostLinks{}
		if i%2 == 0 {
			links.CategoryIDs = []string{"cat-a"}
		}
		if err := s.CreatePost(ctx, p, links); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	filter := store.Visible(time.Now())
	filter.CategoryID = "cat-a"
	posts, err := s.FindPosts(ctx, filter, 0)
	if err != nil {
		t.Fatalf("FindPosts: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "post-2" || posts[1].ID != "post-0" {
		t.Errorf("FindPosts by category: got %d posts", len(posts))
	}

	posts, err = s.FindPosts(ctx, store.Visible(time.Now()), 3)
	if err != nil {
		t.Fatalf("FindPosts: %v", err)
	}
	if len(posts) != 3 || posts[0].ID != "post-3" {
		t.Errorf("FindPosts limit: got %d posts", len(posts))
	}
}

func TestGetPostsByIDs_PreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	for _, id := range []string{"post-a", "post-b", "post-c"} {
		if err := s.CreatePost(ctx, makeTestPost(id, id, author.ID, domain.PostStatusDraft, nil), store.PostLinks{}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	posts, err := s.GetPostsByIDs(ctx, []string{"post-c", "post-missing", "post-a"})
	if err != nil {
		t.Fatalf("GetPostsByIDs: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "post-c" || posts[1].ID != "post-a" {
		t.Errorf("GetPostsByIDs: got %d posts", len(posts))
	}
}

func TestPostStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.PostStats(ctx, 5)
	if err != nil {
		t.Fatalf("PostStats empty: %v", err)
	}
	if stats.Total != 0 || len(stats.Recent) != 0 {
		t.Errorf("empty stats: %+v", stats)
	}

	author := makeTestUser(t, s, "user-author", domain.RoleAdmin)
	past := time.Now().Add(-time.Hour)
	statuses := []domain.PostStatus{
		domain.PostStatusPublished, domain.PostStatusPublished,
		domain.PostStatusDraft, domain.PostStatusScheduled,
	}
	for i, st := range statuses {
		var at *time.Time
		if st == domain.PostStatusPublished {
			at = &past
		}
		p := makeTestPost(fmt.Sprintf("post-%d", i), fmt.Sprintf("slug-%d", i), author.ID, st, at)
		p.CreatedAt = past.Add(time.Duration(i) * time.Minute)
		if err := s.CreatePost(ctx, p, store.PostLinks{}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	stats, err = s.PostStats(ctx, 2)
	if err != nil {
		t.Fatalf("PostStats: %v", err)
	}
	if stats.Total != 4 || stats.Published != 2 || stats.Drafts != 1 || stats.Scheduled != 1 {
		t.Errorf("counts: %+v", stats)
	}
	if len(stats.Recent) != 2 || stats.Recent[0].ID != "post-3" {
		t.Errorf("recent: got %d posts", len(stats.Recent))
	}
}
