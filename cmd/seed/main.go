// Package main provides a tool to seed the database with demo content.
//
// It creates an admin, a handful of categories and tags, and a mix of
// published and draft posts. Running it twice is safe: anything whose slug
// already exists is skipped.
//
// Usage:
//
//	DATA_PATH=~/pressroom go run ./cmd/seed
//	DATA_PATH=~/pressroom go run ./cmd/seed --admin "idp|alice"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/listenupapp/pressroom/internal/config"
	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/search"
	"github.com/listenupapp/pressroom/internal/service"
	"github.com/listenupapp/pressroom/internal/store"
	"github.com/listenupapp/pressroom/internal/store/sqlite"
	"github.com/listenupapp/pressroom/internal/util"
)

var adminSubject = flag.String("admin", "seed|admin", "External subject of the seeded admin")

var categories = []service.CreateCategoryRequest{
	{Name: "Engineering", Description: "How we build things"},
	{Name: "Product", Description: "Launches and roadmaps"},
	{Name: "Design", Description: "Interfaces and systems"},
	{Name: "Culture", Description: "Life on the team"},
	{Name: "Tutorials", Description: "Step by step guides"},
	{Name: "Announcements"},
	{Name: "Opinion"},
}

var tags = []string{
	"go", "sqlite", "search", "http", "testing",
	"performance", "security", "ux", "hiring", "release",
}

type seedPost struct {
	title      string
	excerpt    string
	body       string
	published  bool
	daysAgo    int
	categories []string // slugs
	tags       []string // slugs
}

var posts = []seedPost{
	{"Introducing Pressroom", "A small publishing engine.", "Pressroom keeps **drafts** private until you publish them.", true, 30, []string{"announcements", "product"}, []string{"release"}},
	{"Full text search with Bleve", "Indexing posts for fast lookup.", "We index titles, excerpts and bodies, then hydrate hits from storage.", true, 25, []string{"engineering"}, []string{"go", "search"}},
	{"Why we chose SQLite", "One file, zero operations.", "SQLite in WAL mode handles our read-heavy traffic comfortably.", true, 21, []string{"engineering", "opinion"}, []string{"sqlite", "performance"}},
	{"Designing the editor", "Markdown first, HTML welcome.", "Pasting HTML converts it to markdown before it is stored.", true, 18, []string{"design"}, []string{"ux"}},
	{"Writing table driven tests", "Patterns we keep reaching for.", "Table driven tests keep edge cases visible and cheap to add.", true, 14, []string{"tutorials", "engineering"}, []string{"go", "testing"}},
	{"Hardening the API", "Rate limits and token checks.", "Every session exchange is rate limited per client address.", true, 10, []string{"engineering"}, []string{"security", "http"}},
	{"We are hiring", "Come build with us.", "We are looking for engineers who enjoy small, sharp tools.", true, 7, []string{"culture", "announcements"}, []string{"hiring"}},
	{"Release notes for spring", "Scheduling, sitemaps and more.", "Sitemaps now list every category and published post.", true, 2, []string{"product"}, []string{"release"}},
	{"Caching at the edge", "Notes in progress.", "Draft: compare surrogate keys with path invalidation.", false, 0, []string{"engineering"}, []string{"performance", "http"}},
	{"Accessibility audit", "Findings so far.", "Draft: color contrast and focus order review.", false, 0, []string{"design"}, []string{"ux"}},
	{"Team offsite recap", "Photos pending.", "Draft: agenda, outcomes and photos.", false, 0, []string{"culture"}, nil},
	{"Profiling Go services", "pprof in practice.", "Draft: CPU and heap profiles on a live service.", false, 0, []string{"tutorials"}, []string{"go", "performance"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/pressroom")
	}

	fmt.Printf("Opening data directory at: %s\n", dataPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(config.DataConfig{Path: dataPath}.DatabasePath(), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()

	ctx := context.Background()

	searchService := service.NewSearchService(index, s, logger)
	identityService := service.NewIdentityService(s, []string{*adminSubject}, logger)
	categoryService := service.NewCategoryService(s, searchService, nil, logger)
	tagService := service.NewTagService(s, searchService, nil, logger)
	postService := service.NewPostService(s, searchService, nil, logger)

	admin, err := identityService.Resolve(ctx, &domain.Principal{
		ExternalID: *adminSubject,
		Email:      "editor@example.com",
		FirstName:  "Seed",
		LastName:   "Editor",
	})
	if err != nil {
		log.Fatalf("Failed to resolve admin: %v", err)
	}
	if !admin.IsAdmin() {
		log.Fatalf("User %s exists but is not an admin", admin.ID)
	}
	fmt.Printf("Admin: %s (%s)\n", admin.DisplayName, admin.ID)

	categoryIDs := make(map[string]string)
	for _, req := range categories {
		slug := util.Slugify(req.Name)
		if existing, err := s.GetCategoryBySlug(ctx, slug); err == nil {
			categoryIDs[slug] = existing.ID
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Fatalf("Failed to look up category %s: %v", slug, err)
		}

		c, err := categoryService.Create(ctx, admin, req)
		if err != nil {
			log.Fatalf("Failed to create category %s: %v", req.Name, err)
		}
		categoryIDs[c.Slug] = c.ID
		fmt.Printf("  + category %s\n", c.Slug)
	}

	tagIDs := make(map[string]string)
	for _, name := range tags {
		if existing, err := s.GetTagBySlug(ctx, name); err == nil {
			tagIDs[name] = existing.ID
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Fatalf("Failed to look up tag %s: %v", name, err)
		}

		t, err := tagService.Create(ctx, admin, service.CreateTagRequest{Name: name})
		if err != nil {
			log.Fatalf("Failed to create tag %s: %v", name, err)
		}
		tagIDs[t.Slug] = t.ID
		fmt.Printf("  + tag %s\n", t.Slug)
	}

	now := time.Now()
	created := 0
	for _, p := range posts {
		slug := util.Slugify(p.title)
		if _, err := s.GetPostBySlug(ctx, slug); err == nil {
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			log.Fatalf("Failed to look up post %s: %v", slug, err)
		}

		req := service.CreatePostRequest{
			Title:       p.title,
			Excerpt:     p.excerpt,
			Body:        p.body,
			Status:      string(domain.PostStatusDraft),
			CategoryIDs: lookup(categoryIDs, p.categories),
			TagIDs:      lookup(tagIDs, p.tags),
		}
		if p.published {
			publishedAt := now.AddDate(0, 0, -p.daysAgo)
			req.Status = string(domain.PostStatusPublished)
			req.PublishedAt = &publishedAt
		}

		post, err := postService.Create(ctx, admin, req)
		if err != nil {
			log.Fatalf("Failed to create post %q: %v", p.title, err)
		}
		created++
		fmt.Printf("  + post %s [%s]\n", post.Slug, post.Status)
	}

	fmt.Printf("\nDone! Created %d posts (%d defined).\n", created, len(posts))
}

func lookup(ids map[string]string, slugs []string) []string {
	out := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if id, ok := ids[slug]; ok {
			out = append(out, id)
		}
	}
	return out
}
