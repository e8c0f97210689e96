package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenupapp/pressroom/internal/feed"
	"github.com/listenupapp/pressroom/internal/store"
)

// FeedService renders the syndication documents from visible content.
type FeedService struct {
	store    store.Store
	site     feed.Site
	feedSize int
	logger   *slog.Logger
	now      func() time.Time
}

// NewFeedService creates a new feed service.
func NewFeedService(store store.Store, site feed.Site, feedSize int, logger *slog.Logger) *FeedService {
	if feedSize <= 0 {
		feedSize = feed.DefaultSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{
		store:    store,
		site:     site,
		feedSize: feedSize,
		logger:   logger,
		now:      time.Now,
	}
}

// RSS renders the feed of the latest visible posts.
func (s *FeedService) RSS(ctx context.Context) ([]byte, error) {
	now := s.now()
	posts, err := s.store.FindPosts(ctx, store.Visible(now), s.feedSize)
	if err != nil {
		return nil, fmt.Errorf("load feed posts: %w", err)
	}
	return feed.RSS(s.site, feed.ItemsFromPosts(s.site, posts), now), nil
}

// Sitemap renders the sitemap of static pages, visible posts and categories.
func (s *FeedService) Sitemap(ctx context.Context) ([]byte, error) {
	now := s.now()
	posts, err := s.store.FindPosts(ctx, store.Visible(now), 0)
	if err != nil {
		return nil, fmt.Errorf("load sitemap posts: %w", err)
	}
	categories, err := s.store.ListCategories(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load sitemap categories: %w", err)
	}
	return feed.Sitemap(feed.SiteURLs(s.site, posts, categories, now))
}

// Robots renders robots.txt.
func (s *FeedService) Robots() string {
	return feed.Robots(s.site)
}

// Site returns the configured site description.
func (s *FeedService) Site() feed.Site {
	return s.site
}
