package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedRoutes(t *testing.T) {
	ts := setupTestServer(t)
	admin := ts.adminAuth(t)

	news := ts.createCategory(t, admin, "News")
	ts.createPost(t, admin, map[string]any{
		"title":        `Quotes "and" <tags>`,
		"excerpt":      "Fish & chips",
		"body":         "text",
		"status":       "PUBLISHED",
		"category_ids": []string{news.ID},
	})
	ts.createPost(t, admin, map[string]any{"title": "Hidden draft", "body": "text"})

	t.Run("rss", func(t *testing.T) {
		for _, path := range []string{"/feed.xml", "/rss"} {
			resp := ts.api.Get(path)
			require.Equal(t, http.StatusOK, resp.Code)
			assert.Equal(t, "application/xml; charset=utf-8", resp.Header().Get("Content-Type"))
			assert.NotEmpty(t, resp.Header().Get("Cache-Control"))

			body := resp.Body.String()
			assert.True(t, strings.HasPrefix(body, `<?xml version="1.0" encoding="UTF-8"?>`))
			assert.Contains(t, body, "<title>Quotes &quot;and&quot; &lt;tags&gt;</title>")
			assert.Contains(t, body, "<description>Fish &amp; chips</description>")
			assert.NotContains(t, body, "Hidden draft")
		}
	})

	t.Run("sitemap", func(t *testing.T) {
		resp := ts.api.Get("/sitemap.xml")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "application/xml")

		body := resp.Body.String()
		assert.Contains(t, body, "<loc>https://blog.example.com</loc>")
		assert.Contains(t, body, "<loc>https://blog.example.com/blog/quotes-and-tags</loc>")
		assert.Contains(t, body, "<loc>https://blog.example.com/categories/news</loc>")
		assert.NotContains(t, body, "hidden-draft")
	})

	t.Run("robots", func(t *testing.T) {
		resp := ts.api.Get("/robots.txt")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "text/plain; charset=utf-8", resp.Header().Get("Content-Type"))
		assert.Contains(t, resp.Body.String(), "Sitemap: https://blog.example.com/sitemap.xml")
	})
}
