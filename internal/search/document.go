// Package search provides full-text search over posts using Bleve.
package search

import (
	"github.com/listenupapp/pressroom/internal/domain"
)

// PostDocument is the denormalized form of a post stored in the index.
// Category and tag slugs are flattened in so a single query can filter on them.
type PostDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Excerpt     string   `json:"excerpt,omitempty"`
	Body        string   `json:"body,omitempty"`
	Author      string   `json:"author,omitempty"`
	Status      string   `json:"status"`
	Categories  []string `json:"categories,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PublishedAt int64    `json:"published_at,omitempty"` // Unix milliseconds, 0 when unpublished
	UpdatedAt   int64    `json:"updated_at"`
}

// PostToDocument converts a domain post into an index document.
func PostToDocument(p *domain.Post) *PostDocument {
	doc := &PostDocument{
		ID:        p.ID,
		Title:     p.Title,
		Slug:      p.Slug,
		Excerpt:   p.Excerpt,
		Body:      p.Body,
		Status:    string(p.Status),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
	if p.Author != nil {
		doc.Author = p.Author.DisplayName
	}
	if p.PublishedAt != nil {
		doc.PublishedAt = p.PublishedAt.UnixMilli()
	}
	for _, c := range p.Categories {
		doc.Categories = append(doc.Categories, c.Slug)
	}
	for _, t := range p.Tags {
		doc.Tags = append(doc.Tags, t.Slug)
	}
	return doc
}

// ToMap converts the document to the map form Bleve indexes, with
// lowercase keys matching the mapping.
func (d *PostDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"slug":       d.Slug,
		"status":     d.Status,
		"updated_at": float64(d.UpdatedAt),
	}
	if d.Excerpt != "" {
		m["excerpt"] = d.Excerpt
	}
	if d.Body != "" {
		m["body"] = d.Body
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.PublishedAt > 0 {
		m["published_at"] = float64(d.PublishedAt)
	}
	return m
}
