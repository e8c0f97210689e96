package dto

import (
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
)

// SEOResponse carries resolved metadata with fallbacks applied.
type SEOResponse struct {
	Title       string `json:"title" doc:"meta_title, or the post title"`
	Description string `json:"description" doc:"meta_description, or the excerpt"`
	Canonical   string `json:"canonical" doc:"canonical_url, or /blog/<slug>"`
}

// TaxonomyRef is a category or tag attached to a post.
type TaxonomyRef struct {
	ID   string `json:"id" doc:"ID"`
	Name string `json:"name" doc:"Display name"`
	Slug string `json:"slug" doc:"URL slug"`
}

// PostResponse is a post as the API exposes it.
type PostResponse struct {
	ID              string          `json:"id" doc:"Post ID"`
	Title           string          `json:"title" doc:"Title"`
	Slug            string          `json:"slug" doc:"URL slug"`
	Excerpt         string          `json:"excerpt" doc:"Short summary"`
	Body            string          `json:"body,omitempty" doc:"Markdown body; omitted in lists"`
	CoverImage      string          `json:"cover_image,omitempty" doc:"Cover image URL"`
	Status          string          `json:"status" enum:"DRAFT,PUBLISHED,SCHEDULED" doc:"Workflow status"`
	PublishedAt     *time.Time      `json:"published_at,omitempty" doc:"When the post became public"`
	PublishAt       *time.Time      `json:"publish_at,omitempty" doc:"Planned publication time for scheduled posts"`
	ReadingTime     int             `json:"reading_time" doc:"Estimated minutes to read"`
	MetaTitle       string          `json:"meta_title,omitempty" doc:"SEO title override"`
	MetaDescription string          `json:"meta_description,omitempty" doc:"SEO description override"`
	CanonicalURL    string          `json:"canonical_url,omitempty" doc:"Canonical URL override"`
	SEO             SEOResponse     `json:"seo" doc:"Resolved SEO metadata"`
	Author          *AuthorResponse `json:"author,omitempty" doc:"Author"`
	Categories      []TaxonomyRef   `json:"categories" doc:"Categories"`
	Tags            []TaxonomyRef   `json:"tags" doc:"Tags"`
	Version         int             `json:"version" doc:"Optimistic lock version"`
	CreatedAt       time.Time       `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time       `json:"updated_at" doc:"Last update time"`
}

// PostFromDomain converts a domain post. withBody controls whether the
// markdown body is included.
func PostFromDomain(p *domain.Post, withBody bool) PostResponse {
	resp := PostResponse{
		ID:              p.ID,
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		CoverImage:      p.CoverImage,
		Status:          string(p.Status),
		PublishedAt:     p.PublishedAt,
		PublishAt:       p.PublishAt,
		ReadingTime:     p.ReadingTime,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		CanonicalURL:    p.CanonicalURL,
		SEO:             seoFor(p),
		Categories:      make([]TaxonomyRef, 0, len(p.Categories)),
		Tags:            make([]TaxonomyRef, 0, len(p.Tags)),
		Version:         p.Version,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if withBody {
		resp.Body = p.Body
	}
	if p.Author != nil {
		resp.Author = &AuthorResponse{
			ID:          p.Author.ID,
			DisplayName: p.Author.DisplayName,
			AvatarURL:   p.Author.AvatarURL,
		}
	}
	for _, c := range p.Categories {
		resp.Categories = append(resp.Categories, TaxonomyRef{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}
	for _, t := range p.Tags {
		resp.Tags = append(resp.Tags, TaxonomyRef{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return resp
}

// PostSummary converts a post for list views.
func PostSummary(p *domain.Post) PostResponse {
	return PostFromDomain(p, false)
}

func seoFor(p *domain.Post) SEOResponse {
	seo := SEOResponse{
		Title:       p.MetaTitle,
		Description: p.MetaDescription,
		Canonical:   p.CanonicalURL,
	}
	if seo.Title == "" {
		seo.Title = p.Title
	}
	if seo.Description == "" {
		seo.Description = p.Excerpt
	}
	if seo.Canonical == "" {
		seo.Canonical = p.PublicPath()
	}
	return seo
}

// PostStatsResponse is the admin dashboard summary.
type PostStatsResponse struct {
	Total     int            `json:"total" doc:"All posts"`
	Published int            `json:"published" doc:"Posts with status PUBLISHED"`
	Drafts    int            `json:"drafts" doc:"Posts with status DRAFT"`
	Scheduled int            `json:"scheduled" doc:"Posts with status SCHEDULED"`
	Recent    []PostResponse `json:"recent" doc:"Most recently created posts"`
}

// StatsFromDomain converts dashboard stats.
func StatsFromDomain(s *domain.PostStats) PostStatsResponse {
	recent := make([]PostResponse, len(s.Recent))
	for i, p := range s.Recent {
		recent[i] = PostSummary(p)
	}
	return PostStatsResponse{
		Total:     s.Total,
		Published: s.Published,
		Drafts:    s.Drafts,
		Scheduled: s.Scheduled,
		Recent:    recent,
	}
}
