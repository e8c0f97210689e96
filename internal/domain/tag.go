package domain

// Tag is a free-form label attached to posts.
type Tag struct {
	Entity
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int    `json:"post_count"` // visible posts only
}

// TagPath returns the public archive URL for a tag.
func TagPath(slug string) string {
	return "/tags/" + slug
}
