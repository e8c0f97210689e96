package domain

// Category groups posts under an editorial section.
type Category struct {
	Entity
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	PostCount   int    `json:"post_count"` // visible posts only
}

// CategoryPath returns the public archive URL for a category.
func CategoryPath(slug string) string {
	return "/categories/" + slug
}
