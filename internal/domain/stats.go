package domain

// PostStats summarizes the post table for the admin dashboard.
type PostStats struct {
	Total     int     `json:"total"`
	Published int     `json:"published"`
	Drafts    int     `json:"drafts"`
	Scheduled int     `json:"scheduled"`
	Recent    []*Post `json:"recent"`
}
