package model

// Post dates (CreatedAt/UpdatedAt/PublishedAt) are ISO-8601 strings;
// Ctime/Mtime are unix seconds for row bookkeeping.
type Post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Excerpt     string   `json:"excerpt"`
	Slug        string   `json:"slug"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Language    string   `json:"language"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	PublishedAt string   `json:"published_at,omitempty"`
	Ctime       int64    `json:"ctime"`
	Mtime       int64    `json:"mtime"`
	Tags        []string `json:"tags,omitempty"`
}
