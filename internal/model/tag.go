package model

type Tag struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Ctime       int64  `json:"ctime"`
}

// TagWithCount is a tag joined with its published post count.
type TagWithCount struct {
	Tag
	PostCount int `json:"post_count"`
}
