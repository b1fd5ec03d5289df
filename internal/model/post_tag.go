package model

type PostTag struct {
	PostID string `json:"post_id"`
	TagID  string `json:"tag_id"`
}
