package models

import "time"

// Post is authored by a single profile and referenced back from that
// profile's posts list. AuthorID is empty only while bootstrap is mid-flight;
// every post visible through the API carries its author.
type Post struct {
	ID        string    `json:"post_id" bson:"_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"post_content" bson:"post_content"`
	Likes     int       `json:"likes" bson:"likes"`
	Comments  []Comment `json:"comments" bson:"comments"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Comment lives inside its post document. Bootstrap-generated comments carry
// synthetic author ids with no matching profile; callers should not resolve
// them.
type Comment struct {
	ID        string    `json:"comment_id" bson:"comment_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Content   string    `json:"content" bson:"content"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type CreatePostRequest struct {
	Content string `json:"post_content" validate:"required"`
}

// UpdatePostRequest is a partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Content *string `json:"post_content"`
	Likes   *int    `json:"likes" validate:"omitempty,gte=0"`
}

func (r *UpdatePostRequest) IsEmpty() bool {
	return r.Content == nil && r.Likes == nil
}
