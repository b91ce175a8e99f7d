package domain

import "time"

// Post is a story written by an account. The slug is globally unique and
// never changes after creation, even when the title is edited. PublishedAt
// is set exactly once, at the first transition to published, and survives
// unpublishing.
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	Published   bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	AuthorID    string     `json:"authorId"`
}

// NewPost carries the input for creating a post. Publish defaults to true,
// matching the editor's publish-on-save behavior.
type NewPost struct {
	Title   string
	Excerpt string
	Content string
	Publish *bool
}

// PostUpdate carries a partial post edit. Nil fields were not provided and
// keep their current value.
type PostUpdate struct {
	Title   *string
	Excerpt *string
	Content *string
	Publish *bool
}

// PostView is a post decorated with reader-facing state: the author's public
// fields, the like count read at query time, and whether the viewing account
// has liked or saved it (false for anonymous viewers).
type PostView struct {
	Post
	AuthorName string `json:"authorName"`
	LikeCount  int    `json:"likeCount"`
	Liked      bool   `json:"liked"`
	Saved      bool   `json:"saved"`
}

// PostEvent is the payload published when a post is published or liked.
type PostEvent struct {
	PostID     string `json:"post_id"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name,omitempty"`
	LikeCount  int    `json:"like_count,omitempty"`
	Timestamp  string `json:"timestamp"`
}
