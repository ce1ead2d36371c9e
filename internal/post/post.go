// AngelaMos | 2026
// post.go

package post

import (
	"time"
)

type Post struct {
	ID      int64     `db:"post_id"`
	HavenID int64     `db:"haven_id"`
	Content string    `db:"content"`
	Date    time.Time `db:"date"`
}

type CreatePostRequest struct {
	Content string `json:"content" validate:"required"`
}

type PostResponse struct {
	ID      int64     `json:"post_id"`
	HavenID int64     `json:"haven_id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type CreatePostResponse struct {
	Message string       `json:"message"`
	Post    PostResponse `json:"post"`
}

func ToPostResponse(p *Post) PostResponse {
	return PostResponse{
		ID:      p.ID,
		HavenID: p.HavenID,
		Content: p.Content,
		Date:    p.Date.UTC(),
	}
}
