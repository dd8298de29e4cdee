package post

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(req CreatePostRequest, authorID string) Post {
	now := time.Now().UTC()

	text := ""

	if req.Text != nil {
		text = *req.Text
	}

	return Post{
		ID:        uuid.NewString(),
		Text:      text,
		Image:     req.Image,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
