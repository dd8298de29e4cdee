package post

import (
	"errors"
	"time"
)

// Author is the minimal projection of the post's author that gets joined in
// at read time.
type Author struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ProfilePic string `json:"profilePic"`
}

type Post struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Image     string    `json:"image,omitempty"`
	AuthorID  string    `json:"-"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnerID satisfies the ownership predicate; only the author may delete.
func (p Post) OwnerID() string {
	return p.AuthorID
}

var ErrNotFound = errors.New("post not found")

// Text is a pointer so an absent field and an explicit empty string fail
// different rules: absence trips required, "" trips min.
type CreatePostRequest struct {
	Text  *string `json:"text" binding:"required,min=1"`
	Image string  `json:"image" binding:"omitempty,url"`
}
