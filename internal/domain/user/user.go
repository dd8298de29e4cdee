package user

import (
	"errors"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Bio          string    `json:"bio"`
	ProfilePic   string    `json:"profilePic"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("user not found")

// email uniqueness is enforced by the store's unique constraint
var ErrEmailTaken = errors.New("email already in use")

type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=3"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
	Bio        string `json:"bio" binding:"omitempty"`
	ProfilePic string `json:"profilePic" binding:"omitempty,url"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// All fields optional: this is a partial update. Nil means "leave as is".
// Email is deliberately absent, it is immutable after registration.
type UpdateProfileRequest struct {
	Name       *string `json:"name" binding:"omitempty,min=3"`
	Bio        *string `json:"bio" binding:"omitempty"`
	ProfilePic *string `json:"profilePic" binding:"omitempty,url"`
}

// Empty reports whether a partial update would change nothing.
func (r UpdateProfileRequest) Empty() bool {
	return r.Name == nil && r.Bio == nil && r.ProfilePic == nil
}
