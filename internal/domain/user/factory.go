package user

import (
	"time"

	"github.com/google/uuid"
)

// NewFromRegisterRequest builds a User from the incoming DTO. The caller
// supplies the password hash; the plaintext never reaches this package.
func NewFromRegisterRequest(req RegisterRequest, passwordHash string) User {
	now := time.Now().UTC()

	return User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Bio:          req.Bio,
		ProfilePic:   req.ProfilePic,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
