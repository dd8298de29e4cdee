package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/pulsefeed/internal/auth"
	"github.com/pulsefeed/pulsefeed/internal/domain/post"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
	"github.com/pulsefeed/pulsefeed/internal/utils"
)

type PostStore interface {
	Create(ctx context.Context, req post.CreatePostRequest, authorID string) (post.Post, error)
	ListFeed(ctx context.Context) ([]post.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]post.Post, error)
	GetByID(ctx context.Context, id string) (post.Post, error)
	Delete(ctx context.Context, id string) error
}

type PostsHandler struct {
	repo PostStore
}

func NewPostsHandler(repo PostStore) *PostsHandler {
	return &PostsHandler{repo: repo}
}

func (h *PostsHandler) CreatePost(ctx *gin.Context) {
	authorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthenticated(ctx, "Missing identity context")
		return
	}

	var req post.CreatePostRequest

	if !BindJSON(ctx, &req) {
		return
	}

	p, err := h.repo.Create(ctx.Request.Context(), req, authorID)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// Feed is public and unbounded, newest first.
func (h *PostsHandler) Feed(ctx *gin.Context) {
	posts, err := h.repo.ListFeed(ctx.Request.Context())

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

func (h *PostsHandler) MyPosts(ctx *gin.Context) {
	authorID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthenticated(ctx, "Missing identity context")
		return
	}

	posts, err := h.repo.ListByAuthor(ctx.Request.Context(), authorID)

	if err != nil {
		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

// DeletePost: 404 when the post does not exist, 403 when the caller is not
// the author, hard delete otherwise. If two deletes race, the loser gets
// the 404, never a 403.
func (h *PostsHandler) DeletePost(ctx *gin.Context) {
	requesterID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthenticated(ctx, "Missing identity context")
		return
	}

	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "Post not found")
		return
	}

	p, err := h.repo.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	if !auth.IsOwner(p, requesterID) {
		RespondForbidden(ctx, "You can only delete your own posts")
		return
	}

	err = h.repo.Delete(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			RespondNotFound(ctx, "Post not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}
