package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/pulsefeed/internal/domain/user"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
	"github.com/pulsefeed/pulsefeed/internal/utils"
)

type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error)
}

type UsersHandler struct {
	users   UserReader
	updater ProfileUpdater
}

func NewUsersHandler(users UserReader, updater ProfileUpdater) *UsersHandler {
	return &UsersHandler{users: users, updater: updater}
}

// Me returns the caller's own record, resolved from the token identity.
func (h *UsersHandler) Me(ctx *gin.Context) {
	requesterID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthenticated(ctx, "Missing identity context")
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), requesterID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// Profile is the public view of any user; same projection as Me since the
// password hash never marshals anyway.
func (h *UsersHandler) Profile(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondNotFound(ctx, "User not found")
		return
	}

	u, err := h.users.GetByID(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// UpdateProfile partially updates the caller's own record. There is no
// admin override: the target id always comes from the token, never the
// payload.
func (h *UsersHandler) UpdateProfile(ctx *gin.Context) {
	requesterID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnauthenticated(ctx, "Missing identity context")
		return
	}

	var req user.UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.updater.UpdateProfile(ctx.Request.Context(), requesterID, req)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		RespondInternal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}
