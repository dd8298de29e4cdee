package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
)

// APIError is the error envelope every failure response carries. Message is
// always set; Errors holds the full validation message list when there is
// one; Detail carries internal diagnostics on 500s.
type APIError struct {
	Message   string   `json:"message"`
	Errors    []string `json:"errors,omitempty"`
	Detail    string   `json:"error,omitempty"`
	RequestID string   `json:"requestId,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondError(ctx *gin.Context, status int, message string, errs []string) {
	ctx.JSON(status, APIError{
		Message:   message,
		Errors:    errs,
		RequestID: requestIDFrom(ctx),
	})
}

// RespondValidation reports the first message inline plus the full list.
func RespondValidation(ctx *gin.Context, errs []string) {
	message := "Invalid request body"
	if len(errs) > 0 {
		message = errs[0]
	}

	RespondError(ctx, http.StatusBadRequest, message, errs)
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message, nil)
}

func RespondUnauthenticated(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

// RespondInternal keeps the caller-facing message generic and attaches the
// underlying detail for diagnostics.
func RespondInternal(ctx *gin.Context, err error) {
	body := APIError{
		Message:   "Server error",
		RequestID: requestIDFrom(ctx),
	}

	if err != nil {
		body.Detail = err.Error()
	}

	ctx.JSON(http.StatusInternalServerError, body)
}
