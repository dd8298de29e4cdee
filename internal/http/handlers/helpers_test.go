package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/pulsefeed/internal/domain/post"
	"github.com/pulsefeed/pulsefeed/internal/domain/user"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
)

// Keep Gin quiet during tests.
func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementations of the handler-side interfaces, one function field
// per method so each test overrides only what it cares about.

type fakeUsersRepo struct {
	createFn  func(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error)
	byEmailFn func(ctx context.Context, email string) (user.User, error)
	byIDFn    func(ctx context.Context, id string) (user.User, error)
	updateFn  func(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error)
}

func (f *fakeUsersRepo) Create(ctx context.Context, req user.RegisterRequest, passwordHash string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req, passwordHash)
	}
	return user.User{}, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.byEmailFn != nil {
		return f.byEmailFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	if f.byIDFn != nil {
		return f.byIDFn(ctx, id)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, id, req)
	}
	return user.User{}, nil
}

type fakePostsRepo struct {
	createFn       func(ctx context.Context, req post.CreatePostRequest, authorID string) (post.Post, error)
	listFeedFn     func(ctx context.Context) ([]post.Post, error)
	listByAuthorFn func(ctx context.Context, authorID string) ([]post.Post, error)
	getFn          func(ctx context.Context, id string) (post.Post, error)
	deleteFn       func(ctx context.Context, id string) error
}

func (f *fakePostsRepo) Create(ctx context.Context, req post.CreatePostRequest, authorID string) (post.Post, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req, authorID)
	}
	return post.Post{}, nil
}

func (f *fakePostsRepo) ListFeed(ctx context.Context) ([]post.Post, error) {
	if f.listFeedFn != nil {
		return f.listFeedFn(ctx)
	}
	return []post.Post{}, nil
}

func (f *fakePostsRepo) ListByAuthor(ctx context.Context, authorID string) ([]post.Post, error) {
	if f.listByAuthorFn != nil {
		return f.listByAuthorFn(ctx, authorID)
	}
	return []post.Post{}, nil
}

func (f *fakePostsRepo) GetByID(ctx context.Context, id string) (post.Post, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	return post.Post{}, post.ErrNotFound
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeIssuer struct {
	fn func(userID string) (string, error)
}

func (f *fakeIssuer) Issue(userID string) (string, error) {
	if f.fn != nil {
		return f.fn(userID)
	}
	return "test-token", nil
}

// staticVerifier satisfies middlewares.TokenVerifier and maps every token to
// one fixed user id, so protected routes can be mounted with the real
// middleware.
type staticVerifier struct {
	userID string
}

func (v *staticVerifier) Verify(string) (string, error) {
	if v.userID == "" {
		return "", errors.New("invalid token")
	}
	return v.userID, nil
}

func authedRoute(userID string) gin.HandlerFunc {
	return middlewares.NewAuthMiddleware(&staticVerifier{userID: userID}).RequireAuth()
}

func setupRouter(method, path string, h ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h...)

	return r
}

func doJSON(router http.Handler, method, path, body string, bearer string) *httptest.ResponseRecorder {
	var req *http.Request

	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}
