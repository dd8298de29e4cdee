package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/pulsefeed/pulsefeed/internal/domain/user"
	"github.com/pulsefeed/pulsefeed/internal/http/handlers"
)

const profileID = "6e1b4a9c-2f33-4f7e-9f11-0a4c3a9d8b21"

func TestMe(t *testing.T) {
	tests := []struct {
		name       string
		byIDFn     func(ctx context.Context, id string) (user.User, error)
		wantStatus int
		wantInBody string
	}{
		{
			name: "found",
			byIDFn: func(_ context.Context, id string) (user.User, error) {
				return user.User{ID: id, Name: "Alice", Email: "a@x.com"}, nil
			},
			wantStatus: http.StatusOK,
			wantInBody: `"Alice"`,
		},
		{
			name: "record gone",
			byIDFn: func(context.Context, string) (user.User, error) {
				return user.User{}, user.ErrNotFound
			},
			wantStatus: http.StatusNotFound,
			wantInBody: "User not found",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeUsersRepo{byIDFn: tc.byIDFn}
			h := handlers.NewUsersHandler(repo, repo)

			r := setupRouter(http.MethodGet, "/users/me", authedRoute("u1"), h.Me)
			w := doJSON(r, http.MethodGet, "/users/me", "", "any-token")

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if !strings.Contains(w.Body.String(), tc.wantInBody) {
				t.Fatalf("body %s does not contain %q", w.Body.String(), tc.wantInBody)
			}
		})
	}
}

func TestPublicProfile(t *testing.T) {
	repo := &fakeUsersRepo{
		byIDFn: func(_ context.Context, id string) (user.User, error) {
			if id != profileID {
				return user.User{}, user.ErrNotFound
			}
			return user.User{ID: id, Name: "Bob", Email: "b@x.com", PasswordHash: "$2a$10$abcdef"}, nil
		},
	}
	h := handlers.NewUsersHandler(repo, repo)
	r := setupRouter(http.MethodGet, "/users/profile/:id", h.Profile)

	t.Run("found, hash excluded", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/users/profile/"+profileID, "", "")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if strings.Contains(w.Body.String(), "$2a$") {
			t.Fatalf("password hash leaked: %s", w.Body.String())
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/users/profile/8d7b38a2-5a41-4ee5-b61a-1f1f86a2f000", "", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/users/profile/not-a-uuid", "", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("short name rejected before the store", func(t *testing.T) {
		called := false
		repo := &fakeUsersRepo{
			updateFn: func(_ context.Context, _ string, _ user.UpdateProfileRequest) (user.User, error) {
				called = true
				return user.User{}, nil
			},
		}
		h := handlers.NewUsersHandler(repo, repo)
		r := setupRouter(http.MethodPut, "/users/profile", authedRoute("u1"), h.UpdateProfile)

		w := doJSON(r, http.MethodPut, "/users/profile", `{"name":"Al"}`, "any-token")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var resp errorResponse
		mustReadJSON(t, w, &resp)

		if resp.Message != "Name must be at least 3 characters" {
			t.Fatalf("unexpected message %q", resp.Message)
		}

		if called {
			t.Fatal("store was reached despite a validation failure")
		}
	})

	t.Run("partial update only carries supplied fields", func(t *testing.T) {
		var got user.UpdateProfileRequest
		var gotID string

		repo := &fakeUsersRepo{
			updateFn: func(_ context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
				gotID = id
				got = req
				return user.User{ID: id, Name: "Alicia"}, nil
			},
		}
		h := handlers.NewUsersHandler(repo, repo)
		r := setupRouter(http.MethodPut, "/users/profile", authedRoute("u1"), h.UpdateProfile)

		w := doJSON(r, http.MethodPut, "/users/profile", `{"name":"Alicia"}`, "any-token")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if gotID != "u1" {
			t.Fatalf("update targeted %q, want the token identity %q", gotID, "u1")
		}

		if got.Name == nil || *got.Name != "Alicia" {
			t.Fatalf("name not forwarded: %+v", got)
		}

		if got.Bio != nil || got.ProfilePic != nil {
			t.Fatalf("absent fields must stay nil: %+v", got)
		}
	})

	t.Run("empty bio is a real value, not an omission", func(t *testing.T) {
		var got user.UpdateProfileRequest

		repo := &fakeUsersRepo{
			updateFn: func(_ context.Context, id string, req user.UpdateProfileRequest) (user.User, error) {
				got = req
				return user.User{ID: id}, nil
			},
		}
		h := handlers.NewUsersHandler(repo, repo)
		r := setupRouter(http.MethodPut, "/users/profile", authedRoute("u1"), h.UpdateProfile)

		w := doJSON(r, http.MethodPut, "/users/profile", `{"bio":""}`, "any-token")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		if got.Bio == nil || *got.Bio != "" {
			t.Fatalf("explicit empty bio lost: %+v", got)
		}
	})
}
