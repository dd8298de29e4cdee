package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pulsefeed/pulsefeed/internal/domain/post"
	"github.com/pulsefeed/pulsefeed/internal/domain/user"
)

// APIError mirrors the server's error envelope.
type APIError struct {
	Status  int
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 1 {
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(e.Errors, "; "))
	}
	return e.Message
}

// Unauthenticated reports whether the failure means the session is stale and
// the user should log in again.
func (e *APIError) Unauthenticated() bool {
	return e.Status == http.StatusUnauthorized
}

type AuthResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    user.User `json:"user"`
}

// API talks to the server. When a token is set, protected calls carry it as
// a bearer credential; there is no automatic retry and no refresh.
type API struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewAPI(baseURL, token string) *API {
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *API) Register(req user.RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	err := a.do(http.MethodPost, "/auth/register", req, &out)
	return out, err
}

func (a *API) Login(req user.LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	err := a.do(http.MethodPost, "/auth/login", req, &out)
	return out, err
}

func (a *API) Me() (user.User, error) {
	var out user.User
	err := a.do(http.MethodGet, "/users/me", nil, &out)
	return out, err
}

func (a *API) Profile(id string) (user.User, error) {
	var out user.User
	err := a.do(http.MethodGet, "/users/profile/"+id, nil, &out)
	return out, err
}

func (a *API) UpdateProfile(req user.UpdateProfileRequest) (user.User, error) {
	var out user.User
	err := a.do(http.MethodPut, "/users/profile", req, &out)
	return out, err
}

func (a *API) CreatePost(req post.CreatePostRequest) (post.Post, error) {
	var out post.Post
	err := a.do(http.MethodPost, "/posts", req, &out)
	return out, err
}

func (a *API) Feed() ([]post.Post, error) {
	var out []post.Post
	err := a.do(http.MethodGet, "/posts", nil, &out)
	return out, err
}

func (a *API) MyPosts() ([]post.Post, error) {
	var out []post.Post
	err := a.do(http.MethodGet, "/posts/my", nil, &out)
	return out, err
}

func (a *API) DeletePost(id string) error {
	return a.do(http.MethodDelete, "/posts/"+id, nil, nil)
}

func (a *API) do(method, path string, body interface{}, out interface{}) error {
	var buf *bytes.Buffer

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return err
		}

		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, a.baseURL+path, buf)

	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpc.Do(req)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}

		if decodeErr := json.NewDecoder(resp.Body).Decode(apiErr); decodeErr != nil || apiErr.Message == "" {
			apiErr.Message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}

		return apiErr
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
