package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pulsefeed/pulsefeed/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	fn func(token string) (string, error)
}

func (f *fakeVerifier) Verify(token string) (string, error) {
	if f.fn != nil {
		return f.fn(token)
	}
	return "", errors.New("no verifier configured")
}

func protectedRouter(verifier middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()
	m := middlewares.NewAuthMiddleware(verifier)

	r.GET("/protected", m.RequireAuth(), func(c *gin.Context) {
		id, ok := middlewares.UserIDFromContext(c)

		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "identity missing after auth"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"userId": id})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		verifyFn   func(string) (string, error)
		wantStatus int
	}{
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic abc123",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty token",
			authHeader: "Bearer   ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer bad-token",
			verifyFn: func(string) (string, error) {
				return "", errors.New("invalid token")
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good-token",
			verifyFn: func(token string) (string, error) {
				if token != "good-token" {
					return "", errors.New("unexpected token")
				}
				return "user-1", nil
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := protectedRouter(&fakeVerifier{fn: tc.verifyFn})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)

			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRequireAuthInjectsIdentity(t *testing.T) {
	r := protectedRouter(&fakeVerifier{fn: func(string) (string, error) {
		return "user-42", nil
	}})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer anything")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	want := `"userId":"user-42"`
	if body := w.Body.String(); !strings.Contains(body, want) {
		t.Fatalf("body %s does not contain %s", body, want)
	}
}
