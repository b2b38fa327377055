package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentityAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity())
	router.OPTIONS("/api/v1/documents/current", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/documents/current", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestIdentityHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantUser   string
	}{
		{name: "user", headers: map[string]string{"X-User-Id": "u1"}, wantStatus: http.StatusOK, wantUser: "user:u1"},
		{name: "guest", headers: map[string]string{"X-Guest-Id": "g1"}, wantStatus: http.StatusOK, wantUser: "guest:g1"},
		{name: "user wins", headers: map[string]string{"X-User-Id": "u1", "X-Guest-Id": "g1"}, wantStatus: http.StatusOK, wantUser: "user:u1"},
		{name: "missing", headers: nil, wantStatus: http.StatusUnauthorized},
		{name: "blank", headers: map[string]string{"X-Guest-Id": "   "}, wantStatus: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(Identity())
			var got string
			router.GET("/api/v1/parses", func(c *gin.Context) {
				got = UserIDFromContext(c)
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/parses", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)

			if resp.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, resp.Code)
			}
			if got != tc.wantUser {
				t.Fatalf("expected user %q, got %q", tc.wantUser, got)
			}
		})
	}
}

func TestIdentityPublicPath(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Identity("/api/v1/health"))
	router.GET("/api/v1/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
