package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func identityContext(t *testing.T, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}

	Identity()(c)
	return c
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name          string
		headers       map[string]string
		wantUserID    int64
		wantModerator bool
	}{
		{
			name:       "authenticated member",
			headers:    map[string]string{HeaderUserID: "42"},
			wantUserID: 42,
		},
		{
			name:          "moderator",
			headers:       map[string]string{HeaderUserID: "7", HeaderUserRole: "moderator"},
			wantUserID:    7,
			wantModerator: true,
		},
		{
			name:    "anonymous",
			headers: map[string]string{},
		},
		{
			name:    "malformed user id ignored",
			headers: map[string]string{HeaderUserID: "abc"},
		},
		{
			name:    "non-positive user id ignored",
			headers: map[string]string{HeaderUserID: "-3"},
		},
		{
			name:          "role without identity",
			headers:       map[string]string{HeaderUserRole: "moderator"},
			wantModerator: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := identityContext(t, tt.headers)

			if got := CurrentUserID(c); got != tt.wantUserID {
				t.Errorf("CurrentUserID() = %d, want %d", got, tt.wantUserID)
			}
			if got := IsModerator(c); got != tt.wantModerator {
				t.Errorf("IsModerator() = %v, want %v", got, tt.wantModerator)
			}
		})
	}
}

func TestRequireModerator(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(Identity())
	protected := engine.Group("/", RequireModerator())
	protected.GET("ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "moderator allowed",
			headers:    map[string]string{HeaderUserID: "7", HeaderUserRole: "moderator"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "member forbidden",
			headers:    map[string]string{HeaderUserID: "7"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "anonymous forbidden",
			headers:    map[string]string{},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "role header without identity forbidden",
			headers:    map[string]string{HeaderUserRole: "moderator"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			engine.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
