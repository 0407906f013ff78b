package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// testEngine registers the full route table with inert handlers behind it.
// Requests that stop at a guard or at parameter validation never reach a
// service, so no storage is needed.
func testEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := &Router{
		logger:             zap.NewNop(),
		postHandlers:       NewPostHandlers(nil, nil),
		voteHandlers:       NewVoteHandlers(nil),
		moderationHandlers: NewModerationHandlers(nil),
	}
	engine := gin.New()
	r.SetupRoutes(engine)
	return engine
}

func TestRouteGuards(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "vote state requires a user",
			method:     http.MethodGet,
			path:       "/community/posts/1/vote",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "vote state rejects a malformed post id",
			method:     http.MethodGet,
			path:       "/community/posts/abc/vote",
			headers:    map[string]string{HeaderUserID: "7"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ledger entry read requires a moderator",
			method:     http.MethodGet,
			path:       "/moderation/actions/9e7f2d70-0000-0000-0000-000000000000",
			headers:    map[string]string{HeaderUserID: "7"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "ledger entry read rejects a malformed action id",
			method:     http.MethodGet,
			path:       "/moderation/actions/not-a-uuid",
			headers:    map[string]string{HeaderUserID: "7", HeaderUserRole: RoleModerator},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, nil)
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
