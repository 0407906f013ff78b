package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/highhandantidote/community/pkg/config"
)

func TestFetchNew(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/PlasticSurgery/new.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected limit: %s", r.URL.Query().Get("limit"))
		}
		if r.Header.Get("User-Agent") != "community-importer/test" {
			t.Errorf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": {
				"after": "t3_next",
				"children": [
					{"data": {"name": "t3_one", "title": "First", "author": "a", "created_utc": 1700000000}},
					{"data": {"name": "t3_two", "title": "Second", "author": "b", "created_utc": 1700000100}}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewClient(&config.ImporterConfig{
		BaseURL:   srv.URL,
		UserAgent: "community-importer/test",
	})

	posts, after, err := client.FetchNew(context.Background(), "PlasticSurgery", 2, "")
	if err != nil {
		t.Fatalf("FetchNew() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("FetchNew() returned %d posts, want 2", len(posts))
	}
	if posts[0].Name != "t3_one" || posts[1].Name != "t3_two" {
		t.Errorf("unexpected posts: %+v", posts)
	}
	if after != "t3_next" {
		t.Errorf("after = %q, want t3_next", after)
	}
}

func TestFetchNewErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(&config.ImporterConfig{BaseURL: srv.URL, UserAgent: "ua"})

	if _, _, err := client.FetchNew(context.Background(), "PlasticSurgery", 10, ""); err == nil {
		t.Error("FetchNew() should fail on non-200 status")
	}
}
