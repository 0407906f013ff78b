package objects

import (
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/highhandantidote/community/internal/models"
)

func TestBuildPostMapsNullableColumns(t *testing.T) {
	imported := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	post := &models.Post{
		ID:             7,
		Title:          "Lip filler migration after 8 months",
		Source:         models.SourceReddit,
		AuthorID:       sql.NullInt64{},
		ExternalID:     sql.NullString{String: "t3_abc123", Valid: true},
		ExternalAuthor: sql.NullString{String: "throwaway99", Valid: true},
		SourceURL:      sql.NullString{String: "https://www.reddit.com/r/PlasticSurgery/x", Valid: true},
		ImportedAt:     sql.NullTime{Time: imported, Valid: true},
		CategoryID:     sql.NullInt64{Int64: 3, Valid: true},
	}

	obj := BuildPost(post)
	if obj.AuthorID != nil {
		t.Errorf("expected nil author id for authorless post, got %d", *obj.AuthorID)
	}
	if obj.ExternalID != "t3_abc123" {
		t.Errorf("unexpected external id %q", obj.ExternalID)
	}
	if obj.ImportedAt == nil || !obj.ImportedAt.Equal(imported) {
		t.Errorf("unexpected imported_at %v", obj.ImportedAt)
	}
	if obj.CategoryID == nil || *obj.CategoryID != 3 {
		t.Errorf("unexpected category id %v", obj.CategoryID)
	}
	if obj.ProcedureID != nil {
		t.Errorf("expected nil procedure id, got %d", *obj.ProcedureID)
	}
}

func TestBuildPostHidesAnonymousAuthor(t *testing.T) {
	post := &models.Post{
		ID:          9,
		Title:       "Recovery diary",
		Source:      models.SourceNative,
		AuthorID:    sql.NullInt64{Int64: 42, Valid: true},
		IsAnonymous: true,
	}

	obj := BuildPost(post)
	if obj.AuthorID != nil {
		t.Fatalf("anonymous post leaked author id %d", *obj.AuthorID)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "42") {
		t.Errorf("serialized anonymous post contains author id: %s", raw)
	}
}

func TestBuildReplyHidesAnonymousAuthor(t *testing.T) {
	reply := &models.Reply{
		ID:          3,
		PostID:      9,
		AuthorID:    sql.NullInt64{Int64: 42, Valid: true},
		Body:        "Same experience here",
		IsAnonymous: true,
	}

	obj := BuildReply(reply)
	if obj.AuthorID != nil {
		t.Fatalf("anonymous reply leaked author id %d", *obj.AuthorID)
	}
	if obj.ParentReplyID != nil {
		t.Errorf("expected nil parent reply id, got %d", *obj.ParentReplyID)
	}
}

func TestBuildPostsPreservesOrder(t *testing.T) {
	input := []*models.Post{{ID: 5}, {ID: 1}, {ID: 9}}
	result := BuildPosts(input)
	if len(result) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(result))
	}
	for i, obj := range result {
		if obj.ID != input[i].ID {
			t.Errorf("position %d: expected id %d, got %d", i, input[i].ID, obj.ID)
		}
	}
}
