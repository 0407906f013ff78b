package importer

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/config"
)

func TestScreen(t *testing.T) {
	tests := []struct {
		name string
		post RedditPost
		skip bool
	}{
		{
			name: "importable submission",
			post: RedditPost{Name: "t3_abc", Title: "Botox aftercare?", Author: "someone"},
		},
		{
			name: "missing fullname",
			post: RedditPost{Title: "no id"},
			skip: true,
		},
		{
			name: "empty title",
			post: RedditPost{Name: "t3_abc", Title: "   "},
			skip: true,
		},
		{
			name: "stickied mod post",
			post: RedditPost{Name: "t3_abc", Title: "Monthly thread", Stickied: true},
			skip: true,
		},
		{
			name: "deleted author",
			post: RedditPost{Name: "t3_abc", Title: "gone", Author: "[deleted]"},
			skip: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason := screen(tt.post)
			if (reason != "") != tt.skip {
				t.Errorf("screen() = %q, skip %v", reason, tt.skip)
			}
		})
	}
}

func TestMapPost(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	created := now.Add(-48 * time.Hour)

	rp := RedditPost{
		Name:       "t3_xyz789",
		Title:      "Rhinoplasty recovery timeline",
		SelfText:   "Day 10 and still swollen...",
		Author:     "recoveringwell",
		Permalink:  "/r/PlasticSurgery/comments/xyz789/rhinoplasty_recovery_timeline/",
		CreatedUTC: float64(created.Unix()),
	}

	post := mapPost(rp, now)

	if post.Source != models.SourceReddit {
		t.Errorf("Source = %v, want %v", post.Source, models.SourceReddit)
	}
	if !post.ExternalID.Valid || post.ExternalID.String != "t3_xyz789" {
		t.Errorf("ExternalID = %+v, want t3_xyz789", post.ExternalID)
	}
	if !post.SourceURL.Valid || post.SourceURL.String != "https://www.reddit.com"+rp.Permalink {
		t.Errorf("SourceURL = %+v", post.SourceURL)
	}
	if !post.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, created)
	}
	if !post.ImportedAt.Valid || !post.ImportedAt.Time.Equal(now) {
		t.Errorf("ImportedAt = %+v, want %v", post.ImportedAt, now)
	}
	if post.Upvotes != 0 || post.Downvotes != 0 || post.TotalVotes != 0 {
		t.Error("imported posts must start with zero local vote counters")
	}
}

func TestMapPostClampsBadTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		createdUTC float64
	}{
		{name: "zero timestamp", createdUTC: 0},
		{name: "future timestamp", createdUTC: float64(now.Add(time.Hour).Unix())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := mapPost(RedditPost{Name: "t3_a", Title: "t", CreatedUTC: tt.createdUTC}, now)
			if !post.CreatedAt.Equal(now) {
				t.Errorf("CreatedAt = %v, want clamped to %v", post.CreatedAt, now)
			}
		})
	}
}

func TestMapPostTruncatesTitle(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	long := ""
	for len(long) < 300 {
		long += "a"
	}
	post := mapPost(RedditPost{Name: "t3_a", Title: long}, now)
	if len(post.Title) != 255 {
		t.Errorf("Title length = %d, want 255", len(post.Title))
	}
}

// Cutting at a fixed byte offset could split a multibyte rune; the result
// must always stay valid UTF-8 and within the column limit.
func TestTruncateTitleKeepsRunesIntact(t *testing.T) {
	tests := []struct {
		name  string
		title string
		max   int
	}{
		{name: "short title untouched", title: "Lip flip results", max: 255},
		{name: "ascii cut", title: strings.Repeat("a", 10), max: 5},
		{name: "cut lands inside a rune", title: strings.Repeat("é", 10), max: 5},
		{name: "four byte runes", title: strings.Repeat("💉", 10), max: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateTitle(tt.title, tt.max)
			if len(got) > tt.max {
				t.Errorf("truncateTitle() length = %d, want <= %d", len(got), tt.max)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncateTitle() produced invalid UTF-8: %q", got)
			}
			if !strings.HasPrefix(tt.title, got) {
				t.Errorf("truncateTitle() = %q, not a prefix of input", got)
			}
		})
	}
}

// An importer with nothing to poll must refuse to start instead of
// spinning through an empty subreddit list.
func TestRunRequiresSubreddits(t *testing.T) {
	job := New(&config.ImporterConfig{Subreddits: " , ", FetchInterval: 1}, nil)

	err := job.Run(context.Background())
	if utils.CodeOf(err) != utils.ErrInvalidInput {
		t.Errorf("Run() code = %q, want %q", utils.CodeOf(err), utils.ErrInvalidInput)
	}
}

func TestSplitSubreddits(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected int
	}{
		{name: "three entries", raw: "PlasticSurgery,30PlusSkinCare,SkincareAddiction", expected: 3},
		{name: "spaces and empties", raw: " a , , b ", expected: 2},
		{name: "empty string", raw: "", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitSubreddits(tt.raw); len(got) != tt.expected {
				t.Errorf("splitSubreddits(%q) = %v, want %d entries", tt.raw, got, tt.expected)
			}
		})
	}
}
