package ranking

import (
	"testing"
	"time"
)

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name     string
		sort     SortMode
		expected string
		wantErr  bool
	}{
		{
			name:     "hot sorts by engagement score",
			sort:     SortHot,
			expected: "engagement_score DESC, id DESC",
		},
		{
			name:     "new sorts by creation time",
			sort:     SortNew,
			expected: "created_at DESC, id DESC",
		},
		{
			name:     "top sorts by vote total",
			sort:     SortTop,
			expected: "total_votes DESC, id DESC",
		},
		{
			name:     "imported sorts by import time",
			sort:     SortImported,
			expected: "imported_at DESC, id DESC",
		},
		{
			name:     "professional sorts by creation time",
			sort:     SortProfessional,
			expected: "created_at DESC, id DESC",
		},
		{
			name:    "unknown sort rejected",
			sort:    SortMode("trending"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := orderClause(tt.sort)
			if (err != nil) != tt.wantErr {
				t.Fatalf("orderClause() error = %v, wantErr %v", err, tt.wantErr)
			}
			if order != tt.expected {
				t.Errorf("orderClause() = %q, want %q", order, tt.expected)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		query       Query
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{
			name:        "defaults applied",
			query:       Query{Sort: SortHot},
			wantPage:    1,
			wantPerPage: defaultPerPage,
		},
		{
			name:        "per_page clamped to max",
			query:       Query{Sort: SortHot, Page: 2, PerPage: 500},
			wantPage:    2,
			wantPerPage: maxPerPage,
		},
		{
			name:    "negative page rejected",
			query:   Query{Sort: SortHot, Page: -1, PerPage: 20},
			wantErr: true,
		},
		{
			name:    "negative per_page rejected",
			query:   Query{Sort: SortHot, Page: 1, PerPage: -5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := normalize(tt.query)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if q.Page != tt.wantPage {
				t.Errorf("normalize() page = %d, want %d", q.Page, tt.wantPage)
			}
			if q.PerPage != tt.wantPerPage {
				t.Errorf("normalize() per_page = %d, want %d", q.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestCacheTTL(t *testing.T) {
	if cacheTTL(SortNew) >= cacheTTL(SortHot) {
		t.Error("new listings should expire faster than hot listings")
	}
	if cacheTTL(SortImported) < cacheTTL(SortTop) {
		t.Error("imported listings should be cached at least as long as top")
	}
	if cacheTTL(SortMode("other")) != 60*time.Second {
		t.Errorf("default TTL = %v, want 60s", cacheTTL(SortMode("other")))
	}
}
