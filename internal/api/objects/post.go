package objects

import (
	"time"

	"github.com/highhandantidote/community/internal/models"
)

// PostObject is the wire representation of a post. Nullable columns become
// pointers so absent values serialize as JSON null instead of SQL wrapper
// structs, and anonymous posts never expose their author id.
type PostObject struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	MediaURL    string `json:"media_url,omitempty"`
	AuthorID    *int64 `json:"author_id"`
	IsAnonymous bool   `json:"is_anonymous"`

	Source         string     `json:"source"`
	ExternalID     string     `json:"external_id,omitempty"`
	ExternalAuthor string     `json:"external_author,omitempty"`
	SourceURL      string     `json:"source_url,omitempty"`
	ImportedAt     *time.Time `json:"imported_at,omitempty"`

	CategoryID  *int64 `json:"category_id"`
	ProcedureID *int64 `json:"procedure_id"`

	Upvotes         int64   `json:"upvotes"`
	Downvotes       int64   `json:"downvotes"`
	TotalVotes      int64   `json:"total_votes"`
	ReplyCount      int64   `json:"reply_count"`
	ViewCount       int64   `json:"view_count"`
	EngagementScore float64 `json:"engagement_score"`

	IsProfessionalVerified bool `json:"is_professional_verified"`
	IsFlagged              bool `json:"is_flagged"`

	CreatedAt time.Time `json:"created_at"`
}

// BuildPost converts a post record into its wire representation
func BuildPost(p *models.Post) *PostObject {
	obj := &PostObject{
		ID:          p.ID,
		Title:       p.Title,
		Body:        p.Body,
		MediaURL:    nullString(p.MediaURL),
		IsAnonymous: p.IsAnonymous,

		Source:         string(p.Source),
		ExternalID:     nullString(p.ExternalID),
		ExternalAuthor: nullString(p.ExternalAuthor),
		SourceURL:      nullString(p.SourceURL),
		ImportedAt:     nullTime(p.ImportedAt),

		CategoryID:  nullInt64(p.CategoryID),
		ProcedureID: nullInt64(p.ProcedureID),

		Upvotes:         p.Upvotes,
		Downvotes:       p.Downvotes,
		TotalVotes:      p.TotalVotes,
		ReplyCount:      p.ReplyCount,
		ViewCount:       p.ViewCount,
		EngagementScore: p.EngagementScore,

		IsProfessionalVerified: p.IsProfessionalVerified,
		IsFlagged:              p.IsFlagged,

		CreatedAt: p.CreatedAt,
	}
	if !p.IsAnonymous {
		obj.AuthorID = nullInt64(p.AuthorID)
	}
	return obj
}

// BuildPosts converts a page of post records in order
func BuildPosts(posts []*models.Post) []*PostObject {
	result := make([]*PostObject, 0, len(posts))
	for _, p := range posts {
		result = append(result, BuildPost(p))
	}
	return result
}

// ReplyObject is the wire representation of a thread reply
type ReplyObject struct {
	ID            int64     `json:"id"`
	PostID        int64     `json:"post_id"`
	ParentReplyID *int64    `json:"parent_reply_id"`
	AuthorID      *int64    `json:"author_id"`
	Body          string    `json:"body"`
	IsAnonymous   bool      `json:"is_anonymous"`
	IsFlagged     bool      `json:"is_flagged"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildReply converts a reply record into its wire representation
func BuildReply(r *models.Reply) *ReplyObject {
	obj := &ReplyObject{
		ID:            r.ID,
		PostID:        r.PostID,
		ParentReplyID: nullInt64(r.ParentReplyID),
		Body:          r.Body,
		IsAnonymous:   r.IsAnonymous,
		IsFlagged:     r.IsFlagged,
		CreatedAt:     r.CreatedAt,
	}
	if !r.IsAnonymous {
		obj.AuthorID = nullInt64(r.AuthorID)
	}
	return obj
}

// BuildReplies converts a thread's replies in order
func BuildReplies(replies []*models.Reply) []*ReplyObject {
	result := make([]*ReplyObject, 0, len(replies))
	for _, r := range replies {
		result = append(result, BuildReply(r))
	}
	return result
}
