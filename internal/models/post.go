package models

import (
	"database/sql"
	"time"
)

// PostSource classifies where a post came from.
type PostSource string

// Post provenance constants
const (
	SourceNative       PostSource = "native"       // created by a community member
	SourceReddit       PostSource = "reddit"       // imported from Reddit
	SourceProfessional PostSource = "professional" // authored by a verified professional
)

// Post represents a top-level community submission. Replies live in a
// separate table and reference the post as thread root.
//
// The vote counters are denormalized: they are mutated only through atomic
// SQL increments by the vote ledger and reply creation, and TotalVotes is
// always recomputed as Upvotes - Downvotes in the same statement.
type Post struct {
	ID       int64          `gorm:"primaryKey;autoIncrement;column:id"`
	Title    string         `gorm:"type:varchar(255);not null;column:title"`
	Body     string         `gorm:"type:text;column:body"`
	MediaURL sql.NullString `gorm:"type:varchar(1024);column:media_url"`

	AuthorID    sql.NullInt64 `gorm:"column:author_id"`
	IsAnonymous bool          `gorm:"not null;default:false;column:is_anonymous"`

	Source         PostSource     `gorm:"type:varchar(16);not null;default:'native';index;column:source"`
	ExternalID     sql.NullString `gorm:"type:varchar(64);uniqueIndex:community_posts_ux_ext;column:external_id"`
	ExternalAuthor sql.NullString `gorm:"type:varchar(64);column:external_author"`
	SourceURL      sql.NullString `gorm:"type:varchar(1024);column:source_url"`
	ImportedAt     sql.NullTime   `gorm:"column:imported_at"`

	CategoryID  sql.NullInt64 `gorm:"index;column:category_id"`
	ProcedureID sql.NullInt64 `gorm:"index;column:procedure_id"`

	Upvotes         int64   `gorm:"not null;default:0;column:upvotes"`
	Downvotes       int64   `gorm:"not null;default:0;column:downvotes"`
	TotalVotes      int64   `gorm:"not null;default:0;column:total_votes"`
	ReplyCount      int64   `gorm:"not null;default:0;column:reply_count"`
	ViewCount       int64   `gorm:"not null;default:0;column:view_count"`
	EngagementScore float64 `gorm:"type:float;not null;default:0;column:engagement_score"`

	IsProfessionalVerified bool `gorm:"not null;default:false;index;column:is_professional_verified"`
	IsFlagged              bool `gorm:"not null;default:false;column:is_flagged"`
	IsRemoved              bool `gorm:"not null;default:false;index;column:is_removed"`

	CreatedAt time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Author *Account `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "community_posts"
}

// Reply represents a comment in a post's thread. ParentReplyID is set for
// nested replies; top-level replies reference only the post.
type Reply struct {
	ID            int64         `gorm:"primaryKey;autoIncrement;column:id"`
	PostID        int64         `gorm:"not null;index;column:post_id"`
	ParentReplyID sql.NullInt64 `gorm:"column:parent_reply_id"`
	AuthorID      sql.NullInt64 `gorm:"column:author_id"`
	Body          string        `gorm:"type:text;not null;column:body"`
	IsAnonymous   bool          `gorm:"not null;default:false;column:is_anonymous"`
	IsFlagged     bool          `gorm:"not null;default:false;column:is_flagged"`
	IsRemoved     bool          `gorm:"not null;default:false;column:is_removed"`
	CreatedAt     time.Time     `gorm:"not null;column:created_at"`

	// Relationships
	Post   *Post    `gorm:"foreignKey:PostID;references:ID"`
	Author *Account `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Reply
func (Reply) TableName() string {
	return "community_replies"
}
