package models

import (
	"time"
)

// VoteType is the direction of a vote.
type VoteType string

// Vote type constants
const (
	VoteUp   VoteType = "upvote"
	VoteDown VoteType = "downvote"
	VoteNone VoteType = "none" // result state after a toggle-off, never stored
)

// Valid reports whether a vote type is storable.
func (v VoteType) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote records one user's vote on one post. The composite primary key
// enforces the at-most-one-vote-per-(user, post) invariant at the schema
// level: a repeat vote flips or deletes this row, it never adds another.
type Vote struct {
	UserID    int64     `gorm:"primaryKey;column:user_id"`
	PostID    int64     `gorm:"primaryKey;column:post_id"`
	VoteType  VoteType  `gorm:"type:varchar(8);not null;column:vote_type"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at"`

	// Relationships
	User *Account `gorm:"foreignKey:UserID;references:ID"`
	Post *Post    `gorm:"foreignKey:PostID;references:ID"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "community_votes"
}
