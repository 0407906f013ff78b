package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ModerationActionType is a moderator's decision about a piece of content.
type ModerationActionType string

// Moderation action constants
const (
	ActionApprove ModerationActionType = "approve"
	ActionReject  ModerationActionType = "reject"
	ActionFlag    ModerationActionType = "flag"
)

// Valid reports whether an action type is known.
func (a ModerationActionType) Valid() bool {
	return a == ActionApprove || a == ActionReject || a == ActionFlag
}

// ModerationAction is one audit-trail entry. Exactly one of PostID and
// ReplyID is set. The row itself is immutable history except that Action
// and Reason may be amended, which re-runs the action's side effects.
type ModerationAction struct {
	ID          uuid.UUID            `gorm:"type:uuid;primaryKey;column:id"`
	ModeratorID int64                `gorm:"not null;index;column:moderator_id"`
	PostID      sql.NullInt64        `gorm:"index;column:post_id"`
	ReplyID     sql.NullInt64        `gorm:"index;column:reply_id"`
	Action      ModerationActionType `gorm:"type:varchar(8);not null;index;column:action"`
	Reason      string               `gorm:"type:varchar(500);column:reason"`
	CreatedAt   time.Time            `gorm:"not null;column:created_at"`
	AmendedAt   sql.NullTime         `gorm:"column:amended_at"`

	// Relationships
	Moderator *Account `gorm:"foreignKey:ModeratorID;references:ID"`
	Post      *Post    `gorm:"foreignKey:PostID;references:ID"`
	Reply     *Reply   `gorm:"foreignKey:ReplyID;references:ID"`
}

// TableName specifies the table name for ModerationAction
func (ModerationAction) TableName() string {
	return "community_moderation_actions"
}
