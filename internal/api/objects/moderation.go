package objects

import (
	"time"

	"github.com/google/uuid"

	"github.com/highhandantidote/community/internal/models"
)

// ActionObject is the wire representation of a moderation ledger entry
type ActionObject struct {
	ID          uuid.UUID  `json:"id"`
	ModeratorID int64      `json:"moderator_id"`
	PostID      *int64     `json:"post_id,omitempty"`
	ReplyID     *int64     `json:"reply_id,omitempty"`
	Action      string     `json:"action"`
	Reason      string     `json:"reason,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	AmendedAt   *time.Time `json:"amended_at,omitempty"`
}

// BuildAction converts a ledger record into its wire representation
func BuildAction(a *models.ModerationAction) *ActionObject {
	return &ActionObject{
		ID:          a.ID,
		ModeratorID: a.ModeratorID,
		PostID:      nullInt64(a.PostID),
		ReplyID:     nullInt64(a.ReplyID),
		Action:      string(a.Action),
		Reason:      a.Reason,
		CreatedAt:   a.CreatedAt,
		AmendedAt:   nullTime(a.AmendedAt),
	}
}

// BuildActions converts a page of ledger records in order
func BuildActions(actions []*models.ModerationAction) []*ActionObject {
	result := make([]*ActionObject, 0, len(actions))
	for _, a := range actions {
		result = append(result, BuildAction(a))
	}
	return result
}
