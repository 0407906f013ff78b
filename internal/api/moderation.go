package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/highhandantidote/community/internal/api/objects"
	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/moderation"
	"github.com/highhandantidote/community/internal/utils"
)

// ModerationHandlers serves the moderation ledger endpoints
type ModerationHandlers struct {
	ledger *moderation.Ledger
}

// NewModerationHandlers creates moderation handlers
func NewModerationHandlers(ledger *moderation.Ledger) *ModerationHandlers {
	return &ModerationHandlers{ledger: ledger}
}

type recordActionRequest struct {
	TargetType string `json:"target_type"` // "post" or "reply"
	TargetID   int64  `json:"target_id"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

// Record handles POST /moderation/actions
func (h *ModerationHandlers) Record(c *gin.Context) {
	var req recordActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.InvalidInput("malformed request body"))
		return
	}

	ref, err := targetRef(req.TargetType, req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}

	action, err := h.ledger.RecordAction(
		c.Request.Context(),
		CurrentUserID(c),
		ref,
		models.ModerationActionType(req.Action),
		req.Reason,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"action_id": action.ID})
}

type amendActionRequest struct {
	Action *string `json:"action"`
	Reason *string `json:"reason"`
}

// Amend handles PATCH /moderation/actions/:id
func (h *ModerationHandlers) Amend(c *gin.Context) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, utils.InvalidInput("action id must be a uuid"))
		return
	}

	var req amendActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.InvalidInput("malformed request body"))
		return
	}

	newAction := models.ModerationActionType("")
	if req.Action != nil {
		newAction = models.ModerationActionType(*req.Action)
	}

	amended, err := h.ledger.AmendAction(c.Request.Context(), CurrentUserID(c), actionID, newAction, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.BuildAction(amended))
}

// Get handles GET /moderation/actions/:id
func (h *ModerationHandlers) Get(c *gin.Context) {
	actionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, utils.InvalidInput("action id must be a uuid"))
		return
	}

	action, err := h.ledger.GetAction(c.Request.Context(), actionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.BuildAction(action))
}

// List handles GET /moderation/actions
func (h *ModerationHandlers) List(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	perPage, err := intQuery(c, "per_page", 20)
	if err != nil {
		respondError(c, err)
		return
	}
	moderatorID, err := intQuery(c, "moderator_id", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	postID, err := intQuery(c, "post_id", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	replyID, err := intQuery(c, "reply_id", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	actions, err := h.ledger.ListActions(c.Request.Context(), db.ActionFilters{
		ModeratorID: moderatorID,
		PostID:      postID,
		ReplyID:     replyID,
		Action:      models.ModerationActionType(c.Query("action")),
	}, int(page), int(perPage))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"actions":  objects.BuildActions(actions),
		"page":     page,
		"per_page": perPage,
	})
}

// targetRef builds a moderation target from request fields
func targetRef(targetType string, targetID int64) (moderation.TargetRef, error) {
	if targetID <= 0 {
		return moderation.TargetRef{}, utils.InvalidInput("target_id must be positive")
	}
	switch targetType {
	case "post":
		return moderation.TargetRef{PostID: targetID}, nil
	case "reply":
		return moderation.TargetRef{ReplyID: targetID}, nil
	}
	return moderation.TargetRef{}, utils.InvalidInput("target_type must be post or reply")
}
