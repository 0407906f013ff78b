// Package moderation implements the audited moderation ledger. Every
// decision is recorded as an immutable-history row; a reject removes the
// target by tombstone so a later amendment back to approve can restore it.
package moderation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/scoring"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/logging"
	"github.com/highhandantidote/community/pkg/telemetry"
)

// TargetRef names the content a moderation action applies to. Exactly one
// of PostID and ReplyID must be set.
type TargetRef struct {
	PostID  int64
	ReplyID int64
}

// Validate enforces the post-XOR-reply rule
func (t TargetRef) Validate() error {
	if (t.PostID == 0) == (t.ReplyID == 0) {
		return utils.InvalidInput("exactly one of post_id and reply_id must be set")
	}
	if t.PostID < 0 || t.ReplyID < 0 {
		return utils.InvalidInput("target id must be positive")
	}
	return nil
}

// Ledger records and amends moderation actions
type Ledger struct {
	repo   *db.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger creates a new moderation ledger
func NewLedger(repo *db.Repository) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "moderation-ledger")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock, for tests
func (l *Ledger) SetNowFunc(now func() time.Time) {
	l.now = now
}

// RecordAction persists a moderation decision and applies its side effect.
// reject tombstones the target; flag marks it for the review queue;
// approve clears any flag. The ledger row and the side effect commit in
// the same transaction.
func (l *Ledger) RecordAction(ctx context.Context, moderatorID int64, ref TargetRef, action models.ModerationActionType, reason string) (*models.ModerationAction, error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.record_action")
	defer span.End()

	if moderatorID <= 0 {
		return nil, utils.Forbidden("moderation requires moderator privilege")
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if !action.Valid() {
		return nil, utils.InvalidInput("action must be approve, reject or flag")
	}

	record := &models.ModerationAction{
		ID:          uuid.New(),
		ModeratorID: moderatorID,
		Action:      action,
		Reason:      reason,
		CreatedAt:   l.now(),
	}
	if ref.PostID != 0 {
		record.PostID = sql.NullInt64{Int64: ref.PostID, Valid: true}
	} else {
		record.ReplyID = sql.NullInt64{Int64: ref.ReplyID, Valid: true}
	}

	err := l.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := l.ensureTargetExists(tx, ref); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return utils.Database("failed to record moderation action", err)
		}
		return l.applyEffect(tx, ref, models.ModerationActionType(""), action)
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Moderation action recorded",
		zap.String("action_id", record.ID.String()),
		zap.String("action", string(action)),
		zap.Int64("post_id", ref.PostID),
		zap.Int64("reply_id", ref.ReplyID))

	return record, nil
}

// AmendAction changes a recorded action's decision or reason and re-runs
// side effects for the transition. Amending a non-reject to reject removes
// the target retroactively; amending reject to approve restores it.
func (l *Ledger) AmendAction(ctx context.Context, moderatorID int64, actionID uuid.UUID, newAction models.ModerationActionType, newReason *string) (*models.ModerationAction, error) {
	ctx, span := telemetry.StartSpan(ctx, "moderation.amend_action")
	defer span.End()

	if moderatorID <= 0 {
		return nil, utils.Forbidden("moderation requires moderator privilege")
	}
	if newAction != "" && !newAction.Valid() {
		return nil, utils.InvalidInput("action must be approve, reject or flag")
	}
	if newAction == "" && newReason == nil {
		return nil, utils.InvalidInput("nothing to amend")
	}

	var amended *models.ModerationAction
	err := l.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.ModerationAction
		if err := tx.Where("id = ?", actionID).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("moderation action not found")
			}
			return utils.Database("failed to load moderation action", err)
		}

		ref := TargetRef{PostID: record.PostID.Int64, ReplyID: record.ReplyID.Int64}
		oldAction := record.Action

		if newAction != "" {
			record.Action = newAction
		}
		if newReason != nil {
			record.Reason = *newReason
		}
		record.AmendedAt = sql.NullTime{Time: l.now(), Valid: true}

		if err := tx.Save(&record).Error; err != nil {
			return utils.Database("failed to amend moderation action", err)
		}

		if newAction != "" && newAction != oldAction {
			if err := l.applyEffect(tx, ref, oldAction, newAction); err != nil {
				return err
			}
		}

		amended = &record
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Info("Moderation action amended",
		zap.String("action_id", actionID.String()),
		zap.String("action", string(amended.Action)))

	return amended, nil
}

// GetAction loads a single ledger entry
func (l *Ledger) GetAction(ctx context.Context, actionID uuid.UUID) (*models.ModerationAction, error) {
	action, err := db.NewModerationRepository(l.repo).GetByID(ctx, actionID)
	if err != nil {
		return nil, utils.Database("failed to load moderation action", err)
	}
	if action == nil {
		return nil, utils.NotFound("moderation action not found")
	}
	return action, nil
}

// ListActions returns the audit trail newest first
func (l *Ledger) ListActions(ctx context.Context, filters db.ActionFilters, page, perPage int) ([]*models.ModerationAction, error) {
	if page < 1 || perPage < 1 {
		return nil, utils.InvalidInput("page and per_page must be positive")
	}

	modRepo := db.NewModerationRepository(l.repo)
	actions, err := modRepo.List(ctx, filters, (page-1)*perPage, perPage)
	if err != nil {
		return nil, utils.Database("failed to list moderation actions", err)
	}
	return actions, nil
}

func (l *Ledger) ensureTargetExists(tx *gorm.DB, ref TargetRef) error {
	var err error
	if ref.PostID != 0 {
		err = tx.Where("is_removed = ?", false).First(&models.Post{}, ref.PostID).Error
	} else {
		err = tx.Where("is_removed = ?", false).First(&models.Reply{}, ref.ReplyID).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("moderation target not found")
		}
		return utils.Database("failed to load moderation target", err)
	}
	return nil
}

// effect is the target mutation a moderation decision requires: remove
// tombstones the target, restore undoes a tombstone and clears any flag,
// clearFlag approves content that was never rejected, and setFlag surfaces
// the target in the review queue.
type effect int

const (
	effectNone effect = iota
	effectRemove
	effectRestore
	effectClearFlag
	effectSetFlag
)

// resolveEffect maps an action transition onto the mutation to run against
// the target. An empty oldAction means this is a fresh record rather than
// an amendment; approve only restores when it overturns a reject.
func resolveEffect(oldAction, newAction models.ModerationActionType) effect {
	switch newAction {
	case models.ActionReject:
		return effectRemove
	case models.ActionApprove:
		if oldAction == models.ActionReject {
			return effectRestore
		}
		return effectClearFlag
	case models.ActionFlag:
		return effectSetFlag
	}
	return effectNone
}

// applyEffect performs the side effect of transitioning from oldAction to
// newAction against the target.
func (l *Ledger) applyEffect(tx *gorm.DB, ref TargetRef, oldAction, newAction models.ModerationActionType) error {
	switch resolveEffect(oldAction, newAction) {
	case effectRemove:
		return l.removeTarget(tx, ref)
	case effectRestore:
		return l.restoreTarget(tx, ref)
	case effectClearFlag:
		return l.setFlagged(tx, ref, false)
	case effectSetFlag:
		return l.setFlagged(tx, ref, true)
	}
	return nil
}

func (l *Ledger) removeTarget(tx *gorm.DB, ref TargetRef) error {
	if ref.PostID != 0 {
		if err := tx.Model(&models.Post{}).
			Where("id = ? AND is_removed = ?", ref.PostID, false).
			Update("is_removed", true).Error; err != nil {
			return utils.Database("failed to remove post", err)
		}
		return nil
	}

	// Removing a reply also walks the thread root's reply counter back and
	// rescores it, keeping reply_count consistent with visible replies.
	var reply models.Reply
	if err := tx.First(&reply, ref.ReplyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("reply not found")
		}
		return utils.Database("failed to load reply", err)
	}
	if reply.IsRemoved {
		return nil
	}
	if err := tx.Model(&models.Reply{}).
		Where("id = ?", ref.ReplyID).
		Update("is_removed", true).Error; err != nil {
		return utils.Database("failed to remove reply", err)
	}
	if err := tx.Model(&models.Post{}).
		Where("id = ? AND reply_count > 0", reply.PostID).
		Update("reply_count", gorm.Expr("reply_count - 1")).Error; err != nil {
		return utils.Database("failed to update reply count", err)
	}
	return l.rescorePost(tx, reply.PostID)
}

func (l *Ledger) restoreTarget(tx *gorm.DB, ref TargetRef) error {
	if ref.PostID != 0 {
		if err := tx.Model(&models.Post{}).
			Where("id = ?", ref.PostID).
			Updates(map[string]interface{}{"is_removed": false, "is_flagged": false}).Error; err != nil {
			return utils.Database("failed to restore post", err)
		}
		return nil
	}

	var reply models.Reply
	if err := tx.First(&reply, ref.ReplyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("reply not found")
		}
		return utils.Database("failed to load reply", err)
	}
	if !reply.IsRemoved {
		return nil
	}
	if err := tx.Model(&models.Reply{}).
		Where("id = ?", ref.ReplyID).
		Updates(map[string]interface{}{"is_removed": false, "is_flagged": false}).Error; err != nil {
		return utils.Database("failed to restore reply", err)
	}
	if err := tx.Model(&models.Post{}).
		Where("id = ?", reply.PostID).
		Update("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
		return utils.Database("failed to update reply count", err)
	}
	return l.rescorePost(tx, reply.PostID)
}

func (l *Ledger) setFlagged(tx *gorm.DB, ref TargetRef, flagged bool) error {
	var err error
	if ref.PostID != 0 {
		err = tx.Model(&models.Post{}).
			Where("id = ?", ref.PostID).
			Update("is_flagged", flagged).Error
	} else {
		err = tx.Model(&models.Reply{}).
			Where("id = ?", ref.ReplyID).
			Update("is_flagged", flagged).Error
	}
	if err != nil {
		return utils.Database("failed to update flag state", err)
	}
	return nil
}

func (l *Ledger) rescorePost(tx *gorm.DB, postID int64) error {
	var post models.Post
	if err := tx.First(&post, postID).Error; err != nil {
		return utils.Database("failed to reload post for rescore", err)
	}
	score := scoring.Engagement(
		post.Upvotes, post.Downvotes, post.ReplyCount,
		post.IsProfessionalVerified, post.CreatedAt, l.now(),
	)
	if err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		Update("engagement_score", score).Error; err != nil {
		return utils.Database("failed to update engagement score", err)
	}
	return nil
}
