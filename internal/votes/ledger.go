// Package votes implements the vote ledger: one vote per (user, post),
// with toggle-off and flip semantics, and denormalized post counters that
// are only ever mutated through atomic SQL increments.
package votes

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/scoring"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/logging"
	"github.com/highhandantidote/community/pkg/telemetry"
)

// Ledger applies vote mutations
type Ledger struct {
	repo   *db.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewLedger creates a new vote ledger
func NewLedger(repo *db.Repository) *Ledger {
	return &Ledger{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "vote-ledger")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock, for tests
func (l *Ledger) SetNowFunc(now func() time.Time) {
	l.now = now
}

// Result is the outcome of a cast vote: the caller's resulting vote state
// and the post's updated counters.
type Result struct {
	NewVote    models.VoteType `json:"new_vote"`
	Upvotes    int64           `json:"upvotes"`
	Downvotes  int64           `json:"downvotes"`
	TotalVotes int64           `json:"total_votes"`
}

// CastVote records, flips or toggles off a user's vote on a post.
//
// The whole mutation runs in one transaction: the vote row change, the
// counter increments and the engagement score update all land together or
// not at all. Counter updates are single atomic increment statements so
// concurrent votes on the same post cannot lose updates.
func (l *Ledger) CastVote(ctx context.Context, userID, postID int64, voteType models.VoteType) (*Result, error) {
	ctx, span := telemetry.StartSpan(ctx, "votes.cast_vote")
	defer span.End()

	if userID <= 0 {
		return nil, utils.Forbidden("voting requires an authenticated user")
	}
	if !voteType.Valid() {
		return nil, utils.InvalidInput("vote_type must be upvote or downvote")
	}

	var result *Result
	err := l.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("is_removed = ?", false).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("post not found")
			}
			return utils.Database("failed to load post", err)
		}

		var existing *models.Vote
		var vote models.Vote
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&vote).Error
		switch {
		case err == nil:
			existing = &vote
		case errors.Is(err, gorm.ErrRecordNotFound):
			existing = nil
		default:
			return utils.Database("failed to load vote", err)
		}

		newState, upDelta, downDelta := Transition(existing, voteType)

		switch {
		case existing == nil:
			newVote := models.Vote{
				UserID:    userID,
				PostID:    postID,
				VoteType:  voteType,
				UpdatedAt: l.now(),
			}
			if err := tx.Create(&newVote).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					// Concurrent first vote by the same user won the race
					return utils.NewAppError(utils.ErrConflict, "concurrent vote detected, retry", err)
				}
				return utils.Database("failed to create vote", err)
			}
		case newState == models.VoteNone:
			// Match on the observed vote_type so a concurrent flip or
			// toggle-off by the same user hits zero rows instead of
			// double-applying the counter deltas
			res := tx.Where("user_id = ? AND post_id = ? AND vote_type = ?", userID, postID, existing.VoteType).
				Delete(&models.Vote{})
			if err := ensureApplied(res, "remove vote"); err != nil {
				return err
			}
		default:
			res := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ? AND vote_type = ?", userID, postID, existing.VoteType).
				Updates(map[string]interface{}{
					"vote_type":  newState,
					"updated_at": l.now(),
				})
			if err := ensureApplied(res, "flip vote"); err != nil {
				return err
			}
		}

		// Atomic counter mutation; total_votes stays up - down by construction
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Updates(map[string]interface{}{
				"upvotes":     gorm.Expr("upvotes + ?", upDelta),
				"downvotes":   gorm.Expr("downvotes + ?", downDelta),
				"total_votes": gorm.Expr("total_votes + ?", upDelta-downDelta),
			}).Error; err != nil {
			return utils.Database("failed to update counters", err)
		}

		// Re-read the counters we just moved and persist the derived score
		var updated models.Post
		if err := tx.First(&updated, postID).Error; err != nil {
			return utils.Database("failed to reload post", err)
		}

		score := scoring.Engagement(
			updated.Upvotes, updated.Downvotes, updated.ReplyCount,
			updated.IsProfessionalVerified, updated.CreatedAt, l.now(),
		)
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("engagement_score", score).Error; err != nil {
			return utils.Database("failed to update engagement score", err)
		}

		result = &Result{
			NewVote:    newState,
			Upvotes:    updated.Upvotes,
			Downvotes:  updated.Downvotes,
			TotalVotes: updated.TotalVotes,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.logger.Debug("Vote applied",
		zap.Int64("user_id", userID),
		zap.Int64("post_id", postID),
		zap.String("new_vote", string(result.NewVote)))

	return result, nil
}

// GetVote returns the caller's current vote on a post, VoteNone when no
// vote is recorded.
func (l *Ledger) GetVote(ctx context.Context, userID, postID int64) (models.VoteType, error) {
	if userID <= 0 {
		return models.VoteNone, utils.Forbidden("voting requires an authenticated user")
	}

	vote, err := db.NewVoteRepository(l.repo).Get(ctx, userID, postID)
	if err != nil {
		return models.VoteNone, utils.Database("failed to load vote", err)
	}
	if vote == nil {
		return models.VoteNone, nil
	}
	return vote.VoteType, nil
}

// ensureApplied rejects a vote mutation that matched no rows: a concurrent
// request from the same user already changed or removed the vote, and
// applying the counter deltas anyway would drive the counters negative.
func ensureApplied(res *gorm.DB, op string) error {
	if res.Error != nil {
		return utils.Database("failed to "+op, res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.NewAppError(utils.ErrConflict, "concurrent vote detected, retry", nil)
	}
	return nil
}

// Transition resolves a requested vote against the user's existing vote.
// It returns the user's resulting vote state and the deltas to apply to
// the post's upvote and downvote counters.
func Transition(existing *models.Vote, requested models.VoteType) (models.VoteType, int64, int64) {
	if existing == nil {
		if requested == models.VoteUp {
			return models.VoteUp, 1, 0
		}
		return models.VoteDown, 0, 1
	}

	if existing.VoteType == requested {
		// Toggle-off
		if requested == models.VoteUp {
			return models.VoteNone, -1, 0
		}
		return models.VoteNone, 0, -1
	}

	// Flip
	if requested == models.VoteUp {
		return models.VoteUp, 1, -1
	}
	return models.VoteDown, -1, 1
}
