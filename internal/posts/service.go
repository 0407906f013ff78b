// Package posts implements creation and retrieval of community submissions
// and their reply threads.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"strings"
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

// Service manages the post store
type Service struct {
	repo   *db.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new post service
func NewService(repo *db.Repository) *Service {
	return &Service{
		repo:   repo,
		logger: logging.GetLogger().With(zap.String("component", "posts")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock, for tests
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}

// CreateInput carries the fields for a native post
type CreateInput struct {
	Title       string
	Body        string
	MediaURL    string
	CategoryID  int64
	ProcedureID int64
	IsAnonymous bool
}

// Validate checks the submission fields
func (in CreateInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return utils.InvalidInput("title is required")
	}
	if len(in.Title) > 255 {
		return utils.InvalidInput("title must be at most 255 characters")
	}
	return nil
}

// Create persists a native post authored by userID. Verified professionals
// get the professional provenance and the ranking bonus that comes with it.
func (s *Service) Create(ctx context.Context, userID int64, in CreateInput) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.create")
	defer span.End()

	if userID <= 0 {
		return nil, utils.Forbidden("posting requires an authenticated user")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	accountRepo := db.NewAccountRepository(s.repo)
	author, err := accountRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.Database("failed to load author", err)
	}
	if author == nil {
		return nil, utils.Forbidden("unknown user")
	}

	now := s.now()
	post := &models.Post{
		Title:       strings.TrimSpace(in.Title),
		Body:        in.Body,
		AuthorID:    sql.NullInt64{Int64: userID, Valid: true},
		IsAnonymous: in.IsAnonymous,
		Source:      models.SourceNative,
		CreatedAt:   now,
	}
	if in.MediaURL != "" {
		post.MediaURL = sql.NullString{String: in.MediaURL, Valid: true}
	}
	if in.CategoryID != 0 {
		post.CategoryID = sql.NullInt64{Int64: in.CategoryID, Valid: true}
	}
	if in.ProcedureID != 0 {
		post.ProcedureID = sql.NullInt64{Int64: in.ProcedureID, Valid: true}
	}
	if author.IsVerifiedProfessional {
		post.Source = models.SourceProfessional
		post.IsProfessionalVerified = true
	}

	// A fresh post's score is just its bonuses at full decay weight
	post.EngagementScore = scoring.Engagement(0, 0, 0, post.IsProfessionalVerified, now, now)

	if err := db.NewPostRepository(s.repo).Create(ctx, post); err != nil {
		return nil, utils.Database("failed to create post", err)
	}

	s.logger.Info("Post created",
		zap.Int64("post_id", post.ID),
		zap.String("source", string(post.Source)))

	return post, nil
}

// Get returns a live post and counts the view. The view bump is an atomic
// increment and is deliberately not reflected in the returned snapshot.
func (s *Service) Get(ctx context.Context, postID int64) (*models.Post, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.get")
	defer span.End()

	postRepo := db.NewPostRepository(s.repo)
	post, err := postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, utils.Database("failed to load post", err)
	}
	if post == nil {
		return nil, utils.NotFound("post not found")
	}

	if err := postRepo.IncrementViewCount(ctx, postID); err != nil {
		return nil, utils.Database("failed to count view", err)
	}

	return post, nil
}

// Replies returns a post's live replies, oldest first
func (s *Service) Replies(ctx context.Context, postID int64) ([]*models.Reply, error) {
	post, err := db.NewPostRepository(s.repo).GetByID(ctx, postID)
	if err != nil {
		return nil, utils.Database("failed to load post", err)
	}
	if post == nil {
		return nil, utils.NotFound("post not found")
	}

	replies, err := db.NewReplyRepository(s.repo).ListByPost(ctx, postID)
	if err != nil {
		return nil, utils.Database("failed to list replies", err)
	}
	return replies, nil
}

// ReplyInput carries the fields for a new reply
type ReplyInput struct {
	Body          string
	ParentReplyID int64
	IsAnonymous   bool
}

// CreateReply adds a reply to a post's thread. The reply row, the thread
// root's reply_count increment and its rescore commit in one transaction.
func (s *Service) CreateReply(ctx context.Context, userID, postID int64, in ReplyInput) (*models.Reply, error) {
	ctx, span := telemetry.StartSpan(ctx, "posts.create_reply")
	defer span.End()

	if userID <= 0 {
		return nil, utils.Forbidden("replying requires an authenticated user")
	}
	if strings.TrimSpace(in.Body) == "" {
		return nil, utils.InvalidInput("body is required")
	}

	var reply *models.Reply
	err := s.repo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("is_removed = ?", false).First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("post not found")
			}
			return utils.Database("failed to load post", err)
		}

		if in.ParentReplyID != 0 {
			var parent models.Reply
			err := tx.Where("is_removed = ?", false).First(&parent, in.ParentReplyID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("parent reply not found")
			}
			if err != nil {
				return utils.Database("failed to load parent reply", err)
			}
			if parent.PostID != postID {
				return utils.InvalidInput("parent reply belongs to a different post")
			}
		}

		newReply := models.Reply{
			PostID:      postID,
			AuthorID:    sql.NullInt64{Int64: userID, Valid: true},
			Body:        in.Body,
			IsAnonymous: in.IsAnonymous,
			CreatedAt:   s.now(),
		}
		if in.ParentReplyID != 0 {
			newReply.ParentReplyID = sql.NullInt64{Int64: in.ParentReplyID, Valid: true}
		}
		if err := tx.Create(&newReply).Error; err != nil {
			return utils.Database("failed to create reply", err)
		}

		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
			return utils.Database("failed to update reply count", err)
		}

		var updated models.Post
		if err := tx.First(&updated, postID).Error; err != nil {
			return utils.Database("failed to reload post", err)
		}
		score := scoring.Engagement(
			updated.Upvotes, updated.Downvotes, updated.ReplyCount,
			updated.IsProfessionalVerified, updated.CreatedAt, s.now(),
		)
		if err := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			Update("engagement_score", score).Error; err != nil {
			return utils.Database("failed to update engagement score", err)
		}

		reply = &newReply
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Reply created",
		zap.Int64("reply_id", reply.ID),
		zap.Int64("post_id", postID))

	return reply, nil
}
