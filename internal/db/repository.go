package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/highhandantidote/community/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying gorm handle for transactional services
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// AccountRepository provides account-related database operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a live post by ID. Tombstoned posts are treated as
// not found, matching the external contract for rejected content.
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("is_removed = ?", false).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByExternalID retrieves a post by its import source id
func (r *PostRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// IncrementViewCount atomically bumps a post's view counter
func (r *PostRepository) IncrementViewCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

// ReplyRepository provides reply-related database operations
type ReplyRepository struct {
	*Repository
}

// NewReplyRepository creates a new reply repository
func NewReplyRepository(repo *Repository) *ReplyRepository {
	return &ReplyRepository{Repository: repo}
}

// ListByPost retrieves the live replies of a post, oldest first
func (r *ReplyRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Reply, error) {
	var replies []*models.Reply
	if err := r.db.WithContext(ctx).
		Where("post_id = ? AND is_removed = ?", postID, false).
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

// VoteRepository provides vote-related database operations
type VoteRepository struct {
	*Repository
}

// NewVoteRepository creates a new vote repository
func NewVoteRepository(repo *Repository) *VoteRepository {
	return &VoteRepository{Repository: repo}
}

// Get retrieves a user's vote on a post
func (r *VoteRepository) Get(ctx context.Context, userID, postID int64) (*models.Vote, error) {
	var vote models.Vote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// ModerationRepository provides moderation-ledger database operations
type ModerationRepository struct {
	*Repository
}

// NewModerationRepository creates a new moderation repository
func NewModerationRepository(repo *Repository) *ModerationRepository {
	return &ModerationRepository{Repository: repo}
}

// GetByID retrieves a moderation action by ID
func (r *ModerationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ModerationAction, error) {
	var action models.ModerationAction
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

// ActionFilters narrows a moderation action listing
type ActionFilters struct {
	ModeratorID int64
	PostID      int64
	ReplyID     int64
	Action      models.ModerationActionType
}

// List retrieves moderation actions newest first, with offset pagination
func (r *ModerationRepository) List(ctx context.Context, filters ActionFilters, offset, limit int) ([]*models.ModerationAction, error) {
	query := r.db.WithContext(ctx).Model(&models.ModerationAction{})

	if filters.ModeratorID != 0 {
		query = query.Where("moderator_id = ?", filters.ModeratorID)
	}
	if filters.PostID != 0 {
		query = query.Where("post_id = ?", filters.PostID)
	}
	if filters.ReplyID != 0 {
		query = query.Where("reply_id = ?", filters.ReplyID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}

	var actions []*models.ModerationAction
	if err := query.
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&actions).Error; err != nil {
		return nil, err
	}
	return actions, nil
}
