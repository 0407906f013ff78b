// Package ranking orders the post store for the public listings. Each sort
// mode maps to one total order (ties broken by id) so pagination over a
// fixed snapshot is stable and deterministic.
package ranking

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/highhandantidote/community/internal/cache"
	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/pkg/logging"
	"github.com/highhandantidote/community/pkg/telemetry"
)

// SortMode selects the listing order
type SortMode string

// Sort mode constants
const (
	SortHot          SortMode = "hot"
	SortNew          SortMode = "new"
	SortTop          SortMode = "top"
	SortImported     SortMode = "imported"
	SortProfessional SortMode = "professional"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// Query describes one listing request
type Query struct {
	Sort       SortMode
	CategoryID int64
	Source     models.PostSource
	Page       int
	PerPage    int
}

// Page is one page of ranked posts
type Page struct {
	Posts   []*models.Post `json:"posts"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
	HasMore bool           `json:"has_more"`
}

// Service ranks and pages posts
type Service struct {
	repo   *db.Repository
	cache  *cache.Cache
	logger *zap.Logger
}

// NewService creates a new ranking service
func NewService(repo *db.Repository, redisCache *cache.Cache) *Service {
	return &Service{
		repo:   repo,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "ranking")),
	}
}

// orderClause maps a sort mode to its ORDER BY. Ties always fall back to
// id so two posts with equal keys never swap between pages.
func orderClause(sort SortMode) (string, error) {
	switch sort {
	case SortHot:
		return "engagement_score DESC, id DESC", nil
	case SortNew:
		return "created_at DESC, id DESC", nil
	case SortTop:
		return "total_votes DESC, id DESC", nil
	case SortImported:
		return "imported_at DESC, id DESC", nil
	case SortProfessional:
		return "created_at DESC, id DESC", nil
	}
	return "", fmt.Errorf("invalid sort mode: %s", sort)
}

// cacheTTL returns cache TTL based on sort mode
func cacheTTL(sort SortMode) time.Duration {
	switch sort {
	case SortNew:
		return 3 * time.Second
	case SortHot:
		return 60 * time.Second
	case SortTop:
		return 30 * time.Second
	case SortImported:
		return 300 * time.Second
	default:
		return 60 * time.Second
	}
}

// normalize clamps pagination to sane bounds
func normalize(q Query) (Query, error) {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.PerPage == 0 {
		q.PerPage = defaultPerPage
	}
	if q.Page < 1 || q.PerPage < 1 {
		return q, utils.InvalidInput("page and per_page must be positive")
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q, nil
}

// ListPosts returns one page of live top-level posts in the requested
// order. Tombstoned posts and replies never appear.
func (s *Service) ListPosts(ctx context.Context, q Query) (*Page, error) {
	ctx, span := telemetry.StartSpan(ctx, "ranking.list_posts")
	defer span.End()

	q, err := normalize(q)
	if err != nil {
		return nil, err
	}

	order, err := orderClause(q.Sort)
	if err != nil {
		return nil, utils.InvalidInput(err.Error())
	}

	cacheKey := cache.HashKey(
		"list_posts",
		string(q.Sort),
		fmt.Sprintf("%d", q.CategoryID),
		string(q.Source),
		fmt.Sprintf("%d", q.Page),
		fmt.Sprintf("%d", q.PerPage),
	)

	if s.cache != nil {
		var cached Page
		if err := s.cache.GetJSON(cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	posts, err := s.queryPosts(ctx, q, order)
	if err != nil {
		return nil, utils.Database("failed to list posts", err)
	}

	result := &Page{
		Posts:   posts,
		Page:    q.Page,
		PerPage: q.PerPage,
		HasMore: len(posts) == q.PerPage,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(cacheKey, result, cacheTTL(q.Sort)); err != nil && err != cache.ErrCacheDisabled {
			s.logger.Warn("Failed to cache listing", zap.Error(err))
		}
	}

	return result, nil
}

func (s *Service) queryPosts(ctx context.Context, q Query, order string) ([]*models.Post, error) {
	query := s.repo.DB().WithContext(ctx).
		Model(&models.Post{}).
		Where("is_removed = ?", false)

	switch q.Sort {
	case SortImported:
		query = query.Where("source = ?", models.SourceReddit)
	case SortProfessional:
		query = query.Where("is_professional_verified = ?", true)
	}

	if q.CategoryID != 0 {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.Source != "" && q.Sort != SortImported {
		query = query.Where("source = ?", q.Source)
	}

	var posts []*models.Post
	if err := query.
		Order(order).
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
