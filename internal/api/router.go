package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/highhandantidote/community/internal/cache"
	"github.com/highhandantidote/community/internal/db"
	"github.com/highhandantidote/community/internal/moderation"
	"github.com/highhandantidote/community/internal/posts"
	"github.com/highhandantidote/community/internal/ranking"
	"github.com/highhandantidote/community/internal/votes"
	"github.com/highhandantidote/community/pkg/logging"
)

// Router sets up API routes
type Router struct {
	db     *db.DB
	cache  *cache.Cache
	logger *zap.Logger

	postHandlers       *PostHandlers
	voteHandlers       *VoteHandlers
	moderationHandlers *ModerationHandlers
}

// NewRouter creates a new API router
func NewRouter(database *db.DB, redisCache *cache.Cache) *Router {
	repo := db.NewRepository(database.DB)

	return &Router{
		db:     database,
		cache:  redisCache,
		logger: logging.GetLogger().With(zap.String("component", "api-router")),

		postHandlers:       NewPostHandlers(ranking.NewService(repo, redisCache), posts.NewService(repo)),
		voteHandlers:       NewVoteHandlers(votes.NewLedger(repo)),
		moderationHandlers: NewModerationHandlers(moderation.NewLedger(repo)),
	}
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(Identity())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	community := engine.Group("/community")
	{
		community.GET("/posts", r.postHandlers.List)
		community.GET("/posts/:id", r.postHandlers.Get)
		community.GET("/posts/:id/replies", r.postHandlers.Replies)

		authed := community.Group("")
		authed.Use(RequireUser())
		{
			authed.POST("/posts", r.postHandlers.Create)
			authed.POST("/posts/:id/replies", r.postHandlers.CreateReply)
			authed.GET("/posts/:id/vote", r.voteHandlers.Get)
			authed.POST("/posts/:id/vote", r.voteHandlers.Cast)
		}
	}

	mod := engine.Group("/moderation")
	mod.Use(RequireModerator())
	{
		mod.POST("/actions", r.moderationHandlers.Record)
		mod.PATCH("/actions/:id", r.moderationHandlers.Amend)
		mod.GET("/actions", r.moderationHandlers.List)
		mod.GET("/actions/:id", r.moderationHandlers.Get)
	}
}

func (r *Router) healthHandler(c *gin.Context) {
	if err := r.db.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"service": "community-api",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": "community-api",
	})
}
