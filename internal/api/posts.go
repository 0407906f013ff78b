package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/highhandantidote/community/internal/api/objects"
	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/posts"
	"github.com/highhandantidote/community/internal/ranking"
	"github.com/highhandantidote/community/internal/utils"
)

// PostHandlers serves the post listing and thread endpoints
type PostHandlers struct {
	ranking *ranking.Service
	posts   *posts.Service
}

// NewPostHandlers creates post handlers
func NewPostHandlers(rankingService *ranking.Service, postService *posts.Service) *PostHandlers {
	return &PostHandlers{
		ranking: rankingService,
		posts:   postService,
	}
}

// List handles GET /community/posts
func (h *PostHandlers) List(c *gin.Context) {
	sort := c.DefaultQuery("sort", string(ranking.SortHot))
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, err)
		return
	}
	perPage, err := intQuery(c, "per_page", 0)
	if err != nil {
		respondError(c, err)
		return
	}
	categoryID, err := intQuery(c, "category", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.ranking.ListPosts(c.Request.Context(), ranking.Query{
		Sort:       ranking.SortMode(sort),
		CategoryID: categoryID,
		Source:     models.PostSource(c.Query("source")),
		Page:       int(page),
		PerPage:    int(perPage),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":    objects.BuildPosts(result.Posts),
		"page":     result.Page,
		"per_page": result.PerPage,
		"has_more": result.HasMore,
	})
}

// Get handles GET /community/posts/:id
func (h *PostHandlers) Get(c *gin.Context) {
	postID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.posts.Get(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.BuildPost(post))
}

type createPostRequest struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	MediaURL    string `json:"media_url"`
	CategoryID  int64  `json:"category_id"`
	ProcedureID int64  `json:"procedure_id"`
	IsAnonymous bool   `json:"is_anonymous"`
}

// Create handles POST /community/posts
func (h *PostHandlers) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.InvalidInput("malformed request body"))
		return
	}

	post, err := h.posts.Create(c.Request.Context(), CurrentUserID(c), posts.CreateInput{
		Title:       req.Title,
		Body:        req.Body,
		MediaURL:    req.MediaURL,
		CategoryID:  req.CategoryID,
		ProcedureID: req.ProcedureID,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.BuildPost(post))
}

// Replies handles GET /community/posts/:id/replies
func (h *PostHandlers) Replies(c *gin.Context) {
	postID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	replies, err := h.posts.Replies(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"replies": objects.BuildReplies(replies)})
}

type createReplyRequest struct {
	Body          string `json:"body"`
	ParentReplyID int64  `json:"parent_reply_id"`
	IsAnonymous   bool   `json:"is_anonymous"`
}

// CreateReply handles POST /community/posts/:id/replies
func (h *PostHandlers) CreateReply(c *gin.Context) {
	postID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req createReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.InvalidInput("malformed request body"))
		return
	}

	reply, err := h.posts.CreateReply(c.Request.Context(), CurrentUserID(c), postID, posts.ReplyInput{
		Body:          req.Body,
		ParentReplyID: req.ParentReplyID,
		IsAnonymous:   req.IsAnonymous,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.BuildReply(reply))
}

// idParam parses the :id path segment
func idParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, utils.InvalidInput("id must be a positive integer")
	}
	return id, nil
}

// intQuery parses an optional integer query parameter
func intQuery(c *gin.Context, name string, defaultValue int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, utils.InvalidInput(name + " must be an integer")
	}
	return v, nil
}
