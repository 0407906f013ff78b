package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/highhandantidote/community/internal/models"
	"github.com/highhandantidote/community/internal/utils"
	"github.com/highhandantidote/community/internal/votes"
)

// VoteHandlers serves the vote endpoint
type VoteHandlers struct {
	ledger *votes.Ledger
}

// NewVoteHandlers creates vote handlers
func NewVoteHandlers(ledger *votes.Ledger) *VoteHandlers {
	return &VoteHandlers{ledger: ledger}
}

type castVoteRequest struct {
	VoteType string `json:"vote_type"`
}

type castVoteResponse struct {
	NewVote    *string `json:"new_vote"` // null after a toggle-off
	Upvotes    int64   `json:"upvotes"`
	Downvotes  int64   `json:"downvotes"`
	TotalVotes int64   `json:"total_votes"`
}

// Get handles GET /community/posts/:id/vote
func (h *VoteHandlers) Get(c *gin.Context) {
	postID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	voteType, err := h.ledger.GetVote(c.Request.Context(), CurrentUserID(c), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	var vote *string
	if voteType != models.VoteNone {
		v := string(voteType)
		vote = &v
	}
	c.JSON(http.StatusOK, gin.H{"vote": vote})
}

// Cast handles POST /community/posts/:id/vote
func (h *VoteHandlers) Cast(c *gin.Context) {
	postID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, utils.InvalidInput("malformed request body"))
		return
	}

	result, err := h.ledger.CastVote(c.Request.Context(), CurrentUserID(c), postID, models.VoteType(req.VoteType))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := castVoteResponse{
		Upvotes:    result.Upvotes,
		Downvotes:  result.Downvotes,
		TotalVotes: result.TotalVotes,
	}
	if result.NewVote != models.VoteNone {
		v := string(result.NewVote)
		resp.NewVote = &v
	}

	c.JSON(http.StatusOK, resp)
}
