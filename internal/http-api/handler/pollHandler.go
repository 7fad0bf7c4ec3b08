package handler

import (
	"errors"
	"net/http"
	"strconv"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	pollService service.PollService
}

func NewPollHandler(pollService service.PollService) *PollHandler {
	return &PollHandler{
		pollService: pollService,
	}
}

// RegisterPublicRoutes registers poll listing and voting
func (h *PollHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	polls := router.Group("/polls")
	{
		polls.GET("", h.ListActive)
		polls.POST("/:id/vote", h.Vote)
	}
}

// RegisterAdminRoutes registers poll management routes
func (h *PollHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	polls := router.Group("/polls")
	{
		polls.POST("", h.Create)
		polls.POST("/:id/close", h.Close)
	}
}

// ListActive retrieves open polls with running vote counts
// GET /api/polls
func (h *PollHandler) ListActive(c *gin.Context) {
	polls, err := h.pollService.ListActive()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list polls"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": polls})
}

// Vote casts a vote in an open poll, one per caller
// POST /api/polls/:id/vote
func (h *PollHandler) Vote(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID"})
		return
	}

	var req dto.VoteDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poll, err := h.pollService.Vote(pollID, &req, identityFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPollNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPollClosed), errors.Is(err, service.ErrInvalidOption), errors.Is(err, service.ErrMissingIdentity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAlreadyVoted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		}
		return
	}

	c.JSON(http.StatusOK, poll)
}

// Create opens a new poll
// POST /api/admin/polls
func (h *PollHandler) Create(c *gin.Context) {
	var req dto.CreatePollDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	poll, err := h.pollService.Create(c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create poll"})
		return
	}

	c.JSON(http.StatusCreated, poll)
}

// Close ends voting on a poll
// POST /api/admin/polls/:id/close
func (h *PollHandler) Close(c *gin.Context) {
	pollID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid poll ID"})
		return
	}

	if err := h.pollService.Close(pollID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to close poll"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Poll closed"})
}
