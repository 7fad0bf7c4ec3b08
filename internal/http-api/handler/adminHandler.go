package handler

import (
	"errors"
	"net/http"
	"strconv"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the moderation override surface. All routes are
// mounted behind AuthMiddleware + RequireAdmin by the caller.
type AdminHandler struct {
	moderationService service.ModerationService
}

func NewAdminHandler(moderationService service.ModerationService) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
	}
}

// RegisterRoutes registers admin moderation routes
func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/reviews")
	{
		reviews.GET("/pending", h.ListPending)  // Moderation queue
		reviews.POST("/:id/approve", h.Approve) // Override: make visible
		reviews.POST("/:id/reject", h.Reject)   // Override: hide, optionally ban
	}

	bans := router.Group("/bans")
	{
		bans.GET("", h.ListBans)       // All ban rows
		bans.DELETE("/:hash", h.Unban) // Lift a ban
	}

	router.GET("/moderation-events", h.ListEvents) // Audit log
}

func adminIDFromContext(c *gin.Context) string {
	return c.GetString("userID")
}

// ListPending retrieves the manual moderation queue
// GET /api/admin/reviews/pending?page=1&page_size=20
func (h *AdminHandler) ListPending(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := h.moderationService.GetPendingReviews(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list pending reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reviews,
		"page":      page,
		"page_size": pageSize,
		"total":     total,
	})
}

// Approve overrides moderation and makes the review visible
// POST /api/admin/reviews/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	review, err := h.moderationService.ApproveReview(reviewID, adminIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// Reject overrides moderation, hides the review and optionally bans the
// submitting device
// POST /api/admin/reviews/:id/reject
func (h *AdminHandler) Reject(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	var req dto.RejectReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.moderationService.RejectReview(reviewID, adminIDFromContext(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListBans retrieves all banned devices, newest first
// GET /api/admin/bans
func (h *AdminHandler) ListBans(c *gin.Context) {
	bans, err := h.moderationService.GetBannedDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bans})
}

// Unban lifts a device ban. Succeeds even when no ban row exists.
// DELETE /api/admin/bans/:hash
func (h *AdminHandler) Unban(c *gin.Context) {
	hash := c.Param("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing device hash"})
		return
	}

	if err := h.moderationService.UnbanDevice(hash, adminIDFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to unban device"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device unbanned"})
}

// ListEvents retrieves the moderation audit log with optional action filter
// GET /api/admin/moderation-events?action=auto_reject&page=1&page_size=50
func (h *AdminHandler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	events, err := h.moderationService.GetModerationEvents(c.Query("action"), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list moderation events"})
		return
	}

	c.JSON(http.StatusOK, events)
}
