package handler

import (
	"errors"
	"net/http"
	"strconv"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// RegisterRoutes registers review-related routes
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	menuItemReviews := router.Group("/menu-items/:id/reviews")
	{
		menuItemReviews.GET("", h.ListByMenuItem) // Get visible reviews for a menu item
		menuItemReviews.POST("", h.Create)        // Submit a review (moderated)
	}

	router.POST("/reviews/:id/report", h.Report) // Flag a review for admin attention
}

// identityFromContext collects whichever identity the middleware resolved:
// the authenticated user (OptionalAuth) and/or the device fingerprint.
func identityFromContext(c *gin.Context) service.CallerIdentity {
	return service.CallerIdentity{
		UserID:            c.GetString("userID"),
		DeviceFingerprint: c.GetString("deviceFingerprint"),
	}
}

// Create submits a review for a menu item
// POST /api/menu-items/:id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	menuItemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.reviewService.CreateReview(c.Request.Context(), menuItemID, &req, identityFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrMissingIdentity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDeviceBanned):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrContentRejected):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListByMenuItem retrieves visible reviews for a menu item with pagination
// GET /api/menu-items/:id/reviews?page=1&page_size=20
func (h *ReviewHandler) ListByMenuItem(c *gin.Context) {
	menuItemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, err := h.reviewService.GetMenuItemReviews(menuItemID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reviews"})
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// Report flags a review so it disappears until an admin looks at it
// POST /api/reviews/:id/report
func (h *ReviewHandler) Report(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
		return
	}

	if err := h.reviewService.ReportReview(reviewID); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to report review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review reported and hidden pending moderation"})
}
