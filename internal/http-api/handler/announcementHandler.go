package handler

import (
	"errors"
	"net/http"
	"strconv"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
	}
}

// RegisterPublicRoutes registers the public announcement feed
func (h *AnnouncementHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/announcements", h.List)
}

// RegisterAdminRoutes registers announcement management routes
func (h *AnnouncementHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	announcements := router.Group("/announcements")
	{
		announcements.POST("", h.Create)
		announcements.PUT("/:id", h.Update)
		announcements.DELETE("/:id", h.Delete)
	}
}

// List retrieves announcements, pinned first
// GET /api/announcements
func (h *AnnouncementHandler) List(c *gin.Context) {
	announcements, err := h.announcementService.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": announcements})
}

// Create publishes an announcement
// POST /api/admin/announcements
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req dto.CreateAnnouncementDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement, err := h.announcementService.Create(c.GetString("userID"), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// Update modifies an existing announcement
// PUT /api/admin/announcements/:id
func (h *AnnouncementHandler) Update(c *gin.Context) {
	announcementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	var req dto.CreateAnnouncementDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	announcement, err := h.announcementService.Update(announcementID, &req)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update announcement"})
		return
	}

	c.JSON(http.StatusOK, announcement)
}

// Delete removes an announcement
// DELETE /api/admin/announcements/:id
func (h *AnnouncementHandler) Delete(c *gin.Context) {
	announcementID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement ID"})
		return
	}

	if err := h.announcementService.Delete(announcementID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete announcement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
}
