package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"whattheygot/internal/http-api/dto"
	"whattheygot/internal/http-api/service"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService service.MenuService
}

func NewMenuHandler(menuService service.MenuService) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
	}
}

// RegisterPublicRoutes registers the read-only menu surface
func (h *MenuHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/menu", h.GetMenu)
}

// RegisterAdminRoutes registers menu management routes (mounted behind
// admin auth by the caller)
func (h *MenuHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	menu := router.Group("/menu-items")
	{
		menu.POST("", h.Create)
		menu.POST("/bulk", h.BulkCreate) // Used by the menu sync job
		menu.PUT("/:id", h.Update)
		menu.DELETE("/:id", h.Delete)
	}
}

// GetMenu retrieves the menu for a day, optionally filtered by meal period
// GET /api/menu?date=2026-08-29&meal=lunch
func (h *MenuHandler) GetMenu(c *gin.Context) {
	dateParam := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	servedOn, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	meal := c.Query("meal")
	switch meal {
	case "", "breakfast", "lunch", "dinner":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal period"})
		return
	}

	items, err := h.menuService.GetMenu(c.Request.Context(), servedOn, meal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load menu"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// Create adds a single menu item
// POST /api/admin/menu-items
func (h *MenuHandler) Create(c *gin.Context) {
	var req dto.CreateMenuItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create menu item"})
		return
	}

	c.JSON(http.StatusCreated, item)
}

// BulkCreate inserts a batch of menu items, skipping duplicates
// POST /api/admin/menu-items/bulk
func (h *MenuHandler) BulkCreate(c *gin.Context) {
	var req dto.BulkCreateMenuDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.menuService.BulkCreateMenuItems(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to import menu items"})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Update modifies an existing menu item
// PUT /api/admin/menu-items/:id
func (h *MenuHandler) Update(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	var req dto.UpdateMenuItemDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), itemID, &req)
	if err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update menu item"})
		return
	}

	c.JSON(http.StatusOK, item)
}

// Delete removes a menu item
// DELETE /api/admin/menu-items/:id
func (h *MenuHandler) Delete(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid menu item ID"})
		return
	}

	if err := h.menuService.DeleteMenuItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, service.ErrMenuItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete menu item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted"})
}
