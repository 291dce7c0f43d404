package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/types"
)

type StallHandler struct {
	menuService *service.MenuService
	authService *service.AuthService
}

func NewStallHandler(menuService *service.MenuService, authService *service.AuthService) *StallHandler {
	return &StallHandler{
		menuService: menuService,
		authService: authService,
	}
}

func (h *StallHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	ownerOnly := middleware.RequireRole(models.RoleStallOwner, models.RoleAdmin)

	stalls := router.Group("/stalls")
	{
		stalls.GET("", h.ListStalls)
		stalls.GET("/:id", h.GetStall)
		stalls.GET("/:id/menu", h.ListMenu)
		stalls.POST("", auth, ownerOnly, h.CreateStall)
		stalls.PUT("/:id", auth, ownerOnly, h.UpdateStall)
		stalls.DELETE("/:id", auth, ownerOnly, h.DeleteStall)
	}

	items := router.Group("/menu-items")
	{
		items.GET("", h.SearchMenuItems)
		items.GET("/:id", h.GetMenuItem)
		items.POST("", auth, ownerOnly, h.CreateMenuItem)
		items.PUT("/:id", auth, ownerOnly, h.UpdateMenuItem)
		items.DELETE("/:id", auth, ownerOnly, h.DeleteMenuItem)
	}
}

func (h *StallHandler) ListStalls(c *gin.Context) {
	stalls, err := h.menuService.ListStalls(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stalls"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stalls": stalls})
}

func (h *StallHandler) GetStall(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stall id"})
		return
	}

	stall, err := h.menuService.GetStall(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stall not found"})
		return
	}
	c.JSON(http.StatusOK, stall)
}

func (h *StallHandler) ListMenu(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stall id"})
		return
	}

	items, err := h.menuService.ListMenuForStall(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch menu"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *StallHandler) CreateStall(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.CreateStallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stall, err := h.menuService.CreateStall(c.Request.Context(), userID.(uuid.UUID), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stall"})
		return
	}
	c.JSON(http.StatusCreated, stall)
}

func (h *StallHandler) UpdateStall(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stall id"})
		return
	}

	var req types.UpdateStallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stall, err := h.menuService.UpdateStall(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID), c.GetString("role"), &req)
	if err != nil {
		writeStallError(c, err, "Failed to update stall")
		return
	}
	c.JSON(http.StatusOK, stall)
}

func (h *StallHandler) DeleteStall(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stall id"})
		return
	}

	if err := h.menuService.DeleteStall(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID), c.GetString("role")); err != nil {
		writeStallError(c, err, "Failed to delete stall")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stall deleted successfully", "id": id})
}

func (h *StallHandler) SearchMenuItems(c *gin.Context) {
	items, err := h.menuService.SearchMenuItems(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search menu items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *StallHandler) GetMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	item, err := h.menuService.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *StallHandler) CreateMenuItem(c *gin.Context) {
	var req types.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), c.MustGet("user_id").(uuid.UUID), c.GetString("role"), &req)
	if err != nil {
		writeStallError(c, err, "Failed to create menu item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *StallHandler) UpdateMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	var req types.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.menuService.UpdateMenuItem(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID), c.GetString("role"), &req)
	if err != nil {
		writeStallError(c, err, "Failed to update menu item")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *StallHandler) DeleteMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	if err := h.menuService.DeleteMenuItem(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID), c.GetString("role")); err != nil {
		writeStallError(c, err, "Failed to delete menu item")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully", "id": id})
}

func writeStallError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrStallNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Stall not found"})
	case errors.Is(err, service.ErrMenuItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
	case errors.Is(err, service.ErrNotStallOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not own this stall"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
