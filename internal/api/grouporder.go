package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/types"
)

type GroupOrderHandler struct {
	groupOrders *service.GroupOrderService
	authService *service.AuthService
}

func NewGroupOrderHandler(groupOrders *service.GroupOrderService, authService *service.AuthService) *GroupOrderHandler {
	return &GroupOrderHandler{
		groupOrders: groupOrders,
		authService: authService,
	}
}

func (h *GroupOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/group-order")
	{
		group.POST("/join", h.JoinSession)
		group.GET("/:sessionId/cart", h.GetCart)

		authed := group.Group("", middleware.AuthMiddleware(h.authService))
		authed.POST("/start", h.StartSession)
		authed.POST("/add", h.AddToCart)
		authed.POST("/finalize", h.Finalize)
	}
}

func (h *GroupOrderHandler) StartSession(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	session, err := h.groupOrders.StartSession(c.Request.Context(), userID.(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start group session"})
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *GroupOrderHandler) JoinSession(c *gin.Context) {
	var req types.JoinSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.groupOrders.JoinSession(c.Request.Context(), req.JoinCode)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group session"})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *GroupOrderHandler) AddToCart(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.AddToGroupCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.groupOrders.AddToCart(c.Request.Context(), req.SessionID, userID.(uuid.UUID), req.MenuItemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group session not found"})
		case errors.Is(err, service.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to group cart"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added to group cart"})
}

// GetCart is the polling endpoint: 404 is the authoritative signal that the
// session finalized or expired.
func (h *GroupOrderHandler) GetCart(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	lines, err := h.groupOrders.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch group cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": lines})
}

func (h *GroupOrderHandler) Finalize(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req types.FinalizeGroupOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.groupOrders.Finalize(c.Request.Context(), req.SessionID, userID.(uuid.UUID), req.TotalAmount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group session not found"})
		case errors.Is(err, service.ErrNotSessionHost):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the host can finalize this session"})
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to finalize group order"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderId":     order.ID,
		"totalAmount": order.TotalAmount,
	})
}
