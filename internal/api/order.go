package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/types"
)

type OrderHandler struct {
	orderService *service.OrderService
	authService  *service.AuthService
}

func NewOrderHandler(orderService *service.OrderService, authService *service.AuthService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		authService:  authService,
	}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/orders", middleware.AuthMiddleware(h.authService))
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("/:id/collect", h.MarkCollected)
		orders.POST("/:id/pay", h.MarkPaid)
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req types.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), c.MustGet("user_id").(uuid.UUID), req.Items)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		case errors.Is(err, service.ErrEmptyOrder):
			c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orderService.ListOrders(c.Request.Context(), c.MustGet("user_id").(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.UserID != c.MustGet("user_id").(uuid.UUID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another user"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) MarkCollected(c *gin.Context) {
	h.transition(c, h.orderService.MarkCollected)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.orderService.MarkPaid)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := fn(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, service.ErrNotOrderOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Order belongs to another user"})
		case errors.Is(err, service.ErrAlreadyCollected), errors.Is(err, service.ErrAlreadyPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}

	c.JSON(http.StatusOK, order)
}
