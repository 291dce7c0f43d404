package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/service"
)

type VoucherHandler struct {
	voucherService *service.VoucherService
	authService    *service.AuthService
}

func NewVoucherHandler(voucherService *service.VoucherService, authService *service.AuthService) *VoucherHandler {
	return &VoucherHandler{
		voucherService: voucherService,
		authService:    authService,
	}
}

func (h *VoucherHandler) RegisterRoutes(router *gin.RouterGroup) {
	vouchers := router.Group("/vouchers")
	{
		vouchers.GET("", h.ListVouchers)

		auth := middleware.AuthMiddleware(h.authService)
		vouchers.GET("/mine", auth, h.ListMine)
		vouchers.POST("/:id/redeem", auth, h.Redeem)
	}
}

func (h *VoucherHandler) ListVouchers(c *gin.Context) {
	vouchers, err := h.voucherService.ListVouchers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vouchers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers})
}

func (h *VoucherHandler) ListMine(c *gin.Context) {
	redemptions, err := h.voucherService.ListUserVouchers(c.Request.Context(), c.MustGet("user_id").(uuid.UUID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vouchers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": redemptions})
}

func (h *VoucherHandler) Redeem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid voucher id"})
		return
	}

	redemption, err := h.voucherService.Redeem(c.Request.Context(), id, c.MustGet("user_id").(uuid.UUID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVoucherNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		case errors.Is(err, service.ErrVoucherExpired), errors.Is(err, service.ErrVoucherExhausted),
			errors.Is(err, service.ErrInsufficientCoins):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to redeem voucher"})
		}
		return
	}

	c.JSON(http.StatusOK, redemption)
}
