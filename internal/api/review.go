package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/types"
)

// maxReviewPhotoSize caps uploads at 5 MiB.
const maxReviewPhotoSize = 5 << 20

type ReviewHandler struct {
	reviewService *service.ReviewService
	imageService  *service.ImageService
	authService   *service.AuthService
}

func NewReviewHandler(reviewService *service.ReviewService, imageService *service.ImageService, authService *service.AuthService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		imageService:  imageService,
		authService:   authService,
	}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)

	router.GET("/menu-items/:id/reviews", h.ListForMenuItem)

	reviews := router.Group("/reviews", auth)
	{
		reviews.POST("", h.CreateReview)
		reviews.POST("/:id/photo", h.UploadPhoto)
		reviews.POST("/:id/flag", middleware.RequireRole(models.RoleAdmin), h.FlagReview)
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req types.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), c.MustGet("user_id").(uuid.UUID),
		req.MenuItemID, req.Rating, req.Text, req.PhotoURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMenuItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Menu item not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this item"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) ListForMenuItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid menu item id"})
		return
	}

	reviews, err := h.reviewService.ListForMenuItem(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// UploadPhoto stores a multipart photo in S3 and links it to the caller's
// review.
func (h *ReviewHandler) UploadPhoto(c *gin.Context) {
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo uploads are not configured"})
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxReviewPhotoSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo exceeds maximum size"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxReviewPhotoSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read photo"})
		return
	}

	url, err := h.imageService.UploadReviewPhoto(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload photo"})
		return
	}

	if err := h.reviewService.AttachPhoto(c.Request.Context(), reviewID, c.MustGet("user_id").(uuid.UUID), url); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach photo"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

func (h *ReviewHandler) FlagReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := h.reviewService.Flag(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to flag review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review flagged for moderation", "id": id})
}
