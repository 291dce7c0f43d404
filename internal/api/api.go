package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makanlah/backend/config"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/service"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SetupAPI wires services and handlers onto /api/v1. The S3 config may be
// nil (photo upload disabled); everything else is required.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, s3cfg *config.S3Config, cfg *config.Config) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, cfg.JWTSecret)
		embeddingService := service.NewEmbeddingService(cfg.EmbeddingServiceURL)
		menuService := service.NewMenuService(db, embeddingService)
		orderService := service.NewOrderService(db)
		notificationService := service.NewNotificationService(db)
		groupOrderService := service.NewGroupOrderService(db, notificationService)
		reviewService := service.NewReviewService(db)
		voucherService := service.NewVoucherService(db)
		cache := service.NewRedisRecommendationCache(redisClient)
		recommendationService := service.NewRecommendationService(db, cache)

		var imageService *service.ImageService
		if s3cfg != nil {
			imageService = service.NewImageService(s3cfg)
		}

		refreshLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     5,
			KeyPrefix: "ratelimit:rec-refresh",
		})

		NewAuthHandler(authService).RegisterRoutes(v1)
		NewStallHandler(menuService, authService).RegisterRoutes(v1)
		NewOrderHandler(orderService, authService).RegisterRoutes(v1)
		NewReviewHandler(reviewService, imageService, authService).RegisterRoutes(v1)
		NewVoucherHandler(voucherService, authService).RegisterRoutes(v1)
		NewNotificationHandler(notificationService, authService).RegisterRoutes(v1)
		NewRecommendationHandler(recommendationService, authService, refreshLimiter).RegisterRoutes(v1)
		NewGroupOrderHandler(groupOrderService, authService).RegisterRoutes(v1)
	}
}
