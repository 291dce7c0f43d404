package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/service"
)

const defaultRecommendationLimit = 10

type RecommendationHandler struct {
	recommendations *service.RecommendationService
	authService     *service.AuthService
	refreshLimiter  *middleware.RateLimiter
}

func NewRecommendationHandler(recommendations *service.RecommendationService, authService *service.AuthService, refreshLimiter *middleware.RateLimiter) *RecommendationHandler {
	return &RecommendationHandler{
		recommendations: recommendations,
		authService:     authService,
		refreshLimiter:  refreshLimiter,
	}
}

func (h *RecommendationHandler) RegisterRoutes(router *gin.RouterGroup) {
	recs := router.Group("/recommendations")
	{
		recs.GET("/popular", h.GetPopular)
		recs.GET("", middleware.AuthMiddleware(h.authService), h.GetRecommendations)

		refresh := recs.Group("", middleware.AuthMiddleware(h.authService))
		if h.refreshLimiter != nil {
			refresh.Use(h.refreshLimiter.RateLimitMiddleware())
		}
		refresh.POST("/refresh", h.Refresh)
	}
}

// GetRecommendations serves the personalized list. Personalization is
// best-effort: no history or any internal failure downgrades to the
// popularity baseline rather than erroring.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	limit := queryLimit(c)

	result, err := h.recommendations.GetRecommendations(c.Request.Context(), userID.(uuid.UUID), limit)
	if err != nil {
		if !errors.Is(err, service.ErrNoHistory) {
			log.Printf("[Recommendations] personalized path failed for user %v: %v", userID, err)
		}
		items, perr := h.recommendations.GetPopularRecommendations(c.Request.Context(), limit)
		if perr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"recommendations": items,
			"cached":          false,
			"personalized":    false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendations": result.Items,
		"cached":          result.Cached,
		"personalized":    true,
	})
}

func (h *RecommendationHandler) GetPopular(c *gin.Context) {
	items, err := h.recommendations.GetPopularRecommendations(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": items})
}

func (h *RecommendationHandler) Refresh(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	h.recommendations.Refresh(c.Request.Context(), userID.(uuid.UUID))
	c.JSON(http.StatusOK, gin.H{"message": "Recommendations will be rebuilt on next request"})
}

func queryLimit(c *gin.Context) int {
	limit := defaultRecommendationLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 50 {
			limit = parsed
		}
	}
	return limit
}
