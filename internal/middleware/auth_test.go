package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/makanlah/backend/internal/middleware"
	"github.com/makanlah/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (v *stubValidator) ValidateToken(string) (*types.TokenClaims, error) {
	return v.claims, v.err
}

func protectedRouter(validator middleware.TokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{middleware.AuthMiddleware(validator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.MustGet("user_id").(uuid.UUID)})
	})
	router.GET("/protected", handlers...)
	return router
}

func get(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := protectedRouter(&stubValidator{claims: &types.TokenClaims{UserID: uuid.New()}})
	w := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := protectedRouter(&stubValidator{claims: &types.TokenClaims{UserID: uuid.New()}})

	assert.Equal(t, http.StatusUnauthorized, get(router, "token-without-scheme").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "Basic abc123").Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := protectedRouter(&stubValidator{err: errors.New("token is expired")})
	assert.Equal(t, http.StatusUnauthorized, get(router, "Bearer bad-token").Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	router := protectedRouter(&stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "customer"}})
	assert.Equal(t, http.StatusOK, get(router, "Bearer good-token").Code)
}

func TestRequireRole(t *testing.T) {
	admin := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "admin"}}
	customer := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "customer"}}

	adminOnly := middleware.RequireRole("admin", "stall_owner")

	assert.Equal(t, http.StatusOK, get(protectedRouter(admin, adminOnly), "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, get(protectedRouter(customer, adminOnly), "Bearer t").Code)
}

func TestRateLimiterFailsOpen(t *testing.T) {
	// Redis pointed at a dead address: the limiter must let the request
	// through instead of turning an infra failure into a user-facing error.
	dead := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	limiter := middleware.NewRateLimiter(dead, middleware.RateLimitConfig{
		Window: time.Minute, Limit: 5, KeyPrefix: "test",
	})

	validator := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "customer"}}
	router := protectedRouter(validator, limiter.RateLimitMiddleware())

	w := get(router, "Bearer t")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}
