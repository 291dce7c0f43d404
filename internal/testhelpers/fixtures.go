package testhelpers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/makanlah/backend/internal/models"
)

// TestPassword is the plaintext behind every fixture user's hash.
const TestPassword = "password123"

func CreateTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	user := models.User{
		ID:           uuid.New(),
		Name:         strings.Split(email, "@")[0],
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return &user
}

func CreateTestStall(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) *models.Stall {
	t.Helper()

	stall := models.Stall{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    name,
		IsOpen:  true,
	}
	if err := db.Create(&stall).Error; err != nil {
		t.Fatalf("failed to create test stall: %v", err)
	}
	return &stall
}

func CreateTestMenuItem(t *testing.T, db *gorm.DB, stallID uuid.UUID, name, category string, price float64) *models.MenuItem {
	t.Helper()

	item := models.MenuItem{
		ID:          uuid.New(),
		StallID:     stallID,
		Name:        name,
		Category:    category,
		Price:       price,
		IsAvailable: true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("failed to create test menu item: %v", err)
	}
	return &item
}

// PerformRequest runs one request through the router and captures the
// response. An empty token leaves the Authorization header off.
func PerformRequest(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
