package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("user has already reviewed this item")
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview writes one review per (user, menu item); a second attempt
// reports ErrAlreadyReviewed.
func (s *ReviewService) CreateReview(ctx context.Context, userID, menuItemID uuid.UUID, rating int, text, photoURL string) (*models.Review, error) {
	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", menuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	var existing models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItemID).
		First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := models.Review{
		ID:         uuid.New(),
		UserID:     userID,
		MenuItemID: menuItemID,
		Rating:     rating,
		Text:       text,
		PhotoURL:   photoURL,
	}
	if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListForMenuItem returns unflagged reviews, newest first.
func (s *ReviewService) ListForMenuItem(ctx context.Context, menuItemID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("menu_item_id = ? AND flagged = ?", menuItemID, false).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// Flag hides a review from public listings pending moderation.
func (s *ReviewService) Flag(ctx context.Context, reviewID uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("flagged", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// AttachPhoto links an uploaded photo to the reviewer's own review.
func (s *ReviewService) AttachPhoto(ctx context.Context, reviewID, userID uuid.UUID, photoURL string) error {
	res := s.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Update("photo_url", photoURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
