package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_item" json:"user_id"`
	MenuItemID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_item;index" json:"menu_item_id"`
	Rating     int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Text       string         `gorm:"type:text" json:"text"`
	PhotoURL   string         `gorm:"size:255" json:"photo_url"`
	Flagged    bool           `gorm:"not null;default:false" json:"flagged"`
}
