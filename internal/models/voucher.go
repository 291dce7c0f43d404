package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Voucher struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Code           string         `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Description    string         `gorm:"size:255" json:"description"`
	CoinCost       int            `gorm:"not null" json:"coin_cost"`
	DiscountValue  float64        `gorm:"not null" json:"discount_value"`
	MaxRedemptions int            `gorm:"not null;default:0" json:"max_redemptions"`
	RedeemedCount  int            `gorm:"not null;default:0" json:"redeemed_count"`
	ExpiresAt      time.Time      `json:"expires_at"`
}

type UserVoucher struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	VoucherID uuid.UUID `gorm:"type:uuid;not null;index" json:"voucher_id"`
	Used      bool      `gorm:"not null;default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
