package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupSession is a host-owned shared cart. Guests attach via the 4-digit
// join code; IsActive doubles as the poll-based close signal.
type GroupSession struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	HostUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"host_user_id"`
	JoinCode   string    `gorm:"size:4;not null;index" json:"join_code"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GroupCartItem holds one contributor's line in a shared cart. The unique
// index backs the ON CONFLICT quantity increment.
type GroupCartItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_cart_line;index" json:"session_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_cart_line" json:"user_id"`
	MenuItemID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_group_cart_line" json:"menu_item_id"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
