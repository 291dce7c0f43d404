package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Stall struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Location  string         `gorm:"size:255" json:"location"`
	Cuisine   string         `gorm:"size:50" json:"cuisine"`
	ImageURL  string         `gorm:"size:255" json:"image_url"`
	IsOpen    bool           `gorm:"not null;default:true" json:"is_open"`
}

type MenuItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	StallID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"stall_id"`
	Stall       *Stall         `gorm:"foreignKey:StallID" json:"stall,omitempty"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"size:50;index" json:"category"`
	Price       float64        `gorm:"not null" json:"price"`
	ImageURL    string         `gorm:"size:255" json:"image_url"`
	Embedding   Embedding      `gorm:"type:vector(3)" json:"-"`
	IsAvailable bool           `gorm:"not null;default:true" json:"is_available"`
}
