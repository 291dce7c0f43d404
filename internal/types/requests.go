package types

import (
	"github.com/google/uuid"
)

// Auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=customer stall_owner"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Stalls and menu items

type CreateStallRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	ImageURL string `json:"image_url"`
}

type UpdateStallRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Cuisine  string `json:"cuisine"`
	ImageURL string `json:"image_url"`
	IsOpen   *bool  `json:"is_open"`
}

type CreateMenuItemRequest struct {
	StallID     uuid.UUID `json:"stall_id" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Category    string    `json:"category" binding:"required"`
	Price       float64   `json:"price" binding:"required,gt=0"`
	ImageURL    string    `json:"image_url"`
}

type UpdateMenuItemRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    string   `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

// Orders

type OrderLineRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required,min=1,dive"`
}

// Reviews

type CreateReviewRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Rating     int       `json:"rating" binding:"required,min=1,max=5"`
	Text       string    `json:"text"`
	PhotoURL   string    `json:"photo_url"`
}

// Group ordering

type JoinSessionRequest struct {
	JoinCode string `json:"joinCode" binding:"required,len=4"`
}

type AddToGroupCartRequest struct {
	SessionID  uuid.UUID `json:"sessionId" binding:"required"`
	MenuItemID uuid.UUID `json:"menuItemId" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,gt=0"`
}

type FinalizeGroupOrderRequest struct {
	SessionID   uuid.UUID `json:"sessionId" binding:"required"`
	TotalAmount float64   `json:"totalAmount"`
}
