package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/types"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrNotOrderOwner    = errors.New("order belongs to another user")
	ErrAlreadyCollected = errors.New("order already collected")
	ErrAlreadyPaid      = errors.New("order already paid")
)

// OrderLine is a priced line ready to be written. Unit prices always come
// from the menu item row, never from the client.
type OrderLine struct {
	MenuItemID uuid.UUID
	Quantity   int
	UnitPrice  float64
}

type OrderService struct {
	db *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrder prices the requested lines from current menu data and writes
// header and items in one transaction, so a half-created order is never
// observable.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, reqLines []types.OrderLineRequest) (*models.Order, error) {
	if len(reqLines) == 0 {
		return nil, ErrEmptyOrder
	}

	ids := make([]uuid.UUID, 0, len(reqLines))
	for _, l := range reqLines {
		ids = append(ids, l.MenuItemID)
	}

	var menuItems []models.MenuItem
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&menuItems).Error; err != nil {
		return nil, err
	}
	priceByID := make(map[uuid.UUID]float64, len(menuItems))
	for _, item := range menuItems {
		priceByID[item.ID] = item.Price
	}

	lines := make([]OrderLine, 0, len(reqLines))
	for _, l := range reqLines {
		price, ok := priceByID[l.MenuItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemNotFound, l.MenuItemID)
		}
		lines = append(lines, OrderLine{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			UnitPrice:  price,
		})
	}

	var order *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		order, txErr = createOrderTx(tx, userID, lines)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// createOrderTx writes an order header plus its line items inside the
// caller's transaction. Shared with the group-order finalize path.
func createOrderTx(tx *gorm.DB, userID uuid.UUID, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.UnitPrice
	}

	order := models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		TotalAmount:   total,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	if err := tx.Create(&order).Error; err != nil {
		return nil, err
	}

	for _, l := range lines {
		item := models.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}

	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Preload("Items").
		Find(&orders).Error
	return orders, err
}

// MarkCollected flips a pending order to completed. One-directional.
func (s *OrderService) MarkCollected(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	if order.Status == models.OrderStatusCompleted {
		return nil, ErrAlreadyCollected
	}

	order.Status = models.OrderStatusCompleted
	if err := s.db.WithContext(ctx).Model(order).Update("status", order.Status).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// MarkPaid records a successful payment-gateway callback. One-directional.
func (s *OrderService) MarkPaid(ctx context.Context, orderID, userID uuid.UUID) (*models.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, ErrAlreadyPaid
	}

	order.PaymentStatus = models.PaymentStatusPaid
	if err := s.db.WithContext(ctx).Model(order).Update("payment_status", order.PaymentStatus).Error; err != nil {
		return nil, err
	}
	return order, nil
}
