package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/makanlah/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSessionNotFound = errors.New("group session not found")
	ErrNotSessionHost  = errors.New("only the host can finalize a group order")
	ErrEmptyCart       = errors.New("group cart is empty")
	ErrNoJoinCode      = errors.New("could not allocate a unique join code")
)

const (
	joinCodeAttempts = 5
	sessionLifetime  = 24 * time.Hour
)

// GroupCartLine is one cart row joined out to its menu item for display.
type GroupCartLine struct {
	MenuItemID uuid.UUID `json:"menuitemid"`
	Name       string    `json:"name"`
	UnitPrice  float64   `json:"unit_price"`
	Quantity   int       `json:"quantity"`
	UserID     uuid.UUID `json:"user_id"`
}

// GroupOrderService coordinates host-owned shared carts. Clients poll
// GetCart; a not-found response is the authoritative close signal after
// finalization or expiry.
type GroupOrderService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewGroupOrderService(db *gorm.DB, notifications *NotificationService) *GroupOrderService {
	return &GroupOrderService{db: db, notifications: notifications}
}

// StartSession creates an active session with a fresh 4-digit join code.
// Codes colliding with a concurrently active session are redrawn a bounded
// number of times.
func (s *GroupOrderService) StartSession(ctx context.Context, hostUserID uuid.UUID) (*models.GroupSession, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code := fmt.Sprintf("%04d", 1000+rand.Intn(9000))

		var active int64
		err := s.db.WithContext(ctx).Model(&models.GroupSession{}).
			Where("join_code = ? AND is_active = ?", code, true).
			Count(&active).Error
		if err != nil {
			return nil, err
		}
		if active > 0 {
			continue
		}

		session := models.GroupSession{
			ID:         uuid.New(),
			HostUserID: hostUserID,
			JoinCode:   code,
			IsActive:   true,
		}
		if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
			return nil, err
		}
		return &session, nil
	}
	return nil, ErrNoJoinCode
}

// JoinSession resolves an active session by join code. Inactive and
// nonexistent codes are indistinguishable to the guest.
func (s *GroupOrderService) JoinSession(ctx context.Context, joinCode string) (*models.GroupSession, error) {
	var session models.GroupSession
	err := s.db.WithContext(ctx).
		Where("join_code = ? AND is_active = ?", joinCode, true).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// AddToCart upserts one contributor line: an existing (session, user, item)
// row has its quantity incremented atomically at the database, so two
// concurrent adds from the same user cannot lose an update.
func (s *GroupOrderService) AddToCart(ctx context.Context, sessionID, userID, menuItemID uuid.UUID, quantity int) error {
	var session models.GroupSession
	if err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	var item models.MenuItem
	if err := s.db.WithContext(ctx).First(&item, "id = ?", menuItemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	line := models.GroupCartItem{
		ID:         uuid.New(),
		SessionID:  sessionID,
		UserID:     userID,
		MenuItemID: menuItemID,
		Quantity:   quantity,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}, {Name: "user_id"}, {Name: "menu_item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		}),
	}).Create(&line).Error
}

// GetCart returns the cart lines for an ACTIVE session. Missing and closed
// sessions both report not-found; polling clients treat that as closure.
func (s *GroupOrderService) GetCart(ctx context.Context, sessionID uuid.UUID) ([]GroupCartLine, error) {
	var session models.GroupSession
	err := s.db.WithContext(ctx).First(&session, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !session.IsActive) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.cartLines(s.db.WithContext(ctx), sessionID)
}

func (s *GroupOrderService) cartLines(db *gorm.DB, sessionID uuid.UUID) ([]GroupCartLine, error) {
	var lines []GroupCartLine
	err := db.Model(&models.GroupCartItem{}).
		Select("group_cart_items.menu_item_id, menu_items.name, menu_items.price as unit_price, group_cart_items.quantity, group_cart_items.user_id").
		Joins("JOIN menu_items ON menu_items.id = group_cart_items.menu_item_id").
		Where("group_cart_items.session_id = ?", sessionID).
		Order("group_cart_items.created_at ASC").
		Scan(&lines).Error
	return lines, err
}

// Finalize converts an active session's cart into a single order owned by
// the host. Cart re-read, order creation and session deactivation happen in
// one transaction. The total is recomputed from menu prices; the client's
// displayed total is advisory only.
func (s *GroupOrderService) Finalize(ctx context.Context, sessionID, hostUserID uuid.UUID, clientTotal float64) (*models.Order, error) {
	var order *models.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var session models.GroupSession
		err := tx.First(&session, "id = ?", sessionID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if !session.IsActive {
			return ErrSessionNotFound
		}
		if session.HostUserID != hostUserID {
			return ErrNotSessionHost
		}

		lines, err := s.cartLines(tx, sessionID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		orderLines := make([]OrderLine, 0, len(lines))
		var total float64
		for _, l := range lines {
			orderLines = append(orderLines, OrderLine{
				MenuItemID: l.MenuItemID,
				Quantity:   l.Quantity,
				UnitPrice:  l.UnitPrice,
			})
			total += float64(l.Quantity) * l.UnitPrice
		}
		if clientTotal > 0 && math.Abs(clientTotal-total) > 0.005 {
			log.Printf("[GroupOrder] client total %.2f disagrees with recomputed %.2f for session %s",
				clientTotal, total, sessionID)
		}

		order, err = createOrderTx(tx, hostUserID, orderLines)
		if err != nil {
			return err
		}

		return tx.Model(&session).Update("is_active", false).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		s.notifyContributors(ctx, sessionID, hostUserID, order)
	}
	return order, nil
}

// notifyContributors tells everyone who added items that the host placed
// the order. Best-effort, after the transaction committed.
func (s *GroupOrderService) notifyContributors(ctx context.Context, sessionID, hostUserID uuid.UUID, order *models.Order) {
	var userIDs []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.GroupCartItem{}).
		Where("session_id = ?", sessionID).
		Distinct().
		Pluck("user_id", &userIDs).Error
	if err != nil {
		log.Printf("[GroupOrder] failed to list contributors for session %s: %v", sessionID, err)
		return
	}

	for _, id := range userIDs {
		if id == hostUserID {
			continue
		}
		err := s.notifications.Create(ctx, id, models.NotificationGroupFinalized,
			"Group order placed",
			fmt.Sprintf("The host has placed the group order (total $%.2f).", order.TotalAmount))
		if err != nil {
			log.Printf("[GroupOrder] failed to notify user %s: %v", id, err)
		}
	}
}

// ExpireStaleSessions deactivates sessions still active past their
// lifetime. Safety net against abandoned carts, not a replacement for
// explicit finalize.
func (s *GroupOrderService) ExpireStaleSessions(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-sessionLifetime)
	res := s.db.WithContext(ctx).Model(&models.GroupSession{}).
		Where("is_active = ? AND created_at < ?", true, cutoff).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// StartExpirySweep runs ExpireStaleSessions on a ticker until ctx is done.
func (s *GroupOrderService) StartExpirySweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.ExpireStaleSessions(ctx)
				if err != nil {
					log.Printf("[GroupOrder] expiry sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("[GroupOrder] expired %d stale sessions", n)
				}
			}
		}
	}()
}
