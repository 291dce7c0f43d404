package service_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/testhelpers"
)

type groupOrderFixture struct {
	db    *gorm.DB
	svc   *service.GroupOrderService
	host  *models.User
	guest *models.User
	itemA *models.MenuItem
	itemB *models.MenuItem
}

func setupGroupOrderTest(t *testing.T) *groupOrderFixture {
	db := testhelpers.SetupTestDatabase(t)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Char Kway Teow")

	return &groupOrderFixture{
		db:    db,
		svc:   service.NewGroupOrderService(db, service.NewNotificationService(db)),
		host:  testhelpers.CreateTestUser(t, db, "host@example.com", models.RoleCustomer),
		guest: testhelpers.CreateTestUser(t, db, "guest@example.com", models.RoleCustomer),
		itemA: testhelpers.CreateTestMenuItem(t, db, stall.ID, "Char Kway Teow", "noodles", 4.0),
		itemB: testhelpers.CreateTestMenuItem(t, db, stall.ID, "Ice Kachang", "dessert", 6.0),
	}
}

func TestStartSessionJoinCodeFormat(t *testing.T) {
	f := setupGroupOrderTest(t)

	session, err := f.svc.StartSession(context.Background(), f.host.ID)
	require.NoError(t, err)

	require.Len(t, session.JoinCode, 4)
	code, err := strconv.Atoi(session.JoinCode)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, code, 1000)
	assert.LessOrEqual(t, code, 9999)
	assert.True(t, session.IsActive)
}

func TestStartSessionRetriesCollidingJoinCodes(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	// Occupy every possible code with an active session so each draw
	// collides and the bounded retry gives up.
	taken := make([]models.GroupSession, 0, 9000)
	for code := 1000; code <= 9999; code++ {
		taken = append(taken, models.GroupSession{
			ID:         uuid.New(),
			HostUserID: f.guest.ID,
			JoinCode:   strconv.Itoa(code),
			IsActive:   true,
		})
	}
	require.NoError(t, f.db.CreateInBatches(taken, 500).Error)

	_, err := f.svc.StartSession(ctx, f.host.ID)
	assert.ErrorIs(t, err, service.ErrNoJoinCode)

	// Only active sessions count as collisions: once the old sessions
	// close, their codes are free again.
	require.NoError(t, f.db.Model(&models.GroupSession{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error)

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)
	assert.True(t, session.IsActive)
}

func TestJoinSessionByCode(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)

	joined, err := f.svc.JoinSession(ctx, session.JoinCode)
	require.NoError(t, err)
	assert.Equal(t, session.ID, joined.ID)

	_, err = f.svc.JoinSession(ctx, "0000")
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestAddToCartIncrementsExistingLine(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.host.ID, f.itemA.ID, 2))
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.host.ID, f.itemA.ID, 3))

	var rows []models.GroupCartItem
	require.NoError(t, f.db.Where("session_id = ?", session.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Quantity)
}

func TestAddToCartSeparateLinesPerUser(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.host.ID, f.itemA.ID, 1))
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.guest.ID, f.itemA.ID, 1))

	lines, err := f.svc.GetCart(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddToCartUnknownSessionOrItem(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	err := f.svc.AddToCart(ctx, uuid.New(), f.host.ID, f.itemA.ID, 1)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)

	err = f.svc.AddToCart(ctx, session.ID, f.host.ID, uuid.New(), 1)
	assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
}

func TestFinalizeCreatesOrderAndClosesSession(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.host.ID, f.itemA.ID, 2))
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.guest.ID, f.itemB.ID, 1))

	order, err := f.svc.Finalize(ctx, session.ID, f.host.ID, 0)
	require.NoError(t, err)

	// Total is recomputed from menu prices: 2*4.00 + 1*6.00.
	assert.InDelta(t, 14.0, order.TotalAmount, 1e-9)
	assert.Equal(t, f.host.ID, order.UserID)
	assert.Len(t, order.Items, 2)

	// Polling the cart now reports the close signal.
	_, err = f.svc.GetCart(ctx, session.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// The join code no longer resolves either.
	_, err = f.svc.JoinSession(ctx, session.JoinCode)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	// Contributors other than the host get told the order was placed.
	var guestNotifs []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.guest.ID).Find(&guestNotifs).Error)
	require.Len(t, guestNotifs, 1)
	assert.Equal(t, models.NotificationGroupFinalized, guestNotifs[0].Type)

	var hostNotifs []models.Notification
	require.NoError(t, f.db.Where("user_id = ?", f.host.ID).Find(&hostNotifs).Error)
	assert.Empty(t, hostNotifs)
}

func TestFinalizeEmptyCartLeavesSessionActive(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, session.ID, f.host.ID, 0)
	assert.ErrorIs(t, err, service.ErrEmptyCart)

	// The failed finalize must not have closed the session.
	lines, err := f.svc.GetCart(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var orders int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestFinalizeRejectsNonHost(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.guest.ID, f.itemA.ID, 1))

	_, err = f.svc.Finalize(ctx, session.ID, f.guest.ID, 0)
	assert.ErrorIs(t, err, service.ErrNotSessionHost)

	// Still open for the actual host.
	_, err = f.svc.GetCart(ctx, session.ID)
	assert.NoError(t, err)
}

func TestFinalizeTwiceReportsNotFound(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	session, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.AddToCart(ctx, session.ID, f.host.ID, f.itemA.ID, 1))

	_, err = f.svc.Finalize(ctx, session.ID, f.host.ID, 0)
	require.NoError(t, err)

	_, err = f.svc.Finalize(ctx, session.ID, f.host.ID, 0)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestExpireStaleSessions(t *testing.T) {
	f := setupGroupOrderTest(t)
	ctx := context.Background()

	stale, err := f.svc.StartSession(ctx, f.host.ID)
	require.NoError(t, err)
	recent, err := f.svc.StartSession(ctx, f.guest.ID)
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&models.GroupSession{}).
		Where("id = ?", stale.ID).
		Update("created_at", time.Now().Add(-25*time.Hour)).Error)

	n, err := f.svc.ExpireStaleSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.svc.GetCart(ctx, stale.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = f.svc.GetCart(ctx, recent.ID)
	assert.NoError(t, err)
}
