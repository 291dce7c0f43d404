package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/testhelpers"
	"github.com/makanlah/backend/internal/types"
)

func TestCreateOrderPricesFromMenu(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Chicken Rice")
	itemA := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Chicken Rice", "rice", 4.5)
	itemB := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Iced Tea", "drinks", 1.5)

	order, err := svc.CreateOrder(context.Background(), user.ID, []types.OrderLineRequest{
		{MenuItemID: itemA.ID, Quantity: 2},
		{MenuItemID: itemB.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.InDelta(t, 10.5, order.TotalAmount, 1e-9)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 4.5, order.Items[0].UnitPrice, 1e-9)

	fetched, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Items, 2)
}

func TestCreateOrderUnknownItemWritesNothing(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Chicken Rice")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Chicken Rice", "rice", 4.5)

	_, err := svc.CreateOrder(context.Background(), user.ID, []types.OrderLineRequest{
		{MenuItemID: item.ID, Quantity: 1},
		{MenuItemID: uuid.New(), Quantity: 1},
	})
	assert.ErrorIs(t, err, service.ErrMenuItemNotFound)

	var orders, lines int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&lines).Error)
	assert.Zero(t, orders)
	assert.Zero(t, lines)
}

func TestCreateOrderRejectsEmpty(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)

	_, err := svc.CreateOrder(context.Background(), user.ID, nil)
	assert.ErrorIs(t, err, service.ErrEmptyOrder)
}

func TestMarkCollected(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	other := testhelpers.CreateTestUser(t, db, "other@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Chicken Rice")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Chicken Rice", "rice", 4.5)

	order, err := svc.CreateOrder(context.Background(), user.ID, []types.OrderLineRequest{
		{MenuItemID: item.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = svc.MarkCollected(context.Background(), order.ID, other.ID)
	assert.ErrorIs(t, err, service.ErrNotOrderOwner)

	updated, err := svc.MarkCollected(context.Background(), order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	// Collection is one-directional.
	_, err = svc.MarkCollected(context.Background(), order.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyCollected)
}

func TestMarkPaid(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Chicken Rice")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Chicken Rice", "rice", 4.5)

	order, err := svc.CreateOrder(context.Background(), user.ID, []types.OrderLineRequest{
		{MenuItemID: item.ID, Quantity: 1},
	})
	require.NoError(t, err)

	updated, err := svc.MarkPaid(context.Background(), order.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)

	_, err = svc.MarkPaid(context.Background(), order.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrAlreadyPaid)
}

func TestListOrdersScopedToUser(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewOrderService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	other := testhelpers.CreateTestUser(t, db, "other@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Chicken Rice")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Chicken Rice", "rice", 4.5)

	for _, uid := range []uuid.UUID{user.ID, user.ID, other.ID} {
		_, err := svc.CreateOrder(context.Background(), uid, []types.OrderLineRequest{
			{MenuItemID: item.ID, Quantity: 1},
		})
		require.NoError(t, err)
	}

	orders, err := svc.ListOrders(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
