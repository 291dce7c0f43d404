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
)

func TestNotificationsScopedToOwner(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewNotificationService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com", models.RoleCustomer)

	require.NoError(t, svc.Create(ctx, alice.ID, models.NotificationOrderUpdate, "Order ready", "Come collect"))
	require.NoError(t, svc.Create(ctx, bob.ID, models.NotificationVoucher, "New voucher", ""))

	aliceNotifs, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceNotifs, 1)
	assert.Equal(t, "Order ready", aliceNotifs[0].Title)

	// Bob cannot mark Alice's notification as read.
	err = svc.MarkRead(ctx, aliceNotifs[0].ID, bob.ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)

	require.NoError(t, svc.MarkRead(ctx, aliceNotifs[0].ID, alice.ID))

	refreshed, err := svc.ListForUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, refreshed[0].IsRead)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewNotificationService(db)

	user := testhelpers.CreateTestUser(t, db, "alice@example.com", models.RoleCustomer)

	err := svc.MarkRead(context.Background(), uuid.New(), user.ID)
	assert.ErrorIs(t, err, service.ErrNotificationNotFound)
}
