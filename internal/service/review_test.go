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

func TestCreateReviewOncePerItem(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReviewService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Satay Stand")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Satay", "grill", 0.8)

	review, err := svc.CreateReview(context.Background(), user.ID, item.ID, 5, "best satay", "")
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)

	_, err = svc.CreateReview(context.Background(), user.ID, item.ID, 3, "changed my mind", "")
	assert.ErrorIs(t, err, service.ErrAlreadyReviewed)
}

func TestCreateReviewUnknownItem(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReviewService(db)

	user := testhelpers.CreateTestUser(t, db, "eater@example.com", models.RoleCustomer)

	_, err := svc.CreateReview(context.Background(), user.ID, uuid.New(), 4, "", "")
	assert.ErrorIs(t, err, service.ErrMenuItemNotFound)
}

func TestFlaggedReviewsHiddenFromListing(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReviewService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Satay Stand")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Satay", "grill", 0.8)

	alice := testhelpers.CreateTestUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com", models.RoleCustomer)

	kept, err := svc.CreateReview(context.Background(), alice.ID, item.ID, 5, "lovely", "")
	require.NoError(t, err)
	spam, err := svc.CreateReview(context.Background(), bob.ID, item.ID, 1, "spam spam", "")
	require.NoError(t, err)

	require.NoError(t, svc.Flag(context.Background(), spam.ID))

	reviews, err := svc.ListForMenuItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, kept.ID, reviews[0].ID)
}

func TestAttachPhotoOwnerOnly(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReviewService(db)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Satay Stand")
	item := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Satay", "grill", 0.8)

	alice := testhelpers.CreateTestUser(t, db, "alice@example.com", models.RoleCustomer)
	bob := testhelpers.CreateTestUser(t, db, "bob@example.com", models.RoleCustomer)

	review, err := svc.CreateReview(context.Background(), alice.ID, item.ID, 5, "", "")
	require.NoError(t, err)

	err = svc.AttachPhoto(context.Background(), review.ID, bob.ID, "https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, service.ErrReviewNotFound)

	require.NoError(t, svc.AttachPhoto(context.Background(), review.ID, alice.ID, "https://cdn.example.com/x.jpg"))

	var updated models.Review
	require.NoError(t, db.First(&updated, "id = ?", review.ID).Error)
	assert.Equal(t, "https://cdn.example.com/x.jpg", updated.PhotoURL)
}

func TestFlagUnknownReview(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewReviewService(db)

	err := svc.Flag(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrReviewNotFound)
}
