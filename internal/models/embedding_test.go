package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/testhelpers"
)

func TestEmbeddingValueEmptyIsNull(t *testing.T) {
	var e models.Embedding
	v, err := e.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestEmbeddingScan(t *testing.T) {
	var e models.Embedding

	require.NoError(t, e.Scan(nil))
	assert.Nil(t, e)

	require.NoError(t, e.Scan("[]"))
	assert.Nil(t, e)

	require.NoError(t, e.Scan("[1,2.5,3]"))
	assert.Equal(t, models.Embedding{1, 2.5, 3}, e)

	require.NoError(t, e.Scan([]byte("[4,5,6]")))
	assert.Equal(t, models.Embedding{4, 5, 6}, e)

	assert.Error(t, e.Scan(42))
}

// Menu items created without an embedding must read back cleanly; the zero
// embedding is stored as NULL, not as an unparseable empty vector.
func TestMenuItemEmbeddingRoundTrip(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)

	owner := testhelpers.CreateTestUser(t, db, "owner@example.com", models.RoleStallOwner)
	stall := testhelpers.CreateTestStall(t, db, owner.ID, "Tiong Bahru Bak Kut Teh")

	plain := testhelpers.CreateTestMenuItem(t, db, stall.ID, "Bak Kut Teh", "soup", 7.50)

	var got models.MenuItem
	require.NoError(t, db.First(&got, "id = ?", plain.ID).Error)
	assert.Nil(t, got.Embedding)

	got.Embedding = models.Embedding{9, 3, 5}
	require.NoError(t, db.Save(&got).Error)

	var again models.MenuItem
	require.NoError(t, db.First(&again, "id = ?", plain.ID).Error)
	assert.Equal(t, models.Embedding{9, 3, 5}, again.Embedding)
}
