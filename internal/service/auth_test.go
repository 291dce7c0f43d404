package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
	"github.com/makanlah/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	token, err := svc.Register("Mei Ling", "mei@example.com", "password123", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	loginToken, err := svc.Login("mei@example.com", "password123")
	require.NoError(t, err)

	loginClaims, err := svc.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, loginClaims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register("Mei Ling", "mei@example.com", "password123", "")
	require.NoError(t, err)

	_, err = svc.Register("Impostor", "mei@example.com", "different456", "")
	assert.ErrorIs(t, err, service.ErrUserExists)
}

func TestRegisterStallOwnerRole(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	token, err := svc.Register("Uncle Tan", "tan@example.com", "password123", models.RoleStallOwner)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStallOwner, claims.Role)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register("Sneaky", "sneaky@example.com", "password123", models.RoleAdmin)
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	_, err := svc.Register("Mei Ling", "mei@example.com", "password123", "")
	require.NoError(t, err)

	_, err = svc.Login("mei@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	svc := service.NewAuthService(db, "test-secret")

	token, err := svc.Register("Mei Ling", "mei@example.com", "password123", "")
	require.NoError(t, err)

	other := service.NewAuthService(db, "different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
