package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/testhelpers"
)

func TestRegisterAndLogin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret-long-enough")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "password123", user.PasswordHash)

	loggedIn, loginToken, err := svc.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret-long-enough")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "Other", "alice@example.com", "other", "password123")
	assert.ErrorIs(t, err, service.ErrConflict)

	_, _, err = svc.Register(ctx, "Other", "other@example.com", "alice", "password123")
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret-long-enough")
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Alice", "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestValidateToken(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret-long-enough")
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Alice", "alice@example.com", "alice", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)

	p := service.PrincipalFromClaims(claims)
	assert.True(t, p.Authenticated())
	assert.False(t, p.IsAdmin())

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	other := service.NewAuthService(db, "a-different-secret-entirely")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewAuthService(db, "test-secret-long-enough")

	user, _, err := svc.Register(context.Background(), "Mallory", "mallory@example.com", "mallory", "password123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsAdmin())
}
