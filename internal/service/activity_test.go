package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/testhelpers"
)

func TestActivityListOwnRowsOnly(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	activitySvc := service.NewActivityService(db)
	recipeSvc := service.NewRecipeService(db)
	ctx := context.Background()

	alice, aliceP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, bobP := testhelpers.CreateUser(t, db, models.RoleUser)

	recipe, err := recipeSvc.Create(ctx, aliceP, &models.Recipe{
		Name: "Soup", IsPublic: true, UserID: alice.ID,
	})
	require.NoError(t, err)
	_, err = recipeSvc.Get(ctx, bobP, recipe.ID)
	require.NoError(t, err)

	aliceEntries, err := activitySvc.List(ctx, aliceP, 0)
	require.NoError(t, err)
	require.Len(t, aliceEntries, 1)
	assert.Equal(t, models.ActivityRecipeCreate, aliceEntries[0].Action)

	bobEntries, err := activitySvc.List(ctx, bobP, 0)
	require.NoError(t, err)
	require.Len(t, bobEntries, 1)
	assert.Equal(t, models.ActivityRecipeView, bobEntries[0].Action)
}

func TestActivityListRequiresAuth(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewActivityService(db)

	_, err := svc.List(context.Background(), policy.Anonymous(""), 0)
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}
