package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/testhelpers"
)

func recipeCountOf(t *testing.T, db *gorm.DB, collectionID uuid.UUID) int64 {
	t.Helper()
	var collection models.Collection
	require.NoError(t, db.First(&collection, "id = ?", collectionID).Error)
	return collection.RecipeCount
}

func TestCollectionCreateAndGet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	_, p := testhelpers.CreateUser(t, db, models.RoleUser)

	created, err := svc.Create(ctx, p, &models.Collection{Name: "Weeknight", IsPublic: true})
	require.NoError(t, err)
	assert.Equal(t, p.ID, created.UserID)

	got, err := svc.Get(ctx, policy.Anonymous(""), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weeknight", got.Name)
}

func TestCollectionCreateValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	_, p := testhelpers.CreateUser(t, db, models.RoleUser)

	_, err := svc.Create(context.Background(), p, &models.Collection{Name: "  "})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Create(context.Background(), policy.Anonymous(""), &models.Collection{Name: "Mine"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestCollectionPrivateLooksMissing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	_, ownerP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, strangerP := testhelpers.CreateUser(t, db, models.RoleUser)

	private, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Secret"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, strangerP, private.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.ListRecipes(ctx, strangerP, private.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCollectionNoAdminOverride(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	_, ownerP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, adminP := testhelpers.CreateUser(t, db, models.RoleAdmin)

	private, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Secret"})
	require.NoError(t, err)

	// Admins get no special access to collections.
	_, err = svc.Get(ctx, adminP, private.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	name := "Seized"
	_, err = svc.Update(ctx, adminP, private.ID, service.CollectionUpdate{Name: &name})
	assert.ErrorIs(t, err, service.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, adminP, private.ID), service.ErrNotFound)
}

func TestCollectionAddRemoveRecipeMaintainsCount(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	owner, ownerP := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, true)
	other := testhelpers.CreateRecipe(t, db, owner.ID, true)

	collection, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Soups"})
	require.NoError(t, err)

	require.NoError(t, svc.AddRecipe(ctx, ownerP, collection.ID, recipe.ID, "family favorite"))
	require.NoError(t, svc.AddRecipe(ctx, ownerP, collection.ID, other.ID, ""))
	assert.EqualValues(t, 2, recipeCountOf(t, db, collection.ID))

	// Duplicate link conflicts and leaves the counter alone.
	err = svc.AddRecipe(ctx, ownerP, collection.ID, recipe.ID, "")
	assert.ErrorIs(t, err, service.ErrConflict)
	assert.EqualValues(t, 2, recipeCountOf(t, db, collection.ID))

	require.NoError(t, svc.RemoveRecipe(ctx, ownerP, collection.ID, recipe.ID))
	assert.EqualValues(t, 1, recipeCountOf(t, db, collection.ID))

	// Removing a link that isn't there reports not-found.
	err = svc.RemoveRecipe(ctx, ownerP, collection.ID, recipe.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.EqualValues(t, 1, recipeCountOf(t, db, collection.ID))
}

func TestCollectionAddUnreadableRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	owner, _ := testhelpers.CreateUser(t, db, models.RoleUser)
	_, collectorP := testhelpers.CreateUser(t, db, models.RoleUser)
	private := testhelpers.CreateRecipe(t, db, owner.ID, false)

	collection, err := svc.Create(ctx, collectorP, &models.Collection{Name: "Stolen"})
	require.NoError(t, err)

	err = svc.AddRecipe(ctx, collectorP, collection.ID, private.ID, "")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.EqualValues(t, 0, recipeCountOf(t, db, collection.ID))
}

func TestCollectionDeleteRemovesLinks(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	owner, ownerP := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, true)

	collection, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Soups"})
	require.NoError(t, err)
	require.NoError(t, svc.AddRecipe(ctx, ownerP, collection.ID, recipe.ID, ""))

	require.NoError(t, svc.Delete(ctx, ownerP, collection.ID))

	var linkCount int64
	require.NoError(t, db.Model(&models.CollectionRecipe{}).
		Where("collection_id = ?", collection.ID).Count(&linkCount).Error)
	assert.EqualValues(t, 0, linkCount)
}

func TestCollectionList(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	_, ownerP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, otherP := testhelpers.CreateUser(t, db, models.RoleUser)

	public, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Public", IsPublic: true})
	require.NoError(t, err)
	private, err := svc.Create(ctx, ownerP, &models.Collection{Name: "Private"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, ownerP)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.List(ctx, otherP)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, public.ID, theirs[0].ID)

	anon, err := svc.List(ctx, policy.Anonymous(""))
	require.NoError(t, err)
	require.Len(t, anon, 1)
	assert.NotEqual(t, private.ID, anon[0].ID)
}
