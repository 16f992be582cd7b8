package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-v2/backend/internal/models"
	"github.com/forkful/forkful-v2/backend/internal/policy"
	"github.com/forkful/forkful-v2/backend/internal/service"
	"github.com/forkful/forkful-v2/backend/internal/testhelpers"
)

// Runs the counter invariants against real PostgreSQL. Skipped without docker.
func TestFavoriteCountersOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)
	favoriteSvc := service.NewFavoriteService(db)
	ctx := context.Background()

	owner, _ := testhelpers.CreateUser(t, db, models.RoleUser)
	_, aliceP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, bobP := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, true)

	require.NoError(t, favoriteSvc.Favorite(ctx, aliceP, recipe.ID))
	require.NoError(t, favoriteSvc.Favorite(ctx, bobP, recipe.ID))
	require.NoError(t, favoriteSvc.Unfavorite(ctx, aliceP, recipe.ID))

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.EqualValues(t, 1, stored.FavoriteCount)

	// The floor holds on postgres too.
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
		UpdateColumn("favorite_count", 0).Error)
	require.NoError(t, favoriteSvc.Unfavorite(ctx, bobP, recipe.ID))
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.EqualValues(t, 0, stored.FavoriteCount)
}

// Two users favoriting the same recipe from overlapping transactions must
// land exactly two increments, no lost updates.
func TestConcurrentFavoritesCountExactly(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)
	favoriteSvc := service.NewFavoriteService(db)
	ctx := context.Background()

	owner, _ := testhelpers.CreateUser(t, db, models.RoleUser)
	_, aliceP := testhelpers.CreateUser(t, db, models.RoleUser)
	_, bobP := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, p := range []policy.Principal{aliceP, bobP} {
		wg.Add(1)
		go func(i int, p policy.Principal) {
			defer wg.Done()
			errs[i] = favoriteSvc.Favorite(ctx, p, recipe.ID)
		}(i, p)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.EqualValues(t, 2, stored.FavoriteCount)
}

// The same user favoriting twice concurrently gets exactly one favorite: the
// loser conflicts, whether the duplicate check or the unique index catches it.
func TestConcurrentDuplicateFavoriteConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	db := testhelpers.SetupPostgresDatabase(t)
	favoriteSvc := service.NewFavoriteService(db)
	ctx := context.Background()

	owner, _ := testhelpers.CreateUser(t, db, models.RoleUser)
	_, fanP := testhelpers.CreateUser(t, db, models.RoleUser)
	recipe := testhelpers.CreateRecipe(t, db, owner.ID, true)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = favoriteSvc.Favorite(ctx, fanP, recipe.ID)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, service.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	var stored models.Recipe
	require.NoError(t, db.First(&stored, "id = ?", recipe.ID).Error)
	assert.EqualValues(t, 1, stored.FavoriteCount)

	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).
		Where("recipe_id = ?", recipe.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}
