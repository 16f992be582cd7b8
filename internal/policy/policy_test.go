package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/forkful/forkful-v2/backend/internal/models"
)

func userPrincipal(id uuid.UUID) Principal {
	return Principal{ID: id, Role: RoleUser}
}

func adminPrincipal() Principal {
	return Principal{ID: uuid.New(), Role: RoleAdmin}
}

func TestRecipeReadPublic(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New(), UserID: uuid.New(), IsPublic: true}

	assert.True(t, Authorize(Anonymous(""), OpRead, recipe).Allowed)
	assert.True(t, Authorize(userPrincipal(uuid.New()), OpRead, recipe).Allowed)
}

func TestRecipeReadPrivate(t *testing.T) {
	owner := uuid.New()
	recipe := &models.Recipe{ID: uuid.New(), UserID: owner, IsPublic: false}

	d := Authorize(Anonymous(""), OpRead, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonTargetPrivate, d.Reason)

	d = Authorize(userPrincipal(uuid.New()), OpRead, recipe)
	assert.False(t, d.Allowed)

	assert.True(t, Authorize(userPrincipal(owner), OpRead, recipe).Allowed)
	assert.True(t, Authorize(adminPrincipal(), OpRead, recipe).Allowed)
}

// A missing entity and a denied read must both deny; callers surface both as
// not-found so absence and denial are indistinguishable.
func TestRecipeReadNilDenies(t *testing.T) {
	var recipe *models.Recipe

	d := Authorize(Anonymous(""), OpRead, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotFoundOrDeleted, d.Reason)

	d = Authorize(Anonymous(""), OpRead, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotFoundOrDeleted, d.Reason)
}

func TestRecipeReadSoftDeleted(t *testing.T) {
	owner := uuid.New()
	recipe := &models.Recipe{ID: uuid.New(), UserID: owner, IsPublic: true, IsDeleted: true}

	d := Authorize(Anonymous(""), OpRead, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotFoundOrDeleted, d.Reason)

	// Owner and admin still see the soft-deleted row.
	assert.True(t, Authorize(userPrincipal(owner), OpRead, recipe).Allowed)
	assert.True(t, Authorize(adminPrincipal(), OpRead, recipe).Allowed)
}

func TestRecipeUpdateOwnership(t *testing.T) {
	owner := uuid.New()
	recipe := &models.Recipe{ID: uuid.New(), UserID: owner, IsPublic: true}

	assert.True(t, Authorize(userPrincipal(owner), OpUpdate, recipe).Allowed)

	d := Authorize(userPrincipal(uuid.New()), OpUpdate, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	d = Authorize(Anonymous(""), OpUpdate, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, d.Reason)
}

func TestRecipeDeleteAdminOverride(t *testing.T) {
	recipe := &models.Recipe{ID: uuid.New(), UserID: uuid.New()}

	d := Authorize(userPrincipal(uuid.New()), OpDelete, recipe)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	assert.True(t, Authorize(adminPrincipal(), OpDelete, recipe).Allowed)
}

func TestRecipeCreateMustDeclareOwner(t *testing.T) {
	creator := uuid.New()

	assert.True(t, Authorize(userPrincipal(creator), OpCreate, &models.Recipe{UserID: creator}).Allowed)

	d := Authorize(userPrincipal(creator), OpCreate, &models.Recipe{UserID: uuid.New()})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	d = Authorize(Anonymous(""), OpCreate, &models.Recipe{})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAuthenticated, d.Reason)
}

func TestFavoriteOwnerOnly(t *testing.T) {
	userID := uuid.New()
	fav := &models.Favorite{RecipeID: uuid.New(), UserID: userID}

	for _, op := range []Operation{OpRead, OpCreate, OpUpdate, OpDelete} {
		assert.True(t, Authorize(userPrincipal(userID), op, fav).Allowed, string(op))
		assert.False(t, Authorize(userPrincipal(uuid.New()), op, fav).Allowed, string(op))
		assert.False(t, Authorize(Anonymous(""), op, fav).Allowed, string(op))
	}
}

func TestCollectionVisibility(t *testing.T) {
	owner := uuid.New()
	public := &models.Collection{ID: uuid.New(), UserID: owner, IsPublic: true}
	private := &models.Collection{ID: uuid.New(), UserID: owner, IsPublic: false}

	assert.True(t, Authorize(Anonymous(""), OpRead, public).Allowed)
	assert.False(t, Authorize(Anonymous(""), OpRead, private).Allowed)
	assert.True(t, Authorize(userPrincipal(owner), OpRead, private).Allowed)

	// No admin override outside of recipes.
	d := Authorize(adminPrincipal(), OpUpdate, private)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotOwner, d.Reason)

	assert.True(t, Authorize(userPrincipal(owner), OpDelete, private).Allowed)
}

func TestReviewAuthorOnlyMutations(t *testing.T) {
	author := uuid.New()
	review := &models.Review{RecipeID: uuid.New(), UserID: author, Rating: 4}

	assert.True(t, Authorize(userPrincipal(author), OpUpdate, review).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpDelete, review).Allowed)
	assert.False(t, Authorize(adminPrincipal(), OpUpdate, review).Allowed)
}

func TestReviewReadFollowsRecipeVisibility(t *testing.T) {
	author := uuid.New()
	review := &models.Review{RecipeID: uuid.New(), UserID: author, Rating: 5}

	public := ReviewRead{Review: review, Recipe: &models.Recipe{UserID: uuid.New(), IsPublic: true}}
	assert.True(t, Authorize(Anonymous(""), OpRead, public).Allowed)

	private := ReviewRead{Review: review, Recipe: &models.Recipe{UserID: uuid.New(), IsPublic: false}}
	assert.False(t, Authorize(Anonymous(""), OpRead, private).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpRead, private).Allowed)

	// The author always reads their own review.
	assert.True(t, Authorize(userPrincipal(author), OpRead, private).Allowed)
}

func TestConversationOwnership(t *testing.T) {
	userID := uuid.New()
	owned := &models.ChatConversation{ID: uuid.New(), UserID: &userID}

	assert.True(t, Authorize(userPrincipal(userID), OpRead, owned).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpRead, owned).Allowed)
	assert.False(t, Authorize(Anonymous("sess-1"), OpRead, owned).Allowed)
}

func TestConversationGuestSession(t *testing.T) {
	guest := &models.ChatConversation{ID: uuid.New(), SessionID: "sess-1"}

	assert.True(t, Authorize(Anonymous("sess-1"), OpRead, guest).Allowed)
	assert.False(t, Authorize(Anonymous("sess-2"), OpRead, guest).Allowed)
	assert.False(t, Authorize(Anonymous(""), OpRead, guest).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpRead, guest).Allowed)
}

func TestActivityLogOwnerOnly(t *testing.T) {
	userID := uuid.New()
	entry := &models.ActivityLog{UserID: userID, Action: models.ActivityRecipeView}

	assert.True(t, Authorize(userPrincipal(userID), OpRead, entry).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpRead, entry).Allowed)
}

func TestAdminActionAdminOnly(t *testing.T) {
	action := &models.AdminAction{AdminID: uuid.New(), Action: models.AdminActionRecipeDelete}

	assert.True(t, Authorize(adminPrincipal(), OpRead, action).Allowed)
	assert.True(t, Authorize(adminPrincipal(), OpCreate, action).Allowed)

	d := Authorize(userPrincipal(uuid.New()), OpRead, action)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAdmin, d.Reason)
}

func TestUserRules(t *testing.T) {
	userID := uuid.New()
	user := &models.User{ID: userID, Role: models.RoleUser}

	assert.True(t, Authorize(Anonymous(""), OpCreate, user).Allowed)
	assert.True(t, Authorize(userPrincipal(userID), OpUpdate, user).Allowed)
	assert.False(t, Authorize(userPrincipal(uuid.New()), OpRead, user).Allowed)
	assert.True(t, Authorize(adminPrincipal(), OpUpdate, user).Allowed)

	d := Authorize(userPrincipal(userID), OpDelete, user)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotAdmin, d.Reason)
}

func TestUnknownEntityDenies(t *testing.T) {
	d := Authorize(adminPrincipal(), OpRead, struct{}{})
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotFoundOrDeleted, d.Reason)
}
