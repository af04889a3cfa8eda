package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestSubscribeLifecycle(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	reader := testhelpers.CreateUser(t, db, "reader")
	writer := testhelpers.CreateUser(t, db, "writer")

	author, err := svc.Subscribe(ctx, reader.ID, writer.ID)
	require.NoError(t, err)
	assert.Equal(t, writer.ID, author.ID)

	_, err = svc.Subscribe(ctx, reader.ID, writer.ID)
	assert.ErrorIs(t, err, service.ErrConflict)

	set, err := svc.SubscribedAuthorIDs(ctx, &reader.ID)
	require.NoError(t, err)
	assert.True(t, set[writer.ID])

	require.NoError(t, svc.Unsubscribe(ctx, reader.ID, writer.ID))
	err = svc.Unsubscribe(ctx, reader.ID, writer.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscribeToSelf(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)

	user := testhelpers.CreateUser(t, db, "narcissus")

	_, err := svc.Subscribe(context.Background(), user.ID, user.ID)
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))
	assert.Equal(t, "you cannot subscribe to yourself", err.Error())
}

func TestSubscribeUnknownAuthor(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)

	user := testhelpers.CreateUser(t, db, "reader")

	_, err := svc.Subscribe(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	err = svc.Unsubscribe(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscriptionsOrderedByRecency(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	reader := testhelpers.CreateUser(t, db, "reader")
	first := testhelpers.CreateUser(t, db, "first")
	second := testhelpers.CreateUser(t, db, "second")

	_, err := svc.Subscribe(ctx, reader.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, reader.ID, second.ID)
	require.NoError(t, err)

	authors, total, err := svc.Subscriptions(ctx, reader.ID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, authors, 2)
	assert.Equal(t, second.ID, authors[0].ID)
	assert.Equal(t, first.ID, authors[1].ID)
}

func TestListUsersSearch(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	alice := testhelpers.CreateUser(t, db, "alice")
	testhelpers.CreateUser(t, db, "bob")

	users, total, err := svc.ListUsers(ctx, "ali", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)

	users, total, err = svc.ListUsers(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

func TestUpdateUser(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	target := testhelpers.CreateUser(t, db, "target")
	stranger := testhelpers.CreateUser(t, db, "stranger")
	admin := testhelpers.CreateUser(t, db, "admin")
	require.NoError(t, db.Model(admin).Update("is_admin", true).Error)
	admin.IsAdmin = true

	first := "Renamed"
	_, err := svc.UpdateUser(ctx, stranger, target.ID, service.UserUpdate{FirstName: &first})
	assert.ErrorIs(t, err, service.ErrPermissionDenied)

	updated, err := svc.UpdateUser(ctx, target, target.ID, service.UserUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.FirstName)

	// admins may edit any account
	last := "Adjusted"
	updated, err = svc.UpdateUser(ctx, admin, target.ID, service.UserUpdate{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Adjusted", updated.LastName)

	// taken username is a conflict, keeping your own is not
	taken := "stranger"
	_, err = svc.UpdateUser(ctx, target, target.ID, service.UserUpdate{Username: &taken})
	assert.ErrorIs(t, err, service.ErrConflict)

	own := "target"
	_, err = svc.UpdateUser(ctx, target, target.ID, service.UserUpdate{Username: &own})
	assert.NoError(t, err)
}

func TestSetPassword(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user := testhelpers.CreateUser(t, db, "changer")

	// wrong current password is caught before anything else
	err := svc.SetPassword(ctx, user.ID, "not-the-password", "brand-new-secret")
	require.Error(t, err)
	assert.Equal(t, "enter a valid current password", err.Error())

	// unchanged password is rejected next
	err = svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, testhelpers.TestPassword)
	require.Error(t, err)
	assert.Equal(t, "the new password must differ from the current one", err.Error())

	// then the policy applies
	err = svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "short")
	require.Error(t, err)
	assert.True(t, service.IsValidation(err))

	require.NoError(t, svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "brand-new-secret"))

	// old password no longer verifies
	err = svc.SetPassword(ctx, user.ID, testhelpers.TestPassword, "another-secret-1")
	require.Error(t, err)
	assert.Equal(t, "enter a valid current password", err.Error())

	require.NoError(t, svc.SetPassword(ctx, user.ID, "brand-new-secret", "another-secret-1"))
}

func TestRecentRecipesTruncation(t *testing.T) {
	db := testhelpers.OpenTestDB(t)
	users := service.NewUserService(db)
	recipes := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "prolific")
	ing := testhelpers.CreateIngredient(t, db, "salt", "g")
	tag := testhelpers.CreateTag(t, db, "lunch", "#FFFFFF", "lunch")

	var lastID uint
	for i := 0; i < 5; i++ {
		r, err := recipes.CreateRecipe(ctx, author.ID, service.RecipeInput{
			Name:        "Dish",
			Text:        "Cook",
			Image:       "/media/recipes/images/d.png",
			CookingTime: 5,
			Ingredients: []service.IngredientAmount{{ID: ing.ID, Amount: 1}},
			Tags:        []uint{tag.ID},
		})
		require.NoError(t, err)
		lastID = r.ID
	}

	recent, total, err := users.RecentRecipes(ctx, author.ID, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	require.Len(t, recent, 3)
	assert.Equal(t, lastID, recent[0].ID)
}
