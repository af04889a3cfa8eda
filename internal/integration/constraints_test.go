package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

// These tests exercise the real PostgreSQL constraints behind the
// check-then-create logic in the services.

func TestPostgresUniqueConstraints(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	user := testhelpers.CreateUser(t, db, "alice")
	author := testhelpers.CreateUser(t, db, "bob")

	t.Run("ingredient name and unit pair", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
		assert.Error(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "g"}).Error)
		assert.NoError(t, db.Create(&models.Ingredient{Name: "salt", MeasurementUnit: "kg"}).Error)
	})

	t.Run("subscribe pair", func(t *testing.T) {
		require.NoError(t, db.Create(&models.Subscribe{UserID: user.ID, AuthorID: author.ID}).Error)
		assert.Error(t, db.Create(&models.Subscribe{UserID: user.ID, AuthorID: author.ID}).Error)
	})

	t.Run("username and email", func(t *testing.T) {
		dup := models.User{Username: "alice", Email: "fresh@example.com", FirstName: "A", LastName: "B", PasswordHash: "x"}
		assert.Error(t, db.Create(&dup).Error)
	})
}

func TestPostgresCascades(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)
	recipes := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateUser(t, db, "author")
	fan := testhelpers.CreateUser(t, db, "fan")
	ing := testhelpers.CreateIngredient(t, db, "flour", "g")
	tag := testhelpers.CreateTag(t, db, "breakfast", "#FF0000", "breakfast")

	recipe, err := recipes.CreateRecipe(ctx, author.ID, service.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry",
		Image:       "/media/recipes/images/p.png",
		CookingTime: 20,
		Ingredients: []service.IngredientAmount{{ID: ing.ID, Amount: 200}},
		Tags:        []uint{tag.ID},
	})
	require.NoError(t, err)

	_, err = recipes.AddFavorite(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = recipes.AddToCart(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	// deleting the author takes the recipe and every dependent row with it
	require.NoError(t, db.Delete(&models.User{}, author.ID).Error)

	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.IngredientRecipe{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, db.Model(&models.ShoppingCart{}).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
	assert.Zero(t, count)

	// the dictionary entries survive
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPostgresCheckConstraints(t *testing.T) {
	db := testhelpers.SetupPostgresDB(t)

	author := testhelpers.CreateUser(t, db, "author")

	bad := models.Recipe{
		Name:        "Instant",
		Text:        "No time at all",
		CookingTime: 0,
		AuthorID:    author.ID,
	}
	assert.Error(t, db.Create(&bad).Error)
}
