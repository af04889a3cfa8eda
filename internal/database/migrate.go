package database

import (
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// RunMigrations brings the schema up to date for all application models.
// The TagRecipe join model is registered explicitly so the composite
// primary key is created instead of GORM's implicit join table.
func RunMigrations(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Recipe{}, "Tags", &models.TagRecipe{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Subscribe{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.IngredientRecipe{},
		&models.Favorite{},
		&models.ShoppingCart{},
	)
}
