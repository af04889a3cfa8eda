package service

import (
	"github.com/foodgram-project/backend/internal/models"
)

// CanModifyRecipe reports whether actor may update or delete the recipe.
// Reads are open to anyone; writes are restricted to the author and admins.
func CanModifyRecipe(actor *models.User, recipe *models.Recipe) bool {
	if actor == nil {
		return false
	}
	return actor.ID == recipe.AuthorID || actor.IsAdmin
}

// CanModifyUser reports whether actor may change the target account.
func CanModifyUser(actor *models.User, target *models.User) bool {
	if actor == nil {
		return false
	}
	return actor.ID == target.ID || actor.IsAdmin
}
