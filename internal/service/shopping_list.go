package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// ShoppingListService builds the consolidated shopping list text for a
// user's cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

const shoppingListHeader = "Your shopping list:"

// Build sums ingredient amounts across every recipe in the user's cart.
// Lines keep first-encountered order while scanning cart recipes (rows
// ordered by recipe id, then join row id), which makes repeated runs over
// an unchanged cart byte-identical.
func (s *ShoppingListService) Build(ctx context.Context, userID uint) (string, error) {
	var recipeIDs []uint
	if err := s.db.WithContext(ctx).Model(&models.ShoppingCart{}).
		Where("user_id = ?", userID).
		Order("recipe_id").
		Pluck("recipe_id", &recipeIDs).Error; err != nil {
		return "", err
	}

	var rows []models.IngredientRecipe
	if len(recipeIDs) > 0 {
		if err := s.db.WithContext(ctx).
			Preload("Ingredient").
			Where("recipe_id IN ?", recipeIDs).
			Order("recipe_id, id").
			Find(&rows).Error; err != nil {
			return "", err
		}
	}

	totals := make(map[uint]int)
	order := make([]uint, 0, len(rows))
	byID := make(map[uint]models.Ingredient)
	for _, row := range rows {
		if _, ok := totals[row.IngredientID]; !ok {
			order = append(order, row.IngredientID)
			byID[row.IngredientID] = row.Ingredient
		}
		totals[row.IngredientID] += row.Amount
	}

	var b strings.Builder
	b.WriteString(shoppingListHeader + "\n")
	for i, id := range order {
		ing := byID[id]
		fmt.Fprintf(&b, "%d) %s (%s) - %d\n", i+1, ing.Name, ing.MeasurementUnit, totals[id])
	}
	return b.String(), nil
}
