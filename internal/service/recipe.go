package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/foodgram-project/backend/internal/models"
)

// RecipeService handles recipe CRUD, favorites and the shopping cart.
type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// IngredientAmount is one (ingredient id, amount) pair of a recipe payload.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the recipe creation payload. Image carries an already
// stored reference, never raw base64.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	Ingredients []IngredientAmount
	Tags        []uint
}

// RecipeUpdate is the partial update payload; nil fields keep their prior
// values, non-nil ingredient/tag sets are replaced wholesale.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Ingredients *[]IngredientAmount
	Tags        *[]uint
}

// ListFilters narrows a recipe listing. Tag slugs are OR-combined with each
// other and AND-combined with the remaining filters. The boolean filters use
// exclude-complement semantics on false; anonymous viewers asking for
// favorited/in-cart recipes get an empty set.
type ListFilters struct {
	Author           string
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}

func (s *RecipeService) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient")
}

// GetRecipe retrieves a recipe with its author, tags and ingredients.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.preloaded(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("recipe %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns a page of recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, filters ListFilters, viewerID *uint, offset, limit int) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if filters.Author != "" {
		if id, err := strconv.ParseUint(filters.Author, 10, 64); err == nil {
			query = query.Where("recipes.author_id = ?", id)
		} else {
			query = query.Where(
				"recipes.author_id IN (?)",
				s.db.Model(&models.User{}).Select("id").Where("username = ?", filters.Author),
			)
		}
	}

	if len(filters.TagSlugs) > 0 {
		sub := s.db.Model(&models.TagRecipe{}).
			Select("tag_recipes.recipe_id").
			Joins("JOIN tags ON tags.id = tag_recipes.tag_id").
			Where("tags.slug IN ?", filters.TagSlugs)
		query = query.Where("recipes.id IN (?)", sub)
	}

	if filters.IsFavorited != nil {
		if viewerID == nil {
			return []models.Recipe{}, 0, nil
		}
		sub := s.db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewerID)
		if *filters.IsFavorited {
			query = query.Where("recipes.id IN (?)", sub)
		} else {
			query = query.Where("recipes.id NOT IN (?)", sub)
		}
	}

	if filters.IsInShoppingCart != nil {
		if viewerID == nil {
			return []models.Recipe{}, 0, nil
		}
		sub := s.db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *viewerID)
		if *filters.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)", sub)
		} else {
			query = query.Where("recipes.id NOT IN (?)", sub)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.pub_date DESC, recipes.id DESC").
		Offset(offset).Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, total, nil
}

// CreateRecipe validates the payload and creates the recipe together with
// its ingredient and tag sets in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uint, in RecipeInput) (*models.Recipe, error) {
	if in.CookingTime < 1 {
		return nil, validationf("cooking time must be at least 1 minute")
	}
	if err := s.validateIngredients(ctx, in.Ingredients); err != nil {
		return nil, err
	}
	if err := s.validateTags(ctx, in.Tags); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Name:        in.Name,
		Text:        in.Text,
		Image:       in.Image,
		CookingTime: in.CookingTime,
		AuthorID:    authorID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients").Create(&recipe).Error; err != nil {
			return err
		}
		if err := insertIngredientSet(tx, recipe.ID, in.Ingredients); err != nil {
			return err
		}
		return replaceTagSet(tx, &recipe, in.Tags)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies a partial update. Ingredient and tag sets present in
// the payload are discarded and rebuilt inside the transaction so no reader
// ever observes a half-replaced set.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipeID uint, actor *models.User, in RecipeUpdate) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if !CanModifyRecipe(actor, recipe) {
		return nil, fmt.Errorf("recipe %d: %w", recipeID, ErrPermissionDenied)
	}

	if in.CookingTime != nil && *in.CookingTime < 1 {
		return nil, validationf("cooking time must be at least 1 minute")
	}
	if in.Ingredients != nil {
		if err := s.validateIngredients(ctx, *in.Ingredients); err != nil {
			return nil, err
		}
	}
	if in.Tags != nil {
		if err := s.validateTags(ctx, *in.Tags); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if in.Name != nil {
			updates["name"] = *in.Name
		}
		if in.Text != nil {
			updates["text"] = *in.Text
		}
		if in.Image != nil {
			updates["image"] = *in.Image
		}
		if in.CookingTime != nil {
			updates["cooking_time"] = *in.CookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Updates(updates).Error; err != nil {
				return err
			}
		}

		if in.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.IngredientRecipe{}).Error; err != nil {
				return err
			}
			if err := insertIngredientSet(tx, recipeID, *in.Ingredients); err != nil {
				return err
			}
		}

		if in.Tags != nil {
			return replaceTagSet(tx, recipe, *in.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRecipe(ctx, recipeID)
}

// DeleteRecipe removes a recipe; join rows, favorites and cart entries go
// with it via cascade.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID uint, actor *models.User) error {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if !CanModifyRecipe(actor, recipe) {
		return fmt.Errorf("recipe %d: %w", recipeID, ErrPermissionDenied)
	}
	return s.db.WithContext(ctx).Select("Ingredients", "Tags").Delete(recipe).Error
}

func (s *RecipeService) validateIngredients(ctx context.Context, items []IngredientAmount) error {
	if len(items) == 0 {
		return validationf("add at least one ingredient")
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			var ing models.Ingredient
			name := strconv.FormatUint(uint64(item.ID), 10)
			if err := s.db.WithContext(ctx).First(&ing, item.ID).Error; err == nil {
				name = ing.Name
			}
			return validationf("ingredient %s is listed more than once", name)
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)

		if item.Amount < 1 {
			return validationf("ingredient amount must be at least 1")
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return validationf("unknown ingredient, pick one from the preset list")
	}
	return nil
}

func (s *RecipeService) validateTags(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return validationf("add at least one tag")
	}

	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			var tag models.Tag
			name := strconv.FormatUint(uint64(id), 10)
			if err := s.db.WithContext(ctx).First(&tag, id).Error; err == nil {
				name = tag.Name
			}
			return validationf("tag %s is listed more than once", name)
		}
		seen[id] = true
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return validationf("unknown tag")
	}
	return nil
}

func insertIngredientSet(tx *gorm.DB, recipeID uint, items []IngredientAmount) error {
	rows := make([]models.IngredientRecipe, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.IngredientRecipe{
			RecipeID:     recipeID,
			IngredientID: item.ID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&rows).Error
}

func replaceTagSet(tx *gorm.DB, recipe *models.Recipe, tagIDs []uint) error {
	tags := make([]models.Tag, 0, len(tagIDs))
	for _, id := range tagIDs {
		tags = append(tags, models.Tag{ID: id})
	}
	return tx.Model(recipe).Association("Tags").Replace(&tags)
}

// AddFavorite bookmarks a recipe for the user; duplicates are a conflict.
func (s *RecipeService) AddFavorite(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.addRelation(ctx, userID, recipeID, "favorites",
		func() interface{} { return &models.Favorite{UserID: userID, RecipeID: recipeID} },
		"recipe is already in favorites")
}

// RemoveFavorite drops the bookmark; removing a missing one is not found.
func (s *RecipeService) RemoveFavorite(ctx context.Context, userID, recipeID uint) error {
	return s.removeRelation(ctx, userID, recipeID, &models.Favorite{},
		"recipe was not added to favorites")
}

// AddToCart puts a recipe in the user's shopping cart.
func (s *RecipeService) AddToCart(ctx context.Context, userID, recipeID uint) (*models.Recipe, error) {
	return s.addRelation(ctx, userID, recipeID, "shopping_carts",
		func() interface{} { return &models.ShoppingCart{UserID: userID, RecipeID: recipeID} },
		"recipe is already in the shopping cart")
}

// RemoveFromCart takes a recipe out of the cart.
func (s *RecipeService) RemoveFromCart(ctx context.Context, userID, recipeID uint) error {
	return s.removeRelation(ctx, userID, recipeID, &models.ShoppingCart{},
		"recipe was not added to the shopping cart")
}

func (s *RecipeService) addRelation(ctx context.Context, userID, recipeID uint, table string, newRow func() interface{}, conflictMsg string) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Table(table).
			Where("user_id = ? AND recipe_id = ?", userID, recipeID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%s: %w", conflictMsg, ErrConflict)
		}
		return tx.Create(newRow()).Error
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) removeRelation(ctx context.Context, userID, recipeID uint, model interface{}, missingMsg string) error {
	if _, err := s.GetRecipe(ctx, recipeID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", missingMsg, ErrNotFound)
	}
	return nil
}

// FavoriteRecipeIDs returns the viewer's favorited recipe id set; empty for
// anonymous viewers.
func (s *RecipeService) FavoriteRecipeIDs(ctx context.Context, viewerID *uint) (map[uint]bool, error) {
	return s.relationIDs(ctx, viewerID, &models.Favorite{})
}

// CartRecipeIDs returns the viewer's in-cart recipe id set.
func (s *RecipeService) CartRecipeIDs(ctx context.Context, viewerID *uint) (map[uint]bool, error) {
	return s.relationIDs(ctx, viewerID, &models.ShoppingCart{})
}

func (s *RecipeService) relationIDs(ctx context.Context, viewerID *uint, model interface{}) (map[uint]bool, error) {
	set := make(map[uint]bool)
	if viewerID == nil {
		return set, nil
	}

	var ids []uint
	if err := s.db.WithContext(ctx).Model(model).
		Where("user_id = ?", *viewerID).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
