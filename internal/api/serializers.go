package api

import (
	"github.com/foodgram-project/backend/internal/models"
)

// ViewerSets holds the per-viewer relation sets the projections are derived
// from. They are computed per request and never cached on the entities.
type ViewerSets struct {
	Subscribed map[uint]bool
	Favorited  map[uint]bool
	InCart     map[uint]bool
}

// UserResponse is the external user shape with the viewer-dependent
// is_subscribed field.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func NewUserResponse(u *models.User, subscribed map[uint]bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed[u.ID],
	}
}

// IngredientAmountResponse is a recipe ingredient with its per-recipe amount.
type IngredientAmountResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe projection: author and tags expanded,
// ingredients joined with amounts, plus the viewer-dependent flags.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	Image            string                     `json:"image"`
	Ingredients      []IngredientAmountResponse `json:"ingredients"`
	Tags             []models.Tag               `json:"tags"`
	CookingTime      int                        `json:"cooking_time"`
	Author           UserResponse               `json:"author"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

func NewRecipeResponse(r *models.Recipe, view ViewerSets) RecipeResponse {
	ingredients := make([]IngredientAmountResponse, 0, len(r.Ingredients))
	for _, row := range r.Ingredients {
		ingredients = append(ingredients, IngredientAmountResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	tags := r.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return RecipeResponse{
		ID:               r.ID,
		Name:             r.Name,
		Text:             r.Text,
		Image:            r.Image,
		Ingredients:      ingredients,
		Tags:             tags,
		CookingTime:      r.CookingTime,
		Author:           NewUserResponse(&r.Author, view.Subscribed),
		IsFavorited:      view.Favorited[r.ID],
		IsInShoppingCart: view.InCart[r.ID],
	}
}

// RecipeSummary is the condensed recipe shape used inside subscription
// listings and favorite/cart responses.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func NewRecipeSummary(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// SubscriptionResponse extends the user projection with the author's most
// recent recipes (truncated to the configured limit) and the untruncated
// recipe count.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

func NewSubscriptionResponse(u *models.User, subscribed map[uint]bool, recipes []models.Recipe, total int64) SubscriptionResponse {
	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, NewRecipeSummary(&recipes[i]))
	}
	return SubscriptionResponse{
		UserResponse: NewUserResponse(u, subscribed),
		Recipes:      summaries,
		RecipesCount: total,
	}
}
