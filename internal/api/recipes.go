package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/service"
)

type RecipeHandler struct {
	recipes  *service.RecipeService
	users    *service.UserService
	images   *service.ImageService
	shopping *service.ShoppingListService
	auth     middleware.TokenValidator
	cfg      *config.Config
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	users *service.UserService,
	images *service.ImageService,
	shopping *service.ShoppingListService,
	auth middleware.TokenValidator,
	cfg *config.Config,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:  recipes,
		users:    users,
		images:   images,
		shopping: shopping,
		auth:     auth,
		cfg:      cfg,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	recipes.Use(middleware.OptionalAuthMiddleware(h.auth))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
	}

	authed := router.Group("/recipes")
	authed.Use(middleware.AuthMiddleware(h.auth))
	{
		authed.POST("", h.CreateRecipe)
		authed.PUT("/:id", h.UpdateRecipe)
		authed.PATCH("/:id", h.UpdateRecipe)
		authed.DELETE("/:id", h.DeleteRecipe)
		authed.POST("/:id/favorite", h.AddFavorite)
		authed.DELETE("/:id/favorite", h.RemoveFavorite)
		authed.POST("/:id/shopping_cart", h.AddToCart)
		authed.DELETE("/:id/shopping_cart", h.RemoveFromCart)
		authed.GET("/download_shopping_cart", h.DownloadShoppingCart)
	}
}

// viewerSets gathers the relation sets backing the per-viewer fields.
func (h *RecipeHandler) viewerSets(c *gin.Context, viewer *uint) (ViewerSets, error) {
	ctx := c.Request.Context()

	subscribed, err := h.users.SubscribedAuthorIDs(ctx, viewer)
	if err != nil {
		return ViewerSets{}, err
	}
	favorited, err := h.recipes.FavoriteRecipeIDs(ctx, viewer)
	if err != nil {
		return ViewerSets{}, err
	}
	inCart, err := h.recipes.CartRecipeIDs(ctx, viewer)
	if err != nil {
		return ViewerSets{}, err
	}
	return ViewerSets{Subscribed: subscribed, Favorited: favorited, InCart: inCart}, nil
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := viewerID(c)
	filters := service.ListFilters{
		Author:           c.Query("author"),
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      parseBoolQuery(c, "is_favorited"),
		IsInShoppingCart: parseBoolQuery(c, "is_in_shopping_cart"),
	}

	params := parsePageParams(c, h.cfg)
	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), filters, viewer, params.offset(), params.limit)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.viewerSets(c, viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, NewRecipeResponse(&recipes[i], view))
	}
	c.JSON(http.StatusOK, newPage(c, total, results, params))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.viewerSets(c, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRecipeResponse(recipe, view))
}

type recipeRequest struct {
	Name        string                     `json:"name" binding:"required"`
	Text        string                     `json:"text" binding:"required"`
	Image       string                     `json:"image" binding:"required"`
	CookingTime int                        `json:"cooking_time" binding:"required"`
	Ingredients []service.IngredientAmount `json:"ingredients" binding:"required"`
	Tags        []uint                     `json:"tags" binding:"required"`
}

type recipeUpdateRequest struct {
	Name        *string                     `json:"name"`
	Text        *string                     `json:"text"`
	Image       *string                     `json:"image"`
	CookingTime *int                        `json:"cooking_time"`
	Ingredients *[]service.IngredientAmount `json:"ingredients"`
	Tags        *[]uint                     `json:"tags"`
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req recipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.images.Ingest(c.Request.Context(), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), userID, service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.viewerSets(c, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewRecipeResponse(recipe, view))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req recipeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	update := service.RecipeUpdate{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		Tags:        req.Tags,
	}
	if req.Image != nil {
		image, err := h.images.Ingest(c.Request.Context(), *req.Image)
		if err != nil {
			respondError(c, err)
			return
		}
		update.Image = &image
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), id, actor, update)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.viewerSets(c, &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewRecipeResponse(recipe, view))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	actor, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), id, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, h.recipes.AddFavorite)
}

func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, h.recipes.RemoveFavorite)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, h.recipes.AddToCart)
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, h.recipes.RemoveFromCart)
}

func (h *RecipeHandler) addRelation(c *gin.Context, add func(ctx context.Context, userID, recipeID uint) (*models.Recipe, error)) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	recipe, err := add(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewRecipeSummary(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, remove func(ctx context.Context, userID, recipeID uint) error) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	list, err := h.shopping.Build(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=shopping_cart.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list))
}
