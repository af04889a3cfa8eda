package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/service"
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
	cfg   *config.Config
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, cfg *config.Config) *UserHandler {
	return &UserHandler{users: users, auth: auth, cfg: cfg}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	users.Use(middleware.OptionalAuthMiddleware(h.auth))
	{
		users.GET("", h.ListUsers)
		users.POST("", h.CreateUser)
		users.GET("/:id", h.GetUser)
	}

	authed := router.Group("/users")
	authed.Use(middleware.AuthMiddleware(h.auth))
	{
		authed.GET("/me", h.Me)
		authed.PATCH("/:id", h.UpdateUser)
		authed.POST("/set_password", h.SetPassword)
		authed.GET("/subscriptions", h.Subscriptions)
		authed.POST("/:id/subscribe", h.Subscribe)
		authed.DELETE("/:id/subscribe", h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	params := parsePageParams(c, h.cfg)
	users, total, err := h.users.ListUsers(c.Request.Context(), c.Query("search"), params.offset(), params.limit)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.users.SubscribedAuthorIDs(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]UserResponse, 0, len(users))
	for i := range users {
		results = append(results, NewUserResponse(&users[i], subscribed))
	}
	c.JSON(http.StatusOK, newPage(c, total, results, params))
}

type createUserRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.users.SubscribedAuthorIDs(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user, subscribed))
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.users.SubscribedAuthorIDs(c.Request.Context(), &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user, subscribed))
}

type updateUserRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := h.users.UpdateUser(c.Request.Context(), actor, targetID, service.UserUpdate{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	subscribed, err := h.users.SubscribedAuthorIDs(c.Request.Context(), &userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(updated, subscribed))
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *UserHandler) SetPassword(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.SetPassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "password changed successfully"})
}

// subscription renders one author with their recent recipes and count.
func (h *UserHandler) subscription(c *gin.Context, author uint) (*SubscriptionResponse, error) {
	ctx := c.Request.Context()

	user, err := h.users.GetUser(ctx, author)
	if err != nil {
		return nil, err
	}
	subscribed, err := h.users.SubscribedAuthorIDs(ctx, viewerID(c))
	if err != nil {
		return nil, err
	}
	recipes, total, err := h.users.RecentRecipes(ctx, author, h.cfg.RecipesLimit)
	if err != nil {
		return nil, err
	}

	resp := NewSubscriptionResponse(user, subscribed, recipes, total)
	return &resp, nil
}

func (h *UserHandler) Subscriptions(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	params := parsePageParams(c, h.cfg)
	authors, total, err := h.users.Subscriptions(c.Request.Context(), userID, params.offset(), params.limit)
	if err != nil {
		respondError(c, err)
		return
	}

	results := make([]SubscriptionResponse, 0, len(authors))
	for i := range authors {
		resp, err := h.subscription(c, authors[i].ID)
		if err != nil {
			respondError(c, err)
			return
		}
		results = append(results, *resp)
	}
	c.JSON(http.StatusOK, newPage(c, total, results, params))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.users.Subscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}

	resp, err := h.subscription(c, authorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	authorID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.users.Unsubscribe(c.Request.Context(), userID, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
