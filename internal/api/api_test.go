package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/models"
	"github.com/foodgram-project/backend/internal/router"
	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	auth    *service.AuthService
	recipes *service.RecipeService
	users   *service.UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.OpenTestDB(t)
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		StorageBackend: "local",
		MediaRoot:      t.TempDir(),
		MediaURL:       "/media/",
		RecipesLimit:   3,
		PageSize:       6,
		PageSizeMax:    100,
	}

	authSvc := service.NewAuthService(db, nil, cfg.JWTSecret)
	userSvc := service.NewUserService(db)
	recipeSvc := service.NewRecipeService(db)
	imageSvc := service.NewImageService(service.NewLocalImageStore(cfg.MediaRoot, cfg.MediaURL))
	shoppingSvc := service.NewShoppingListService(db)
	ingredientSvc := service.NewIngredientService(db)
	tagSvc := service.NewTagService(db)

	engine := router.SetupRouter(
		cfg,
		api.NewAuthHandler(authSvc),
		api.NewUserHandler(userSvc, authSvc, cfg),
		api.NewRecipeHandler(recipeSvc, userSvc, imageSvc, shoppingSvc, authSvc, cfg),
		api.NewIngredientHandler(ingredientSvc, authSvc),
		api.NewTagHandler(tagSvc, authSvc),
	)

	return &testEnv{
		router:  engine,
		db:      db,
		cfg:     cfg,
		auth:    authSvc,
		recipes: recipeSvc,
		users:   userSvc,
	}
}

// login returns a bearer token for a fixture user.
func (e *testEnv) login(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.auth.Login(context.Background(), user.Email, testhelpers.TestPassword)
	require.NoError(t, err)
	return token
}

// do performs a request against the test router; a non-empty token is sent
// as a bearer credential.
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// seedRecipe creates a recipe owned by author through the service layer.
func (e *testEnv) seedRecipe(t *testing.T, author *models.User, name string) *models.Recipe {
	t.Helper()

	ing := testhelpers.CreateIngredient(t, e.db, name+" base", "g")
	tag := testhelpers.CreateTag(t, e.db, name+" tag", uniqueNamedColor(t, e.db), name+"-tag")

	recipe, err := e.recipes.CreateRecipe(context.Background(), author.ID, service.RecipeInput{
		Name:        name,
		Text:        "Cook it",
		Image:       "/media/recipes/images/" + name + ".png",
		CookingTime: 15,
		Ingredients: []service.IngredientAmount{{ID: ing.ID, Amount: 10}},
		Tags:        []uint{tag.ID},
	})
	require.NoError(t, err)
	return recipe
}

// uniqueNamedColor hands out hex values that stay unique per database, the
// tag color column carries a unique index.
func uniqueNamedColor(t *testing.T, db *gorm.DB) string {
	t.Helper()

	palette := []string{"#FF0000", "#008000", "#0000FF", "#FFFF00", "#FFA500", "#800080", "#00FFFF", "#FFC0CB"}
	var used int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&used).Error)
	require.Less(t, int(used), len(palette))
	return palette[used]
}

func jsonStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
