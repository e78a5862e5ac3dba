package handlers

import (
	"net/http"

	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/gin-gonic/gin"
)

// UserHandler serves the per-user routes: favorites and private recipes.
// Every route requires a session.
type UserHandler struct {
	favorites inbound.FavoriteService
	recipes   inbound.UserRecipeService
}

// NewUserHandler creates a new user handler
func NewUserHandler(favorites inbound.FavoriteService, recipes inbound.UserRecipeService) *UserHandler {
	return &UserHandler{favorites: favorites, recipes: recipes}
}

// RegisterRoutes registers the /users routes behind requireSession
func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, requireSession gin.HandlerFunc) {
	users := r.Group("/users", requireSession)
	{
		users.POST("/favorites", h.MarkFavorite)
		users.DELETE("/favorites", h.UnmarkFavorite)
		users.GET("/favorites", h.ListFavorites)
		users.GET("/favorites/ids", h.ListFavoriteIDs)

		users.POST("/addRecipe", h.AddRecipe)
		users.GET("/PrivateRecipes", h.ListPrivateRecipes)
		users.GET("/PrivateRecipe/:recipeId/preview", h.PrivateRecipePreview)
		users.GET("/PrivateRecipe/:recipeId/view", h.PrivateRecipeView)
	}
}

// MarkFavorite handles POST /users/favorites
func (h *UserHandler) MarkFavorite(c *gin.Context) {
	userID, recipeID, ok := h.favoriteTarget(c)
	if !ok {
		return
	}

	if err := h.favorites.MarkFavorite(c.Request.Context(), userID, recipeID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "The Recipe successfully saved as favorite", "success": true})
}

// UnmarkFavorite handles DELETE /users/favorites
func (h *UserHandler) UnmarkFavorite(c *gin.Context) {
	userID, recipeID, ok := h.favoriteTarget(c)
	if !ok {
		return
	}

	if err := h.favorites.UnmarkFavorite(c.Request.Context(), userID, recipeID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "The Recipe successfully removed from favorites", "success": true})
}

// ListFavorites handles GET /users/favorites
func (h *UserHandler) ListFavorites(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	details, err := h.favorites.ListFavoriteRecipesDetailed(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// ListFavoriteIDs handles GET /users/favorites/ids
func (h *UserHandler) ListFavoriteIDs(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	ids, err := h.favorites.ListFavoriteIDs(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ids)
}

func (h *UserHandler) favoriteTarget(c *gin.Context) (int64, int64, bool) {
	userID, ok := currentUser(c)
	if !ok {
		return 0, 0, false
	}

	var req favoriteRequest
	if !bindJSON(c, &req) {
		return 0, 0, false
	}
	if !req.RecipeID.Set {
		_ = c.Error(apperrors.NewValidationErrors([]apperrors.ValidationError{
			{Field: "recipeId", Tag: "required", Message: "recipeId is required"},
		}))
		return 0, 0, false
	}

	return userID, int64(req.RecipeID.Value), true
}

// addRecipeRequest is the body of POST /users/addRecipe. Older clients send
// recipe_name, image_url and numberOfDishes; those are accepted as aliases.
type addRecipeRequest struct {
	Name               string   `json:"name"`
	RecipeName         string   `json:"recipe_name"`
	Cuisine            string   `json:"cuisine"`
	ImageURL           string   `json:"imageUrl"`
	ImageURLAlias      string   `json:"image_url"`
	Summary            string   `json:"summary"`
	PreparationMinutes flexInt  `json:"preparationMinutes"`
	ReadyInMinutes     flexInt  `json:"readyInMinutes"`
	CookingMinutes     flexInt  `json:"cookingMinutes"`
	Servings           flexInt  `json:"servings"`
	NumberOfDishes     flexInt  `json:"numberOfDishes"`
	Vegetarian         flexBool `json:"vegetarian"`
	Vegan              flexBool `json:"vegan"`
	GlutenFree         flexBool `json:"glutenFree"`
	Ingredients        []string `json:"ingredients"`
	Instructions       []string `json:"instructions"`
	IsPublic           flexBool `json:"isPublic"`
}

func (r addRecipeRequest) command() inbound.AddRecipeCommand {
	cmd := inbound.AddRecipeCommand{
		Name:           firstNonEmpty(r.Name, r.RecipeName),
		Cuisine:        r.Cuisine,
		ImageURL:       firstNonEmpty(r.ImageURL, r.ImageURLAlias),
		Summary:        r.Summary,
		CookingMinutes: r.CookingMinutes.Value,
		Servings:       r.Servings.Value,
		Vegetarian:     bool(r.Vegetarian),
		Vegan:          bool(r.Vegan),
		GlutenFree:     bool(r.GlutenFree),
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		IsPublic:       bool(r.IsPublic),
	}

	cmd.PreparationMinutes = r.PreparationMinutes.Value
	if !r.PreparationMinutes.Set {
		cmd.PreparationMinutes = r.ReadyInMinutes.Value
	}
	if !r.Servings.Set {
		cmd.Servings = r.NumberOfDishes.Value
	}
	return cmd
}

// AddRecipe handles POST /users/addRecipe
func (h *UserHandler) AddRecipe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req addRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.recipes.AddRecipe(c.Request.Context(), userID, req.command())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ListPrivateRecipes handles GET /users/PrivateRecipes
func (h *UserHandler) ListPrivateRecipes(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	list, err := h.recipes.ListRecipesForOwner(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// PrivateRecipePreview handles GET /users/PrivateRecipe/:recipeId/preview
func (h *UserHandler) PrivateRecipePreview(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	// malformed ids fall through to the not-found answer
	recipeID, _ := parseID(c.Param("recipeId"))
	preview, err := h.recipes.GetRecipePreview(c.Request.Context(), recipeID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, preview)
}

// PrivateRecipeView handles GET /users/PrivateRecipe/:recipeId/view
func (h *UserHandler) PrivateRecipeView(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	recipeID, _ := parseID(c.Param("recipeId"))
	full, err := h.recipes.GetRecipeFull(c.Request.Context(), recipeID, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, full)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
