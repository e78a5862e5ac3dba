package handlers

import (
	"net/http"

	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/gin-gonic/gin"
)

const defaultRandomNumber = 1

// RecipeHandler serves provider recipes. Session is optional; signed-in
// callers get isFavorite filled in.
type RecipeHandler struct {
	recipes inbound.RecipeService
}

// NewRecipeHandler creates a new recipe handler
func NewRecipeHandler(recipes inbound.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes registers the /recipes routes
func (h *RecipeHandler) RegisterRoutes(r *gin.RouterGroup) {
	recipes := r.Group("/recipes")
	{
		recipes.GET("/search", h.Search)
		recipes.GET("/random", h.Random)
		recipes.GET("/:recipeId", h.Get)
	}
}

// Search handles GET /recipes/search
func (h *RecipeHandler) Search(c *gin.Context) {
	number, ok := queryCount(c, "number", 0)
	if !ok {
		return
	}

	result, err := h.recipes.Search(c.Request.Context(), inbound.SearchQuery{
		Text:        c.Query("recipeName"),
		Cuisine:     c.Query("cuisine"),
		Diet:        c.Query("diet"),
		Intolerance: c.Query("intolerance"),
		Number:      number,
	}, optionalUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Random handles GET /recipes/random
func (h *RecipeHandler) Random(c *gin.Context) {
	number, ok := queryCount(c, "number", defaultRandomNumber)
	if !ok {
		return
	}

	previews, err := h.recipes.FetchRandom(c.Request.Context(), number, optionalUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, previews)
}

// Get handles GET /recipes/:recipeId
func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseID(c.Param("recipeId"))
	if !ok {
		_ = c.Error(apperrors.NewValidationErrors([]apperrors.ValidationError{
			{Field: "recipeId", Tag: "gt", Message: "recipeId must be a positive integer"},
		}))
		return
	}

	details, err := h.recipes.FetchByID(c.Request.Context(), id, optionalUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, details)
}
