package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
)

// AuthService registers users and checks credentials. Session handling is
// left to the HTTP layer.
type AuthService interface {
	Register(ctx context.Context, cmd RegisterCommand) (int64, error)
	Login(ctx context.Context, cmd LoginCommand) (int64, error)
	Authenticate(ctx context.Context, userID int64) (bool, error)
}

// RegisterCommand contains data for creating a new account
type RegisterCommand struct {
	Username  string `json:"username" validate:"required,notblank,max=64"`
	FirstName string `json:"firstname" validate:"required,max=100"`
	LastName  string `json:"lastname" validate:"required,max=100"`
	Country   string `json:"country" validate:"required,max=100"`
	Password  string `json:"password" validate:"required,max=72"`
	Email     string `json:"email" validate:"required,email,max=255"`
}

// LoginCommand contains login credentials
type LoginCommand struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FavoriteService manages a user's favorite provider recipes.
type FavoriteService interface {
	MarkFavorite(ctx context.Context, userID, recipeID int64) error
	UnmarkFavorite(ctx context.Context, userID, recipeID int64) error
	ListFavoriteIDs(ctx context.Context, userID int64) ([]int64, error)
	ListFavoriteRecipesDetailed(ctx context.Context, userID int64) ([]RecipeDetailsDTO, error)
}

// UserRecipeService manages recipes authored by users. Reads only ever
// return recipes owned by the caller.
type UserRecipeService interface {
	AddRecipe(ctx context.Context, userID int64, cmd AddRecipeCommand) (int64, error)
	GetRecipePreview(ctx context.Context, recipeID, ownerID int64) (*RecipePreviewDTO, error)
	GetRecipeFull(ctx context.Context, recipeID, ownerID int64) (*UserRecipeDTO, error)
	ListRecipesForOwner(ctx context.Context, ownerID int64) ([]RecipePreviewDTO, error)
}

// AddRecipeCommand contains data for creating a user recipe
type AddRecipeCommand struct {
	Name               string
	Cuisine            string
	ImageURL           string
	Summary            string
	PreparationMinutes int
	CookingMinutes     int
	Servings           int
	Vegetarian         bool
	Vegan              bool
	GlutenFree         bool
	Ingredients        []string
	Instructions       []string
	IsPublic           bool
}

// UserRecipeDTO is the full view of a user recipe.
type UserRecipeDTO struct {
	RecipeDetailsDTO
	PreparationMinutes int    `json:"preparationMinutes"`
	CookingMinutes     int    `json:"cookingMinutes"`
	IsPublic           bool   `json:"isPublic"`
	CreatedAt          string `json:"createdAt"`
}

// NewUserRecipePreviewDTO projects a stored user recipe.
func NewUserRecipePreviewDTO(r *recipe.UserRecipe) RecipePreviewDTO {
	diet := r.Diet()
	return RecipePreviewDTO{
		ID:             r.ID(),
		Title:          r.Name(),
		Image:          r.ImageURL(),
		ReadyInMinutes: r.ReadyInMinutes(),
		Vegetarian:     diet.Vegetarian,
		Vegan:          diet.Vegan,
		GlutenFree:     diet.GlutenFree,
		Summary:        r.Summary(),
	}
}

// NewUserRecipeDTO projects a stored user recipe with its decoded lists.
func NewUserRecipeDTO(r *recipe.UserRecipe) UserRecipeDTO {
	cuisines := []string{}
	if r.Cuisine() != "" {
		cuisines = append(cuisines, r.Cuisine())
	}
	return UserRecipeDTO{
		RecipeDetailsDTO: RecipeDetailsDTO{
			RecipePreviewDTO:    NewUserRecipePreviewDTO(r),
			Servings:            r.Servings(),
			Cuisines:            cuisines,
			ExtendedIngredients: ingredientDTOs(r.Ingredients()),
			Instructions:        instructionDTOs(r.Instructions()),
		},
		PreparationMinutes: r.PrepMinutes(),
		CookingMinutes:     r.CookMinutes(),
		IsPublic:           r.IsPublic(),
		CreatedAt:          r.CreatedAt().UTC().Format(time.RFC3339),
	}
}
