// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
)

// RecipeService serves recipes from the external provider.
// A userID of zero means the caller is anonymous.
type RecipeService interface {
	FetchRandom(ctx context.Context, number int, userID int64) ([]RecipePreviewDTO, error)
	FetchByID(ctx context.Context, recipeID, userID int64) (*RecipeDetailsDTO, error)
	Search(ctx context.Context, query SearchQuery, userID int64) (*SearchResultDTO, error)
	ByIDs(ctx context.Context, ids []int64) ([]RecipeDetailsDTO, error)
}

// SearchQuery defines search parameters
type SearchQuery struct {
	Text        string
	Cuisine     string
	Diet        string
	Intolerance string
	Number      int
}

// Response DTOs. Field names follow the provider's camelCase so provider and
// user recipes render the same way.

// RecipePreviewDTO is the summary shown in lists.
type RecipePreviewDTO struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	AggregateLikes int    `json:"aggregateLikes"`
	Vegetarian     bool   `json:"vegetarian"`
	Vegan          bool   `json:"vegan"`
	GlutenFree     bool   `json:"glutenFree"`
	Summary        string `json:"summary,omitempty"`
	IsFavorite     bool   `json:"isFavorite"`
}

// IngredientDTO is one ingredient line as written by the author.
type IngredientDTO struct {
	Original string `json:"original"`
}

// InstructionDTO is one numbered preparation step.
type InstructionDTO struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// RecipeDetailsDTO is the full recipe view.
type RecipeDetailsDTO struct {
	RecipePreviewDTO
	Servings            int              `json:"servings"`
	Cuisines            []string         `json:"cuisines"`
	ExtendedIngredients []IngredientDTO  `json:"extendedIngredients"`
	Instructions        []InstructionDTO `json:"instructions"`
}

// SearchResultDTO is the search response. Message is set when nothing matched.
type SearchResultDTO struct {
	Results      []RecipePreviewDTO `json:"results"`
	TotalResults int                `json:"totalResults"`
	Message      string             `json:"message,omitempty"`
}

// NewPreviewDTO projects a provider recipe.
func NewPreviewDTO(r recipe.ExternalRecipe) RecipePreviewDTO {
	return RecipePreviewDTO{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		AggregateLikes: r.AggregateLikes,
		Vegetarian:     r.Diet.Vegetarian,
		Vegan:          r.Diet.Vegan,
		GlutenFree:     r.Diet.GlutenFree,
		Summary:        r.Summary,
	}
}

// NewDetailsDTO projects a provider recipe with its ingredients and steps.
func NewDetailsDTO(r recipe.ExternalRecipe) RecipeDetailsDTO {
	cuisines := r.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	return RecipeDetailsDTO{
		RecipePreviewDTO:    NewPreviewDTO(r),
		Servings:            r.Servings,
		Cuisines:            cuisines,
		ExtendedIngredients: ingredientDTOs(r.Ingredients),
		Instructions:        instructionDTOs(r.Steps),
	}
}

func ingredientDTOs(lines []string) []IngredientDTO {
	out := make([]IngredientDTO, 0, len(lines))
	for _, line := range lines {
		out = append(out, IngredientDTO{Original: line})
	}
	return out
}

func instructionDTOs(steps []string) []InstructionDTO {
	out := make([]InstructionDTO, 0, len(steps))
	for i, step := range steps {
		out = append(out, InstructionDTO{Number: i + 1, Step: step})
	}
	return out
}
