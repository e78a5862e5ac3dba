package spoonacular

import (
	"strings"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
)

type randomResponse struct {
	Recipes []recipeInformation `json:"recipes"`
}

type searchResponse struct {
	Results []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"results"`
	TotalResults int `json:"totalResults"`
}

type recipeInformation struct {
	ID                   int64                 `json:"id"`
	Title                string                `json:"title"`
	Image                string                `json:"image"`
	Summary              string                `json:"summary"`
	ReadyInMinutes       int                   `json:"readyInMinutes"`
	AggregateLikes       int                   `json:"aggregateLikes"`
	Servings             int                   `json:"servings"`
	Vegetarian           bool                  `json:"vegetarian"`
	Vegan                bool                  `json:"vegan"`
	GlutenFree           bool                  `json:"glutenFree"`
	Cuisines             []string              `json:"cuisines"`
	ExtendedIngredients  []extendedIngredient  `json:"extendedIngredients"`
	AnalyzedInstructions []analyzedInstruction `json:"analyzedInstructions"`
	Instructions         string                `json:"instructions"`
}

type extendedIngredient struct {
	Original string `json:"original"`
	Name     string `json:"name"`
}

type analyzedInstruction struct {
	Name  string `json:"name"`
	Steps []struct {
		Number int    `json:"number"`
		Step   string `json:"step"`
	} `json:"steps"`
}

// normalize flattens the provider payload. Steps of every instruction block
// are concatenated in order; the free-text instructions are used only when
// no analyzed steps exist.
func (r recipeInformation) normalize() recipe.ExternalRecipe {
	ingredients := make([]string, 0, len(r.ExtendedIngredients))
	for _, ing := range r.ExtendedIngredients {
		line := strings.TrimSpace(ing.Original)
		if line == "" {
			line = strings.TrimSpace(ing.Name)
		}
		if line != "" {
			ingredients = append(ingredients, line)
		}
	}

	steps := []string{}
	for _, block := range r.AnalyzedInstructions {
		for _, s := range block.Steps {
			if step := strings.TrimSpace(s.Step); step != "" {
				steps = append(steps, step)
			}
		}
	}
	if len(steps) == 0 && strings.TrimSpace(r.Instructions) != "" {
		steps = recipe.DecodeList(r.Instructions)
	}

	cuisines := r.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}

	return recipe.ExternalRecipe{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		Summary:        r.Summary,
		ReadyInMinutes: r.ReadyInMinutes,
		AggregateLikes: r.AggregateLikes,
		Servings:       r.Servings,
		Diet: recipe.Diet{
			Vegetarian: r.Vegetarian,
			Vegan:      r.Vegan,
			GlutenFree: r.GlutenFree,
		},
		Cuisines:    cuisines,
		Ingredients: ingredients,
		Steps:       steps,
	}
}
