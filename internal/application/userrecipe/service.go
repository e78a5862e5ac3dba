// Package userrecipe provides the application layer for user-authored recipes
package userrecipe

import (
	"context"
	"errors"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"go.uber.org/zap"
)

// Service implements inbound.UserRecipeService
type Service struct {
	recipes outbound.UserRecipeRepository
	logger  *zap.Logger
}

// NewService creates a new user recipe service
func NewService(recipes outbound.UserRecipeRepository, logger *zap.Logger) *Service {
	return &Service{
		recipes: recipes,
		logger:  logger.Named("user-recipe-service"),
	}
}

// AddRecipe validates and stores a recipe owned by userID
func (s *Service) AddRecipe(ctx context.Context, userID int64, cmd inbound.AddRecipeCommand) (int64, error) {
	r, err := recipe.NewUserRecipe(userID, recipe.Draft{
		Name:        cmd.Name,
		Cuisine:     cmd.Cuisine,
		ImageURL:    cmd.ImageURL,
		Summary:     cmd.Summary,
		PrepMinutes: cmd.PreparationMinutes,
		CookMinutes: cmd.CookingMinutes,
		Servings:    cmd.Servings,
		Diet: recipe.Diet{
			Vegetarian: cmd.Vegetarian,
			Vegan:      cmd.Vegan,
			GlutenFree: cmd.GlutenFree,
		},
		Ingredients:  cmd.Ingredients,
		Instructions: cmd.Instructions,
		IsPublic:     cmd.IsPublic,
	})
	if err != nil {
		return 0, draftError(err)
	}

	if err := s.recipes.Create(ctx, r); err != nil {
		return 0, apperrors.NewDatabaseError("create recipe", err)
	}

	s.logger.Info("Recipe created",
		zap.Int64("recipe_id", r.ID()),
		zap.Int64("user_id", userID),
	)
	return r.ID(), nil
}

// GetRecipePreview returns the preview of a recipe owned by ownerID
func (s *Service) GetRecipePreview(ctx context.Context, recipeID, ownerID int64) (*inbound.RecipePreviewDTO, error) {
	r, err := s.find(ctx, recipeID, ownerID)
	if err != nil {
		return nil, err
	}
	dto := inbound.NewUserRecipePreviewDTO(r)
	return &dto, nil
}

// GetRecipeFull returns the full view of a recipe owned by ownerID
func (s *Service) GetRecipeFull(ctx context.Context, recipeID, ownerID int64) (*inbound.UserRecipeDTO, error) {
	r, err := s.find(ctx, recipeID, ownerID)
	if err != nil {
		return nil, err
	}
	dto := inbound.NewUserRecipeDTO(r)
	return &dto, nil
}

// ListRecipesForOwner returns previews of every recipe of ownerID, newest first
func (s *Service) ListRecipesForOwner(ctx context.Context, ownerID int64) ([]inbound.RecipePreviewDTO, error) {
	list, err := s.recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list recipes", err)
	}

	out := make([]inbound.RecipePreviewDTO, 0, len(list))
	for _, r := range list {
		out = append(out, inbound.NewUserRecipePreviewDTO(r))
	}
	return out, nil
}

// find hides other users' recipes behind the same not-found error as
// missing ones.
func (s *Service) find(ctx context.Context, recipeID, ownerID int64) (*recipe.UserRecipe, error) {
	if recipeID <= 0 {
		return nil, apperrors.NewRecipeNotFoundError(recipeID)
	}

	r, err := s.recipes.FindByIDAndOwner(ctx, recipeID, ownerID)
	if errors.Is(err, recipe.ErrRecipeNotFound) {
		return nil, apperrors.NewRecipeNotFoundError(recipeID)
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("find recipe", err)
	}
	return r, nil
}

var draftFields = []struct {
	err   error
	field string
	tag   string
}{
	{recipe.ErrNameRequired, "name", "required"},
	{recipe.ErrNameTooLong, "name", "max"},
	{recipe.ErrImageURLRequired, "imageUrl", "required"},
	{recipe.ErrInvalidImageURL, "imageUrl", "url"},
	{recipe.ErrNoIngredients, "ingredients", "min"},
	{recipe.ErrNoInstructions, "instructions", "min"},
	{recipe.ErrBlankEntry, "ingredients", "notblank"},
	{recipe.ErrDelimiterInEntry, "ingredients", "singleline"},
	{recipe.ErrNegativeTime, "preparationMinutes", "gte"},
	{recipe.ErrInvalidServings, "servings", "gt"},
}

func draftError(err error) error {
	for _, f := range draftFields {
		if errors.Is(err, f.err) {
			return apperrors.NewValidationErrors([]apperrors.ValidationError{
				{Field: f.field, Tag: f.tag, Message: err.Error()},
			})
		}
	}
	return apperrors.Wrap(err, "Failed to create recipe")
}

var _ inbound.UserRecipeService = (*Service)(nil)
