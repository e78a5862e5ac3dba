// Package favorite manages the set of provider recipes a user has starred
package favorite

import (
	"context"
	"errors"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"go.uber.org/zap"
)

// Service implements inbound.FavoriteService
type Service struct {
	favorites outbound.FavoriteRepository
	recipes   inbound.RecipeService
	logger    *zap.Logger
}

// NewService creates a new favorite service
func NewService(favorites outbound.FavoriteRepository, recipes inbound.RecipeService, logger *zap.Logger) *Service {
	return &Service{
		favorites: favorites,
		recipes:   recipes,
		logger:    logger.Named("favorite-service"),
	}
}

// MarkFavorite records recipeID as a favorite of userID
func (s *Service) MarkFavorite(ctx context.Context, userID, recipeID int64) error {
	if recipeID <= 0 {
		return recipeIDError()
	}

	err := s.favorites.Add(ctx, userID, recipeID)
	switch {
	case err == nil:
		s.logger.Debug("Favorite added", zap.Int64("user_id", userID), zap.Int64("recipe_id", recipeID))
		return nil
	case errors.Is(err, recipe.ErrFavoriteExists):
		return apperrors.NewFavoriteAlreadyExistsError(recipeID)
	case errors.Is(err, recipe.ErrFavoriteOwnerGone):
		return apperrors.NewUnauthorizedError("User no longer exists")
	default:
		return apperrors.NewDatabaseError("add favorite", err)
	}
}

// UnmarkFavorite removes the pair; removing an absent favorite succeeds
func (s *Service) UnmarkFavorite(ctx context.Context, userID, recipeID int64) error {
	if recipeID <= 0 {
		return recipeIDError()
	}
	if err := s.favorites.Remove(ctx, userID, recipeID); err != nil {
		return apperrors.NewDatabaseError("remove favorite", err)
	}
	return nil
}

// ListFavoriteIDs returns the ids favorited by userID
func (s *Service) ListFavoriteIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.favorites.ListIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list favorites", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// ListFavoriteRecipesDetailed resolves every favorite through the recipe
// service. A single failed lookup fails the whole list.
func (s *Service) ListFavoriteRecipesDetailed(ctx context.Context, userID int64) ([]inbound.RecipeDetailsDTO, error) {
	ids, err := s.ListFavoriteIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []inbound.RecipeDetailsDTO{}, nil
	}

	details, err := s.recipes.ByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("Resolving favorites failed",
			zap.Int64("user_id", userID),
			zap.Int("count", len(ids)),
			zap.Error(err),
		)
		return nil, err
	}

	for i := range details {
		details[i].IsFavorite = true
	}
	return details, nil
}

func recipeIDError() error {
	return apperrors.NewValidationErrors([]apperrors.ValidationError{
		{Field: "recipeId", Tag: "gt", Message: recipe.ErrInvalidRecipeID.Error()},
	})
}

var _ inbound.FavoriteService = (*Service)(nil)
