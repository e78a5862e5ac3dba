package postgres

import (
	"context"
	"fmt"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// FavoriteRepository stores favorite (user, recipe) pairs
type FavoriteRepository struct {
	db     *Gateway
	logger *zap.Logger
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *Gateway, logger *zap.Logger) outbound.FavoriteRepository {
	return &FavoriteRepository{
		db:     db,
		logger: logger.Named("favorite-repository"),
	}
}

// Add inserts a favorite pair
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorite_recipes (user_id, recipe_id) VALUES ($1, $2)`,
		userID, recipeID,
	)
	switch pgErrorCode(err) {
	case "":
	case uniqueViolation:
		return recipe.ErrFavoriteExists
	case foreignKeyViolation:
		return recipe.ErrFavoriteOwnerGone
	}
	if err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite pair; removing a missing pair is not an error
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM favorite_recipes WHERE user_id = $1 AND recipe_id = $2`,
		userID, recipeID,
	)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Debug("Favorite already absent",
			zap.Int64("user_id", userID),
			zap.Int64("recipe_id", recipeID),
		)
	}
	return nil
}

// ListIDs returns the user's favorite recipe ids, oldest first
func (r *FavoriteRepository) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT recipe_id FROM favorite_recipes WHERE user_id = $1 ORDER BY created_at, recipe_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan favorites: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}
