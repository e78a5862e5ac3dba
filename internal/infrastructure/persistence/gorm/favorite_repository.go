package gorm

import (
	"context"
	"fmt"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository implements the favorite repository interface using GORM
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) outbound.FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add inserts a favorite pair
func (r *FavoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	model := &FavoriteModel{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now().UTC()}

	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error
	switch {
	case err == nil:
		return nil
	case isDuplicate(err):
		return recipe.ErrFavoriteExists
	case isForeignKeyViolation(err):
		return recipe.ErrFavoriteOwnerGone
	default:
		return fmt.Errorf("insert favorite: %w", err)
	}
}

// Remove deletes a favorite pair; removing a missing pair is not an error
func (r *FavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&FavoriteModel{}).Error
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// ListIDs returns the user's favorite recipe ids, oldest first
func (r *FavoriteRepository) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).
		Model(&FavoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at, recipe_id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	return ids, nil
}
