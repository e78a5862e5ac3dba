package gorm

import (
	"context"
	"errors"
	"fmt"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRecipeRepository implements the user recipe repository interface using GORM
type UserRecipeRepository struct {
	db *gorm.DB
}

// NewUserRecipeRepository creates a new user recipe repository
func NewUserRecipeRepository(db *gorm.DB) outbound.UserRecipeRepository {
	return &UserRecipeRepository{db: db}
}

// Create inserts r and assigns its id
func (repo *UserRecipeRepository) Create(ctx context.Context, r *recipe.UserRecipe) error {
	model := UserRecipeToModel(r)
	if err := repo.db.WithContext(ctx).Omit(clause.Associations).Create(model).Error; err != nil {
		return fmt.Errorf("insert user recipe: %w", err)
	}
	r.AssignID(model.ID)
	return nil
}

// FindByIDAndOwner returns the recipe only if ownerID owns it
func (repo *UserRecipeRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*recipe.UserRecipe, error) {
	var model UserRecipeModel
	err := repo.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, recipe.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user recipe: %w", err)
	}
	return ModelToUserRecipe(&model), nil
}

// ListByOwner returns every recipe of ownerID, newest first
func (repo *UserRecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*recipe.UserRecipe, error) {
	var models []UserRecipeModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("query user recipes: %w", err)
	}

	out := make([]*recipe.UserRecipe, 0, len(models))
	for i := range models {
		out = append(out, ModelToUserRecipe(&models[i]))
	}
	return out, nil
}
