package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// UserRecipeRepository stores user-authored recipes. Lists are kept as
// delimited text; see recipe.EncodeList and recipe.Diet.Encode.
type UserRecipeRepository struct {
	db     *Gateway
	logger *zap.Logger
}

// NewUserRecipeRepository creates a new user recipe repository
func NewUserRecipeRepository(db *Gateway, logger *zap.Logger) outbound.UserRecipeRepository {
	return &UserRecipeRepository{
		db:     db,
		logger: logger.Named("user-recipe-repository"),
	}
}

const userRecipeColumns = `id, user_id, name, cuisine, diet, ingredients, instructions,
	image_url, summary, prep_minutes, cook_minutes, servings, is_public, created_at`

// Create inserts r and assigns its id
func (repo *UserRecipeRepository) Create(ctx context.Context, r *recipe.UserRecipe) error {
	err := repo.db.WithConn(ctx, func(q Querier) error {
		var id int64
		err := q.QueryRow(ctx,
			`INSERT INTO user_recipes (user_id, name, cuisine, diet, ingredients, instructions,
				image_url, summary, prep_minutes, cook_minutes, servings, is_public, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id`,
			r.OwnerID(), r.Name(), r.Cuisine(), r.Diet().Encode(),
			recipe.EncodeList(r.Ingredients()), recipe.EncodeList(r.Instructions()),
			r.ImageURL(), r.Summary(), r.PrepMinutes(), r.CookMinutes(), r.Servings(),
			r.IsPublic(), r.CreatedAt(),
		).Scan(&id)
		if err != nil {
			return err
		}
		r.AssignID(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert user recipe: %w", err)
	}

	repo.logger.Info("User recipe created",
		zap.Int64("recipe_id", r.ID()),
		zap.Int64("user_id", r.OwnerID()),
	)
	return nil
}

// FindByIDAndOwner returns the recipe only if ownerID owns it
func (repo *UserRecipeRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*recipe.UserRecipe, error) {
	rows, err := repo.db.Query(ctx,
		`SELECT `+userRecipeColumns+` FROM user_recipes WHERE id = $1 AND user_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user recipe: %w", err)
	}

	found, err := pgx.CollectExactlyOneRow(rows, scanUserRecipe)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, recipe.ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user recipe: %w", err)
	}
	return found, nil
}

// ListByOwner returns every recipe of ownerID, newest first
func (repo *UserRecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*recipe.UserRecipe, error) {
	rows, err := repo.db.Query(ctx,
		`SELECT `+userRecipeColumns+` FROM user_recipes WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user recipes: %w", err)
	}

	recipes, err := pgx.CollectRows(rows, scanUserRecipe)
	if err != nil {
		return nil, fmt.Errorf("scan user recipes: %w", err)
	}
	if recipes == nil {
		recipes = []*recipe.UserRecipe{}
	}
	return recipes, nil
}

func scanUserRecipe(row pgx.CollectableRow) (*recipe.UserRecipe, error) {
	var (
		id, ownerID              int64
		diet, ingredients, steps string
		d                        recipe.Draft
		createdAt                time.Time
	)
	err := row.Scan(
		&id, &ownerID, &d.Name, &d.Cuisine, &diet, &ingredients, &steps,
		&d.ImageURL, &d.Summary, &d.PrepMinutes, &d.CookMinutes, &d.Servings, &d.IsPublic, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	d.Diet = recipe.DecodeDiet(diet)
	d.Ingredients = recipe.DecodeList(ingredients)
	d.Instructions = recipe.DecodeList(steps)
	return recipe.Reconstruct(id, ownerID, d, createdAt), nil
}
