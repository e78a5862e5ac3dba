// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/domain/user"
)

// ErrCacheMiss is returned by CacheRepository.Get for absent or expired keys.
var ErrCacheMiss = errors.New("cache miss")

// UserRepository persists registered users.
// Create returns user.ErrUsernameTaken when the username is already used.
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id int64) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// FavoriteRepository persists (user, recipe) favorite pairs.
// Add returns recipe.ErrFavoriteExists for a duplicate pair and
// recipe.ErrFavoriteOwnerGone when the user row is missing.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, recipeID int64) error
	Remove(ctx context.Context, userID, recipeID int64) error
	ListIDs(ctx context.Context, userID int64) ([]int64, error)
}

// UserRecipeRepository persists user-authored recipes. Every read is scoped
// by owner; FindByIDAndOwner returns recipe.ErrRecipeNotFound when no row
// matches both.
type UserRecipeRepository interface {
	Create(ctx context.Context, r *recipe.UserRecipe) error
	FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*recipe.UserRecipe, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*recipe.UserRecipe, error)
}

// SearchCriteria are the filters forwarded to the provider's search endpoint.
type SearchCriteria struct {
	Query        string
	Cuisine      string
	Diet         string
	Intolerances string
	Number       int
}

// SearchHit is a single id-level search match.
type SearchHit struct {
	ID    int64
	Title string
}

// RecipeProvider is the external recipe information API.
// Non-success responses are reported as *errors.AppError carrying the
// upstream status.
type RecipeProvider interface {
	Random(ctx context.Context, number int) ([]recipe.ExternalRecipe, error)
	ByID(ctx context.Context, id int64) (*recipe.ExternalRecipe, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]SearchHit, int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
