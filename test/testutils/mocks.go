// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/domain/user"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository provides a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockFavoriteRepository provides a mock implementation of FavoriteRepository
type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, userID, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockFavoriteRepository) ListIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

// MockUserRecipeRepository provides a mock implementation of UserRecipeRepository
type MockUserRecipeRepository struct {
	mock.Mock
}

func (m *MockUserRecipeRepository) Create(ctx context.Context, r *recipe.UserRecipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockUserRecipeRepository) FindByIDAndOwner(ctx context.Context, id, ownerID int64) (*recipe.UserRecipe, error) {
	args := m.Called(ctx, id, ownerID)
	if r, ok := args.Get(0).(*recipe.UserRecipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRecipeRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*recipe.UserRecipe, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]*recipe.UserRecipe)
	return list, args.Error(1)
}

// MockRecipeProvider provides a mock implementation of RecipeProvider
type MockRecipeProvider struct {
	mock.Mock
}

func (m *MockRecipeProvider) Random(ctx context.Context, number int) ([]recipe.ExternalRecipe, error) {
	args := m.Called(ctx, number)
	list, _ := args.Get(0).([]recipe.ExternalRecipe)
	return list, args.Error(1)
}

func (m *MockRecipeProvider) ByID(ctx context.Context, id int64) (*recipe.ExternalRecipe, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*recipe.ExternalRecipe); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeProvider) Search(ctx context.Context, criteria outbound.SearchCriteria) ([]outbound.SearchHit, int, error) {
	args := m.Called(ctx, criteria)
	hits, _ := args.Get(0).([]outbound.SearchHit)
	return hits, args.Int(1), args.Error(2)
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockAuthService provides a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, cmd inbound.RegisterCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, cmd inbound.LoginCommand) (int64, error) {
	args := m.Called(ctx, cmd)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// MockFavoriteService provides a mock implementation of FavoriteService
type MockFavoriteService struct {
	mock.Mock
}

func (m *MockFavoriteService) MarkFavorite(ctx context.Context, userID, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockFavoriteService) UnmarkFavorite(ctx context.Context, userID, recipeID int64) error {
	return m.Called(ctx, userID, recipeID).Error(0)
}

func (m *MockFavoriteService) ListFavoriteIDs(ctx context.Context, userID int64) ([]int64, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

func (m *MockFavoriteService) ListFavoriteRecipesDetailed(ctx context.Context, userID int64) ([]inbound.RecipeDetailsDTO, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]inbound.RecipeDetailsDTO)
	return list, args.Error(1)
}

// MockUserRecipeService provides a mock implementation of UserRecipeService
type MockUserRecipeService struct {
	mock.Mock
}

func (m *MockUserRecipeService) AddRecipe(ctx context.Context, userID int64, cmd inbound.AddRecipeCommand) (int64, error) {
	args := m.Called(ctx, userID, cmd)
	return int64(args.Int(0)), args.Error(1)
}

func (m *MockUserRecipeService) GetRecipePreview(ctx context.Context, recipeID, ownerID int64) (*inbound.RecipePreviewDTO, error) {
	args := m.Called(ctx, recipeID, ownerID)
	if dto, ok := args.Get(0).(*inbound.RecipePreviewDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRecipeService) GetRecipeFull(ctx context.Context, recipeID, ownerID int64) (*inbound.UserRecipeDTO, error) {
	args := m.Called(ctx, recipeID, ownerID)
	if dto, ok := args.Get(0).(*inbound.UserRecipeDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRecipeService) ListRecipesForOwner(ctx context.Context, ownerID int64) ([]inbound.RecipePreviewDTO, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]inbound.RecipePreviewDTO)
	return list, args.Error(1)
}

// MockRecipeService provides a mock implementation of RecipeService
type MockRecipeService struct {
	mock.Mock
}

func (m *MockRecipeService) FetchRandom(ctx context.Context, number int, userID int64) ([]inbound.RecipePreviewDTO, error) {
	args := m.Called(ctx, number, userID)
	list, _ := args.Get(0).([]inbound.RecipePreviewDTO)
	return list, args.Error(1)
}

func (m *MockRecipeService) FetchByID(ctx context.Context, recipeID, userID int64) (*inbound.RecipeDetailsDTO, error) {
	args := m.Called(ctx, recipeID, userID)
	if dto, ok := args.Get(0).(*inbound.RecipeDetailsDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeService) Search(ctx context.Context, query inbound.SearchQuery, userID int64) (*inbound.SearchResultDTO, error) {
	args := m.Called(ctx, query, userID)
	if dto, ok := args.Get(0).(*inbound.SearchResultDTO); ok {
		return dto, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeService) ByIDs(ctx context.Context, ids []int64) ([]inbound.RecipeDetailsDTO, error) {
	args := m.Called(ctx, ids)
	list, _ := args.Get(0).([]inbound.RecipeDetailsDTO)
	return list, args.Error(1)
}

var (
	_ outbound.UserRepository       = (*MockUserRepository)(nil)
	_ outbound.FavoriteRepository   = (*MockFavoriteRepository)(nil)
	_ outbound.UserRecipeRepository = (*MockUserRecipeRepository)(nil)
	_ outbound.RecipeProvider       = (*MockRecipeProvider)(nil)
	_ outbound.CacheRepository      = (*MockCacheRepository)(nil)
	_ inbound.AuthService           = (*MockAuthService)(nil)
	_ inbound.FavoriteService       = (*MockFavoriteService)(nil)
	_ inbound.UserRecipeService     = (*MockUserRecipeService)(nil)
	_ inbound.RecipeService         = (*MockRecipeService)(nil)
)
