// Package recipe provides the application layer for provider recipes:
// random picks, details, search and batched lookups, with favorites
// annotation for signed-in users and a read-through response cache.
package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxRecipes bounds the number of recipes one request may ask for.
	MaxRecipes = 100
	// DefaultSearchNumber is used when a search does not say how many results it wants.
	DefaultSearchNumber = 5

	noResultsMessage = "No recipes found"
)

// Options tunes caching and fan-out.
type Options struct {
	CacheTTL       time.Duration
	MaxConcurrency int
}

// Service implements inbound.RecipeService
type Service struct {
	provider  outbound.RecipeProvider
	favorites outbound.FavoriteRepository
	cache     outbound.CacheRepository
	opts      Options
	logger    *zap.Logger
}

// NewService creates a new recipe service
func NewService(
	provider outbound.RecipeProvider,
	favorites outbound.FavoriteRepository,
	cache outbound.CacheRepository,
	opts Options,
	logger *zap.Logger,
) *Service {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = 4
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &Service{
		provider:  provider,
		favorites: favorites,
		cache:     cache,
		opts:      opts,
		logger:    logger.Named("recipe-service"),
	}
}

// FetchRandom returns number random previews. userID 0 means anonymous.
func (s *Service) FetchRandom(ctx context.Context, number int, userID int64) ([]inbound.RecipePreviewDTO, error) {
	if number < 1 || number > MaxRecipes {
		return nil, countError()
	}

	list, err := s.provider.Random(ctx, number)
	if err != nil {
		return nil, err
	}

	previews := make([]inbound.RecipePreviewDTO, 0, len(list))
	for _, r := range list {
		s.store(ctx, r)
		previews = append(previews, inbound.NewPreviewDTO(r))
	}

	if err := s.annotate(ctx, userID, previews); err != nil {
		return nil, err
	}
	return previews, nil
}

// FetchByID returns the full view of one provider recipe
func (s *Service) FetchByID(ctx context.Context, recipeID, userID int64) (*inbound.RecipeDetailsDTO, error) {
	if recipeID <= 0 {
		return nil, idError()
	}

	r, err := s.fetch(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	dto := inbound.NewDetailsDTO(*r)
	previews := []inbound.RecipePreviewDTO{dto.RecipePreviewDTO}
	if err := s.annotate(ctx, userID, previews); err != nil {
		return nil, err
	}
	dto.IsFavorite = previews[0].IsFavorite
	return &dto, nil
}

// Search queries the provider and resolves every hit to a preview.
// No hits is a successful, empty result.
func (s *Service) Search(ctx context.Context, query inbound.SearchQuery, userID int64) (*inbound.SearchResultDTO, error) {
	number := query.Number
	if number == 0 {
		number = DefaultSearchNumber
	}
	if number < 1 || number > MaxRecipes {
		return nil, countError()
	}

	hits, total, err := s.provider.Search(ctx, outbound.SearchCriteria{
		Query:        query.Text,
		Cuisine:      query.Cuisine,
		Diet:         query.Diet,
		Intolerances: query.Intolerance,
		Number:       number,
	})
	if err != nil {
		return nil, err
	}

	if len(hits) == 0 {
		return &inbound.SearchResultDTO{
			Results:      []inbound.RecipePreviewDTO{},
			TotalResults: 0,
			Message:      noResultsMessage,
		}, nil
	}

	ids := make([]int64, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ID)
	}
	details, err := s.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	previews := make([]inbound.RecipePreviewDTO, 0, len(details))
	for _, d := range details {
		previews = append(previews, d.RecipePreviewDTO)
	}
	if err := s.annotate(ctx, userID, previews); err != nil {
		return nil, err
	}

	if total < len(previews) {
		total = len(previews)
	}
	return &inbound.SearchResultDTO{Results: previews, TotalResults: total}, nil
}

// ByIDs resolves ids concurrently, keeping their order. The first failed
// lookup cancels the rest and fails the call.
func (s *Service) ByIDs(ctx context.Context, ids []int64) ([]inbound.RecipeDetailsDTO, error) {
	out := make([]inbound.RecipeDetailsDTO, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := s.fetch(gctx, id)
			if err != nil {
				return err
			}
			out[i] = inbound.NewDetailsDTO(*r)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) fetch(ctx context.Context, id int64) (*recipe.ExternalRecipe, error) {
	key := cacheKey(id)

	data, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var r recipe.ExternalRecipe
		if jsonErr := json.Unmarshal(data, &r); jsonErr == nil {
			return &r, nil
		}
		s.logger.Warn("Dropping undecodable cache entry", zap.String("key", key))
		_ = s.cache.Delete(ctx, key)
	case !errors.Is(err, outbound.ErrCacheMiss):
		s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}

	r, err := s.provider.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.store(ctx, *r)
	return r, nil
}

func (s *Service) store(ctx context.Context, r recipe.ExternalRecipe) {
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(r.ID), data, s.opts.CacheTTL); err != nil {
		s.logger.Warn("Cache write failed", zap.Int64("recipe_id", r.ID), zap.Error(err))
	}
}

// annotate marks previews the user has favorited.
func (s *Service) annotate(ctx context.Context, userID int64, previews []inbound.RecipePreviewDTO) error {
	if userID <= 0 || len(previews) == 0 {
		return nil
	}

	ids, err := s.favorites.ListIDs(ctx, userID)
	if err != nil {
		return apperrors.NewDatabaseError("list favorites", err)
	}

	favorites := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		favorites[id] = struct{}{}
	}
	for i := range previews {
		_, previews[i].IsFavorite = favorites[previews[i].ID]
	}
	return nil
}

func cacheKey(id int64) string {
	return fmt.Sprintf("recipe:%d", id)
}

func countError() error {
	return apperrors.NewValidationErrors([]apperrors.ValidationError{
		{Field: "number", Tag: "range", Message: recipe.ErrInvalidCount.Error()},
	})
}

func idError() error {
	return apperrors.NewValidationErrors([]apperrors.ValidationError{
		{Field: "recipeId", Tag: "gt", Message: recipe.ErrInvalidRecipeID.Error()},
	})
}

var _ inbound.RecipeService = (*Service)(nil)
