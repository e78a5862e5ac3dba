// Package spoonacular is the Spoonacular recipe API client.
package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alchemorsel/recipeshare/internal/domain/recipe"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	serviceName = "spoonacular"

	maxBodyBytes  = 4 << 20
	maxErrorBytes = 512
)

// Client implements outbound.RecipeProvider against the Spoonacular API
type Client struct {
	baseURL *url.URL
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a provider client. Requests are paced by a token bucket
// of RequestsPerSecond/Burst; a zero rate disables pacing.
func NewClient(cfg config.ProviderConfig, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid provider base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger.Named("spoonacular"),
	}, nil
}

// Random returns number random recipes with full information
func (c *Client) Random(ctx context.Context, number int) ([]recipe.ExternalRecipe, error) {
	if number <= 0 {
		return nil, apperrors.NewValidationError("number must be a positive integer")
	}

	params := url.Values{}
	params.Set("number", strconv.Itoa(number))
	params.Set("includeNutrition", "false")

	var resp randomResponse
	if err := c.get(ctx, "/recipes/random", params, &resp); err != nil {
		return nil, err
	}

	out := make([]recipe.ExternalRecipe, 0, len(resp.Recipes))
	for _, r := range resp.Recipes {
		out = append(out, r.normalize())
	}
	return out, nil
}

// ByID returns the full information of one recipe
func (c *Client) ByID(ctx context.Context, id int64) (*recipe.ExternalRecipe, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("recipe id must be a positive integer")
	}

	params := url.Values{}
	params.Set("includeNutrition", "false")

	var resp recipeInformation
	path := "/recipes/" + strconv.FormatInt(id, 10) + "/information"
	if err := c.get(ctx, path, params, &resp); err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewRecipeNotFoundError(id).WithCause(err)
		}
		return nil, err
	}

	r := resp.normalize()
	return &r, nil
}

// Search runs complexSearch and returns the matching ids with the total hit count
func (c *Client) Search(ctx context.Context, criteria outbound.SearchCriteria) ([]outbound.SearchHit, int, error) {
	params := url.Values{}
	setIfPresent(params, "query", criteria.Query)
	setIfPresent(params, "cuisine", criteria.Cuisine)
	setIfPresent(params, "diet", criteria.Diet)
	setIfPresent(params, "intolerances", criteria.Intolerances)
	if criteria.Number > 0 {
		params.Set("number", strconv.Itoa(criteria.Number))
	}

	var resp searchResponse
	if err := c.get(ctx, "/recipes/complexSearch", params, &resp); err != nil {
		return nil, 0, err
	}

	hits := make([]outbound.SearchHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hits = append(hits, outbound.SearchHit{ID: r.ID, Title: r.Title})
	}
	return hits, resp.TotalResults, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewExternalServiceError(serviceName, err)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	q := params
	q.Set("apiKey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apperrors.NewExternalServiceError(serviceName, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Provider request failed",
			zap.String("path", path),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return apperrors.NewExternalServiceError(serviceName, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Provider request",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		return statusError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return apperrors.NewExternalServiceError(serviceName, fmt.Errorf("decode %s: %w", path, err))
	}
	return nil
}

// statusError keeps the upstream status so callers can tell quota
// exhaustion apart from other failures.
func statusError(status int, body []byte) error {
	msg := upstreamMessage(body)
	switch status {
	case http.StatusPaymentRequired:
		return apperrors.NewQuotaExceededError(serviceName).WithMetadata("upstream_body", msg)
	case http.StatusNotFound:
		return apperrors.NewNotFoundError("Recipe").WithMetadata("upstream_status", status)
	case http.StatusTooManyRequests:
		return apperrors.NewTooManyRequestsError("Recipe provider rate limit reached").
			WithMetadata("upstream_status", status)
	default:
		return apperrors.NewUpstreamStatusError(serviceName, status, msg)
	}
}

func upstreamMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func setIfPresent(params url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		params.Set(key, v)
	}
}

var _ outbound.RecipeProvider = (*Client)(nil)
