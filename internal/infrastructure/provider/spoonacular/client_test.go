package spoonacular

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/ports/outbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const informationJSON = `{
  "id": 715538,
  "title": "Bruschetta",
  "image": "https://img.spoonacular.com/recipes/715538-556x370.jpg",
  "summary": "Simple and fresh.",
  "readyInMinutes": 35,
  "aggregateLikes": 209,
  "servings": 6,
  "vegetarian": true,
  "vegan": false,
  "glutenFree": false,
  "cuisines": ["Italian"],
  "extendedIngredients": [{"original": "1 baguette"}, {"original": "4 tomatoes"}, {"original": "", "name": "basil"}],
  "analyzedInstructions": [
    {"name": "", "steps": [{"number": 1, "step": "Slice the bread."}, {"number": 2, "step": "Toast it."}]},
    {"name": "Topping", "steps": [{"number": 1, "step": "Dice the tomatoes."}]}
  ]
}`

type ClientTestSuite struct {
	suite.Suite
	server  *httptest.Server
	handler http.HandlerFunc
	client  *Client
	lastReq *http.Request
}

func (s *ClientTestSuite) SetupTest() {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastReq = r
		s.handler(w, r)
	}))

	client, err := NewClient(config.ProviderConfig{
		BaseURL: s.server.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, zap.NewNop())
	require.NoError(s.T(), err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientTestSuite) respond(status int, body string) {
	s.handler = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (s *ClientTestSuite) TestByID() {
	s.Run("Success_ShouldNormalize", func() {
		// Arrange
		s.respond(http.StatusOK, informationJSON)

		// Act
		r, err := s.client.ByID(context.Background(), 715538)

		// Assert
		require.NoError(s.T(), err)
		assert.Equal(s.T(), "/recipes/715538/information", s.lastReq.URL.Path)
		assert.Equal(s.T(), "test-key", s.lastReq.URL.Query().Get("apiKey"))
		assert.Equal(s.T(), int64(715538), r.ID)
		assert.True(s.T(), r.Diet.Vegetarian)
		assert.Equal(s.T(), []string{"1 baguette", "4 tomatoes", "basil"}, r.Ingredients)
		assert.Equal(s.T(), []string{"Slice the bread.", "Toast it.", "Dice the tomatoes."}, r.Steps)
		assert.Equal(s.T(), []string{"Italian"}, r.Cuisines)
	})

	s.Run("NotFound_ShouldReturnRecipeNotFound", func() {
		s.respond(http.StatusNotFound, `{"status":"failure","code":404,"message":"A recipe with the id 1 does not exist."}`)

		_, err := s.client.ByID(context.Background(), 1)

		assert.True(s.T(), apperrors.Is(err, apperrors.CodeRecipeNotFound))
	})

	s.Run("InvalidID_ShouldNotCallUpstream", func() {
		s.lastReq = nil

		_, err := s.client.ByID(context.Background(), 0)

		assert.True(s.T(), apperrors.Is(err, apperrors.CodeValidationFailed))
		assert.Nil(s.T(), s.lastReq)
	})
}

func (s *ClientTestSuite) TestRandom() {
	s.Run("Success_ShouldForwardNumber", func() {
		s.respond(http.StatusOK, `{"recipes": [`+informationJSON+`,`+informationJSON+`]}`)

		list, err := s.client.Random(context.Background(), 2)

		require.NoError(s.T(), err)
		assert.Len(s.T(), list, 2)
		assert.Equal(s.T(), "/recipes/random", s.lastReq.URL.Path)
		assert.Equal(s.T(), "2", s.lastReq.URL.Query().Get("number"))
	})

	s.Run("NonPositiveCount_ShouldBeValidationError", func() {
		for _, n := range []int{0, -3} {
			_, err := s.client.Random(context.Background(), n)

			appErr, ok := apperrors.As(err)
			require.True(s.T(), ok)
			assert.Equal(s.T(), http.StatusBadRequest, appErr.StatusCode())
		}
	})
}

func (s *ClientTestSuite) TestSearch() {
	s.Run("Success_ShouldForwardFilters", func() {
		s.respond(http.StatusOK, `{"results":[{"id":1,"title":"A"},{"id":2,"title":"B"}],"offset":0,"number":2,"totalResults":40}`)

		hits, total, err := s.client.Search(context.Background(), outbound.SearchCriteria{
			Query:        " pasta ",
			Cuisine:      "Italian",
			Intolerances: "gluten",
			Number:       2,
		})

		require.NoError(s.T(), err)
		assert.Equal(s.T(), 40, total)
		assert.Equal(s.T(), []outbound.SearchHit{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}}, hits)

		q := s.lastReq.URL.Query()
		assert.Equal(s.T(), "pasta", q.Get("query"))
		assert.Equal(s.T(), "Italian", q.Get("cuisine"))
		assert.Equal(s.T(), "gluten", q.Get("intolerances"))
		assert.False(s.T(), q.Has("diet"))
	})

	s.Run("NoResults_ShouldReturnEmpty", func() {
		s.respond(http.StatusOK, `{"results":[],"totalResults":0}`)

		hits, total, err := s.client.Search(context.Background(), outbound.SearchCriteria{Query: "zzz"})

		require.NoError(s.T(), err)
		assert.Empty(s.T(), hits)
		assert.Zero(s.T(), total)
	})
}

func (s *ClientTestSuite) TestStatusMapping() {
	cases := []struct {
		name   string
		status int
		code   apperrors.ErrorCode
		http   int
	}{
		{"Quota_ShouldBe402", http.StatusPaymentRequired, apperrors.CodeQuotaExceeded, http.StatusPaymentRequired},
		{"RateLimited_ShouldBe429", http.StatusTooManyRequests, apperrors.CodeTooManyRequests, http.StatusTooManyRequests},
		{"Unauthorized_ShouldBe502", http.StatusUnauthorized, apperrors.CodeExternalServiceError, http.StatusBadGateway},
		{"ServerError_ShouldBe502", http.StatusServiceUnavailable, apperrors.CodeExternalServiceError, http.StatusBadGateway},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.respond(tc.status, `{"message":"upstream says no"}`)

			_, err := s.client.Random(context.Background(), 1)

			appErr, ok := apperrors.As(err)
			require.True(s.T(), ok)
			assert.Equal(s.T(), tc.code, appErr.Code)
			assert.Equal(s.T(), tc.http, appErr.StatusCode())
			assert.Equal(s.T(), tc.status, appErr.Metadata["upstream_status"])
		})
	}
}

func (s *ClientTestSuite) TestMalformedBody_ShouldBeExternalError() {
	s.respond(http.StatusOK, `{"recipes": [`)

	_, err := s.client.Random(context.Background(), 1)

	assert.True(s.T(), apperrors.Is(err, apperrors.CodeExternalServiceError))
}

func (s *ClientTestSuite) TestCancelledContext_ShouldFail() {
	s.respond(http.StatusOK, informationJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.client.ByID(ctx, 1)

	assert.Error(s.T(), err)
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient(config.ProviderConfig{BaseURL: "not a url"}, zap.NewNop())
	assert.Error(t, err)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
