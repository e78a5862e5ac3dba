package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authapp "github.com/alchemorsel/recipeshare/internal/application/auth"
	"github.com/alchemorsel/recipeshare/internal/application/favorite"
	recipeapp "github.com/alchemorsel/recipeshare/internal/application/recipe"
	"github.com/alchemorsel/recipeshare/internal/application/userrecipe"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/middleware"
	gormrepo "github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/persistence/sqlite"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/provider/spoonacular"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/pkg/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"
)

const providerRecipe = `{
  "id": %d, "title": "Recipe %d", "image": "https://img.example/%d.jpg",
  "readyInMinutes": 20, "servings": 2, "vegetarian": true, "cuisines": [],
  "extendedIngredients": [{"original": "1 onion"}],
  "analyzedInstructions": [{"name": "", "steps": [{"number": 1, "step": "Chop."}]}]
}`

// fakeSpoonacular answers the three provider endpoints. A search for
// "nothing" returns no results and any request for recipe 402 fails with a
// quota error.
func fakeSpoonacular() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/recipes/random", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"recipes":[`+providerRecipe+`]}`, 11, 11, 11)
	})
	mux.HandleFunc("/recipes/complexSearch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") == "nothing" {
			fmt.Fprint(w, `{"results":[],"totalResults":0}`)
			return
		}
		fmt.Fprint(w, `{"results":[{"id":21,"title":"Recipe 21"},{"id":22,"title":"Recipe 22"}],"totalResults":40}`)
	})
	mux.HandleFunc("/recipes/", func(w http.ResponseWriter, r *http.Request) {
		var id int
		if _, err := fmt.Sscanf(r.URL.Path, "/recipes/%d/information", &id); err != nil {
			http.NotFound(w, r)
			return
		}
		if id == 402 {
			w.WriteHeader(http.StatusPaymentRequired)
			fmt.Fprint(w, `{"status":"failure","code":402,"message":"Your daily points limit has been reached."}`)
			return
		}
		fmt.Fprintf(w, providerRecipe, id, id, id)
	})
	return mux
}

type EndToEndTestSuite struct {
	suite.Suite
	provider *httptest.Server
	api      *httptest.Server
	client   *http.Client
	cache    *memory.CacheRepository
}

func (s *EndToEndTestSuite) SetupTest() {
	logger := zap.NewNop()
	cfg := &config.Config{
		App: config.AppConfig{Name: "recipeshare", Environment: "test"},
		Session: config.SessionConfig{
			Secret:         "end-to-end-secret-0123456789abcdef",
			CookieName:     "session",
			Duration:       24 * time.Hour,
			ActiveDuration: 5 * time.Minute,
			HTTPOnly:       true,
		},
		Monitoring: config.MonitoringConfig{EnableMetrics: true},
	}

	db, err := sqlite.SetupDatabase(sqlite.InMemoryDSN, gormlogger.Silent)
	require.NoError(s.T(), err)
	users := gormrepo.NewUserRepository(db)
	favorites := gormrepo.NewFavoriteRepository(db)
	ownRecipes := gormrepo.NewUserRecipeRepository(db)

	s.provider = httptest.NewServer(fakeSpoonacular())
	provider, err := spoonacular.NewClient(config.ProviderConfig{
		BaseURL: s.provider.URL,
		APIKey:  "key",
		Timeout: 2 * time.Second,
	}, logger)
	require.NoError(s.T(), err)

	s.cache = memory.NewCacheRepository(0)
	authService, err := authapp.NewService(users, security.NewValidationService(), bcrypt.MinCost, logger)
	require.NoError(s.T(), err)
	recipeService := recipeapp.NewService(provider, favorites, s.cache, recipeapp.Options{}, logger)

	sessions, err := security.NewSessionManager(cfg, logger)
	require.NoError(s.T(), err)

	registry := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(registry)
	require.NoError(s.T(), err)

	health := healthcheck.New("test", logger)
	sqlDB, err := db.DB()
	require.NoError(s.T(), err)
	health.Register("database", healthcheck.NewPingChecker(sqlDB.PingContext))

	router, err := NewRouter(RouterDeps{
		Config:      cfg,
		Logger:      logger,
		Middleware:  middleware.New(cfg, logger),
		Metrics:     metrics,
		Registry:    registry,
		Health:      health,
		Sessions:    sessions,
		Auth:        authService,
		Recipes:     recipeService,
		Favorites:   favorite.NewService(favorites, recipeService, logger),
		UserRecipes: userrecipe.NewService(ownRecipes, logger),
	})
	require.NoError(s.T(), err)

	s.api = httptest.NewServer(router)
	jar, err := cookiejar.New(nil)
	require.NoError(s.T(), err)
	s.client = &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func (s *EndToEndTestSuite) TearDownTest() {
	s.api.Close()
	s.provider.Close()
	_ = s.cache.Close()
}

func (s *EndToEndTestSuite) call(method, path, body string) (int, string) {
	req, err := http.NewRequestWithContext(context.Background(), method, s.api.URL+path, strings.NewReader(body))
	require.NoError(s.T(), err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	require.NoError(s.T(), err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	return resp.StatusCode, string(data)
}

func (s *EndToEndTestSuite) signUpAndLogin(username string) {
	status, _ := s.call(http.MethodPost, "/auth/register", fmt.Sprintf(
		`{"username":%q,"firstname":"A","lastname":"B","country":"IL","password":"pw-123456","email":"a@b.co"}`, username))
	require.Equal(s.T(), http.StatusCreated, status)

	status, _ = s.call(http.MethodPost, "/auth/login", fmt.Sprintf(`{"username":%q,"password":"pw-123456"}`, username))
	require.Equal(s.T(), http.StatusOK, status)
}

func (s *EndToEndTestSuite) TestOperationalEndpoints() {
	status, body := s.call(http.MethodGet, "/alive", "")
	assert.Equal(s.T(), http.StatusOK, status)
	assert.Equal(s.T(), "I'm alive", body)

	status, _ = s.call(http.MethodGet, "/ready", "")
	assert.Equal(s.T(), http.StatusOK, status)

	s.call(http.MethodGet, "/recipes/random", "")
	status, body = s.call(http.MethodGet, "/metrics", "")
	assert.Equal(s.T(), http.StatusOK, status)
	assert.Contains(s.T(), body, `http_requests_total{method="GET",route="/recipes/random",status="200"}`)

	status, body = s.call(http.MethodGet, "/no/such/route", "")
	assert.Equal(s.T(), http.StatusNotFound, status)
	assert.Contains(s.T(), body, `"success":false`)
}

func (s *EndToEndTestSuite) TestAuthFlow() {
	s.Run("ProtectedRoute_WithoutSession_ShouldBe401", func() {
		status, body := s.call(http.MethodGet, "/users/favorites", "")
		assert.Equal(s.T(), http.StatusUnauthorized, status)
		assert.Contains(s.T(), body, `"success":false`)
	})

	s.signUpAndLogin("alice")

	s.Run("DuplicateUsername_ShouldBe409", func() {
		status, _ := s.call(http.MethodPost, "/auth/register",
			`{"username":"alice","firstname":"A","lastname":"B","country":"IL","password":"x","email":"c@d.co"}`)
		assert.Equal(s.T(), http.StatusConflict, status)
	})

	s.Run("WrongPassword_ShouldBe401", func() {
		status, _ := s.call(http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`)
		assert.Equal(s.T(), http.StatusUnauthorized, status)
	})

	s.Run("Session_ShouldOpenProtectedRoutes", func() {
		status, body := s.call(http.MethodGet, "/users/favorites/ids", "")
		assert.Equal(s.T(), http.StatusOK, status)
		assert.JSONEq(s.T(), `[]`, body)
	})

	s.Run("Logout_ShouldCloseSession", func() {
		status, _ := s.call(http.MethodPost, "/auth/logout", "")
		require.Equal(s.T(), http.StatusOK, status)

		status, _ = s.call(http.MethodGet, "/users/favorites/ids", "")
		assert.Equal(s.T(), http.StatusUnauthorized, status)
	})
}

func (s *EndToEndTestSuite) TestFavoritesFlow() {
	s.signUpAndLogin("bob")

	status, _ := s.call(http.MethodPost, "/users/favorites", `{"recipeId":21}`)
	require.Equal(s.T(), http.StatusCreated, status)

	status, _ = s.call(http.MethodPost, "/users/favorites", `{"recipeId":21}`)
	assert.Equal(s.T(), http.StatusConflict, status)

	status, body := s.call(http.MethodGet, "/recipes/search?recipeName=soup&number=2", "")
	require.Equal(s.T(), http.StatusOK, status)
	var result struct {
		Results []struct {
			ID         int64 `json:"id"`
			IsFavorite bool  `json:"isFavorite"`
		} `json:"results"`
		TotalResults int `json:"totalResults"`
	}
	require.NoError(s.T(), json.Unmarshal([]byte(body), &result))
	require.Len(s.T(), result.Results, 2)
	assert.Equal(s.T(), 40, result.TotalResults)
	assert.True(s.T(), result.Results[0].IsFavorite)
	assert.False(s.T(), result.Results[1].IsFavorite)

	status, body = s.call(http.MethodGet, "/users/favorites", "")
	require.Equal(s.T(), http.StatusOK, status)
	assert.Contains(s.T(), body, `"title":"Recipe 21"`)

	status, _ = s.call(http.MethodDelete, "/users/favorites", `{"recipeId":21}`)
	assert.Equal(s.T(), http.StatusOK, status)
	status, _ = s.call(http.MethodDelete, "/users/favorites", `{"recipeId":21}`)
	assert.Equal(s.T(), http.StatusOK, status)

	s.Run("AnyFailedLookup_ShouldFailTheList", func() {
		status, _ := s.call(http.MethodPost, "/users/favorites", `{"recipeId":402}`)
		require.Equal(s.T(), http.StatusCreated, status)

		status, body := s.call(http.MethodGet, "/users/favorites", "")
		assert.Equal(s.T(), http.StatusPaymentRequired, status)
		assert.Contains(s.T(), body, `"success":false`)
	})
}

func (s *EndToEndTestSuite) TestSearch_NoResults() {
	status, body := s.call(http.MethodGet, "/recipes/search?recipeName=nothing", "")

	assert.Equal(s.T(), http.StatusOK, status)
	assert.JSONEq(s.T(), `{"results":[],"totalResults":0,"message":"No recipes found"}`, body)
}

func (s *EndToEndTestSuite) TestPrivateRecipesFlow() {
	s.signUpAndLogin("carol")

	status, body := s.call(http.MethodPost, "/users/addRecipe", `{
		"name":"Lentil stew","cuisine":"Indian","imageUrl":"https://img.example/stew.jpg",
		"readyInMinutes":"10","cookingMinutes":40,"servings":"4","vegan":true,
		"ingredients":["1 cup lentils","2 carrots"],"instructions":["Rinse.","Simmer."]}`)
	require.Equal(s.T(), http.StatusCreated, status, body)
	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.T(), json.Unmarshal([]byte(body), &created))

	status, body = s.call(http.MethodGet, fmt.Sprintf("/users/PrivateRecipe/%d/view", created.ID), "")
	require.Equal(s.T(), http.StatusOK, status)
	assert.Contains(s.T(), body, `"original":"2 carrots"`)
	assert.Contains(s.T(), body, `{"number":2,"step":"Simmer."}`)
	assert.Contains(s.T(), body, `"readyInMinutes":50`)

	status, body = s.call(http.MethodGet, "/users/PrivateRecipes", "")
	require.Equal(s.T(), http.StatusOK, status)
	assert.Contains(s.T(), body, `"title":"Lentil stew"`)

	// another user must not see it
	s.client.Jar, _ = cookiejar.New(nil)
	s.signUpAndLogin("dave")
	status, _ = s.call(http.MethodGet, fmt.Sprintf("/users/PrivateRecipe/%d/preview", created.ID), "")
	assert.Equal(s.T(), http.StatusNotFound, status)

	status, body = s.call(http.MethodGet, "/users/PrivateRecipes", "")
	assert.Equal(s.T(), http.StatusOK, status)
	assert.JSONEq(s.T(), `[]`, body)
}

func TestEndToEndTestSuite(t *testing.T) {
	suite.Run(t, new(EndToEndTestSuite))
}
