package middleware

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/test/testutils"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type MiddlewareTestSuite struct {
	suite.Suite
	cfg      *config.Config
	mw       *Middleware
	sessions *security.SessionManager
	auth     *testutils.MockAuthService
	asserts  *testutils.HTTPAssertions
}

func (s *MiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		App: config.AppConfig{Environment: "test"},
		Session: config.SessionConfig{
			Secret:         "middleware-test-secret-0123456789abcdef",
			CookieName:     "session",
			Duration:       24 * time.Hour,
			ActiveDuration: 5 * time.Minute,
			HTTPOnly:       true,
		},
		Server:    config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{Enable: true, RequestsPerMin: 60, BurstSize: 2},
	}
	s.mw = New(s.cfg, zap.NewNop())

	sessions, err := security.NewSessionManager(s.cfg, zap.NewNop())
	require.NoError(s.T(), err)
	s.sessions = sessions
	s.auth = new(testutils.MockAuthService)
	s.asserts = testutils.NewHTTPAssertions(s.T())
}

func (s *MiddlewareTestSuite) engine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(s.mw.RequestID(), s.mw.ErrorHandler())
	r.Use(handlers...)
	return r
}

func (s *MiddlewareTestSuite) TestRequestID() {
	s.Run("Missing_ShouldGenerate", func() {
		r := s.engine()
		r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextKeyRequestID)) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		assert.NotEmpty(s.T(), rec.Header().Get("X-Request-ID"))
		assert.Equal(s.T(), rec.Header().Get("X-Request-ID"), rec.Body.String())
	})

	s.Run("Provided_ShouldEcho", func() {
		r := s.engine()
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Request-ID", "abc-123")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(s.T(), "abc-123", rec.Header().Get("X-Request-ID"))
	})
}

func (s *MiddlewareTestSuite) TestErrorHandler() {
	s.Run("AppError_ShouldUseItsStatus", func() {
		r := s.engine()
		r.GET("/x", func(c *gin.Context) { _ = c.Error(apperrors.NewQuotaExceededError("spoonacular")) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		s.asserts.ErrorResponse(rec, http.StatusPaymentRequired, "Quota")
	})

	s.Run("UnknownError_ShouldBeInternal", func() {
		r := s.engine()
		r.GET("/x", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		s.asserts.ErrorResponse(rec, http.StatusInternalServerError, "unexpected")
		assert.NotContains(s.T(), rec.Body.String(), "boom")
	})
}

func (s *MiddlewareTestSuite) TestRecovery_PanicShouldBe500() {
	r := s.engine(s.mw.Recovery())
	r.GET("/x", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	s.asserts.ErrorResponse(rec, http.StatusInternalServerError, "unexpected")
}

func (s *MiddlewareTestSuite) TestCORS() {
	s.Run("AllowedOrigin_ShouldReflectWithCredentials", func() {
		r := s.engine(s.mw.CORS())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(s.T(), "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(s.T(), "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	s.Run("UnknownOrigin_ShouldNotBeReflected", func() {
		r := s.engine(s.mw.CORS())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Origin", "https://evil.example")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Empty(s.T(), rec.Header().Get("Access-Control-Allow-Origin"))
	})

	s.Run("Preflight_ShouldShortCircuit", func() {
		r := s.engine(s.mw.CORS())
		req := httptest.NewRequest(http.MethodOptions, "/x", nil)
		req.Header.Set("Origin", "http://localhost:3000")

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(s.T(), http.StatusNoContent, rec.Code)
	})
}

func (s *MiddlewareTestSuite) TestRateLimit_ShouldBePerClient() {
	r := s.engine(s.mw.RateLimit())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	// burst of two per client
	assert.Equal(s.T(), http.StatusOK, call("10.0.0.1").Code)
	assert.Equal(s.T(), http.StatusOK, call("10.0.0.1").Code)
	s.asserts.ErrorResponse(call("10.0.0.1"), http.StatusTooManyRequests, "Rate limit")
	assert.Equal(s.T(), http.StatusOK, call("10.0.0.2").Code)
	assert.Equal(s.T(), 2, s.mw.limiter.size())
}

func (s *MiddlewareTestSuite) TestSecurityHeaders() {
	r := s.engine(s.mw.Security())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	s.asserts.SecurityHeaders(rec)
}

func (s *MiddlewareTestSuite) TestSession() {
	protected := func() *gin.Engine {
		r := s.engine(s.mw.Session(s.sessions, s.auth))
		r.GET("/me", s.mw.RequireSession(), func(c *gin.Context) {
			id, _ := UserID(c)
			c.JSON(http.StatusOK, gin.H{"id": id})
		})
		return r
	}

	withCookie := func(token string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		return req
	}

	s.Run("NoCookie_ShouldBe401", func() {
		s.SetupTest()
		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		s.asserts.ErrorResponse(rec, http.StatusUnauthorized, "Session")
		s.auth.AssertNotCalled(s.T(), "Authenticate", mock.Anything, mock.Anything)
	})

	s.Run("TamperedCookie_ShouldBe401AndCleared", func() {
		s.SetupTest()
		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, withCookie("not-a-token"))

		assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
		assert.Contains(s.T(), rec.Header().Get("Set-Cookie"), "Max-Age=0")
	})

	s.Run("ValidSession_ShouldPass", func() {
		s.SetupTest()
		token, _, err := s.sessions.Issue(7)
		require.NoError(s.T(), err)
		s.auth.On("Authenticate", mock.Anything, int64(7)).Return(true, nil)

		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, withCookie(token))

		assert.Equal(s.T(), http.StatusOK, rec.Code)
		assert.JSONEq(s.T(), `{"id":7}`, rec.Body.String())
		// far from expiry, no renewal
		assert.Empty(s.T(), rec.Header().Get("Set-Cookie"))
	})

	s.Run("DeletedUser_ShouldBe401", func() {
		s.SetupTest()
		token, _, err := s.sessions.Issue(7)
		require.NoError(s.T(), err)
		s.auth.On("Authenticate", mock.Anything, int64(7)).Return(false, nil)

		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, withCookie(token))

		assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	})

	s.Run("LookupFailure_ShouldBe401", func() {
		s.SetupTest()
		token, _, err := s.sessions.Issue(7)
		require.NoError(s.T(), err)
		s.auth.On("Authenticate", mock.Anything, int64(7)).Return(false, apperrors.NewDatabaseError("exists", errors.New("down")))

		rec := httptest.NewRecorder()
		protected().ServeHTTP(rec, withCookie(token))

		assert.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	})
}

func (s *MiddlewareTestSuite) TestMetrics_ShouldCountByRoute() {
	reg := prometheus.NewPedanticRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(s.T(), err)

	r := s.engine(metrics.Handler())
	r.GET("/recipes/:recipeId", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/recipes/1", "/recipes/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(s.T(), 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/recipes/:recipeId", "200")))
	assert.Equal(s.T(), 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "unmatched", "404")))

	_, err = NewMetrics(reg)
	assert.Error(s.T(), err)
}

func (s *MiddlewareTestSuite) TestCompression() {
	large := strings.Repeat("tomato basil ", 200)
	engine := func() *gin.Engine {
		s.cfg.Server.CompressMin = 256
		r := s.engine(s.mw.Compression())
		r.GET("/large", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"text": large}) })
		r.GET("/small", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
		return r
	}
	get := func(r *gin.Engine, path, accept string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if accept != "" {
			req.Header.Set("Accept-Encoding", accept)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	s.Run("Gzip_ShouldRoundTrip", func() {
		// Arrange
		r := engine()

		// Act
		rec := get(r, "/large", "gzip")

		// Assert
		require.Equal(s.T(), http.StatusOK, rec.Code)
		assert.Equal(s.T(), "gzip", rec.Header().Get("Content-Encoding"))
		zr, err := gzip.NewReader(rec.Body)
		require.NoError(s.T(), err)
		plain, err := io.ReadAll(zr)
		require.NoError(s.T(), err)
		assert.Contains(s.T(), string(plain), "tomato basil")
	})

	s.Run("Brotli_ShouldBePreferred", func() {
		rec := get(engine(), "/large", "gzip, br")

		require.Equal(s.T(), "br", rec.Header().Get("Content-Encoding"))
		plain, err := io.ReadAll(brotli.NewReader(rec.Body))
		require.NoError(s.T(), err)
		assert.Contains(s.T(), string(plain), "tomato basil")
	})

	s.Run("SmallBody_ShouldPassThrough", func() {
		rec := get(engine(), "/small", "gzip")

		assert.Empty(s.T(), rec.Header().Get("Content-Encoding"))
		assert.JSONEq(s.T(), `{"ok":true}`, rec.Body.String())
	})

	s.Run("NoAcceptEncoding_ShouldPassThrough", func() {
		rec := get(engine(), "/large", "")

		assert.Empty(s.T(), rec.Header().Get("Content-Encoding"))
		assert.Contains(s.T(), rec.Body.String(), "tomato basil")
	})

	s.Run("ErrorBody_ShouldStillRender", func() {
		s.cfg.Server.CompressMin = 1
		r := s.engine(s.mw.Compression())
		r.GET("/fail", func(c *gin.Context) { _ = c.Error(apperrors.NewNotFoundError("Recipe")) })

		rec := get(r, "/fail", "gzip")

		assert.Equal(s.T(), http.StatusNotFound, rec.Code)
		assert.Empty(s.T(), rec.Header().Get("Content-Encoding"))
		assert.Contains(s.T(), rec.Body.String(), `"success":false`)
	})
}

func TestNegotiateEncoding(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"identity":             "",
		"gzip":                 "gzip",
		"gzip;q=0.5, br;q=0.8": "br",
		"br;q=0, gzip":         "gzip",
		"*":                    "gzip",
		"gzip;q=0, *":          "",
	}
	for header, want := range cases {
		assert.Equal(t, want, negotiateEncoding(header), header)
	}
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func TestIPLimiter_ShouldEvictIdleClients(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newIPLimiter(60, 1)
	l.now = func() time.Time { return clock }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	clock = clock.Add(limiterIdleTTL + time.Minute)
	assert.True(t, l.allow("b"))
	assert.Equal(t, 1, l.size())
}
