// Package server assembles the gin router and runs the HTTP server
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/alchemorsel/recipeshare/pkg/healthcheck"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps lists everything the router serves
type RouterDeps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Middleware  *middleware.Middleware
	Metrics     *middleware.Metrics
	Registry    *prometheus.Registry
	Health      *healthcheck.HealthCheck
	Sessions    *security.SessionManager
	Auth        inbound.AuthService
	Recipes     inbound.RecipeService
	Favorites   inbound.FavoriteService
	UserRecipes inbound.UserRecipeService
}

// NewRouter builds the gin engine with the middleware chain and all routes
func NewRouter(d RouterDeps) (*gin.Engine, error) {
	if d.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(d.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	mw := d.Middleware
	r.Use(
		mw.RequestID(),
		mw.Logger(),
		mw.Recovery(),
		mw.ErrorHandler(),
		mw.Security(),
		mw.CORS(),
		mw.Compression(),
	)
	if d.Metrics != nil {
		r.Use(d.Metrics.Handler())
	}
	r.Use(mw.Tracing(), mw.RateLimit())

	r.GET("/alive", d.Health.LivenessHandler())
	r.GET("/ready", d.Health.ReadinessHandler())
	if d.Config.Monitoring.EnableMetrics && d.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{Registry: d.Registry})))
	}

	api := r.Group("", mw.Session(d.Sessions, d.Auth))
	handlers.NewAuthHandler(d.Auth, d.Sessions, d.Logger).RegisterRoutes(api)
	handlers.NewRecipeHandler(d.Recipes).RegisterRoutes(api)
	handlers.NewUserHandler(d.Favorites, d.UserRecipes).RegisterRoutes(api, mw.RequireSession())

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperrors.NewNotFoundError("Route"))
	})

	return r, nil
}

// Server represents the HTTP server
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// New creates a new HTTP server instance
func New(cfg *config.Config, logger *zap.Logger, handler http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: logger.Named("server"),
		server: &http.Server{
			Addr:              cfg.Address(),
			Handler:           handler,
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
		},
	}
}

// Start binds the listen address and serves in the background. Bind errors
// are returned directly.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}

	s.logger.Info("Starting HTTP server", zap.String("address", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown gracefully drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	if s.config.Server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()
	}
	return s.server.Shutdown(ctx)
}
