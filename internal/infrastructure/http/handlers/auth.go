package handlers

import (
	"net/http"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login and logout
type AuthHandler struct {
	auth     inbound.AuthService
	sessions *security.SessionManager
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth inbound.AuthService, sessions *security.SessionManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		logger:   logger.Named("auth-handler"),
	}
}

// RegisterRoutes registers the /auth routes
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var cmd inbound.RegisterCommand
	if !bindJSON(c, &cmd) {
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), cmd); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created", "success": true})
}

// Login handles POST /auth/login and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	var cmd inbound.LoginCommand
	if !bindJSON(c, &cmd) {
		return
	}

	userID, err := h.auth.Login(c.Request.Context(), cmd)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, expiresAt, err := h.sessions.Issue(userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sessions.Write(c, token, expiresAt)

	c.JSON(http.StatusOK, gin.H{"message": "login succeeded", "success": true})
}

// Logout handles POST /auth/logout. It succeeds with or without a session.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logout succeeded", "success": true})
}
