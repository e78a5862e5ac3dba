package middleware

import (
	"errors"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/security"
	"github.com/alchemorsel/recipeshare/internal/ports/inbound"
	apperrors "github.com/alchemorsel/recipeshare/pkg/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Session resolves the session cookie into a user id. Requests without a
// valid session continue anonymously; RequireSession rejects them where a
// user is needed.
func (m *Middleware) Session(sessions *security.SessionManager, auth inbound.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := sessions.Read(c)
		if err != nil {
			if !errors.Is(err, security.ErrNoSession) {
				m.logger.Debug("Discarding invalid session", zap.Error(err))
				sessions.Clear(c)
			}
			c.Next()
			return
		}

		ok, err := auth.Authenticate(c.Request.Context(), sess.UserID)
		if err != nil {
			m.logger.Warn("Session lookup failed",
				zap.String("request_id", c.GetString(ContextKeyRequestID)),
				zap.Int64("user_id", sess.UserID),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !ok {
			sessions.Clear(c)
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, sess.UserID)

		token, expiresAt, renewed, err := sessions.Renew(sess)
		switch {
		case err != nil:
			m.logger.Error("Session renewal failed", zap.Int64("user_id", sess.UserID), zap.Error(err))
		case renewed:
			sessions.Write(c, token, expiresAt)
		}

		c.Next()
	}
}

// RequireSession rejects anonymous requests with 401
func (m *Middleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			writeError(c, apperrors.NewUnauthorizedError("Session expired or missing"))
			c.Abort()
			return
		}
		c.Next()
	}
}
