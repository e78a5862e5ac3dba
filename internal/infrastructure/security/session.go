package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alchemorsel/recipeshare/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const sessionIssuer = "recipeshare"

// ErrNoSession is returned when the request carries no session cookie.
var ErrNoSession = errors.New("no session cookie")

// SessionClaims is the payload of the signed session cookie
type SessionClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// Session is a decoded, verified session cookie
type Session struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// SessionManager signs, verifies and renews session cookies. A session
// expires Duration after login; while it is used, any request made in the
// last ActiveDuration of its life pushes the expiry to now+ActiveDuration.
type SessionManager struct {
	cfg    config.SessionConfig
	secret []byte
	now    func() time.Time
}

// NewSessionManager creates a session manager. Outside production an empty
// secret is replaced by a random per-process key, which invalidates sessions
// on restart.
func NewSessionManager(cfg *config.Config, logger *zap.Logger) (*SessionManager, error) {
	secret := []byte(cfg.Session.Secret)
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("session secret is required in production")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate session secret: %w", err)
		}
		logger.Warn("No session secret configured; using an ephemeral key")
	}

	return &SessionManager{
		cfg:    cfg.Session,
		secret: secret,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for userID expiring after the full session duration.
func (m *SessionManager) Issue(userID int64) (string, time.Time, error) {
	now := m.now()
	return m.sign(userID, now, now.Add(m.cfg.Duration))
}

func (m *SessionManager) sign(userID int64, issuedAt, expiresAt time.Time) (string, time.Time, error) {
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of a session token
func (m *SessionManager) Parse(tokenString string) (*Session, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}
	if !token.Valid || claims.UserID <= 0 {
		return nil, fmt.Errorf("invalid session claims")
	}

	s := &Session{UserID: claims.UserID, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	return s, nil
}

// Renew returns a re-signed token when s is inside its keep-alive window.
// renewed is false when the current token is still good for longer.
func (m *SessionManager) Renew(s *Session) (token string, expiresAt time.Time, renewed bool, err error) {
	now := m.now()
	if s.ExpiresAt.Sub(now) >= m.cfg.ActiveDuration {
		return "", s.ExpiresAt, false, nil
	}
	token, expiresAt, err = m.sign(s.UserID, s.IssuedAt, now.Add(m.cfg.ActiveDuration))
	if err != nil {
		return "", time.Time{}, false, err
	}
	return token, expiresAt, true, nil
}

// Read returns the verified session attached to the request.
func (m *SessionManager) Read(c *gin.Context) (*Session, error) {
	raw, err := c.Cookie(m.cfg.CookieName)
	if err != nil || raw == "" {
		return nil, ErrNoSession
	}
	return m.Parse(raw)
}

// Write sets the session cookie.
func (m *SessionManager) Write(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(m.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, maxAge, "/", m.cfg.Domain, m.cfg.Secure, m.cfg.HTTPOnly)
}

// Clear expires the session cookie on the client.
func (m *SessionManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", m.cfg.Domain, m.cfg.Secure, m.cfg.HTTPOnly)
}
