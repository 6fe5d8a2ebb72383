package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/errors"
	"github.com/gin-gonic/gin"
)

// SessionKey holds the *session.Session of an authenticated request.
const SessionKey = "session"

// SessionResolver turns a bearer token into a bound session.
type SessionResolver interface {
	ResolveSession(ctx context.Context, accessToken string) (*session.Session, error)
}

type AuthMiddleware struct {
	resolver SessionResolver
}

func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter for websocket upgrades.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on a websocket handshake.
		if !c.IsWebsocket() {
			return "", false
		}
		token := c.Query("token")
		return token, token != ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate resolves the session (required)
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		sess, err := m.resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			log.Warn("Session resolution failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			respondSessionError(c, err)
			c.Abort()
			return
		}

		c.Set(SessionKey, sess)

		log.Debug("Session resolved", map[string]interface{}{
			"identity_id": sess.IdentityID(),
			"demo":        sess.IsDemo(),
			"store":       sess.Stores.Kind,
		})

		c.Next()
	}
}

// OptionalAuth binds a session when a valid token is present and lets the
// request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		sess, err := m.resolver.ResolveSession(c.Request.Context(), token)
		if err != nil {
			GetLoggerFromContext(c).Debug("Ignoring unusable token on optional route", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Set(SessionKey, sess)
		c.Next()
	}
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case stderrors.Is(err, service.ErrSessionExpired):
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Your session has expired. Please sign in again")
	case stderrors.Is(err, service.ErrSessionRevoked):
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "You have been signed out")
	case stderrors.Is(err, service.ErrNetwork):
		errors.RespondWithError(c, http.StatusServiceUnavailable, errors.NetworkError, "Could not verify your session. Please try again")
	default:
		errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid session token")
	}
}

// GetSession extracts the session set by Authenticate
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(SessionKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
