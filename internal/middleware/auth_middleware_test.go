package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clozet/clozet-backend/internal/app/model"
	"github.com/clozet/clozet-backend/internal/app/service"
	"github.com/clozet/clozet-backend/internal/app/session"
	"github.com/clozet/clozet-backend/internal/app/store"
	"github.com/clozet/clozet-backend/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubResolver maps tokens to sessions or errors.
type stubResolver struct {
	sessions map[string]*session.Session
	errs     map[string]error
}

func (r *stubResolver) ResolveSession(_ context.Context, token string) (*session.Session, error) {
	if err, ok := r.errs[token]; ok {
		return nil, err
	}
	if sess, ok := r.sessions[token]; ok {
		return sess, nil
	}
	return nil, service.ErrUnauthorizedAccess
}

func setupMiddlewareTest() (*gin.Engine, *stubResolver) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(LoggingMiddleware())

	identity := &model.Identity{ID: "demo-user-1", Demo: true}
	resolver := &stubResolver{
		sessions: map[string]*session.Session{
			"good": session.New(identity, store.Stores{Kind: store.KindDemo}, nil),
		},
		errs: map[string]error{
			"expired": service.ErrSessionExpired,
			"revoked": service.ErrSessionRevoked,
			"down":    service.ErrNetwork,
		},
	}

	auth := NewAuthMiddleware(resolver)
	router.GET("/test", auth.Authenticate(), func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"identity_id": sess.IdentityID(),
			"demo":        sess.IsDemo(),
		})
	})
	return router, resolver
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestAuthMiddleware_Authenticate_Success(t *testing.T) {
	router, _ := setupMiddlewareTest()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"identity_id":"demo-user-1","demo":true}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_Authenticate_QueryToken(t *testing.T) {
	router, _ := setupMiddlewareTest()

	req := httptest.NewRequest(http.MethodGet, "/test?token=good", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_Authenticate_QueryTokenOnlyForWebsocket(t *testing.T) {
	router, _ := setupMiddlewareTest()

	req := httptest.NewRequest(http.MethodGet, "/test?token=good", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_Authenticate_Failures(t *testing.T) {
	router, _ := setupMiddlewareTest()

	tests := []struct {
		name   string
		header string
		status int
		code   string
	}{
		{"missing", "", http.StatusUnauthorized, errors.AuthUnauthorized},
		{"malformed", "Token good", http.StatusUnauthorized, errors.AuthUnauthorized},
		{"unknown", "Bearer forged", http.StatusUnauthorized, errors.AuthTokenInvalid},
		{"expired", "Bearer expired", http.StatusUnauthorized, errors.AuthTokenExpired},
		{"revoked", "Bearer revoked", http.StatusUnauthorized, errors.AuthTokenRevoked},
		{"backend down", "Bearer down", http.StatusServiceUnavailable, errors.NetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestLoggingMiddleware_KeepsUpstreamRequestID(t *testing.T) {
	router, _ := setupMiddlewareTest()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}

func TestAuthMiddleware_OptionalAuth(t *testing.T) {
	_, resolver := setupMiddlewareTest()
	router := gin.New()
	auth := NewAuthMiddleware(resolver)
	router.GET("/optional", auth.OptionalAuth(), func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"identity_id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity_id": sess.IdentityID()})
	})

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"anonymous", "", ""},
		{"valid", "Bearer good", "demo-user-1"},
		{"invalid token passes through", "Bearer forged", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/optional", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"identity_id":"`+tt.want+`"}`, w.Body.String())
		})
	}
}
