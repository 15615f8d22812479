package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cotizador/backend/internal/infrastructure/auth"
	"github.com/cotizador/backend/internal/infrastructure/config"
	"github.com/cotizador/backend/internal/infrastructure/logger"
	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func newTestToken(t *testing.T, jwtService *auth.JWTService, role string) (string, auth.GenerateTokenInput) {
	t.Helper()
	input := auth.GenerateTokenInput{
		UserID: uuid.New(),
		Email:  "ana@acme.co",
		Role:   role,
	}
	token, err := jwtService.GenerateToken(input)
	require.NoError(t, err)
	return token.AccessToken, input
}

func serveWithToken(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService(15 * time.Minute)
	token, input := newTestToken(t, jwtService, "user")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, input.UserID.String(), claims.UserID)
		assert.Equal(t, input.UserID.String(), GetJWTUserID(c))
		assert.Equal(t, "user", GetJWTRole(c))
		assert.Equal(t, input.UserID.String(), logger.GetUserID(c.Request.Context()))
		c.Status(http.StatusOK)
	})

	w := serveWithToken(router, "/test", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService(15 * time.Minute)

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/test", okHandler)

	t.Run("missing header", func(t *testing.T) {
		w := serveWithToken(router, "/test", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serveWithToken(router, "/test", "not-a-jwt")
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-key-of-32-characters", Issuer: "test-issuer"})
		token, _ := newTestToken(t, other, "user")
		w := serveWithToken(router, "/test", token)
		assert.Equal(t, dto.ErrCodeTokenInvalid, errorCode(t, w))
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := newTestToken(t, newTestJWTService(-time.Minute), "user")
		w := serveWithToken(router, "/test", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
	})
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := gin.New()
	router.Use(JWTAuthMiddleware(newTestJWTService(time.Minute)))
	router.POST("/api/v1/auth/login", okHandler)
	router.GET("/health", okHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serveWithToken(router, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	ctx := context.Background()
	jwtService := newTestJWTService(15 * time.Minute)

	newRouter := func(blacklist auth.TokenBlacklist) *gin.Engine {
		cfg := DefaultJWTConfig(jwtService)
		cfg.TokenBlacklist = blacklist
		router := gin.New()
		router.Use(JWTAuthMiddlewareWithConfig(cfg))
		router.GET("/test", okHandler)
		return router
	}

	t.Run("logged out token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		token, _ := newTestToken(t, jwtService, "user")
		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(ctx, claims.ID, time.Minute))

		w := serveWithToken(newRouter(blacklist), "/test", token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})

	t.Run("user sessions invalidated", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		token, input := newTestToken(t, jwtService, "user")
		require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, input.UserID.String(), time.Hour))

		w := serveWithToken(newRouter(blacklist), "/test", token)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})

	t.Run("other tokens unaffected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(ctx, "some-other-jti", time.Minute))
		token, _ := newTestToken(t, jwtService, "user")

		w := serveWithToken(newRouter(blacklist), "/test", token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	jwtService := newTestJWTService(15 * time.Minute)

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/users", RequireAdmin(), okHandler)

	adminToken, _ := newTestToken(t, jwtService, "admin")
	userToken, _ := newTestToken(t, jwtService, "user")

	assert.Equal(t, http.StatusOK, serveWithToken(router, "/users", adminToken).Code)

	w := serveWithToken(router, "/users", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))
	assert.Contains(t, w.Body.String(), "se requiere rol admin")
}
