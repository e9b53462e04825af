package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/repositories/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestSetup(t *testing.T) (services.AuthService, string) {
	t.Helper()

	users := memory.NewMemoryUserRepository(memory.NewStore())
	authService := services.NewAuthService("test-secret", time.Hour, 24*time.Hour, users)

	user, err := authService.Register(context.Background(), "alice", "alice@example.com", "secret1")
	require.NoError(t, err)

	token, _, err := authService.IssueAccessToken(user.ID, user.Username)
	require.NoError(t, err)
	return authService, token
}

func protectedRouter(authService services.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", AuthMiddleware(authService), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": string(id), "username": c.GetString("username")})
	})
	return router
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	authService, token := authTestSetup(t)
	router := protectedRouter(authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	authService, _ := authTestSetup(t)
	router := protectedRouter(authService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	authService, token := authTestSetup(t)
	router := protectedRouter(authService)

	for _, header := range []string{token, "Basic " + token, "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthMiddleware_GarbageToken(t *testing.T) {
	authService, _ := authTestSetup(t)
	router := protectedRouter(authService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserID_AbsentWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := UserID(c)
	assert.False(t, ok)

	c.Set("user_id", domain.UserID("u1"))
	id, ok := UserID(c)
	assert.True(t, ok)
	assert.Equal(t, domain.UserID("u1"), id)
}
