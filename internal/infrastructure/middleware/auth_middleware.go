package middleware

import (
	"net/http"
	"strings"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid access token and stores the verified
// identity in the request context.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := authService.VerifyAccessToken(c.Request.Context(), parts[1])
		if err != nil {
			unauthorized(c, "invalid or expired access token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// UserID returns the authenticated user stored by AuthMiddleware.
func UserID(c *gin.Context) (domain.UserID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := v.(domain.UserID)
	return id, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   string(errors.ErrCodeUnauthorized),
		"message": message,
	})
}
