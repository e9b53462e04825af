package http

import (
	"net/http"
	"strings"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/config"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/errors"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/validation"

	"github.com/gin-gonic/gin"
)

// AuthMetrics observes credential operation outcomes. Nil disables
// observation.
type AuthMetrics interface {
	AuthAttempt(operation, result string)
}

// AuthHandler owns the credential endpoints. The refresh token never appears
// in a response body; it travels only in an HTTP-only cookie scoped to the
// auth route group.
type AuthHandler struct {
	authService services.AuthService
	cookies     config.AuthConfig
	metrics     AuthMetrics
}

func NewAuthHandler(authService services.AuthService, cookies config.AuthConfig, metrics AuthMetrics) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		metrics:     metrics,
	}
}

func (h *AuthHandler) observe(operation, result string) {
	if h.metrics != nil {
		h.metrics.AuthAttempt(operation, result)
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.POST("/refresh", h.Refresh)
		api.POST("/logout", h.Logout)
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.observe("register", "failed")
		c.Error(err)
		return
	}

	h.observe("register", "ok")
	h.respondWithTokens(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.observe("login", "failed")
		c.Error(err)
		return
	}

	h.observe("login", "ok")
	h.respondWithTokens(c, http.StatusOK, user)
}

// Refresh mints a new access token from the refresh cookie. The refresh token
// itself is not rotated; it stays valid until its own expiry.
func (h *AuthHandler) Refresh(c *gin.Context) {
	cookie, err := c.Cookie(h.cookies.RefreshCookieName)
	if err != nil || cookie == "" {
		c.Error(errors.NewUnauthorizedError("refresh token required"))
		return
	}

	claims, err := h.authService.VerifyRefreshToken(c.Request.Context(), cookie)
	if err != nil {
		h.observe("refresh", "failed")
		c.Error(errors.NewUnauthorizedError("invalid refresh token"))
		return
	}

	accessToken, ttl, err := h.authService.IssueAccessToken(claims.UserID, claims.Username)
	if err != nil {
		c.Error(errors.NewInternalError("failed to issue access token"))
		return
	}

	h.observe("refresh", "ok")
	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
		"expires_in":   int(ttl.Seconds()),
	})
}

// Logout clears the refresh cookie. The access token simply ages out.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cookies.RefreshCookieName, "", -1, h.cookies.RefreshCookiePath, "", h.cookies.RefreshCookieSecure, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, status int, user *domain.User) {
	accessToken, ttl, err := h.authService.IssueAccessToken(user.ID, user.Username)
	if err != nil {
		c.Error(errors.NewInternalError("failed to issue access token"))
		return
	}

	refreshToken, refreshTTL, err := h.authService.IssueRefreshToken(user.ID)
	if err != nil {
		c.Error(errors.NewInternalError("failed to issue refresh token"))
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cookies.RefreshCookieName,
		refreshToken,
		int(refreshTTL.Seconds()),
		h.cookies.RefreshCookiePath,
		"",
		h.cookies.RefreshCookieSecure,
		true,
	)

	c.JSON(status, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"created_at": user.CreatedAt,
		},
		"access_token": accessToken,
		"expires_in":   int(ttl.Seconds()),
	})
}
