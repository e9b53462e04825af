package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/middleware"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/errors"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications services.NotificationService
	arbitration   services.ArbitrationService
}

func NewNotificationHandler(
	notifications services.NotificationService,
	arbitration services.ArbitrationService,
) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		arbitration:   arbitration,
	}
}

func (h *NotificationHandler) SetupRoutes(router *gin.Engine, authService services.AuthService) {
	api := router.Group("/api/v1/notifications")
	api.Use(middleware.AuthMiddleware(authService))
	{
		api.GET("", h.List)
		api.PATCH("/mark-all-viewed", h.MarkAllViewed)
		api.PATCH("/:id/view", h.MarkViewed)
		api.POST("/:id/approve", h.Approve)
		api.POST("/:id/reject", h.Reject)
		api.DELETE("/:id", h.Delete)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.notifications.ListForUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications":  result.Items,
		"unviewed_count": result.UnviewedCount,
		"total_pages":    result.TotalPages,
		"page":           result.Page,
		"limit":          result.PageSize,
	})
}

func (h *NotificationHandler) MarkViewed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	id := domain.NotificationID(c.Param("id"))
	if err := h.notifications.MarkViewed(c.Request.Context(), id, userID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) MarkAllViewed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	if err := h.notifications.MarkAllViewed(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Approve(c *gin.Context) {
	h.resolve(c, h.arbitration.Approve)
}

func (h *NotificationHandler) Reject(c *gin.Context) {
	h.resolve(c, h.arbitration.Reject)
}

func (h *NotificationHandler) resolve(
	c *gin.Context,
	fn func(ctx context.Context, id domain.NotificationID, actingUserID domain.UserID) (*domain.Notification, error),
) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	id := domain.NotificationID(c.Param("id"))
	n, err := fn(c.Request.Context(), id, userID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notification": n,
	})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	id := domain.NotificationID(c.Param("id"))
	if err := h.notifications.Delete(c.Request.Context(), id, userID); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
