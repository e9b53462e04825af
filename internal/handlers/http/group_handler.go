package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pubudu2003060/NoteShare-sub000/internal/core/domain"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/ports"
	"github.com/pubudu2003060/NoteShare-sub000/internal/core/services"
	"github.com/pubudu2003060/NoteShare-sub000/internal/infrastructure/middleware"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/errors"
	"github.com/pubudu2003060/NoteShare-sub000/pkg/utils"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups     ports.GroupRepository
	dispatcher ports.Dispatcher
}

func NewGroupHandler(groups ports.GroupRepository, dispatcher ports.Dispatcher) *GroupHandler {
	return &GroupHandler{
		groups:     groups,
		dispatcher: dispatcher,
	}
}

func (h *GroupHandler) SetupRoutes(router *gin.Engine, authService services.AuthService) {
	api := router.Group("/api/v1/groups")
	api.Use(middleware.AuthMiddleware(authService))
	{
		api.POST("", h.Create)
		api.GET("/:id", h.Get)
		api.POST("/:id/join", h.RequestJoin)
	}
}

type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=3,max=100"`
}

func (h *GroupHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}

	var req CreateGroupRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		c.Error(errors.NewInvalidInputError("group name must not be empty"))
		return
	}

	group := domain.NewGroup(domain.GroupID(utils.GenerateGroupID()), req.Name, userID)
	if err := h.groups.Create(c.Request.Context(), group); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"group": group,
	})
}

func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.GetByID(c.Request.Context(), domain.GroupID(c.Param("id")))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group": group,
	})
}

// RequestJoin publishes a join request notification to the group's admin. The
// group name is cached into the payload so later follow-ups can reference it
// even if the group is renamed or deleted.
func (h *GroupHandler) RequestJoin(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(errors.NewUnauthorizedError("authentication required"))
		return
	}
	username := c.GetString("username")

	group, err := h.groups.GetByID(c.Request.Context(), domain.GroupID(c.Param("id")))
	if err != nil {
		c.Error(err)
		return
	}

	if group.AdminID == userID {
		c.Error(errors.NewInvalidInputError("admin cannot request to join their own group"))
		return
	}
	if group.IsMember(userID) {
		c.Error(errors.NewConflictError("already a member of this group"))
		return
	}

	n, err := h.dispatcher.Publish(c.Request.Context(), ports.PublishInput{
		RecipientID: group.AdminID,
		SenderID:    userID,
		Kind:        domain.KindJoinRequest,
		Title:       fmt.Sprintf("Join request for '%s'", group.Name),
		Message:     fmt.Sprintf("%s wants to join '%s'", username, group.Name),
		Payload: domain.NotificationPayload{
			GroupID:   group.ID,
			GroupName: group.Name,
		},
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"notification_id": n.ID,
	})
}
