package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/mindwell/internal/services"
)

type UserHandler struct {
	convos services.ConversationService
	users  services.UserService
}

func NewUserHandler(convos services.ConversationService, users services.UserService) *UserHandler {
	return &UserHandler{convos: convos, users: users}
}

func (h *UserHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.convos.History(c.Request.Context(), userID, queryLimit(c, 10, 200))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "history": rows})
}

func (h *UserHandler) MoodTrends(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	rows, err := h.convos.MoodTrends(c.Request.Context(), userID, queryLimit(c, 20, 500))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "trends": rows})
}

func (h *UserHandler) Summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sum, err := h.users.Summary(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "summary": sum})
}
