package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mongorepo "github.com/yoockh/mindwell/internal/repositories/mongo"
	"github.com/yoockh/mindwell/internal/utils"
)

type AdminHandler struct {
	events mongorepo.CrisisEventRepository
}

func NewAdminHandler(events mongorepo.CrisisEventRepository) *AdminHandler {
	return &AdminHandler{events: events}
}

// CrisisEvents lists recorded escalations, optionally for one user_id.
func (h *AdminHandler) CrisisEvents(c *gin.Context) {
	const op = "AdminHandler.CrisisEvents"

	limit := int64(queryLimit(c, 50, 500))
	ctx := c.Request.Context()

	var (
		rows any
		err  error
	)
	if uid := c.Query("user_id"); uid != "" {
		rows, err = h.events.ListByUser(ctx, uid, limit)
	} else {
		rows, err = h.events.ListRecent(ctx, limit)
	}
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to list crisis events", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": rows})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
