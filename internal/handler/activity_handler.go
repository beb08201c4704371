package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schedule-service/internal/realtime"
	"schedule-service/internal/repository"
)

type ActivityHandler struct {
	activity *repository.ActivityRepository
	hub      *realtime.Hub
}

func NewActivityHandler(activity *repository.ActivityRepository, hub *realtime.Hub) *ActivityHandler {
	return &ActivityHandler{activity: activity, hub: hub}
}

func (h *ActivityHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"activity": h.activity.List()})
}

func (h *ActivityHandler) OnlineUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"users": h.hub.OnlineUsers(),
		"count": h.hub.OnlineCount(),
	})
}
