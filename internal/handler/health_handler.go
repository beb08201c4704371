package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"schedule-service/internal/realtime"
)

type HealthHandler struct {
	hub       *realtime.Hub
	startedAt time.Time
}

func NewHealthHandler(hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{hub: hub, startedAt: time.Now()}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "schedule-service",
		"uptime":  time.Since(h.startedAt).String(),
		"online":  h.hub.OnlineCount(),
	})
}

func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
