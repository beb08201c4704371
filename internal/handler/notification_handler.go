package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-service/internal/repository"
	"schedule-service/internal/service"
)

type NotificationHandler struct {
	notifications *service.NotificationService
	logger        *zap.Logger
}

func NewNotificationHandler(notifications *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString("userId")
	unreadOnly := c.Query("unreadOnly") == "true"
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifications.ListForUser(userID, unreadOnly),
	})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count": h.notifications.UnreadCount(c.GetString("userId")),
	})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Param("id"), c.GetString("userId"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("failed to mark notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notification": n})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(c.GetString("userId"))
	if err != nil {
		h.logger.Error("failed to mark notifications read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	if err := h.notifications.Delete(c.Param("id"), c.GetString("userId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("failed to delete notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
