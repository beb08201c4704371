package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
	"schedule-service/internal/service"
)

const defaultChatHistoryLimit = 100

type ChatHandler struct {
	chat   *service.ChatService
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewChatHandler(chat *service.ChatService, users *repository.UserRepository, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, users: users, logger: logger}
}

func (h *ChatHandler) History(c *gin.Context) {
	limit := defaultChatHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	messages, total := h.chat.History(limit)
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

func (h *ChatHandler) Post(c *gin.Context) {
	var req PostChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	author, ok := h.currentUser(c)
	if !ok {
		return
	}

	msg, err := h.chat.Post(c.Request.Context(), author, req.Message, req.Mentions)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		h.logger.Error("failed to post chat message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to post message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

func (h *ChatHandler) currentUser(c *gin.Context) (model.User, bool) {
	userID, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return model.User{}, false
	}
	user, err := h.users.FindByID(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return model.User{}, false
	}
	return user, true
}
