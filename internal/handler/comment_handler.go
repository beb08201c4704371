package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
	"schedule-service/internal/service"
)

type CommentHandler struct {
	comments *service.CommentService
	users    *repository.UserRepository
	logger   *zap.Logger
}

func NewCommentHandler(comments *service.CommentService, users *repository.UserRepository, logger *zap.Logger) *CommentHandler {
	return &CommentHandler{comments: comments, users: users, logger: logger}
}

func (h *CommentHandler) List(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": h.comments.ListByTask(taskID)})
}

func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId and content are required"})
		return
	}

	author, ok := h.currentUser(c)
	if !ok {
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), req.TaskID, author, req.Content, req.ParentID, req.Mentions)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.comments.Delete(c.Param("id"), c.GetString("userId")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
			return
		}
		h.logger.Error("failed to delete comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *CommentHandler) currentUser(c *gin.Context) (model.User, bool) {
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
