package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
	"schedule-service/internal/service"
)

type TaskHandler struct {
	tasks  *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(tasks *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, logger: logger}
}

func (h *TaskHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.tasks.List()})
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incomplete task details"})
		return
	}

	task := model.Task{
		Number:   req.Number,
		Plate:    req.Plate,
		Staff:    req.Staff,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Service:  req.Service,
		Note:     req.Note,
		Color:    req.Color,
		Type:     req.Type,
	}
	if task.Color == "" {
		task.Color = "blue"
	}

	created, err := h.tasks.Create(task, c.GetString("username"))
	if err != nil {
		h.logger.Error("failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": created})
}

func (h *TaskHandler) Update(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	updates := service.TaskUpdates{
		Plate:    req.Plate,
		Staff:    req.Staff,
		Date:     req.Date,
		Time:     req.Time,
		Location: req.Location,
		Service:  req.Service,
		Note:     req.Note,
		Color:    req.Color,
		Type:     req.Type,
		Status:   req.Status,
	}

	task, err := h.tasks.Update(c.Param("id"), updates, c.GetString("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("failed to update task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.tasks.Delete(id, c.GetString("username")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		h.logger.Error("failed to delete task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deleted", "taskId": id})
}

func (h *TaskHandler) Versions(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "taskId is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": h.tasks.TaskVersions(taskID)})
}
