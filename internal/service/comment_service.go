package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

type CommentService struct {
	comments      *repository.CommentRepository
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	activity      *repository.ActivityRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewCommentService(
	comments *repository.CommentRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	activity *repository.ActivityRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *CommentService {
	return &CommentService{
		comments:      comments,
		tasks:         tasks,
		users:         users,
		activity:      activity,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *CommentService) ListByTask(taskID string) []model.Comment {
	return s.comments.ListByTask(taskID)
}

// Create stores the comment and files durable mention notifications
// plus one for the task's assignee. Live fan-out of the comment itself
// happens over the websocket layer, not here.
func (s *CommentService) Create(ctx context.Context, taskID string, author model.User, content, parentID string, mentions []uuid.UUID) (model.Comment, error) {
	task, err := s.tasks.GetByID(taskID)
	if err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    author.ID,
		Username:  author.Username,
		Content:   content,
		ParentID:  parentID,
		Mentions:  mentions,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.comments.Append(comment); err != nil {
		return model.Comment{}, err
	}

	if err := s.activity.Record(author.Username, "commented", task.Number); err != nil {
		s.logger.Warn("failed to record comment activity", zap.Error(err))
	}

	for _, mentioned := range mentions {
		if mentioned == author.ID {
			continue
		}
		if _, err := s.users.FindByID(mentioned); err != nil {
			continue
		}
		s.notify(ctx, model.Notification{
			Type:    model.NotificationMention,
			UserID:  mentioned.String(),
			Title:   "You were mentioned",
			Message: fmt.Sprintf("%s mentioned you on task %s", author.Username, task.Number),
			TaskID:  taskID,
			Link:    "/tasks?taskId=" + taskID,
		})
	}

	// The assignee hears about new comments on their task.
	if assignee, err := s.users.FindByUsername(task.Staff); err == nil && assignee.ID != author.ID {
		s.notify(ctx, model.Notification{
			Type:    model.NotificationComment,
			UserID:  assignee.ID.String(),
			Title:   "New comment on your task",
			Message: fmt.Sprintf("%s commented on task %s", author.Username, task.Number),
			TaskID:  taskID,
			Link:    "/tasks?taskId=" + taskID,
		})
	}

	return comment, nil
}

func (s *CommentService) Delete(id, userID string) error {
	return s.comments.Delete(id, userID)
}

func (s *CommentService) notify(ctx context.Context, n model.Notification) {
	if _, err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to create comment notification", zap.Error(err))
	}
}
