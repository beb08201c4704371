package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"schedule-service/internal/metrics"
	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

// Pusher delivers a stored notification to connected clients,
// best-effort.
type Pusher interface {
	PushNotification(n model.Notification)
}

type NotificationService struct {
	repo   *repository.NotificationRepository
	redis  *redis.Client
	pusher Pusher
	logger *zap.Logger
}

func NewNotificationService(
	repo *repository.NotificationRepository,
	redisClient *redis.Client,
	pusher Pusher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		repo:   repo,
		redis:  redisClient,
		pusher: pusher,
		logger: logger,
	}
}

// Create stores the notification, then mirrors it to Redis and pushes
// it live. Both deliveries are best-effort; the stored record is the
// authoritative channel.
func (s *NotificationService) Create(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if err := s.repo.Append(n); err != nil {
		return model.Notification{}, err
	}
	metrics.RecordNotificationCreated(string(n.Type))

	s.publish(ctx, n)
	if s.pusher != nil {
		s.pusher.PushNotification(n)
	}

	s.logger.Info("notification created",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
		zap.String("target", n.UserID))
	return n, nil
}

func (s *NotificationService) ListForUser(userID string, unreadOnly bool) []model.Notification {
	return s.repo.ListForUser(userID, unreadOnly)
}

func (s *NotificationService) UnreadCount(userID string) int {
	return s.repo.UnreadCount(userID)
}

func (s *NotificationService) MarkRead(id, userID string) (model.Notification, error) {
	return s.repo.MarkRead(id, userID)
}

func (s *NotificationService) MarkAllRead(userID string) (int, error) {
	return s.repo.MarkAllRead(userID)
}

func (s *NotificationService) Delete(id, userID string) error {
	return s.repo.Delete(id, userID)
}

func (s *NotificationService) publish(ctx context.Context, n model.Notification) {
	if s.redis == nil {
		return
	}

	channel := fmt.Sprintf("notifications:user:%s", n.UserID)
	data, err := json.Marshal(n)
	if err != nil {
		s.logger.Error("failed to marshal notification for publish", zap.Error(err))
		return
	}
	if err := s.redis.Publish(ctx, channel, data).Err(); err != nil {
		s.logger.Warn("failed to publish notification", zap.Error(err))
	}
}
