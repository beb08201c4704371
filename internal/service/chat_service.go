package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

var ErrEmptyMessage = errors.New("message cannot be empty")

type ChatService struct {
	chat          *repository.ChatRepository
	users         *repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewChatService(
	chat *repository.ChatRepository,
	users *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chat:          chat,
		users:         users,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *ChatService) History(limit int) ([]model.ChatMessage, int) {
	return s.chat.List(limit)
}

// Post persists a chat message and files durable notifications for the
// mentioned users, so offline mentions survive the missed broadcast.
func (s *ChatService) Post(ctx context.Context, author model.User, message string, mentions []uuid.UUID) (model.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}

	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    author.ID,
		Username:  author.Username,
		Message:   message,
		Mentions:  mentions,
		CreatedAt: time.Now(),
	}
	if err := s.chat.Append(msg); err != nil {
		return model.ChatMessage{}, err
	}

	for _, mentioned := range mentions {
		if mentioned == author.ID {
			continue
		}
		if _, err := s.users.FindByID(mentioned); err != nil {
			continue
		}
		excerpt := message
		if len(excerpt) > 50 {
			excerpt = excerpt[:50] + "..."
		}
		n := model.Notification{
			Type:    model.NotificationMention,
			UserID:  mentioned.String(),
			Title:   "You were mentioned in chat",
			Message: fmt.Sprintf("%s: %s", author.Username, excerpt),
		}
		if _, err := s.notifications.Create(ctx, n); err != nil {
			s.logger.Warn("failed to create mention notification", zap.Error(err))
		}
	}

	return msg, nil
}
