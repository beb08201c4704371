package repository

import (
	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type ChatRepository struct {
	store *store.Store
}

func NewChatRepository(s *store.Store) *ChatRepository {
	return &ChatRepository{store: s}
}

// List returns up to limit messages ending at the newest, oldest first.
func (r *ChatRepository) List(limit int) ([]model.ChatMessage, int) {
	var (
		out   []model.ChatMessage
		total int
	)
	r.store.View(func(d *store.Data) {
		total = len(d.ChatMessages)
		start := total - limit
		if limit <= 0 || start < 0 {
			start = 0
		}
		out = append(out, d.ChatMessages[start:]...)
	})
	return out, total
}

func (r *ChatRepository) Append(m model.ChatMessage) error {
	return r.store.Update(func(d *store.Data) error {
		d.ChatMessages = append(d.ChatMessages, m)
		return nil
	})
}
