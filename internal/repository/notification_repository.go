package repository

import (
	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type NotificationRepository struct {
	store *store.Store
}

func NewNotificationRepository(s *store.Store) *NotificationRepository {
	return &NotificationRepository{store: s}
}

func (r *NotificationRepository) Append(n model.Notification) error {
	return r.store.Update(func(d *store.Data) error {
		d.Notifications = append(d.Notifications, n)
		return nil
	})
}

func (r *NotificationRepository) AppendAll(ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	return r.store.Update(func(d *store.Data) error {
		d.Notifications = append(d.Notifications, ns...)
		return nil
	})
}

// Any reports whether some stored notification satisfies pred.
func (r *NotificationRepository) Any(pred func(n model.Notification) bool) bool {
	var found bool
	r.store.View(func(d *store.Data) {
		for _, n := range d.Notifications {
			if pred(n) {
				found = true
				return
			}
		}
	})
	return found
}

// ListForUser returns the notifications visible to userID: ones
// addressed to them plus broadcasts, newest first.
func (r *NotificationRepository) ListForUser(userID string, unreadOnly bool) []model.Notification {
	var out []model.Notification
	r.store.View(func(d *store.Data) {
		for i := len(d.Notifications) - 1; i >= 0; i-- {
			n := d.Notifications[i]
			if n.UserID != userID && !n.Broadcast() {
				continue
			}
			if unreadOnly && n.Read {
				continue
			}
			out = append(out, n)
		}
	})
	return out
}

func (r *NotificationRepository) UnreadCount(userID string) int {
	count := 0
	r.store.View(func(d *store.Data) {
		for _, n := range d.Notifications {
			if (n.UserID == userID || n.Broadcast()) && !n.Read {
				count++
			}
		}
	})
	return count
}

func (r *NotificationRepository) MarkRead(id, userID string) (model.Notification, error) {
	var marked model.Notification
	err := r.store.Update(func(d *store.Data) error {
		for i := range d.Notifications {
			n := &d.Notifications[i]
			if n.ID == id && (n.UserID == userID || n.Broadcast()) {
				n.Read = true
				marked = *n
				return nil
			}
		}
		return ErrNotFound
	})
	return marked, err
}

func (r *NotificationRepository) MarkAllRead(userID string) (int, error) {
	count := 0
	err := r.store.Update(func(d *store.Data) error {
		for i := range d.Notifications {
			n := &d.Notifications[i]
			if (n.UserID == userID || n.Broadcast()) && !n.Read {
				n.Read = true
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *NotificationRepository) Delete(id, userID string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, n := range d.Notifications {
			if n.ID == id && (n.UserID == userID || n.Broadcast()) {
				d.Notifications = append(d.Notifications[:i], d.Notifications[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

// Trim drops the oldest notifications beyond limit, keeping the most
// recent ones. A no-op (and no disk write) when already under limit.
func (r *NotificationRepository) Trim(limit int) error {
	over := false
	r.store.View(func(d *store.Data) {
		over = len(d.Notifications) > limit
	})
	if !over {
		return nil
	}
	return r.store.Update(func(d *store.Data) error {
		if excess := len(d.Notifications) - limit; excess > 0 {
			d.Notifications = append([]model.Notification(nil), d.Notifications[excess:]...)
		}
		return nil
	})
}
