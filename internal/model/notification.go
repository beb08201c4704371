package model

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationMention NotificationType = "mention"
	NotificationComment NotificationType = "comment"
)

// TargetAll is the UserID sentinel for notifications addressed to everyone.
const TargetAll = "all"

type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	UserID    string           `json:"userId"` // recipient user id, or TargetAll
	TaskID    string           `json:"taskId,omitempty"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// Broadcast reports whether the notification is addressed to all users.
func (n Notification) Broadcast() bool {
	return n.UserID == TargetAll
}
