package model

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        string      `json:"id"`
	TaskID    string      `json:"taskId"`
	UserID    uuid.UUID   `json:"userId"`
	Username  string      `json:"username"`
	Content   string      `json:"content"`
	ParentID  string      `json:"parentId,omitempty"`
	Mentions  []uuid.UUID `json:"mentions,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type ChatMessage struct {
	ID        string      `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Username  string      `json:"username"`
	Message   string      `json:"message"`
	Mentions  []uuid.UUID `json:"mentions,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Activity is one entry in the recent-activity feed.
type Activity struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Task      string    `json:"task"`
	Timestamp time.Time `json:"timestamp"`
}

// TaskVersion is a snapshot of a task taken before an update.
type TaskVersion struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Snapshot  Task      `json:"snapshot"`
	ChangedBy string    `json:"changedBy"`
	CreatedAt time.Time `json:"createdAt"`
}
