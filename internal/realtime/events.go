package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Client -> server events.
const (
	EventEnterTask   = "enter-task"
	EventLeaveTask   = "leave-task"
	EventCursorMove  = "cursor-move"
	EventTaskUpdate  = "task-update"
	EventNewComment  = "new-comment"
	EventChatMessage = "chat-message"
)

// Server -> client events.
const (
	EventUserOnline             = "user-online"
	EventUserOffline            = "user-offline"
	EventOnlineUsers            = "online-users"
	EventUserEnterTask          = "user-enter-task"
	EventUserLeaveTask          = "user-leave-task"
	EventTaskEditors            = "task-editors"
	EventCursorUpdate           = "cursor-update"
	EventTaskChanged            = "task-changed"
	EventTaskUpdated            = "task-updated"
	EventNewCommentNotification = "new-comment-notification"
	EventCommentAdded           = "comment-added"
	EventMentionNotification    = "mention-notification"
	EventNotification           = "notification"
	EventSystemNotification     = "system-notification"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Cursor is a user's last reported caret location inside a task form.
type Cursor struct {
	FieldName string `json:"fieldName"`
	Position  int    `json:"position"`
}

// Inbound payloads.

type enterTaskPayload struct {
	TaskID string `json:"taskId"`
}

type cursorMovePayload struct {
	TaskID    string `json:"taskId"`
	FieldName string `json:"fieldName"`
	Position  int    `json:"position"`
}

type taskUpdatePayload struct {
	TaskID   string          `json:"taskId"`
	Field    string          `json:"field"`
	Value    json.RawMessage `json:"value"`
	OldValue json.RawMessage `json:"oldValue"`
}

type newCommentPayload struct {
	TaskID  string          `json:"taskId"`
	Comment json.RawMessage `json:"comment"`
}

type chatMessagePayload struct {
	Message  string      `json:"message"`
	Mentions []uuid.UUID `json:"mentions"`
}

// Outbound payloads.

type userStatusPayload struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// OnlineUser is one entry of the online-users snapshot.
type OnlineUser struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	CurrentTask *string   `json:"currentTask"`
	ConnectedAt time.Time `json:"connectedAt"`
}

type taskPresencePayload struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	TaskID    string    `json:"taskId"`
	Timestamp time.Time `json:"timestamp"`
}

// Editor is one entry of the task-editors list sent to a joiner.
type Editor struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Cursor   *Cursor   `json:"cursorPosition"`
}

type taskEditorsPayload struct {
	TaskID  string   `json:"taskId"`
	Editors []Editor `json:"editors"`
}

type cursorUpdatePayload struct {
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	TaskID    string    `json:"taskId"`
	FieldName string    `json:"fieldName"`
	Position  int       `json:"position"`
	Timestamp time.Time `json:"timestamp"`
}

type taskChangedPayload struct {
	UserID    uuid.UUID       `json:"userId"`
	Username  string          `json:"username"`
	TaskID    string          `json:"taskId"`
	Field     string          `json:"field"`
	Value     json.RawMessage `json:"value"`
	OldValue  json.RawMessage `json:"oldValue"`
	Timestamp time.Time       `json:"timestamp"`
}

type taskUpdatedPayload struct {
	TaskID    string    `json:"taskId"`
	UpdatedBy string    `json:"updatedBy"`
	Timestamp time.Time `json:"timestamp"`
}

type commentBroadcastPayload struct {
	TaskID    string          `json:"taskId"`
	Comment   json.RawMessage `json:"comment"`
	Author    string          `json:"author"`
	AuthorID  uuid.UUID       `json:"authorId,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type chatBroadcastPayload struct {
	ID        string      `json:"id"`
	UserID    uuid.UUID   `json:"userId"`
	Username  string      `json:"username"`
	Message   string      `json:"message"`
	Mentions  []uuid.UUID `json:"mentions"`
	Timestamp time.Time   `json:"timestamp"`
}

type mentionPayload struct {
	From      string    `json:"from"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// encode frames an event for the wire. Payloads are our own structs,
// so marshalling them cannot reasonably fail.
func encode(event string, data any) []byte {
	raw, _ := json.Marshal(data)
	msg, _ := json.Marshal(Envelope{Event: event, Data: raw})
	return msg
}
