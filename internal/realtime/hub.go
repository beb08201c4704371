package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
)

// Hub owns presence and per-task editing sessions. At most one
// connection per user id; a user edits at most one task at a time.
// Both maps are mutated only through Hub methods, under one lock.
//
// Delivery is at-most-once and best-effort: events for slow or gone
// peers are dropped, durable facts live in the store and are
// re-fetched on reconnect.
type Hub struct {
	logger *zap.Logger

	mu       sync.RWMutex
	clients  map[uuid.UUID]*Client            // user id -> connection
	sessions map[string]map[uuid.UUID]*Client // task id -> editors
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:   logger,
		clients:  make(map[uuid.UUID]*Client),
		sessions: make(map[string]map[uuid.UUID]*Client),
	}
}

// Register admits an authenticated connection. A second connection for
// the same user replaces the first one, which is detached from its
// session and closed. Everyone else learns about the user coming
// online; the new connection gets the full online-users snapshot.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()

	if old, ok := h.clients[c.UserID]; ok && old != c {
		if old.currentTask != "" {
			h.leaveTaskLocked(old, old.currentTask)
		}
		delete(h.clients, c.UserID)
		close(old.send)
	}
	h.clients[c.UserID] = c

	h.broadcastLocked(encode(EventUserOnline, userStatusPayload{
		UserID:    c.UserID,
		Username:  c.Username,
		Timestamp: time.Now(),
	}), c)

	c.trySend(encode(EventOnlineUsers, h.onlineUsersLocked()))

	h.mu.Unlock()

	h.logger.Info("client connected",
		zap.String("userId", c.UserID.String()),
		zap.String("username", c.Username))
}

// Unregister removes a connection on disconnect. It leaves the current
// task session first, so session membership never outlives presence.
// Idempotent: a stale or already-removed connection is a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()

	current, ok := h.clients[c.UserID]
	if !ok || current != c {
		h.mu.Unlock()
		return
	}

	if c.currentTask != "" {
		h.leaveTaskLocked(c, c.currentTask)
	}
	delete(h.clients, c.UserID)
	close(c.send)

	h.broadcastLocked(encode(EventUserOffline, userStatusPayload{
		UserID:    c.UserID,
		Username:  c.Username,
		Timestamp: time.Now(),
	}), nil)

	h.mu.Unlock()

	h.logger.Info("client disconnected",
		zap.String("userId", c.UserID.String()),
		zap.String("username", c.Username))
}

// EnterTask joins the task's editing session, implicitly leaving any
// other session first: one active editing target per user, enforced
// here rather than trusted to clients.
func (h *Hub) EnterTask(c *Client, taskID string) {
	if taskID == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c.UserID] != c {
		return
	}

	if c.currentTask != "" && c.currentTask != taskID {
		h.leaveTaskLocked(c, c.currentTask)
	}

	c.currentTask = taskID
	session := h.sessions[taskID]
	if session == nil {
		session = make(map[uuid.UUID]*Client)
		h.sessions[taskID] = session
	}
	session[c.UserID] = c

	h.broadcastTaskLocked(taskID, encode(EventUserEnterTask, taskPresencePayload{
		UserID:    c.UserID,
		Username:  c.Username,
		TaskID:    taskID,
		Timestamp: time.Now(),
	}), c)

	// Full editor list to the joiner; late joiners need no separate
	// reconciliation.
	c.trySend(encode(EventTaskEditors, taskEditorsPayload{
		TaskID:  taskID,
		Editors: h.taskEditorsLocked(taskID),
	}))
}

// LeaveTask removes the user from the task's session. No-op when the
// user is not editing that task.
func (h *Hub) LeaveTask(c *Client, taskID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.currentTask != taskID || taskID == "" {
		return
	}
	h.leaveTaskLocked(c, taskID)
}

// leaveTaskLocked detaches c from the session, garbage-collects the
// session when it empties, and notifies remaining members.
func (h *Hub) leaveTaskLocked(c *Client, taskID string) {
	c.currentTask = ""
	c.cursor = nil

	session, ok := h.sessions[taskID]
	if !ok {
		return
	}
	if _, member := session[c.UserID]; !member {
		return
	}
	delete(session, c.UserID)
	if len(session) == 0 {
		delete(h.sessions, taskID)
	}

	h.broadcastTaskLocked(taskID, encode(EventUserLeaveTask, taskPresencePayload{
		UserID:    c.UserID,
		Username:  c.Username,
		TaskID:    taskID,
		Timestamp: time.Now(),
	}), c)
}

// CursorMove fans a cursor position out to the other members of the
// task session. Updates from a sender who has not joined the task are
// dropped: a stale client, not a fault.
func (h *Hub) CursorMove(c *Client, taskID, fieldName string, position int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.isMemberLocked(c, taskID) {
		return
	}

	c.cursor = &Cursor{FieldName: fieldName, Position: position}

	h.broadcastTaskLocked(taskID, encode(EventCursorUpdate, cursorUpdatePayload{
		UserID:    c.UserID,
		Username:  c.Username,
		TaskID:    taskID,
		FieldName: fieldName,
		Position:  position,
		Timestamp: time.Now(),
	}), c)
}

// TaskUpdate broadcasts a field edit. Session members get the
// fine-grained diff (task-changed); every connection gets a coarse
// invalidation (task-updated) so list views refresh.
func (h *Hub) TaskUpdate(c *Client, taskID, field string, value, oldValue json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.isMemberLocked(c, taskID) {
		return
	}

	now := time.Now()
	h.broadcastTaskLocked(taskID, encode(EventTaskChanged, taskChangedPayload{
		UserID:    c.UserID,
		Username:  c.Username,
		TaskID:    taskID,
		Field:     field,
		Value:     value,
		OldValue:  oldValue,
		Timestamp: now,
	}), c)

	h.broadcastLocked(encode(EventTaskUpdated, taskUpdatedPayload{
		TaskID:    taskID,
		UpdatedBy: c.Username,
		Timestamp: now,
	}), nil)
}

// Comment announces a new comment: everyone gets the notification for
// badge counts, co-editors of the task get the comment itself.
func (h *Hub) Comment(c *Client, taskID string, comment json.RawMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.broadcastLocked(encode(EventNewCommentNotification, commentBroadcastPayload{
		TaskID:    taskID,
		Comment:   comment,
		Author:    c.Username,
		Timestamp: now,
	}), nil)

	h.broadcastTaskLocked(taskID, encode(EventCommentAdded, commentBroadcastPayload{
		TaskID:    taskID,
		Comment:   comment,
		Author:    c.Username,
		AuthorID:  c.UserID,
		Timestamp: now,
	}), c)
}

// Chat broadcasts a chat message to everyone, sender included, and
// pings each mentioned user that is currently connected. The live ping
// is advisory; the durable notification record is written by the REST
// layer.
func (h *Hub) Chat(c *Client, message string, mentions []uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	h.broadcastLocked(encode(EventChatMessage, chatBroadcastPayload{
		ID:        uuid.NewString(),
		UserID:    c.UserID,
		Username:  c.Username,
		Message:   message,
		Mentions:  mentions,
		Timestamp: now,
	}), nil)

	for _, mentioned := range mentions {
		if target, ok := h.clients[mentioned]; ok {
			target.trySend(encode(EventMentionNotification, mentionPayload{
				From:      c.Username,
				Message:   message,
				Timestamp: now,
			}))
		}
	}
}

// PushNotification delivers a stored notification live: broadcasts go
// to every connection, targeted ones to the recipient if connected.
func (h *Hub) PushNotification(n model.Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n.Broadcast() {
		h.broadcastLocked(encode(EventSystemNotification, n), nil)
		return
	}

	userID, err := uuid.Parse(n.UserID)
	if err != nil {
		h.logger.Warn("notification with unparseable recipient",
			zap.String("notificationId", n.ID),
			zap.String("userId", n.UserID))
		return
	}
	if target, ok := h.clients[userID]; ok {
		target.trySend(encode(EventNotification, n))
	}
}

// OnlineUsers returns a snapshot of connected users.
func (h *Hub) OnlineUsers() []OnlineUser {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.onlineUsersLocked()
}

func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// TaskEditors returns a snapshot of the task's session members.
func (h *Hub) TaskEditors(taskID string) []Editor {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.taskEditorsLocked(taskID)
}

func (h *Hub) TaskEditorCount(taskID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[taskID])
}

func (h *Hub) onlineUsersLocked() []OnlineUser {
	users := make([]OnlineUser, 0, len(h.clients))
	for _, c := range h.clients {
		var current *string
		if c.currentTask != "" {
			task := c.currentTask
			current = &task
		}
		users = append(users, OnlineUser{
			UserID:      c.UserID,
			Username:    c.Username,
			CurrentTask: current,
			ConnectedAt: c.ConnectedAt,
		})
	}
	return users
}

func (h *Hub) taskEditorsLocked(taskID string) []Editor {
	session := h.sessions[taskID]
	editors := make([]Editor, 0, len(session))
	for _, c := range session {
		editors = append(editors, Editor{
			UserID:   c.UserID,
			Username: c.Username,
			Cursor:   c.cursor,
		})
	}
	return editors
}

func (h *Hub) isMemberLocked(c *Client, taskID string) bool {
	if taskID == "" {
		return false
	}
	session, ok := h.sessions[taskID]
	if !ok {
		return false
	}
	return session[c.UserID] == c
}

// broadcastLocked queues msg for every connection except the excluded
// one.
func (h *Hub) broadcastLocked(msg []byte, except *Client) {
	for _, c := range h.clients {
		if c == except {
			continue
		}
		c.trySend(msg)
	}
}

// broadcastTaskLocked queues msg for the task's session members except
// the excluded one.
func (h *Hub) broadcastTaskLocked(taskID string, msg []byte, except *Client) {
	for _, c := range h.sessions[taskID] {
		if c == except {
			continue
		}
		c.trySend(msg)
	}
}

// HandleEvent dispatches one inbound frame. Unknown or malformed
// events are logged and dropped; the protocol is fire-and-forget, the
// sender is never answered with an error.
func (h *Hub) HandleEvent(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Warn("malformed websocket frame",
			zap.String("userId", c.UserID.String()),
			zap.Error(err))
		return
	}

	switch env.Event {
	case EventEnterTask:
		var p enterTaskPayload
		if h.decode(c, env, &p) {
			h.EnterTask(c, p.TaskID)
		}
	case EventLeaveTask:
		var p enterTaskPayload
		if h.decode(c, env, &p) {
			h.LeaveTask(c, p.TaskID)
		}
	case EventCursorMove:
		var p cursorMovePayload
		if h.decode(c, env, &p) {
			h.CursorMove(c, p.TaskID, p.FieldName, p.Position)
		}
	case EventTaskUpdate:
		var p taskUpdatePayload
		if h.decode(c, env, &p) {
			h.TaskUpdate(c, p.TaskID, p.Field, p.Value, p.OldValue)
		}
	case EventNewComment:
		var p newCommentPayload
		if h.decode(c, env, &p) {
			h.Comment(c, p.TaskID, p.Comment)
		}
	case EventChatMessage:
		var p chatMessagePayload
		if h.decode(c, env, &p) {
			h.Chat(c, p.Message, p.Mentions)
		}
	default:
		h.logger.Warn("unknown websocket event",
			zap.String("event", env.Event),
			zap.String("userId", c.UserID.String()))
	}
}

func (h *Hub) decode(c *Client, env Envelope, out any) bool {
	if err := json.Unmarshal(env.Data, out); err != nil {
		h.logger.Warn("malformed event payload",
			zap.String("event", env.Event),
			zap.String("userId", c.UserID.String()),
			zap.Error(err))
		return false
	}
	return true
}
