package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedule-service/internal/model"
)

func newTestHub() *Hub {
	return NewHub(zap.NewNop())
}

func newTestClient(username string) *Client {
	return NewClient(uuid.New(), username, nil)
}

// drain empties the client's send queue and returns the decoded frames.
func drain(t *testing.T, c *Client) []Envelope {
	t.Helper()
	var out []Envelope
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			var env Envelope
			require.NoError(t, json.Unmarshal(msg, &env))
			out = append(out, env)
		default:
			return out
		}
	}
}

func eventNames(envs []Envelope) []string {
	names := make([]string, 0, len(envs))
	for _, e := range envs {
		names = append(names, e.Event)
	}
	return names
}

func countEvent(envs []Envelope, event string) int {
	n := 0
	for _, e := range envs {
		if e.Event == event {
			n++
		}
	}
	return n
}

func TestRegisterAnnouncesPresence(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")

	hub.Register(alice)
	drain(t, alice)

	hub.Register(bob)

	aliceEvents := drain(t, alice)
	assert.Contains(t, eventNames(aliceEvents), EventUserOnline)

	bobEvents := drain(t, bob)
	require.Equal(t, 1, countEvent(bobEvents, EventOnlineUsers))

	var snapshot []OnlineUser
	for _, e := range bobEvents {
		if e.Event == EventOnlineUsers {
			require.NoError(t, json.Unmarshal(e.Data, &snapshot))
		}
	}
	assert.Len(t, snapshot, 2)
}

func TestRegisterReplacesExistingConnection(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	first := NewClient(userID, "alice", nil)
	second := NewClient(userID, "alice", nil)

	hub.Register(first)
	hub.Register(second)

	assert.Equal(t, 1, hub.OnlineCount())

	// The replaced connection's queue is closed.
	_, open := <-first.send
	for open {
		_, open = <-first.send
	}
	assert.False(t, open)

	// The stale connection can no longer act on the hub.
	hub.EnterTask(first, "task-1")
	assert.Equal(t, 0, hub.TaskEditorCount("task-1"))
}

func TestUnregisterIsIdempotent(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")

	hub.Register(alice)
	hub.Unregister(alice)
	hub.Unregister(alice)

	assert.Equal(t, 0, hub.OnlineCount())
}

func TestUnregisterStaleConnectionKeepsReplacement(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	first := NewClient(userID, "alice", nil)
	second := NewClient(userID, "alice", nil)

	hub.Register(first)
	hub.Register(second)

	// The read pump of the replaced connection still fires its deferred
	// unregister; the live connection must survive it.
	hub.Unregister(first)

	assert.Equal(t, 1, hub.OnlineCount())
}

func TestEnterTaskSwitchesSession(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	hub.Register(alice)

	hub.EnterTask(alice, "task-1")
	hub.EnterTask(alice, "task-2")

	assert.Equal(t, 0, hub.TaskEditorCount("task-1"))
	assert.Equal(t, 1, hub.TaskEditorCount("task-2"))
}

func TestLeaveTaskGarbageCollectsSession(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.EnterTask(alice, "task-1")
	hub.EnterTask(bob, "task-1")
	hub.LeaveTask(alice, "task-1")
	hub.LeaveTask(bob, "task-1")

	hub.mu.RLock()
	_, exists := hub.sessions["task-1"]
	hub.mu.RUnlock()
	assert.False(t, exists)
}

func TestCursorMoveDroppedForNonMembers(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.EnterTask(bob, "task-1")
	drain(t, bob)

	// Alice never joined task-1.
	hub.CursorMove(alice, "task-1", "note", 5)

	assert.Equal(t, 0, countEvent(drain(t, bob), EventCursorUpdate))
}

func TestTaskUpdateAudience(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	carol := newTestClient("carol")
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(carol)

	hub.EnterTask(alice, "task-1")
	hub.EnterTask(bob, "task-1")

	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	hub.TaskUpdate(alice, "task-1", "note", json.RawMessage(`"new"`), json.RawMessage(`"old"`))

	// Co-editor gets the diff and the invalidation.
	bobEvents := drain(t, bob)
	assert.Equal(t, 1, countEvent(bobEvents, EventTaskChanged))
	assert.Equal(t, 1, countEvent(bobEvents, EventTaskUpdated))

	// A connected non-editor only gets the invalidation.
	carolEvents := drain(t, carol)
	assert.Equal(t, 0, countEvent(carolEvents, EventTaskChanged))
	assert.Equal(t, 1, countEvent(carolEvents, EventTaskUpdated))

	// The sender sees its own invalidation but not its own diff.
	aliceEvents := drain(t, alice)
	assert.Equal(t, 0, countEvent(aliceEvents, EventTaskChanged))
	assert.Equal(t, 1, countEvent(aliceEvents, EventTaskUpdated))
}

func TestTaskUpdateRequiresMembership(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.EnterTask(bob, "task-1")
	drain(t, bob)

	hub.TaskUpdate(alice, "task-1", "note", json.RawMessage(`"x"`), nil)

	bobEvents := drain(t, bob)
	assert.Equal(t, 0, countEvent(bobEvents, EventTaskChanged))
	assert.Equal(t, 0, countEvent(bobEvents, EventTaskUpdated))
}

func TestCommentAudience(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	carol := newTestClient("carol")
	hub.Register(alice)
	hub.Register(bob)
	hub.Register(carol)

	hub.EnterTask(alice, "task-1")
	hub.EnterTask(bob, "task-1")

	drain(t, alice)
	drain(t, bob)
	drain(t, carol)

	hub.Comment(alice, "task-1", json.RawMessage(`{"content":"hi"}`))

	bobEvents := drain(t, bob)
	assert.Equal(t, 1, countEvent(bobEvents, EventNewCommentNotification))
	assert.Equal(t, 1, countEvent(bobEvents, EventCommentAdded))

	carolEvents := drain(t, carol)
	assert.Equal(t, 1, countEvent(carolEvents, EventNewCommentNotification))
	assert.Equal(t, 0, countEvent(carolEvents, EventCommentAdded))
}

func TestChatReachesEveryoneIncludingSender(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, alice)
	drain(t, bob)

	hub.Chat(alice, "hello", nil)

	assert.Equal(t, 1, countEvent(drain(t, alice), EventChatMessage))
	assert.Equal(t, 1, countEvent(drain(t, bob), EventChatMessage))
}

func TestChatMentionPingsConnectedUser(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, alice)
	drain(t, bob)

	offline := uuid.New()
	hub.Chat(alice, "ping", []uuid.UUID{bob.UserID, offline})

	bobEvents := drain(t, bob)
	assert.Equal(t, 1, countEvent(bobEvents, EventMentionNotification))

	aliceEvents := drain(t, alice)
	assert.Equal(t, 0, countEvent(aliceEvents, EventMentionNotification))
}

func TestPushNotificationBroadcast(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, alice)
	drain(t, bob)

	hub.PushNotification(model.Notification{
		ID:     uuid.NewString(),
		Title:  "Maintenance",
		Type:   model.NotificationInfo,
		UserID: model.TargetAll,
	})

	assert.Equal(t, 1, countEvent(drain(t, alice), EventSystemNotification))
	assert.Equal(t, 1, countEvent(drain(t, bob), EventSystemNotification))
}

func TestPushNotificationTargeted(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, alice)
	drain(t, bob)

	hub.PushNotification(model.Notification{
		ID:     uuid.NewString(),
		Title:  "Task reminder",
		Type:   model.NotificationWarning,
		UserID: bob.UserID.String(),
	})

	assert.Equal(t, 1, countEvent(drain(t, bob), EventNotification))
	assert.Equal(t, 0, countEvent(drain(t, alice), EventNotification))
}

func TestHandleEventDispatch(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)

	hub.HandleEvent(alice, []byte(`{"event":"enter-task","data":{"taskId":"task-1"}}`))
	hub.HandleEvent(bob, []byte(`{"event":"enter-task","data":{"taskId":"task-1"}}`))
	drain(t, alice)
	drain(t, bob)

	hub.HandleEvent(alice, []byte(`{"event":"cursor-move","data":{"taskId":"task-1","fieldName":"note","position":5}}`))

	bobEvents := drain(t, bob)
	require.Equal(t, 1, countEvent(bobEvents, EventCursorUpdate))

	var cursor cursorUpdatePayload
	for _, e := range bobEvents {
		if e.Event == EventCursorUpdate {
			require.NoError(t, json.Unmarshal(e.Data, &cursor))
		}
	}
	assert.Equal(t, "note", cursor.FieldName)
	assert.Equal(t, 5, cursor.Position)
	assert.Equal(t, alice.UserID, cursor.UserID)
}

func TestHandleEventDropsMalformedFrames(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, bob)

	hub.HandleEvent(alice, []byte(`not json`))
	hub.HandleEvent(alice, []byte(`{"event":"no-such-event","data":{}}`))
	hub.HandleEvent(alice, []byte(`{"event":"cursor-move","data":"nope"}`))

	assert.Empty(t, drain(t, bob))
}

func TestCoEditingScenario(t *testing.T) {
	hub := newTestHub()
	alice := newTestClient("alice")
	bob := newTestClient("bob")
	hub.Register(alice)
	hub.Register(bob)
	drain(t, alice)
	drain(t, bob)

	hub.EnterTask(alice, "task-1")
	hub.EnterTask(bob, "task-1")

	// Alice learns bob joined; bob received the editor list with alice in it.
	aliceEvents := drain(t, alice)
	assert.Equal(t, 1, countEvent(aliceEvents, EventUserEnterTask))

	bobEvents := drain(t, bob)
	require.Equal(t, 1, countEvent(bobEvents, EventTaskEditors))
	var editors taskEditorsPayload
	for _, e := range bobEvents {
		if e.Event == EventTaskEditors {
			require.NoError(t, json.Unmarshal(e.Data, &editors))
		}
	}
	assert.Len(t, editors.Editors, 2)

	hub.CursorMove(alice, "task-1", "note", 5)
	assert.Equal(t, 1, countEvent(drain(t, bob), EventCursorUpdate))

	hub.LeaveTask(alice, "task-1")
	assert.Equal(t, 1, countEvent(drain(t, bob), EventUserLeaveTask))
	assert.Equal(t, 1, hub.TaskEditorCount("task-1"))

	// Rejoining works and the cursor starts clean.
	hub.EnterTask(alice, "task-1")
	for _, editor := range hub.TaskEditors("task-1") {
		if editor.UserID == alice.UserID {
			assert.Nil(t, editor.Cursor)
		}
	}
}
