package repository

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)
	return st
}

func notificationAt(userID string, createdAt time.Time) model.Notification {
	return model.Notification{
		ID:        uuid.NewString(),
		Title:     "Task reminder",
		Message:   "test",
		Type:      model.NotificationInfo,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

func TestListForUserIncludesBroadcasts(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	userID := uuid.NewString()
	otherID := uuid.NewString()
	base := time.Now()

	require.NoError(t, repo.Append(notificationAt(userID, base.Add(-2*time.Hour))))
	require.NoError(t, repo.Append(notificationAt(model.TargetAll, base.Add(-time.Hour))))
	require.NoError(t, repo.Append(notificationAt(otherID, base)))

	got := repo.ListForUser(userID, false)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, model.TargetAll, got[0].UserID)
	assert.Equal(t, userID, got[1].UserID)
}

func TestUnreadFiltering(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	userID := uuid.NewString()

	first := notificationAt(userID, time.Now())
	second := notificationAt(userID, time.Now())
	require.NoError(t, repo.Append(first))
	require.NoError(t, repo.Append(second))

	_, err := repo.MarkRead(first.ID, userID)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.UnreadCount(userID))

	unread := repo.ListForUser(userID, true)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)
}

func TestMarkReadRequiresOwnership(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	owner := uuid.NewString()

	n := notificationAt(owner, time.Now())
	require.NoError(t, repo.Append(n))

	_, err := repo.MarkRead(n.ID, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkAllRead(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	userID := uuid.NewString()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Append(notificationAt(userID, time.Now())))
	}
	require.NoError(t, repo.Append(notificationAt(uuid.NewString(), time.Now())))

	updated, err := repo.MarkAllRead(userID)
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.Equal(t, 0, repo.UnreadCount(userID))
}

func TestTrimKeepsMostRecent(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))
	base := time.Now()

	for i := 0; i < 10; i++ {
		n := notificationAt(model.TargetAll, base.Add(time.Duration(i)*time.Minute))
		n.Title = fmt.Sprintf("n-%d", i)
		require.NoError(t, repo.Append(n))
	}

	require.NoError(t, repo.Trim(4))

	got := repo.ListForUser(model.TargetAll, false)
	require.Len(t, got, 4)
	assert.Equal(t, "n-9", got[0].Title)
	assert.Equal(t, "n-6", got[3].Title)
}

func TestTrimUnderLimitIsNoop(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))

	require.NoError(t, repo.Append(notificationAt(model.TargetAll, time.Now())))
	require.NoError(t, repo.Trim(1000))

	assert.Len(t, repo.ListForUser(model.TargetAll, false), 1)
}

func TestAnyMatchesPredicate(t *testing.T) {
	repo := NewNotificationRepository(newTestStore(t))

	n := notificationAt(model.TargetAll, time.Now())
	n.TaskID = "t-1"
	require.NoError(t, repo.Append(n))

	assert.True(t, repo.Any(func(n model.Notification) bool { return n.TaskID == "t-1" }))
	assert.False(t, repo.Any(func(n model.Notification) bool { return n.TaskID == "t-2" }))
}
