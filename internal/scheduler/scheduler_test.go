package scheduler

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schedule-service/internal/config"
	"schedule-service/internal/model"
	"schedule-service/internal/repository"
	"schedule-service/internal/store"
)

type capturingNotifier struct {
	pushed []model.Notification
}

func (n *capturingNotifier) PushNotification(notification model.Notification) {
	n.pushed = append(n.pushed, notification)
}

type fixture struct {
	scheduler     *Scheduler
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	notifier      *capturingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	cfg := config.SchedulerConfig{
		ReminderSpec:       "*/30 * * * *",
		WorkloadSpec:       "0 8 * * *",
		DedupWindowMinutes: 60,
		WorkloadThreshold:  5,
		RetentionLimit:     1000,
	}

	notifier := &capturingNotifier{}
	tasks := repository.NewTaskRepository(st)
	users := repository.NewUserRepository(st)
	notifications := repository.NewNotificationRepository(st)

	return &fixture{
		scheduler:     New(tasks, users, notifications, notifier, cfg, zap.NewNop()),
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		notifier:      notifier,
	}
}

func (f *fixture) freeze(at time.Time) {
	f.scheduler.now = func() time.Time { return at }
}

func (f *fixture) addTask(t *testing.T, staff string, startsAt time.Time, status model.TaskStatus) model.Task {
	t.Helper()
	task := model.Task{
		ID:       uuid.NewString(),
		Plate:    "12가3456",
		Staff:    staff,
		Date:     startsAt.Format("2006-01-02"),
		Time:     startsAt.Format("15:04") + "-" + startsAt.Add(2*time.Hour).Format("15:04"),
		Location: "Gangnam",
		Service:  "Installation",
		Status:   status,
	}
	require.NoError(t, f.tasks.Create(&task))
	return task
}

func (f *fixture) allNotifications() []model.Notification {
	return f.notifications.ListForUser(model.TargetAll, false)
}

func TestTaskReminderClassification(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		startsAt time.Time
		wantType model.NotificationType
		wantMsg  string
		none     bool
	}{
		{
			name:     "overdue task",
			startsAt: base.Add(-150 * time.Minute),
			wantType: model.NotificationError,
			wantMsg:  "3 hours overdue",
		},
		{
			name:     "starting soon",
			startsAt: base.Add(90 * time.Minute),
			wantType: model.NotificationWarning,
			wantMsg:  "90 minutes left",
		},
		{
			name:     "starting today",
			startsAt: base.Add(5 * time.Hour),
			wantType: model.NotificationInfo,
			wantMsg:  "starts today",
		},
		{
			name:     "too far out",
			startsAt: base.Add(30 * time.Hour),
			none:     true,
		},
		{
			name:     "one hour overdue is still quiet",
			startsAt: base.Add(-time.Hour),
			none:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.freeze(base)
			f.addTask(t, "nobody", tt.startsAt, model.TaskStatusPending)

			f.scheduler.CheckTaskReminders()

			if tt.none {
				assert.Empty(t, f.notifier.pushed)
				return
			}
			require.Len(t, f.notifier.pushed, 1)
			got := f.notifier.pushed[0]
			assert.Equal(t, tt.wantType, got.Type)
			assert.Contains(t, got.Message, tt.wantMsg)
			assert.Contains(t, got.Message, "Gangnam")
		})
	}
}

func TestTaskReminderSkipsFinishedTasks(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)

	f.addTask(t, "nobody", base.Add(time.Hour), model.TaskStatusCompleted)
	f.addTask(t, "nobody", base.Add(time.Hour), model.TaskStatusCancelled)

	f.scheduler.CheckTaskReminders()

	assert.Empty(t, f.notifier.pushed)
}

func TestTaskReminderSkipsUnparseableSchedule(t *testing.T) {
	f := newFixture(t)
	f.freeze(time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local))

	task := model.Task{ID: uuid.NewString(), Staff: "nobody", Date: "someday", Time: "late", Status: model.TaskStatusPending}
	require.NoError(t, f.tasks.Create(&task))

	f.scheduler.CheckTaskReminders()

	assert.Empty(t, f.notifier.pushed)
}

func TestTaskReminderDedupWindow(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)
	f := newFixture(t)

	f.freeze(base)
	f.addTask(t, "nobody", base.Add(100*time.Minute), model.TaskStatusPending)

	f.scheduler.CheckTaskReminders()
	require.Len(t, f.notifier.pushed, 1)

	// The next sweep lands inside the dedup window.
	f.freeze(base.Add(30 * time.Minute))
	f.scheduler.CheckTaskReminders()
	assert.Len(t, f.notifier.pushed, 1)

	// Past the window the task may remind again.
	f.freeze(base.Add(61 * time.Minute))
	f.scheduler.CheckTaskReminders()
	assert.Len(t, f.notifier.pushed, 2)
}

func TestTaskReminderTargetsAssignee(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)

	admin, err := f.users.FindByUsername("admin")
	require.NoError(t, err)

	assigned := f.addTask(t, "admin", base.Add(90*time.Minute), model.TaskStatusPending)
	unassigned := f.addTask(t, "ghost", base.Add(100*time.Minute), model.TaskStatusPending)

	f.scheduler.CheckTaskReminders()

	require.Len(t, f.notifier.pushed, 2)
	byTask := make(map[string]model.Notification)
	for _, n := range f.notifier.pushed {
		byTask[n.TaskID] = n
	}
	assert.Equal(t, admin.ID.String(), byTask[assigned.ID].UserID)
	assert.Equal(t, model.TargetAll, byTask[unassigned.ID].UserID)
}

func TestTaskReminderRetention(t *testing.T) {
	base := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)
	f.scheduler.cfg.RetentionLimit = 5

	for i := 0; i < 8; i++ {
		require.NoError(t, f.notifications.Append(model.Notification{
			ID:        uuid.NewString(),
			Title:     fmt.Sprintf("old %d", i),
			Type:      model.NotificationInfo,
			UserID:    model.TargetAll,
			CreatedAt: base.Add(time.Duration(i-10) * time.Hour),
		}))
	}

	f.scheduler.CheckTaskReminders()

	remaining := f.allNotifications()
	assert.Len(t, remaining, 5)
	for _, n := range remaining {
		assert.NotContains(t, []string{"old 0", "old 1", "old 2"}, n.Title)
	}
}

func TestStaffWorkloadReminder(t *testing.T) {
	base := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)

	// 6 pending tasks today puts the assignee over the threshold.
	for i := 0; i < 6; i++ {
		f.addTask(t, "alice", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusPending)
	}
	// A colleague at exactly the threshold stays quiet.
	for i := 0; i < 5; i++ {
		f.addTask(t, "bob", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusPending)
	}

	f.scheduler.CheckStaffWorkload()

	require.Len(t, f.notifier.pushed, 1)
	got := f.notifier.pushed[0]
	assert.Equal(t, model.NotificationWarning, got.Type)
	assert.Equal(t, model.TargetAll, got.UserID)
	assert.Contains(t, got.Message, "alice has 6 pending tasks today")
}

func TestStaffWorkloadReminderOncePerDay(t *testing.T) {
	base := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)

	for i := 0; i < 6; i++ {
		f.addTask(t, "alice", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusPending)
	}

	f.scheduler.CheckStaffWorkload()
	f.freeze(base.Add(2 * time.Hour))
	f.scheduler.CheckStaffWorkload()
	require.Len(t, f.notifier.pushed, 1)

	// The next day warns again.
	nextDay := base.Add(24 * time.Hour)
	f.freeze(nextDay)
	for i := 0; i < 6; i++ {
		f.addTask(t, "alice", nextDay.Add(time.Duration(i+1)*time.Hour), model.TaskStatusPending)
	}
	f.scheduler.CheckStaffWorkload()
	assert.Len(t, f.notifier.pushed, 2)
}

func TestStaffWorkloadIgnoresCompletedAndCancelled(t *testing.T) {
	base := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	f := newFixture(t)
	f.freeze(base)

	for i := 0; i < 4; i++ {
		f.addTask(t, "alice", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusPending)
	}
	for i := 0; i < 4; i++ {
		f.addTask(t, "alice", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusCompleted)
	}
	for i := 0; i < 4; i++ {
		f.addTask(t, "alice", base.Add(time.Duration(i+1)*time.Hour), model.TaskStatusCancelled)
	}

	f.scheduler.CheckStaffWorkload()

	assert.Empty(t, f.notifier.pushed)
}

func TestStartStopRegistersTriggers(t *testing.T) {
	f := newFixture(t)
	f.freeze(time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local))

	require.NoError(t, f.scheduler.Start())
	f.scheduler.Stop()
}

func TestStartRejectsBadSpec(t *testing.T) {
	f := newFixture(t)
	f.scheduler.cfg.ReminderSpec = "not a cron spec"

	assert.Error(t, f.scheduler.Start())
}
