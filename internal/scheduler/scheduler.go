package scheduler

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"schedule-service/internal/config"
	"schedule-service/internal/metrics"
	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

const (
	titleTaskReminder     = "Task reminder"
	titleWorkloadReminder = "Workload reminder"
)

// Notifier pushes a freshly stored notification to connected clients.
// Delivery is best-effort; the stored record is authoritative.
type Notifier interface {
	PushNotification(n model.Notification)
}

// Scheduler runs the periodic reminder sweeps. The two triggers are
// independent cron entries sharing no state beyond the store, whose
// write lock serializes all mutations; overlapping runs are therefore
// harmless.
type Scheduler struct {
	tasks         *repository.TaskRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	notifier      Notifier
	cfg           config.SchedulerConfig
	logger        *zap.Logger

	cron *cron.Cron
	now  func() time.Time
}

func New(
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	notifications *repository.NotificationRepository,
	notifier Notifier,
	cfg config.SchedulerConfig,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		notifier:      notifier,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// Start registers both cron triggers and runs one immediate
// task-reminder sweep so a restart does not miss a cycle.
func (s *Scheduler) Start() error {
	c := cron.New()

	if _, err := c.AddFunc(s.cfg.ReminderSpec, s.CheckTaskReminders); err != nil {
		return fmt.Errorf("register task reminder trigger: %w", err)
	}
	if _, err := c.AddFunc(s.cfg.WorkloadSpec, s.CheckStaffWorkload); err != nil {
		return fmt.Errorf("register workload trigger: %w", err)
	}

	s.CheckTaskReminders()

	c.Start()
	s.cron = c

	s.logger.Info("reminder scheduler started",
		zap.String("reminderSpec", s.cfg.ReminderSpec),
		zap.String("workloadSpec", s.cfg.WorkloadSpec))
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// CheckTaskReminders sweeps all open tasks and files due/overdue
// reminders. A task gets at most one notification per dedup window no
// matter how many sweeps run inside it. A store failure aborts the
// run; the next trigger retries naturally.
func (s *Scheduler) CheckTaskReminders() {
	metrics.RecordSweep("task_reminder")

	now := s.now()
	cutoff := now.Add(-s.cfg.DedupWindow())

	usersByName := make(map[string]model.User)
	for _, u := range s.users.List() {
		usersByName[u.Username] = u
	}

	var created []model.Notification
	for _, task := range s.tasks.List() {
		if task.Status.Terminal() {
			continue
		}

		startsAt, err := task.StartsAt()
		if err != nil {
			s.logger.Debug("task without parseable schedule",
				zap.String("taskId", task.ID),
				zap.Error(err))
			continue
		}
		hoursUntil := startsAt.Sub(now).Hours()

		if s.notifications.Any(func(n model.Notification) bool {
			return n.TaskID == task.ID && n.CreatedAt.After(cutoff)
		}) {
			continue
		}

		n, ok := classify(task, hoursUntil)
		if !ok {
			continue
		}

		n.ID = uuid.NewString()
		n.UserID = model.TargetAll
		if u, found := usersByName[task.Staff]; found {
			n.UserID = u.ID.String()
		}
		n.CreatedAt = now
		created = append(created, n)

		s.logger.Info("task reminder created",
			zap.String("taskId", task.ID),
			zap.String("number", task.Number),
			zap.String("type", string(n.Type)),
			zap.String("target", n.UserID))
	}

	if len(created) > 0 {
		if err := s.notifications.AppendAll(created); err != nil {
			s.logger.Error("failed to store task reminders, aborting sweep", zap.Error(err))
			return
		}
		s.push(created)
	}

	if err := s.notifications.Trim(s.cfg.RetentionLimit); err != nil {
		s.logger.Error("failed to trim notifications", zap.Error(err))
	}
}

// classify maps hours-until-start to a reminder, first match wins:
// overdue beyond one hour, starting within two hours, starting today.
func classify(task model.Task, hoursUntil float64) (model.Notification, bool) {
	n := model.Notification{
		Title:  titleTaskReminder,
		TaskID: task.ID,
		Link:   "/tasks?taskId=" + task.ID,
	}

	switch {
	case hoursUntil < -1:
		overdue := int(-math.Floor(hoursUntil))
		n.Type = model.NotificationError
		n.Message = fmt.Sprintf("Task %s is %d hours overdue - location: %s",
			task.Number, overdue, task.Location)
	case hoursUntil > 0 && hoursUntil <= 2:
		minutes := int(hoursUntil * 60)
		n.Type = model.NotificationWarning
		n.Message = fmt.Sprintf("Task %s starts soon (%d minutes left) - location: %s",
			task.Number, minutes, task.Location)
	case hoursUntil > 2 && hoursUntil <= 24:
		n.Type = model.NotificationInfo
		n.Message = fmt.Sprintf("Task %s starts today at %s - location: %s",
			task.Number, task.Time, task.Location)
	default:
		return model.Notification{}, false
	}

	return n, true
}

// CheckStaffWorkload counts today's tasks per staff member and warns
// the administrators once per day about anyone buried in pending work.
func (s *Scheduler) CheckStaffWorkload() {
	metrics.RecordSweep("workload")

	now := s.now()
	today := now.Format("2006-01-02")

	type workload struct {
		total     int
		completed int
		pending   int
	}
	byStaff := make(map[string]*workload)

	for _, task := range s.tasks.List() {
		if task.Date != today || task.Status == model.TaskStatusCancelled {
			continue
		}
		wl := byStaff[task.Staff]
		if wl == nil {
			wl = &workload{}
			byStaff[task.Staff] = wl
		}
		wl.total++
		if task.Status == model.TaskStatusCompleted {
			wl.completed++
		} else {
			wl.pending++
		}
	}

	var created []model.Notification
	for staff, wl := range byStaff {
		if wl.pending <= s.cfg.WorkloadThreshold {
			continue
		}

		// One workload warning per staff member per day. The staff
		// name leads the message, which is what the dedup matches on.
		if s.notifications.Any(func(n model.Notification) bool {
			return n.Title == titleWorkloadReminder &&
				n.CreatedAt.Format("2006-01-02") == today &&
				strings.HasPrefix(n.Message, staff+" ")
		}) {
			continue
		}

		created = append(created, model.Notification{
			ID:    uuid.NewString(),
			Title: titleWorkloadReminder,
			Message: fmt.Sprintf("%s has %d pending tasks today, consider rebalancing the schedule",
				staff, wl.pending),
			Type:      model.NotificationWarning,
			UserID:    model.TargetAll,
			CreatedAt: now,
		})

		s.logger.Info("workload reminder created",
			zap.String("staff", staff),
			zap.Int("pending", wl.pending))
	}

	if len(created) == 0 {
		return
	}
	if err := s.notifications.AppendAll(created); err != nil {
		s.logger.Error("failed to store workload reminders, aborting sweep", zap.Error(err))
		return
	}
	s.push(created)
}

func (s *Scheduler) push(ns []model.Notification) {
	if s.notifier == nil {
		return
	}
	for _, n := range ns {
		s.notifier.PushNotification(n)
	}
}
