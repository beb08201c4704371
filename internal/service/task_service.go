package service

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schedule-service/internal/model"
	"schedule-service/internal/repository"
)

// TaskUpdates carries the mutable task fields; nil means unchanged.
type TaskUpdates struct {
	Plate    *string
	Staff    *string
	Date     *string
	Time     *string
	Location *string
	Service  *string
	Note     *string
	Color    *string
	Type     *string
	Status   *model.TaskStatus
}

type TaskService struct {
	tasks    *repository.TaskRepository
	activity *repository.ActivityRepository
	versions *repository.VersionRepository
	logger   *zap.Logger
}

func NewTaskService(
	tasks *repository.TaskRepository,
	activity *repository.ActivityRepository,
	versions *repository.VersionRepository,
	logger *zap.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		activity: activity,
		versions: versions,
		logger:   logger,
	}
}

func (s *TaskService) List() []model.Task {
	return s.tasks.List()
}

func (s *TaskService) Get(id string) (model.Task, error) {
	return s.tasks.GetByID(id)
}

func (s *TaskService) Create(task model.Task, actor string) (model.Task, error) {
	task.ID = uuid.NewString()
	if task.Status == "" {
		task.Status = model.TaskStatusPending
	}
	task.CreatedBy = actor

	if err := s.tasks.Create(&task); err != nil {
		return model.Task{}, err
	}
	s.recordActivity(actor, "created", task.Number)

	s.logger.Info("task created",
		zap.String("taskId", task.ID),
		zap.String("number", task.Number),
		zap.String("actor", actor))
	return task, nil
}

// Update snapshots the previous state as a version, then applies the
// non-nil fields.
func (s *TaskService) Update(id string, updates TaskUpdates, actor string) (model.Task, error) {
	previous, err := s.tasks.GetByID(id)
	if err != nil {
		return model.Task{}, err
	}

	updated, err := s.tasks.Update(id, func(t *model.Task) error {
		applyString := func(dst *string, src *string) {
			if src != nil {
				*dst = *src
			}
		}
		applyString(&t.Plate, updates.Plate)
		applyString(&t.Staff, updates.Staff)
		applyString(&t.Date, updates.Date)
		applyString(&t.Time, updates.Time)
		applyString(&t.Location, updates.Location)
		applyString(&t.Service, updates.Service)
		applyString(&t.Note, updates.Note)
		applyString(&t.Color, updates.Color)
		applyString(&t.Type, updates.Type)
		if updates.Status != nil {
			t.Status = *updates.Status
		}
		return nil
	})
	if err != nil {
		return model.Task{}, err
	}

	if err := s.versions.Snapshot(previous, actor); err != nil {
		s.logger.Warn("failed to record task version", zap.Error(err))
	}
	s.recordActivity(actor, "updated", updated.Number)

	return updated, nil
}

func (s *TaskService) Delete(id string, actor string) error {
	deleted, err := s.tasks.Delete(id)
	if err != nil {
		return err
	}
	s.recordActivity(actor, "deleted", deleted.Number)
	return nil
}

func (s *TaskService) recordActivity(actor, action, number string) {
	if err := s.activity.Record(actor, action, number); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.Error(err))
	}
}

// TaskVersions lists stored snapshots, oldest first.
func (s *TaskService) TaskVersions(taskID string) []model.TaskVersion {
	return s.versions.ListByTask(taskID)
}
