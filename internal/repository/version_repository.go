package repository

import (
	"time"

	"github.com/google/uuid"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type VersionRepository struct {
	store *store.Store
}

func NewVersionRepository(s *store.Store) *VersionRepository {
	return &VersionRepository{store: s}
}

func (r *VersionRepository) ListByTask(taskID string) []model.TaskVersion {
	var out []model.TaskVersion
	r.store.View(func(d *store.Data) {
		for _, v := range d.TaskVersions {
			if v.TaskID == taskID {
				out = append(out, v)
			}
		}
	})
	return out
}

// Snapshot stores the pre-update state of a task.
func (r *VersionRepository) Snapshot(task model.Task, changedBy string) error {
	return r.store.Update(func(d *store.Data) error {
		d.TaskVersions = append(d.TaskVersions, model.TaskVersion{
			ID:        uuid.NewString(),
			TaskID:    task.ID,
			Snapshot:  task,
			ChangedBy: changedBy,
			CreatedAt: time.Now(),
		})
		return nil
	})
}
