package repository

import (
	"fmt"
	"time"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type TaskRepository struct {
	store *store.Store
}

func NewTaskRepository(s *store.Store) *TaskRepository {
	return &TaskRepository{store: s}
}

func (r *TaskRepository) List() []model.Task {
	var tasks []model.Task
	r.store.View(func(d *store.Data) {
		tasks = append(tasks, d.Tasks...)
	})
	return tasks
}

func (r *TaskRepository) GetByID(id string) (model.Task, error) {
	var (
		task  model.Task
		found bool
	)
	r.store.View(func(d *store.Data) {
		for _, t := range d.Tasks {
			if t.ID == id {
				task = t
				found = true
				return
			}
		}
	})
	if !found {
		return model.Task{}, ErrNotFound
	}
	return task, nil
}

// Create assigns the sequential work-order number (W001, W002, ...)
// when the task has none, and appends it to the document.
func (r *TaskRepository) Create(task *model.Task) error {
	return r.store.Update(func(d *store.Data) error {
		if task.Number == "" {
			task.Number = fmt.Sprintf("W%03d", len(d.Tasks)+1)
		}
		now := time.Now()
		task.CreatedAt = now
		task.UpdatedAt = now
		d.Tasks = append(d.Tasks, *task)
		return nil
	})
}

// Update applies fn to the stored task under the write lock and
// returns the updated copy.
func (r *TaskRepository) Update(id string, fn func(t *model.Task) error) (model.Task, error) {
	var updated model.Task
	err := r.store.Update(func(d *store.Data) error {
		for i := range d.Tasks {
			if d.Tasks[i].ID != id {
				continue
			}
			if err := fn(&d.Tasks[i]); err != nil {
				return err
			}
			d.Tasks[i].UpdatedAt = time.Now()
			updated = d.Tasks[i]
			return nil
		}
		return ErrNotFound
	})
	return updated, err
}

func (r *TaskRepository) Delete(id string) (model.Task, error) {
	var deleted model.Task
	err := r.store.Update(func(d *store.Data) error {
		for i, t := range d.Tasks {
			if t.ID == id {
				deleted = t
				d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
	return deleted, err
}
